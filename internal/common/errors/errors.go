// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Matching pipeline
	ErrCodeRequisitionNotFound     ErrorCode = "REQUISITION_NOT_FOUND"
	ErrCodePoolSearchFailed        ErrorCode = "POOL_SEARCH_FAILED"
	ErrCodeCandidateEnrichmentFail ErrorCode = "CANDIDATE_ENRICHMENT_FAILED"
	ErrCodeUpstreamMatchesFailed   ErrorCode = "UPSTREAM_MATCHES_FAILED"
	ErrCodeReconcileFailed         ErrorCode = "RECONCILE_FAILED"
	ErrCodeInvalidRefinementFormat ErrorCode = "INVALID_REFINEMENT_FORMAT"
	ErrCodeInvalidMatchRequest     ErrorCode = "INVALID_MATCH_REQUEST"

	// Data access
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeInvalidQueryType         ErrorCode = "INVALID_QUERY_TYPE"

	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeSearchQueryFailed             ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout                 ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound                 ErrorCode = "INDEX_NOT_FOUND"

	// Presentation
	ErrCodeResponseValidationFailed ErrorCode = "RESPONSE_VALIDATION_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewRequisitionNotFoundError is fatal for the matching run: no partial
// results are produced when the requisition itself cannot be loaded.
func NewRequisitionNotFoundError(requisitionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequisitionNotFound,
		Message:   "Requisition not found",
		Details:   fmt.Sprintf("requisitionId=%s", requisitionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPoolSearchFailedError creates a retryable candidate pool search error.
func NewPoolSearchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePoolSearchFailed,
		Message:   "Candidate pool search failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCandidateEnrichmentError marks one candidate's enrichment failure.
// It is recovered locally by excluding the candidate, never thrown to BPMN.
func NewCandidateEnrichmentError(candidateID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCandidateEnrichmentFail,
		Message:   "Candidate enrichment failed",
		Details:   err.Error(),
		Retryable: false,
		Metadata:  map[string]interface{}{"candidateId": candidateID},
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamMatchesFailedError creates a retryable upstream feed error.
func NewUpstreamMatchesFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamMatchesFailed,
		Message:   "Pre-scored match feed unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRefinementError creates a non-retryable refinement config error.
func NewInvalidRefinementError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRefinementFormat,
		Message:   "Invalid refinement configuration",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidMatchRequestError creates a non-retryable request validation error.
func NewInvalidMatchRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidMatchRequest,
		Message:   "Match request failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionError creates a retryable database error.
func NewQueryExecutionError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable database timeout error.
func NewQueryTimeoutError(queryType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Database query timed out",
		Details:   fmt.Sprintf("queryType=%s", queryType),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search error.
func NewSearchQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Search query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewResponseValidationError creates a non-retryable response schema error.
func NewResponseValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeResponseValidationFailed,
		Message:   "Response payload failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Conversion & Policy
// ==========================

// ConvertToBPMNError maps a StandardError to its BPMN form.
func ConvertToBPMNError(err *StandardError) *BPMNError {
	return &BPMNError{
		Code:      string(err.Code),
		Message:   err.Message,
		Details:   err.Details,
		Retryable: err.Retryable,
		Retries:   GetRetryCount(err.Code),
		ErrorVariables: map[string]interface{}{
			"timestamp": err.Timestamp.Format(time.RFC3339),
			"metadata":  err.Metadata,
		},
	}
}

// GetRetryCount returns how many retries a given error code deserves.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeQueryTimeout, ErrCodeSearchTimeout:
		return 2
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodePoolSearchFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeUpstreamMatchesFailed:
		return 3
	default:
		return 0
	}
}

// IsRetryable reports whether an error code is worth retrying at all.
func IsRetryable(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// IsTransientNetworkError matches connection-level failure strings that the
// drivers do not wrap in typed errors.
func IsTransientNetworkError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, needle := range []string{"connection refused", "connection reset", "timeout", "temporary failure", "no such host"} {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}
