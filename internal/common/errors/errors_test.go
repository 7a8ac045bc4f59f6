// internal/common/errors/errors_test.go
package errors

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Retry Policy Tests
// ==========================

func TestGetRetryCount(t *testing.T) {
	tests := []struct {
		code    ErrorCode
		retries int
	}{
		{ErrCodeQueryTimeout, 2},
		{ErrCodeSearchTimeout, 2},
		{ErrCodeDatabaseConnectionFailed, 3},
		{ErrCodeElasticsearchConnectionFailed, 3},
		{ErrCodePoolSearchFailed, 3},
		{ErrCodeQueryExecutionFailed, 3},
		{ErrCodeSearchQueryFailed, 3},
		{ErrCodeUpstreamMatchesFailed, 3},
		{ErrCodeRequisitionNotFound, 0},
		{ErrCodeInvalidMatchRequest, 0},
		{ErrCodeInvalidRefinementFormat, 0},
		{ErrCodeResponseValidationFailed, 0},
		{ErrCodeCandidateEnrichmentFail, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.retries, GetRetryCount(tt.code))
			assert.Equal(t, tt.retries > 0, IsRetryable(tt.code))
		})
	}
}

// ==========================
// BPMN Conversion Tests
// ==========================

func TestConvertToBPMNError_MapsFields(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	stdErr := &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Database query timed out",
		Details:   "queryType=requisition_details",
		Retryable: true,
		Metadata:  map[string]interface{}{"queryType": "requisition_details"},
		Timestamp: ts,
	}

	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "QUERY_TIMEOUT", bpmnErr.Code)
	assert.Equal(t, "Database query timed out", bpmnErr.Message)
	assert.Equal(t, "queryType=requisition_details", bpmnErr.Details)
	assert.True(t, bpmnErr.Retryable)
	assert.Equal(t, 2, bpmnErr.Retries)
	assert.Equal(t, "2026-03-14T09:30:00Z", bpmnErr.ErrorVariables["timestamp"])
}

func TestBPMNError_ToErrorVariables(t *testing.T) {
	bpmnErr := &BPMNError{
		Code:      "POOL_SEARCH_FAILED",
		Message:   "Candidate pool search failed",
		Details:   "dial tcp: connection refused",
		Retryable: true,
		ErrorVariables: map[string]interface{}{
			"index": "candidate_pool",
		},
	}

	vars := bpmnErr.ToErrorVariables()

	assert.Equal(t, "POOL_SEARCH_FAILED", vars["errorCode"])
	assert.Equal(t, "Candidate pool search failed", vars["errorMessage"])
	assert.Equal(t, "dial tcp: connection refused", vars["errorDetails"])
	assert.Equal(t, true, vars["retryable"])
	assert.Equal(t, "candidate_pool", vars["index"])
}

// ==========================
// Constructor Tests
// ==========================

func TestConstructors_RetryabilityAndDetails(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.5:9200: i/o timeout")

	requisition := NewRequisitionNotFoundError("req-404")
	assert.Equal(t, ErrCodeRequisitionNotFound, requisition.Code)
	assert.False(t, requisition.Retryable)
	assert.Equal(t, "requisitionId=req-404", requisition.Details)

	pool := NewPoolSearchFailedError(cause)
	assert.Equal(t, ErrCodePoolSearchFailed, pool.Code)
	assert.True(t, pool.Retryable)
	assert.Equal(t, cause.Error(), pool.Details)

	enrichment := NewCandidateEnrichmentError("cand-7", cause)
	assert.Equal(t, ErrCodeCandidateEnrichmentFail, enrichment.Code)
	assert.False(t, enrichment.Retryable)
	assert.Equal(t, "cand-7", enrichment.Metadata["candidateId"])

	upstream := NewUpstreamMatchesFailedError(cause)
	assert.Equal(t, ErrCodeUpstreamMatchesFailed, upstream.Code)
	assert.True(t, upstream.Retryable)
}

func TestStandardError_ErrorFormat(t *testing.T) {
	err := NewInvalidMatchRequestError("requisitionId is required")
	assert.Equal(t, "StandardError[INVALID_MATCH_REQUEST]: Match request failed validation", err.Error())

	var stdErr *StandardError
	wrapped := fmt.Errorf("handle job: %w", err)
	require.ErrorAs(t, wrapped, &stdErr)
	assert.Equal(t, ErrCodeInvalidMatchRequest, stdErr.Code)
}

// ==========================
// Transient Detection Tests
// ==========================

func TestIsTransientNetworkError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{"nil", nil, false},
		{"connection refused", errors.New("dial tcp 127.0.0.1:5432: connection refused"), true},
		{"connection reset", errors.New("read tcp: connection reset by peer"), true},
		{"timeout", errors.New("i/o Timeout waiting for response"), true},
		{"dns", errors.New("lookup es.internal: no such host"), true},
		{"constraint violation", errors.New("pq: duplicate key value violates unique constraint"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.transient, IsTransientNetworkError(tt.err))
		})
	}
}
