// internal/workers/data-access/query-postgresql/handler.go
package querypostgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "staffing-workers/internal/common/errors"
	"staffing-workers/internal/common/logger"
	"staffing-workers/internal/models"
	"staffing-workers/internal/workers/data-access/query-postgresql/queries"
)

const (
	TaskType = "query-postgresql"
)

var (
	ErrDatabaseConnectionFailed = errors.New("DATABASE_CONNECTION_FAILED")
	ErrQueryExecutionFailed     = errors.New("QUERY_EXECUTION_FAILED")
	ErrQueryTimeout             = errors.New("QUERY_TIMEOUT")
	ErrInvalidQueryType         = errors.New("INVALID_QUERY_TYPE")
	ErrRequisitionNotFound      = errors.New("REQUISITION_NOT_FOUND")
)

type Handler struct {
	config *Config
	db     *sql.DB
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		db:     db,
		errors: apperrors.NewErrorHandler(scoped),
		logger: scoped,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errors.HandleJobError(context.Background(), client, job, fmt.Errorf("parse input: %w", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errors.HandleJobError(context.Background(), client, job, h.toStandardError(err))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}

	queryType := models.QueryType(input.QueryType)
	if _, exists := queries.Registry[queryType]; !exists {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQueryType, input.QueryType)
	}

	params := make(map[string]interface{})
	if input.RequisitionID != "" {
		params["requisitionId"] = input.RequisitionID
	}
	if input.CandidateID != "" {
		params["candidateId"] = input.CandidateID
	}
	if len(input.CandidateIDs) > 0 {
		params["candidateIds"] = input.CandidateIDs
	}
	if len(input.SkillIDs) > 0 {
		params["skillIds"] = input.SkillIDs
	}
	if len(input.GroupIDs) > 0 {
		params["groupIds"] = input.GroupIDs
	}
	if input.LevelID != "" {
		params["levelId"] = input.LevelID
	}

	data, rowCount, execTime, err := queries.Execute(ctx, h.db, queryType, params)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrQueryTimeout
		}
		// A missing requisition is terminal for the run, not a transient fault.
		if queryType == models.QueryTypeRequisitionDetails && errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrRequisitionNotFound, input.RequisitionID)
		}
		return nil, fmt.Errorf("%w: %v", ErrQueryExecutionFailed, err)
	}

	return &Output{
		Data:               data,
		RowCount:           rowCount,
		QueryExecutionTime: execTime,
	}, nil
}

// toStandardError maps execute's sentinel errors onto the shared error
// taxonomy so retry counts and BPMN codes stay consistent across workers.
func (h *Handler) toStandardError(err error) error {
	switch {
	case errors.Is(err, ErrQueryTimeout):
		return &apperrors.StandardError{
			Code:      apperrors.ErrCodeQueryTimeout,
			Message:   "Database query timed out",
			Retryable: true,
		}
	case errors.Is(err, ErrInvalidQueryType):
		return &apperrors.StandardError{
			Code:      apperrors.ErrCodeInvalidQueryType,
			Message:   "Unknown query type",
			Details:   err.Error(),
			Retryable: false,
		}
	case errors.Is(err, ErrRequisitionNotFound):
		return &apperrors.StandardError{
			Code:      apperrors.ErrCodeRequisitionNotFound,
			Message:   "Requisition not found",
			Details:   err.Error(),
			Retryable: false,
		}
	case errors.Is(err, ErrDatabaseConnectionFailed):
		return &apperrors.StandardError{
			Code:      apperrors.ErrCodeDatabaseConnectionFailed,
			Message:   "Database connection failed",
			Details:   err.Error(),
			Retryable: true,
		}
	case errors.Is(err, ErrQueryExecutionFailed):
		return apperrors.NewQueryExecutionError(err)
	}
	return err
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
