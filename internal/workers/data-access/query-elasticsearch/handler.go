// internal/workers/data-access/query-elasticsearch/handler.go
package queryelasticsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"

	apperrors "staffing-workers/internal/common/errors"
	"staffing-workers/internal/common/logger"
	"staffing-workers/internal/workers/data-access/query-elasticsearch/queries"
)

const (
	TaskType = "query-elasticsearch"
)

var (
	ErrElasticsearchConnectionFailed = errors.New("ELASTICSEARCH_CONNECTION_FAILED")
	ErrPoolSearchFailed              = errors.New("POOL_SEARCH_FAILED")
	ErrSearchTimeout                 = errors.New("SEARCH_TIMEOUT")
	ErrIndexNotFound                 = errors.New("INDEX_NOT_FOUND")
)

type Handler struct {
	config *Config
	client *elasticsearch.Client
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		client: client,
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
		return nil, errors.New("input cannot be nil")
	}

	eq := queries.PoolQuery{
		Index:     input.IndexName,
		QueryType: input.QueryType,
		Filters:   input.Filters,
	}
	if eq.Index == "" {
		eq.Index = h.config.PoolIndex
	}
	if input.Pagination != nil {
		eq.Pagination.From = input.Pagination.From
		eq.Pagination.Size = input.Pagination.Size
	}
	if eq.Pagination.Size <= 0 || eq.Pagination.Size > h.config.MaxPoolSize {
		eq.Pagination.Size = h.config.MaxPoolSize
	}

	result, err := queries.Execute(ctx, h.client, eq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrSearchTimeout
		}
		if errors.Is(err, queries.ErrMissingIndex) {
			return nil, ErrIndexNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPoolSearchFailed, err)
	}

	h.logger.Info("pool search completed", map[string]interface{}{
		"index":     eq.Index,
		"totalHits": result.TotalHits,
		"returned":  len(result.Data),
		"took":      result.Took,
	})

	return &Output{
		Data:      result.Data,
		TotalHits: result.TotalHits,
		MaxScore:  result.MaxScore,
		Took:      result.Took,
	}, nil
}

// toStandardError maps execute's sentinel errors onto the shared error
// taxonomy so retry counts and BPMN codes stay consistent across workers.
func (h *Handler) toStandardError(err error) error {
	switch {
	case errors.Is(err, ErrSearchTimeout):
		return &apperrors.StandardError{
			Code:      apperrors.ErrCodeSearchTimeout,
			Message:   "Candidate pool search timed out",
			Retryable: true,
		}
	case errors.Is(err, ErrIndexNotFound):
		return &apperrors.StandardError{
			Code:      apperrors.ErrCodeIndexNotFound,
			Message:   "Candidate pool index does not exist",
			Details:   err.Error(),
			Retryable: false,
		}
	case errors.Is(err, ErrElasticsearchConnectionFailed):
		return &apperrors.StandardError{
			Code:      apperrors.ErrCodeElasticsearchConnectionFailed,
			Message:   "Elasticsearch connection failed",
			Details:   err.Error(),
			Retryable: true,
		}
	case errors.Is(err, ErrPoolSearchFailed):
		return apperrors.NewPoolSearchFailedError(err)
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
