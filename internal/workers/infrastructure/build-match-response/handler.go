// internal/workers/infrastructure/build-match-response/handler.go
package buildmatchresponse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"staffing-workers/internal/common/logger"
	"staffing-workers/internal/common/metrics"
	"staffing-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"
)

const TaskType = "build-match-response"

var ErrResponseValidationFailed = errors.New("RESPONSE_VALIDATION_FAILED")

// responseSchema is the contract the presentation layer consumes. Validating
// on the way out catches pipeline regressions before they reach a client.
const responseSchema = `{
	"type": "object",
	"required": ["runId", "requisitionId", "status", "results", "pagination", "metadata"],
	"properties": {
		"runId": {"type": "string", "minLength": 1},
		"requisitionId": {"type": "string", "minLength": 1},
		"status": {"type": "string", "enum": ["success"]},
		"results": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["cvId", "candidateId", "score", "matchedSkills", "missingSkills"],
				"properties": {
					"cvId": {"type": "string", "minLength": 1},
					"candidateId": {"type": "string", "minLength": 1},
					"score": {"type": "integer", "minimum": 0, "maximum": 105},
					"matchedSkills": {"type": "array", "items": {"type": "string"}},
					"missingSkills": {"type": "array", "items": {"type": "string"}}
				}
			}
		},
		"pagination": {
			"type": "object",
			"required": ["page", "pageSize", "totalFiltered", "totalPages"],
			"properties": {
				"page": {"type": "integer", "minimum": 1},
				"pageSize": {"type": "integer", "minimum": 1},
				"totalFiltered": {"type": "integer", "minimum": 0},
				"totalPages": {"type": "integer", "minimum": 0}
			}
		},
		"metadata": {
			"type": "object",
			"required": ["timestamp", "version"]
		}
	}
}`

type Handler struct {
	config *Config
	schema *gojsonschema.Schema
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(responseSchema))
	if err != nil {
		panic(fmt.Sprintf("invalid match response schema: %v", err))
	}

	return &Handler{
		config: config,
		schema: schema,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "RESPONSE_VALIDATION_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	results := input.Results
	if results == nil {
		results = []models.MatchResult{}
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	pageSize := input.PageSize
	if pageSize < 1 {
		pageSize = len(results)
		if pageSize < 1 {
			pageSize = 1
		}
	}

	payload := ResponsePayload{
		RunID:         input.RunID,
		RequisitionID: input.RequisitionID,
		Status:        "success",
		Results:       results,
		Pagination: Pagination{
			Page:          page,
			PageSize:      pageSize,
			TotalFiltered: input.TotalFiltered,
			TotalPages:    input.TotalPages,
			HasMore:       input.HasMore,
		},
		Excluded: input.Excluded,
		Metadata: ResponseMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   h.config.AppVersion,
		},
	}

	if err := h.validatePayload(payload); err != nil {
		metrics.MatchingRunsTotal.WithLabelValues("invalid_response").Inc()
		return nil, err
	}

	metrics.MatchingRunsTotal.WithLabelValues("success").Inc()
	return &Output{Response: payload}, nil
}

func (h *Handler) validatePayload(payload ResponsePayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: marshal payload: %v", ErrResponseValidationFailed, err)
	}

	result, err := h.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrResponseValidationFailed, err)
	}

	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return fmt.Errorf("%w: %s", ErrResponseValidationFailed, strings.Join(problems, "; "))
	}
	return nil
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

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
