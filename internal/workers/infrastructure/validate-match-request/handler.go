// internal/workers/infrastructure/validate-match-request/handler.go
package validatematchrequest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"staffing-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
)

const TaskType = "validate-match-request"

var ErrInvalidMatchRequest = errors.New("INVALID_MATCH_REQUEST")

// requestSchema validates the inbound match request before the pipeline
// spends any work on it. Refinement values are range-checked here so the
// facet filter downstream can trust them.
const requestSchema = `{
	"type": "object",
	"required": ["requisitionId"],
	"properties": {
		"requisitionId": {"type": "string", "minLength": 1},
		"refinements": {
			"type": "object",
			"properties": {
				"searchText": {"type": "string"},
				"minScore": {"type": "number", "minimum": 0, "maximum": 105},
				"hideLowScore": {"type": "boolean"},
				"onlyFullyMatched": {"type": "boolean"},
				"page": {"type": "integer", "minimum": 1}
			},
			"additionalProperties": false
		}
	}
}`

type Handler struct {
	config *Config
	schema *gojsonschema.Schema
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(requestSchema))
	if err != nil {
		// The schema is a compile-time constant; failing to parse it is a bug.
		panic(fmt.Sprintf("invalid match request schema: %v", err))
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
		h.failJob(client, job, "INVALID_MATCH_REQUEST", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	doc := map[string]interface{}{
		"requisitionId": input.RequisitionID,
	}
	if input.Refinements != nil {
		doc["refinements"] = input.Refinements
	}

	result, err := h.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMatchRequest, err)
	}

	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidMatchRequest, strings.Join(problems, "; "))
	}

	runID := uuid.New().String()

	h.logger.Info("match request accepted", map[string]interface{}{
		"requisitionId": input.RequisitionID,
		"runId":         runID,
	})

	return &Output{
		Valid:         true,
		RunID:         runID,
		RequisitionID: input.RequisitionID,
		Refinements:   input.Refinements,
	}, nil
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
