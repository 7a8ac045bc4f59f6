// internal/workers/matching/refine-match-results/handler.go
package refinematchresults

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"staffing-workers/internal/common/logger"
	"staffing-workers/internal/models"
)

const TaskType = "refine-match-results"

var ErrInvalidRefinementFormat = errors.New("INVALID_REFINEMENT_FORMAT")

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
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
		h.failJob(client, job, "INVALID_REFINEMENT_FORMAT", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	refinements := input.Refinements
	if refinements == nil {
		refinements = &Refinements{}
	}

	if err := validateRefinements(refinements); err != nil {
		return nil, err
	}

	filtered := input.Results
	filtered = h.applySearchText(filtered, refinements.SearchText)
	filtered = h.applyMinScore(filtered, refinements.MinScore)
	if refinements.HideLowScore {
		filtered = h.applyMinScoreValue(filtered, h.config.HideLowScoreThreshold)
	}
	if refinements.OnlyFullyMatched {
		filtered = h.applyFullyMatched(filtered)
	}

	page := refinements.Page
	if page < 1 {
		page = 1
	}

	pageResults, totalPages := paginate(filtered, page, h.config.PageSize)

	h.logger.Info("results refined", map[string]interface{}{
		"runId":         input.RunID,
		"totalIn":       len(input.Results),
		"totalFiltered": len(filtered),
		"page":          page,
	})

	return &Output{
		RunID:         input.RunID,
		Results:       pageResults,
		Page:          page,
		PageSize:      h.config.PageSize,
		TotalFiltered: len(filtered),
		TotalPages:    totalPages,
		HasMore:       page < totalPages,
	}, nil
}

func validateRefinements(r *Refinements) error {
	if r.MinScore != nil && (*r.MinScore < 0 || *r.MinScore > 105) {
		return fmt.Errorf("%w: minScore %d out of range", ErrInvalidRefinementFormat, *r.MinScore)
	}
	if r.Page < 0 {
		return fmt.Errorf("%w: page must be positive", ErrInvalidRefinementFormat)
	}
	return nil
}

// applySearchText keeps results whose candidate name, email, phone, or CV
// version label contains the needle, case-insensitively. Version labels
// match the "v3" form users see in the result list.
func (h *Handler) applySearchText(results []models.MatchResult, searchText string) []models.MatchResult {
	needle := strings.ToLower(strings.TrimSpace(searchText))
	if needle == "" {
		return results
	}

	var kept []models.MatchResult
	for _, r := range results {
		haystacks := []string{
			strings.ToLower(r.CandidateName),
			strings.ToLower(r.CandidateEmail),
			strings.ToLower(r.CandidatePhone),
			fmt.Sprintf("v%d", r.CVVersion),
		}
		for _, hay := range haystacks {
			if hay != "" && strings.Contains(hay, needle) {
				kept = append(kept, r)
				break
			}
		}
	}
	return kept
}

func (h *Handler) applyMinScore(results []models.MatchResult, minScore *int) []models.MatchResult {
	if minScore == nil {
		return results
	}
	return h.applyMinScoreValue(results, *minScore)
}

func (h *Handler) applyMinScoreValue(results []models.MatchResult, minScore int) []models.MatchResult {
	var kept []models.MatchResult
	for _, r := range results {
		if r.Score >= minScore {
			kept = append(kept, r)
		}
	}
	return kept
}

func (h *Handler) applyFullyMatched(results []models.MatchResult) []models.MatchResult {
	var kept []models.MatchResult
	for _, r := range results {
		if r.FullyMatched() {
			kept = append(kept, r)
		}
	}
	return kept
}

// paginate slices one fixed-size page out of the filtered list. Pages past
// the end yield an empty page, never an error.
func paginate(results []models.MatchResult, page, pageSize int) ([]models.MatchResult, int) {
	totalPages := (len(results) + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start >= len(results) {
		return []models.MatchResult{}, totalPages
	}

	end := start + pageSize
	if end > len(results) {
		end = len(results)
	}
	return results[start:end], totalPages
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
