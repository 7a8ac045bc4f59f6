// internal/workers/matching/calculate-fit-score/handler.go
package calculatefitscore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"

	"staffing-workers/internal/catalog"
	"staffing-workers/internal/common/logger"
	"staffing-workers/internal/common/metrics"
	"staffing-workers/internal/matching"
	"staffing-workers/internal/models"
)

const TaskType = "calculate-fit-score"

type Handler struct {
	config   *Config
	resolver *catalog.Resolver
	logger   logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redisClient *redis.Client, log logger.Logger) *Handler {
	scopedLog := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		resolver: catalog.NewResolver(db, redisClient, config.CacheTTL, scopedLog),
		logger:   scopedLog,
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
		h.failJob(client, job, "FIT_SCORE_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	names := h.resolveAllSkillNames(ctx, input)

	requiredNames := make([]string, len(input.Requisition.RequiredSkillIDs))
	for i, id := range input.Requisition.RequiredSkillIDs {
		requiredNames[i] = names[id]
	}

	candidates := make(map[string]models.CandidateProfile, len(input.Candidates))
	candidateSkillNames := make(map[string][]string, len(input.Candidates))
	for _, candidate := range input.Candidates {
		candidates[candidate.ID] = candidate
		skillNames := make([]string, len(candidate.Skills))
		for i, claim := range candidate.Skills {
			skillNames[i] = names[claim.SkillID]
		}
		candidateSkillNames[candidate.ID] = skillNames
	}

	results := []models.MatchResult{}
	for _, cv := range input.CVs {
		candidate, ok := candidates[cv.CandidateID]
		if !ok {
			// CVs of filtered-out candidates are not an error, just noise.
			continue
		}

		result := matching.Score(matching.ScoreInput{
			Requisition:         input.Requisition,
			RequiredSkillNames:  requiredNames,
			Candidate:           candidate,
			CandidateSkillNames: candidateSkillNames[candidate.ID],
			CV:                  cv,
		})
		results = append(results, result)
		metrics.CandidatesScored.Inc()
	}

	h.logger.Info("fit scores calculated", map[string]interface{}{
		"runId":   input.RunID,
		"cvs":     len(input.CVs),
		"results": len(results),
	})

	return &Output{
		RunID:   input.RunID,
		Results: results,
	}, nil
}

// resolveAllSkillNames resolves every skill id the run touches in one catalog
// round trip. Unresolvable ids fall back to the raw id so scoring still has a
// stable comparison key.
func (h *Handler) resolveAllSkillNames(ctx context.Context, input *Input) map[string]string {
	idSet := map[string]bool{}
	for _, id := range input.Requisition.RequiredSkillIDs {
		idSet[id] = true
	}
	for _, candidate := range input.Candidates {
		for _, claim := range candidate.Skills {
			idSet[claim.SkillID] = true
		}
	}

	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	names, err := h.resolver.ResolveSkillNames(ctx, ids)
	if err != nil {
		h.logger.Warn("skill name resolution failed, using raw ids", map[string]interface{}{
			"runId": input.RunID,
			"error": err.Error(),
		})
		names = map[string]string{}
	}

	for _, id := range ids {
		if _, ok := names[id]; !ok {
			names[id] = id
		}
	}
	return names
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
