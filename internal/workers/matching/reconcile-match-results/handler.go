// internal/workers/matching/reconcile-match-results/handler.go
package reconcilematchresults

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"

	"staffing-workers/internal/catalog"
	"staffing-workers/internal/common/logger"
	"staffing-workers/internal/common/upstream"
	"staffing-workers/internal/matching"
	"staffing-workers/internal/models"
)

const TaskType = "reconcile-match-results"

var ErrUpstreamMatchesFailed = errors.New("UPSTREAM_MATCHES_FAILED")

// MatchFeed is the subset of the upstream matcher client the reconciler uses.
type MatchFeed interface {
	GetMatches(ctx context.Context, requisitionID string) ([]upstream.PreScoredMatch, error)
}

type Handler struct {
	config   *Config
	feed     MatchFeed
	resolver *catalog.Resolver
	logger   logger.Logger
}

func NewHandler(config *Config, feed MatchFeed, db *sql.DB, redisClient *redis.Client, log logger.Logger) *Handler {
	scopedLog := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		feed:     feed,
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
		errorCode := "RECONCILE_FAILED"
		if errors.Is(err, ErrUpstreamMatchesFailed) {
			errorCode = "UPSTREAM_MATCHES_FAILED"
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	feedEntries, err := h.feed.GetMatches(ctx, input.Requisition.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamMatchesFailed, err)
	}

	requiredNames := h.requiredSkillNames(ctx, input)

	// Feed entries keyed by CV id; the first entry per CV wins so a noisy
	// feed cannot double-place a CV.
	preScored := make(map[string]upstream.PreScoredMatch, len(feedEntries))
	for _, entry := range feedEntries {
		if entry.CVID == "" || entry.Score == nil {
			continue
		}
		if _, seen := preScored[entry.CVID]; !seen {
			preScored[entry.CVID] = entry
		}
	}

	results := make([]models.MatchResult, 0, len(input.Results))
	seen := make(map[string]bool, len(input.Results))
	fromFeed := 0

	for _, local := range input.Results {
		if seen[local.CVID] {
			continue
		}
		seen[local.CVID] = true

		entry, covered := preScored[local.CVID]
		if !covered {
			// Locally scored results get the same uniform missing-skills
			// treatment as feed results.
			local.MissingSkills = matching.MissingFrom(requiredNames, local.MatchedSkills)
			results = append(results, local)
			continue
		}

		merged := local
		merged.Score = matching.Clamp(int(*entry.Score))
		if entry.MatchedSkills != nil {
			merged.MatchedSkills = entry.MatchedSkills
		}
		merged.MissingSkills = matching.MissingFrom(requiredNames, merged.MatchedSkills)
		results = append(results, merged)
		fromFeed++
	}

	h.logger.Info("results reconciled", map[string]interface{}{
		"runId":     input.RunID,
		"total":     len(results),
		"fromFeed":  fromFeed,
		"fromLocal": len(results) - fromFeed,
	})

	return &Output{
		RunID:     input.RunID,
		Results:   results,
		FromFeed:  fromFeed,
		FromLocal: len(results) - fromFeed,
	}, nil
}

// requiredSkillNames resolves the requisition's skill ids with a raw-id
// fallback, matching what the scoring stage used.
func (h *Handler) requiredSkillNames(ctx context.Context, input *Input) []string {
	names, err := h.resolver.ResolveSkillNames(ctx, input.Requisition.RequiredSkillIDs)
	if err != nil {
		h.logger.Warn("skill name resolution failed, using raw ids", map[string]interface{}{
			"runId": input.RunID,
			"error": err.Error(),
		})
		names = map[string]string{}
	}

	resolved := make([]string, len(input.Requisition.RequiredSkillIDs))
	for i, id := range input.Requisition.RequiredSkillIDs {
		if name, ok := names[id]; ok {
			resolved[i] = name
		} else {
			resolved[i] = id
		}
	}
	return resolved
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
