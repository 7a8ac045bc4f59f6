// internal/workers/matching/filter-eligible-candidates/handler.go
package filtereligiblecandidates

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"staffing-workers/internal/catalog"
	"staffing-workers/internal/common/logger"
	"staffing-workers/internal/common/metrics"
	"staffing-workers/internal/models"
)

const TaskType = "filter-eligible-candidates"

type Handler struct {
	config   *Config
	db       *sql.DB
	resolver *catalog.Resolver
	logger   logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redisClient *redis.Client, log logger.Logger) *Handler {
	scopedLog := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		db:       db,
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
		h.failJob(client, job, "ELIGIBILITY_FILTER_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	excluded := map[string]int{}

	// Candidates hired for this requisition are out, whichever CV got them in.
	hiredCandidates := h.hiredCandidateSet(input.CVs, input.Applications)

	var statusEligible []models.CandidateProfile
	for _, candidate := range input.Candidates {
		switch {
		case hiredCandidates[candidate.ID]:
			excluded[ReasonHired]++
			metrics.CandidatesExcluded.WithLabelValues(ReasonHired).Inc()
		case candidate.Status.Committed():
			excluded[ReasonBlockingStatus]++
			metrics.CandidatesExcluded.WithLabelValues(ReasonBlockingStatus).Inc()
		default:
			statusEligible = append(statusEligible, candidate)
		}
	}

	eligible, verificationExcluded := h.filterByVerification(ctx, input.RunID, statusEligible)
	for reason, count := range verificationExcluded {
		excluded[reason] += count
	}

	eligibleIDs := make(map[string]bool, len(eligible))
	for _, candidate := range eligible {
		eligibleIDs[candidate.ID] = true
	}

	var cvs []models.CVRecord
	for _, cv := range input.CVs {
		if eligibleIDs[cv.CandidateID] {
			cvs = append(cvs, cv)
		}
	}

	h.logger.Info("eligibility filter completed", map[string]interface{}{
		"runId":    input.RunID,
		"poolSize": len(input.Candidates),
		"eligible": len(eligible),
		"excluded": excluded,
	})

	if eligible == nil {
		eligible = []models.CandidateProfile{}
	}
	if cvs == nil {
		cvs = []models.CVRecord{}
	}

	return &Output{
		RunID:         input.RunID,
		RequisitionID: input.RequisitionID,
		Candidates:    eligible,
		CVs:           cvs,
		Excluded:      excluded,
	}, nil
}

// hiredCandidateSet maps CV ownership through applications with Hired status.
func (h *Handler) hiredCandidateSet(cvs []models.CVRecord, applications []models.Application) map[string]bool {
	cvOwner := make(map[string]string, len(cvs))
	for _, cv := range cvs {
		cvOwner[cv.ID] = cv.CandidateID
	}

	hired := map[string]bool{}
	for _, app := range applications {
		if app.Status != models.ApplicationStatusHired {
			continue
		}
		if owner, ok := cvOwner[app.CVID]; ok {
			hired[owner] = true
		}
	}
	return hired
}

// filterByVerification checks skill-group verification for each candidate
// with bounded concurrency. The groups to check are derived from the
// candidate's claimed skills through the catalog, merged with any groups
// already on the profile. Verification is fail-closed: a candidate stays
// only when every touched group is verified and not flagged, and any lookup
// or resolution failure drops the candidate rather than letting them
// through unchecked.
func (h *Handler) filterByVerification(ctx context.Context, runID string, candidates []models.CandidateProfile) ([]models.CandidateProfile, map[string]int) {
	type verdict struct {
		keep   bool
		reason string
		groups []string
	}

	groupBySkill, resolveErr := h.skillGroupIndex(ctx, candidates)

	verdicts := make([]verdict, len(candidates))

	var g errgroup.Group
	g.SetLimit(h.config.EnrichmentConcurrency)

	var mu sync.Mutex
	for i := range candidates {
		i := i
		candidate := candidates[i]
		g.Go(func() error {
			v := verdict{keep: true}

			if len(candidate.Skills) > 0 && resolveErr != nil {
				h.logger.Warn("skill group resolution failed, dropping candidate", map[string]interface{}{
					"runId":       runID,
					"candidateId": candidate.ID,
					"error":       resolveErr.Error(),
				})
				v = verdict{reason: ReasonEnrichmentFailed}
			} else if groups := impliedGroups(candidate, groupBySkill); len(groups) > 0 {
				trusted, err := h.trustedGroups(ctx, candidate.ID, groups)
				switch {
				case err != nil:
					h.logger.Warn("verification lookup failed, dropping candidate", map[string]interface{}{
						"runId":       runID,
						"candidateId": candidate.ID,
						"error":       err.Error(),
					})
					v = verdict{reason: ReasonEnrichmentFailed}
				case !trusted:
					v = verdict{reason: ReasonUnverifiedGroup}
				default:
					v.groups = groups
				}
			}

			mu.Lock()
			verdicts[i] = v
			mu.Unlock()
			return nil
		})
	}
	// Workers never return errors; failures become per-candidate exclusions.
	_ = g.Wait()

	var eligible []models.CandidateProfile
	excluded := map[string]int{}
	for i, candidate := range candidates {
		if verdicts[i].keep {
			if len(verdicts[i].groups) > 0 {
				candidate.SkillGroupIDs = verdicts[i].groups
			}
			eligible = append(eligible, candidate)
			continue
		}
		excluded[verdicts[i].reason]++
		metrics.CandidatesExcluded.WithLabelValues(verdicts[i].reason).Inc()
	}
	return eligible, excluded
}

// skillGroupIndex resolves every distinct skill id in the pool to its group
// with one catalog call.
func (h *Handler) skillGroupIndex(ctx context.Context, candidates []models.CandidateProfile) (map[string]string, error) {
	var ids []string
	seen := map[string]bool{}
	for _, candidate := range candidates {
		for _, claim := range candidate.Skills {
			if claim.SkillID == "" || seen[claim.SkillID] {
				continue
			}
			seen[claim.SkillID] = true
			ids = append(ids, claim.SkillID)
		}
	}
	if len(ids) == 0 {
		return map[string]string{}, nil
	}
	return h.resolver.ResolveSkillGroups(ctx, ids)
}

// impliedGroups returns the distinct skill-group ids the candidate touches,
// sorted for deterministic lookups.
func impliedGroups(candidate models.CandidateProfile, groupBySkill map[string]string) []string {
	set := map[string]bool{}
	for _, claim := range candidate.Skills {
		if groupID, ok := groupBySkill[claim.SkillID]; ok {
			set[groupID] = true
		}
	}
	for _, groupID := range candidate.SkillGroupIDs {
		if groupID != "" {
			set[groupID] = true
		}
	}

	groups := make([]string, 0, len(set))
	for groupID := range set {
		groups = append(groups, groupID)
	}
	sort.Strings(groups)
	return groups
}

// trustedGroups reports whether every group in groupIDs has a verified,
// non-flagged record. Groups absent from the table count as unverified.
func (h *Handler) trustedGroups(ctx context.Context, candidateID string, groupIDs []string) (bool, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT group_id, is_verified, needs_reverification
		FROM skill_group_verifications
		WHERE candidate_id = $1 AND group_id = ANY($2)`,
		candidateID, pq.Array(groupIDs))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	verified := make(map[string]bool, len(groupIDs))
	for rows.Next() {
		var v models.SkillGroupVerification
		if err := rows.Scan(&v.GroupID, &v.IsVerified, &v.NeedsReverification); err != nil {
			return false, err
		}
		verified[v.GroupID] = v.Trusted()
	}
	if err := rows.Err(); err != nil {
		return false, err
	}

	for _, groupID := range groupIDs {
		if !verified[groupID] {
			return false, nil
		}
	}
	return true, nil
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
