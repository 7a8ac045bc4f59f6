// internal/workers/data-access/query-postgresql/queries/staffing.go
package queries

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
)

func RequisitionDetails(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	requisitionID, ok := params["requisitionId"].(string)
	if !ok || requisitionID == "" {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var id, levelID string
	var locationID sql.NullString
	var workModes int
	var requiredSkillIDs []string

	err := db.QueryRowContext(ctx, `
		SELECT id, required_skill_ids, level_id, work_modes, location_id
		FROM requisitions
		WHERE id = $1`, requisitionID).Scan(
		&id, pq.Array(&requiredSkillIDs), &levelID, &workModes, &locationID,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"id":               id,
		"requiredSkillIds": requiredSkillIDs,
		"levelId":          levelID,
		"workModes":        workModes,
		"locationId":       locationID.String,
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}

func CandidateCVs(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	candidateIDs, ok := params["candidateIds"].([]string)
	if !ok || len(candidateIDs) == 0 {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT id, candidate_id, version, level_id, file_ref
		FROM cv_records
		WHERE candidate_id = ANY($1)`, pq.Array(candidateIDs))
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var id, candidateID, levelID, fileRef string
		var version int
		if err := rows.Scan(&id, &candidateID, &version, &levelID, &fileRef); err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"id":          id,
			"candidateId": candidateID,
			"version":     version,
			"levelId":     levelID,
			"fileRef":     fileRef,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

func ExistingApplications(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	requisitionID, ok := params["requisitionId"].(string)
	if !ok || requisitionID == "" {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT cv_id, requisition_id, status
		FROM applications
		WHERE requisition_id = $1`, requisitionID)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var cvID, reqID, status string
		if err := rows.Scan(&cvID, &reqID, &status); err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"cvId":          cvID,
			"requisitionId": reqID,
			"status":        status,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

func VerificationStatuses(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	candidateID, ok := params["candidateId"].(string)
	if !ok || candidateID == "" {
		return nil, 0, 0, ErrMissingParam
	}
	groupIDs, ok := params["groupIds"].([]string)
	if !ok || len(groupIDs) == 0 {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT group_id, is_verified, needs_reverification
		FROM skill_group_verifications
		WHERE candidate_id = $1 AND group_id = ANY($2)`,
		candidateID, pq.Array(groupIDs))
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var groupID string
		var isVerified, needsReverification bool
		if err := rows.Scan(&groupID, &isVerified, &needsReverification); err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"groupId":             groupID,
			"isVerified":          isVerified,
			"needsReverification": needsReverification,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

func SkillCatalog(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	skillIDs, ok := params["skillIds"].([]string)
	if !ok || len(skillIDs) == 0 {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT id, name, COALESCE(group_id, '')
		FROM skills
		WHERE id = ANY($1)`, pq.Array(skillIDs))
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var id, name, groupID string
		if err := rows.Scan(&id, &name, &groupID); err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"id":      id,
			"name":    name,
			"groupId": groupID,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

func SeniorityLevel(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	levelID, ok := params["levelId"].(string)
	if !ok || levelID == "" {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var id, name string
	err := db.QueryRowContext(ctx, `
		SELECT id, name
		FROM seniority_levels
		WHERE id = $1`, levelID).Scan(&id, &name)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"id":   id,
		"name": name,
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}
