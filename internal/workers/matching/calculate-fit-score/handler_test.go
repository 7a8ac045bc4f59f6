// internal/workers/matching/calculate-fit-score/handler_test.go
package calculatefitscore

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"staffing-workers/internal/common/logger"
	"staffing-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout:  10 * time.Second,
		CacheTTL: time.Minute,
	}
}

func createTestHandler(t *testing.T, db *sql.DB, redisClient *redis.Client) *Handler {
	return NewHandler(createTestConfig(), db, redisClient, logger.NewTestLogger(t))
}

// cacheSkill registers a catalog cache hit so the resolver never touches the
// database during the test.
func cacheSkill(t *testing.T, mock redismock.ClientMock, id, name string) {
	entry, err := json.Marshal(map[string]string{"name": name, "groupId": ""})
	require.NoError(t, err)
	mock.ExpectGet("catalog:skill:" + id).SetVal(string(entry))
}

// ==========================
// Scoring Tests
// ==========================

func TestHandler_Execute_PartialSkillsRemoteAvailable(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()
	redisMock.MatchExpectationsInOrder(false)
	cacheSkill(t, redisMock, "sk-go", "Go")
	cacheSkill(t, redisMock, "sk-react", "React")
	cacheSkill(t, redisMock, "sk-node", "Node")

	h := createTestHandler(t, db, redisClient)

	input := &Input{
		RunID: "run-1",
		Requisition: models.JobRequirement{
			ID:               "req-001",
			RequiredSkillIDs: []string{"sk-go", "sk-react", "sk-node"},
			LevelID:          "lvl-senior",
			WorkModes:        models.WorkModeRemote,
		},
		Candidates: []models.CandidateProfile{
			{
				ID:        "cand-1",
				Name:      "An Tran",
				Status:    models.StatusAvailable,
				WorkModes: models.WorkModeRemote | models.WorkModeOnsite,
				Skills: []models.SkillClaim{
					{SkillID: "sk-go"},
					{SkillID: "sk-react"},
				},
			},
		},
		CVs: []models.CVRecord{
			{ID: "cv-1", CandidateID: "cand-1", Version: 3, LevelID: "lvl-senior"},
		},
	}

	output, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, output.Results, 1)

	result := output.Results[0]
	// 2/3 skills = 33, level 20, mode 10, remote bypasses location 15, bonus 5.
	assert.Equal(t, 83, result.Score)
	assert.Equal(t, []string{"Go", "React"}, result.MatchedSkills)
	assert.Equal(t, []string{"Node"}, result.MissingSkills)
	assert.True(t, result.LevelMatched)
}

func TestHandler_Execute_UnresolvedSkillFallsBackToID(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()
	redisMock.MatchExpectationsInOrder(false)
	// Cache misses lead to one DB query; make it fail so names fall back.
	redisMock.ExpectGet("catalog:skill:sk-unknown").RedisNil()

	h := createTestHandler(t, db, redisClient)

	input := &Input{
		RunID: "run-1",
		Requisition: models.JobRequirement{
			ID:               "req-001",
			RequiredSkillIDs: []string{"sk-unknown"},
		},
		Candidates: []models.CandidateProfile{
			{ID: "cand-1", Status: models.StatusBusy, Skills: []models.SkillClaim{{SkillID: "sk-unknown"}}},
		},
		CVs: []models.CVRecord{
			{ID: "cv-1", CandidateID: "cand-1", Version: 1},
		},
	}

	output, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, output.Results, 1)

	// The raw id still matches itself, so the skill counts as covered.
	assert.Equal(t, []string{"sk-unknown"}, output.Results[0].MatchedSkills)
	assert.Empty(t, output.Results[0].MissingSkills)
}

func TestHandler_Execute_CVWithoutCandidateSkipped(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	redisClient, _ := redismock.NewClientMock()

	h := createTestHandler(t, db, redisClient)

	input := &Input{
		RunID:       "run-1",
		Requisition: models.JobRequirement{ID: "req-001"},
		CVs: []models.CVRecord{
			{ID: "cv-orphan", CandidateID: "cand-gone", Version: 1},
		},
	}

	output, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Empty(t, output.Results)
	assert.NotNil(t, output.Results)
}

func TestHandler_Execute_MultipleCVsPerCandidate(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()
	redisMock.MatchExpectationsInOrder(false)
	cacheSkill(t, redisMock, "sk-go", "Go")

	h := createTestHandler(t, db, redisClient)

	input := &Input{
		RunID: "run-1",
		Requisition: models.JobRequirement{
			ID:               "req-001",
			RequiredSkillIDs: []string{"sk-go"},
			LevelID:          "lvl-senior",
		},
		Candidates: []models.CandidateProfile{
			{ID: "cand-1", Status: models.StatusAvailable, Skills: []models.SkillClaim{{SkillID: "sk-go"}}},
		},
		CVs: []models.CVRecord{
			{ID: "cv-1", CandidateID: "cand-1", Version: 1, LevelID: "lvl-mid"},
			{ID: "cv-2", CandidateID: "cand-1", Version: 2, LevelID: "lvl-senior"},
		},
	}

	output, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, output.Results, 2)

	// Exactly the CV's own level association scores; same candidate, two outcomes.
	assert.False(t, output.Results[0].LevelMatched)
	assert.True(t, output.Results[1].LevelMatched)
	assert.Equal(t, output.Results[1].Score, output.Results[0].Score+20)
}
