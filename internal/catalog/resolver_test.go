// internal/catalog/resolver_test.go
package catalog

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"staffing-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func mustJSON(t *testing.T, v interface{}) string {
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return string(raw)
}

// ==========================
// Skill Resolution Tests
// ==========================

func TestResolver_ResolveSkillNames_CacheMissLoadsFromDB(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()

	redisMock.ExpectGet("catalog:skill:sk-go").RedisNil()
	redisMock.ExpectGet("catalog:skill:sk-react").RedisNil()

	rows := sqlmock.NewRows([]string{"id", "name", "group_id"}).
		AddRow("sk-go", "Go", "grp-backend").
		AddRow("sk-react", "React", "grp-frontend")
	dbMock.ExpectQuery("SELECT id, name, COALESCE").
		WithArgs(pq.Array([]string{"sk-go", "sk-react"})).
		WillReturnRows(rows)

	redisMock.ExpectSet("catalog:skill:sk-go",
		mustJSON(t, skillEntry{Name: "Go", GroupID: "grp-backend"}), 5*time.Minute).SetVal("OK")
	redisMock.ExpectSet("catalog:skill:sk-react",
		mustJSON(t, skillEntry{Name: "React", GroupID: "grp-frontend"}), 5*time.Minute).SetVal("OK")

	resolver := NewResolver(db, redisClient, 5*time.Minute, logger.NewTestLogger(t))

	names, err := resolver.ResolveSkillNames(context.Background(), []string{"sk-go", "sk-react"})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"sk-go":    "Go",
		"sk-react": "React",
	}, names)

	assert.NoError(t, dbMock.ExpectationsWereMet())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestResolver_ResolveSkillNames_CacheHitSkipsDB(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()

	redisMock.ExpectGet("catalog:skill:sk-go").
		SetVal(mustJSON(t, skillEntry{Name: "Go", GroupID: "grp-backend"}))

	resolver := NewResolver(db, redisClient, 5*time.Minute, logger.NewTestLogger(t))

	names, err := resolver.ResolveSkillNames(context.Background(), []string{"sk-go"})
	require.NoError(t, err)
	assert.Equal(t, "Go", names["sk-go"])

	// No SQL expectations were registered: a query would fail the mock.
	assert.NoError(t, dbMock.ExpectationsWereMet())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestResolver_ResolveSkillNames_UnknownIDOmitted(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()
	redisMock.ExpectGet("catalog:skill:sk-ghost").RedisNil()

	dbMock.ExpectQuery("SELECT id, name, COALESCE").
		WithArgs(pq.Array([]string{"sk-ghost"})).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "group_id"}))

	resolver := NewResolver(db, redisClient, 5*time.Minute, logger.NewTestLogger(t))

	names, err := resolver.ResolveSkillNames(context.Background(), []string{"sk-ghost"})
	require.NoError(t, err)
	assert.Empty(t, names)

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestResolver_ResolveSkillGroups(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()
	redisMock.ExpectGet("catalog:skill:sk-go").RedisNil()
	redisMock.ExpectGet("catalog:skill:sk-misc").RedisNil()

	rows := sqlmock.NewRows([]string{"id", "name", "group_id"}).
		AddRow("sk-go", "Go", "grp-backend").
		AddRow("sk-misc", "Misc", "")
	dbMock.ExpectQuery("SELECT id, name, COALESCE").
		WithArgs(pq.Array([]string{"sk-go", "sk-misc"})).
		WillReturnRows(rows)

	redisMock.ExpectSet("catalog:skill:sk-go",
		mustJSON(t, skillEntry{Name: "Go", GroupID: "grp-backend"}), time.Minute).SetVal("OK")
	redisMock.ExpectSet("catalog:skill:sk-misc",
		mustJSON(t, skillEntry{Name: "Misc"}), time.Minute).SetVal("OK")

	resolver := NewResolver(db, redisClient, time.Minute, logger.NewTestLogger(t))

	groups, err := resolver.ResolveSkillGroups(context.Background(), []string{"sk-go", "sk-misc"})
	require.NoError(t, err)

	// Skills without a group are omitted from the group map.
	assert.Equal(t, map[string]string{"sk-go": "grp-backend"}, groups)

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestResolver_ResolveSkillNames_DeduplicatesIDs(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()
	redisMock.ExpectGet("catalog:skill:sk-go").RedisNil()

	dbMock.ExpectQuery("SELECT id, name, COALESCE").
		WithArgs(pq.Array([]string{"sk-go"})).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "group_id"}).
			AddRow("sk-go", "Go", "grp-backend"))

	redisMock.ExpectSet("catalog:skill:sk-go",
		mustJSON(t, skillEntry{Name: "Go", GroupID: "grp-backend"}), time.Minute).SetVal("OK")

	resolver := NewResolver(db, redisClient, time.Minute, logger.NewTestLogger(t))

	names, err := resolver.ResolveSkillNames(context.Background(), []string{"sk-go", "sk-go", ""})
	require.NoError(t, err)
	assert.Len(t, names, 1)

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

// ==========================
// Location Resolution Tests
// ==========================

func TestResolver_ResolveLocationName(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()
	redisMock.ExpectGet("catalog:location:loc-hcm").RedisNil()

	dbMock.ExpectQuery("SELECT name FROM locations").
		WithArgs("loc-hcm").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Ho Chi Minh City"))

	redisMock.ExpectSet("catalog:location:loc-hcm", "Ho Chi Minh City", time.Minute).SetVal("OK")

	resolver := NewResolver(db, redisClient, time.Minute, logger.NewTestLogger(t))

	name, err := resolver.ResolveLocationName(context.Background(), "loc-hcm")
	require.NoError(t, err)
	assert.Equal(t, "Ho Chi Minh City", name)

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestResolver_ResolveLocationName_Unknown(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()
	redisMock.ExpectGet("catalog:location:loc-nope").RedisNil()

	dbMock.ExpectQuery("SELECT name FROM locations").
		WithArgs("loc-nope").
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	resolver := NewResolver(db, redisClient, time.Minute, logger.NewTestLogger(t))

	name, err := resolver.ResolveLocationName(context.Background(), "loc-nope")
	require.NoError(t, err)
	assert.Equal(t, "", name)
}

func TestResolver_ResolveLocationName_EmptyID(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	redisClient, _ := redismock.NewClientMock()
	resolver := NewResolver(db, redisClient, time.Minute, logger.NewTestLogger(t))

	name, err := resolver.ResolveLocationName(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "", name)
}
