// internal/workers/data-access/query-elasticsearch/queries/builders_test.go
package queries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Query Builder Tests
// ==========================

func TestBuildCandidatePoolQuery_SkillOverlap(t *testing.T) {
	eq := PoolQuery{
		Index:     "candidate_pool",
		QueryType: "candidate_pool",
		Filters: map[string]interface{}{
			"skillIds": []string{"sk-go", "sk-react"},
		},
	}

	body := BuildCandidatePoolQuery(eq)

	boolQuery, ok := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	require.True(t, ok)

	should, ok := boolQuery["should"].([]interface{})
	require.True(t, ok)
	assert.Len(t, should, 2)
	assert.Equal(t, 1, boolQuery["minimum_should_match"])
}

func TestBuildCandidatePoolQuery_LocationAndStatusFilters(t *testing.T) {
	eq := PoolQuery{
		Index:     "candidate_pool",
		QueryType: "candidate_pool",
		Filters: map[string]interface{}{
			"locationId": "loc-hcm",
			"statuses":   []string{"Available", "Busy"},
		},
	}

	body := BuildCandidatePoolQuery(eq)

	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	filters, ok := boolQuery["filter"].([]interface{})
	require.True(t, ok)
	assert.Len(t, filters, 2)
}

func TestBuildCandidatePoolQuery_NoFiltersMatchesAll(t *testing.T) {
	eq := PoolQuery{
		Index:     "candidate_pool",
		QueryType: "candidate_pool",
		Filters:   map[string]interface{}{},
	}

	body := BuildCandidatePoolQuery(eq)

	_, ok := body["query"].(map[string]interface{})["match_all"]
	assert.True(t, ok)
}

func TestBuildCandidatePoolQuery_JSONRoundTrippedFilters(t *testing.T) {
	// Variables arriving from the workflow engine decode slices as []interface{}.
	eq := PoolQuery{
		Index:     "candidate_pool",
		QueryType: "candidate_pool",
		Filters: map[string]interface{}{
			"skillIds": []interface{}{"sk-go"},
		},
	}

	body := BuildCandidatePoolQuery(eq)

	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	should := boolQuery["should"].([]interface{})
	assert.Len(t, should, 1)
}

func TestBuildQuery_MissingIndex(t *testing.T) {
	_, err := BuildQuery(PoolQuery{QueryType: "candidate_pool"})
	assert.ErrorIs(t, err, ErrMissingIndex)
}

func TestBuildQuery_UnknownQueryType(t *testing.T) {
	_, err := BuildQuery(PoolQuery{Index: "candidate_pool", QueryType: "franchise_index"})
	assert.ErrorIs(t, err, ErrUnknownQueryType)
}

func TestBuildQuery_Pagination(t *testing.T) {
	eq := PoolQuery{
		Index:     "candidate_pool",
		QueryType: "candidate_pool",
	}
	eq.Pagination.From = 0
	eq.Pagination.Size = 500

	req, err := BuildQuery(eq)
	require.NoError(t, err)

	require.NotNil(t, req.Size)
	assert.Equal(t, 500, *req.Size)
}
