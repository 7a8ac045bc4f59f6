// internal/workers/data-access/query-elasticsearch/handler_test.go
package queryelasticsearch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "staffing-workers/internal/common/errors"
	"staffing-workers/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func esResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header: http.Header{
			"X-Elastic-Product": []string{"Elasticsearch"},
			"Content-Type":      []string{"application/json"},
		},
		Body: io.NopCloser(strings.NewReader(body)),
	}
}

func createTestHandler(t *testing.T, rt roundTripperFunc) *Handler {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://elasticsearch.test:9200"},
		Transport: rt,
	})
	require.NoError(t, err)

	cfg := &Config{
		Timeout:     5 * time.Second,
		PoolIndex:   "candidate_pool",
		MaxPoolSize: 500,
	}
	return NewHandler(cfg, client, logger.NewTestLogger(t))
}

const poolSearchBody = `{
	"took": 7,
	"hits": {
		"total": {"value": 2},
		"max_score": 3.2,
		"hits": [
			{"_id": "cand-a", "_score": 3.2, "_source": {"candidateId": "cand-a", "status": "AVAILABLE"}},
			{"_id": "cand-b", "_score": 1.9, "_source": {"candidateId": "cand-b", "status": "BUSY"}}
		]
	}
}`

// ==========================
// Pool Search Tests
// ==========================

func TestHandler_Execute_ReturnsPoolHits(t *testing.T) {
	var captured *http.Request
	h := createTestHandler(t, func(r *http.Request) (*http.Response, error) {
		captured = r
		return esResponse(http.StatusOK, poolSearchBody), nil
	})

	output, err := h.Execute(context.Background(), &Input{
		QueryType: "candidate_pool",
		Filters:   map[string]interface{}{"statuses": []string{"AVAILABLE", "BUSY"}},
	})
	require.NoError(t, err)

	require.NotNil(t, captured)
	assert.Equal(t, "/candidate_pool/_search", captured.URL.Path)
	assert.Equal(t, "500", captured.URL.Query().Get("size"))

	assert.Equal(t, 2, output.TotalHits)
	assert.InDelta(t, 3.2, output.MaxScore, 0.001)
	require.Len(t, output.Data, 2)
	assert.Equal(t, "cand-a", output.Data[0]["_id"])
	assert.Equal(t, "AVAILABLE", output.Data[0]["status"])
}

func TestHandler_Execute_ExplicitIndexAndPagination(t *testing.T) {
	var captured *http.Request
	h := createTestHandler(t, func(r *http.Request) (*http.Response, error) {
		captured = r
		return esResponse(http.StatusOK, `{"took":1,"hits":{"total":{"value":0},"hits":[]}}`), nil
	})

	_, err := h.Execute(context.Background(), &Input{
		QueryType:  "candidate_pool",
		IndexName:  "candidate_pool_v2",
		Pagination: &Pagination{From: 40, Size: 20},
	})
	require.NoError(t, err)

	require.NotNil(t, captured)
	assert.Equal(t, "/candidate_pool_v2/_search", captured.URL.Path)
	assert.Equal(t, "40", captured.URL.Query().Get("from"))
	assert.Equal(t, "20", captured.URL.Query().Get("size"))
}

func TestHandler_Execute_OversizedPageClampedToPoolLimit(t *testing.T) {
	var captured *http.Request
	h := createTestHandler(t, func(r *http.Request) (*http.Response, error) {
		captured = r
		return esResponse(http.StatusOK, `{"took":1,"hits":{"total":{"value":0},"hits":[]}}`), nil
	})

	_, err := h.Execute(context.Background(), &Input{
		QueryType:  "candidate_pool",
		Pagination: &Pagination{Size: 10000},
	})
	require.NoError(t, err)
	assert.Equal(t, "500", captured.URL.Query().Get("size"))
}

func TestHandler_Execute_MissingIndexMapsToSentinel(t *testing.T) {
	h := createTestHandler(t, func(r *http.Request) (*http.Response, error) {
		return esResponse(http.StatusNotFound, `{"error":{"type":"index_not_found_exception"}}`), nil
	})

	_, err := h.Execute(context.Background(), &Input{QueryType: "candidate_pool"})
	assert.ErrorIs(t, err, ErrIndexNotFound)
}

func TestHandler_Execute_SearchFailureWrapsPoolSentinel(t *testing.T) {
	h := createTestHandler(t, func(r *http.Request) (*http.Response, error) {
		return esResponse(http.StatusInternalServerError, `{"error":{"type":"search_phase_execution_exception"}}`), nil
	})

	_, err := h.Execute(context.Background(), &Input{QueryType: "candidate_pool"})
	assert.ErrorIs(t, err, ErrPoolSearchFailed)
}

func TestHandler_Execute_UnknownQueryTypeRejected(t *testing.T) {
	h := createTestHandler(t, func(r *http.Request) (*http.Response, error) {
		t.Fatal("no request expected for an unknown query type")
		return nil, nil
	})

	_, err := h.Execute(context.Background(), &Input{QueryType: "franchise_pool"})
	assert.ErrorIs(t, err, ErrPoolSearchFailed)
}

func TestHandler_Execute_NilInputRejected(t *testing.T) {
	h := createTestHandler(t, func(r *http.Request) (*http.Response, error) {
		return esResponse(http.StatusOK, poolSearchBody), nil
	})

	_, err := h.Execute(context.Background(), nil)
	assert.Error(t, err)
}

// ==========================
// Error Mapping Tests
// ==========================

func TestHandler_ToStandardError(t *testing.T) {
	h := createTestHandler(t, func(r *http.Request) (*http.Response, error) {
		return esResponse(http.StatusOK, poolSearchBody), nil
	})

	tests := []struct {
		name      string
		err       error
		code      apperrors.ErrorCode
		retryable bool
	}{
		{"timeout", ErrSearchTimeout, apperrors.ErrCodeSearchTimeout, true},
		{"missing index", ErrIndexNotFound, apperrors.ErrCodeIndexNotFound, false},
		{"connection", ErrElasticsearchConnectionFailed, apperrors.ErrCodeElasticsearchConnectionFailed, true},
		{"pool search", ErrPoolSearchFailed, apperrors.ErrCodePoolSearchFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdErr *apperrors.StandardError
			require.ErrorAs(t, h.toStandardError(tt.err), &stdErr)
			assert.Equal(t, tt.code, stdErr.Code)
			assert.Equal(t, tt.retryable, stdErr.Retryable)
		})
	}
}

func TestHandler_ToStandardError_PassesThroughUnknownErrors(t *testing.T) {
	h := createTestHandler(t, func(r *http.Request) (*http.Response, error) {
		return esResponse(http.StatusOK, poolSearchBody), nil
	})

	cause := errors.New("something unrelated")
	assert.Same(t, cause, h.toStandardError(cause))
}
