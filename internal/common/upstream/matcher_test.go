// internal/common/upstream/matcher_test.go
package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffing-workers/internal/common/errors"
)

func TestMatcherClient_GetMatches(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/requisitions/req-001/matches", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[
			{"cvId":"cv-1","candidateId":"cand-1","score":88.5,"matchedSkills":["Go"]},
			{"cvId":"cv-2","candidateId":"cand-2"}
		]}`))
	}))
	defer server.Close()

	client := NewMatcherClient(server.URL, "token-123", 5*time.Second)

	matches, err := client.GetMatches(context.Background(), "req-001")
	require.NoError(t, err)

	assert.Equal(t, "Bearer token-123", gotAuth)
	require.Len(t, matches, 2)
	assert.Equal(t, "cv-1", matches[0].CVID)
	require.NotNil(t, matches[0].Score)
	assert.Equal(t, 88.5, *matches[0].Score)
	assert.Nil(t, matches[1].Score)
}

func TestMatcherClient_GetMatches_NotFoundIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewMatcherClient(server.URL, "", 5*time.Second)

	matches, err := client.GetMatches(context.Background(), "req-unknown")
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestMatcherClient_GetMatches_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewMatcherClient(server.URL, "", 5*time.Second)

	_, err := client.GetMatches(context.Background(), "req-001")
	require.Error(t, err)

	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeUpstreamMatchesFailed, stdErr.Code)
	assert.Contains(t, stdErr.Details, "502")
}

func TestMatcherClient_GetMatches_NullDataIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null}`))
	}))
	defer server.Close()

	client := NewMatcherClient(server.URL, "", 5*time.Second)

	matches, err := client.GetMatches(context.Background(), "req-001")
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}
