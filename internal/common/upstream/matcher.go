// Package upstream holds clients for external read-only feeds.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"staffing-workers/internal/common/errors"
	httpclient "staffing-workers/internal/common/http"
)

// MatcherClient fetches pre-scored matches produced by the legacy matcher
// service. The feed is read-only; its entries may be stale or incomplete and
// are reconciled downstream.
type MatcherClient struct {
	baseURL    string
	apiToken   string
	httpClient *httpclient.Client
}

// PreScoredMatch is one entry from the feed. MissingSkills is intentionally
// absent: the feed's missing-skill data is unreliable and always recomputed.
type PreScoredMatch struct {
	CVID          string   `json:"cvId"`
	CandidateID   string   `json:"candidateId"`
	Score         *float64 `json:"score,omitempty"`
	MatchedSkills []string `json:"matchedSkills,omitempty"`
}

func NewMatcherClient(baseURL, apiToken string, timeout time.Duration) *MatcherClient {
	return &MatcherClient{
		baseURL:    baseURL,
		apiToken:   apiToken,
		httpClient: httpclient.NewClient(timeout),
	}
}

// GetMatches returns the feed entries for a requisition. A 404 means the
// feed simply has nothing for this requisition and yields an empty slice.
func (c *MatcherClient) GetMatches(ctx context.Context, requisitionID string) ([]PreScoredMatch, error) {
	url := fmt.Sprintf("%s/requisitions/%s/matches", c.baseURL, requisitionID)

	resp, err := c.httpClient.GetJSON(ctx, url, c.apiToken)
	if err != nil {
		return nil, errors.NewUpstreamMatchesFailedError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return []PreScoredMatch{}, nil
	case resp.StatusCode >= 500:
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.NewUpstreamMatchesFailedError(
			fmt.Errorf("matcher feed returned status %d: %s", resp.StatusCode, string(body)))
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("matcher feed returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data []PreScoredMatch `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode matcher feed response: %w", err)
	}

	if result.Data == nil {
		return []PreScoredMatch{}, nil
	}
	return result.Data, nil
}
