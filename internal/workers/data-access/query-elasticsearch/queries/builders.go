// internal/workers/data-access/query-elasticsearch/queries/builders.go
package queries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrUnknownQueryType = errors.New("unknown query type")
	ErrMissingIndex     = errors.New("index name is required")
)

// PoolQuery describes a candidate pool search request.
type PoolQuery struct {
	Index      string
	QueryType  string
	Filters    map[string]interface{}
	Pagination struct {
		From int
		Size int
	}
}

// BuildQuery builds an Elasticsearch search request for the given query type.
func BuildQuery(eq PoolQuery) (*esapi.SearchRequest, error) {
	if eq.Index == "" {
		return nil, ErrMissingIndex
	}

	var queryBody map[string]interface{}

	switch eq.QueryType {
	case "candidate_pool":
		queryBody = BuildCandidatePoolQuery(eq)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueryType, eq.QueryType)
	}

	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index: []string{eq.Index},
		Body:  strings.NewReader(string(body)),
		From:  &eq.Pagination.From,
		Size:  &eq.Pagination.Size,
	}

	return &req, nil
}

// BuildCandidatePoolQuery builds the pool search. The pool is deliberately
// broad: skill overlap boosts relevance but eligibility decisions happen
// downstream, so a candidate missing every required skill still enters the
// pool when no skill filter is given.
func BuildCandidatePoolQuery(eq PoolQuery) map[string]interface{} {
	mustClauses := []interface{}{}
	shouldClauses := []interface{}{}
	filterClauses := []interface{}{}

	if skillIDs, ok := stringSlice(eq.Filters["skillIds"]); ok && len(skillIDs) > 0 {
		for _, id := range skillIDs {
			shouldClauses = append(shouldClauses, map[string]interface{}{
				"term": map[string]interface{}{"skills.skillId": id},
			})
		}
	}

	if locationID, ok := eq.Filters["locationId"].(string); ok && locationID != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"locationId": locationID},
		})
	}

	if statuses, ok := stringSlice(eq.Filters["statuses"]); ok && len(statuses) > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"terms": map[string]interface{}{"status": statuses},
		})
	}

	boolQuery := map[string]interface{}{}
	if len(mustClauses) > 0 {
		boolQuery["must"] = mustClauses
	}
	if len(shouldClauses) > 0 {
		boolQuery["should"] = shouldClauses
		boolQuery["minimum_should_match"] = 1
	}
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	if len(boolQuery) == 0 {
		return map[string]interface{}{
			"query": map[string]interface{}{"match_all": map[string]interface{}{}},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
	}
}

// stringSlice normalizes a filter value that arrives either as []string or,
// after a JSON round-trip, as []interface{}.
func stringSlice(v interface{}) ([]string, bool) {
	switch vals := v.(type) {
	case []string:
		return vals, true
	case []interface{}:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// Result holds the decoded search response.
type Result struct {
	Data      []map[string]interface{}
	TotalHits int
	MaxScore  float64
	Took      int
}

// Execute builds and runs the search, decoding hit sources into maps.
func Execute(ctx context.Context, client *elasticsearch.Client, eq PoolQuery) (*Result, error) {
	req, err := BuildQuery(eq)
	if err != nil {
		return nil, err
	}

	res, err := req.Do(ctx, client)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		if res.StatusCode == 404 {
			return nil, ErrMissingIndex
		}
		return nil, fmt.Errorf("search returned status %s", res.Status())
	}

	var envelope struct {
		Took int `json:"took"`
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			MaxScore float64 `json:"max_score"`
			Hits     []struct {
				ID     string                 `json:"_id"`
				Score  float64                `json:"_score"`
				Source map[string]interface{} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	result := &Result{
		TotalHits: envelope.Hits.Total.Value,
		MaxScore:  envelope.Hits.MaxScore,
		Took:      envelope.Took,
	}
	for _, hit := range envelope.Hits.Hits {
		source := hit.Source
		if source == nil {
			source = map[string]interface{}{}
		}
		source["_id"] = hit.ID
		source["_score"] = hit.Score
		result.Data = append(result.Data, source)
	}

	return result, nil
}
