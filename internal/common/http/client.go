// Package http wraps the standard client with the defaults shared by
// outbound feed calls.
package http

import (
	"context"
	"net/http"
	"time"
)

type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetJSON issues a GET for a JSON resource, attaching the bearer token when
// one is configured. Status handling stays with the caller; feeds disagree
// on what non-200 means.
func (c *Client) GetJSON(ctx context.Context, url, bearerToken string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+bearerToken)
	}

	return c.httpClient.Do(req)
}
