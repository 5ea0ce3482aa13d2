package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the upstream ML scheduler over HTTP. Unlike the dashboard
// tiles, failures here are not papered over with fallback data: a broken
// recommendation list propagates to the caller.
type Client struct {
	baseURL string
	client  *http.Client
	now     func() time.Time
}

// NewClient constructs a Client for a scheduler whose base URL should be
// like "http://ml-service:8000". A zero timeout disables the client timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		now:     time.Now,
	}
}

// scheduleEnvelope is the wire shape of the scheduler's list response.
type scheduleEnvelope struct {
	Data []Schedule `json:"data"`
}

// Recommendations fetches the current maintenance schedule from the ML
// service and normalizes each record. Filters are forwarded verbatim as
// query parameters.
func (c *Client) Recommendations(ctx context.Context, filters map[string]string) ([]Recommendation, error) {
	u := c.baseURL + "/maintenance/schedule"
	if len(filters) > 0 {
		q := url.Values{}
		for k, v := range filters {
			q.Set(k, v)
		}
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("recommend: new request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recommend: fetch schedule: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("recommend: fetch schedule unexpected status %d", resp.StatusCode)
	}

	var env scheduleEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("recommend: decode schedule: %w", err)
	}

	now := c.now().UTC()
	recs := make([]Recommendation, 0, len(env.Data))
	for _, s := range env.Data {
		recs = append(recs, Normalize(s, now))
	}
	return recs, nil
}
