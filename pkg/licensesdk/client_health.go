package licensesdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Health calls GET /livez or /readyz depending on ready.
func (c *Client) Health(ctx context.Context, ready bool) (*HealthResponse, error) {
	path := "/livez"
	if ready {
		path = "/readyz"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	// /readyz answers 503 with a body when degraded.
	var out HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &out, fmt.Errorf("licensor not healthy: %s", out.Status)
	}
	return &out, nil
}
