package licensesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// errServerStatus marks a 5xx for the circuit breaker.
var errServerStatus = errors.New("server error status")

// url builds a complete URL by appending the path to the base URL.
func (c *Client) url(path string) string {
	return c.baseURL + path
}

// call performs one request and normalizes every failure mode into a Result.
func (c *Client) call(ctx context.Context, method, path string, body any) Result {
	if c.breaker == nil {
		return c.do(ctx, method, path, body)
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		res := c.do(ctx, method, path, body)
		if res.StatusCode == 0 || res.StatusCode >= 500 {
			return res, errServerStatus
		}
		return res, nil
	})
	if res, ok := out.(Result); ok {
		return res
	}
	// Breaker refused the call.
	c.logger.Warn("license authority circuit open", "path", path, "error", err)
	return Result{Error: err.Error()}
}

func (c *Client) do(ctx context.Context, method, path string, body any) Result {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return Result{Error: fmt.Sprintf("failed to encode request: %v", err)}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return Result{Error: fmt.Sprintf("failed to create request: %v", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("license request failed", "path", path, "error", err)
		return Result{Error: fmt.Sprintf("failed to send request: %v", err)}
	}
	defer resp.Body.Close()

	return decodeResult(resp)
}

// decodeResult reads a response into a Result. Non-2xx responses keep their
// decoded body so rejections can be told apart from faults.
func decodeResult(resp *http.Response) Result {
	res := Result{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		res.Error = fmt.Sprintf("failed to read response body: %v", err)
		return res
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data map[string]any
	if err := dec.Decode(&data); err != nil || data == nil {
		res.Error = "malformed response body"
		if err != nil {
			res.Error += ": " + err.Error()
		}
		return res
	}
	res.Data = data

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		res.Error = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		if code, ok := data["error"].(string); ok && code != "" {
			res.Error = code
			if desc, ok := data["error_description"].(string); ok && desc != "" {
				res.Error += ": " + desc
			}
		}
		return res
	}

	res.OK = true
	return res
}

// BreakerState reports the circuit breaker state, or "disabled".
func (c *Client) BreakerState() string {
	if c.breaker == nil {
		return "disabled"
	}
	return c.breaker.State().String()
}
