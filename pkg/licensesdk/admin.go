package licensesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// AdminClient calls the operator API with a bearer token.
type AdminClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string
}

// NewAdminClient creates an operator client. token is an HS256 operator JWT.
func NewAdminClient(baseURL, token string) *AdminClient {
	return &AdminClient{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		Token:      token,
	}
}

// IssueLicense creates a license and returns it, including its raw key.
func (a *AdminClient) IssueLicense(ctx context.Context, req IssueLicenseRequest) (*LicenseResponse, error) {
	var out LicenseResponse
	if err := a.doJSON(ctx, http.MethodPost, "/v1/admin/licenses", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLicense returns the license for key with its activations.
func (a *AdminClient) GetLicense(ctx context.Context, key string) (*LicenseResponse, error) {
	var out LicenseResponse
	path := "/v1/admin/licenses/" + url.PathEscape(key)
	if err := a.doJSON(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateLicense applies an operator transition.
func (a *AdminClient) UpdateLicense(ctx context.Context, key string, req UpdateLicenseRequest) (*LicenseResponse, error) {
	var out LicenseResponse
	path := "/v1/admin/licenses/" + url.PathEscape(key)
	if err := a.doJSON(ctx, http.MethodPatch, path, req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// PublishRelease advertises a release on the update feed.
func (a *AdminClient) PublishRelease(ctx context.Context, req PublishReleaseRequest) (*ReleaseResponse, error) {
	var out ReleaseResponse
	if err := a.doJSON(ctx, http.MethodPost, "/v1/admin/releases", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAudit returns the most recent audit events for domain. A limit of 0
// uses the server default.
func (a *AdminClient) ListAudit(ctx context.Context, domain string, limit int) (*AuditListResponse, error) {
	q := url.Values{}
	q.Set("domain", domain)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out AuditListResponse
	if err := a.doJSON(ctx, http.MethodGet, "/v1/admin/audit?"+q.Encode(), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AdminClient) doJSON(ctx context.Context, method, path string, body, target any, expectedStatus int) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	return decodeJSON(resp, target, expectedStatus)
}

// decodeJSON decodes a JSON response into target, or returns an *APIError
// for an unexpected status.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp.StatusCode, bodyBytes)
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func parseErrorResponse(status int, body []byte) error {
	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err != nil || er.Error == "" {
		return &APIError{StatusCode: status, Code: http.StatusText(status)}
	}
	return &APIError{
		StatusCode:  status,
		Code:        er.Error,
		Description: er.ErrorDescription,
		Details:     er.Details,
	}
}
