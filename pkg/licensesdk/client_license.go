package licensesdk

import (
	"context"
	"net/http"
	"net/url"
)

// Activate binds the installation domain to rawKey.
func (c *Client) Activate(ctx context.Context, rawKey string) Result {
	if c.bypass() {
		return localResult(map[string]any{"status": StatusValid, "expires": int64(0)})
	}
	return c.call(ctx, http.MethodPost, "/v1/licenses/activate", ActivateRequest{
		Domain:        c.env.Domain,
		Key:           rawKey,
		ClientContext: c.context(),
	})
}

// Deactivate releases the installation domain. rawKey may be empty.
func (c *Client) Deactivate(ctx context.Context, rawKey string) Result {
	if c.bypass() {
		return localResult(map[string]any{"status": StatusDeactivated})
	}
	return c.call(ctx, http.MethodPost, "/v1/licenses/deactivate", DeactivateRequest{
		Domain:        c.env.Domain,
		Key:           rawKey,
		ClientContext: c.context(),
	})
}

// Status asks which license, if any, is actively bound to the installation domain.
func (c *Client) Status(ctx context.Context) Result {
	if c.bypass() {
		return localResult(map[string]any{"status": StatusValid, "expires": int64(0)})
	}
	return c.call(ctx, http.MethodPost, "/v1/licenses/status", StatusRequest{
		Domain:        c.env.Domain,
		ClientContext: c.context(),
	})
}

// CheckUpdates queries the release feed for slug at the running version.
// Data carries new_version, package and url when a newer release exists and
// is empty otherwise.
func (c *Client) CheckUpdates(ctx context.Context, slug, version string) Result {
	q := url.Values{}
	q.Set("slug", slug)
	q.Set("version", version)
	q.Set("domain", c.env.Domain)
	if c.env.Runtime != "" {
		q.Set("runtime", c.env.Runtime)
	}
	if c.env.ClientVersion != "" {
		q.Set("client_version", c.env.ClientVersion)
	}
	if c.env.URL != "" {
		q.Set("url", c.env.URL)
	}
	return c.call(ctx, http.MethodGet, "/v1/updates?"+q.Encode(), nil)
}
