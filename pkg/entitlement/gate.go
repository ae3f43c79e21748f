package entitlement

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/licensor/pkg/licensesdk"
	"github.com/aussiebroadwan/licensor/pkg/versionx"
)

// UpdateOffer is the entry the host application reads for an available update.
type UpdateOffer struct {
	Slug       string `json:"slug"`
	NewVersion string `json:"new_version"`
	Package    string `json:"package,omitempty"`
	URL        string `json:"url,omitempty"`
}

// UpdateCheck is the host application's update-check payload. Checked maps a
// component to its installed version; Response maps a component to an offer.
type UpdateCheck struct {
	Checked  map[string]string      `json:"checked"`
	Response map[string]UpdateOffer `json:"response"`
}

// Entitlement is satisfied by *Manager.
type Entitlement interface {
	IsPro() bool
}

// ReleaseFeed is satisfied by *licensesdk.Client.
type ReleaseFeed interface {
	CheckUpdates(ctx context.Context, slug, version string) licensesdk.Result
}

// UpdateGate injects pro releases into the host's update check.
type UpdateGate struct {
	Entitlement Entitlement
	Feed        ReleaseFeed

	// Component is the key used in the host payload; Slug and Version
	// identify the installed release.
	Component string
	Slug      string
	Version   string

	Logger *slog.Logger
}

// Filter returns check with an offer added when the installation is pro and
// the feed advertises a newer release. Any failure returns check unchanged.
func (g *UpdateGate) Filter(ctx context.Context, check *UpdateCheck) *UpdateCheck {
	if check == nil || g.Entitlement == nil || !g.Entitlement.IsPro() {
		return check
	}

	res := g.Feed.CheckUpdates(ctx, g.Slug, g.Version)
	if !res.OK {
		g.logger().Debug("update feed unavailable", "status_code", res.StatusCode, "error", res.Error)
		return check
	}

	newVersion := res.String("new_version")
	if newVersion == "" || !versionx.Newer(newVersion, g.Version) {
		return check
	}

	if check.Response == nil {
		check.Response = make(map[string]UpdateOffer)
	}
	check.Response[g.component()] = UpdateOffer{
		Slug:       g.Slug,
		NewVersion: newVersion,
		Package:    res.String("package"),
		URL:        res.String("url"),
	}
	return check
}

func (g *UpdateGate) component() string {
	if g.Component != "" {
		return g.Component
	}
	return g.Slug
}

func (g *UpdateGate) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}
