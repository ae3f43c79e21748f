package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/licensor/internal/licensing/audit"
	"github.com/aussiebroadwan/licensor/internal/licensing/domain"
	"github.com/aussiebroadwan/licensor/internal/licensing/metrics"
	"github.com/aussiebroadwan/licensor/internal/licensing/store"
	"github.com/aussiebroadwan/licensor/pkg/hostx"
	"github.com/aussiebroadwan/licensor/pkg/idx"
	"github.com/aussiebroadwan/licensor/pkg/slogx"
	"github.com/aussiebroadwan/licensor/pkg/versionx"
)

var (
	ErrInvalidVersion = errors.New("version is not a semantic version")
	ErrReleaseExists  = errors.New("release already published")
)

// ReleaseService publishes release metadata and answers the update feed.
type ReleaseService struct {
	Store   store.Store
	Metrics *metrics.Metrics
	Audit   audit.Sink
	Now     func() time.Time
}

func (s *ReleaseService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// PublishParams describes a release to advertise.
type PublishParams struct {
	Slug    string
	Version string
	Package string
	URL     string
}

// Publish records a release. Versions must be semantic and (slug, version)
// unique.
func (s *ReleaseService) Publish(ctx context.Context, p PublishParams) (domain.Release, error) {
	l := slogx.FromContext(ctx)

	if !versionx.Valid(p.Version) {
		return domain.Release{}, ErrInvalidVersion
	}

	now := s.now()

	rel := domain.Release{
		ID:          idx.At(now),
		Slug:        strings.TrimSpace(p.Slug),
		Version:     strings.TrimSpace(p.Version),
		Package:     p.Package,
		URL:         p.URL,
		PublishedAt: now.UTC().Truncate(time.Second),
	}
	if err := s.Store.Releases().PublishRelease(ctx, rel); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Release{}, ErrReleaseExists
		}
		l.Error("failed to publish release", "error", err, "slug", rel.Slug, "version", rel.Version)
		return domain.Release{}, fmt.Errorf("publish release: %w", err)
	}

	l.Info("release published", "slug", rel.Slug, "version", rel.Version)
	return rel, nil
}

// Latest returns the highest published version for slug when it is newer than
// current. ok is false when there is nothing to offer, including when current
// is not a semantic version.
func (s *ReleaseService) Latest(ctx context.Context, slug, current string) (rel domain.Release, ok bool, err error) {
	defer func() {
		if err == nil {
			s.Metrics.UpdateCheck(ok)
		}
	}()

	if slug == "" || !versionx.Valid(current) {
		return domain.Release{}, false, nil
	}

	releases, err := s.Store.Releases().ListReleases(ctx, slug)
	if err != nil {
		return domain.Release{}, false, fmt.Errorf("list releases: %w", err)
	}

	var best domain.Release
	for _, r := range releases {
		if !versionx.Valid(r.Version) {
			continue
		}
		if best.Version == "" || versionx.Compare(r.Version, best.Version) > 0 {
			best = r
		}
	}
	if best.Version == "" || !versionx.Newer(best.Version, current) {
		return domain.Release{}, false, nil
	}
	return best, true, nil
}

// Check answers the update feed for one installation and records the check
// against its domain. An audit failure never fails the check.
func (s *ReleaseService) Check(
	ctx context.Context,
	slug, current, rawDomain string,
	info ClientInfo,
) (domain.Release, bool, error) {
	rel, ok, err := s.Latest(ctx, slug, current)
	if err != nil || s.Audit == nil {
		return rel, ok, err
	}

	outcome := "current"
	if ok {
		outcome = "offered"
	}
	ev := audit.Event{
		ID:            idx.New(),
		Action:        audit.ActionUpdateCheck,
		Domain:        hostx.Normalize(rawDomain),
		Outcome:       outcome,
		Runtime:       info.Runtime,
		ClientVersion: info.ClientVersion,
		URL:           info.URL,
		At:            s.now().UTC(),
	}
	if err := s.Audit.Record(ctx, ev); err != nil {
		s.Metrics.AuditFailed()
		slogx.FromContext(ctx).Warn("failed to record audit event", "error", err, "action", ev.Action)
	}
	return rel, ok, nil
}
