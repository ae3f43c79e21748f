package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/licensor/internal/licensing/domain"
)

type releasesRepo struct {
	db querier
}

func (r *releasesRepo) PublishRelease(ctx context.Context, rel domain.Release) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO releases (id, slug, version, package_url, url, published_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rel.ID, rel.Slug, rel.Version, rel.Package, rel.URL, rel.PublishedAt.Unix(),
	)
	return mapConflict(err)
}

func (r *releasesRepo) ListReleases(ctx context.Context, slug string) ([]domain.Release, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, slug, version, package_url, url, published_at
		FROM releases WHERE slug = $1
		ORDER BY published_at DESC, id DESC`,
		slug,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Release
	for rows.Next() {
		var (
			rel         domain.Release
			publishedAt int64
		)
		if err := rows.Scan(&rel.ID, &rel.Slug, &rel.Version, &rel.Package, &rel.URL, &publishedAt); err != nil {
			return nil, err
		}
		rel.PublishedAt = time.Unix(publishedAt, 0).UTC()
		out = append(out, rel)
	}
	return out, rows.Err()
}
