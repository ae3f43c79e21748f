package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/licensor/internal/licensing/domain"
	"github.com/aussiebroadwan/licensor/internal/licensing/store"
	"github.com/aussiebroadwan/licensor/pkg/cryptox"
	"github.com/aussiebroadwan/licensor/pkg/slogx"
)

var (
	ErrInvalidMaxSites = errors.New("max_sites must be at least 1")
	ErrInvalidStatus   = errors.New("unknown license status")
	ErrInvalidExpiry   = errors.New("expires_at must not be negative")
)

const (
	DefaultPlan = "pro"

	// keyAttempts bounds retries when a generated key collides.
	keyAttempts = 3
)

// AdminService implements operator actions on the key store.
type AdminService struct {
	Store store.Store
	Now   func() time.Time
}

func (s *AdminService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// IssueParams describes a license to issue.
type IssueParams struct {
	Plan      string
	MaxSites  int
	ExpiresAt int64
}

// IssueLicense creates a license under a fresh random key. The key is
// returned on the license and is the only way to reach it.
func (s *AdminService) IssueLicense(ctx context.Context, p IssueParams) (domain.License, error) {
	l := slogx.FromContext(ctx)

	if p.MaxSites < 1 {
		return domain.License{}, ErrInvalidMaxSites
	}
	if p.ExpiresAt < 0 {
		return domain.License{}, ErrInvalidExpiry
	}
	plan := strings.TrimSpace(p.Plan)
	if plan == "" {
		plan = DefaultPlan
	}

	for attempt := 1; ; attempt++ {
		key, err := cryptox.GenerateLicenseKey()
		if err != nil {
			l.Error("failed to generate license key", "error", err)
			return domain.License{}, err
		}

		lic, err := s.Store.Licenses().CreateLicense(ctx, domain.License{
			Key:       key,
			Plan:      plan,
			MaxSites:  p.MaxSites,
			Status:    domain.LicenseActive,
			ExpiresAt: p.ExpiresAt,
			CreatedAt: s.now(),
		})
		if errors.Is(err, store.ErrAlreadyExists) && attempt < keyAttempts {
			l.Warn("license key collision, retrying", "attempt", attempt)
			continue
		}
		if err != nil {
			l.Error("failed to create license", "error", err)
			return domain.License{}, fmt.Errorf("create license: %w", err)
		}

		l.Info("license issued", "license_id", lic.ID, "plan", lic.Plan, "max_sites", lic.MaxSites)
		return lic, nil
	}
}

// GetLicense returns the license for key with every activation it has held.
func (s *AdminService) GetLicense(ctx context.Context, key string) (domain.License, []domain.Activation, error) {
	lic, err := s.Store.Licenses().GetLicenseByKey(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.License{}, nil, ErrLicenseNotFound
		}
		return domain.License{}, nil, err
	}

	acts, err := s.Store.Activations().ListActivations(ctx, lic.ID)
	if err != nil {
		return domain.License{}, nil, fmt.Errorf("list activations: %w", err)
	}
	return lic, acts, nil
}

// UpdateParams carries an operator transition. Nil fields are left unchanged.
type UpdateParams struct {
	Status    *domain.LicenseStatus
	ExpiresAt *int64
}

// UpdateLicense applies an operator transition to status and/or expiry.
func (s *AdminService) UpdateLicense(ctx context.Context, key string, p UpdateParams) (domain.License, error) {
	l := slogx.FromContext(ctx)

	if p.Status != nil && !p.Status.Valid() {
		return domain.License{}, ErrInvalidStatus
	}
	if p.ExpiresAt != nil && *p.ExpiresAt < 0 {
		return domain.License{}, ErrInvalidExpiry
	}

	var updated domain.License
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		lic, err := tx.Licenses().GetLicenseByKey(ctx, key)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrLicenseNotFound
			}
			return err
		}

		now := s.now().Unix()
		if p.Status != nil {
			if err := tx.Licenses().UpdateLicenseStatus(ctx, lic.ID, *p.Status, now); err != nil {
				return fmt.Errorf("update status: %w", err)
			}
		}
		if p.ExpiresAt != nil {
			if err := tx.Licenses().UpdateLicenseExpiry(ctx, lic.ID, *p.ExpiresAt, now); err != nil {
				return fmt.Errorf("update expiry: %w", err)
			}
		}

		updated, err = tx.Licenses().GetLicenseByID(ctx, lic.ID)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrLicenseNotFound) {
			l.Error("failed to update license", "error", err)
		}
		return domain.License{}, err
	}

	l.Info("license updated", "license_id", updated.ID, "status", updated.Status, "expires_at", updated.ExpiresAt)
	return updated, nil
}
