package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/licensor/internal/licensing/audit"
	"github.com/aussiebroadwan/licensor/internal/licensing/domain"
	"github.com/aussiebroadwan/licensor/internal/licensing/metrics"
	"github.com/aussiebroadwan/licensor/internal/licensing/store"
	"github.com/aussiebroadwan/licensor/pkg/hostx"
	"github.com/aussiebroadwan/licensor/pkg/idx"
	"github.com/aussiebroadwan/licensor/pkg/slogx"
)

var (
	ErrLicenseNotFound  = errors.New("license not found")
	ErrLicenseNotActive = errors.New("license is not active")
	ErrSeatLimitReached = errors.New("license seat limit reached")
	ErrNotActivated     = errors.New("no active license for domain")
	ErrInvalidDomain    = errors.New("invalid domain")
)

// Verdict is the authority's answer for one request.
type Verdict struct {
	Status  string
	Expires int64
}

// ClientInfo is the environment context a caller attaches to each request.
// It is recorded for audit only.
type ClientInfo struct {
	Runtime       string
	ClientVersion string
	URL           string
}

// LicenseService decides activate, deactivate and status requests against
// the key store and activation ledger.
type LicenseService struct {
	Store      store.Store
	SeatPolicy domain.SeatPolicy
	DevBypass  bool
	Audit      audit.Sink
	Metrics    *metrics.Metrics

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *LicenseService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *LicenseService) bypass(host string) bool {
	return s.DevBypass && hostx.IsDevelopment(host)
}

// Activate binds host to the license identified by key.
//
// Expired licenses are answered with an expired verdict rather than an error.
// Under the strict seat policy a host not yet bound to the license is refused
// with ErrSeatLimitReached once max_sites hosts are active.
func (s *LicenseService) Activate(ctx context.Context, rawDomain, key string, info ClientInfo) (v Verdict, err error) {
	l := slogx.FromContext(ctx)
	started := s.now()
	host := hostx.Normalize(rawDomain)
	var licenseID int64
	defer func() { s.observe(ctx, audit.ActionActivate, host, licenseID, info, v, err, started) }()

	if host == "" {
		return Verdict{}, ErrInvalidDomain
	}

	// 1. Development domains never touch storage
	if s.bypass(host) {
		l.Debug("development domain bypass", "domain", host)
		return Verdict{Status: domain.VerdictValid}, nil
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 2. Resolve the key
		lic, err := tx.Licenses().GetLicenseByKey(ctx, key)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrLicenseNotFound
			}
			return fmt.Errorf("get license: %w", err)
		}
		licenseID = lic.ID

		// 3. Operator state and expiry
		if lic.Status != domain.LicenseActive {
			return ErrLicenseNotActive
		}
		now := s.now()
		if lic.ExpiredAt(now) {
			v = Verdict{Status: domain.VerdictExpired, Expires: lic.ExpiresAt}
			return nil
		}

		// 4. Seat check
		if s.SeatPolicy != domain.SeatPolicyLenient {
			if err := s.checkSeat(ctx, tx, lic, host); err != nil {
				return err
			}
		}

		// 5. Bind the domain
		if err := tx.Activations().UpsertActivation(ctx, lic.ID, host, now.Unix()); err != nil {
			return fmt.Errorf("upsert activation: %w", err)
		}
		v = Verdict{Status: domain.VerdictValid, Expires: lic.ExpiresAt}
		return nil
	})
	if err != nil {
		return Verdict{}, err
	}

	l.Info("license activation decided", "domain", host, "license_id", licenseID, "status", v.Status)
	return v, nil
}

// checkSeat holds the license row lock for the rest of tx, so concurrent
// activations of new hosts are serialized.
func (s *LicenseService) checkSeat(ctx context.Context, tx store.Tx, lic domain.License, host string) error {
	if err := tx.Licenses().LockLicense(ctx, lic.ID); err != nil {
		return fmt.Errorf("lock license: %w", err)
	}

	_, err := tx.Activations().GetActivation(ctx, lic.ID, host)
	switch {
	case err == nil:
		return nil // already bound, active or not
	case !errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("get activation: %w", err)
	}

	seats, err := tx.Activations().CountActiveSeats(ctx, lic.ID)
	if err != nil {
		return fmt.Errorf("count seats: %w", err)
	}
	if seats >= lic.MaxSites {
		slogx.FromContext(ctx).Warn("seat limit reached",
			"license_id", lic.ID, "domain", host, "active", seats, "max_sites", lic.MaxSites)
		return ErrSeatLimitReached
	}
	return nil
}

// Deactivate releases host from the license identified by key. Unknown keys
// and unbound hosts are not errors.
func (s *LicenseService) Deactivate(ctx context.Context, rawDomain, key string, info ClientInfo) (v Verdict, err error) {
	started := s.now()
	host := hostx.Normalize(rawDomain)
	var licenseID int64
	defer func() { s.observe(ctx, audit.ActionDeactivate, host, licenseID, info, v, err, started) }()

	if host == "" {
		return Verdict{}, ErrInvalidDomain
	}

	done := Verdict{Status: domain.VerdictDeactivated}
	if s.bypass(host) || key == "" {
		return done, nil
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		lic, err := tx.Licenses().GetLicenseByKey(ctx, key)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("get license: %w", err)
		}
		licenseID = lic.ID
		return tx.Activations().DeactivateActivation(ctx, lic.ID, host, s.now().Unix())
	})
	if err != nil {
		return Verdict{}, err
	}

	slogx.FromContext(ctx).Info("license deactivated", "domain", host, "license_id", licenseID)
	return done, nil
}

// Status reports the verdict for the license actively bound to host and
// refreshes the binding's last_seen.
func (s *LicenseService) Status(ctx context.Context, rawDomain string, info ClientInfo) (v Verdict, err error) {
	started := s.now()
	host := hostx.Normalize(rawDomain)
	var licenseID int64
	defer func() { s.observe(ctx, audit.ActionStatus, host, licenseID, info, v, err, started) }()

	if host == "" {
		return Verdict{}, ErrInvalidDomain
	}
	if s.bypass(host) {
		return Verdict{Status: domain.VerdictValid}, nil
	}

	lic, err := s.Store.Licenses().FindLicenseByActiveDomain(ctx, host)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Verdict{}, ErrNotActivated
		}
		return Verdict{}, fmt.Errorf("find license: %w", err)
	}
	licenseID = lic.ID

	now := s.now()
	if err := s.Store.Activations().TouchActivation(ctx, lic.ID, host, now.Unix()); err != nil {
		slogx.FromContext(ctx).Warn("failed to refresh activation", "error", err, "license_id", lic.ID, "domain", host)
	}

	switch {
	case lic.Status != domain.LicenseActive:
		return Verdict{Status: domain.VerdictInvalid, Expires: lic.ExpiresAt}, nil
	case lic.ExpiredAt(now):
		return Verdict{Status: domain.VerdictExpired, Expires: lic.ExpiresAt}, nil
	}
	return Verdict{Status: domain.VerdictValid, Expires: lic.ExpiresAt}, nil
}

// Outcome maps a decision result to its verdict label.
func Outcome(v Verdict, err error) string {
	switch {
	case err == nil:
		return v.Status
	case errors.Is(err, ErrLicenseNotFound):
		return domain.VerdictInvalid
	case errors.Is(err, ErrLicenseNotActive):
		return domain.VerdictNotActive
	case errors.Is(err, ErrSeatLimitReached):
		return domain.VerdictSeatLimit
	case errors.Is(err, ErrNotActivated):
		return domain.VerdictNotActivated
	case errors.Is(err, ErrInvalidDomain):
		return "validation_error"
	}
	return "error"
}

func (s *LicenseService) observe(
	ctx context.Context,
	action audit.Action,
	host string,
	licenseID int64,
	info ClientInfo,
	v Verdict,
	err error,
	started time.Time,
) {
	outcome := Outcome(v, err)
	s.Metrics.Decision(string(action), outcome, s.now().Sub(started))

	if s.Audit == nil {
		return
	}
	ev := audit.Event{
		ID:            idx.New(),
		Action:        action,
		Domain:        host,
		LicenseID:     licenseID,
		Outcome:       outcome,
		Runtime:       info.Runtime,
		ClientVersion: info.ClientVersion,
		URL:           info.URL,
		At:            s.now().UTC(),
	}
	if err := s.Audit.Record(ctx, ev); err != nil {
		s.Metrics.AuditFailed()
		slogx.FromContext(ctx).Warn("failed to record audit event", "error", err, "action", action)
	}
}
