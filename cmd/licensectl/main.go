// Command licensectl administers a licensor key store directly.
//
// It reads the same LICENSOR_* environment as the server:
//
//	licensectl issue -max-sites 3 -expires 8760h
//	licensectl set-status -key KEY -status revoked
//	licensectl set-expiry -key KEY -expires 2027-01-01
//	licensectl token -subject ops -scopes licenses:read,licenses:write
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aussiebroadwan/licensor/internal/licensing/app"
	"github.com/aussiebroadwan/licensor/internal/licensing/domain"
	"github.com/aussiebroadwan/licensor/internal/licensing/service"
	"github.com/aussiebroadwan/licensor/internal/licensing/store"
	"github.com/aussiebroadwan/licensor/pkg/jwtx"
	"github.com/aussiebroadwan/licensor/pkg/licensesdk"
)

var errUsage = errors.New("usage")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, time.Now); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "licensectl:", err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `usage: licensectl <command> [flags]

commands:
  issue       issue a new license and print it
  set-status  change a license's status (active, revoked, expired)
  set-expiry  change a license's expiry
  token       mint an operator token for the admin API`)
}

func run(ctx context.Context, args []string, out io.Writer, now func() time.Time) error {
	if len(args) == 0 {
		usage(os.Stderr)
		return errUsage
	}

	cfg := app.LoadConfig()
	switch args[0] {
	case "issue":
		return cmdIssue(ctx, cfg, args[1:], out, now)
	case "set-status":
		return cmdSetStatus(ctx, cfg, args[1:], out)
	case "set-expiry":
		return cmdSetExpiry(ctx, cfg, args[1:], out, now)
	case "token":
		return cmdToken(cfg, args[1:], out, now)
	case "help", "-h", "--help":
		usage(out)
		return nil
	}
	usage(os.Stderr)
	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

func openStore(ctx context.Context, cfg app.Config) (store.Store, error) {
	st, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := st.ApplyMigrations(); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return st, nil
}

func cmdIssue(ctx context.Context, cfg app.Config, args []string, out io.Writer, now func() time.Time) error {
	fs := flag.NewFlagSet("issue", flag.ContinueOnError)
	plan := fs.String("plan", service.DefaultPlan, "plan label")
	maxSites := fs.Int("max-sites", 1, "number of domains that may be active at once")
	expires := fs.String("expires", "0", "expiry: 0 for never, a duration from now (720h), a date (2027-01-01), RFC 3339 or unix seconds")
	if err := fs.Parse(args); err != nil {
		return err
	}

	expiresAt, err := parseExpiry(*expires, now())
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	svc := &service.AdminService{Store: st, Now: now}
	lic, err := svc.IssueLicense(ctx, service.IssueParams{
		Plan:      *plan,
		MaxSites:  *maxSites,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return err
	}
	return printLicense(out, lic)
}

func cmdSetStatus(ctx context.Context, cfg app.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("set-status", flag.ContinueOnError)
	key := fs.String("key", "", "license key")
	status := fs.String("status", "", "active, revoked or expired")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *key == "" || *status == "" {
		fs.Usage()
		return errUsage
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	s := domain.LicenseStatus(*status)
	svc := &service.AdminService{Store: st}
	lic, err := svc.UpdateLicense(ctx, *key, service.UpdateParams{Status: &s})
	if err != nil {
		return err
	}
	return printLicense(out, lic)
}

func cmdSetExpiry(ctx context.Context, cfg app.Config, args []string, out io.Writer, now func() time.Time) error {
	fs := flag.NewFlagSet("set-expiry", flag.ContinueOnError)
	key := fs.String("key", "", "license key")
	expires := fs.String("expires", "", "expiry, as for issue")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *key == "" || *expires == "" {
		fs.Usage()
		return errUsage
	}

	expiresAt, err := parseExpiry(*expires, now())
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	svc := &service.AdminService{Store: st, Now: now}
	lic, err := svc.UpdateLicense(ctx, *key, service.UpdateParams{ExpiresAt: &expiresAt})
	if err != nil {
		return err
	}
	return printLicense(out, lic)
}

func cmdToken(cfg app.Config, args []string, out io.Writer, now func() time.Time) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	subject := fs.String("subject", "operator", "token subject")
	scopes := fs.String("scopes", jwtx.ScopeLicensesRead+","+jwtx.ScopeLicensesWrite, "comma-separated scopes")
	ttl := fs.Duration("ttl", time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if cfg.AdminSecret == "" {
		return errors.New("LICENSOR_ADMIN_SECRET is not set")
	}

	signer, err := app.NewAdminSigner(cfg)
	if err != nil {
		return err
	}

	granted, err := jwtx.ParseScopes(*scopes)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	tok, err := signer.Sign(jwtx.NewOperatorClaims(*subject, cfg.AdminIssuer, granted, *ttl, now()))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, tok)
	return err
}

func printLicense(out io.Writer, lic domain.License) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(licensesdk.LicenseResponse{
		ID:        lic.ID,
		Key:       lic.Key,
		Plan:      lic.Plan,
		MaxSites:  lic.MaxSites,
		Status:    string(lic.Status),
		ExpiresAt: lic.ExpiresAt,
		CreatedAt: lic.CreatedAt,
		UpdatedAt: lic.UpdatedAt,
	})
}
