// Package audit records license authority decisions.
package audit

import (
	"context"
	"log/slog"
	"time"
)

// Action names the authority operation an Event describes.
type Action string

const (
	ActionActivate    Action = "activate"
	ActionDeactivate  Action = "deactivate"
	ActionStatus      Action = "status"
	ActionUpdateCheck Action = "update_check"
)

// Event is one authority decision. Raw license keys are never recorded.
type Event struct {
	ID            string    `bson:"_id" json:"id"`
	Action        Action    `bson:"action" json:"action"`
	Domain        string    `bson:"domain" json:"domain"`
	LicenseID     int64     `bson:"license_id,omitempty" json:"license_id,omitempty"`
	Outcome       string    `bson:"outcome" json:"outcome"`
	Runtime       string    `bson:"runtime,omitempty" json:"runtime,omitempty"`
	ClientVersion string    `bson:"client_version,omitempty" json:"client_version,omitempty"`
	URL           string    `bson:"url,omitempty" json:"url,omitempty"`
	At            time.Time `bson:"at" json:"at"`
}

// Sink persists events. Implementations must be safe for concurrent use.
type Sink interface {
	Record(ctx context.Context, e Event) error
}

// Reader lists recorded events for a domain, newest first.
type Reader interface {
	ListByDomain(ctx context.Context, domain string, limit int64) ([]Event, error)
}

// LogSink writes events as structured log lines.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Record(ctx context.Context, e Event) error {
	l := s.Logger
	if l == nil {
		l = slog.Default()
	}
	l.LogAttrs(ctx, slog.LevelInfo, "license_audit",
		slog.String("event_id", e.ID),
		slog.String("action", string(e.Action)),
		slog.String("domain", e.Domain),
		slog.Int64("license_id", e.LicenseID),
		slog.String("outcome", e.Outcome),
		slog.String("runtime", e.Runtime),
		slog.String("client_version", e.ClientVersion),
		slog.String("url", e.URL),
		slog.Time("at", e.At),
	)
	return nil
}
