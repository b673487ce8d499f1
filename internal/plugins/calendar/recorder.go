package calendar

import (
	"context"

	"github.com/keyxmakerx/campuscal/internal/plugins/audit"
)

// ChangeRecorder is notified after each successful event mutation. The
// calendar service logs recorder failures and carries on. Implemented by
// AuditRecorderAdapter so this package never handles audit entries itself.
type ChangeRecorder interface {
	RecordChange(ctx context.Context, action string, evt *Event, details map[string]any) error
}

// AuditRecorderAdapter wraps audit.AuditService to satisfy ChangeRecorder.
type AuditRecorderAdapter struct {
	svc audit.AuditService
}

// NewAuditRecorderAdapter creates a new adapter around the audit service.
func NewAuditRecorderAdapter(svc audit.AuditService) ChangeRecorder {
	return &AuditRecorderAdapter{svc: svc}
}

// RecordChange turns a mutation into an audit entry. evt is nil for batch
// actions.
func (a *AuditRecorderAdapter) RecordChange(ctx context.Context, action string, evt *Event, details map[string]any) error {
	entry := &audit.AuditEntry{Action: action, Details: details}
	if evt != nil {
		entry.EventID = evt.ID
		entry.EventTitle = evt.Title
	}
	return a.svc.Log(ctx, entry)
}

// nopRecorder is used when no recorder is configured.
type nopRecorder struct{}

func (nopRecorder) RecordChange(context.Context, string, *Event, map[string]any) error { return nil }
