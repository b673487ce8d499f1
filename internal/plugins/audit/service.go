package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/keyxmakerx/campuscal/internal/apperror"
)

// perPage is the number of audit entries shown per page in the activity feed.
const perPage = 50

// maxPage is the last page that can hold retained entries.
const maxPage = maxRetained/perPage + 1

// maxEventHistoryEntries caps the history returned for a single event.
const maxEventHistoryEntries = 100

// AuditService handles business logic for the audit log. It validates inputs,
// enforces limits, and delegates persistence to the repository.
type AuditService interface {
	// Log records an audit entry. Errors are logged here as well, so callers
	// may treat it as fire-and-forget.
	Log(ctx context.Context, entry *AuditEntry) error

	// GetActivity returns a page of the feed, 1-indexed, plus the total count.
	GetActivity(ctx context.Context, page int) ([]AuditEntry, int, error)

	// GetEventHistory returns the recent change history for a single event.
	GetEventHistory(ctx context.Context, eventID string) ([]AuditEntry, error)

	// GetStats returns aggregate statistics over the retained log.
	GetStats(ctx context.Context) (*ActivityStats, error)
}

// auditService implements AuditService.
type auditService struct {
	repo AuditRepository
	now  func() time.Time
}

// NewAuditService creates a new audit service with the given repository.
func NewAuditService(repo AuditRepository) AuditService {
	return &auditService{repo: repo, now: time.Now}
}

// Log validates and persists an audit entry. Single-event actions need an
// event ID.
func (s *auditService) Log(ctx context.Context, entry *AuditEntry) error {
	if entry.Action == "" {
		return apperror.NewBadRequest("action is required for audit entry")
	}
	if entry.EventID == "" && entry.Action != ActionEventsImported {
		return apperror.NewBadRequest("event ID is required for audit entry")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}

	if err := s.repo.Log(ctx, entry); err != nil {
		slog.Error("failed to write audit log entry",
			slog.String("action", entry.Action),
			slog.String("event_id", entry.EventID),
			slog.Any("error", err),
		)
		return apperror.NewInternal(fmt.Errorf("writing audit entry: %w", err))
	}

	return nil
}

// GetActivity returns the paginated feed. Page numbers are clamped to
// 1..maxPage.
func (s *auditService) GetActivity(ctx context.Context, page int) ([]AuditEntry, int, error) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}

	offset := (page - 1) * perPage
	entries, total, err := s.repo.List(ctx, perPage, offset)
	if err != nil {
		return nil, 0, apperror.NewInternal(fmt.Errorf("listing activity: %w", err))
	}

	return entries, total, nil
}

// GetEventHistory returns the recent change history for a single event.
func (s *auditService) GetEventHistory(ctx context.Context, eventID string) ([]AuditEntry, error) {
	if eventID == "" {
		return nil, apperror.NewBadRequest("event ID is required")
	}

	entries, err := s.repo.ListByEvent(ctx, eventID, maxEventHistoryEntries)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing event history: %w", err))
	}

	return entries, nil
}

// GetStats returns aggregate statistics for the activity header.
func (s *auditService) GetStats(ctx context.Context) (*ActivityStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("getting activity stats: %w", err))
	}
	return stats, nil
}
