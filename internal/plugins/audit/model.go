// Package audit records an activity log of calendar event changes. Every
// event mutation (create, update, delete, bulk import) is captured as an
// AuditEntry. The feed lets the calendar owner see what changed and when.
//
// This plugin only observes: it never modifies events, and a failure to
// record an entry never fails the mutation that triggered it.
package audit

import "time"

// --- Action Constants ---
// Each action string follows the pattern "resource.verb" for consistent
// filtering and display grouping.

const (
	// ActionEventCreated is logged when a new event is added.
	ActionEventCreated = "event.created"

	// ActionEventUpdated is logged when an event's fields change.
	ActionEventUpdated = "event.updated"

	// ActionEventDeleted is logged when an event is removed.
	ActionEventDeleted = "event.deleted"

	// ActionEventsImported is logged once per successful import, in addition
	// to one ActionEventCreated entry per imported event.
	ActionEventsImported = "events.imported"
)

// AuditEntry represents a single recorded change. EventID is empty for
// batch actions. Details holds action-specific metadata such as the date an
// event moved from.
type AuditEntry struct {
	ID         int64          `json:"id"`
	Action     string         `json:"action"`
	EventID    string         `json:"event_id,omitempty"`
	EventTitle string         `json:"event_title,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ActivityStats summarizes the log for the activity feed header.
type ActivityStats struct {
	// TotalEntries is the number of retained entries.
	TotalEntries int `json:"total_entries"`

	// ByAction counts retained entries per action.
	ByAction map[string]int `json:"by_action"`

	// LastActivity is the time of the newest entry, nil when the log is empty.
	LastActivity *time.Time `json:"last_activity,omitempty"`
}
