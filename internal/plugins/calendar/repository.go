package calendar

import (
	"context"
	"sort"
	"sync"

	"github.com/keyxmakerx/campuscal/internal/apperror"
)

// EventRepository defines storage operations for calendar events. Events are
// indexed only by their Gregorian date key.
type EventRepository interface {
	EventLookup

	Add(ctx context.Context, evt *Event) error
	Get(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, evt *Event) error
	Remove(ctx context.Context, id string) error

	// ListRange returns events with from <= date <= to, ordered by date and
	// then by insertion.
	ListRange(ctx context.Context, from, to string) ([]Event, error)
	All(ctx context.Context) ([]Event, error)
}

// memoryEventRepo keeps events in process memory for the lifetime of the
// server. Insertion order is preserved per date.
type memoryEventRepo struct {
	mu     sync.RWMutex
	byID   map[string]*Event
	byDate map[string][]string // date key -> ids in insertion order
	order  []string            // all ids in insertion order
}

// NewMemoryEventRepository creates an empty in-memory event store.
func NewMemoryEventRepository() EventRepository {
	return &memoryEventRepo{
		byID:   make(map[string]*Event),
		byDate: make(map[string][]string),
	}
}

// Add stores a new event. The caller assigns the ID.
func (r *memoryEventRepo) Add(ctx context.Context, evt *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[evt.ID]; exists {
		return apperror.NewConflict("event already exists")
	}
	stored := evt.clone()
	r.byID[evt.ID] = &stored
	r.byDate[evt.Date] = append(r.byDate[evt.Date], evt.ID)
	r.order = append(r.order, evt.ID)
	return nil
}

// Get returns a copy of the event with the given ID.
func (r *memoryEventRepo) Get(ctx context.Context, id string) (*Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	evt, ok := r.byID[id]
	if !ok {
		return nil, apperror.NewNotFound("event not found")
	}
	out := evt.clone()
	return &out, nil
}

// Update replaces a stored event in place. Moving an event to another date
// appends it to that date's list.
func (r *memoryEventRepo) Update(ctx context.Context, evt *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.byID[evt.ID]
	if !ok {
		return apperror.NewNotFound("event not found")
	}
	if old.Date != evt.Date {
		r.byDate[old.Date] = without(r.byDate[old.Date], evt.ID)
		if len(r.byDate[old.Date]) == 0 {
			delete(r.byDate, old.Date)
		}
		r.byDate[evt.Date] = append(r.byDate[evt.Date], evt.ID)
	}
	stored := evt.clone()
	r.byID[evt.ID] = &stored
	return nil
}

// Remove deletes an event.
func (r *memoryEventRepo) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	evt, ok := r.byID[id]
	if !ok {
		return apperror.NewNotFound("event not found")
	}
	delete(r.byID, id)
	r.byDate[evt.Date] = without(r.byDate[evt.Date], id)
	if len(r.byDate[evt.Date]) == 0 {
		delete(r.byDate, evt.Date)
	}
	r.order = without(r.order, id)
	return nil
}

// ListFor returns the events on a date in insertion order.
func (r *memoryEventRepo) ListFor(ctx context.Context, dateKey string) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(r.byDate[dateKey]), nil
}

// ListRange returns events between two date keys inclusive. Zero-padded keys
// sort lexically in date order.
func (r *memoryEventRepo) ListRange(ctx context.Context, from, to string) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var keys []string
	for key := range r.byDate {
		if key >= from && key <= to {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var events []Event
	for _, key := range keys {
		events = append(events, r.collect(r.byDate[key])...)
	}
	return events, nil
}

// All returns every event in insertion order.
func (r *memoryEventRepo) All(ctx context.Context) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(r.order), nil
}

// collect copies the events for ids. Caller holds the lock.
func (r *memoryEventRepo) collect(ids []string) []Event {
	if len(ids) == 0 {
		return nil
	}
	events := make([]Event, 0, len(ids))
	for _, id := range ids {
		events = append(events, r.byID[id].clone())
	}
	return events
}

// without returns ids with id removed, preserving order.
func without(ids []string, id string) []string {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
