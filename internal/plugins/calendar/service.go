package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/keyxmakerx/campuscal/internal/apperror"
	"github.com/keyxmakerx/campuscal/internal/dates"
	"github.com/keyxmakerx/campuscal/internal/plugins/audit"
	"github.com/keyxmakerx/campuscal/internal/sanitize"
	"github.com/keyxmakerx/campuscal/internal/validation"
)

// Direction is a month navigation step.
type Direction string

// Navigation directions.
const (
	DirNext     Direction = "next"
	DirPrevious Direction = "previous"
	DirToday    Direction = "today"
)

// CalendarService defines business logic for the calendar plugin. Handlers
// call these methods; they never touch the stores directly.
type CalendarService interface {
	// Events.
	CreateEvent(ctx context.Context, input CreateEventInput) (*Event, error)
	GetEvent(ctx context.Context, eventID string) (*Event, error)
	UpdateEvent(ctx context.Context, eventID string, input UpdateEventInput) (*Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
	ListEventsForDate(ctx context.Context, dateKey string) ([]Event, error)
	ListEventsInRange(ctx context.Context, from, to string) ([]Event, error)
	ListUpcoming(ctx context.Context, from dates.CivilDate, limit int) ([]Event, error)
	ListAllEvents(ctx context.Context) ([]Event, error)
	ImportEvents(ctx context.Context, inputs []CreateEventInput) ([]Event, error)

	// Grids.
	BuildMonth(ctx context.Context, ref dates.CivilDate, mode Mode) (*Grid, error)

	// View sessions.
	StartSession(ctx context.Context, input StartSessionInput) (*Session, error)
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	Navigate(ctx context.Context, sessionID string, dir Direction) (*Session, error)
	SetSessionMode(ctx context.Context, sessionID string, mode Mode) (*Session, error)
	SessionGrid(ctx context.Context, sessionID string) (*Session, *Grid, error)
	EndSession(ctx context.Context, sessionID string) error

	// Today returns the current civil date according to the service clock.
	Today() dates.CivilDate

	// Now returns the service clock's current instant.
	Now() time.Time

	// Defaults returns the configured mode and language.
	Defaults() Defaults
}

// StartSessionInput opens a view session. Empty fields use the service
// defaults; an empty Date starts on today.
type StartSessionInput struct {
	Mode string `json:"mode" validate:"omitempty,calmode"`
	Lang string `json:"lang" validate:"omitempty,lang"`
	Date string `json:"date" validate:"omitempty,datekey"`
}

// Defaults holds the mode and language used when a session does not pick one.
type Defaults struct {
	Mode Mode
	Lang string
}

// calendarService is the default CalendarService implementation.
type calendarService struct {
	events   EventRepository
	sessions SessionStore
	recorder ChangeRecorder
	defaults Defaults
	now      func() time.Time
}

// NewCalendarService creates a CalendarService backed by the given stores.
// recorder may be nil.
func NewCalendarService(events EventRepository, sessions SessionStore, recorder ChangeRecorder, defaults Defaults) CalendarService {
	if !defaults.Mode.Valid() {
		defaults.Mode = ModeGregorian
	}
	if !SupportedLang(defaults.Lang) {
		defaults.Lang = LangEnglish
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &calendarService{
		events:   events,
		sessions: sessions,
		recorder: recorder,
		defaults: defaults,
		now:      time.Now,
	}
}

// Today returns the clock's current civil date.
func (s *calendarService) Today() dates.CivilDate {
	return dates.FromTime(s.now())
}

func (s *calendarService) Now() time.Time {
	return s.now()
}

func (s *calendarService) Defaults() Defaults {
	return s.defaults
}

// CreateEvent validates the input and stores a new event with a fresh ID.
func (s *calendarService) CreateEvent(ctx context.Context, input CreateEventInput) (*Event, error) {
	input, err := prepareCreate(input)
	if err != nil {
		return nil, err
	}
	return s.createValidated(ctx, input)
}

// prepareCreate cleans and validates a create request.
func prepareCreate(input CreateEventInput) (CreateEventInput, error) {
	input.Title = cleanText(input.Title)
	input.Time = emptyToNil(input.Time)
	input.Description = cleanOptional(input.Description)
	if err := validation.Struct(input); err != nil {
		return input, err
	}
	if input.Type == "" {
		input.Type = EventOther
	}
	return input, nil
}

// createValidated stores an input that already went through prepareCreate.
func (s *calendarService) createValidated(ctx context.Context, input CreateEventInput) (*Event, error) {
	now := s.now().UTC()
	evt := &Event{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Date:        input.Date,
		Time:        input.Time,
		Type:        input.Type,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.events.Add(ctx, evt); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	slog.Info("calendar event created",
		slog.String("event_id", evt.ID),
		slog.String("date", evt.Date),
		slog.String("type", string(evt.Type)),
	)
	s.record(ctx, audit.ActionEventCreated, evt, map[string]any{"date": evt.Date})
	return evt, nil
}

// GetEvent returns an event by ID.
func (s *calendarService) GetEvent(ctx context.Context, eventID string) (*Event, error) {
	return s.events.Get(ctx, eventID)
}

// UpdateEvent replaces the editable fields of an event. The ID and creation
// time are kept.
func (s *calendarService) UpdateEvent(ctx context.Context, eventID string, input UpdateEventInput) (*Event, error) {
	input.Title = cleanText(input.Title)
	input.Time = emptyToNil(input.Time)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	evt, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}

	details := map[string]any{}
	if evt.Date != input.Date {
		details["moved_from"] = evt.Date
		details["moved_to"] = input.Date
	}

	evt.Title = input.Title
	evt.Date = input.Date
	evt.Time = emptyToNil(input.Time)
	if input.Type != "" {
		evt.Type = input.Type
	}
	evt.Description = cleanOptional(input.Description)
	evt.UpdatedAt = s.now().UTC()

	if err := s.events.Update(ctx, evt); err != nil {
		return nil, err
	}
	slog.Info("calendar event updated", slog.String("event_id", evt.ID), slog.String("date", evt.Date))
	s.record(ctx, audit.ActionEventUpdated, evt, details)
	return evt, nil
}

// DeleteEvent removes an event. Unknown IDs return a not-found AppError.
func (s *calendarService) DeleteEvent(ctx context.Context, eventID string) error {
	evt, err := s.events.Get(ctx, eventID)
	if err != nil {
		return err
	}
	if err := s.events.Remove(ctx, eventID); err != nil {
		return err
	}
	slog.Info("calendar event deleted", slog.String("event_id", eventID))
	s.record(ctx, audit.ActionEventDeleted, evt, map[string]any{"date": evt.Date})
	return nil
}

// ListEventsForDate returns the events on a Gregorian date key.
func (s *calendarService) ListEventsForDate(ctx context.Context, dateKey string) ([]Event, error) {
	if _, err := dates.ParseKey(dateKey); err != nil {
		return nil, apperror.NewValidation(err.Error())
	}
	return s.events.ListFor(ctx, dateKey)
}

// ListEventsInRange returns events between two date keys inclusive.
func (s *calendarService) ListEventsInRange(ctx context.Context, from, to string) ([]Event, error) {
	fromDate, err := dates.ParseKey(from)
	if err != nil {
		return nil, apperror.NewValidation(err.Error())
	}
	toDate, err := dates.ParseKey(to)
	if err != nil {
		return nil, apperror.NewValidation(err.Error())
	}
	if toDate.Before(fromDate) {
		return nil, apperror.NewValidation("range end must not be before range start")
	}
	return s.events.ListRange(ctx, from, to)
}

// ListUpcoming returns up to limit events on or after from.
func (s *calendarService) ListUpcoming(ctx context.Context, from dates.CivilDate, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 5
	}
	events, err := s.events.ListRange(ctx, from.Key(), "9999-12-31")
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

// ListAllEvents returns every stored event in insertion order.
func (s *calendarService) ListAllEvents(ctx context.Context) ([]Event, error) {
	return s.events.All(ctx)
}

// ImportEvents creates each event in order. Every input is cleaned and
// validated before anything is stored, so a bad entry imports nothing.
func (s *calendarService) ImportEvents(ctx context.Context, inputs []CreateEventInput) ([]Event, error) {
	prepared := make([]CreateEventInput, len(inputs))
	for i, in := range inputs {
		p, err := prepareCreate(in)
		if err != nil {
			return nil, apperror.NewValidation(fmt.Sprintf("event %d: %s", i+1, apperror.SafeMessage(err)))
		}
		prepared[i] = p
	}

	created := make([]Event, 0, len(prepared))
	for _, in := range prepared {
		evt, err := s.createValidated(ctx, in)
		if err != nil {
			return created, err
		}
		created = append(created, *evt)
	}
	s.record(ctx, audit.ActionEventsImported, nil, map[string]any{"count": len(created)})
	return created, nil
}

// BuildMonth renders the month containing ref and flags today's cell.
func (s *calendarService) BuildMonth(ctx context.Context, ref dates.CivilDate, mode Mode) (*Grid, error) {
	if !ref.Valid() {
		return nil, apperror.NewValidation("reference date is out of range")
	}
	grid, err := BuildGrid(ctx, ref, mode, s.events)
	if err != nil {
		return nil, err
	}
	markToday(grid, s.Today())
	return grid, nil
}

// StartSession opens a new view session.
func (s *calendarService) StartSession(ctx context.Context, input StartSessionInput) (*Session, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	sess := &Session{
		ID:        uuid.NewString(),
		Reference: s.Today(),
		Mode:      s.defaults.Mode,
		Lang:      s.defaults.Lang,
		UpdatedAt: s.now().UTC(),
	}
	if input.Mode != "" {
		sess.Mode, _ = ParseMode(input.Mode)
	}
	if input.Lang != "" {
		sess.Lang = input.Lang
	}
	if input.Date != "" {
		sess.Reference, _ = dates.ParseKey(input.Date)
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("saving calendar session: %w", err))
	}
	return sess, nil
}

// GetSession returns a view session or a not-found AppError.
func (s *calendarService) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("loading calendar session: %w", err))
	}
	if sess == nil {
		return nil, apperror.NewNotFound("calendar session not found")
	}
	return sess, nil
}

// Navigate moves a session one month forward or back, or to today.
func (s *calendarService) Navigate(ctx context.Context, sessionID string, dir Direction) (*Session, error) {
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch dir {
	case DirNext:
		sess.Next()
	case DirPrevious:
		sess.Previous()
	case DirToday:
		sess.GoTo(s.Today())
	default:
		return nil, apperror.NewBadRequest(fmt.Sprintf("unknown direction %q", dir))
	}
	if !sess.Reference.Valid() {
		return nil, apperror.NewValidation("cannot navigate outside years 1 to 9999")
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// SetSessionMode switches a session's calendar without touching events.
func (s *calendarService) SetSessionMode(ctx context.Context, sessionID string, mode Mode) (*Session, error) {
	if !mode.Valid() {
		return nil, apperror.NewValidation("mode must be one of gregorian, hijri, both")
	}
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.SetMode(mode)
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// SessionGrid renders the month a session is looking at.
func (s *calendarService) SessionGrid(ctx context.Context, sessionID string) (*Session, *Grid, error) {
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	grid, err := s.BuildMonth(ctx, sess.Reference, sess.Mode)
	if err != nil {
		return nil, nil, err
	}
	return sess, grid, nil
}

// EndSession discards a view session.
func (s *calendarService) EndSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return apperror.NewInternal(fmt.Errorf("deleting calendar session: %w", err))
	}
	return nil
}

// save stamps and persists a session.
func (s *calendarService) save(ctx context.Context, sess *Session) error {
	sess.UpdatedAt = s.now().UTC()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return apperror.NewInternal(fmt.Errorf("saving calendar session: %w", err))
	}
	return nil
}

// record passes a change to the recorder. Failures are logged only.
func (s *calendarService) record(ctx context.Context, action string, evt *Event, details map[string]any) {
	if len(details) == 0 {
		details = nil
	}
	if err := s.recorder.RecordChange(ctx, action, evt, details); err != nil {
		slog.Warn("failed to record calendar change",
			slog.String("action", action),
			slog.Any("error", err),
		)
	}
}

// cleanText strips markup and surrounding whitespace from a title.
func cleanText(s string) string {
	return strings.TrimSpace(sanitize.Text(s))
}

// cleanOptional sanitizes an optional description, dropping it when nothing
// is left.
func cleanOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := sanitize.Text(*s)
	return emptyToNil(&v)
}

// emptyToNil drops empty optional strings so they are omitted from JSON.
func emptyToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
