package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/court-booking-service/internal/domain"
)

// ErrNotActive is returned by Session operations before Activate or after Close
var ErrNotActive = errors.New("slots: session is not active")

// Key identifies the (court, date) context a snapshot belongs to
type Key struct {
	CourtID int64
	Date    string
}

// Subscription is a live change channel scoped to one court
type Subscription interface {
	Events() <-chan domain.ChangeEvent
	Close() error
}

// ChangeFeed opens court-scoped subscriptions
type ChangeFeed interface {
	Subscribe(ctx context.Context, courtID int64) (Subscription, error)
}

// FeedFunc adapts a function to ChangeFeed
type FeedFunc func(ctx context.Context, courtID int64) (Subscription, error)

func (f FeedFunc) Subscribe(ctx context.Context, courtID int64) (Subscription, error) {
	return f(ctx, courtID)
}

// Session drives one grid surface: it owns the active (court, date), the
// resolved grid, the selection and the change-feed subscription.
//
// Activate regenerates the grid and marks it loading; the caller fetches the
// occupancy snapshot and hands it to Apply with the key Activate returned.
// Snapshots for any other key are discarded. On a relevant change event the
// caller calls Reload, re-fetches and Applies again.
//
// Not safe for concurrent use: one owner mutates it from one event loop.
type Session struct {
	feed ChangeFeed

	court     domain.Court
	key       Key
	active    bool
	loading   bool
	base      []Slot
	grid      []Slot
	selection *Selection
	sub       Subscription
}

// NewSession creates an idle session. feed may be nil (no live updates).
func NewSession(feed ChangeFeed) *Session {
	return &Session{
		feed:      feed,
		selection: NewSelection(nil, ModeSelect),
	}
}

// Activate switches to (court, date). The previous subscription is released
// before a new one is acquired, the selection is cleared and the grid is
// loading until Apply receives a snapshot for the returned key.
func (s *Session) Activate(ctx context.Context, court domain.Court, date time.Time) (Key, error) {
	base, err := GenerateForCourt(&court)
	if err != nil {
		return Key{}, err
	}

	if err := s.release(); err != nil {
		return Key{}, err
	}

	s.court = court
	s.key = Key{CourtID: court.ID, Date: date.Format(domain.DateFormat)}
	s.active = true
	s.loading = true
	s.base = base
	s.grid = base
	s.selection = NewSelection(base, s.selection.Mode())

	if s.feed != nil {
		sub, err := s.feed.Subscribe(ctx, court.ID)
		if err != nil {
			return s.key, fmt.Errorf("slots: subscribe to court %d: %w", court.ID, err)
		}
		s.sub = sub
	}

	return s.key, nil
}

// Apply resolves the snapshot fetched for key. Returns applied=false for a
// stale key; invalidated=true if the selection lost slots that became
// unavailable.
func (s *Session) Apply(key Key, occ domain.Occupancy) (applied, invalidated bool) {
	if !s.active || key != s.key {
		return false, false
	}
	s.grid = Resolve(s.base, occ)
	invalidated = s.selection.Refresh(s.grid)
	s.loading = false
	return true, invalidated
}

// Reload marks the grid loading again and returns the key to fetch for
func (s *Session) Reload() (Key, error) {
	if !s.active {
		return Key{}, ErrNotActive
	}
	s.loading = true
	return s.key, nil
}

// Relevant reports whether a change event concerns the active grid
func (s *Session) Relevant(ev domain.ChangeEvent) bool {
	return s.active && ev.CourtID == s.key.CourtID && ev.Date == s.key.Date
}

// Events is the change channel of the active subscription, nil without one
func (s *Session) Events() <-chan domain.ChangeEvent {
	if s.sub == nil {
		return nil
	}
	return s.sub.Events()
}

// SetMode switches selection mode; the selection is cleared
func (s *Session) SetMode(mode Mode) {
	s.selection.SetMode(mode)
}

// ResetSelection clears the selection (e.g. the chosen sport changed)
func (s *Session) ResetSelection() {
	s.selection.Clear()
}

func (s *Session) Selection() *Selection {
	return s.selection
}

func (s *Session) Grid() []Slot {
	return s.grid
}

func (s *Session) Key() Key {
	return s.key
}

func (s *Session) Court() domain.Court {
	return s.court
}

func (s *Session) Loading() bool {
	return s.loading
}

// CanCommit is false while a fetch is outstanding or nothing is selected
func (s *Session) CanCommit() bool {
	return s.active && !s.loading && !s.selection.IsEmpty()
}

// Summary derives the booking/block parameters of the current run
func (s *Session) Summary() (Summary, bool) {
	return s.selection.Summary(s.court.SlotDurationMinutes, s.court.PricePerSlot)
}

// Close releases the subscription and deactivates the session
func (s *Session) Close() error {
	s.active = false
	s.loading = false
	s.selection.Clear()
	return s.release()
}

func (s *Session) release() error {
	if s.sub == nil {
		return nil
	}
	sub := s.sub
	s.sub = nil
	if err := sub.Close(); err != nil {
		return fmt.Errorf("slots: release subscription: %w", err)
	}
	return nil
}
