// Package slots is the slot availability engine shared by the public booking
// flow and the admin block/unblock flow: grid generation, occupancy
// resolution and contiguous selection.
//
// Everything here is pure and single-threaded; no function performs I/O.
package slots

import (
	"errors"
	"fmt"

	"github.com/m04kA/court-booking-service/internal/domain"
	"github.com/m04kA/court-booking-service/pkg/types"
)

var (
	// ErrInvalidHours is returned when opening time is not before closing time
	ErrInvalidHours = errors.New("slots: opening time must be before closing time")

	// ErrInvalidDuration is returned for a non-positive slot duration
	ErrInvalidDuration = errors.New("slots: slot duration must be positive")
)

// State is the occupancy of a slot
type State string

const (
	StateAvailable State = "available"
	StateBooked    State = "booked"
	StateBlocked   State = "blocked"
)

// Slot is a half-open interval [Start, End) of a court's day.
// BlockID and BlockReason are set only for blocked slots.
type Slot struct {
	Index       int
	Start       types.TimeString
	End         types.TimeString
	State       State
	BlockID     int64
	BlockReason string
}

// Label is the display form of the slot, its start time "HH:MM"
func (s Slot) Label() string {
	return s.Start.String()
}

func (s Slot) IsAvailable() bool {
	return s.State == StateAvailable
}

func (s Slot) IsBooked() bool {
	return s.State == StateBooked
}

func (s Slot) IsBlocked() bool {
	return s.State == StateBlocked
}

// Generate discretizes [open, close) into slots of durationMinutes.
// A trailing period shorter than durationMinutes is dropped, so the grid holds
// floor((close-open)/duration) slots. All slots start available.
func Generate(open, close types.TimeString, durationMinutes int) ([]Slot, error) {
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}

	openMin, err := open.Minutes()
	if err != nil {
		return nil, fmt.Errorf("slots: opening time: %w", err)
	}
	closeMin, err := close.Minutes()
	if err != nil {
		return nil, fmt.Errorf("slots: closing time: %w", err)
	}
	if openMin >= closeMin {
		return nil, ErrInvalidHours
	}

	grid := make([]Slot, 0, (closeMin-openMin)/durationMinutes)
	for current := openMin; current+durationMinutes <= closeMin; current += durationMinutes {
		start, err := types.NewTimeStringFromMinutes(current)
		if err != nil {
			return nil, err
		}
		end, err := types.NewTimeStringFromMinutes(current + durationMinutes)
		if err != nil {
			return nil, err
		}
		grid = append(grid, Slot{
			Index: len(grid),
			Start: start,
			End:   end,
			State: StateAvailable,
		})
	}

	return grid, nil
}

// GenerateForCourt builds the grid from a court's configuration
func GenerateForCourt(court *domain.Court) ([]Slot, error) {
	return Generate(court.OpenTime, court.CloseTime, court.SlotDurationMinutes)
}

// Span finds the slots covering [start, end). start must be the start of a
// grid slot and end the end of a grid slot at or after it.
// Returns inclusive indices.
func Span(grid []Slot, start, end types.TimeString) (lo, hi int, ok bool) {
	lo, hi = -1, -1
	for i, s := range grid {
		if s.Start.Equal(start) {
			lo = i
		}
		if s.End.Equal(end) {
			hi = i
		}
	}
	if lo < 0 || hi < 0 || hi < lo {
		return -1, -1, false
	}
	return lo, hi, true
}

// AllAvailable reports whether every slot in grid[lo..hi] is available
func AllAvailable(grid []Slot, lo, hi int) bool {
	if lo < 0 || hi >= len(grid) || lo > hi {
		return false
	}
	for i := lo; i <= hi; i++ {
		if !grid[i].IsAvailable() {
			return false
		}
	}
	return true
}
