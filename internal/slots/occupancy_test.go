package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/court-booking-service/internal/domain"
	"github.com/m04kA/court-booking-service/pkg/types"
)

func booked(start, end string) domain.BookedInterval {
	return domain.BookedInterval{
		Interval: domain.Interval{Start: types.TimeString(start), End: types.TimeString(end)},
		Status:   domain.StatusConfirmed,
	}
}

func blocked(id int64, start, end, reason string) domain.BlockedInterval {
	return domain.BlockedInterval{
		Interval: domain.Interval{Start: types.TimeString(start), End: types.TimeString(end)},
		BlockID:  id,
		Reason:   reason,
	}
}

func statesByLabel(grid []Slot) map[string]State {
	m := make(map[string]State, len(grid))
	for _, s := range grid {
		m[s.Label()] = s.State
	}
	return m
}

func TestResolve_BookingSpanningPartialSlot(t *testing.T) {
	grid := mustGrid(t, "08:00", "14:00", 30)
	occ := domain.Occupancy{Bookings: []domain.BookedInterval{booked("10:00", "11:30")}}

	states := statesByLabel(Resolve(grid, occ))

	assert.Equal(t, StateAvailable, states["09:30"])
	assert.Equal(t, StateBooked, states["10:00"])
	assert.Equal(t, StateBooked, states["10:30"])
	assert.Equal(t, StateBooked, states["11:00"])
	assert.Equal(t, StateAvailable, states["11:30"])
}

func TestResolve_HalfOpenBoundary(t *testing.T) {
	grid := mustGrid(t, "08:00", "12:00", 60)
	occ := domain.Occupancy{Bookings: []domain.BookedInterval{booked("08:00", "10:00")}}

	states := statesByLabel(Resolve(grid, occ))

	assert.Equal(t, StateBooked, states["09:00"])
	assert.Equal(t, StateAvailable, states["10:00"], "booking ending at slot start must not mark it")
}

func TestResolve_BookedIffContainsStart(t *testing.T) {
	grid := mustGrid(t, "06:00", "22:00", 30)
	bookings := []domain.BookedInterval{
		booked("07:00", "08:00"),
		booked("12:15", "13:45"),
		booked("21:30", "22:00"),
	}

	resolved := Resolve(grid, domain.Occupancy{Bookings: bookings})

	for _, s := range resolved {
		want := false
		for _, b := range bookings {
			if !s.Start.IsBefore(b.Start) && s.Start.IsBefore(b.End) {
				want = true
			}
		}
		assert.Equal(t, want, s.IsBooked(), "slot %s", s.Label())
	}
}

func TestResolve_BlocksAreTagged(t *testing.T) {
	grid := mustGrid(t, "08:00", "12:00", 30)
	occ := domain.Occupancy{Blocks: []domain.BlockedInterval{blocked(7, "09:00", "10:00", "Maintenance")}}

	resolved := Resolve(grid, occ)

	for _, s := range resolved {
		switch s.Label() {
		case "09:00", "09:30":
			assert.True(t, s.IsBlocked())
			assert.Equal(t, int64(7), s.BlockID)
			assert.Equal(t, "Maintenance", s.BlockReason)
		default:
			assert.True(t, s.IsAvailable(), "slot %s", s.Label())
			assert.Zero(t, s.BlockID)
		}
	}
}

func TestResolve_BookedWinsOverBlocked(t *testing.T) {
	grid := mustGrid(t, "08:00", "12:00", 60)
	occ := domain.Occupancy{
		Bookings: []domain.BookedInterval{booked("09:00", "10:00")},
		Blocks:   []domain.BlockedInterval{blocked(3, "09:00", "11:00", "Event")},
	}

	resolved := Resolve(grid, occ)

	assert.True(t, resolved[1].IsBooked())
	assert.Zero(t, resolved[1].BlockID)
	assert.True(t, resolved[2].IsBlocked())
}

func TestResolve_IgnoresCancelledBookings(t *testing.T) {
	grid := mustGrid(t, "08:00", "10:00", 60)
	cancelled := booked("08:00", "09:00")
	cancelled.Status = domain.StatusCancelled

	resolved := Resolve(grid, domain.Occupancy{Bookings: []domain.BookedInterval{cancelled}})

	assert.True(t, resolved[0].IsAvailable())
}

func TestResolve_IdempotentAndPure(t *testing.T) {
	grid := mustGrid(t, "08:00", "12:00", 30)
	occ := domain.Occupancy{
		Bookings: []domain.BookedInterval{booked("08:30", "09:30")},
		Blocks:   []domain.BlockedInterval{blocked(1, "11:00", "12:00", "Private event")},
	}

	first := Resolve(grid, occ)
	second := Resolve(grid, occ)
	again := Resolve(first, occ)

	assert.Equal(t, first, second)
	assert.Equal(t, first, again)
	for _, s := range grid {
		assert.True(t, s.IsAvailable(), "input grid must stay untouched")
	}
}

func TestResolve_ClearsStaleAnnotations(t *testing.T) {
	grid := mustGrid(t, "08:00", "10:00", 60)
	occ := domain.Occupancy{Blocks: []domain.BlockedInterval{blocked(9, "08:00", "09:00", "x")}}

	withBlock := Resolve(grid, occ)
	require.True(t, withBlock[0].IsBlocked())

	cleared := Resolve(withBlock, domain.Occupancy{})
	assert.True(t, cleared[0].IsAvailable())
	assert.Zero(t, cleared[0].BlockID)
	assert.Empty(t, cleared[0].BlockReason)
}

func TestCount(t *testing.T) {
	grid := mustGrid(t, "08:00", "12:00", 60)
	occ := domain.Occupancy{
		Bookings: []domain.BookedInterval{booked("08:00", "09:00")},
		Blocks:   []domain.BlockedInterval{blocked(2, "10:00", "12:00", "x")},
	}

	assert.Equal(t, Counts{Available: 1, Booked: 1, Blocked: 2}, Count(Resolve(grid, occ)))
}

func TestResolve_EndOfDayFromStore(t *testing.T) {
	// TIME '24:00:00' из PostgreSQL
	var closeTime, bookingEnd types.TimeString
	require.NoError(t, closeTime.Scan(time.Date(0, 1, 2, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, bookingEnd.Scan(time.Date(0, 1, 2, 0, 0, 0, 0, time.UTC)))

	grid, err := Generate("22:00", closeTime, 60)
	require.NoError(t, err)
	require.Len(t, grid, 2)
	assert.Equal(t, types.EndOfDay, grid[1].End)

	resolved := Resolve(grid, domain.Occupancy{
		Bookings: []domain.BookedInterval{{
			Interval:  domain.Interval{Start: "23:00", End: bookingEnd},
			BookingID: 9,
			Status:    domain.StatusConfirmed,
		}},
	})
	assert.True(t, resolved[0].IsAvailable())
	assert.True(t, resolved[1].IsBooked())
}
