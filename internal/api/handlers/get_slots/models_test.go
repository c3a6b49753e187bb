package get_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/court-booking-service/internal/domain"
	"github.com/m04kA/court-booking-service/internal/slots"
	getSlotGrid "github.com/m04kA/court-booking-service/internal/usecase/get_slot_grid"
)

func TestFromUseCaseResponse(t *testing.T) {
	court := &domain.Court{
		ID:                  3,
		Name:                "Center Court",
		OpenTime:            "09:00",
		CloseTime:           "12:00",
		SlotDurationMinutes: 60,
		PricePerSlot:        1000,
		Enabled:             true,
		SportIDs:            []int64{5},
	}
	occ := domain.Occupancy{
		Bookings: []domain.BookedInterval{{
			Interval:  domain.Interval{Start: "09:00", End: "10:00"},
			BookingID: 7,
			Status:    domain.StatusConfirmed,
		}},
		Blocks: []domain.BlockedInterval{{
			Interval: domain.Interval{Start: "11:00", End: "12:00"},
			BlockID:  4,
			Reason:   "Maintenance",
		}},
	}

	grid, err := slots.GenerateForCourt(court)
	require.NoError(t, err)
	grid = slots.Resolve(grid, occ)

	out := FromUseCaseResponse(&getSlotGrid.Response{
		Court:     court,
		Date:      time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC),
		Slots:     grid,
		Counts:    slots.Count(grid),
		Occupancy: occ,
	})

	assert.Equal(t, "2026-11-02", out.Date)
	assert.Equal(t, "09:00:00", out.Court.OpenTime)
	assert.Equal(t, "12:00:00", out.Court.CloseTime)
	assert.Equal(t, Counts{Available: 1, Booked: 1, Blocked: 1}, out.Counts)

	require.Len(t, out.Slots, 3)
	assert.Equal(t, Slot{Index: 0, StartTime: "09:00:00", EndTime: "10:00:00", Label: "09:00", State: "booked"}, out.Slots[0])
	assert.Equal(t, "available", out.Slots[1].State)
	assert.Nil(t, out.Slots[1].BlockID)

	blocked := out.Slots[2]
	assert.Equal(t, "blocked", blocked.State)
	require.NotNil(t, blocked.BlockID)
	assert.Equal(t, int64(4), *blocked.BlockID)
	assert.Equal(t, "Maintenance", *blocked.BlockReason)

	assert.Equal(t, []BookedRange{{BookingID: 7, StartTime: "09:00:00", EndTime: "10:00:00", Status: "confirmed"}}, out.Bookings)
	assert.Equal(t, []BlockedRange{{BlockID: 4, StartTime: "11:00:00", EndTime: "12:00:00", Reason: "Maintenance"}}, out.Blocks)
}
