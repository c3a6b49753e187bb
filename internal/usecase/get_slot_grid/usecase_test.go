package get_slot_grid

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/court-booking-service/internal/domain"
	courtRepo "github.com/m04kA/court-booking-service/internal/infra/storage/court"
	"github.com/m04kA/court-booking-service/internal/slots"
	"github.com/m04kA/court-booking-service/pkg/logger"
)

type fakeCourts struct {
	court *domain.Court
	err   error
}

func (f fakeCourts) GetByID(_ context.Context, _ int64) (*domain.Court, error) {
	return f.court, f.err
}

type fakeBookings struct {
	bookings []*domain.Booking
	err      error
}

func (f fakeBookings) GetByCourtAndDate(_ context.Context, _ int64, _ time.Time) ([]*domain.Booking, error) {
	return f.bookings, f.err
}

type fakeBlocks struct {
	blocks []*domain.UnavailabilityBlock
}

func (f fakeBlocks) GetByCourtAndDate(_ context.Context, _ int64, _ time.Time) ([]*domain.UnavailabilityBlock, error) {
	return f.blocks, nil
}

var date = time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)

func testCourt() *domain.Court {
	return &domain.Court{
		ID:                  4,
		Name:                "Court 4",
		OpenTime:            "09:00",
		CloseTime:           "13:00",
		SlotDurationMinutes: 30,
		PricePerSlot:        750,
		Enabled:             true,
		SportIDs:            []int64{1},
	}
}

func TestExecute_AnnotatesGrid(t *testing.T) {
	uc := NewUseCase(
		fakeCourts{court: testCourt()},
		fakeBookings{bookings: []*domain.Booking{
			{ID: 1, CourtID: 4, StartTime: "10:00", EndTime: "11:30", Status: domain.StatusConfirmed},
		}},
		fakeBlocks{blocks: []*domain.UnavailabilityBlock{
			{ID: 8, CourtID: 4, StartTime: "12:00", EndTime: "13:00", Reason: "Lesson"},
		}},
		logger.NewNop(),
	)

	resp, err := uc.Execute(context.Background(), &Request{CourtID: 4, Date: date})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 8)
	states := make([]slots.State, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		states = append(states, s.State)
	}
	assert.Equal(t, []slots.State{
		slots.StateAvailable, slots.StateAvailable,
		slots.StateBooked, slots.StateBooked, slots.StateBooked,
		slots.StateAvailable,
		slots.StateBlocked, slots.StateBlocked,
	}, states)

	assert.Equal(t, int64(8), resp.Slots[6].BlockID)
	assert.Equal(t, "Lesson", resp.Slots[7].BlockReason)
	assert.Equal(t, slots.Counts{Available: 3, Booked: 3, Blocked: 2}, resp.Counts)
	assert.Len(t, resp.Occupancy.Bookings, 1)
	assert.Len(t, resp.Occupancy.Blocks, 1)
	assert.Equal(t, "Court 4", resp.Court.Name)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		courts  fakeCourts
		books   fakeBookings
		req     *Request
		wantErr error
	}{
		{"zero court", fakeCourts{court: testCourt()}, fakeBookings{}, &Request{Date: date}, ErrInvalidInput},
		{"no date", fakeCourts{court: testCourt()}, fakeBookings{}, &Request{CourtID: 4}, ErrInvalidInput},
		{"unknown court", fakeCourts{err: courtRepo.ErrCourtNotFound}, fakeBookings{}, &Request{CourtID: 4, Date: date}, ErrCourtNotFound},
		{"court store down", fakeCourts{err: errors.New("boom")}, fakeBookings{}, &Request{CourtID: 4, Date: date}, ErrInternal},
		{"booking store down", fakeCourts{court: testCourt()}, fakeBookings{err: errors.New("boom")}, &Request{CourtID: 4, Date: date}, ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewUseCase(tt.courts, tt.books, fakeBlocks{}, logger.NewNop())

			_, err := uc.Execute(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
