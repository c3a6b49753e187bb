package unblock_slots

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/court-booking-service/internal/domain"
	"github.com/m04kA/court-booking-service/internal/slots"
	"github.com/m04kA/court-booking-service/internal/usecase/block_slots"
	"github.com/m04kA/court-booking-service/pkg/logger"
)

const adminID = 42

type fakeCourts struct{}

func (fakeCourts) GetByID(_ context.Context, id int64) (*domain.Court, error) {
	institution := int64(10)
	if id == 2 {
		institution = 20
	}
	return &domain.Court{
		ID:                  id,
		InstitutionID:       institution,
		OpenTime:            "08:00",
		CloseTime:           "12:00",
		SlotDurationMinutes: 60,
		PricePerSlot:        1000,
		Enabled:             true,
		SportIDs:            []int64{1},
	}, nil
}

type fakeInstitutions struct{}

func (fakeInstitutions) IsAdmin(_ context.Context, institutionID, userID int64) (bool, error) {
	return institutionID == 10 && userID == adminID, nil
}

// memoryBlocks хранилище блокировок, общее для block_slots и unblock_slots
type memoryBlocks struct {
	blocks    map[int64]*domain.UnavailabilityBlock
	nextID    int64
	deleteErr error
}

func newMemoryBlocks(blocks ...*domain.UnavailabilityBlock) *memoryBlocks {
	m := &memoryBlocks{blocks: make(map[int64]*domain.UnavailabilityBlock), nextID: 100}
	for _, b := range blocks {
		m.blocks[b.ID] = b
	}
	return m
}

func (m *memoryBlocks) Create(_ context.Context, b *domain.UnavailabilityBlock) (*domain.UnavailabilityBlock, error) {
	m.nextID++
	b.ID = m.nextID
	m.blocks[b.ID] = b
	return b, nil
}

func (m *memoryBlocks) GetByCourtAndDate(_ context.Context, courtID int64, date time.Time) ([]*domain.UnavailabilityBlock, error) {
	result := make([]*domain.UnavailabilityBlock, 0)
	for _, b := range m.blocks {
		if b.CourtID == courtID && b.BlockDate.Equal(date) {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.IsBefore(result[j].StartTime) })
	return result, nil
}

func (m *memoryBlocks) GetByIDs(_ context.Context, ids []int64) ([]*domain.UnavailabilityBlock, error) {
	result := make([]*domain.UnavailabilityBlock, 0)
	for _, id := range ids {
		if b, ok := m.blocks[id]; ok {
			result = append(result, b)
		}
	}
	return result, nil
}

func (m *memoryBlocks) DeleteByIDs(_ context.Context, ids []int64) (int64, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	var n int64
	for _, id := range ids {
		if _, ok := m.blocks[id]; ok {
			delete(m.blocks, id)
			n++
		}
	}
	return n, nil
}

type noBookings struct{}

func (noBookings) GetByCourtAndDate(_ context.Context, _ int64, _ time.Time) ([]*domain.Booking, error) {
	return nil, nil
}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePublisher struct {
	events []domain.ChangeEvent
}

func (f *fakePublisher) Publish(_ context.Context, ev domain.ChangeEvent) error {
	f.events = append(f.events, ev)
	return nil
}

func day(offset int) time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestBlockThenUnblockRestoresAvailability(t *testing.T) {
	store := newMemoryBlocks()
	pub := &fakePublisher{}
	date := day(1)

	blockUC := block_slots.NewUseCase(fakeCourts{}, fakeInstitutions{}, noBookings{}, store, passthroughTx{}, pub, nil, logger.NewNop())
	unblockUC := NewUseCase(fakeCourts{}, fakeInstitutions{}, store, passthroughTx{}, pub, logger.NewNop())

	resolve := func() []slots.Slot {
		grid, err := slots.GenerateForCourt(&domain.Court{OpenTime: "08:00", CloseTime: "12:00", SlotDurationMinutes: 60})
		require.NoError(t, err)
		blocks, _ := store.GetByCourtAndDate(context.Background(), 1, date)
		return slots.Resolve(grid, domain.NewOccupancy(nil, blocks))
	}

	created, err := blockUC.Execute(context.Background(), &block_slots.Request{
		UserID:    adminID,
		CourtID:   1,
		Date:      date,
		StartTime: "09:00",
		EndTime:   "10:00",
		Reason:    "Maintenance",
	})
	require.NoError(t, err)

	grid := resolve()
	assert.True(t, grid[1].IsBlocked())
	assert.Equal(t, created.ID, grid[1].BlockID)
	assert.Equal(t, "Maintenance", grid[1].BlockReason)

	resp, err := unblockUC.Execute(context.Background(), &Request{UserID: adminID, BlockIDs: []int64{created.ID}})
	require.NoError(t, err)
	assert.Equal(t, []int64{created.ID}, resp.Removed)

	for _, s := range resolve() {
		assert.True(t, s.IsAvailable(), "slot %s", s.Label())
	}

	require.Len(t, pub.events, 2)
	assert.Equal(t, domain.ChangeBlockRemoved, pub.events[1].Kind)
	assert.Equal(t, []int64{created.ID}, pub.events[1].BlockIDs)
}

func TestExecute_PublishesPerCourtAndDate(t *testing.T) {
	store := newMemoryBlocks(
		&domain.UnavailabilityBlock{ID: 1, CourtID: 1, BlockDate: day(1), StartTime: "08:00", EndTime: "09:00"},
		&domain.UnavailabilityBlock{ID: 2, CourtID: 1, BlockDate: day(1), StartTime: "10:00", EndTime: "11:00"},
		&domain.UnavailabilityBlock{ID: 3, CourtID: 1, BlockDate: day(2), StartTime: "08:00", EndTime: "09:00"},
		&domain.UnavailabilityBlock{ID: 4, CourtID: 3, BlockDate: day(1), StartTime: "08:00", EndTime: "09:00"},
	)
	pub := &fakePublisher{}
	uc := NewUseCase(fakeCourts{}, fakeInstitutions{}, store, passthroughTx{}, pub, logger.NewNop())

	_, err := uc.Execute(context.Background(), &Request{UserID: adminID, BlockIDs: []int64{1, 2, 3, 4}})
	require.NoError(t, err)

	assert.Empty(t, store.blocks)
	require.Len(t, pub.events, 3)
	assert.Equal(t, []int64{1, 2}, pub.events[0].BlockIDs)
	assert.Equal(t, []int64{3}, pub.events[1].BlockIDs)
	assert.Equal(t, int64(3), pub.events[2].CourtID)
}

func TestExecute_AllOrNothing(t *testing.T) {
	seed := func() *memoryBlocks {
		return newMemoryBlocks(
			&domain.UnavailabilityBlock{ID: 1, CourtID: 1, BlockDate: day(1), StartTime: "08:00", EndTime: "09:00"},
			&domain.UnavailabilityBlock{ID: 2, CourtID: 2, BlockDate: day(1), StartTime: "08:00", EndTime: "09:00"},
		)
	}

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{"missing block", &Request{UserID: adminID, BlockIDs: []int64{1, 99}}, ErrBlockNotFound},
		{"foreign court", &Request{UserID: adminID, BlockIDs: []int64{1, 2}}, ErrForbidden},
		{"not an admin", &Request{UserID: 7, BlockIDs: []int64{1}}, ErrForbidden},
		{"empty list", &Request{UserID: adminID}, ErrInvalidInput},
		{"duplicate ids", &Request{UserID: adminID, BlockIDs: []int64{1, 1}}, ErrInvalidInput},
		{"non-positive id", &Request{UserID: adminID, BlockIDs: []int64{0}}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seed()
			pub := &fakePublisher{}
			uc := NewUseCase(fakeCourts{}, fakeInstitutions{}, store, passthroughTx{}, pub, logger.NewNop())

			_, err := uc.Execute(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Len(t, store.blocks, 2)
			assert.Empty(t, pub.events)
		})
	}
}

func TestExecute_DeleteFailure(t *testing.T) {
	store := newMemoryBlocks(&domain.UnavailabilityBlock{ID: 1, CourtID: 1, BlockDate: day(1)})
	store.deleteErr = errors.New("connection reset")
	uc := NewUseCase(fakeCourts{}, fakeInstitutions{}, store, passthroughTx{}, nil, logger.NewNop())

	_, err := uc.Execute(context.Background(), &Request{UserID: adminID, BlockIDs: []int64{1}})

	assert.ErrorIs(t, err, ErrInternal)
}
