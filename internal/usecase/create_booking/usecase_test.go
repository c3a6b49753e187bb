package create_booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/court-booking-service/internal/domain"
	courtRepo "github.com/m04kA/court-booking-service/internal/infra/storage/court"
	"github.com/m04kA/court-booking-service/pkg/logger"
	"github.com/m04kA/court-booking-service/pkg/ptr"
	"github.com/m04kA/court-booking-service/pkg/txmanager"
	"github.com/m04kA/court-booking-service/pkg/types"
)

type fakeCourts struct {
	courts map[int64]*domain.Court
	err    error
}

func (f *fakeCourts) GetByID(_ context.Context, id int64) (*domain.Court, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.courts[id]
	if !ok {
		return nil, courtRepo.ErrCourtNotFound
	}
	copied := *c
	return &copied, nil
}

type fakeBookings struct {
	stored    []*domain.Booking
	createErr error
}

func (f *fakeBookings) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	b.ID = int64(len(f.stored) + 1)
	b.ReferenceCode = fmt.Sprintf("CB-%08X", b.ID)
	f.stored = append(f.stored, b)
	return b, nil
}

func (f *fakeBookings) GetByCourtAndDate(_ context.Context, courtID int64, date time.Time) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range f.stored {
		if b.CourtID == courtID && b.BookingDate.Equal(date) && b.IsActive() {
			result = append(result, b)
		}
	}
	return result, nil
}

type fakeBlocks struct {
	blocks []*domain.UnavailabilityBlock
}

func (f *fakeBlocks) GetByCourtAndDate(_ context.Context, courtID int64, date time.Time) ([]*domain.UnavailabilityBlock, error) {
	result := make([]*domain.UnavailabilityBlock, 0)
	for _, b := range f.blocks {
		if b.CourtID == courtID && b.BlockDate.Equal(date) {
			result = append(result, b)
		}
	}
	return result, nil
}

type fakeTx struct {
	err   error
	calls int
}

func (f *fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return fn(ctx)
}

type fakePublisher struct {
	events []domain.ChangeEvent
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, ev domain.ChangeEvent) error {
	f.events = append(f.events, ev)
	return f.err
}

type fakeMetrics struct {
	conflicts map[string]int
}

func (f *fakeMetrics) IncBookingConflict(kind string) {
	f.conflicts[kind]++
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

type fixture struct {
	uc        *UseCase
	bookings  *fakeBookings
	blocks    *fakeBlocks
	tx        *fakeTx
	publisher *fakePublisher
	metrics   *fakeMetrics
}

var (
	today    = time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	tomorrow = time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
)

func newFixture(rules Rules) *fixture {
	f := &fixture{
		bookings:  &fakeBookings{},
		blocks:    &fakeBlocks{},
		tx:        &fakeTx{},
		publisher: &fakePublisher{},
		metrics:   &fakeMetrics{conflicts: map[string]int{}},
	}
	courts := &fakeCourts{courts: map[int64]*domain.Court{
		1: {ID: 1, Name: "Court 1", OpenTime: "06:00", CloseTime: "22:00", SlotDurationMinutes: 60, PricePerSlot: 1000, Enabled: true, SportIDs: []int64{5}},
		2: {ID: 2, Name: "Court 2", OpenTime: "08:00", CloseTime: "14:00", SlotDurationMinutes: 30, PricePerSlot: 500, Enabled: true, SportIDs: []int64{5, 6}},
		3: {ID: 3, Name: "Closed", OpenTime: "08:00", CloseTime: "14:00", SlotDurationMinutes: 60, Enabled: false, SportIDs: []int64{5}},
	}}
	f.uc = NewUseCase(courts, f.bookings, f.blocks, f.tx, f.publisher, f.metrics, rules, logger.NewNop())
	f.uc.timeProvider = fixedTime{now: today.Add(10 * time.Hour)}
	return f
}

func validRequest() *Request {
	return &Request{
		CourtID:       1,
		Date:          tomorrow,
		StartTime:     "14:00",
		EndTime:       "16:00",
		CustomerName:  "Ana Pérez",
		CustomerPhone: "+54 11 5555-1234",
	}
}

func TestExecute_CreatesBooking(t *testing.T) {
	f := newFixture(Rules{MinBookingNoticeMinutes: 30})

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "CB-00000001", resp.ReferenceCode)
	assert.Equal(t, "14:00:00", resp.StartTime.Canonical())
	assert.Equal(t, "16:00:00", resp.EndTime.Canonical())
	assert.Equal(t, 2, resp.SlotCount)
	assert.Equal(t, 120, resp.DurationMinutes)
	assert.Equal(t, int64(2000), resp.TotalPrice)
	assert.Equal(t, int64(5), resp.SportID, "single sport is chosen automatically")
	assert.Equal(t, "+541155551234", resp.CustomerPhone)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)

	require.Len(t, f.publisher.events, 1)
	ev := f.publisher.events[0]
	assert.Equal(t, domain.ChangeBookingCreated, ev.Kind)
	assert.Equal(t, int64(1), ev.CourtID)
	assert.Equal(t, "2026-11-02", ev.Date)
	assert.Equal(t, int64(1), *ev.BookingID)
}

func TestExecute_SecondBookingOfSameSlotConflicts(t *testing.T) {
	f := newFixture(Rules{})

	first := validRequest()
	first.StartTime, first.EndTime = "18:00", "19:00"
	_, err := f.uc.Execute(context.Background(), first)
	require.NoError(t, err)

	second := validRequest()
	second.StartTime, second.EndTime = "17:00", "19:00"
	second.CustomerName = "Bruno"
	_, err = f.uc.Execute(context.Background(), second)

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Len(t, f.bookings.stored, 1)
	assert.Len(t, f.publisher.events, 1)
	assert.Equal(t, 1, f.metrics.conflicts["occupied"])
}

func TestExecute_SerializationFailureIsConflict(t *testing.T) {
	f := newFixture(Rules{})
	f.tx.err = fmt.Errorf("%w: pq: could not serialize access", txmanager.ErrSerializationFailure)

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Equal(t, 1, f.metrics.conflicts["serialization"])
	assert.Empty(t, f.publisher.events)
}

func TestExecute_BlockedSlotIsNotAvailable(t *testing.T) {
	f := newFixture(Rules{})
	f.blocks.blocks = []*domain.UnavailabilityBlock{
		{ID: 9, CourtID: 1, BlockDate: tomorrow, StartTime: "15:00", EndTime: "17:00", Reason: "Maintenance"},
	}

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_BookingEndingAtStartDoesNotConflict(t *testing.T) {
	f := newFixture(Rules{})
	f.bookings.stored = []*domain.Booking{
		{ID: 1, CourtID: 1, BookingDate: tomorrow, StartTime: "12:00", EndTime: "14:00", Status: domain.StatusConfirmed},
		{ID: 2, CourtID: 1, BookingDate: tomorrow, StartTime: "14:00", EndTime: "16:00", Status: domain.StatusCancelled},
	}

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.NoError(t, err)
}

func TestExecute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(r *Request)
		wantErr error
	}{
		{"missing name", func(r *Request) { r.CustomerName = "" }, ErrInvalidInput},
		{"blank name", func(r *Request) { r.CustomerName = "   " }, ErrInvalidInput},
		{"bad phone", func(r *Request) { r.CustomerPhone = "call me" }, ErrInvalidInput},
		{"bad email", func(r *Request) { r.CustomerEmail = ptr.Ptr("nope") }, ErrInvalidInput},
		{"no date", func(r *Request) { r.Date = time.Time{} }, ErrInvalidInput},
		{"reversed interval", func(r *Request) { r.StartTime, r.EndTime = "16:00", "14:00" }, ErrInvalidInput},
		{"bad time", func(r *Request) { r.StartTime = "14:7" }, ErrInvalidInput},
		{"past date", func(r *Request) { r.Date = today.AddDate(0, 0, -1) }, ErrInvalidDate},
		{"unknown court", func(r *Request) { r.CourtID = 99 }, ErrCourtNotFound},
		{"disabled court", func(r *Request) { r.CourtID = 3; r.StartTime, r.EndTime = "09:00", "10:00" }, ErrCourtDisabled},
		{"off grid start", func(r *Request) { r.StartTime = "14:30" }, ErrInvalidTimeSlot},
		{"off grid end", func(r *Request) { r.EndTime = "15:30" }, ErrInvalidTimeSlot},
		{"past closing", func(r *Request) { r.StartTime, r.EndTime = "21:00", "23:00" }, ErrInvalidTimeSlot},
		{"price mismatch", func(r *Request) { r.TotalPrice = ptr.Ptr(int64(1500)) }, ErrInvalidInput},
		{"sport not supported", func(r *Request) { r.SportID = ptr.Ptr(int64(7)) }, ErrSportNotSupported},
		{"sport required", func(r *Request) { r.CourtID = 2; r.StartTime, r.EndTime = "10:00", "11:00" }, ErrSportRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(Rules{})
			req := validRequest()
			tt.modify(req)

			_, err := f.uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, f.tx.calls, "rejected before touching the store")
		})
	}
}

func TestExecute_MatchingClientPriceIsAccepted(t *testing.T) {
	f := newFixture(Rules{})
	req := validRequest()
	req.TotalPrice = ptr.Ptr(int64(2000))

	_, err := f.uc.Execute(context.Background(), req)

	assert.NoError(t, err)
}

func TestExecute_PartialSlotBooking(t *testing.T) {
	f := newFixture(Rules{})
	f.bookings.stored = []*domain.Booking{
		{ID: 1, CourtID: 2, BookingDate: tomorrow, StartTime: "10:00", EndTime: "11:30", Status: domain.StatusConfirmed},
	}

	req := validRequest()
	req.CourtID, req.SportID = 2, ptr.Ptr(int64(6))
	req.StartTime, req.EndTime = "11:00", "12:00"
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	req.StartTime, req.EndTime = "11:30", "12:00"
	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(500), resp.TotalPrice)
}

func TestExecute_BookingRules(t *testing.T) {
	t.Run("min notice applies today", func(t *testing.T) {
		f := newFixture(Rules{MinBookingNoticeMinutes: 30})
		req := validRequest()
		req.Date = today
		req.StartTime, req.EndTime = "10:00", "11:00"

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrTooLateToBook)

		req.StartTime, req.EndTime = "11:00", "12:00"
		_, err = f.uc.Execute(context.Background(), req)
		assert.NoError(t, err)
	})

	t.Run("advance booking horizon", func(t *testing.T) {
		f := newFixture(Rules{AdvanceBookingDays: 7})
		req := validRequest()
		req.Date = today.AddDate(0, 0, 8)

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrDateTooFarInFuture)

		req.Date = today.AddDate(0, 0, 7)
		_, err = f.uc.Execute(context.Background(), req)
		assert.NoError(t, err)
	})
}

func TestExecute_StoreErrors(t *testing.T) {
	f := newFixture(Rules{})
	f.bookings.createErr = errors.New("connection reset")

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, f.publisher.events)
}

func TestExecute_PublishFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(Rules{})
	f.publisher.err = errors.New("redis down")

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
}

func TestValidateBookingTime_PastMidnight(t *testing.T) {
	now := time.Date(2026, 11, 1, 23, 50, 0, 0, time.UTC)

	err := validateBookingTime(today, types.TimeString("23:00"), now, 30)

	assert.ErrorIs(t, err, ErrTooLateToBook)
}
