package create_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/court-booking-service/internal/api/handlers"
	createBooking "github.com/m04kA/court-booking-service/internal/usecase/create_booking"
	"github.com/m04kA/court-booking-service/pkg/logger"
)

type fakeUseCase struct {
	got  *createBooking.Request
	resp *createBooking.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	f.got = req
	return f.resp, f.err
}

const validBody = `{
	"courtId": 3,
	"bookingDate": "2026-11-02",
	"startTime": "14:00",
	"endTime": "16:00",
	"customerName": "Ana Diaz",
	"customerPhone": "+15559998888"
}`

func doRequest(uc CreateBookingUseCase, body string) *httptest.ResponseRecorder {
	h := NewHandler(uc, logger.NewNop())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{resp: &createBooking.Response{
		ID:              7,
		ReferenceCode:   "CB-7F3A9C21",
		CourtID:         3,
		CourtName:       "Center Court",
		BookingDate:     time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC),
		StartTime:       "14:00",
		EndTime:         "16:00",
		SlotCount:       2,
		DurationMinutes: 120,
		SportID:         5,
		CustomerName:    "Ana Diaz",
		CustomerPhone:   "+15559998888",
		Status:          "confirmed",
		TotalPrice:      2000,
		CreatedAt:       time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC),
	}}

	rec := doRequest(uc, validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(3), uc.got.CourtID)
	assert.Equal(t, "14:00", uc.got.StartTime.String())
	assert.Equal(t, "16:00", uc.got.EndTime.String())

	var body BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "CB-7F3A9C21", body.ReferenceCode)
	assert.Equal(t, "14:00:00", body.StartTime)
	assert.Equal(t, "16:00:00", body.EndTime)
	assert.Equal(t, "2026-11-02", body.BookingDate)
	assert.Equal(t, int64(2000), body.TotalPrice)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"slot taken", fmt.Errorf("%w: slot 14:00", createBooking.ErrSlotNotAvailable), http.StatusConflict},
		{"court not found", createBooking.ErrCourtNotFound, http.StatusNotFound},
		{"court disabled", createBooking.ErrCourtDisabled, http.StatusConflict},
		{"off grid", createBooking.ErrInvalidTimeSlot, http.StatusBadRequest},
		{"too late", createBooking.ErrTooLateToBook, http.StatusBadRequest},
		{"too far", createBooking.ErrDateTooFarInFuture, http.StatusBadRequest},
		{"sport required", createBooking.ErrSportRequired, http.StatusBadRequest},
		{"invalid input", createBooking.ErrInvalidInput, http.StatusBadRequest},
		{"internal", createBooking.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(&fakeUseCase{err: tt.err}, validBody)

			assert.Equal(t, tt.want, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body.Code)
		})
	}
}

func TestHandle_BadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"courtId":`},
		{"unknown field", `{"courtId":3,"userId":1}`},
		{"bad date", `{"courtId":3,"bookingDate":"02.11.2026","startTime":"14:00","endTime":"16:00"}`},
		{"bad time", `{"courtId":3,"bookingDate":"2026-11-02","startTime":"2pm","endTime":"16:00"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{}
			rec := doRequest(uc, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}
