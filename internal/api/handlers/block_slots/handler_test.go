package block_slots

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/court-booking-service/internal/api/handlers"
	"github.com/m04kA/court-booking-service/internal/api/middleware"
	blockSlots "github.com/m04kA/court-booking-service/internal/usecase/block_slots"
	"github.com/m04kA/court-booking-service/pkg/logger"
)

type fakeUseCase struct {
	got  *blockSlots.Request
	resp *blockSlots.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *blockSlots.Request) (*blockSlots.Response, error) {
	f.got = req
	return f.resp, f.err
}

const validBody = `{
	"date": "2026-11-02",
	"startTime": "09:00",
	"endTime": "11:00",
	"reason": "турнир"
}`

func doRequest(uc BlockSlotsUseCase, courtID, body string, userID int64) *httptest.ResponseRecorder {
	h := NewHandler(uc, logger.NewNop())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/courts/"+courtID+"/blocks", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"courtId": courtID})
	if userID != 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{resp: &blockSlots.Response{
		ID:        11,
		CourtID:   3,
		BlockDate: time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		EndTime:   "11:00",
		SlotCount: 2,
		Reason:    "турнир",
		CreatedBy: 42,
		CreatedAt: time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC),
	}}

	rec := doRequest(uc, "3", validBody, 42)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(3), uc.got.CourtID)
	assert.Equal(t, int64(42), uc.got.UserID)
	assert.Equal(t, "09:00", uc.got.StartTime.String())
	assert.Equal(t, "11:00", uc.got.EndTime.String())

	var body BlockResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(11), body.ID)
	assert.Equal(t, "2026-11-02", body.Date)
	assert.Equal(t, "09:00:00", body.StartTime)
	assert.Equal(t, "11:00:00", body.EndTime)
	assert.Equal(t, 2, body.SlotCount)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"court not found", blockSlots.ErrCourtNotFound, http.StatusNotFound},
		{"not an admin", blockSlots.ErrForbidden, http.StatusForbidden},
		{"interval occupied", fmt.Errorf("%w: booking 5", blockSlots.ErrSlotNotAvailable), http.StatusConflict},
		{"past date", blockSlots.ErrInvalidDate, http.StatusBadRequest},
		{"off grid", blockSlots.ErrInvalidTimeSlot, http.StatusBadRequest},
		{"invalid input", fmt.Errorf("%w: reason too long", blockSlots.ErrInvalidInput), http.StatusBadRequest},
		{"internal", blockSlots.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(&fakeUseCase{err: tt.err}, "3", validBody, 42)

			assert.Equal(t, tt.want, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body.Code)
		})
	}
}

func TestHandle_RejectedBeforeUseCase(t *testing.T) {
	tests := []struct {
		name    string
		courtID string
		body    string
		userID  int64
		want    int
	}{
		{"bad court id", "abc", validBody, 42, http.StatusBadRequest},
		{"no user", "3", validBody, 0, http.StatusUnauthorized},
		{"malformed json", "3", `{"date":`, 42, http.StatusBadRequest},
		{"bad date", "3", `{"date":"02.11.2026","startTime":"09:00","endTime":"11:00"}`, 42, http.StatusBadRequest},
		{"bad time", "3", `{"date":"2026-11-02","startTime":"9am","endTime":"11:00"}`, 42, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{}
			rec := doRequest(uc, tt.courtID, tt.body, tt.userID)

			assert.Equal(t, tt.want, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}
