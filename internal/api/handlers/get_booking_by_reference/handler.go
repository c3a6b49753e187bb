package get_booking_by_reference

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/court-booking-service/internal/api/handlers"
	"github.com/m04kA/court-booking-service/internal/service/bookings"
)

const (
	msgInvalidCode = "некорректный код бронирования"
	msgNotFound    = "бронирование не найдено"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/reference/{referenceCode}
// Публичный эндпоинт: клиент проверяет свою бронь по коду, контакты не возвращаются.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["referenceCode"]

	booking, err := h.service.GetByReference(r.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /bookings/reference/{code} - Invalid code: %q", code)
			handlers.RespondBadRequest(w, msgInvalidCode)

		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("GET /bookings/reference/{code} - Booking not found: code=%s", code)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /bookings/reference/{code} - Failed to get booking: code=%s, error=%v", code, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/reference/{code} - Booking retrieved: code=%s", booking.ReferenceCode)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
