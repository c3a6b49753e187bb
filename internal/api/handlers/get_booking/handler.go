package get_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/court-booking-service/internal/api/handlers"
	"github.com/m04kA/court-booking-service/internal/api/middleware"
	"github.com/m04kA/court-booking-service/internal/service/bookings"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "бронирование не найдено"
	msgCourtNotFound    = "корт бронирования не найден"
	msgForbidden        = "доступ запрещен"
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

// Handle GET /api/v1/bookings/{bookingId}
// Полная карточка брони с контактами клиента, только для администраторов учреждения.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil || bookingID <= 0 {
		h.logger.Warn("GET /bookings/{id} - Invalid booking ID: %q", mux.Vars(r)["bookingId"])
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	booking, err := h.service.GetByID(r.Context(), bookingID, userID)
	switch {
	case err == nil:
		h.logger.Info("GET /bookings/{id} - Booking retrieved: booking_id=%d, reference=%s, user_id=%d",
			bookingID, booking.ReferenceCode, userID)
		handlers.RespondJSON(w, http.StatusOK, booking)

	case errors.Is(err, bookings.ErrBookingNotFound):
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, bookings.ErrCourtNotFound):
		handlers.RespondNotFound(w, msgCourtNotFound)

	case errors.Is(err, bookings.ErrAccessDenied):
		h.logger.Warn("GET /bookings/{id} - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
		handlers.RespondForbidden(w, msgForbidden)

	default:
		h.logger.Error("GET /bookings/{id} - Failed to get booking: booking_id=%d, error=%v", bookingID, err)
		handlers.RespondInternalError(w)
	}
}
