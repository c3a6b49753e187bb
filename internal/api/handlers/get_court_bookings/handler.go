package get_court_bookings

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
	msgInvalidCourtID = "некорректный ID корта"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgInvalidParams  = "некорректные параметры запроса"
	msgCourtNotFound  = "корт не найден"
	msgForbidden      = "доступ запрещен"
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

// Handle GET /api/v1/courts/{courtId}/bookings
// Query params: date | from, to; status; includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	courtID, err := strconv.ParseInt(mux.Vars(r)["courtId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /courts/{id}/bookings - Invalid court ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /courts/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	serviceReq, err := ToServiceRequest(courtID, userID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /courts/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Сервис сам проверит, что пользователь администратор учреждения
	result, err := h.service.GetCourtBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrCourtNotFound):
			h.logger.Warn("GET /courts/{id}/bookings - Court not found: court_id=%d", courtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /courts/{id}/bookings - Access denied: court_id=%d, user_id=%d",
				courtID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /courts/{id}/bookings - Failed to get bookings: court_id=%d, error=%v",
				courtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /courts/{id}/bookings - Bookings retrieved successfully: court_id=%d, count=%d",
		courtID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
