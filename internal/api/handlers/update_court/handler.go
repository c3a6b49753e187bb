package update_court

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/court-booking-service/internal/api/handlers"
	"github.com/m04kA/court-booking-service/internal/api/middleware"
	"github.com/m04kA/court-booking-service/internal/service/courts"
	"github.com/m04kA/court-booking-service/internal/service/courts/models"
)

const (
	msgInvalidCourtID     = "некорректный ID корта"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgCourtNotFound      = "корт не найден"
	msgInstitutionMissing = "учреждение корта не найдено"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service CourtService
	logger  Logger
}

func NewHandler(service CourtService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/courts/{courtId}
// Частичное обновление: отсутствующие поля не меняются.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	courtID, err := strconv.ParseInt(mux.Vars(r)["courtId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /courts/{id} - Invalid court ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /courts/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdateCourtRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /courts/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID

	court, err := h.service.Update(r.Context(), courtID, &req)
	if err != nil {
		switch {
		case errors.Is(err, courts.ErrCourtNotFound):
			h.logger.Warn("PATCH /courts/{id} - Court not found: court_id=%d", courtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, courts.ErrInstitutionNotFound):
			handlers.RespondNotFound(w, msgInstitutionMissing)

		case errors.Is(err, courts.ErrAccessDenied):
			h.logger.Warn("PATCH /courts/{id} - Access denied: court_id=%d, user_id=%d", courtID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, courts.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PATCH /courts/{id} - Failed to update court: court_id=%d, error=%v", courtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /courts/{id} - Court updated: court_id=%d, user_id=%d", courtID, userID)
	handlers.RespondJSON(w, http.StatusOK, court)
}
