package create_court

import (
	"errors"
	"net/http"

	"github.com/m04kA/court-booking-service/internal/api/handlers"
	"github.com/m04kA/court-booking-service/internal/api/middleware"
	"github.com/m04kA/court-booking-service/internal/service/courts"
	"github.com/m04kA/court-booking-service/internal/service/courts/models"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgInstitutionNotFound = "учреждение не найдено"
	msgForbidden           = "доступ запрещен"
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

// Handle POST /api/v1/courts
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /courts - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateCourtRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /courts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID

	court, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, courts.ErrInvalidInput):
			h.logger.Warn("POST /courts - Invalid court: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, courts.ErrInstitutionNotFound):
			handlers.RespondNotFound(w, msgInstitutionNotFound)

		case errors.Is(err, courts.ErrAccessDenied):
			h.logger.Warn("POST /courts - Access denied: institution_id=%d, user_id=%d", req.InstitutionID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /courts - Failed to create court: institution_id=%d, error=%v", req.InstitutionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /courts - Court created: court_id=%d, institution_id=%d, user_id=%d",
		court.ID, court.InstitutionID, userID)
	handlers.RespondJSON(w, http.StatusCreated, court)
}
