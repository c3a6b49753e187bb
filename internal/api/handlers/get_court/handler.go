package get_court

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/court-booking-service/internal/api/handlers"
	"github.com/m04kA/court-booking-service/internal/service/courts"
)

const (
	msgInvalidCourtID = "некорректный ID корта"
	msgCourtNotFound  = "корт не найден"
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

// Handle GET /api/v1/courts/{courtId}
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	courtID, err := strconv.ParseInt(mux.Vars(r)["courtId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /courts/{id} - Invalid court ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	court, err := h.service.GetByID(r.Context(), courtID)
	if err != nil {
		if errors.Is(err, courts.ErrCourtNotFound) {
			h.logger.Warn("GET /courts/{id} - Court not found: court_id=%d", courtID)
			handlers.RespondNotFound(w, msgCourtNotFound)
			return
		}

		h.logger.Error("GET /courts/{id} - Failed to get court: court_id=%d, error=%v", courtID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, court)
}
