package list_courts

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/court-booking-service/internal/api/handlers"
)

const (
	msgInvalidInstitutionID = "некорректный ID учреждения"
	msgInvalidParams        = "некорректные параметры запроса"
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

// Handle GET /api/v1/institutions/{institutionId}/courts
// Query params: includeDisabled (опционально, по умолчанию только включенные)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	institutionID, err := strconv.ParseInt(mux.Vars(r)["institutionId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /institutions/{id}/courts - Invalid institution ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInstitutionID)
		return
	}

	includeDisabled := false
	if s := r.URL.Query().Get("includeDisabled"); s != "" {
		includeDisabled, err = strconv.ParseBool(s)
		if err != nil {
			h.logger.Warn("GET /institutions/{id}/courts - Invalid includeDisabled: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
	}

	result, err := h.service.GetByInstitution(r.Context(), institutionID, includeDisabled)
	if err != nil {
		h.logger.Error("GET /institutions/{id}/courts - Failed to list courts: institution_id=%d, error=%v",
			institutionID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /institutions/{id}/courts - Courts retrieved: institution_id=%d, count=%d",
		institutionID, len(result.Courts))
	handlers.RespondJSON(w, http.StatusOK, result)
}
