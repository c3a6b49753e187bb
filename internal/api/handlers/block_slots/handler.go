package block_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/court-booking-service/internal/api/handlers"
	"github.com/m04kA/court-booking-service/internal/api/middleware"
	blockSlots "github.com/m04kA/court-booking-service/internal/usecase/block_slots"
)

const (
	msgInvalidCourtID     = "некорректный ID корта"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgPastDate           = "нельзя заблокировать прошедшую дату"
	msgInvalidTimeSlot    = "интервал не совпадает с сеткой слотов корта"
	msgSlotNotAvailable   = "интервал уже занят бронированием или блокировкой"
	msgCourtNotFound      = "корт не найден"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	useCase BlockSlotsUseCase
	logger  Logger
}

func NewHandler(useCase BlockSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/courts/{courtId}/blocks
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	courtID, err := strconv.ParseInt(mux.Vars(r)["courtId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /courts/{id}/blocks - Invalid court ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /courts/{id}/blocks - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req BlockSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /courts/{id}/blocks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(courtID, userID)
	if err != nil {
		h.logger.Warn("POST /courts/{id}/blocks - Failed to parse request: %v", err)
		if errors.Is(err, errParseTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, blockSlots.ErrCourtNotFound):
			h.logger.Warn("POST /courts/{id}/blocks - Court not found: court_id=%d", courtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, blockSlots.ErrForbidden):
			h.logger.Warn("POST /courts/{id}/blocks - Access denied: court_id=%d, user_id=%d", courtID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, blockSlots.ErrSlotNotAvailable):
			h.logger.Warn("POST /courts/{id}/blocks - Interval occupied: court_id=%d, date=%s, interval=%s-%s",
				courtID, req.Date, req.StartTime, req.EndTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, blockSlots.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, blockSlots.ErrInvalidTimeSlot):
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, blockSlots.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /courts/{id}/blocks - Failed to block slots: court_id=%d, error=%v", courtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /courts/{id}/blocks - Block created: block_id=%d, court_id=%d, user_id=%d",
		result.ID, courtID, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
