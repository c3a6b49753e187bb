package unblock_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/court-booking-service/internal/api/handlers"
	"github.com/m04kA/court-booking-service/internal/api/middleware"
	unblockSlots "github.com/m04kA/court-booking-service/internal/usecase/unblock_slots"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidBlockIDs    = "необходимо указать от 1 до 100 различных ID блокировок"
	msgBlockNotFound      = "блокировка не найдена"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	useCase UnblockSlotsUseCase
	logger  Logger
}

func NewHandler(useCase UnblockSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/blocks/unblock
// Снимает все перечисленные блокировки или ни одной.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /blocks/unblock - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UnblockSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /blocks/unblock - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &unblockSlots.Request{
		UserID:   userID,
		BlockIDs: req.BlockIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, unblockSlots.ErrInvalidInput):
			h.logger.Warn("POST /blocks/unblock - Invalid block IDs: %v", req.BlockIDs)
			handlers.RespondBadRequest(w, msgInvalidBlockIDs)

		case errors.Is(err, unblockSlots.ErrBlockNotFound):
			h.logger.Warn("POST /blocks/unblock - Block not found: %v", err)
			handlers.RespondNotFound(w, msgBlockNotFound)

		case errors.Is(err, unblockSlots.ErrForbidden):
			h.logger.Warn("POST /blocks/unblock - Access denied: user_id=%d", userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /blocks/unblock - Failed to unblock: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /blocks/unblock - Blocks removed: user_id=%d, count=%d", userID, len(result.Removed))
	handlers.RespondJSON(w, http.StatusOK, &UnblockSlotsResponse{Removed: result.Removed})
}
