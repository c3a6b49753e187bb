package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/court-booking-service/internal/api/handlers"
	createBooking "github.com/m04kA/court-booking-service/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgCourtNotFound      = "корт не найден"
	msgCourtDisabled      = "корт недоступен для бронирования"
	msgInvalidBookingDate = "некорректная дата бронирования"
	msgDateTooFar         = "дата бронирования слишком далеко в будущем"
	msgInvalidTimeSlot    = "интервал не совпадает с сеткой слотов корта"
	msgTooLateToBook      = "слишком поздно для бронирования этого слота"
	msgSportRequired      = "необходимо выбрать вид спорта"
	msgSportNotSupported  = "вид спорта недоступен на этом корте"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
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
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: court_id=%d, date=%s, interval=%s-%s",
				req.CourtID, req.BookingDate, req.StartTime, req.EndTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrCourtNotFound):
			h.logger.Warn("POST /bookings - Court not found: court_id=%d", req.CourtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, createBooking.ErrCourtDisabled):
			h.logger.Warn("POST /bookings - Court disabled: court_id=%d", req.CourtID)
			handlers.RespondConflict(w, msgCourtDisabled)

		case errors.Is(err, createBooking.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrInvalidTimeSlot):
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createBooking.ErrTooLateToBook):
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createBooking.ErrSportRequired):
			handlers.RespondBadRequest(w, msgSportRequired)

		case errors.Is(err, createBooking.ErrSportNotSupported):
			handlers.RespondBadRequest(w, msgSportNotSupported)

		case errors.Is(err, createBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings - Failed to create booking: court_id=%d, error=%v", req.CourtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, reference=%s, court_id=%d",
		result.ID, result.ReferenceCode, result.CourtID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
