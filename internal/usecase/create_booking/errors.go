package create_booking

import "errors"

var (
	// ErrCourtNotFound возвращается, когда корт не найден
	ErrCourtNotFound = errors.New("create_booking: court not found")

	// ErrCourtDisabled возвращается, когда корт выключен администратором
	ErrCourtDisabled = errors.New("create_booking: court is disabled")

	// ErrSportRequired возвращается, когда на корте несколько видов спорта и вид не указан
	ErrSportRequired = errors.New("create_booking: sport must be chosen for this court")

	// ErrSportNotSupported возвращается, когда вид спорта не поддерживается кортом
	ErrSportNotSupported = errors.New("create_booking: sport is not played on this court")

	// ErrInvalidDate возвращается, когда дата бронирования в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advance_booking_days
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrInvalidTimeSlot возвращается, когда интервал не совпадает с сеткой слотов корта
	ErrInvalidTimeSlot = errors.New("create_booking: interval does not match the slot grid")

	// ErrTooLateToBook возвращается, когда нарушен min_booking_notice_minutes
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrSlotNotAvailable возвращается, когда хотя бы один слот интервала занят или заблокирован
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
