package block_slots

import "errors"

var (
	// ErrCourtNotFound возвращается, когда корт не найден
	ErrCourtNotFound = errors.New("court not found")

	// ErrForbidden возвращается, когда пользователь не администрирует учреждение корта
	ErrForbidden = errors.New("user is not an admin of the court's institution")

	// ErrInvalidDate возвращается для дат в прошлом
	ErrInvalidDate = errors.New("invalid block date")

	// ErrInvalidTimeSlot возвращается, когда интервал не совпадает с сеткой слотов
	ErrInvalidTimeSlot = errors.New("interval is not aligned to the court's slots")

	// ErrSlotNotAvailable возвращается, когда слот уже забронирован или заблокирован
	ErrSlotNotAvailable = errors.New("time slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
