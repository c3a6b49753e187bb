package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrReferenceCodeExhausted возвращается, когда не удалось подобрать уникальный код брони
	ErrReferenceCodeExhausted = errors.New("booking.repository: could not allocate unique reference code")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")

	// ErrNotCancellable возвращается, когда бронирование уже отменено
	ErrNotCancellable = errors.New("booking.repository: booking is not confirmed")
)
