package unblock_slots

import "errors"

var (
	// ErrBlockNotFound возвращается, когда хотя бы одна из блокировок не найдена
	ErrBlockNotFound = errors.New("block not found")

	// ErrForbidden возвращается, когда пользователь не администрирует корт блокировки
	ErrForbidden = errors.New("user is not an admin of the court's institution")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
