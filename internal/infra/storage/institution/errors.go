package institution

import "errors"

var (
	// ErrInstitutionNotFound возвращается, когда учреждение не найдено
	ErrInstitutionNotFound = errors.New("institution.repository: institution not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("institution.repository: failed to build query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("institution.repository: failed to scan row")
)
