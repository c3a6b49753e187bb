package courts

import (
	"context"

	"github.com/m04kA/court-booking-service/internal/domain"
)

// CourtRepository интерфейс репозитория кортов
type CourtRepository interface {
	Create(ctx context.Context, court *domain.Court) (*domain.Court, error)
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
	GetByInstitution(ctx context.Context, institutionID int64, onlyEnabled bool) ([]*domain.Court, error)
	Update(ctx context.Context, court *domain.Court) (*domain.Court, error)
}

// InstitutionRepository проверка прав администратора учреждения
type InstitutionRepository interface {
	IsAdmin(ctx context.Context, institutionID, userID int64) (bool, error)
}

// Validator валидатор структур
type Validator interface {
	Struct(s interface{}) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
