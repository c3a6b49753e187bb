package unblock_slots

import (
	"context"

	"github.com/m04kA/court-booking-service/internal/domain"
)

// CourtRepository интерфейс репозитория кортов
type CourtRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
}

// InstitutionRepository проверка прав администратора учреждения
type InstitutionRepository interface {
	IsAdmin(ctx context.Context, institutionID, userID int64) (bool, error)
}

// BlockRepository интерфейс репозитория блокировок
type BlockRepository interface {
	// GetByIDs внутри транзакции блокирует строки (FOR UPDATE)
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.UnavailabilityBlock, error)
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Publisher публикует изменения корта подписчикам
type Publisher interface {
	Publish(ctx context.Context, ev domain.ChangeEvent) error
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
