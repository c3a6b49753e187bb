package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/court-booking-service/internal/domain"
)

// CourtRepository интерфейс репозитория кортов
type CourtRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByCourtAndDate(ctx context.Context, courtID int64, date time.Time) ([]*domain.Booking, error)
}

// BlockRepository интерфейс репозитория блокировок
type BlockRepository interface {
	GetByCourtAndDate(ctx context.Context, courtID int64, date time.Time) ([]*domain.UnavailabilityBlock, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Publisher публикует изменения корта подписчикам
type Publisher interface {
	Publish(ctx context.Context, ev domain.ChangeEvent) error
}

// Metrics счетчик конфликтов бронирования
type Metrics interface {
	IncBookingConflict(kind string)
}

// Validator проверяет структуру запроса
type Validator interface {
	Struct(s interface{}) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
