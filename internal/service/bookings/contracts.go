package bookings

import (
	"context"

	"github.com/m04kA/court-booking-service/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByReference(ctx context.Context, code string) (*domain.Booking, error)
	GetByCourtWithFilter(ctx context.Context, filter domain.CourtBookingsFilter) ([]*domain.Booking, error)
	Cancel(ctx context.Context, id int64, reason string) (*domain.Booking, error)
}

// CourtRepository интерфейс репозитория кортов
type CourtRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
}

// InstitutionRepository проверка прав администратора учреждения
type InstitutionRepository interface {
	IsAdmin(ctx context.Context, institutionID, userID int64) (bool, error)
}

// Publisher публикует изменения корта подписчикам
type Publisher interface {
	Publish(ctx context.Context, ev domain.ChangeEvent) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
