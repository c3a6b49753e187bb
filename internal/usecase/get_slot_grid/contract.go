package get_slot_grid

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
	// GetByCourtAndDate подтвержденные бронирования корта на дату
	GetByCourtAndDate(ctx context.Context, courtID int64, date time.Time) ([]*domain.Booking, error)
}

// BlockRepository интерфейс репозитория блокировок
type BlockRepository interface {
	GetByCourtAndDate(ctx context.Context, courtID int64, date time.Time) ([]*domain.UnavailabilityBlock, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
