package get_booking_by_reference

import (
	"context"

	"github.com/m04kA/court-booking-service/internal/service/bookings/models"
)

type BookingService interface {
	GetByReference(ctx context.Context, code string) (*models.PublicBookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
