package create_booking

import (
	"time"

	"github.com/m04kA/court-booking-service/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	CourtID       int64            `validate:"gt=0"`
	Date          time.Time        // Дата бронирования (без времени)
	StartTime     types.TimeString `validate:"required,timestring"`
	EndTime       types.TimeString `validate:"required,timestring"`
	SportID       *int64           `validate:"omitempty,gt=0"`
	CustomerName  string           `validate:"required,min=2,max=100"`
	CustomerPhone string           `validate:"required,phone"`
	CustomerEmail *string          `validate:"omitempty,email,max=255"`
	TotalPrice    *int64           `validate:"omitempty,gte=0"` // Цена, показанная клиенту; сверяется с серверной
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64
	ReferenceCode   string
	CourtID         int64
	CourtName       string
	BookingDate     time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	SlotCount       int
	DurationMinutes int
	SportID         int64
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   *string
	Status          string
	TotalPrice      int64
	CreatedAt       time.Time
}
