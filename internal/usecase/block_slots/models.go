package block_slots

import (
	"time"

	"github.com/m04kA/court-booking-service/pkg/types"
)

// Request модель запроса на блокировку интервала
type Request struct {
	UserID    int64            `validate:"gt=0"` // Администратор, создающий блокировку
	CourtID   int64            `validate:"gt=0"`
	Date      time.Time        // Дата (без времени)
	StartTime types.TimeString `validate:"required,timestring"`
	EndTime   types.TimeString `validate:"required,timestring"`
	Reason    string           `validate:"required,max=500"`
}

// Response созданная блокировка
type Response struct {
	ID        int64
	CourtID   int64
	BlockDate time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	SlotCount int
	Reason    string
	CreatedBy int64
	CreatedAt time.Time
}
