package get_slot_grid

import (
	"time"

	"github.com/m04kA/court-booking-service/internal/domain"
	"github.com/m04kA/court-booking-service/internal/slots"
)

// Request модель запроса сетки слотов
type Request struct {
	CourtID int64
	Date    time.Time // Дата (без времени)
}

// Response сетка слотов корта на дату с занятостью
type Response struct {
	Court     *domain.Court
	Date      time.Time
	Slots     []slots.Slot     // Сетка в порядке времени начала
	Counts    slots.Counts     // Сводка по состояниям
	Occupancy domain.Occupancy // Исходный снимок бронирований и блокировок
}
