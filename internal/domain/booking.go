package domain

import (
	"time"

	"github.com/m04kA/court-booking-service/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// IsValid returns true for known statuses
func (s BookingStatus) IsValid() bool {
	return s == StatusConfirmed || s == StatusCancelled
}

// Booking represents a customer reservation of a contiguous run of slots.
// [StartTime, EndTime) is half-open. Bookings are never deleted.
type Booking struct {
	ID            int64
	CourtID       int64
	BookingDate   time.Time
	StartTime     types.TimeString
	EndTime       types.TimeString
	SportID       int64
	CustomerName  string
	CustomerPhone string
	CustomerEmail *string
	Status        BookingStatus
	TotalPrice    int64
	ReferenceCode string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies its slots
func (b *Booking) IsActive() bool {
	return b.Status == StatusConfirmed
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusConfirmed
}

// Interval returns the occupied time range
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// CourtBookingsFilter фильтр для получения бронирований корта
type CourtBookingsFilter struct {
	CourtID         int64          // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отмененные бронирования
}
