package models

import (
	"errors"
	"time"

	"github.com/m04kA/court-booking-service/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования администратором
type CancelBookingRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// GetCourtBookingsRequest запрос на получение бронирований корта
type GetCourtBookingsRequest struct {
	UserID          int64      `json:"userId"`
	CourtID         int64      `json:"courtId"`
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отменённые бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetCourtBookingsRequest) ToDomainFilter() (domain.CourtBookingsFilter, error) {
	filter := domain.CourtBookingsFilter{
		CourtID:         r.CourtID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	// Конвертируем статус если указан
	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            int64   `json:"id"`
	ReferenceCode string  `json:"referenceCode"`
	CourtID       int64   `json:"courtId"`
	BookingDate   string  `json:"bookingDate"` // "2025-10-15"
	StartTime     string  `json:"startTime"`   // "10:00:00"
	EndTime       string  `json:"endTime"`     // "12:00:00"
	SportID       int64   `json:"sportId"`
	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
	CustomerEmail *string `json:"customerEmail,omitempty"`
	TotalPrice    int64   `json:"totalPrice"`
	Status        string  `json:"status"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PublicBookingResponse бронирование по коду брони, без контактов клиента
type PublicBookingResponse struct {
	ReferenceCode string `json:"referenceCode"`
	CourtID       int64  `json:"courtId"`
	BookingDate   string `json:"bookingDate"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	TotalPrice    int64  `json:"totalPrice"`
	Status        string `json:"status"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		ReferenceCode:      b.ReferenceCode,
		CourtID:            b.CourtID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.Canonical(),
		EndTime:            b.EndTime.Canonical(),
		SportID:            b.SportID,
		CustomerName:       b.CustomerName,
		CustomerPhone:      b.CustomerPhone,
		CustomerEmail:      b.CustomerEmail,
		TotalPrice:         b.TotalPrice,
		Status:             string(b.Status),
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainPublicBooking DTO для публичного поиска по коду брони
func FromDomainPublicBooking(b *domain.Booking) *PublicBookingResponse {
	if b == nil {
		return nil
	}
	return &PublicBookingResponse{
		ReferenceCode: b.ReferenceCode,
		CourtID:       b.CourtID,
		BookingDate:   b.BookingDate.Format(domain.DateFormat),
		StartTime:     b.StartTime.Canonical(),
		EndTime:       b.EndTime.Canonical(),
		TotalPrice:    b.TotalPrice,
		Status:        string(b.Status),
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
