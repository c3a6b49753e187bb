package create_booking

import (
	"errors"
	"time"

	"github.com/m04kA/court-booking-service/internal/domain"
	createBooking "github.com/m04kA/court-booking-service/internal/usecase/create_booking"
	"github.com/m04kA/court-booking-service/pkg/types"
)

var (
	errParseDate = errors.New("invalid booking date")
	errParseTime = errors.New("invalid time")
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CourtID       int64   `json:"courtId"`
	BookingDate   string  `json:"bookingDate"` // "2026-11-02"
	StartTime     string  `json:"startTime"`   // "14:00"
	EndTime       string  `json:"endTime"`     // "16:00"
	SportID       *int64  `json:"sportId,omitempty"`
	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
	CustomerEmail *string `json:"customerEmail,omitempty"`
	TotalPrice    *int64  `json:"totalPrice,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64   `json:"id"`
	ReferenceCode   string  `json:"referenceCode"`
	CourtID         int64   `json:"courtId"`
	CourtName       string  `json:"courtName"`
	BookingDate     string  `json:"bookingDate"`
	StartTime       string  `json:"startTime"` // "14:00:00"
	EndTime         string  `json:"endTime"`
	SlotCount       int     `json:"slotCount"`
	DurationMinutes int     `json:"durationMinutes"`
	SportID         int64   `json:"sportId"`
	CustomerName    string  `json:"customerName"`
	CustomerPhone   string  `json:"customerPhone"`
	CustomerEmail   *string `json:"customerEmail,omitempty"`
	Status          string  `json:"status"`
	TotalPrice      int64   `json:"totalPrice"`
	CreatedAt       string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, errParseDate
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, errParseTime
	}
	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, errParseTime
	}

	return &createBooking.Request{
		CourtID:       r.CourtID,
		Date:          bookingDate,
		StartTime:     startTime,
		EndTime:       endTime,
		SportID:       r.SportID,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		CustomerEmail: r.CustomerEmail,
		TotalPrice:    r.TotalPrice,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		ReferenceCode:   resp.ReferenceCode,
		CourtID:         resp.CourtID,
		CourtName:       resp.CourtName,
		BookingDate:     resp.BookingDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.Canonical(),
		EndTime:         resp.EndTime.Canonical(),
		SlotCount:       resp.SlotCount,
		DurationMinutes: resp.DurationMinutes,
		SportID:         resp.SportID,
		CustomerName:    resp.CustomerName,
		CustomerPhone:   resp.CustomerPhone,
		CustomerEmail:   resp.CustomerEmail,
		Status:          resp.Status,
		TotalPrice:      resp.TotalPrice,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
