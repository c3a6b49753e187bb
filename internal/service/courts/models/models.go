package models

import (
	"time"

	"github.com/m04kA/court-booking-service/internal/domain"
	"github.com/m04kA/court-booking-service/pkg/types"
)

// Request модели

// CreateCourtRequest запрос на создание корта
type CreateCourtRequest struct {
	UserID              int64            `json:"-" validate:"gt=0"`
	InstitutionID       int64            `json:"institutionId" validate:"gt=0"`
	Name                string           `json:"name" validate:"required,max=200"`
	OpenTime            types.TimeString `json:"openTime" validate:"required,timestring"`
	CloseTime           types.TimeString `json:"closeTime" validate:"required,timestring"`
	SlotDurationMinutes int              `json:"slotDurationMinutes" validate:"gte=5,lte=480"`
	PricePerSlot        int64            `json:"pricePerSlot" validate:"gte=0"`
	Enabled             *bool            `json:"enabled,omitempty"` // По умолчанию true
	SportIDs            []int64          `json:"sportIds" validate:"required,min=1,unique,dive,gt=0"`
}

// UpdateCourtRequest частичное обновление корта; nil поля не меняются
type UpdateCourtRequest struct {
	UserID              int64             `json:"-" validate:"gt=0"`
	Name                *string           `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	OpenTime            *types.TimeString `json:"openTime,omitempty" validate:"omitempty,timestring"`
	CloseTime           *types.TimeString `json:"closeTime,omitempty" validate:"omitempty,timestring"`
	SlotDurationMinutes *int              `json:"slotDurationMinutes,omitempty" validate:"omitempty,gte=5,lte=480"`
	PricePerSlot        *int64            `json:"pricePerSlot,omitempty" validate:"omitempty,gte=0"`
	Enabled             *bool             `json:"enabled,omitempty"`
	SportIDs            []int64           `json:"sportIds,omitempty" validate:"omitempty,min=1,unique,dive,gt=0"`
}

// Response модели

// CourtResponse ответ с данными корта
type CourtResponse struct {
	ID                  int64     `json:"id"`
	InstitutionID       int64     `json:"institutionId"`
	Name                string    `json:"name"`
	OpenTime            string    `json:"openTime"`  // "06:00:00"
	CloseTime           string    `json:"closeTime"` // "22:00:00"
	SlotDurationMinutes int       `json:"slotDurationMinutes"`
	PricePerSlot        int64     `json:"pricePerSlot"`
	Enabled             bool      `json:"enabled"`
	SportIDs            []int64   `json:"sportIds"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// CourtListResponse ответ со списком кортов
type CourtListResponse struct {
	Courts []CourtResponse `json:"courts"`
}

// FromDomainCourt конвертирует domain модель в DTO
func FromDomainCourt(c *domain.Court) *CourtResponse {
	if c == nil {
		return nil
	}
	sportIDs := c.SportIDs
	if sportIDs == nil {
		sportIDs = []int64{}
	}
	return &CourtResponse{
		ID:                  c.ID,
		InstitutionID:       c.InstitutionID,
		Name:                c.Name,
		OpenTime:            c.OpenTime.Canonical(),
		CloseTime:           c.CloseTime.Canonical(),
		SlotDurationMinutes: c.SlotDurationMinutes,
		PricePerSlot:        c.PricePerSlot,
		Enabled:             c.Enabled,
		SportIDs:            sportIDs,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

// FromDomainCourtList конвертирует список domain моделей в DTO
func FromDomainCourtList(courts []*domain.Court) *CourtListResponse {
	resp := &CourtListResponse{Courts: make([]CourtResponse, 0, len(courts))}
	for _, c := range courts {
		if cr := FromDomainCourt(c); cr != nil {
			resp.Courts = append(resp.Courts, *cr)
		}
	}
	return resp
}
