package get_slots

import (
	"github.com/m04kA/court-booking-service/internal/domain"
	"github.com/m04kA/court-booking-service/internal/slots"
	getSlotGrid "github.com/m04kA/court-booking-service/internal/usecase/get_slot_grid"
)

// SlotGridResponse HTTP response model
type SlotGridResponse struct {
	Court    CourtSummary   `json:"court"`
	Date     string         `json:"date"`
	Slots    []Slot         `json:"slots"`
	Counts   Counts         `json:"counts"`
	Bookings []BookedRange  `json:"bookings"`
	Blocks   []BlockedRange `json:"blocks"`
}

// CourtSummary параметры корта, нужные для построения сетки на клиенте
type CourtSummary struct {
	ID                  int64   `json:"id"`
	Name                string  `json:"name"`
	OpenTime            string  `json:"openTime"`
	CloseTime           string  `json:"closeTime"`
	SlotDurationMinutes int     `json:"slotDurationMinutes"`
	PricePerSlot        int64   `json:"pricePerSlot"`
	Enabled             bool    `json:"enabled"`
	SportIDs            []int64 `json:"sportIds"`
}

// Slot модель временного слота
type Slot struct {
	Index       int     `json:"index"`
	StartTime   string  `json:"startTime"` // "10:00:00"
	EndTime     string  `json:"endTime"`
	Label       string  `json:"label"` // "10:00"
	State       string  `json:"state"` // available | booked | blocked
	BlockID     *int64  `json:"blockId,omitempty"`
	BlockReason *string `json:"blockReason,omitempty"`
}

type Counts struct {
	Available int `json:"available"`
	Booked    int `json:"booked"`
	Blocked   int `json:"blocked"`
}

// BookedRange бронирование из снимка занятости
type BookedRange struct {
	BookingID int64  `json:"bookingId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Status    string `json:"status"`
}

// BlockedRange блокировка из снимка занятости
type BlockedRange struct {
	BlockID   int64  `json:"blockId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Reason    string `json:"reason"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getSlotGrid.Response) *SlotGridResponse {
	court := resp.Court
	sportIDs := court.SportIDs
	if sportIDs == nil {
		sportIDs = []int64{}
	}

	out := &SlotGridResponse{
		Court: CourtSummary{
			ID:                  court.ID,
			Name:                court.Name,
			OpenTime:            court.OpenTime.Canonical(),
			CloseTime:           court.CloseTime.Canonical(),
			SlotDurationMinutes: court.SlotDurationMinutes,
			PricePerSlot:        court.PricePerSlot,
			Enabled:             court.Enabled,
			SportIDs:            sportIDs,
		},
		Date:     resp.Date.Format(domain.DateFormat),
		Slots:    make([]Slot, len(resp.Slots)),
		Counts:   Counts{Available: resp.Counts.Available, Booked: resp.Counts.Booked, Blocked: resp.Counts.Blocked},
		Bookings: make([]BookedRange, 0, len(resp.Occupancy.Bookings)),
		Blocks:   make([]BlockedRange, 0, len(resp.Occupancy.Blocks)),
	}

	for i, s := range resp.Slots {
		out.Slots[i] = fromSlot(s)
	}
	for _, b := range resp.Occupancy.Bookings {
		out.Bookings = append(out.Bookings, BookedRange{
			BookingID: b.BookingID,
			StartTime: b.Start.Canonical(),
			EndTime:   b.End.Canonical(),
			Status:    string(b.Status),
		})
	}
	for _, b := range resp.Occupancy.Blocks {
		out.Blocks = append(out.Blocks, BlockedRange{
			BlockID:   b.BlockID,
			StartTime: b.Start.Canonical(),
			EndTime:   b.End.Canonical(),
			Reason:    b.Reason,
		})
	}

	return out
}

func fromSlot(s slots.Slot) Slot {
	out := Slot{
		Index:     s.Index,
		StartTime: s.Start.Canonical(),
		EndTime:   s.End.Canonical(),
		Label:     s.Label(),
		State:     string(s.State),
	}
	if s.IsBlocked() {
		id, reason := s.BlockID, s.BlockReason
		out.BlockID = &id
		out.BlockReason = &reason
	}
	return out
}
