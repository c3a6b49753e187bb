package block_slots

import (
	"errors"
	"time"

	"github.com/m04kA/court-booking-service/internal/domain"
	blockSlots "github.com/m04kA/court-booking-service/internal/usecase/block_slots"
	"github.com/m04kA/court-booking-service/pkg/types"
)

var (
	errParseDate = errors.New("invalid block date")
	errParseTime = errors.New("invalid time")
)

// BlockSlotsRequest HTTP request model
type BlockSlotsRequest struct {
	Date      string `json:"date"`      // "2026-11-02"
	StartTime string `json:"startTime"` // "09:00"
	EndTime   string `json:"endTime"`   // "10:00"
	Reason    string `json:"reason"`
}

// BlockResponse HTTP response model
type BlockResponse struct {
	ID        int64  `json:"id"`
	CourtID   int64  `json:"courtId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"` // "09:00:00"
	EndTime   string `json:"endTime"`
	SlotCount int    `json:"slotCount"`
	Reason    string `json:"reason"`
	CreatedBy int64  `json:"createdBy"`
	CreatedAt string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BlockSlotsRequest) ToUseCaseRequest(courtID, userID int64) (*blockSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
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

	return &blockSlots.Request{
		UserID:    userID,
		CourtID:   courtID,
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,
		Reason:    r.Reason,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *blockSlots.Response) *BlockResponse {
	return &BlockResponse{
		ID:        resp.ID,
		CourtID:   resp.CourtID,
		Date:      resp.BlockDate.Format(domain.DateFormat),
		StartTime: resp.StartTime.Canonical(),
		EndTime:   resp.EndTime.Canonical(),
		SlotCount: resp.SlotCount,
		Reason:    resp.Reason,
		CreatedBy: resp.CreatedBy,
		CreatedAt: resp.CreatedAt.Format(time.RFC3339),
	}
}
