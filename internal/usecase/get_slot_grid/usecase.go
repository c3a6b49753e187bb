package get_slot_grid

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/court-booking-service/internal/domain"
	courtRepo "github.com/m04kA/court-booking-service/internal/infra/storage/court"
	"github.com/m04kA/court-booking-service/internal/slots"
)

// UseCase use case для получения сетки слотов корта
type UseCase struct {
	courtRepo   CourtRepository
	bookingRepo BookingRepository
	blockRepo   BlockRepository
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	courtRepo CourtRepository,
	bookingRepo BookingRepository,
	blockRepo BlockRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		courtRepo:   courtRepo,
		bookingRepo: bookingRepo,
		blockRepo:   blockRepo,
		logger:      logger,
	}
}

// Execute строит сетку слотов корта и размечает её занятостью на дату.
// Сетка возвращается и для отключенного корта: клиент показывает его как недоступный.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetSlotGrid: court=%d, date=%s", req.CourtID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if req.CourtID <= 0 {
		return nil, fmt.Errorf("%w: courtId must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// 2. Получаем корт
	court, err := uc.courtRepo.GetByID(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			uc.logger.Warn("GetSlotGrid: court id=%d not found", req.CourtID)
			return nil, ErrCourtNotFound
		}
		uc.logger.Error("GetSlotGrid: failed to get court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
	}

	// 3. Генерируем сетку
	grid, err := slots.GenerateForCourt(court)
	if err != nil {
		uc.logger.Error("GetSlotGrid: court id=%d has invalid hours: %v", court.ID, err)
		return nil, fmt.Errorf("%w: court configuration: %v", ErrInternal, err)
	}

	// 4. Снимок занятости на дату
	bookings, err := uc.bookingRepo.GetByCourtAndDate(ctx, court.ID, req.Date)
	if err != nil {
		uc.logger.Error("GetSlotGrid: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	blocks, err := uc.blockRepo.GetByCourtAndDate(ctx, court.ID, req.Date)
	if err != nil {
		uc.logger.Error("GetSlotGrid: failed to get blocks: %v", err)
		return nil, fmt.Errorf("%w: failed to get blocks: %v", ErrInternal, err)
	}

	occupancy := domain.NewOccupancy(bookings, blocks)

	// 5. Размечаем сетку
	resolved := slots.Resolve(grid, occupancy)

	return &Response{
		Court:     court,
		Date:      req.Date,
		Slots:     resolved,
		Counts:    slots.Count(resolved),
		Occupancy: occupancy,
	}, nil
}
