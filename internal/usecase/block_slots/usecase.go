package block_slots

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/court-booking-service/internal/domain"
	courtRepo "github.com/m04kA/court-booking-service/internal/infra/storage/court"
	institutionRepo "github.com/m04kA/court-booking-service/internal/infra/storage/institution"
	"github.com/m04kA/court-booking-service/internal/slots"
	"github.com/m04kA/court-booking-service/pkg/txmanager"
	"github.com/m04kA/court-booking-service/pkg/validation"
)

// UseCase use case блокировки интервала слотов администратором
type UseCase struct {
	courtRepo       CourtRepository
	institutionRepo InstitutionRepository
	bookingRepo     BookingRepository
	blockRepo       BlockRepository
	txManager       TransactionManager
	publisher       Publisher
	metrics         Metrics
	validator       Validator
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case; publisher и metrics могут быть nil
func NewUseCase(
	courtRepo CourtRepository,
	institutionRepo InstitutionRepository,
	bookingRepo BookingRepository,
	blockRepo BlockRepository,
	txManager TransactionManager,
	publisher Publisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		courtRepo:       courtRepo,
		institutionRepo: institutionRepo,
		bookingRepo:     bookingRepo,
		blockRepo:       blockRepo,
		txManager:       txManager,
		publisher:       publisher,
		metrics:         metrics,
		validator:       validation.New(),
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute создает одну блокировку на весь интервал.
// Каждый слот интервала должен быть свободен; проверка повторяется в сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BlockSlots: user=%d, court=%d, date=%s, interval=%s-%s",
		req.UserID, req.CourtID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := uc.validateRequest(req); err != nil {
		uc.logger.Warn("BlockSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	if dateOnly(req.Date).Before(dateOnly(now)) {
		uc.logger.Warn("BlockSlots: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 2. Получаем корт
	court, err := uc.courtRepo.GetByID(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			uc.logger.Warn("BlockSlots: court id=%d not found", req.CourtID)
			return nil, ErrCourtNotFound
		}
		uc.logger.Error("BlockSlots: failed to get court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
	}

	// 3. Только администратор учреждения корта
	isAdmin, err := uc.institutionRepo.IsAdmin(ctx, court.InstitutionID, req.UserID)
	if err != nil && !errors.Is(err, institutionRepo.ErrInstitutionNotFound) {
		uc.logger.Error("BlockSlots: failed to check admin rights: %v", err)
		return nil, fmt.Errorf("%w: failed to check admin rights: %v", ErrInternal, err)
	}
	if !isAdmin {
		uc.logger.Warn("BlockSlots: user=%d is not an admin of institution id=%d", req.UserID, court.InstitutionID)
		return nil, ErrForbidden
	}

	// 4. Интервал должен совпадать с сеткой слотов
	grid, err := slots.GenerateForCourt(court)
	if err != nil {
		uc.logger.Error("BlockSlots: court id=%d has invalid hours: %v", court.ID, err)
		return nil, fmt.Errorf("%w: court configuration: %v", ErrInternal, err)
	}

	lo, hi, ok := slots.Span(grid, req.StartTime, req.EndTime)
	if !ok {
		uc.logger.Warn("BlockSlots: interval %s-%s is not aligned to court id=%d grid",
			req.StartTime, req.EndTime, court.ID)
		return nil, ErrInvalidTimeSlot
	}

	var result *domain.UnavailabilityBlock

	// 5. Атомарная проверка и вставка
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		bookings, err := uc.bookingRepo.GetByCourtAndDate(txCtx, court.ID, req.Date)
		if err != nil {
			uc.logger.Error("BlockSlots: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}

		blocks, err := uc.blockRepo.GetByCourtAndDate(txCtx, court.ID, req.Date)
		if err != nil {
			uc.logger.Error("BlockSlots: failed to get blocks: %v", err)
			return fmt.Errorf("%w: failed to get blocks: %w", ErrInternal, err)
		}

		resolved := slots.Resolve(grid, domain.NewOccupancy(bookings, blocks))
		if !slots.AllAvailable(resolved, lo, hi) {
			uc.logger.Warn("BlockSlots: interval %s-%s on court id=%d is not available",
				req.StartTime, req.EndTime, court.ID)
			return ErrSlotNotAvailable
		}

		created, err := uc.blockRepo.Create(txCtx, &domain.UnavailabilityBlock{
			CourtID:   court.ID,
			BlockDate: req.Date,
			StartTime: grid[lo].Start,
			EndTime:   grid[hi].End,
			Reason:    strings.TrimSpace(req.Reason),
			CreatedBy: req.UserID,
		})
		if err != nil {
			uc.logger.Error("BlockSlots: failed to create block: %v", err)
			return fmt.Errorf("%w: failed to create block: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrSlotNotAvailable):
			uc.countConflict("block_occupied")
			return nil, err
		case errors.Is(err, txmanager.ErrSerializationFailure):
			uc.logger.Warn("BlockSlots: concurrent change on court id=%d: %v", court.ID, err)
			uc.countConflict("serialization")
			return nil, fmt.Errorf("%w: concurrent change", ErrSlotNotAvailable)
		case errors.Is(err, ErrInternal):
			return nil, err
		default:
			uc.logger.Error("BlockSlots: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: transaction: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("BlockSlots: successfully created block id=%d", result.ID)

	// 6. Уведомляем подписчиков корта (best effort)
	if uc.publisher != nil {
		ev := domain.ChangeEvent{
			Kind:       domain.ChangeBlockCreated,
			CourtID:    court.ID,
			Date:       result.BlockDate.Format(domain.DateFormat),
			BlockIDs:   []int64{result.ID},
			OccurredAt: now,
		}
		if err := uc.publisher.Publish(ctx, ev); err != nil {
			uc.logger.Warn("BlockSlots: failed to publish %s for court id=%d: %v", ev.Kind, ev.CourtID, err)
		}
	}

	return &Response{
		ID:        result.ID,
		CourtID:   result.CourtID,
		BlockDate: result.BlockDate,
		StartTime: result.StartTime,
		EndTime:   result.EndTime,
		SlotCount: hi - lo + 1,
		Reason:    result.Reason,
		CreatedBy: result.CreatedBy,
		CreatedAt: result.CreatedAt,
	}, nil
}

func (uc *UseCase) validateRequest(req *Request) error {
	if err := uc.validator.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Reason) == "" {
		return fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}
	if !req.StartTime.IsBefore(req.EndTime) {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}
	return nil
}

func (uc *UseCase) countConflict(kind string) {
	if uc.metrics != nil {
		uc.metrics.IncBookingConflict(kind)
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
