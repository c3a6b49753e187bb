package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/court-booking-service/internal/domain"
	courtRepo "github.com/m04kA/court-booking-service/internal/infra/storage/court"
	"github.com/m04kA/court-booking-service/internal/slots"
	"github.com/m04kA/court-booking-service/pkg/ptr"
	"github.com/m04kA/court-booking-service/pkg/txmanager"
	"github.com/m04kA/court-booking-service/pkg/validation"
)

// Rules правила приема бронирований
type Rules struct {
	MinBookingNoticeMinutes int
	AdvanceBookingDays      int // 0 = без ограничений
}

// UseCase use case для создания бронирования
type UseCase struct {
	courtRepo    CourtRepository
	bookingRepo  BookingRepository
	blockRepo    BlockRepository
	txManager    TransactionManager
	publisher    Publisher
	metrics      Metrics
	validator    Validator
	rules        Rules
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case; publisher и metrics могут быть nil
func NewUseCase(
	courtRepo CourtRepository,
	bookingRepo BookingRepository,
	blockRepo BlockRepository,
	txManager TransactionManager,
	publisher Publisher,
	metrics Metrics,
	rules Rules,
	logger Logger,
) *UseCase {
	return &UseCase{
		courtRepo:    courtRepo,
		bookingRepo:  bookingRepo,
		blockRepo:    blockRepo,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metrics,
		validator:    validation.New(),
		rules:        rules,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка доступности и вставка выполняются атомарно в сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: court=%d, date=%s, interval=%s-%s",
		req.CourtID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Синхронная валидация входных данных
	if err := uc.validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Дата не в прошлом и не дальше горизонта бронирования
	if err := validateDate(req.Date, now, uc.rules.AdvanceBookingDays); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем корт
	court, err := uc.courtRepo.GetByID(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			uc.logger.Warn("CreateBooking: court id=%d not found", req.CourtID)
			return nil, ErrCourtNotFound
		}
		uc.logger.Error("CreateBooking: failed to get court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
	}

	if !court.Enabled {
		uc.logger.Warn("CreateBooking: court id=%d is disabled", court.ID)
		return nil, ErrCourtDisabled
	}

	// 4. Вид спорта
	sportID, err := resolveSport(court, req.SportID)
	if err != nil {
		uc.logger.Warn("CreateBooking: sport resolution failed: %v", err)
		return nil, err
	}

	// 5. Интервал должен совпадать с сеткой слотов
	grid, err := slots.GenerateForCourt(court)
	if err != nil {
		uc.logger.Error("CreateBooking: court id=%d has invalid hours: %v", court.ID, err)
		return nil, fmt.Errorf("%w: court configuration: %v", ErrInternal, err)
	}

	lo, hi, ok := slots.Span(grid, req.StartTime, req.EndTime)
	if !ok {
		uc.logger.Warn("CreateBooking: interval %s-%s is not aligned to court id=%d grid",
			req.StartTime, req.EndTime, court.ID)
		return nil, ErrInvalidTimeSlot
	}

	// 6. Минимальное время до начала для бронирований на сегодня
	if err := validateBookingTime(req.Date, req.StartTime, now, uc.rules.MinBookingNoticeMinutes); err != nil {
		uc.logger.Warn("CreateBooking: booking time validation failed: %v", err)
		return nil, err
	}

	// 7. Цена считается на сервере; цена клиента должна совпасть
	summary := slots.Summarize(grid[lo:hi+1], court.SlotDurationMinutes, court.PricePerSlot)
	if req.TotalPrice != nil && *req.TotalPrice != 0 && *req.TotalPrice != summary.TotalPrice {
		uc.logger.Warn("CreateBooking: price mismatch, client=%d server=%d", *req.TotalPrice, summary.TotalPrice)
		return nil, fmt.Errorf("%w: totalPrice %d does not match %d", ErrInvalidInput, *req.TotalPrice, summary.TotalPrice)
	}

	var result *domain.Booking

	// 8. Атомарная проверка доступности и вставка
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8.1. Подтвержденные бронирования дня с блокировкой (FOR UPDATE)
		bookings, err := uc.bookingRepo.GetByCourtAndDate(txCtx, court.ID, req.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}

		// 8.2. Блокировки дня
		blocks, err := uc.blockRepo.GetByCourtAndDate(txCtx, court.ID, req.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get blocks: %v", err)
			return fmt.Errorf("%w: failed to get blocks: %w", ErrInternal, err)
		}

		// 8.3. Все слоты интервала должны быть свободны
		resolved := slots.Resolve(grid, domain.NewOccupancy(bookings, blocks))
		if !slots.AllAvailable(resolved, lo, hi) {
			uc.logger.Warn("CreateBooking: interval %s-%s on court id=%d is no longer available",
				req.StartTime, req.EndTime, court.ID)
			return ErrSlotNotAvailable
		}

		// 8.4. Создаем бронирование
		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			CourtID:       court.ID,
			BookingDate:   req.Date,
			StartTime:     summary.StartTime,
			EndTime:       summary.EndTime,
			SportID:       sportID,
			CustomerName:  strings.TrimSpace(req.CustomerName),
			CustomerPhone: validation.NormalizePhone(req.CustomerPhone),
			CustomerEmail: req.CustomerEmail,
			Status:        domain.StatusConfirmed,
			TotalPrice:    summary.TotalPrice,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrSlotNotAvailable):
			uc.countConflict("occupied")
			return nil, err
		case errors.Is(err, txmanager.ErrSerializationFailure):
			uc.logger.Warn("CreateBooking: concurrent booking on court id=%d: %v", court.ID, err)
			uc.countConflict("serialization")
			return nil, fmt.Errorf("%w: concurrent booking", ErrSlotNotAvailable)
		case errors.Is(err, ErrInternal):
			return nil, err
		default:
			uc.logger.Error("CreateBooking: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: transaction: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d ref=%s", result.ID, result.ReferenceCode)

	// 9. Уведомляем подписчиков корта (best effort)
	uc.publish(ctx, domain.ChangeEvent{
		Kind:       domain.ChangeBookingCreated,
		CourtID:    result.CourtID,
		Date:       result.BookingDate.Format(domain.DateFormat),
		BookingID:  ptr.Ptr(result.ID),
		Status:     ptr.Ptr(result.Status),
		OccurredAt: now,
	})

	return &Response{
		ID:              result.ID,
		ReferenceCode:   result.ReferenceCode,
		CourtID:         result.CourtID,
		CourtName:       court.Name,
		BookingDate:     result.BookingDate,
		StartTime:       result.StartTime,
		EndTime:         result.EndTime,
		SlotCount:       summary.SlotCount,
		DurationMinutes: summary.DurationMinutes,
		SportID:         result.SportID,
		CustomerName:    result.CustomerName,
		CustomerPhone:   result.CustomerPhone,
		CustomerEmail:   result.CustomerEmail,
		Status:          string(result.Status),
		TotalPrice:      result.TotalPrice,
		CreatedAt:       result.CreatedAt,
	}, nil
}

func (uc *UseCase) publish(ctx context.Context, ev domain.ChangeEvent) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, ev); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish %s for court id=%d: %v", ev.Kind, ev.CourtID, err)
	}
}

func (uc *UseCase) countConflict(kind string) {
	if uc.metrics != nil {
		uc.metrics.IncBookingConflict(kind)
	}
}
