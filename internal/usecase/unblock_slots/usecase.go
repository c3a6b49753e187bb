package unblock_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/court-booking-service/internal/domain"
	institutionRepo "github.com/m04kA/court-booking-service/internal/infra/storage/institution"
	"github.com/m04kA/court-booking-service/pkg/validation"
)

// UseCase use case снятия блокировок администратором
type UseCase struct {
	courtRepo       CourtRepository
	institutionRepo InstitutionRepository
	blockRepo       BlockRepository
	txManager       TransactionManager
	publisher       Publisher
	validator       Validator
	logger          Logger
}

// NewUseCase создает новый экземпляр use case; publisher может быть nil
func NewUseCase(
	courtRepo CourtRepository,
	institutionRepo InstitutionRepository,
	blockRepo BlockRepository,
	txManager TransactionManager,
	publisher Publisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		courtRepo:       courtRepo,
		institutionRepo: institutionRepo,
		blockRepo:       blockRepo,
		txManager:       txManager,
		publisher:       publisher,
		validator:       validation.New(),
		logger:          logger,
	}
}

type courtDate struct {
	courtID int64
	date    string
}

// Execute удаляет все перечисленные блокировки одной транзакцией.
// Если хотя бы одна не найдена или принадлежит чужому корту, не удаляется ни одна.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UnblockSlots: user=%d, blocks=%v", req.UserID, req.BlockIDs)

	// 1. Валидация входных данных
	if err := uc.validator.Struct(req); err != nil {
		uc.logger.Warn("UnblockSlots: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var removed []*domain.UnavailabilityBlock

	// 2. Проверка и удаление в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2.1. Все блокировки должны существовать
		blocks, err := uc.blockRepo.GetByIDs(txCtx, req.BlockIDs)
		if err != nil {
			uc.logger.Error("UnblockSlots: failed to get blocks: %v", err)
			return fmt.Errorf("%w: failed to get blocks: %w", ErrInternal, err)
		}
		if len(blocks) != len(req.BlockIDs) {
			uc.logger.Warn("UnblockSlots: found %d of %d blocks", len(blocks), len(req.BlockIDs))
			return fmt.Errorf("%w: %v", ErrBlockNotFound, missing(req.BlockIDs, blocks))
		}

		// 2.2. Пользователь администрирует каждый затронутый корт
		checked := make(map[int64]struct{})
		for _, b := range blocks {
			if _, ok := checked[b.CourtID]; ok {
				continue
			}
			if err := uc.checkAdmin(txCtx, b.CourtID, req.UserID); err != nil {
				return err
			}
			checked[b.CourtID] = struct{}{}
		}

		// 2.3. Удаляем
		deleted, err := uc.blockRepo.DeleteByIDs(txCtx, req.BlockIDs)
		if err != nil {
			uc.logger.Error("UnblockSlots: failed to delete blocks: %v", err)
			return fmt.Errorf("%w: failed to delete blocks: %w", ErrInternal, err)
		}
		if deleted != int64(len(req.BlockIDs)) {
			uc.logger.Warn("UnblockSlots: deleted %d of %d blocks", deleted, len(req.BlockIDs))
			return fmt.Errorf("%w: deleted %d of %d", ErrBlockNotFound, deleted, len(req.BlockIDs))
		}

		removed = blocks
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrBlockNotFound), errors.Is(err, ErrForbidden), errors.Is(err, ErrInternal):
			return nil, err
		default:
			uc.logger.Error("UnblockSlots: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: transaction: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("UnblockSlots: successfully removed %d blocks", len(removed))

	// 3. Одно событие на каждую пару (корт, дата)
	uc.publishRemoved(ctx, removed)

	return &Response{Removed: req.BlockIDs}, nil
}

func (uc *UseCase) checkAdmin(ctx context.Context, courtID, userID int64) error {
	court, err := uc.courtRepo.GetByID(ctx, courtID)
	if err != nil {
		uc.logger.Error("UnblockSlots: failed to get court id=%d: %v", courtID, err)
		return fmt.Errorf("%w: failed to get court: %w", ErrInternal, err)
	}

	isAdmin, err := uc.institutionRepo.IsAdmin(ctx, court.InstitutionID, userID)
	if err != nil && !errors.Is(err, institutionRepo.ErrInstitutionNotFound) {
		uc.logger.Error("UnblockSlots: failed to check admin rights: %v", err)
		return fmt.Errorf("%w: failed to check admin rights: %w", ErrInternal, err)
	}
	if !isAdmin {
		uc.logger.Warn("UnblockSlots: user=%d is not an admin of court id=%d", userID, courtID)
		return ErrForbidden
	}
	return nil
}

func (uc *UseCase) publishRemoved(ctx context.Context, blocks []*domain.UnavailabilityBlock) {
	if uc.publisher == nil {
		return
	}

	now := time.Now()
	order := make([]courtDate, 0)
	groups := make(map[courtDate][]int64)
	for _, b := range blocks {
		key := courtDate{courtID: b.CourtID, date: b.BlockDate.Format(domain.DateFormat)}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], b.ID)
	}

	for _, key := range order {
		ev := domain.ChangeEvent{
			Kind:       domain.ChangeBlockRemoved,
			CourtID:    key.courtID,
			Date:       key.date,
			BlockIDs:   groups[key],
			OccurredAt: now,
		}
		if err := uc.publisher.Publish(ctx, ev); err != nil {
			uc.logger.Warn("UnblockSlots: failed to publish %s for court id=%d: %v", ev.Kind, ev.CourtID, err)
		}
	}
}

// missing ID блокировок из запроса, которых нет среди найденных
func missing(ids []int64, found []*domain.UnavailabilityBlock) []int64 {
	present := make(map[int64]struct{}, len(found))
	for _, b := range found {
		present[b.ID] = struct{}{}
	}
	result := make([]int64, 0)
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			result = append(result, id)
		}
	}
	return result
}
