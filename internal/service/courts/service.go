package courts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/court-booking-service/internal/domain"
	courtRepo "github.com/m04kA/court-booking-service/internal/infra/storage/court"
	institutionRepo "github.com/m04kA/court-booking-service/internal/infra/storage/institution"
	"github.com/m04kA/court-booking-service/internal/service/courts/models"
	"github.com/m04kA/court-booking-service/internal/slots"
	"github.com/m04kA/court-booking-service/pkg/validation"
)

// Service сервис для работы с кортами
type Service struct {
	courtRepo       CourtRepository
	institutionRepo InstitutionRepository
	validator       Validator
	logger          Logger
}

// NewService создает новый экземпляр сервиса кортов
func NewService(
	courtRepo CourtRepository,
	institutionRepo InstitutionRepository,
	logger Logger,
) *Service {
	return &Service{
		courtRepo:       courtRepo,
		institutionRepo: institutionRepo,
		validator:       validation.New(),
		logger:          logger,
	}
}

// GetByID получает корт по ID (публично)
func (s *Service) GetByID(ctx context.Context, id int64) (*models.CourtResponse, error) {
	court, err := s.getCourt(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainCourt(court), nil
}

// GetByInstitution список кортов учреждения (публично); includeDisabled для администраторов
func (s *Service) GetByInstitution(ctx context.Context, institutionID int64, includeDisabled bool) (*models.CourtListResponse, error) {
	s.logger.Info("GetByInstitution: fetching courts for institution=%d, includeDisabled=%t", institutionID, includeDisabled)

	if institutionID <= 0 {
		return nil, fmt.Errorf("%w: institutionId must be positive", ErrInvalidInput)
	}

	courts, err := s.courtRepo.GetByInstitution(ctx, institutionID, !includeDisabled)
	if err != nil {
		s.logger.Error("GetByInstitution: repository error for institution=%d: %v", institutionID, err)
		return nil, fmt.Errorf("%w: GetByInstitution - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainCourtList(courts), nil
}

// Create создает корт. Доступно только администраторам учреждения.
func (s *Service) Create(ctx context.Context, req *models.CreateCourtRequest) (*models.CourtResponse, error) {
	s.logger.Info("Create: creating court for institution=%d by user=%d", req.InstitutionID, req.UserID)

	// 1. Валидируем входные данные
	if err := s.validator.Struct(req); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	court := &domain.Court{
		InstitutionID:       req.InstitutionID,
		Name:                strings.TrimSpace(req.Name),
		OpenTime:            req.OpenTime,
		CloseTime:           req.CloseTime,
		SlotDurationMinutes: req.SlotDurationMinutes,
		PricePerSlot:        req.PricePerSlot,
		Enabled:             enabled,
		SportIDs:            req.SportIDs,
	}

	if err := s.validateCourt("Create", court); err != nil {
		return nil, err
	}

	// 2. Проверяем права доступа
	if err := s.checkAdminAccess(ctx, req.InstitutionID, req.UserID); err != nil {
		return nil, err
	}

	// 3. Сохраняем
	created, err := s.courtRepo.Create(ctx, court)
	if err != nil {
		return nil, s.translateRepoError("Create", err)
	}

	s.logger.Info("Create: successfully created court id=%d", created.ID)
	return models.FromDomainCourt(created), nil
}

// Update частично обновляет корт. Доступно только администраторам учреждения корта.
// Изменение часов или длительности слота не трогает существующие бронирования.
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateCourtRequest) (*models.CourtResponse, error) {
	s.logger.Info("Update: updating court id=%d by user=%d", id, req.UserID)

	if err := s.validator.Struct(req); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	court, err := s.getCourt(ctx, "Update", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkAdminAccess(ctx, court.InstitutionID, req.UserID); err != nil {
		return nil, err
	}

	// Применяем изменения
	if req.Name != nil {
		court.Name = strings.TrimSpace(*req.Name)
	}
	if req.OpenTime != nil {
		court.OpenTime = *req.OpenTime
	}
	if req.CloseTime != nil {
		court.CloseTime = *req.CloseTime
	}
	if req.SlotDurationMinutes != nil {
		court.SlotDurationMinutes = *req.SlotDurationMinutes
	}
	if req.PricePerSlot != nil {
		court.PricePerSlot = *req.PricePerSlot
	}
	if req.Enabled != nil {
		court.Enabled = *req.Enabled
	}
	if req.SportIDs != nil {
		court.SportIDs = req.SportIDs
	}

	if err := s.validateCourt("Update", court); err != nil {
		return nil, err
	}

	updated, err := s.courtRepo.Update(ctx, court)
	if err != nil {
		return nil, s.translateRepoError("Update", err)
	}

	s.logger.Info("Update: successfully updated court id=%d", id)
	return models.FromDomainCourt(updated), nil
}

// validateCourt проверки, которые не выражаются тегами: часы работы и сетка слотов
func (s *Service) validateCourt(op string, court *domain.Court) error {
	if court.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !court.HasValidHours() {
		s.logger.Warn("%s: openTime %s is not before closeTime %s", op, court.OpenTime, court.CloseTime)
		return fmt.Errorf("%w: openTime must be before closeTime", ErrInvalidInput)
	}

	grid, err := slots.GenerateForCourt(court)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(grid) == 0 {
		return fmt.Errorf("%w: slotDurationMinutes %d does not fit between %s and %s",
			ErrInvalidInput, court.SlotDurationMinutes, court.OpenTime, court.CloseTime)
	}

	// Хвост короче слота не бронируется
	if last := grid[len(grid)-1]; !last.End.Equal(court.CloseTime) {
		s.logger.Warn("%s: court %q loses %s-%s: slot duration %d does not divide opening hours",
			op, court.Name, last.End, court.CloseTime, court.SlotDurationMinutes)
	}

	if len(court.SportIDs) == 0 {
		return fmt.Errorf("%w: at least one sport is required", ErrInvalidInput)
	}
	return nil
}

func (s *Service) getCourt(ctx context.Context, op string, id int64) (*domain.Court, error) {
	court, err := s.courtRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			s.logger.Warn("%s: court id=%d not found", op, id)
			return nil, ErrCourtNotFound
		}
		s.logger.Error("%s: repository error for court id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return court, nil
}

func (s *Service) translateRepoError(op string, err error) error {
	switch {
	case errors.Is(err, courtRepo.ErrCourtNotFound):
		return ErrCourtNotFound
	case errors.Is(err, courtRepo.ErrInvalidCourt):
		s.logger.Warn("%s: court rejected by store: %v", op, err)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		s.logger.Error("%s: repository error: %v", op, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}

// checkAdminAccess проверяет, что пользователь администрирует учреждение
func (s *Service) checkAdminAccess(ctx context.Context, institutionID, userID int64) error {
	isAdmin, err := s.institutionRepo.IsAdmin(ctx, institutionID, userID)
	if err != nil {
		if errors.Is(err, institutionRepo.ErrInstitutionNotFound) {
			s.logger.Warn("checkAdminAccess: institution id=%d not found", institutionID)
			return ErrInstitutionNotFound
		}
		s.logger.Error("checkAdminAccess: failed to check institution id=%d: %v", institutionID, err)
		return fmt.Errorf("%w: checkAdminAccess - failed to check admin: %v", ErrInternal, err)
	}
	if !isAdmin {
		s.logger.Warn("checkAdminAccess: user=%d is not an admin of institution=%d", userID, institutionID)
		return ErrAccessDenied
	}
	return nil
}
