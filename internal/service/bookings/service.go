package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/court-booking-service/internal/domain"
	bookingRepo "github.com/m04kA/court-booking-service/internal/infra/storage/booking"
	courtRepo "github.com/m04kA/court-booking-service/internal/infra/storage/court"
	institutionRepo "github.com/m04kA/court-booking-service/internal/infra/storage/institution"
	"github.com/m04kA/court-booking-service/internal/service/bookings/models"
	"github.com/m04kA/court-booking-service/pkg/ptr"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo     BookingRepository
	courtRepo       CourtRepository
	institutionRepo InstitutionRepository
	publisher       Publisher
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований; publisher может быть nil
func NewService(
	bookingRepo BookingRepository,
	courtRepo CourtRepository,
	institutionRepo InstitutionRepository,
	publisher Publisher,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:     bookingRepo,
		courtRepo:       courtRepo,
		institutionRepo: institutionRepo,
		publisher:       publisher,
		logger:          logger,
	}
}

// GetByReference публичный поиск бронирования по коду брони.
// Код сравнивается без учета регистра и пробелов по краям.
func (s *Service) GetByReference(ctx context.Context, code string) (*models.PublicBookingResponse, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	s.logger.Info("GetByReference: fetching booking ref=%s", code)

	if code == "" {
		return nil, fmt.Errorf("%w: reference code is required", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByReference(ctx, code)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByReference: booking ref=%s not found", code)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByReference: repository error for ref=%s: %v", code, err)
		return nil, fmt.Errorf("%w: GetByReference - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainPublicBooking(booking), nil
}

// GetByID получает бронирование по ID; доступно администраторам учреждения корта
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkAdminAccess(ctx, booking.CourtID, userID); err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetCourtBookings получает бронирования корта с фильтрацией.
// Доступно только администраторам учреждения корта.
//
// - Все подтвержденные: GetCourtBookings(ctx, &GetCourtBookingsRequest{CourtID: 1, UserID: 42})
// - На дату: StartDate и EndDate указывают на одну дату
// - Включая отменённые: IncludeInactive = true
func (s *Service) GetCourtBookings(ctx context.Context, req *models.GetCourtBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetCourtBookings: fetching bookings for court=%d, user=%d", req.CourtID, req.UserID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	s.logger.Info(logMsg)

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}

	if err := s.checkAdminAccess(ctx, req.CourtID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetCourtBookings: invalid filter for court=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByCourtWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetCourtBookings: repository error for court=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: GetCourtBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCourtBookings: successfully fetched %d bookings for court=%d", len(bookings), req.CourtID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет подтвержденное бронирование. Доступно администраторам учреждения корта.
// Освобожденные слоты сразу становятся доступными: подписчики корта получают booking_updated.
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	reason := strings.TrimSpace(req.CancellationReason)
	if len([]rune(reason)) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellationReason must be at most %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	booking, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.checkAdminAccess(ctx, booking.CourtID, req.UserID); err != nil {
		return nil, err
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return nil, ErrCannotCancel
	}

	cancelled, err := s.bookingRepo.Cancel(ctx, bookingID, reason)
	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			s.logger.Warn("Cancel: booking id=%d not found during cancellation", bookingID)
			return nil, ErrBookingNotFound
		case errors.Is(err, bookingRepo.ErrNotCancellable):
			s.logger.Warn("Cancel: booking id=%d was cancelled concurrently", bookingID)
			return nil, ErrCannotCancel
		default:
			s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
			return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)

	if s.publisher != nil {
		ev := domain.ChangeEvent{
			Kind:       domain.ChangeBookingUpdated,
			CourtID:    cancelled.CourtID,
			Date:       cancelled.BookingDate.Format(domain.DateFormat),
			BookingID:  ptr.Ptr(cancelled.ID),
			Status:     ptr.Ptr(cancelled.Status),
			OccurredAt: time.Now(),
		}
		if err := s.publisher.Publish(ctx, ev); err != nil {
			s.logger.Warn("Cancel: failed to publish %s for court id=%d: %v", ev.Kind, ev.CourtID, err)
		}
	}

	return models.FromDomainBooking(cancelled), nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// checkAdminAccess проверяет, что пользователь администрирует учреждение корта
func (s *Service) checkAdminAccess(ctx context.Context, courtID int64, userID int64) error {
	court, err := s.courtRepo.GetByID(ctx, courtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			s.logger.Warn("checkAdminAccess: court id=%d not found", courtID)
			return ErrCourtNotFound
		}
		s.logger.Error("checkAdminAccess: failed to get court id=%d: %v", courtID, err)
		return fmt.Errorf("%w: checkAdminAccess - failed to get court: %v", ErrInternal, err)
	}

	isAdmin, err := s.institutionRepo.IsAdmin(ctx, court.InstitutionID, userID)
	if err != nil && !errors.Is(err, institutionRepo.ErrInstitutionNotFound) {
		s.logger.Error("checkAdminAccess: failed to check institution id=%d: %v", court.InstitutionID, err)
		return fmt.Errorf("%w: checkAdminAccess - failed to check admin: %v", ErrInternal, err)
	}
	if !isAdmin {
		s.logger.Warn("checkAdminAccess: user=%d is not an admin of institution=%d", userID, court.InstitutionID)
		return ErrAccessDenied
	}

	return nil
}
