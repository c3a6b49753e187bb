package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/court-booking-service/internal/domain"
	"github.com/m04kA/court-booking-service/pkg/types"
)

// validateRequest синхронная проверка запроса, без обращений к хранилищу
func (uc *UseCase) validateRequest(req *Request) error {
	if err := uc.validator.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.CustomerName) == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}

	if !req.StartTime.IsBefore(req.EndTime) {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что дата подходит для бронирования
func validateDate(bookingDate time.Time, now time.Time, advanceBookingDays int) error {
	// Проверяем, что дата не в прошлом
	if isDateInPast(bookingDate, now) {
		return ErrInvalidDate
	}

	// Если advanceBookingDays = 0, нет ограничений на дату
	if advanceBookingDays == 0 {
		return nil
	}

	maxDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, advanceBookingDays)

	if dateOnly(bookingDate).After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}

// validateBookingTime проверяет, что бронирование на сегодня не нарушает minBookingNoticeMinutes
func validateBookingTime(
	bookingDate time.Time,
	startTime types.TimeString,
	now time.Time,
	minBookingNoticeMinutes int,
) error {
	// Если дата бронирования не сегодня, проверка не нужна
	if !isSameDay(bookingDate, now) {
		return nil
	}

	minAllowedTime, err := types.NewTimeString(now).AddMinutes(minBookingNoticeMinutes)
	if err != nil {
		// Граница ушла за полночь: на сегодня бронировать уже нельзя
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, minBookingNoticeMinutes)
	}

	if startTime.IsBefore(minAllowedTime) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, minBookingNoticeMinutes)
	}

	return nil
}

// resolveSport выбирает вид спорта: единственный вид корта подставляется автоматически
func resolveSport(court *domain.Court, requested *int64) (int64, error) {
	if requested != nil {
		if !court.SupportsSport(*requested) {
			return 0, fmt.Errorf("%w: sport id=%d", ErrSportNotSupported, *requested)
		}
		return *requested, nil
	}

	if sportID, ok := court.DefaultSport(); ok {
		return sportID, nil
	}

	return 0, ErrSportRequired
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	return dateOnly(date).Before(dateOnly(now))
}

// dateOnly календарная дата без времени и часового пояса
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
