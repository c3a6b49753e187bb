package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/court-booking-service/internal/domain"
	"github.com/m04kA/court-booking-service/pkg/dbmetrics"
	"github.com/m04kA/court-booking-service/pkg/psqlbuilder"
)

const defaultReferenceRetries = 5

var bookingColumns = []string{
	"id",
	"court_id",
	"booking_date",
	"start_time",
	"end_time",
	"sport_id",
	"customer_name",
	"customer_phone",
	"customer_email",
	"status",
	"total_price",
	"reference_code",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor

	newCode func() string
	retries int
}

// Option настройка репозитория
type Option func(*Repository)

// WithReferenceCodes задает генератор кодов брони и число попыток при коллизии
func WithReferenceCodes(gen func() string, retries int) Option {
	return func(r *Repository) {
		if gen != nil {
			r.newCode = gen
		}
		if retries > 0 {
			r.retries = retries
		}
	}
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor, opts ...Option) *Repository {
	r := &Repository{
		db:      db,
		newCode: NewReferenceCode,
		retries: defaultReferenceRetries,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create создает новое бронирование и присваивает ему уникальный код.
// Если в контексте передана активная транзакция, использует её.
//
// Коллизия кода не прерывает транзакцию: вставка идет через
// ON CONFLICT DO NOTHING, при пустом RETURNING код генерируется заново.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	for attempt := 0; attempt < r.retries; attempt++ {
		code := r.newCode()

		query, args, err := psqlbuilder.Insert("bookings").
			Columns(
				"court_id",
				"booking_date",
				"start_time",
				"end_time",
				"sport_id",
				"customer_name",
				"customer_phone",
				"customer_email",
				"status",
				"total_price",
				"reference_code",
			).
			Values(
				booking.CourtID,
				booking.BookingDate,
				booking.StartTime,
				booking.EndTime,
				booking.SportID,
				booking.CustomerName,
				booking.CustomerPhone,
				booking.CustomerEmail,
				booking.Status,
				booking.TotalPrice,
				code,
			).
			Suffix("ON CONFLICT (reference_code) DO NOTHING RETURNING id, created_at, updated_at").
			ToSql()

		if err != nil {
			return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
		}

		var createdAt, updatedAt sql.NullTime
		err = executor.QueryRowContext(ctx, query, args...).Scan(
			&booking.ID,
			&createdAt,
			&updatedAt,
		)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
		}

		booking.ReferenceCode = code
		booking.CreatedAt = createdAt.Time
		booking.UpdatedAt = updatedAt.Time

		return booking, nil
	}

	return nil, fmt.Errorf("%w: after %d attempts", ErrReferenceCodeExhausted, r.retries)
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByReference получает бронирование по коду брони
func (r *Repository) GetByReference(ctx context.Context, code string) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByReference", squirrel.Eq{"reference_code": code})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %w", ErrScanRow, op, err)
	}

	return booking, nil
}

// GetByCourtWithFilter получает бронирования корта с фильтрацией.
//
// Без статуса и IncludeInactive возвращаются только подтвержденные.
// Внутри транзакции при запросе на одну дату строки блокируются FOR UPDATE:
// так create_booking сериализует проверку и вставку.
func (r *Repository) GetByCourtWithFilter(ctx context.Context, filter domain.CourtBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"court_id": filter.CourtID})

	// Фильтрация по периоду
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.EndDate})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": domain.StatusConfirmed})
	}

	singleDay := filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate)
	if singleDay {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC, start_time DESC")
	}

	if dbmetrics.IsInTransaction(ctx) && singleDay {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCourtWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCourtWithFilter - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByCourtAndDate подтвержденные бронирования корта на дату (снимок занятости)
func (r *Repository) GetByCourtAndDate(ctx context.Context, courtID int64, date time.Time) ([]*domain.Booking, error) {
	return r.GetByCourtWithFilter(ctx, domain.CourtBookingsFilter{
		CourtID:   courtID,
		StartDate: &date,
		EndDate:   &date,
	})
}

// Cancel переводит подтвержденное бронирование в статус cancelled с причиной
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusConfirmed}).
		Suffix("RETURNING " + strings.Join(bookingColumns, ", ")).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		// Либо брони нет, либо она уже отменена
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrNotCancellable
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Cancel - execute update: %w", ErrExecQuery, err)
	}

	return booking, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.CourtID,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.EndTime,
		&booking.SportID,
		&booking.CustomerName,
		&booking.CustomerPhone,
		&booking.CustomerEmail,
		&booking.Status,
		&booking.TotalPrice,
		&booking.ReferenceCode,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}
