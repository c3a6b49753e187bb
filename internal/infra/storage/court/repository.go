package court

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/court-booking-service/internal/domain"
	"github.com/m04kA/court-booking-service/pkg/dbmetrics"
	"github.com/m04kA/court-booking-service/pkg/psqlbuilder"
)

const (
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

var courtColumns = []string{
	"id",
	"institution_id",
	"name",
	"open_time",
	"close_time",
	"slot_duration_minutes",
	"price_per_slot",
	"enabled",
	"sport_ids",
	"created_at",
	"updated_at",
}

// Repository репозиторий кортов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория кортов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает корт
func (r *Repository) Create(ctx context.Context, court *domain.Court) (*domain.Court, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("courts").
		Columns(
			"institution_id",
			"name",
			"open_time",
			"close_time",
			"slot_duration_minutes",
			"price_per_slot",
			"enabled",
			"sport_ids",
		).
		Values(
			court.InstitutionID,
			court.Name,
			court.OpenTime,
			court.CloseTime,
			court.SlotDurationMinutes,
			court.PricePerSlot,
			court.Enabled,
			pq.Array(court.SportIDs),
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&court.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, translate("Create - execute insert", err)
	}

	court.CreatedAt = createdAt.Time
	court.UpdatedAt = updatedAt.Time

	return court, nil
}

// GetByID получает корт по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Court, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(courtColumns...).
		From("courts").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	court, err := scanCourt(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCourtNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan court: %w", ErrScanRow, err)
	}

	return court, nil
}

// GetByInstitution корты учреждения по имени; onlyEnabled скрывает выключенные
func (r *Repository) GetByInstitution(ctx context.Context, institutionID int64, onlyEnabled bool) ([]*domain.Court, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(courtColumns...).
		From("courts").
		Where(squirrel.Eq{"institution_id": institutionID}).
		OrderBy("name ASC", "id ASC")

	if onlyEnabled {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"enabled": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByInstitution - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByInstitution - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	courts := make([]*domain.Court, 0)
	for rows.Next() {
		court, err := scanCourt(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByInstitution - scan row: %w", ErrScanRow, err)
		}
		courts = append(courts, court)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByInstitution - rows error: %w", ErrScanRow, err)
	}

	return courts, nil
}

// Update обновляет конфигурацию корта (часы, длительность слота, цену, флаг, виды спорта)
func (r *Repository) Update(ctx context.Context, court *domain.Court) (*domain.Court, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("courts").
		Set("name", court.Name).
		Set("open_time", court.OpenTime).
		Set("close_time", court.CloseTime).
		Set("slot_duration_minutes", court.SlotDurationMinutes).
		Set("price_per_slot", court.PricePerSlot).
		Set("enabled", court.Enabled).
		Set("sport_ids", pq.Array(court.SportIDs)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": court.ID}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCourtNotFound
	}
	if err != nil {
		return nil, translate("Update - execute update", err)
	}
	court.UpdatedAt = updatedAt.Time

	return court, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCourt(row rowScanner) (*domain.Court, error) {
	var court domain.Court
	var sportIDs pq.Int64Array
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&court.ID,
		&court.InstitutionID,
		&court.Name,
		&court.OpenTime,
		&court.CloseTime,
		&court.SlotDurationMinutes,
		&court.PricePerSlot,
		&court.Enabled,
		&sportIDs,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	court.SportIDs = []int64(sportIDs)
	court.CreatedAt = createdAt.Time
	court.UpdatedAt = updatedAt.Time

	return &court, nil
}

func translate(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgForeignKeyViolation, pgCheckViolation:
			return fmt.Errorf("%w: %s: %s", ErrInvalidCourt, op, pqErr.Message)
		}
	}
	return fmt.Errorf("%w: %s: %w", ErrExecQuery, op, err)
}
