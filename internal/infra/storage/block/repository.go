package block

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/court-booking-service/internal/domain"
	"github.com/m04kA/court-booking-service/pkg/dbmetrics"
	"github.com/m04kA/court-booking-service/pkg/psqlbuilder"
)

var blockColumns = []string{
	"id",
	"court_id",
	"block_date",
	"start_time",
	"end_time",
	"reason",
	"created_by",
	"created_at",
}

// Repository репозиторий блокировок слотов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория блокировок
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает одну блокировку на весь интервал
func (r *Repository) Create(ctx context.Context, block *domain.UnavailabilityBlock) (*domain.UnavailabilityBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("unavailability_blocks").
		Columns("court_id", "block_date", "start_time", "end_time", "reason", "created_by").
		Values(block.CourtID, block.BlockDate, block.StartTime, block.EndTime, block.Reason, block.CreatedBy).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&block.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}
	block.CreatedAt = createdAt.Time

	return block, nil
}

// GetByCourtAndDate блокировки корта на дату, по времени начала.
// Внутри транзакции строки блокируются FOR UPDATE.
func (r *Repository) GetByCourtAndDate(ctx context.Context, courtID int64, date time.Time) ([]*domain.UnavailabilityBlock, error) {
	selectBuilder := psqlbuilder.Select(blockColumns...).
		From("unavailability_blocks").
		Where(squirrel.Eq{"court_id": courtID, "block_date": date}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	return r.list(ctx, "GetByCourtAndDate", selectBuilder)
}

// GetByIDs блокировки по списку ID; отсутствующие ID просто не попадают в результат
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.UnavailabilityBlock, error) {
	if len(ids) == 0 {
		return []*domain.UnavailabilityBlock{}, nil
	}

	selectBuilder := psqlbuilder.Select(blockColumns...).
		From("unavailability_blocks").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	return r.list(ctx, "GetByIDs", selectBuilder)
}

// DeleteByIDs удаляет блокировки, возвращает число удаленных строк
func (r *Repository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("unavailability_blocks").
		Where(squirrel.Eq{"id": ids}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByIDs - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByIDs - execute delete: %w", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByIDs - get rows affected: %w", ErrExecQuery, err)
	}

	return deleted, nil
}

func (r *Repository) list(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]*domain.UnavailabilityBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	blocks := make([]*domain.UnavailabilityBlock, 0)
	for rows.Next() {
		var b domain.UnavailabilityBlock
		var createdAt sql.NullTime
		if err := rows.Scan(
			&b.ID,
			&b.CourtID,
			&b.BlockDate,
			&b.StartTime,
			&b.EndTime,
			&b.Reason,
			&b.CreatedBy,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		b.CreatedAt = createdAt.Time
		blocks = append(blocks, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return blocks, nil
}
