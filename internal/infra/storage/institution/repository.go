package institution

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

// Repository репозиторий учреждений (владельцев кортов)
type Repository struct {
	db dbmetrics.DBExecutor
}

func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает учреждение вместе со списком администраторов
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Institution, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "admin_ids").
		From("institutions").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var inst domain.Institution
	var adminIDs pq.Int64Array
	err = executor.QueryRowContext(ctx, query, args...).Scan(&inst.ID, &inst.Name, &adminIDs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInstitutionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan institution: %w", ErrScanRow, err)
	}
	inst.AdminIDs = []int64(adminIDs)

	return &inst, nil
}

// IsAdmin проверяет, что пользователь администрирует учреждение
func (r *Repository) IsAdmin(ctx context.Context, institutionID, userID int64) (bool, error) {
	inst, err := r.GetByID(ctx, institutionID)
	if err != nil {
		return false, err
	}
	return inst.IsAdmin(userID), nil
}
