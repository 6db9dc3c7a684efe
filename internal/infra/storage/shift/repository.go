package shift

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/dbmetrics"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/psqlbuilder"
)

var shiftColumns = []string{
	"id",
	"tenant_id",
	"service_id",
	"days_of_week",
	"start_time",
	"end_time",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со сменами (расписаниями)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория смен
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую смену
func (r *Repository) Create(ctx context.Context, shift *domain.Shift) (*domain.Shift, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("shifts").
		Columns(
			"tenant_id",
			"service_id",
			"days_of_week",
			"start_time",
			"end_time",
			"is_active",
		).
		Values(
			shift.TenantID,
			shift.ServiceID,
			pq.Array(daysToInt64(shift.DaysOfWeek)),
			shift.StartTime,
			shift.EndTime,
			shift.IsActive,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&shift.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrDuplicateShift
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	shift.CreatedAt = createdAt.Time
	shift.UpdatedAt = updatedAt.Time

	return shift, nil
}

// GetByID получает смену по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Shift, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(shiftColumns...).
		From("shifts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanShift(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrShiftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan shift: %v", ErrScanRow, err)
	}

	return s, nil
}

// ListByService получает смены услуги
// activeOnly ограничивает выборку активными сменами
func (r *Repository) ListByService(ctx context.Context, serviceID int64, activeOnly bool) ([]*domain.Shift, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(shiftColumns...).
		From("shifts").
		Where(squirrel.Eq{"service_id": serviceID}).
		OrderBy("id ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByService - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByService - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	shifts := make([]*domain.Shift, 0)
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByService - scan row: %v", ErrScanRow, err)
		}
		shifts = append(shifts, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByService - rows error: %v", ErrScanRow, err)
	}

	return shifts, nil
}

// Update обновляет паттерн смены
// Уже материализованные слоты не трогает - изменения влияют
// только на будущую материализацию
func (r *Repository) Update(ctx context.Context, shift *domain.Shift) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("shifts").
		Set("days_of_week", pq.Array(daysToInt64(shift.DaysOfWeek))).
		Set("start_time", shift.StartTime).
		Set("end_time", shift.EndTime).
		Set("is_active", shift.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": shift.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrShiftNotFound
	}

	return nil
}

// Deactivate помечает смену неактивной
// Жесткое удаление не используется: история материализованных слотов сохраняется
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("shifts").
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Deactivate - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrShiftNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanShift(row rowScanner) (*domain.Shift, error) {
	var s domain.Shift
	var days pq.Int64Array
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.TenantID,
		&s.ServiceID,
		&days,
		&s.StartTime,
		&s.EndTime,
		&s.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.DaysOfWeek = make([]int, len(days))
	for i, d := range days {
		s.DaysOfWeek[i] = int(d)
	}
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

func daysToInt64(days []int) []int64 {
	out := make([]int64, len(days))
	for i, d := range days {
		out[i] = int64(d)
	}
	return out
}
