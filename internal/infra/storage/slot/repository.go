package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/dbmetrics"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/psqlbuilder"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/txmanager"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/types"
)

var slotColumns = []string{
	"id",
	"tenant_id",
	"shift_id",
	"service_id",
	"slot_date",
	"start_time",
	"end_time",
	"original_capacity",
	"available_capacity",
	"booked_count",
	"is_available",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со слотами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// InsertBatch вставляет слоты пачкой, пропуская уже существующие
// (ON CONFLICT по shift_id + slot_date + start_time)
// Возвращает количество реально созданных строк - повторная материализация
// пересекающегося диапазона дубликатов не создает
func (r *Repository) InsertBatch(ctx context.Context, slots []*domain.Slot) (int64, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("slots").
		Columns(
			"tenant_id",
			"shift_id",
			"service_id",
			"slot_date",
			"start_time",
			"end_time",
			"original_capacity",
			"available_capacity",
			"booked_count",
			"is_available",
		)

	for _, s := range slots {
		insertBuilder = insertBuilder.Values(
			s.TenantID,
			s.ShiftID,
			s.ServiceID,
			s.SlotDate,
			s.StartTime,
			s.EndTime,
			s.OriginalCapacity,
			s.AvailableCapacity,
			s.BookedCount,
			s.IsAvailable,
		)
	}

	query, args, err := insertBuilder.
		Suffix("ON CONFLICT (shift_id, slot_date, start_time) DO NOTHING").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: InsertBatch - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: InsertBatch - execute insert: %v", ErrExecQuery, err)
	}

	created, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: InsertBatch - get rows affected: %v", ErrExecQuery, err)
	}

	return created, nil
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate получает слот по ID с эксклюзивной блокировкой строки
// (SELECT ... FOR UPDATE). Требует активной транзакции в контексте:
// блокировка вне транзакции отпускается сразу и не дает никаких гарантий
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Slot, error) {
	if !dbmetrics.IsInTransaction(ctx) {
		return nil, ErrLockRequired
	}
	return r.getByID(ctx, id, true)
}

func (r *Repository) getByID(ctx context.Context, id int64, forUpdate bool) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"id": id})

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		if cerr := concurrencyError(err); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// GetOwningServiceID возвращает service_id смены, которой принадлежит слот
// Используется Consistency Guard для проверки дрейфа привязки услуги
func (r *Repository) GetOwningServiceID(ctx context.Context, slotID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("sh.service_id").
		From("slots s").
		Join("shifts sh ON sh.id = s.shift_id").
		Where(squirrel.Eq{"s.id": slotID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: GetOwningServiceID - build select query: %v", ErrBuildQuery, err)
	}

	var serviceID int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&serviceID)
	if err == sql.ErrNoRows {
		return 0, ErrSlotNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: GetOwningServiceID - scan service_id: %v", ErrScanRow, err)
	}

	return serviceID, nil
}

// ListFutureByService получает еще не начавшиеся слоты услуги
// (дата в будущем, либо сегодня с временем начала позже now)
// Внутри транзакции блокирует строки (FOR UPDATE) - так работает ресинк вместимости
func (r *Repository) ListFutureByService(ctx context.Context, serviceID int64, now time.Time) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	today := now.Format(domain.DateFormat)
	nowTime := types.NewTimeString(now)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"service_id": serviceID}).
		Where(squirrel.Or{
			squirrel.Gt{"slot_date": today},
			squirrel.And{
				squirrel.Eq{"slot_date": today},
				squirrel.Gt{"start_time": nowTime},
			},
		}).
		OrderBy("slot_date ASC, start_time ASC, id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListFutureByService - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if cerr := concurrencyError(err); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("%w: ListFutureByService - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// ListByServiceAndDateRange получает слоты услуги за период (для витрины доступности)
func (r *Repository) ListByServiceAndDateRange(ctx context.Context, serviceID int64, from, to time.Time) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"service_id": serviceID}).
		Where(squirrel.GtOrEq{"slot_date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"slot_date": to.Format(domain.DateFormat)}).
		OrderBy("slot_date ASC, start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByServiceAndDateRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByServiceAndDateRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// UpdateCapacity записывает счетчики вместимости слота
// Вызывается только под блокировкой строки (движок резервирования, ресинк)
func (r *Repository) UpdateCapacity(ctx context.Context, id int64, originalCapacity, availableCapacity, bookedCount int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("original_capacity", originalCapacity).
		Set("available_capacity", availableCapacity).
		Set("booked_count", bookedCount).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateCapacity - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if cerr := concurrencyError(err); cerr != nil {
			return cerr
		}
		return fmt.Errorf("%w: UpdateCapacity - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateCapacity - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// SetAvailability выставляет ручной флаг доступности слота (blackout)
// Единственный писатель флага is_available
func (r *Repository) SetAvailability(ctx context.Context, id int64, isAvailable bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("is_available", isAvailable).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetAvailability - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetAvailability - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetAvailability - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// concurrencyError возвращает сентинельную ошибку конкуренции (lock timeout /
// serialization failure), если err является таковой, иначе nil
// Эти ошибки должны сохранить цепочку для повторов в txmanager
func concurrencyError(err error) error {
	mapped := txmanager.MapPgError(err)
	if errors.Is(mapped, txmanager.ErrLockTimeout) || errors.Is(mapped, txmanager.ErrSerialization) {
		return mapped
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.Slot, error) {
	var s domain.Slot
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.TenantID,
		&s.ShiftID,
		&s.ServiceID,
		&s.SlotDate,
		&s.StartTime,
		&s.EndTime,
		&s.OriginalCapacity,
		&s.AvailableCapacity,
		&s.BookedCount,
		&s.IsAvailable,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// scanSlots сканирует результаты запроса в слайс слотов
func scanSlots(rows *sql.Rows) ([]*domain.Slot, error) {
	slots := make([]*domain.Slot, 0)

	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}
