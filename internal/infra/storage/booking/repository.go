package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/dbmetrics"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/psqlbuilder"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/txmanager"
)

var bookingColumns = []string{
	"id",
	"tenant_id",
	"service_id",
	"slot_id",
	"visitor_count",
	"status",
	"payment_status",
	"customer_name",
	"customer_phone",
	"customer_email",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Вызывается движком резервирования только внутри транзакции,
// уже держащей блокировку на слоте
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"tenant_id",
			"service_id",
			"slot_id",
			"visitor_count",
			"status",
			"payment_status",
			"customer_name",
			"customer_phone",
			"customer_email",
			"notes",
		).
		Values(
			booking.TenantID,
			booking.ServiceID,
			booking.SlotID,
			booking.VisitorCount,
			booking.Status,
			booking.PaymentStatus,
			booking.CustomerName,
			booking.CustomerPhone,
			booking.CustomerEmail,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
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
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate получает бронирование по ID с блокировкой строки
// Требует активной транзакции: так Release/Move сериализуются между собой
// (двойная отмена не проходит проверку статуса после взятия блокировки)
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	if !dbmetrics.IsInTransaction(ctx) {
		return nil, ErrLockRequired
	}
	return r.getByID(ctx, id, true)
}

func (r *Repository) getByID(ctx context.Context, id int64, forUpdate bool) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		if cerr := concurrencyError(err); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return b, nil
}

// GetByTenantWithFilter получает бронирования тенанта с гибкой фильтрацией
// по услуге, слоту, периоду (по дате слота) и статусу
func (r *Repository) GetByTenantWithFilter(ctx context.Context, filter domain.TenantBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	prefixed := make([]string, len(bookingColumns))
	for i, c := range bookingColumns {
		prefixed[i] = "b." + c
	}

	selectBuilder := psqlbuilder.Select(prefixed...).
		From("bookings b").
		Join("slots s ON s.id = b.slot_id").
		Where(squirrel.Eq{"b.tenant_id": filter.TenantID})

	if filter.ServiceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.service_id": *filter.ServiceID})
	}
	if filter.SlotID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.slot_id": *filter.SlotID})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"s.slot_date": filter.StartDate.Format(domain.DateFormat)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"s.slot_date": filter.EndDate.Format(domain.DateFormat)})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.status": *filter.Status})
	} else if !filter.IncludeInactive {
		inactiveStatusStrings := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactiveStatusStrings[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"b.status": inactiveStatusStrings})
	}

	query, args, err := selectBuilder.
		OrderBy("s.slot_date DESC, s.start_time DESC, b.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenantWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenantWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Cancel отмечает бронирование отмененным с указанием причины
// Восстановление вместимости слота выполняет вызывающая транзакция
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// UpdateSlot переносит бронирование на другой слот с новым числом единиц
// Вызывается только из транзакции Move, держащей блокировки обоих слотов
func (r *Repository) UpdateSlot(ctx context.Context, id int64, slotID int64, visitorCount int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("slot_id", slotID).
		Set("visitor_count", visitorCount).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateSlot - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateSlot - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateSlot - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// UpdateServiceID обновляет привязку бронирования к услуге
// Используется только явной операцией Repair в Consistency Guard
func (r *Repository) UpdateServiceID(ctx context.Context, id int64, serviceID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("service_id", serviceID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateServiceID - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateServiceID - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateServiceID - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// ListMismatchedByTenant находит бронирования тенанта, у которых service_id
// разошелся с service_id смены их текущего слота. Отмененные бронирования
// не потребляют вместимость и в выверку не попадают.
// Возвращает пары (бронирование, ожидаемый service_id)
func (r *Repository) ListMismatchedByTenant(ctx context.Context, tenantID int64) ([]*domain.Booking, []int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	prefixed := make([]string, len(bookingColumns))
	for i, c := range bookingColumns {
		prefixed[i] = "b." + c
	}

	activeStatusStrings := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStatusStrings[i] = string(s)
	}

	query, args, err := psqlbuilder.Select(append(prefixed, "sh.service_id AS expected_service_id")...).
		From("bookings b").
		Join("slots s ON s.id = b.slot_id").
		Join("shifts sh ON sh.id = s.shift_id").
		Where(squirrel.Eq{"b.tenant_id": tenantID}).
		Where(squirrel.Eq{"b.status": activeStatusStrings}).
		Where("b.service_id <> sh.service_id").
		OrderBy("b.id ASC").
		ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: ListMismatchedByTenant - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: ListMismatchedByTenant - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	expected := make([]int64, 0)

	for rows.Next() {
		var b domain.Booking
		var createdAt, updatedAt sql.NullTime
		var expectedServiceID int64

		err := rows.Scan(
			&b.ID,
			&b.TenantID,
			&b.ServiceID,
			&b.SlotID,
			&b.VisitorCount,
			&b.Status,
			&b.PaymentStatus,
			&b.CustomerName,
			&b.CustomerPhone,
			&b.CustomerEmail,
			&b.Notes,
			&b.CancellationReason,
			&b.CancelledAt,
			&createdAt,
			&updatedAt,
			&expectedServiceID,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: ListMismatchedByTenant - scan row: %v", ErrScanRow, err)
		}

		b.CreatedAt = createdAt.Time
		b.UpdatedAt = updatedAt.Time

		bookings = append(bookings, &b)
		expected = append(expected, expectedServiceID)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: ListMismatchedByTenant - rows error: %v", ErrScanRow, err)
	}

	return bookings, expected, nil
}

// concurrencyError возвращает сентинельную ошибку конкуренции, если err
// является таковой, иначе nil
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

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.TenantID,
		&b.ServiceID,
		&b.SlotID,
		&b.VisitorCount,
		&b.Status,
		&b.PaymentStatus,
		&b.CustomerName,
		&b.CustomerPhone,
		&b.CustomerEmail,
		&b.Notes,
		&b.CancellationReason,
		&b.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
