package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/dbmetrics"
)

// Коды ошибок PostgreSQL
const (
	pgSerializationFailure = "40001"
	pgLockNotAvailable     = "55P03"
)

var (
	// ErrLockTimeout возвращается, когда транзакция не дождалась блокировки строки
	ErrLockTimeout = errors.New("txmanager: lock timeout")

	// ErrSerialization возвращается, когда сериализуемая транзакция не прошла
	// после всех повторных попыток
	ErrSerialization = errors.New("txmanager: serialization failure")
)

// Значения по умолчанию
const (
	DefaultLockTimeoutMS = 3000
	DefaultMaxRetries    = 3
)

// TxBeginner интерфейс начала транзакций (предоставляется dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager менеджер транзакций поверх обёртки БД с метриками
// Кладет активную транзакцию в контекст, репозитории достают её через
// dbmetrics.GetExecutor
type TransactionManager struct {
	db            TxBeginner
	lockTimeoutMS int
	maxRetries    int
}

// Option опция конфигурации менеджера транзакций
type Option func(*TransactionManager)

// WithLockTimeout задает таймаут ожидания блокировки строки (миллисекунды)
func WithLockTimeout(ms int) Option {
	return func(m *TransactionManager) {
		if ms > 0 {
			m.lockTimeoutMS = ms
		}
	}
}

// WithMaxRetries задает число повторов сериализуемой транзакции при 40001
func WithMaxRetries(n int) Option {
	return func(m *TransactionManager) {
		if n > 0 {
			m.maxRetries = n
		}
	}
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db TxBeginner, opts ...Option) *TransactionManager {
	m := &TransactionManager{
		db:            db,
		lockTimeoutMS: DefaultLockTimeoutMS,
		maxRetries:    DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DoSerializable выполняет fn в сериализуемой транзакции
// При serialization failure (40001) повторяет до maxRetries раз
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}

	var err error
	for attempt := 0; attempt < m.maxRetries; attempt++ {
		err = m.run(ctx, opts, fn)
		if !isSerializationFailure(err) {
			return err
		}
	}
	return fmt.Errorf("%w: after %d attempts: %v", ErrSerialization, m.maxRetries, err)
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("txmanager: begin tx: %w", err)
	}

	// Ограничиваем ожидание блокировок строк: дождаться или отвалиться с 55P03,
	// но не висеть бесконечно
	if !opts.ReadOnly {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", m.lockTimeoutMS)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("txmanager: set lock_timeout: %w", err)
		}
	}

	txCtx := dbmetrics.WithTransaction(ctx, tx)

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return MapPgError(err)
	}

	if err := tx.Commit(); err != nil {
		return MapPgError(fmt.Errorf("txmanager: commit: %w", err))
	}

	return nil
}

// MapPgError конвертирует коды ошибок PostgreSQL, связанные с конкуренцией,
// в сентинельные ошибки пакета; остальные ошибки возвращает как есть
func MapPgError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgLockNotAvailable:
			return fmt.Errorf("%w: %v", ErrLockTimeout, err)
		case pgSerializationFailure:
			return fmt.Errorf("%w: %v", ErrSerialization, err)
		}
	}
	return err
}

func isSerializationFailure(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgSerializationFailure {
		return true
	}
	return errors.Is(err, ErrSerialization)
}
