package simpletxmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/dbmetrics"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/txmanager"
)

// TransactionManager менеджер транзакций поверх чистого *sql.DB (без метрик)
// Семантика идентична pkg/txmanager: активная транзакция кладется в контекст,
// сентинельные ошибки конкуренции берутся из pkg/txmanager
type TransactionManager struct {
	db            *sql.DB
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
func NewTransactionManager(db *sql.DB, opts ...Option) *TransactionManager {
	m := &TransactionManager{
		db:            db,
		lockTimeoutMS: txmanager.DefaultLockTimeoutMS,
		maxRetries:    txmanager.DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DoSerializable выполняет fn в сериализуемой транзакции с повторами при 40001
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}

	var err error
	for attempt := 0; attempt < m.maxRetries; attempt++ {
		err = m.run(ctx, opts, fn)
		if !isRetryable(err) {
			return err
		}
	}
	return fmt.Errorf("%w: after %d attempts: %v", txmanager.ErrSerialization, m.maxRetries, err)
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("simpletxmanager: begin tx: %w", err)
	}

	if !opts.ReadOnly {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", m.lockTimeoutMS)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("simpletxmanager: set lock_timeout: %w", err)
		}
	}

	txCtx := dbmetrics.WithTransaction(ctx, tx)

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return txmanager.MapPgError(err)
	}

	if err := tx.Commit(); err != nil {
		return txmanager.MapPgError(fmt.Errorf("simpletxmanager: commit: %w", err))
	}

	return nil
}

func isRetryable(err error) bool {
	return errors.Is(err, txmanager.ErrSerialization)
}
