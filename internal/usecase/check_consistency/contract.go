package check_consistency

import (
	"context"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListMismatchedByTenant(ctx context.Context, tenantID int64) ([]*domain.Booking, []int64, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetOwningServiceID(ctx context.Context, slotID int64) (int64, error)
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
