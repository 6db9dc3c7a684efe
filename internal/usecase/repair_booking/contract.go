package repair_booking

import (
	"context"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateServiceID(ctx context.Context, id int64, serviceID int64) error
	ListMismatchedByTenant(ctx context.Context, tenantID int64) ([]*domain.Booking, []int64, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetOwningServiceID(ctx context.Context, slotID int64) (int64, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
