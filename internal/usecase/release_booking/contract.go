package release_booking

import (
	"context"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/infra/events"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
	Cancel(ctx context.Context, id int64, reason string) error
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Slot, error)
	UpdateCapacity(ctx context.Context, id int64, originalCapacity, availableCapacity, bookedCount int) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс публикации событий бронирований
type EventPublisher interface {
	Publish(routingKey string, event events.BookingEvent) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
