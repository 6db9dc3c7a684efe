package materialize_slots

import (
	"context"
	"time"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/integrations/servicecatalog"
)

// ShiftRepository интерфейс репозитория смен
type ShiftRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Shift, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	InsertBatch(ctx context.Context, slots []*domain.Slot) (int64, error)
}

// ServiceCatalogClient интерфейс клиента каталога услуг
type ServiceCatalogClient interface {
	GetService(ctx context.Context, serviceID int64) (*servicecatalog.Service, error)
}

// Locker распределенная блокировка от параллельных запусков
// материализации одной смены; nil отключает ее
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
