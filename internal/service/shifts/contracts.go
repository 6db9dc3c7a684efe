package shifts

import (
	"context"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/integrations/servicecatalog"
)

// ShiftRepository интерфейс репозитория смен
type ShiftRepository interface {
	Create(ctx context.Context, shift *domain.Shift) (*domain.Shift, error)
	GetByID(ctx context.Context, id int64) (*domain.Shift, error)
	ListByService(ctx context.Context, serviceID int64, activeOnly bool) ([]*domain.Shift, error)
	Update(ctx context.Context, shift *domain.Shift) error
	Deactivate(ctx context.Context, id int64) error
}

// ServiceCatalogClient интерфейс клиента каталога услуг
type ServiceCatalogClient interface {
	GetService(ctx context.Context, serviceID int64) (*servicecatalog.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
