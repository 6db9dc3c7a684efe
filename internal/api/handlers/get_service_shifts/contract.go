package get_service_shifts

import (
	"context"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/service/shifts/models"
)

type ShiftService interface {
	ListByService(ctx context.Context, serviceID int64, activeOnly bool) (*models.ShiftListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
