package update_shift

import (
	"context"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/service/shifts/models"
)

type ShiftService interface {
	Update(ctx context.Context, req *models.UpdateShiftRequest) (*models.ShiftResponse, error)
	Deactivate(ctx context.Context, shiftID, tenantID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
