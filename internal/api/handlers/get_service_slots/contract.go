package get_service_slots

import (
	"context"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/service/slots/models"
)

type SlotService interface {
	GetServiceSlots(ctx context.Context, req *models.GetServiceSlotsRequest) (*models.SlotListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
