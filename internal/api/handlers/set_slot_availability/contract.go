package set_slot_availability

import (
	"context"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/service/slots/models"
)

type SlotService interface {
	SetAvailability(ctx context.Context, req *models.SetAvailabilityRequest) (*models.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
