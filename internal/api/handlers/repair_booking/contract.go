package repair_booking

import (
	"context"

	repairBooking "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/usecase/repair_booking"
)

// RepairBookingUseCase интерфейс usecase ремонта услуги бронирования
type RepairBookingUseCase interface {
	Execute(ctx context.Context, req *repairBooking.Request) (*repairBooking.Response, error)
	ExecuteTenant(ctx context.Context, req *repairBooking.TenantRequest) (*repairBooking.TenantResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}
