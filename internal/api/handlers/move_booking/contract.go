package move_booking

import (
	"context"

	moveBooking "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/usecase/move_booking"
)

// MoveBookingUseCase интерфейс usecase переноса бронирования
type MoveBookingUseCase interface {
	Execute(ctx context.Context, req *moveBooking.Request) (*moveBooking.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}
