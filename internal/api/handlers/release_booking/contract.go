package release_booking

import (
	"context"

	releaseBooking "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/usecase/release_booking"
)

// ReleaseBookingUseCase интерфейс usecase отмены бронирования
type ReleaseBookingUseCase interface {
	Execute(ctx context.Context, req *releaseBooking.Request) (*releaseBooking.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}
