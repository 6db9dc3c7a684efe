package materialize_slots

import (
	"context"

	materializeSlots "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/usecase/materialize_slots"
)

// MaterializeSlotsUseCase интерфейс usecase материализации слотов
type MaterializeSlotsUseCase interface {
	Execute(ctx context.Context, req *materializeSlots.Request) (*materializeSlots.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}
