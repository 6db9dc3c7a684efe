package sync_capacity

import (
	"context"

	syncCapacity "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/usecase/sync_capacity"
)

// SyncCapacityUseCase интерфейс usecase синхронизации вместимости
type SyncCapacityUseCase interface {
	Execute(ctx context.Context, req *syncCapacity.Request) (*syncCapacity.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}
