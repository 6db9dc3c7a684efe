package check_consistency

import (
	"context"

	checkConsistency "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/usecase/check_consistency"
)

// CheckConsistencyUseCase интерфейс usecase проверки консистентности
type CheckConsistencyUseCase interface {
	Check(ctx context.Context, req *checkConsistency.CheckRequest) (*checkConsistency.Response, error)
	Scan(ctx context.Context, req *checkConsistency.ScanRequest) (*checkConsistency.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}
