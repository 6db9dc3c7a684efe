package booking

import (
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor
