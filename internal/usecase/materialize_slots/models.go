package materialize_slots

import "time"

// Request модель запроса на материализацию слотов смены
type Request struct {
	TenantID int64     // ID тенанта
	ShiftID  int64     // ID смены
	FromDate time.Time // Начало диапазона (включительно)
	ToDate   time.Time // Конец диапазона (включительно)
}

// Response модель ответа материализации
type Response struct {
	ShiftID      int64
	ServiceID    int64
	CreatedCount int64 // Число реально вставленных слотов
	PlannedCount int   // Число дат, попавших под паттерн смены
}
