package sync_capacity

// Request модель запроса на синхронизацию вместимости слотов услуги
type Request struct {
	ServiceID int64 // ID услуги из каталога
}

// Response модель ответа синхронизации
type Response struct {
	ServiceID   int64
	NewCapacity int // Значение вместимости, примененное к слотам

	ScannedCount int // Число будущих слотов услуги
	UpdatedCount int // Число слотов с измененными счетчиками
	ClampedCount int // Число пережатых слотов (booked > новой вместимости)

	// ID пережатых слотов для предупреждения оператору
	ClampedSlotIDs []int64
}
