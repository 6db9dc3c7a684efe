package release_booking

import "time"

// Request модель запроса на освобождение (отмену) бронирования
type Request struct {
	TenantID  int64   // ID тенанта
	BookingID int64   // ID бронирования
	Reason    *string // Причина отмены (опционально)
}

// Response модель ответа с отмененным бронированием
type Response struct {
	BookingID    int64
	SlotID       int64
	VisitorCount int
	Status       string

	// Остаток вместимости слота после возврата единиц
	RemainingCapacity int

	CancelledAt time.Time
}
