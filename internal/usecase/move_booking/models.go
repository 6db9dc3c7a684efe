package move_booking

import (
	"time"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/types"
)

// Request модель запроса на перенос бронирования
type Request struct {
	TenantID     int64 // ID тенанта
	BookingID    int64 // ID бронирования
	TargetSlotID int64 // ID целевого слота (может совпадать с текущим)

	// Новое число единиц; nil - оставить текущее.
	// Перенос на тот же слот с новым значением работает как ресайз
	NewVisitorCount *int
}

// Response модель ответа с перенесенным бронированием
type Response struct {
	BookingID    int64
	PrevSlotID   int64
	SlotID       int64
	SlotDate     time.Time
	StartTime    types.TimeString
	EndTime      types.TimeString
	VisitorCount int
	Status       string

	// Остаток вместимости целевого слота после переноса
	RemainingCapacity int
}
