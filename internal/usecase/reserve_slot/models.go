package reserve_slot

import (
	"time"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/types"
)

// Request модель запроса на резервирование единиц слота
type Request struct {
	TenantID     int64 // ID тенанта
	SlotID       int64 // ID слота
	VisitorCount int   // Запрошенное число единиц вместимости (>= 1)
	AsPending    bool  // true - создать бронь в статусе pending (предоплата)

	// Непрозрачный клиентский payload от оркестратора бронирований
	CustomerName  string
	CustomerPhone *string
	CustomerEmail *string
	Notes         *string
}

// Response модель ответа с созданным бронированием
type Response struct {
	BookingID    int64
	TenantID     int64
	ServiceID    int64
	SlotID       int64
	SlotDate     time.Time
	StartTime    types.TimeString
	EndTime      types.TimeString
	VisitorCount int
	Status       string

	// Остаток вместимости слота после резервирования
	RemainingCapacity int

	CreatedAt time.Time
}
