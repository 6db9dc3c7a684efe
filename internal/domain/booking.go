package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCheckedIn BookingStatus = "checked_in"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// PaymentStatus represents the payment state of a booking.
// Payment capture itself is out of this service's scope; the field is
// carried for the invoicing pipeline.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Booking represents a reservation of visitor_count capacity units on a slot
type Booking struct {
	ID            int64
	TenantID      int64
	ServiceID     int64
	SlotID        int64
	VisitorCount  int // capacity units consumed, >= 1
	Status        BookingStatus
	PaymentStatus PaymentStatus

	// Opaque customer payload supplied by the booking orchestration
	CustomerName  string
	CustomerPhone *string
	CustomerEmail *string
	Notes         *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking currently consumes slot capacity
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeMoved returns true if the booking can be moved to a different slot
func (b *Booking) CanBeMoved() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// TenantBookingsFilter фильтр для выборки бронирований тенанта
type TenantBookingsFilter struct {
	TenantID        int64          // Обязательный параметр
	ServiceID       *int64         // Фильтр по услуге (опционально)
	SlotID          *int64         // Фильтр по слоту (опционально)
	StartDate       *time.Time     // Начало периода по дате слота (опционально)
	EndDate         *time.Time     // Конец периода по дате слота (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отмененные бронирования
}
