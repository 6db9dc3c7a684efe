package models

import (
	"errors"
	"time"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// GetTenantBookingsRequest запрос на получение бронирований тенанта
type GetTenantBookingsRequest struct {
	TenantID        int64      `json:"tenantId"`
	ServiceID       *int64     `json:"serviceId,omitempty"`       // Фильтр по услуге (опционально)
	SlotID          *int64     `json:"slotId,omitempty"`          // Фильтр по слоту (опционально)
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода по дате слота (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода по дате слота (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отмененные бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetTenantBookingsRequest) ToDomainFilter() (domain.TenantBookingsFilter, error) {
	filter := domain.TenantBookingsFilter{
		TenantID:        r.TenantID,
		ServiceID:       r.ServiceID,
		SlotID:          r.SlotID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse бронирование в ответе API
type BookingResponse struct {
	ID            int64   `json:"id"`
	TenantID      int64   `json:"tenantId"`
	ServiceID     int64   `json:"serviceId"`
	SlotID        int64   `json:"slotId"`
	VisitorCount  int     `json:"visitorCount"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"paymentStatus"`
	CustomerName  string  `json:"customerName"`
	CustomerPhone *string `json:"customerPhone,omitempty"`
	CustomerEmail *string `json:"customerEmail,omitempty"`
	Notes         *string `json:"notes,omitempty"`

	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int                `json:"total"`
}

// FromDomainBooking конвертирует domain бронирование в response
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:                 b.ID,
		TenantID:           b.TenantID,
		ServiceID:          b.ServiceID,
		SlotID:             b.SlotID,
		VisitorCount:       b.VisitorCount,
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		CustomerName:       b.CustomerName,
		CustomerPhone:      b.CustomerPhone,
		CustomerEmail:      b.CustomerEmail,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// FromDomainBookings конвертирует список domain бронирований в response
func FromDomainBookings(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]*BookingResponse, 0, len(bookings)),
		Total:    len(bookings),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, FromDomainBooking(b))
	}
	return resp
}

// ToDomainBookingStatus конвертирует строку в domain статус
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	switch domain.BookingStatus(status) {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusCheckedIn,
		domain.StatusCompleted, domain.StatusCancelled:
		return domain.BookingStatus(status), nil
	default:
		return "", ErrInvalidStatus
	}
}
