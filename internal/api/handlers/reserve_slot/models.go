package reserve_slot

import (
	"time"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
	reserveSlot "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/usecase/reserve_slot"
)

// ReserveSlotRequest HTTP request model
type ReserveSlotRequest struct {
	SlotID        int64   `json:"slotId"`
	VisitorCount  int     `json:"visitorCount"`
	AsPending     bool    `json:"asPending,omitempty"`
	CustomerName  string  `json:"customerName"`
	CustomerPhone *string `json:"customerPhone,omitempty"`
	CustomerEmail *string `json:"customerEmail,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	BookingID         int64  `json:"bookingId"`
	TenantID          int64  `json:"tenantId"`
	ServiceID         int64  `json:"serviceId"`
	SlotID            int64  `json:"slotId"`
	SlotDate          string `json:"slotDate"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	VisitorCount      int    `json:"visitorCount"`
	Status            string `json:"status"`
	RemainingCapacity int    `json:"remainingCapacity"`
	CreatedAt         string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ReserveSlotRequest) ToUseCaseRequest(tenantID int64) *reserveSlot.Request {
	return &reserveSlot.Request{
		TenantID:      tenantID,
		SlotID:        r.SlotID,
		VisitorCount:  r.VisitorCount,
		AsPending:     r.AsPending,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		CustomerEmail: r.CustomerEmail,
		Notes:         r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *reserveSlot.Response) *BookingResponse {
	return &BookingResponse{
		BookingID:         resp.BookingID,
		TenantID:          resp.TenantID,
		ServiceID:         resp.ServiceID,
		SlotID:            resp.SlotID,
		SlotDate:          resp.SlotDate.Format(domain.DateFormat),
		StartTime:         resp.StartTime.String(),
		EndTime:           resp.EndTime.String(),
		VisitorCount:      resp.VisitorCount,
		Status:            resp.Status,
		RemainingCapacity: resp.RemainingCapacity,
		CreatedAt:         resp.CreatedAt.Format(time.RFC3339),
	}
}
