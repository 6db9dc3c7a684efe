package release_booking

import (
	"time"

	releaseBooking "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/usecase/release_booking"
)

// ReleaseBookingRequest модель HTTP-запроса отмены бронирования
type ReleaseBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP-запрос в модель usecase
func (r *ReleaseBookingRequest) ToUseCaseRequest(tenantID, bookingID int64) *releaseBooking.Request {
	return &releaseBooking.Request{
		TenantID:  tenantID,
		BookingID: bookingID,
		Reason:    r.Reason,
	}
}

// CancelledBookingResponse модель HTTP-ответа
type CancelledBookingResponse struct {
	BookingID         int64  `json:"bookingId"`
	SlotID            int64  `json:"slotId"`
	VisitorCount      int    `json:"visitorCount"`
	Status            string `json:"status"`
	RemainingCapacity int    `json:"remainingCapacity"`
	CancelledAt       string `json:"cancelledAt"`
}

// FromUseCaseResponse конвертирует ответ usecase в HTTP-модель
func FromUseCaseResponse(resp *releaseBooking.Response) *CancelledBookingResponse {
	return &CancelledBookingResponse{
		BookingID:         resp.BookingID,
		SlotID:            resp.SlotID,
		VisitorCount:      resp.VisitorCount,
		Status:            resp.Status,
		RemainingCapacity: resp.RemainingCapacity,
		CancelledAt:       resp.CancelledAt.Format(time.RFC3339),
	}
}
