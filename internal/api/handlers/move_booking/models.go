package move_booking

import (
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
	moveBooking "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/usecase/move_booking"
)

// MoveBookingRequest модель HTTP-запроса переноса бронирования
type MoveBookingRequest struct {
	TargetSlotID    int64 `json:"targetSlotId"`
	NewVisitorCount *int  `json:"newVisitorCount,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP-запрос в модель usecase
func (r *MoveBookingRequest) ToUseCaseRequest(tenantID, bookingID int64) *moveBooking.Request {
	return &moveBooking.Request{
		TenantID:        tenantID,
		BookingID:       bookingID,
		TargetSlotID:    r.TargetSlotID,
		NewVisitorCount: r.NewVisitorCount,
	}
}

// MovedBookingResponse модель HTTP-ответа
type MovedBookingResponse struct {
	BookingID         int64  `json:"bookingId"`
	PrevSlotID        int64  `json:"prevSlotId"`
	SlotID            int64  `json:"slotId"`
	SlotDate          string `json:"slotDate"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	VisitorCount      int    `json:"visitorCount"`
	Status            string `json:"status"`
	RemainingCapacity int    `json:"remainingCapacity"`
}

// FromUseCaseResponse конвертирует ответ usecase в HTTP-модель
func FromUseCaseResponse(resp *moveBooking.Response) *MovedBookingResponse {
	return &MovedBookingResponse{
		BookingID:         resp.BookingID,
		PrevSlotID:        resp.PrevSlotID,
		SlotID:            resp.SlotID,
		SlotDate:          resp.SlotDate.Format(domain.DateFormat),
		StartTime:         resp.StartTime.String(),
		EndTime:           resp.EndTime.String(),
		VisitorCount:      resp.VisitorCount,
		Status:            resp.Status,
		RemainingCapacity: resp.RemainingCapacity,
	}
}
