package models

import (
	"time"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
)

// Request модели

// GetServiceSlotsRequest запрос на получение слотов услуги за период
type GetServiceSlotsRequest struct {
	ServiceID int64     `json:"serviceId"`
	FromDate  time.Time `json:"fromDate"`
	ToDate    time.Time `json:"toDate"`
}

// SetAvailabilityRequest запрос на ручное открытие/закрытие слота
type SetAvailabilityRequest struct {
	TenantID    int64 `json:"tenantId"`
	SlotID      int64 `json:"slotId"`
	IsAvailable bool  `json:"isAvailable"`
}

// Response модели

// SlotResponse слот в ответе API
type SlotResponse struct {
	ID        int64  `json:"id"`
	TenantID  int64  `json:"tenantId"`
	ShiftID   int64  `json:"shiftId"`
	ServiceID int64  `json:"serviceId"`
	SlotDate  string `json:"slotDate"`  // YYYY-MM-DD
	StartTime string `json:"startTime"` // HH:MM
	EndTime   string `json:"endTime"`   // HH:MM

	OriginalCapacity  int `json:"originalCapacity"`
	AvailableCapacity int `json:"availableCapacity"`
	BookedCount       int `json:"bookedCount"`

	IsAvailable      bool `json:"isAvailable"`
	IsFull           bool `json:"isFull"`
	IsOverSubscribed bool `json:"isOverSubscribed,omitempty"`
}

// SlotListResponse список слотов
type SlotListResponse struct {
	Slots []*SlotResponse `json:"slots"`
	Total int             `json:"total"`
}

// FromDomainSlot конвертирует domain слот в response
func FromDomainSlot(s *domain.Slot) *SlotResponse {
	return &SlotResponse{
		ID:                s.ID,
		TenantID:          s.TenantID,
		ShiftID:           s.ShiftID,
		ServiceID:         s.ServiceID,
		SlotDate:          s.SlotDate.Format(domain.DateFormat),
		StartTime:         s.StartTime.String(),
		EndTime:           s.EndTime.String(),
		OriginalCapacity:  s.OriginalCapacity,
		AvailableCapacity: s.AvailableCapacity,
		BookedCount:       s.BookedCount,
		IsAvailable:       s.IsAvailable,
		IsFull:            s.IsFull(),
		IsOverSubscribed:  s.IsOverSubscribed(),
	}
}

// FromDomainSlots конвертирует список domain слотов в response
func FromDomainSlots(slots []*domain.Slot) *SlotListResponse {
	resp := &SlotListResponse{
		Slots: make([]*SlotResponse, 0, len(slots)),
		Total: len(slots),
	}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, FromDomainSlot(s))
	}
	return resp
}
