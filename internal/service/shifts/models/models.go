package models

import (
	"time"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/types"
)

// Request модели

// CreateShiftRequest запрос на создание смены
type CreateShiftRequest struct {
	TenantID   int64  `json:"tenantId"`
	ServiceID  int64  `json:"serviceId"`
	DaysOfWeek []int  `json:"daysOfWeek"` // 0 (воскресенье) - 6 (суббота)
	StartTime  string `json:"startTime"`  // HH:MM
	EndTime    string `json:"endTime"`    // HH:MM
}

// ToDomainShift конвертирует request в domain смену
func (r *CreateShiftRequest) ToDomainShift() *domain.Shift {
	return &domain.Shift{
		TenantID:   r.TenantID,
		ServiceID:  r.ServiceID,
		DaysOfWeek: r.DaysOfWeek,
		StartTime:  types.TimeString(r.StartTime),
		EndTime:    types.TimeString(r.EndTime),
		IsActive:   true,
	}
}

// UpdateShiftRequest запрос на изменение смены.
// Правка паттерна не трогает уже материализованные слоты -
// она влияет только на будущую материализацию
type UpdateShiftRequest struct {
	TenantID   int64   `json:"tenantId"`
	ShiftID    int64   `json:"shiftId"`
	DaysOfWeek []int   `json:"daysOfWeek,omitempty"`
	StartTime  *string `json:"startTime,omitempty"` // HH:MM
	EndTime    *string `json:"endTime,omitempty"`   // HH:MM
}

// Response модели

// ShiftResponse смена в ответе API
type ShiftResponse struct {
	ID         int64  `json:"id"`
	TenantID   int64  `json:"tenantId"`
	ServiceID  int64  `json:"serviceId"`
	DaysOfWeek []int  `json:"daysOfWeek"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	IsActive   bool   `json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ShiftListResponse список смен
type ShiftListResponse struct {
	Shifts []*ShiftResponse `json:"shifts"`
	Total  int              `json:"total"`
}

// FromDomainShift конвертирует domain смену в response
func FromDomainShift(s *domain.Shift) *ShiftResponse {
	return &ShiftResponse{
		ID:         s.ID,
		TenantID:   s.TenantID,
		ServiceID:  s.ServiceID,
		DaysOfWeek: s.DaysOfWeek,
		StartTime:  s.StartTime.String(),
		EndTime:    s.EndTime.String(),
		IsActive:   s.IsActive,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// FromDomainShifts конвертирует список domain смен в response
func FromDomainShifts(shifts []*domain.Shift) *ShiftListResponse {
	resp := &ShiftListResponse{
		Shifts: make([]*ShiftResponse, 0, len(shifts)),
		Total:  len(shifts),
	}
	for _, s := range shifts {
		resp.Shifts = append(resp.Shifts, FromDomainShift(s))
	}
	return resp
}
