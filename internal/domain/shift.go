package domain

import (
	"time"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/types"
)

// Shift represents a recurring weekly availability pattern owned by a service.
// Slots are materialized from it; editing a shift never changes slots that
// already exist, only future materialization.
type Shift struct {
	ID         int64
	TenantID   int64
	ServiceID  int64
	DaysOfWeek []int // weekday indices 0 (Sunday) - 6 (Saturday)
	StartTime  types.TimeString
	EndTime    types.TimeString
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasDay returns true if the shift pattern includes the given weekday
func (s *Shift) HasDay(weekday time.Weekday) bool {
	for _, d := range s.DaysOfWeek {
		if d == int(weekday) {
			return true
		}
	}
	return false
}

// Validate проверяет инварианты смены: конец позже начала,
// дни недели корректны и непусты для активной смены
func (s *Shift) Validate() error {
	if err := s.StartTime.Validate(); err != nil {
		return ErrInvalidShiftTime
	}
	if err := s.EndTime.Validate(); err != nil {
		return ErrInvalidShiftTime
	}
	if !s.StartTime.IsBefore(s.EndTime) {
		return ErrInvalidShiftTime
	}
	if s.IsActive && len(s.DaysOfWeek) == 0 {
		return ErrEmptyShiftDays
	}
	for _, d := range s.DaysOfWeek {
		if d < 0 || d > 6 {
			return ErrInvalidShiftDay
		}
	}
	return nil
}
