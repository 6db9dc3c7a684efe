package domain

import (
	"time"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/types"
)

// Slot represents one concrete, dated, capacity-bearing bookable time window.
// Capacity counters are mutated only by the reservation engine and the
// capacity synchronizer, always under a row lock.
type Slot struct {
	ID        int64
	TenantID  int64
	ShiftID   int64
	ServiceID int64 // denormalized from the owning shift at materialization time
	SlotDate  time.Time
	StartTime types.TimeString
	EndTime   types.TimeString

	OriginalCapacity  int // capacity snapshot at materialization (or last resync)
	AvailableCapacity int // remaining reservable units
	BookedCount       int // units consumed by active bookings

	IsAvailable bool // manual override: false blocks new reservations regardless of capacity

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasCapacityFor returns true if the slot can admit the requested units
func (s *Slot) HasCapacityFor(units int) bool {
	return s.AvailableCapacity >= units
}

// IsFull returns true if no units remain
func (s *Slot) IsFull() bool {
	return s.AvailableCapacity <= 0
}

// IsOverSubscribed returns true if active bookings exceed the slot's current
// capacity template. Only the capacity synchronizer can put a slot into this
// state (lowering capacity below booked_count clamps available to 0 instead
// of cancelling bookings).
func (s *Slot) IsOverSubscribed() bool {
	return s.BookedCount > s.OriginalCapacity
}

// ConservesCapacity проверяет инвариант сохранения вместимости:
// available + booked == original, либо слот в задокументированном
// пережатом состоянии после ресинка (available == 0, booked > original)
func (s *Slot) ConservesCapacity() bool {
	if s.AvailableCapacity+s.BookedCount == s.OriginalCapacity {
		return true
	}
	return s.AvailableCapacity == 0 && s.IsOverSubscribed()
}

// Reserve consumes units from the slot's counters. Admission checks are the
// caller's responsibility; must be invoked only under a row lock.
func (s *Slot) Reserve(units int) {
	s.AvailableCapacity -= units
	s.BookedCount += units
}

// Release restores units to the slot's counters, flooring booked at 0 and
// capping available so it never exceeds what the capacity template allows.
// The cap guards against double-release and keeps over-subscribed slots
// from advertising capacity they do not have.
func (s *Slot) Release(units int) {
	s.BookedCount -= units
	if s.BookedCount < 0 {
		s.BookedCount = 0
	}
	s.AvailableCapacity = s.OriginalCapacity - s.BookedCount
	if s.AvailableCapacity < 0 {
		s.AvailableCapacity = 0
	}
}

// Retemplate применяет новое значение вместимости из каталога услуг:
// original = newCapacity, available = max(newCapacity - booked, 0).
// Возвращает true, если слот оказался пережат (booked > newCapacity)
func (s *Slot) Retemplate(newCapacity int) bool {
	s.OriginalCapacity = newCapacity
	s.AvailableCapacity = newCapacity - s.BookedCount
	if s.AvailableCapacity < 0 {
		s.AvailableCapacity = 0
	}
	return s.BookedCount > newCapacity
}

// StartsBefore returns true if the slot starts at or before the given moment
func (s *Slot) StartsBefore(t time.Time) bool {
	d := s.SlotDate
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, t.Location())
	today := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())

	if day.Before(today) {
		return true
	}
	if day.After(today) {
		return false
	}
	return !s.StartTime.IsAfter(types.NewTimeString(t))
}
