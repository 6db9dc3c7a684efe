package domain

import "errors"

// Business validation constants
const (
	MinSlotCapacity = 1
	MaxSlotCapacity = 1000

	MinVisitorCount = 1
	MaxVisitorCount = 100

	// MaxMaterializeHorizonDays ограничивает горизонт материализации слотов,
	// чтобы ограничить объем хранимых строк
	MaxMaterializeHorizonDays = 120

	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Ошибки валидации доменных инвариантов
var (
	// ErrInvalidShiftTime возвращается, когда время смены некорректно
	// (неверный формат или конец не позже начала)
	ErrInvalidShiftTime = errors.New("domain: shift end time must be after start time")

	// ErrEmptyShiftDays возвращается, когда активная смена не содержит дней недели
	ErrEmptyShiftDays = errors.New("domain: active shift must have at least one weekday")

	// ErrInvalidShiftDay возвращается при дне недели вне диапазона 0-6
	ErrInvalidShiftDay = errors.New("domain: shift weekday must be in range 0-6")
)

// InactiveStatuses список статусов, не потребляющих вместимость слота
// Используется при фильтрации активных бронирований
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
}

// ActiveStatuses список статусов, потребляющих вместимость слота
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCheckedIn,
	StatusCompleted,
}
