package move_booking

import (
	"errors"
	"fmt"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	// либо принадлежит другому тенанту
	ErrBookingNotFound = errors.New("move_booking: booking not found")

	// ErrNotMovable возвращается, когда статус бронирования
	// не допускает перенос (checked_in, completed, cancelled)
	ErrNotMovable = errors.New("move_booking: booking cannot be moved in its current status")

	// ErrTargetSlotNotFound возвращается, когда целевой слот не найден
	ErrTargetSlotNotFound = errors.New("move_booking: target slot not found")

	// ErrTargetSlotUnavailable возвращается, когда целевой слот закрыт
	// ручным флагом is_available
	ErrTargetSlotUnavailable = errors.New("move_booking: target slot is unavailable")

	// ErrServiceMismatch возвращается при попытке переноса на слот
	// другой услуги
	ErrServiceMismatch = errors.New("move_booking: target slot belongs to another service")

	// ErrInsufficientCapacity возвращается, когда в целевом слоте
	// недостаточно свободных единиц
	ErrInsufficientCapacity = errors.New("move_booking: insufficient capacity in target slot")

	// ErrBusy возвращается, когда транзакция не дождалась блокировки строк
	ErrBusy = errors.New("move_booking: slots are busy, try again")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("move_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("move_booking: internal error")
)

// InsufficientCapacityError несет точное число оставшихся единиц целевого слота
type InsufficientCapacityError struct {
	Requested int
	Remaining int
}

// Error реализует интерфейс error
func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("move_booking: insufficient capacity in target slot: %d requested, %d remaining", e.Requested, e.Remaining)
}

// Is делает ошибку совместимой с errors.Is(err, ErrInsufficientCapacity)
func (e *InsufficientCapacityError) Is(target error) bool {
	return target == ErrInsufficientCapacity
}
