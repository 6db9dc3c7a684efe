package reserve_slot

import (
	"errors"
	"fmt"
)

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("reserve_slot: slot not found")

	// ErrSlotUnavailable возвращается, когда слот закрыт ручным флагом
	// is_available - независимо от оставшейся вместимости
	ErrSlotUnavailable = errors.New("reserve_slot: slot is unavailable")

	// ErrInsufficientCapacity возвращается, когда в слоте недостаточно
	// свободных единиц; детали - в InsufficientCapacityError
	ErrInsufficientCapacity = errors.New("reserve_slot: insufficient capacity")

	// ErrBusy возвращается, когда транзакция не дождалась блокировки слота
	// Единственный класс ошибок, для которого уместен автоматический повтор
	ErrBusy = errors.New("reserve_slot: slot is busy, try again")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reserve_slot: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reserve_slot: internal error")
)

// InsufficientCapacityError несет точное число оставшихся единиц,
// чтобы вызывающая сторона могла показать "свободно только N"
type InsufficientCapacityError struct {
	Requested int
	Remaining int
}

// Error реализует интерфейс error
func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("reserve_slot: insufficient capacity: %d requested, %d remaining", e.Requested, e.Remaining)
}

// Is делает ошибку совместимой с errors.Is(err, ErrInsufficientCapacity)
func (e *InsufficientCapacityError) Is(target error) bool {
	return target == ErrInsufficientCapacity
}
