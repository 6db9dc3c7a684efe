package sync_capacity

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("sync_capacity: service not found")

	// ErrInvalidCapacity возвращается, когда каталог вернул
	// неположительную вместимость
	ErrInvalidCapacity = errors.New("sync_capacity: service capacity must be positive")

	// ErrAlreadyRunning возвращается, когда ресинк этой услуги
	// уже идет на другом инстансе
	ErrAlreadyRunning = errors.New("sync_capacity: synchronization already in progress")

	// ErrBusy возвращается, когда транзакция не дождалась блокировки слотов
	ErrBusy = errors.New("sync_capacity: slots are busy, try again")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("sync_capacity: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("sync_capacity: internal error")
)
