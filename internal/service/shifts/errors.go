package shifts

import "errors"

var (
	// ErrShiftNotFound возвращается, когда смена не найдена
	ErrShiftNotFound = errors.New("shift not found")

	// ErrDuplicateShift возвращается при создании дубликата смены
	ErrDuplicateShift = errors.New("shift already exists")

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("service not found")

	// ErrServiceArchived возвращается при попытке создать смену
	// для архивной услуги
	ErrServiceArchived = errors.New("service is archived")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
