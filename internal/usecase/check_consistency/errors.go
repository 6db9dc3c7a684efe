package check_consistency

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	// либо принадлежит другому тенанту
	ErrBookingNotFound = errors.New("check_consistency: booking not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("check_consistency: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("check_consistency: internal error")
)
