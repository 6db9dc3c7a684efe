package repair_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	// либо принадлежит другому тенанту
	ErrBookingNotFound = errors.New("repair_booking: booking not found")

	// ErrBusy возвращается, когда транзакция не дождалась блокировки строки
	ErrBusy = errors.New("repair_booking: booking is busy, try again")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("repair_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("repair_booking: internal error")
)
