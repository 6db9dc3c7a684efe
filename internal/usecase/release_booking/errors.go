package release_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	// либо принадлежит другому тенанту
	ErrBookingNotFound = errors.New("release_booking: booking not found")

	// ErrAlreadyCancelled возвращается при повторной отмене бронирования
	ErrAlreadyCancelled = errors.New("release_booking: booking is already cancelled")

	// ErrNotCancellable возвращается, когда статус бронирования
	// не допускает отмену (checked_in, completed)
	ErrNotCancellable = errors.New("release_booking: booking cannot be cancelled in its current status")

	// ErrBusy возвращается, когда транзакция не дождалась блокировки строк
	ErrBusy = errors.New("release_booking: booking is busy, try again")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("release_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("release_booking: internal error")
)
