package materialize_slots

import "errors"

var (
	// ErrShiftNotFound возвращается, когда смена не найдена
	// либо принадлежит другому тенанту
	ErrShiftNotFound = errors.New("materialize_slots: shift not found")

	// ErrShiftInactive возвращается при попытке материализовать
	// деактивированную смену
	ErrShiftInactive = errors.New("materialize_slots: shift is inactive")

	// ErrServiceNotFound возвращается, когда услуга смены удалена из каталога
	ErrServiceNotFound = errors.New("materialize_slots: owning service not found")

	// ErrServiceArchived возвращается, когда услуга смены архивирована:
	// материализация прерывается без частичной записи
	ErrServiceArchived = errors.New("materialize_slots: owning service is archived")

	// ErrAlreadyRunning возвращается, когда материализация этой смены
	// уже идет на другом инстансе
	ErrAlreadyRunning = errors.New("materialize_slots: materialization already in progress")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("materialize_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("materialize_slots: internal error")
)
