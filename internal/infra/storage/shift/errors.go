package shift

import "errors"

var (
	// ErrShiftNotFound возвращается, когда смена не найдена
	ErrShiftNotFound = errors.New("shift.repository: shift not found")

	// ErrDuplicateShift возвращается при попытке создать дубликат смены
	ErrDuplicateShift = errors.New("shift.repository: duplicate shift")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("shift.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("shift.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("shift.repository: failed to scan row")
)
