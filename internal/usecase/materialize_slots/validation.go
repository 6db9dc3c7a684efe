package materialize_slots

import (
	"fmt"
	"time"
)

// validateRequest проверяет входные данные запроса на материализацию.
// Горизонт ограничен, чтобы одна смена не могла раздуть таблицу слотов
func validateRequest(req *Request, now time.Time, maxHorizonDays int) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenant_id must be positive", ErrInvalidInput)
	}

	if req.ShiftID <= 0 {
		return fmt.Errorf("%w: shift_id must be positive", ErrInvalidInput)
	}

	if req.FromDate.IsZero() || req.ToDate.IsZero() {
		return fmt.Errorf("%w: from_date and to_date are required", ErrInvalidInput)
	}

	if req.ToDate.Before(req.FromDate) {
		return fmt.Errorf("%w: to_date must not precede from_date", ErrInvalidInput)
	}

	if int(req.ToDate.Sub(req.FromDate).Hours()/24) > maxHorizonDays {
		return fmt.Errorf("%w: date range exceeds %d days", ErrInvalidInput, maxHorizonDays)
	}

	horizon := now.AddDate(0, 0, maxHorizonDays)
	if req.ToDate.After(horizon) {
		return fmt.Errorf("%w: to_date is beyond the %d day horizon", ErrInvalidInput, maxHorizonDays)
	}

	return nil
}
