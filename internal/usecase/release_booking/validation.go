package release_booking

import "fmt"

// validateRequest проверяет входные данные запроса на отмену
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenant_id must be positive", ErrInvalidInput)
	}

	if req.BookingID <= 0 {
		return fmt.Errorf("%w: booking_id must be positive", ErrInvalidInput)
	}

	if req.Reason != nil && len(*req.Reason) > maxReasonLength {
		return fmt.Errorf("%w: reason must not exceed %d characters", ErrInvalidInput, maxReasonLength)
	}

	return nil
}
