package move_booking

import (
	"fmt"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
)

// validateRequest проверяет входные данные запроса на перенос
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenant_id must be positive", ErrInvalidInput)
	}

	if req.BookingID <= 0 {
		return fmt.Errorf("%w: booking_id must be positive", ErrInvalidInput)
	}

	if req.TargetSlotID <= 0 {
		return fmt.Errorf("%w: target_slot_id must be positive", ErrInvalidInput)
	}

	if req.NewVisitorCount != nil {
		if *req.NewVisitorCount < domain.MinVisitorCount {
			return fmt.Errorf("%w: visitor_count must be at least %d", ErrInvalidInput, domain.MinVisitorCount)
		}
		if *req.NewVisitorCount > domain.MaxVisitorCount {
			return fmt.Errorf("%w: visitor_count must not exceed %d", ErrInvalidInput, domain.MaxVisitorCount)
		}
	}

	return nil
}
