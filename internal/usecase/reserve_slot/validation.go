package reserve_slot

import (
	"fmt"
	"strings"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
)

const maxNotesLength = domain.MaxNotesLength

// validateRequest проверяет входные данные запроса на резервирование
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenant_id must be positive", ErrInvalidInput)
	}

	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slot_id must be positive", ErrInvalidInput)
	}

	if req.VisitorCount < domain.MinVisitorCount {
		return fmt.Errorf("%w: visitor_count must be at least %d", ErrInvalidInput, domain.MinVisitorCount)
	}

	if req.VisitorCount > domain.MaxVisitorCount {
		return fmt.Errorf("%w: visitor_count must not exceed %d", ErrInvalidInput, domain.MaxVisitorCount)
	}

	if strings.TrimSpace(req.CustomerName) == "" {
		return fmt.Errorf("%w: customer_name is required", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > maxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, maxNotesLength)
	}

	return nil
}
