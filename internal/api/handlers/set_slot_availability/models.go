package set_slot_availability

import (
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/service/slots/models"
)

// SetAvailabilityRequest модель HTTP-запроса управления доступностью слота
type SetAvailabilityRequest struct {
	IsAvailable *bool `json:"isAvailable"`
}

// ToServiceRequest конвертирует HTTP-запрос в модель сервиса
func (r *SetAvailabilityRequest) ToServiceRequest(tenantID, slotID int64) *models.SetAvailabilityRequest {
	return &models.SetAvailabilityRequest{
		TenantID:    tenantID,
		SlotID:      slotID,
		IsAvailable: *r.IsAvailable,
	}
}
