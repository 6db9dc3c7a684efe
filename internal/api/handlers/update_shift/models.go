package update_shift

import (
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/service/shifts/models"
)

// UpdateShiftRequest модель HTTP-запроса изменения смены.
// Поля опциональны: меняется только то, что передано
type UpdateShiftRequest struct {
	DaysOfWeek []int   `json:"daysOfWeek,omitempty"`
	StartTime  *string `json:"startTime,omitempty"` // HH:MM
	EndTime    *string `json:"endTime,omitempty"`   // HH:MM
}

// ToServiceRequest конвертирует HTTP-запрос в модель сервиса
func (r *UpdateShiftRequest) ToServiceRequest(tenantID, shiftID int64) *models.UpdateShiftRequest {
	return &models.UpdateShiftRequest{
		TenantID:   tenantID,
		ShiftID:    shiftID,
		DaysOfWeek: r.DaysOfWeek,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
	}
}
