package create_shift

import (
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/service/shifts/models"
)

// CreateShiftRequest модель HTTP-запроса создания смены
type CreateShiftRequest struct {
	ServiceID  int64  `json:"serviceId"`
	DaysOfWeek []int  `json:"daysOfWeek"`
	StartTime  string `json:"startTime"` // HH:MM
	EndTime    string `json:"endTime"`   // HH:MM
}

// ToServiceRequest конвертирует HTTP-запрос в модель сервиса
func (r *CreateShiftRequest) ToServiceRequest(tenantID int64) *models.CreateShiftRequest {
	return &models.CreateShiftRequest{
		TenantID:   tenantID,
		ServiceID:  r.ServiceID,
		DaysOfWeek: r.DaysOfWeek,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
	}
}
