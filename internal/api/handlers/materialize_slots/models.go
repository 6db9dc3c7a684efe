package materialize_slots

import (
	"time"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
	materializeSlots "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/usecase/materialize_slots"
)

// MaterializeSlotsRequest модель HTTP-запроса материализации
type MaterializeSlotsRequest struct {
	FromDate string `json:"fromDate"` // YYYY-MM-DD
	ToDate   string `json:"toDate"`   // YYYY-MM-DD
}

// ToUseCaseRequest конвертирует HTTP-запрос в модель usecase
func (r *MaterializeSlotsRequest) ToUseCaseRequest(tenantID, shiftID int64) (*materializeSlots.Request, error) {
	from, err := time.Parse(domain.DateFormat, r.FromDate)
	if err != nil {
		return nil, err
	}
	to, err := time.Parse(domain.DateFormat, r.ToDate)
	if err != nil {
		return nil, err
	}

	return &materializeSlots.Request{
		TenantID: tenantID,
		ShiftID:  shiftID,
		FromDate: from,
		ToDate:   to,
	}, nil
}

// MaterializeSlotsResponse модель HTTP-ответа
type MaterializeSlotsResponse struct {
	ShiftID      int64 `json:"shiftId"`
	ServiceID    int64 `json:"serviceId"`
	CreatedCount int64 `json:"createdCount"`
	PlannedCount int   `json:"plannedCount"`
}

// FromUseCaseResponse конвертирует ответ usecase в HTTP-модель
func FromUseCaseResponse(resp *materializeSlots.Response) *MaterializeSlotsResponse {
	return &MaterializeSlotsResponse{
		ShiftID:      resp.ShiftID,
		ServiceID:    resp.ServiceID,
		CreatedCount: resp.CreatedCount,
		PlannedCount: resp.PlannedCount,
	}
}
