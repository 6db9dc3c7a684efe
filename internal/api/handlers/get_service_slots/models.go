package get_service_slots

import (
	"time"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/service/slots/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(serviceID int64, fromStr, toStr string) (*models.GetServiceSlotsRequest, error) {
	from, err := time.Parse(domain.DateFormat, fromStr)
	if err != nil {
		return nil, err
	}
	to, err := time.Parse(domain.DateFormat, toStr)
	if err != nil {
		return nil, err
	}

	return &models.GetServiceSlotsRequest{
		ServiceID: serviceID,
		FromDate:  from,
		ToDate:    to,
	}, nil
}
