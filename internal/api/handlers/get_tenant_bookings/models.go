package get_tenant_bookings

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(
	tenantID int64,
	serviceIDStr string,
	slotIDStr string,
	statusStr string,
	fromStr string,
	toStr string,
	includeInactiveStr string,
) (*models.GetTenantBookingsRequest, error) {
	req := &models.GetTenantBookingsRequest{
		TenantID:        tenantID,
		IncludeInactive: false, // По умолчанию только активные
	}

	// Парсим serviceId если указан
	if serviceIDStr != "" {
		serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ServiceID = &serviceID
	}

	// Парсим slotId если указан
	if slotIDStr != "" {
		slotID, err := strconv.ParseInt(slotIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.SlotID = &slotID
	}

	// Парсим status если указан
	if statusStr != "" {
		req.Status = &statusStr
	}

	// Парсим период по дате слота если указан
	if fromStr != "" {
		from, err := time.Parse(domain.DateFormat, fromStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &from
	}
	if toStr != "" {
		to, err := time.Parse(domain.DateFormat, toStr)
		if err != nil {
			return nil, err
		}
		req.EndDate = &to
	}

	// Парсим includeInactive если указан
	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
