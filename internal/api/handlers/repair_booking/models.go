package repair_booking

import (
	repairBooking "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/usecase/repair_booking"
)

// RepairedBookingResponse модель HTTP-ответа
type RepairedBookingResponse struct {
	BookingID     int64 `json:"bookingId"`
	Repaired      bool  `json:"repaired"`
	PrevServiceID int64 `json:"prevServiceId"`
	ServiceID     int64 `json:"serviceId"`
}

// FromUseCaseResponse конвертирует ответ usecase в HTTP-модель
func FromUseCaseResponse(resp *repairBooking.Response) *RepairedBookingResponse {
	return &RepairedBookingResponse{
		BookingID:     resp.BookingID,
		Repaired:      resp.Repaired,
		PrevServiceID: resp.PrevServiceID,
		ServiceID:     resp.ServiceID,
	}
}

// TenantRepairResponse модель HTTP-ответа пакетного ремонта
type TenantRepairResponse struct {
	TenantID      int64 `json:"tenantId"`
	MismatchCount int   `json:"mismatchCount"`
	RepairedCount int   `json:"repairedCount"`
	FailedCount   int   `json:"failedCount"`

	Repaired []*RepairedBookingResponse `json:"repaired"`
}

// FromTenantUseCaseResponse конвертирует ответ пакетного ремонта в HTTP-модель
func FromTenantUseCaseResponse(resp *repairBooking.TenantResponse) *TenantRepairResponse {
	repaired := make([]*RepairedBookingResponse, 0, len(resp.Repaired))
	for _, r := range resp.Repaired {
		repaired = append(repaired, FromUseCaseResponse(r))
	}

	return &TenantRepairResponse{
		TenantID:      resp.TenantID,
		MismatchCount: resp.MismatchCount,
		RepairedCount: resp.RepairedCount,
		FailedCount:   resp.FailedCount,
		Repaired:      repaired,
	}
}
