package sync_capacity

import (
	syncCapacity "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/usecase/sync_capacity"
)

// SyncCapacityResponse модель HTTP-ответа синхронизации
type SyncCapacityResponse struct {
	ServiceID      int64   `json:"serviceId"`
	NewCapacity    int     `json:"newCapacity"`
	ScannedCount   int     `json:"scannedCount"`
	UpdatedCount   int     `json:"updatedCount"`
	ClampedCount   int     `json:"clampedCount"`
	ClampedSlotIDs []int64 `json:"clampedSlotIds,omitempty"`
}

// FromUseCaseResponse конвертирует ответ usecase в HTTP-модель
func FromUseCaseResponse(resp *syncCapacity.Response) *SyncCapacityResponse {
	return &SyncCapacityResponse{
		ServiceID:      resp.ServiceID,
		NewCapacity:    resp.NewCapacity,
		ScannedCount:   resp.ScannedCount,
		UpdatedCount:   resp.UpdatedCount,
		ClampedCount:   resp.ClampedCount,
		ClampedSlotIDs: resp.ClampedSlotIDs,
	}
}
