package check_consistency

import (
	checkConsistency "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/usecase/check_consistency"
)

// MismatchResponse расхождение бронирования с владеющей сменой слота
type MismatchResponse struct {
	BookingID         int64 `json:"bookingId"`
	SlotID            int64 `json:"slotId"`
	ActualServiceID   int64 `json:"actualServiceId"`
	ExpectedServiceID int64 `json:"expectedServiceId"`
}

// ConsistencyResponse модель HTTP-ответа
type ConsistencyResponse struct {
	Consistent bool               `json:"consistent"`
	Mismatches []MismatchResponse `json:"mismatches"`
}

// FromUseCaseResponse конвертирует ответ usecase в HTTP-модель
func FromUseCaseResponse(resp *checkConsistency.Response) *ConsistencyResponse {
	out := &ConsistencyResponse{
		Consistent: resp.Consistent,
		Mismatches: make([]MismatchResponse, 0, len(resp.Mismatches)),
	}
	for _, m := range resp.Mismatches {
		out.Mismatches = append(out.Mismatches, MismatchResponse{
			BookingID:         m.BookingID,
			SlotID:            m.SlotID,
			ActualServiceID:   m.ActualServiceID,
			ExpectedServiceID: m.ExpectedServiceID,
		})
	}
	return out
}
