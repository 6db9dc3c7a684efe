package check_consistency

// Mismatch описывает расхождение услуги бронирования с услугой,
// которой сейчас принадлежит смена его слота
type Mismatch struct {
	BookingID         int64
	SlotID            int64
	ActualServiceID   int64 // услуга, записанная в бронировании
	ExpectedServiceID int64 // услуга владеющей смены слота
}

// CheckRequest модель запроса проверки одного бронирования
type CheckRequest struct {
	TenantID  int64 // ID тенанта
	BookingID int64 // ID бронирования
}

// ScanRequest модель запроса сканирования всех бронирований тенанта
type ScanRequest struct {
	TenantID int64 // ID тенанта
}

// Response модель результата проверки
type Response struct {
	Consistent bool
	Mismatches []Mismatch
}
