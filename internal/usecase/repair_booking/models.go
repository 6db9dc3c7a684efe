package repair_booking

// Request модель запроса на ремонт услуги бронирования
type Request struct {
	TenantID  int64 // ID тенанта
	BookingID int64 // ID бронирования
}

// Response модель результата ремонта
type Response struct {
	BookingID int64
	Repaired  bool // false - бронирование уже было консистентно

	PrevServiceID int64 // услуга до ремонта
	ServiceID     int64 // услуга после ремонта (владелец смены слота)
}

// TenantRequest модель запроса на пакетный ремонт всех бронирований тенанта
type TenantRequest struct {
	TenantID int64 // ID тенанта
}

// TenantResponse модель результата пакетного ремонта
type TenantResponse struct {
	TenantID      int64
	MismatchCount int // число найденных расхождений
	RepairedCount int // число успешно отремонтированных бронирований
	FailedCount   int // число бронирований, ремонт которых не удался

	Repaired []*Response
}
