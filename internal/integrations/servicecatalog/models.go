package servicecatalog

// Service модель услуги из каталога
type Service struct {
	ID              int64  `json:"id"`
	TenantID        int64  `json:"tenant_id"`
	Name            string `json:"name"`
	CapacityPerSlot int    `json:"capacity_per_slot"`
	DurationMinutes int    `json:"duration_minutes"`
	IsActive        bool   `json:"is_active"`
}

// ErrorResponse модель ошибки от каталога услуг
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
