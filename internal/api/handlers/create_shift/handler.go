package create_shift

import (
	"errors"
	"net/http"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/handlers"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/middleware"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/service/shifts"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingTenantID    = "отсутствует ID тенанта"
	msgServiceNotFound    = "услуга не найдена"
	msgServiceArchived    = "услуга архивирована"
	msgDuplicateShift     = "смена с таким расписанием уже существует"
	msgInvalidShift       = "некорректные параметры смены"
)

type Handler struct {
	service ShiftService
	logger  Logger
}

func NewHandler(service ShiftService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/shifts
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("POST /shifts - Missing tenant ID")
		handlers.RespondUnauthorized(w, msgMissingTenantID)
		return
	}

	var req CreateShiftRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /shifts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), req.ToServiceRequest(tenantID))
	if err != nil {
		switch {
		case errors.Is(err, shifts.ErrServiceNotFound):
			h.logger.Warn("POST /shifts - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, shifts.ErrServiceArchived):
			h.logger.Warn("POST /shifts - Service archived: service_id=%d", req.ServiceID)
			handlers.RespondError(w, http.StatusConflict, msgServiceArchived)

		case errors.Is(err, shifts.ErrDuplicateShift):
			h.logger.Warn("POST /shifts - Duplicate shift: service_id=%d", req.ServiceID)
			handlers.RespondError(w, http.StatusConflict, msgDuplicateShift)

		case errors.Is(err, shifts.ErrInvalidInput):
			h.logger.Warn("POST /shifts - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidShift)

		default:
			h.logger.Error("POST /shifts - Failed to create shift: service_id=%d, error=%v", req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /shifts - Shift created successfully: shift_id=%d, service_id=%d, tenant_id=%d",
		result.ID, result.ServiceID, tenantID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
