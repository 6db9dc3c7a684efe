package update_shift

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/handlers"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/middleware"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/service/shifts"
)

const (
	msgInvalidShiftID     = "некорректный ID смены"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingTenantID    = "отсутствует ID тенанта"
	msgShiftNotFound      = "смена не найдена"
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

// HandleUpdate PUT /api/v1/shifts/{shiftId}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("PUT /shifts/{id} - Missing tenant ID")
		handlers.RespondUnauthorized(w, msgMissingTenantID)
		return
	}

	vars := mux.Vars(r)
	shiftID, err := strconv.ParseInt(vars["shiftId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /shifts/{id} - Invalid shift ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShiftID)
		return
	}

	var req UpdateShiftRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /shifts/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), req.ToServiceRequest(tenantID, shiftID))
	if err != nil {
		switch {
		case errors.Is(err, shifts.ErrShiftNotFound):
			h.logger.Warn("PUT /shifts/{id} - Shift not found: shift_id=%d, tenant_id=%d", shiftID, tenantID)
			handlers.RespondNotFound(w, msgShiftNotFound)

		case errors.Is(err, shifts.ErrInvalidInput):
			h.logger.Warn("PUT /shifts/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidShift)

		default:
			h.logger.Error("PUT /shifts/{id} - Failed to update shift: shift_id=%d, error=%v", shiftID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /shifts/{id} - Shift updated successfully: shift_id=%d, tenant_id=%d", shiftID, tenantID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleDeactivate DELETE /api/v1/shifts/{shiftId}
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /shifts/{id} - Missing tenant ID")
		handlers.RespondUnauthorized(w, msgMissingTenantID)
		return
	}

	vars := mux.Vars(r)
	shiftID, err := strconv.ParseInt(vars["shiftId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /shifts/{id} - Invalid shift ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShiftID)
		return
	}

	if err := h.service.Deactivate(r.Context(), shiftID, tenantID); err != nil {
		switch {
		case errors.Is(err, shifts.ErrShiftNotFound):
			h.logger.Warn("DELETE /shifts/{id} - Shift not found: shift_id=%d, tenant_id=%d", shiftID, tenantID)
			handlers.RespondNotFound(w, msgShiftNotFound)

		case errors.Is(err, shifts.ErrInvalidInput):
			h.logger.Warn("DELETE /shifts/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidShiftID)

		default:
			h.logger.Error("DELETE /shifts/{id} - Failed to deactivate shift: shift_id=%d, error=%v", shiftID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /shifts/{id} - Shift deactivated successfully: shift_id=%d, tenant_id=%d", shiftID, tenantID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
