package set_slot_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/handlers"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/middleware"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/service/slots"
)

const (
	msgInvalidSlotID      = "некорректный ID слота"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingTenantID    = "отсутствует ID тенанта"
	msgSlotNotFound       = "слот не найден"
	msgSlotStarted        = "слот уже начался"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/slots/{slotId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /slots/{id}/availability - Missing tenant ID")
		handlers.RespondUnauthorized(w, msgMissingTenantID)
		return
	}

	vars := mux.Vars(r)
	slotID, err := strconv.ParseInt(vars["slotId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /slots/{id}/availability - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req SetAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /slots/{id}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.IsAvailable == nil {
		h.logger.Warn("PATCH /slots/{id}/availability - Missing isAvailable field")
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.SetAvailability(r.Context(), req.ToServiceRequest(tenantID, slotID))
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrSlotNotFound):
			h.logger.Warn("PATCH /slots/{id}/availability - Slot not found: slot_id=%d, tenant_id=%d",
				slotID, tenantID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, slots.ErrSlotStarted):
			h.logger.Warn("PATCH /slots/{id}/availability - Slot already started: slot_id=%d", slotID)
			handlers.RespondError(w, http.StatusConflict, msgSlotStarted)

		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("PATCH /slots/{id}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSlotID)

		default:
			h.logger.Error("PATCH /slots/{id}/availability - Failed to update slot: slot_id=%d, error=%v",
				slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /slots/{id}/availability - Slot updated successfully: slot_id=%d, available=%t",
		result.ID, result.IsAvailable)
	handlers.RespondJSON(w, http.StatusOK, result)
}
