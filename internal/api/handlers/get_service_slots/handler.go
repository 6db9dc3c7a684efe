package get_service_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/handlers"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/service/slots"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgInvalidParams    = "некорректные параметры запроса"
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

// Handle GET /api/v1/services/{serviceId}/slots
// Query params: from, to (YYYY-MM-DD, обязательные)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /services/{id}/slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(serviceID, query.Get("from"), query.Get("to"))
	if err != nil {
		h.logger.Warn("GET /services/{id}/slots - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetServiceSlots(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("GET /services/{id}/slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /services/{id}/slots - Failed to get slots: service_id=%d, error=%v",
				serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /services/{id}/slots - Slots retrieved successfully: service_id=%d, count=%d",
		serviceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
