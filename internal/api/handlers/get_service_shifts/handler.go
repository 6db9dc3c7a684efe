package get_service_shifts

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/handlers"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/service/shifts"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgInvalidParams    = "некорректные параметры запроса"
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

// Handle GET /api/v1/services/{serviceId}/shifts
// Query params: includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /services/{id}/shifts - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	// По умолчанию только активные смены
	activeOnly := true
	if includeInactiveStr := r.URL.Query().Get("includeInactive"); includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			h.logger.Warn("GET /services/{id}/shifts - Invalid includeInactive: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		activeOnly = !includeInactive
	}

	result, err := h.service.ListByService(r.Context(), serviceID, activeOnly)
	if err != nil {
		switch {
		case errors.Is(err, shifts.ErrInvalidInput):
			h.logger.Warn("GET /services/{id}/shifts - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceID)

		default:
			h.logger.Error("GET /services/{id}/shifts - Failed to get shifts: service_id=%d, error=%v",
				serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /services/{id}/shifts - Shifts retrieved successfully: service_id=%d, count=%d",
		serviceID, len(result.Shifts))
	handlers.RespondJSON(w, http.StatusOK, result)
}
