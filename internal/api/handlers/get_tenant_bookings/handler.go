package get_tenant_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/handlers"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/middleware"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/service/bookings"
)

const (
	msgInvalidTenantID = "некорректный ID тенанта"
	msgMissingTenantID = "отсутствует ID тенанта"
	msgInvalidParams   = "некорректные параметры запроса"
	msgForbidden       = "доступ запрещен"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/bookings
// Query params: serviceId, slotId, status, from, to, includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем tenantId из URL
	vars := mux.Vars(r)
	tenantIDStr := vars["tenantId"]

	tenantID, err := strconv.ParseInt(tenantIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/bookings - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	// Тенант из контекста (через middleware Auth)
	ctxTenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("GET /tenants/{id}/bookings - Missing tenant ID")
		handlers.RespondUnauthorized(w, msgMissingTenantID)
		return
	}

	// Тенант видит только собственные бронирования
	if tenantID != ctxTenantID {
		h.logger.Warn("GET /tenants/{id}/bookings - Access denied: path_tenant_id=%d, ctx_tenant_id=%d",
			tenantID, ctxTenantID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	// Получаем опциональные query параметры
	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(
		tenantID,
		query.Get("serviceId"),
		query.Get("slotId"),
		query.Get("status"),
		query.Get("from"),
		query.Get("to"),
		query.Get("includeInactive"),
	)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetTenantBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidStatus), errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /tenants/{id}/bookings - Invalid parameters: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /tenants/{id}/bookings - Failed to get bookings: tenant_id=%d, error=%v",
				tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tenants/{id}/bookings - Bookings retrieved successfully: tenant_id=%d, count=%d",
		tenantID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
