package check_consistency

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/handlers"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/middleware"
	checkConsistency "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/usecase/check_consistency"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgInvalidTenantID  = "некорректный ID тенанта"
	msgMissingTenantID  = "отсутствует ID тенанта"
	msgBookingNotFound  = "бронирование не найдено"
	msgForbidden        = "доступ запрещен"
)

type Handler struct {
	useCase CheckConsistencyUseCase
	logger  Logger
}

func NewHandler(useCase CheckConsistencyUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// HandleCheck GET /api/v1/bookings/{bookingId}/consistency
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/{id}/consistency - Missing tenant ID")
		handlers.RespondUnauthorized(w, msgMissingTenantID)
		return
	}

	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /bookings/{id}/consistency - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	result, err := h.useCase.Check(r.Context(), &checkConsistency.CheckRequest{
		TenantID:  tenantID,
		BookingID: bookingID,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkConsistency.ErrBookingNotFound):
			h.logger.Warn("GET /bookings/{id}/consistency - Booking not found: booking_id=%d, tenant_id=%d",
				bookingID, tenantID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, checkConsistency.ErrInvalidInput):
			h.logger.Warn("GET /bookings/{id}/consistency - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidBookingID)

		default:
			h.logger.Error("GET /bookings/{id}/consistency - Failed to check booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/{id}/consistency - Check completed: booking_id=%d, consistent=%t",
		bookingID, result.Consistent)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

// HandleScan GET /api/v1/tenants/{tenantId}/consistency
func (h *Handler) HandleScan(w http.ResponseWriter, r *http.Request) {
	ctxTenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("GET /tenants/{id}/consistency - Missing tenant ID")
		handlers.RespondUnauthorized(w, msgMissingTenantID)
		return
	}

	vars := mux.Vars(r)
	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/consistency - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	if tenantID != ctxTenantID {
		h.logger.Warn("GET /tenants/{id}/consistency - Access denied: path_tenant_id=%d, ctx_tenant_id=%d",
			tenantID, ctxTenantID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	result, err := h.useCase.Scan(r.Context(), &checkConsistency.ScanRequest{TenantID: tenantID})
	if err != nil {
		switch {
		case errors.Is(err, checkConsistency.ErrInvalidInput):
			h.logger.Warn("GET /tenants/{id}/consistency - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTenantID)

		default:
			h.logger.Error("GET /tenants/{id}/consistency - Failed to scan tenant: tenant_id=%d, error=%v",
				tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tenants/{id}/consistency - Scan completed: tenant_id=%d, mismatches=%d",
		tenantID, len(result.Mismatches))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
