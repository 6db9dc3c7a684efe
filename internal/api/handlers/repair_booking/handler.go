package repair_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/handlers"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/middleware"
	repairBooking "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/usecase/repair_booking"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgInvalidTenantID  = "некорректный ID тенанта"
	msgMissingTenantID  = "отсутствует ID тенанта"
	msgBookingNotFound  = "бронирование не найдено"
	msgBusy             = "бронирование занято, повторите запрос"
	msgForbidden        = "доступ запрещен"
)

type Handler struct {
	useCase RepairBookingUseCase
	logger  Logger
}

func NewHandler(useCase RepairBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/consistency/repair
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/consistency/repair - Missing tenant ID")
		handlers.RespondUnauthorized(w, msgMissingTenantID)
		return
	}

	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/consistency/repair - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &repairBooking.Request{
		TenantID:  tenantID,
		BookingID: bookingID,
	})
	if err != nil {
		switch {
		case errors.Is(err, repairBooking.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/consistency/repair - Booking not found: booking_id=%d, tenant_id=%d",
				bookingID, tenantID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, repairBooking.ErrBusy):
			h.logger.Warn("POST /bookings/{id}/consistency/repair - Booking busy: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgBusy)

		case errors.Is(err, repairBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/consistency/repair - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidBookingID)

		default:
			h.logger.Error("POST /bookings/{id}/consistency/repair - Failed to repair booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/consistency/repair - Repair completed: booking_id=%d, repaired=%t",
		result.BookingID, result.Repaired)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

// HandleTenant POST /api/v1/tenants/{tenantId}/consistency/repair
func (h *Handler) HandleTenant(w http.ResponseWriter, r *http.Request) {
	ctxTenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("POST /tenants/{id}/consistency/repair - Missing tenant ID")
		handlers.RespondUnauthorized(w, msgMissingTenantID)
		return
	}

	vars := mux.Vars(r)
	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /tenants/{id}/consistency/repair - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	if tenantID != ctxTenantID {
		h.logger.Warn("POST /tenants/{id}/consistency/repair - Access denied: path_tenant_id=%d, ctx_tenant_id=%d",
			tenantID, ctxTenantID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	result, err := h.useCase.ExecuteTenant(r.Context(), &repairBooking.TenantRequest{TenantID: tenantID})
	if err != nil {
		switch {
		case errors.Is(err, repairBooking.ErrInvalidInput):
			h.logger.Warn("POST /tenants/{id}/consistency/repair - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTenantID)

		default:
			h.logger.Error("POST /tenants/{id}/consistency/repair - Failed to repair tenant: tenant_id=%d, error=%v",
				tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /tenants/{id}/consistency/repair - Repair completed: tenant_id=%d, mismatched=%d, repaired=%d, failed=%d",
		tenantID, result.MismatchCount, result.RepairedCount, result.FailedCount)
	handlers.RespondJSON(w, http.StatusOK, FromTenantUseCaseResponse(result))
}
