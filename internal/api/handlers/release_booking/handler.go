package release_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/handlers"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/middleware"
	releaseBooking "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/usecase/release_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingTenantID    = "отсутствует ID тенанта"
	msgNotFound           = "бронирование не найдено"
	msgAlreadyCancelled   = "бронирование уже отменено"
	msgNotCancellable     = "бронирование не может быть отменено"
	msgBusy               = "бронирование занято, повторите запрос"
)

type Handler struct {
	useCase ReleaseBookingUseCase
	logger  Logger
}

func NewHandler(useCase ReleaseBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Missing tenant ID")
		handlers.RespondUnauthorized(w, msgMissingTenantID)
		return
	}

	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	// Body опционален: отмена без причины - валидный запрос
	var req ReleaseBookingRequest
	if r.ContentLength > 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(tenantID, bookingID))
	if err != nil {
		switch {
		case errors.Is(err, releaseBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Booking not found: booking_id=%d, tenant_id=%d", bookingID, tenantID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, releaseBooking.ErrAlreadyCancelled):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Already cancelled: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyCancelled)

		case errors.Is(err, releaseBooking.ErrNotCancellable):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Cannot cancel: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgNotCancellable)

		case errors.Is(err, releaseBooking.ErrBusy):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Booking busy: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgBusy)

		case errors.Is(err, releaseBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed to cancel booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Booking cancelled successfully: booking_id=%d, slot_id=%d, tenant_id=%d",
		result.BookingID, result.SlotID, tenantID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
