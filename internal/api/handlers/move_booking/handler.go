package move_booking

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/handlers"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/middleware"
	moveBooking "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/usecase/move_booking"
)

const (
	msgInvalidBookingID      = "некорректный ID бронирования"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgMissingTenantID       = "отсутствует ID тенанта"
	msgBookingNotFound       = "бронирование не найдено"
	msgNotMovable            = "бронирование не может быть перенесено"
	msgTargetSlotNotFound    = "целевой слот не найден"
	msgTargetSlotUnavailable = "целевой слот закрыт для бронирования"
	msgServiceMismatch       = "целевой слот принадлежит другой услуге"
	msgBusy                  = "слоты заняты, повторите запрос"
)

type Handler struct {
	useCase MoveBookingUseCase
	logger  Logger
}

func NewHandler(useCase MoveBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/move
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/move - Missing tenant ID")
		handlers.RespondUnauthorized(w, msgMissingTenantID)
		return
	}

	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/move - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req MoveBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/move - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(tenantID, bookingID))
	if err != nil {
		var capErr *moveBooking.InsufficientCapacityError

		switch {
		case errors.As(err, &capErr):
			h.logger.Warn("PATCH /bookings/{id}/move - Insufficient capacity: booking_id=%d, target_slot_id=%d, requested=%d, remaining=%d",
				bookingID, req.TargetSlotID, capErr.Requested, capErr.Remaining)
			handlers.RespondJSON(w, http.StatusConflict, map[string]interface{}{
				"error":             fmt.Sprintf("недостаточно мест в целевом слоте: запрошено %d, свободно %d", capErr.Requested, capErr.Remaining),
				"requestedUnits":    capErr.Requested,
				"remainingCapacity": capErr.Remaining,
			})

		case errors.Is(err, moveBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/move - Booking not found: booking_id=%d, tenant_id=%d", bookingID, tenantID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, moveBooking.ErrNotMovable):
			h.logger.Warn("PATCH /bookings/{id}/move - Booking not movable: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgNotMovable)

		case errors.Is(err, moveBooking.ErrTargetSlotNotFound):
			h.logger.Warn("PATCH /bookings/{id}/move - Target slot not found: target_slot_id=%d", req.TargetSlotID)
			handlers.RespondNotFound(w, msgTargetSlotNotFound)

		case errors.Is(err, moveBooking.ErrTargetSlotUnavailable):
			h.logger.Warn("PATCH /bookings/{id}/move - Target slot unavailable: target_slot_id=%d", req.TargetSlotID)
			handlers.RespondError(w, http.StatusConflict, msgTargetSlotUnavailable)

		case errors.Is(err, moveBooking.ErrServiceMismatch):
			h.logger.Warn("PATCH /bookings/{id}/move - Service mismatch: booking_id=%d, target_slot_id=%d",
				bookingID, req.TargetSlotID)
			handlers.RespondError(w, http.StatusConflict, msgServiceMismatch)

		case errors.Is(err, moveBooking.ErrBusy):
			h.logger.Warn("PATCH /bookings/{id}/move - Slots busy: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgBusy)

		case errors.Is(err, moveBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/move - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /bookings/{id}/move - Failed to move booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/move - Booking moved successfully: booking_id=%d, prev_slot_id=%d, slot_id=%d, tenant_id=%d",
		result.BookingID, result.PrevSlotID, result.SlotID, tenantID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
