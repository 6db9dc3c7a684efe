package reserve_slot

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/handlers"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/middleware"
	reserveSlot "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/usecase/reserve_slot"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingTenantID    = "отсутствует ID тенанта"
	msgSlotNotFound       = "слот не найден"
	msgSlotUnavailable    = "слот закрыт для бронирования"
	msgSlotBusy           = "слот занят, повторите запрос"
	msgInvalidInput       = "некорректные параметры бронирования"
)

type Handler struct {
	useCase ReserveSlotUseCase
	logger  Logger
}

func NewHandler(useCase ReserveSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing tenant ID")
		handlers.RespondUnauthorized(w, msgMissingTenantID)
		return
	}

	var req ReserveSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(tenantID))
	if err != nil {
		var capErr *reserveSlot.InsufficientCapacityError

		switch {
		case errors.As(err, &capErr):
			// Точный остаток уходит клиенту: UI показывает "свободно N"
			h.logger.Warn("POST /bookings - Insufficient capacity: slot_id=%d, requested=%d, remaining=%d",
				req.SlotID, capErr.Requested, capErr.Remaining)
			handlers.RespondJSON(w, http.StatusConflict, map[string]interface{}{
				"error":             fmt.Sprintf("недостаточно мест: запрошено %d, свободно %d", capErr.Requested, capErr.Remaining),
				"requestedUnits":    capErr.Requested,
				"remainingCapacity": capErr.Remaining,
			})

		case errors.Is(err, reserveSlot.ErrSlotNotFound):
			h.logger.Warn("POST /bookings - Slot not found: slot_id=%d", req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, reserveSlot.ErrSlotUnavailable):
			h.logger.Warn("POST /bookings - Slot unavailable: slot_id=%d", req.SlotID)
			handlers.RespondError(w, http.StatusConflict, msgSlotUnavailable)

		case errors.Is(err, reserveSlot.ErrBusy):
			h.logger.Warn("POST /bookings - Slot busy: slot_id=%d", req.SlotID)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgSlotBusy)

		case errors.Is(err, reserveSlot.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to reserve slot: slot_id=%d, error=%v", req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, slot_id=%d, tenant_id=%d",
		result.BookingID, result.SlotID, tenantID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
