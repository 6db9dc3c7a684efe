package materialize_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/handlers"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/middleware"
	materializeSlots "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/usecase/materialize_slots"
)

const (
	msgInvalidShiftID     = "некорректный ID смены"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingTenantID    = "отсутствует ID тенанта"
	msgShiftNotFound      = "смена не найдена"
	msgShiftInactive      = "смена деактивирована"
	msgServiceNotFound    = "услуга не найдена"
	msgServiceArchived    = "услуга архивирована"
	msgAlreadyRunning     = "материализация смены уже выполняется"
	msgInvalidRange       = "некорректный диапазон дат"
)

type Handler struct {
	useCase MaterializeSlotsUseCase
	logger  Logger
}

func NewHandler(useCase MaterializeSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/shifts/{shiftId}/materialize
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("POST /shifts/{id}/materialize - Missing tenant ID")
		handlers.RespondUnauthorized(w, msgMissingTenantID)
		return
	}

	vars := mux.Vars(r)
	shiftID, err := strconv.ParseInt(vars["shiftId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /shifts/{id}/materialize - Invalid shift ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShiftID)
		return
	}

	var req MaterializeSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /shifts/{id}/materialize - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	ucReq, err := req.ToUseCaseRequest(tenantID, shiftID)
	if err != nil {
		h.logger.Warn("POST /shifts/{id}/materialize - Invalid dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}

	result, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		switch {
		case errors.Is(err, materializeSlots.ErrShiftNotFound):
			h.logger.Warn("POST /shifts/{id}/materialize - Shift not found: shift_id=%d, tenant_id=%d",
				shiftID, tenantID)
			handlers.RespondNotFound(w, msgShiftNotFound)

		case errors.Is(err, materializeSlots.ErrShiftInactive):
			h.logger.Warn("POST /shifts/{id}/materialize - Shift inactive: shift_id=%d", shiftID)
			handlers.RespondError(w, http.StatusConflict, msgShiftInactive)

		case errors.Is(err, materializeSlots.ErrServiceNotFound):
			h.logger.Warn("POST /shifts/{id}/materialize - Service not found: shift_id=%d", shiftID)
			handlers.RespondError(w, http.StatusConflict, msgServiceNotFound)

		case errors.Is(err, materializeSlots.ErrServiceArchived):
			h.logger.Warn("POST /shifts/{id}/materialize - Service archived: shift_id=%d", shiftID)
			handlers.RespondError(w, http.StatusConflict, msgServiceArchived)

		case errors.Is(err, materializeSlots.ErrAlreadyRunning):
			h.logger.Warn("POST /shifts/{id}/materialize - Already running: shift_id=%d", shiftID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyRunning)

		case errors.Is(err, materializeSlots.ErrInvalidInput):
			h.logger.Warn("POST /shifts/{id}/materialize - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		default:
			h.logger.Error("POST /shifts/{id}/materialize - Failed to materialize slots: shift_id=%d, error=%v",
				shiftID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /shifts/{id}/materialize - Materialization completed: shift_id=%d, created=%d, planned=%d",
		result.ShiftID, result.CreatedCount, result.PlannedCount)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
