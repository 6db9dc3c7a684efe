package sync_capacity

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/handlers"
	syncCapacity "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/usecase/sync_capacity"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgServiceNotFound  = "услуга не найдена"
	msgInvalidCapacity  = "некорректная вместимость услуги в каталоге"
	msgAlreadyRunning   = "синхронизация услуги уже выполняется"
	msgBusy             = "слоты заняты, повторите запрос"
)

type Handler struct {
	useCase SyncCapacityUseCase
	logger  Logger
}

func NewHandler(useCase SyncCapacityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/services/{serviceId}/capacity-sync
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /services/{id}/capacity-sync - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &syncCapacity.Request{ServiceID: serviceID})
	if err != nil {
		switch {
		case errors.Is(err, syncCapacity.ErrServiceNotFound):
			h.logger.Warn("POST /services/{id}/capacity-sync - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, syncCapacity.ErrInvalidCapacity):
			h.logger.Warn("POST /services/{id}/capacity-sync - Invalid capacity: service_id=%d", serviceID)
			handlers.RespondError(w, http.StatusConflict, msgInvalidCapacity)

		case errors.Is(err, syncCapacity.ErrAlreadyRunning):
			h.logger.Warn("POST /services/{id}/capacity-sync - Already running: service_id=%d", serviceID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyRunning)

		case errors.Is(err, syncCapacity.ErrBusy):
			h.logger.Warn("POST /services/{id}/capacity-sync - Slots busy: service_id=%d", serviceID)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgBusy)

		case errors.Is(err, syncCapacity.ErrInvalidInput):
			h.logger.Warn("POST /services/{id}/capacity-sync - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceID)

		default:
			h.logger.Error("POST /services/{id}/capacity-sync - Failed to sync capacity: service_id=%d, error=%v",
				serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /services/{id}/capacity-sync - Sync completed: service_id=%d, scanned=%d, updated=%d, clamped=%d",
		result.ServiceID, result.ScannedCount, result.UpdatedCount, result.ClampedCount)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
