package materialize_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
	shiftRepo "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/infra/storage/shift"
	catalog "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/integrations/servicecatalog"
)

// DefaultLockTTL время жизни advisory-блокировки запуска материализации
const DefaultLockTTL = 2 * time.Minute

// UseCase use case для материализации слотов из недельного паттерна смены
type UseCase struct {
	shiftRepo      ShiftRepository
	slotRepo       SlotRepository
	catalogClient  ServiceCatalogClient
	locker         Locker
	timeProvider   TimeProvider
	maxHorizonDays int
	lockTTL        time.Duration
	logger         Logger
}

// Option настройка use case
type Option func(*UseCase)

// WithLockTTL задает время жизни advisory-блокировки запуска
func WithLockTTL(ttl time.Duration) Option {
	return func(uc *UseCase) {
		if ttl > 0 {
			uc.lockTTL = ttl
		}
	}
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	shiftRepo ShiftRepository,
	slotRepo SlotRepository,
	catalogClient ServiceCatalogClient,
	locker Locker,
	maxHorizonDays int,
	logger Logger,
	opts ...Option,
) *UseCase {
	if maxHorizonDays <= 0 || maxHorizonDays > domain.MaxMaterializeHorizonDays {
		maxHorizonDays = domain.MaxMaterializeHorizonDays
	}
	uc := &UseCase{
		shiftRepo:      shiftRepo,
		slotRepo:       slotRepo,
		catalogClient:  catalogClient,
		locker:         locker,
		timeProvider:   &RealTimeProvider{},
		maxHorizonDays: maxHorizonDays,
		lockTTL:        DefaultLockTTL,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute разворачивает паттерн смены в конкретные датированные слоты.
// Вместимость снимается с текущего значения услуги в каталоге; повторный
// запуск по пересекающемуся диапазону не создает дубликатов - вставка
// идет с ON CONFLICT DO NOTHING по (shift_id, slot_date, start_time)
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("MaterializeSlots: tenant=%d, shift=%d, range=%s..%s",
		req.TenantID, req.ShiftID,
		req.FromDate.Format(domain.DateFormat), req.ToDate.Format(domain.DateFormat))

	now := uc.timeProvider.Now()

	// 1. Валидация входных данных и горизонта
	if err := validateRequest(req, now, uc.maxHorizonDays); err != nil {
		uc.logger.Warn("MaterializeSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем смену
	shift, err := uc.shiftRepo.GetByID(ctx, req.ShiftID)
	if err != nil {
		if errors.Is(err, shiftRepo.ErrShiftNotFound) {
			uc.logger.Warn("MaterializeSlots: shift id=%d not found", req.ShiftID)
			return nil, ErrShiftNotFound
		}
		uc.logger.Error("MaterializeSlots: failed to get shift id=%d: %v", req.ShiftID, err)
		return nil, fmt.Errorf("%w: failed to get shift: %v", ErrInternal, err)
	}

	if shift.TenantID != req.TenantID {
		uc.logger.Warn("MaterializeSlots: shift id=%d belongs to another tenant", req.ShiftID)
		return nil, ErrShiftNotFound
	}

	if !shift.IsActive {
		uc.logger.Warn("MaterializeSlots: shift id=%d is inactive", req.ShiftID)
		return nil, ErrShiftInactive
	}

	// 3. Снимаем текущую вместимость услуги; удаленная или архивная услуга
	// прерывает материализацию без частичной записи
	service, err := uc.catalogClient.GetService(ctx, shift.ServiceID)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			uc.logger.Warn("MaterializeSlots: service id=%d not found", shift.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("MaterializeSlots: failed to get service id=%d: %v", shift.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsActive {
		uc.logger.Warn("MaterializeSlots: service id=%d is archived", shift.ServiceID)
		return nil, ErrServiceArchived
	}

	if service.CapacityPerSlot < domain.MinSlotCapacity {
		uc.logger.Error("MaterializeSlots: service id=%d has invalid capacity %d",
			shift.ServiceID, service.CapacityPerSlot)
		return nil, fmt.Errorf("%w: service capacity_per_slot must be positive", ErrInternal)
	}

	// 4. Сериализуем запуски по одной смене между инстансами
	if uc.locker != nil {
		key := fmt.Sprintf("materialize:shift:%d", req.ShiftID)
		acquired, err := uc.locker.TryLock(ctx, key, uc.lockTTL)
		if err != nil {
			uc.logger.Error("MaterializeSlots: failed to acquire lock for shift id=%d: %v", req.ShiftID, err)
			return nil, fmt.Errorf("%w: failed to acquire lock: %v", ErrInternal, err)
		}
		if !acquired {
			uc.logger.Warn("MaterializeSlots: shift id=%d is already being materialized", req.ShiftID)
			return nil, ErrAlreadyRunning
		}
		defer func() {
			if err := uc.locker.Unlock(ctx, key); err != nil {
				uc.logger.Error("MaterializeSlots: failed to release lock for shift id=%d: %v", req.ShiftID, err)
			}
		}()
	}

	// 5. Разворачиваем паттерн в слоты
	slots := expandShift(shift, service.CapacityPerSlot, req.FromDate, req.ToDate)
	if len(slots) == 0 {
		uc.logger.Info("MaterializeSlots: shift id=%d has no occurrences in range", req.ShiftID)
		return &Response{ShiftID: shift.ID, ServiceID: shift.ServiceID}, nil
	}

	created, err := uc.slotRepo.InsertBatch(ctx, slots)
	if err != nil {
		uc.logger.Error("MaterializeSlots: failed to insert slots for shift id=%d: %v", req.ShiftID, err)
		return nil, fmt.Errorf("%w: failed to insert slots: %v", ErrInternal, err)
	}

	uc.logger.Info("MaterializeSlots: shift id=%d planned=%d created=%d",
		shift.ID, len(slots), created)

	return &Response{
		ShiftID:      shift.ID,
		ServiceID:    shift.ServiceID,
		CreatedCount: created,
		PlannedCount: len(slots),
	}, nil
}

// expandShift перебирает даты диапазона и для каждой даты, чей день недели
// входит в паттерн смены, синтезирует слот со свежим снимком вместимости
func expandShift(shift *domain.Shift, capacity int, from, to time.Time) []*domain.Slot {
	var slots []*domain.Slot

	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	last := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)

	for !day.After(last) {
		if shift.HasDay(day.Weekday()) {
			slots = append(slots, &domain.Slot{
				TenantID:          shift.TenantID,
				ShiftID:           shift.ID,
				ServiceID:         shift.ServiceID,
				SlotDate:          day,
				StartTime:         shift.StartTime,
				EndTime:           shift.EndTime,
				OriginalCapacity:  capacity,
				AvailableCapacity: capacity,
				BookedCount:       0,
				IsAvailable:       true,
			})
		}
		day = day.AddDate(0, 0, 1)
	}

	return slots
}
