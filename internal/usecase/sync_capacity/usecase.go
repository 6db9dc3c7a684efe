package sync_capacity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
	catalog "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/integrations/servicecatalog"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/txmanager"
)

// DefaultLockTTL время жизни advisory-блокировки запуска ресинка
const DefaultLockTTL = 2 * time.Minute

// UseCase use case для приведения счетчиков будущих слотов к текущей
// вместимости услуги после ее правки в каталоге
type UseCase struct {
	slotRepo      SlotRepository
	catalogClient ServiceCatalogClient
	txManager     TransactionManager
	locker        Locker
	timeProvider  TimeProvider
	lockTTL       time.Duration
	logger        Logger
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
	slotRepo SlotRepository,
	catalogClient ServiceCatalogClient,
	txManager TransactionManager,
	locker Locker,
	logger Logger,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		slotRepo:      slotRepo,
		catalogClient: catalogClient,
		txManager:     txManager,
		locker:        locker,
		timeProvider:  &RealTimeProvider{},
		lockTTL:       DefaultLockTTL,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute пересчитывает счетчики будущих, еще не начавшихся слотов услуги:
// original становится новым значением из каталога, available - остатком
// после уже занятых единиц. Слот с booked выше новой вместимости остается
// пережатым (available=0): синхронизатор никогда не отменяет бронирования,
// такие слоты возвращаются оператору как предупреждение.
// Прошедшие и уже начавшиеся слоты не трогаются
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SyncCapacity: service=%d", req.ServiceID)

	// 1. Валидация входных данных
	if req.ServiceID <= 0 {
		uc.logger.Warn("SyncCapacity: validation failed: service_id must be positive")
		return nil, fmt.Errorf("%w: service_id must be positive", ErrInvalidInput)
	}

	// 2. Снимаем текущую вместимость услуги.
	// Архивная услуга не блокирует ресинк: оператор мог снизить вместимость
	// перед архивацией, слоты должны это отразить
	service, err := uc.catalogClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			uc.logger.Warn("SyncCapacity: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("SyncCapacity: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if service.CapacityPerSlot < domain.MinSlotCapacity {
		uc.logger.Error("SyncCapacity: service id=%d has capacity %d", req.ServiceID, service.CapacityPerSlot)
		return nil, ErrInvalidCapacity
	}

	// 3. Сериализуем ресинки одной услуги между инстансами
	if uc.locker != nil {
		key := fmt.Sprintf("sync:service:%d", req.ServiceID)
		acquired, err := uc.locker.TryLock(ctx, key, uc.lockTTL)
		if err != nil {
			uc.logger.Error("SyncCapacity: failed to acquire lock for service id=%d: %v", req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to acquire lock: %v", ErrInternal, err)
		}
		if !acquired {
			uc.logger.Warn("SyncCapacity: service id=%d is already being synchronized", req.ServiceID)
			return nil, ErrAlreadyRunning
		}
		defer func() {
			if err := uc.locker.Unlock(ctx, key); err != nil {
				uc.logger.Error("SyncCapacity: failed to release lock for service id=%d: %v", req.ServiceID, err)
			}
		}()
	}

	newCapacity := service.CapacityPerSlot
	now := uc.timeProvider.Now()

	resp := &Response{ServiceID: req.ServiceID, NewCapacity: newCapacity}

	// 4. Пересчитываем счетчики под блокировкой строк в одной транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Сбрасываем счетчики на случай повтора транзакции
		resp.ScannedCount, resp.UpdatedCount, resp.ClampedCount = 0, 0, 0
		resp.ClampedSlotIDs = nil

		slots, err := uc.slotRepo.ListFutureByService(txCtx, req.ServiceID, now)
		if err != nil {
			if isConcurrencyError(err) {
				return err
			}
			uc.logger.Error("SyncCapacity: failed to lock future slots of service id=%d: %v", req.ServiceID, err)
			return fmt.Errorf("%w: failed to lock future slots: %v", ErrInternal, err)
		}

		resp.ScannedCount = len(slots)

		for _, slot := range slots {
			if slot.OriginalCapacity == newCapacity && slot.ConservesCapacity() {
				continue
			}

			clamped := slot.Retemplate(newCapacity)
			if err := uc.slotRepo.UpdateCapacity(txCtx, slot.ID,
				slot.OriginalCapacity, slot.AvailableCapacity, slot.BookedCount); err != nil {
				if isConcurrencyError(err) {
					return err
				}
				uc.logger.Error("SyncCapacity: failed to update slot id=%d: %v", slot.ID, err)
				return fmt.Errorf("%w: failed to update slot capacity: %v", ErrInternal, err)
			}

			resp.UpdatedCount++
			if clamped {
				resp.ClampedCount++
				resp.ClampedSlotIDs = append(resp.ClampedSlotIDs, slot.ID)
			}
		}

		return nil
	})

	if err != nil {
		if isConcurrencyError(err) {
			uc.logger.Warn("SyncCapacity: slots of service id=%d are busy: %v", req.ServiceID, err)
			return nil, ErrBusy
		}
		return nil, err
	}

	if resp.ClampedCount > 0 {
		uc.logger.Warn("SyncCapacity: service id=%d left %d slots over-subscribed: %v",
			req.ServiceID, resp.ClampedCount, resp.ClampedSlotIDs)
	}

	uc.logger.Info("SyncCapacity: service id=%d scanned=%d updated=%d clamped=%d",
		req.ServiceID, resp.ScannedCount, resp.UpdatedCount, resp.ClampedCount)

	return resp, nil
}

// isConcurrencyError различает ошибки конкурентного доступа от остальных
func isConcurrencyError(err error) bool {
	return errors.Is(err, txmanager.ErrLockTimeout) || errors.Is(err, txmanager.ErrSerialization)
}
