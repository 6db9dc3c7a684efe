package reserve_slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/infra/events"
	slotRepo "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/infra/storage/slot"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/txmanager"
)

// UseCase use case для резервирования единиц вместимости слота
type UseCase struct {
	slotRepo    SlotRepository
	bookingRepo BookingRepository
	txManager   TransactionManager
	publisher   EventPublisher
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		txManager:   txManager,
		publisher:   publisher,
		logger:      logger,
	}
}

// Execute выполняет резервирование: под блокировкой строки слота проверяет
// доступность и остаток, списывает единицы и создает бронирование.
// Счетчики слота и строка бронирования меняются в одной транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReserveSlot: tenant=%d, slot=%d, visitors=%d",
		req.TenantID, req.SlotID, req.VisitorCount)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReserveSlot: validation failed: %v", err)
		return nil, err
	}

	status := domain.StatusConfirmed
	if req.AsPending {
		status = domain.StatusPending
	}

	var (
		createdBooking *domain.Booking
		lockedSlot     *domain.Slot
	)

	// 2. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Захватываем строку слота (FOR UPDATE)
		slot, err := uc.slotRepo.GetByIDForUpdate(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("ReserveSlot: slot id=%d not found", req.SlotID)
				return ErrSlotNotFound
			}
			// Ошибки конкурентного доступа отдаем без обертки, чтобы
			// менеджер транзакций мог повторить сериализуемую транзакцию
			if isConcurrencyError(err) {
				return err
			}
			uc.logger.Error("ReserveSlot: failed to lock slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to lock slot: %v", ErrInternal, err)
		}

		// 2.2. Чужой слот неотличим от несуществующего
		if slot.TenantID != req.TenantID {
			uc.logger.Warn("ReserveSlot: slot id=%d belongs to tenant=%d, requested by tenant=%d",
				req.SlotID, slot.TenantID, req.TenantID)
			return ErrSlotNotFound
		}

		// 2.3. Ручной флаг недоступности блокирует новые резервирования
		// независимо от остатка вместимости
		if !slot.IsAvailable {
			uc.logger.Warn("ReserveSlot: slot id=%d is marked unavailable", req.SlotID)
			return ErrSlotUnavailable
		}

		// 2.4. Проверяем остаток под блокировкой
		if !slot.HasCapacityFor(req.VisitorCount) {
			uc.logger.Warn("ReserveSlot: slot id=%d has %d units, requested %d",
				req.SlotID, slot.AvailableCapacity, req.VisitorCount)
			return &InsufficientCapacityError{
				Requested: req.VisitorCount,
				Remaining: slot.AvailableCapacity,
			}
		}

		// 2.5. Списываем единицы и сохраняем счетчики
		slot.Reserve(req.VisitorCount)
		if err := uc.slotRepo.UpdateCapacity(txCtx, slot.ID,
			slot.OriginalCapacity, slot.AvailableCapacity, slot.BookedCount); err != nil {
			if isConcurrencyError(err) {
				return err
			}
			uc.logger.Error("ReserveSlot: failed to update slot id=%d capacity: %v", slot.ID, err)
			return fmt.Errorf("%w: failed to update slot capacity: %v", ErrInternal, err)
		}

		// 2.6. Создаем бронирование в той же транзакции
		booking := &domain.Booking{
			TenantID:      req.TenantID,
			ServiceID:     slot.ServiceID,
			SlotID:        slot.ID,
			VisitorCount:  req.VisitorCount,
			Status:        status,
			PaymentStatus: domain.PaymentUnpaid,
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			CustomerEmail: req.CustomerEmail,
			Notes:         req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if isConcurrencyError(err) {
				return err
			}
			uc.logger.Error("ReserveSlot: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		createdBooking = created
		lockedSlot = slot
		return nil
	})

	if err != nil {
		// Не дождались блокировки или транзакция не сериализовалась после
		// всех повторов - клиент может безопасно повторить запрос
		if isConcurrencyError(err) {
			uc.logger.Warn("ReserveSlot: slot id=%d is busy: %v", req.SlotID, err)
			return nil, ErrBusy
		}
		return nil, err
	}

	uc.logger.Info("ReserveSlot: successfully created booking id=%d, slot id=%d remaining=%d",
		createdBooking.ID, lockedSlot.ID, lockedSlot.AvailableCapacity)

	// 3. Публикуем событие после коммита (ошибка публикации не откатывает бронь)
	uc.publishReserved(createdBooking)

	return &Response{
		BookingID:         createdBooking.ID,
		TenantID:          createdBooking.TenantID,
		ServiceID:         createdBooking.ServiceID,
		SlotID:            createdBooking.SlotID,
		SlotDate:          lockedSlot.SlotDate,
		StartTime:         lockedSlot.StartTime,
		EndTime:           lockedSlot.EndTime,
		VisitorCount:      createdBooking.VisitorCount,
		Status:            string(createdBooking.Status),
		RemainingCapacity: lockedSlot.AvailableCapacity,
		CreatedAt:         createdBooking.CreatedAt,
	}, nil
}

// isConcurrencyError различает ошибки конкурентного доступа (таймаут
// блокировки строки, сбой сериализации) от остальных ошибок БД
func isConcurrencyError(err error) bool {
	return errors.Is(err, txmanager.ErrLockTimeout) || errors.Is(err, txmanager.ErrSerialization)
}

func (uc *UseCase) publishReserved(booking *domain.Booking) {
	if uc.publisher == nil {
		return
	}

	event := events.BookingEvent{
		BookingID:    booking.ID,
		TenantID:     booking.TenantID,
		ServiceID:    booking.ServiceID,
		SlotID:       booking.SlotID,
		VisitorCount: booking.VisitorCount,
		Status:       string(booking.Status),
		OccurredAt:   time.Now().UTC(),
	}

	if err := uc.publisher.Publish(events.RoutingKeyReserved, event); err != nil {
		uc.logger.Error("ReserveSlot: failed to publish event for booking id=%d: %v", booking.ID, err)
	}
}
