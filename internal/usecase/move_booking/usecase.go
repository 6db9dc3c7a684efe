package move_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/infra/events"
	bookingRepo "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/infra/storage/booking"
	slotRepo "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/infra/storage/slot"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/txmanager"
)

// UseCase use case для атомарного переноса бронирования между слотами
type UseCase struct {
	bookingRepo BookingRepository
	slotRepo    SlotRepository
	txManager   TransactionManager
	publisher   EventPublisher
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		txManager:   txManager,
		publisher:   publisher,
		logger:      logger,
	}
}

// Execute переносит бронирование на целевой слот: возврат единиц в исходный
// слот и списание из целевого происходят в одной транзакции, так что
// промежуточное состояние "бронь без слота" снаружи не наблюдаемо.
// Строки двух слотов захватываются в порядке возрастания ID, чтобы
// встречные переносы не взаимоблокировались.
// Перенос на текущий слот с новым числом единиц работает как ресайз
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("MoveBooking: tenant=%d, booking=%d, target_slot=%d",
		req.TenantID, req.BookingID, req.TargetSlotID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("MoveBooking: validation failed: %v", err)
		return nil, err
	}

	var (
		moved      *domain.Booking
		prevSlotID int64
		targetSlot *domain.Slot
	)

	// 2. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Захватываем строку бронирования (FOR UPDATE)
		booking, err := uc.bookingRepo.GetByIDForUpdate(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("MoveBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			if isConcurrencyError(err) {
				return err
			}
			uc.logger.Error("MoveBooking: failed to lock booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to lock booking: %v", ErrInternal, err)
		}

		if booking.TenantID != req.TenantID {
			uc.logger.Warn("MoveBooking: booking id=%d belongs to another tenant", req.BookingID)
			return ErrBookingNotFound
		}

		if !booking.CanBeMoved() {
			uc.logger.Warn("MoveBooking: booking id=%d has status %s", req.BookingID, booking.Status)
			return ErrNotMovable
		}

		units := booking.VisitorCount
		newUnits := units
		if req.NewVisitorCount != nil {
			newUnits = *req.NewVisitorCount
		}

		prevSlotID = booking.SlotID

		// 2.2. Перенос на тот же слот - ресайз числа единиц под одной блокировкой
		if req.TargetSlotID == booking.SlotID {
			slot, err := uc.lockSlot(txCtx, req.TargetSlotID, true)
			if err != nil {
				return err
			}

			if err := uc.resizeOnSlot(slot, units, newUnits); err != nil {
				return err
			}

			if newUnits != units {
				if err := uc.saveSlot(txCtx, slot); err != nil {
					return err
				}
				if err := uc.saveBookingSlot(txCtx, booking, slot.ID, newUnits); err != nil {
					return err
				}
			}

			booking.VisitorCount = newUnits
			moved = booking
			targetSlot = slot
			return nil
		}

		// 2.3. Перенос между слотами: блокировка в порядке возрастания ID
		source, target, err := uc.lockSlotPair(txCtx, booking.SlotID, req.TargetSlotID)
		if err != nil {
			return err
		}

		// 2.4. Проверки целевого слота под блокировкой.
		// Чужой слот неотличим от несуществующего: услуга из общего каталога
		// не делает слоты двух тенантов взаимозаменяемыми
		if target.TenantID != req.TenantID {
			uc.logger.Warn("MoveBooking: target slot id=%d belongs to tenant=%d, requested by tenant=%d",
				target.ID, target.TenantID, req.TenantID)
			return ErrTargetSlotNotFound
		}

		// Услуга сверяется по текущему владельцу смены слота, а не по
		// денормализованной колонке: переназначенная смена должна давать
		// отказ, а не тихий перевод брони на другую услугу
		owningServiceID, err := uc.slotRepo.GetOwningServiceID(txCtx, target.ID)
		if err != nil {
			if isConcurrencyError(err) {
				return err
			}
			uc.logger.Error("MoveBooking: failed to resolve owning service for slot id=%d: %v", target.ID, err)
			return fmt.Errorf("%w: failed to resolve owning service: %v", ErrInternal, err)
		}

		if owningServiceID != booking.ServiceID {
			uc.logger.Warn("MoveBooking: target slot id=%d serves service %d, booking is for service %d",
				target.ID, owningServiceID, booking.ServiceID)
			return ErrServiceMismatch
		}

		if !target.IsAvailable {
			uc.logger.Warn("MoveBooking: target slot id=%d is marked unavailable", target.ID)
			return ErrTargetSlotUnavailable
		}

		if !target.HasCapacityFor(newUnits) {
			uc.logger.Warn("MoveBooking: target slot id=%d has %d units, requested %d",
				target.ID, target.AvailableCapacity, newUnits)
			return &InsufficientCapacityError{Requested: newUnits, Remaining: target.AvailableCapacity}
		}

		// 2.5. Атомарный перенос единиц между счетчиками двух слотов
		source.Release(units)
		target.Reserve(newUnits)

		if err := uc.saveSlot(txCtx, source); err != nil {
			return err
		}
		if err := uc.saveSlot(txCtx, target); err != nil {
			return err
		}
		if err := uc.saveBookingSlot(txCtx, booking, target.ID, newUnits); err != nil {
			return err
		}

		booking.SlotID = target.ID
		booking.VisitorCount = newUnits
		moved = booking
		targetSlot = target
		return nil
	})

	if err != nil {
		if isConcurrencyError(err) {
			uc.logger.Warn("MoveBooking: booking id=%d is busy: %v", req.BookingID, err)
			return nil, ErrBusy
		}
		return nil, err
	}

	uc.logger.Info("MoveBooking: successfully moved booking id=%d from slot %d to slot %d",
		moved.ID, prevSlotID, moved.SlotID)

	// 3. Публикуем событие после коммита
	uc.publishMoved(moved, prevSlotID)

	return &Response{
		BookingID:         moved.ID,
		PrevSlotID:        prevSlotID,
		SlotID:            moved.SlotID,
		SlotDate:          targetSlot.SlotDate,
		StartTime:         targetSlot.StartTime,
		EndTime:           targetSlot.EndTime,
		VisitorCount:      moved.VisitorCount,
		Status:            string(moved.Status),
		RemainingCapacity: targetSlot.AvailableCapacity,
	}, nil
}

// resizeOnSlot меняет число единиц брони на ее текущем слоте.
// Увеличение - это новое резервирование: требует открытый слот и остаток
// под дельту. Уменьшение разрешено всегда
func (uc *UseCase) resizeOnSlot(slot *domain.Slot, units, newUnits int) error {
	delta := newUnits - units
	switch {
	case delta == 0:
		return nil
	case delta > 0:
		if !slot.IsAvailable {
			uc.logger.Warn("MoveBooking: slot id=%d is marked unavailable", slot.ID)
			return ErrTargetSlotUnavailable
		}
		if !slot.HasCapacityFor(delta) {
			uc.logger.Warn("MoveBooking: slot id=%d has %d units, resize needs %d more",
				slot.ID, slot.AvailableCapacity, delta)
			return &InsufficientCapacityError{Requested: delta, Remaining: slot.AvailableCapacity}
		}
		slot.Reserve(delta)
	default:
		slot.Release(-delta)
	}
	return nil
}

// lockSlotPair захватывает строки двух слотов в порядке возрастания ID.
// Исходный слот существует по построению (на него ссылается бронь),
// его пропажа - нарушение целостности данных, а не ошибка клиента
func (uc *UseCase) lockSlotPair(ctx context.Context, sourceID, targetID int64) (source, target *domain.Slot, err error) {
	firstID, secondID := sourceID, targetID
	if targetID < sourceID {
		firstID, secondID = targetID, sourceID
	}

	first, err := uc.lockSlot(ctx, firstID, firstID == targetID)
	if err != nil {
		return nil, nil, err
	}
	second, err := uc.lockSlot(ctx, secondID, secondID == targetID)
	if err != nil {
		return nil, nil, err
	}

	if first.ID == sourceID {
		return first, second, nil
	}
	return second, first, nil
}

func (uc *UseCase) lockSlot(ctx context.Context, id int64, isTarget bool) (*domain.Slot, error) {
	slot, err := uc.slotRepo.GetByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			if isTarget {
				uc.logger.Warn("MoveBooking: target slot id=%d not found", id)
				return nil, ErrTargetSlotNotFound
			}
			uc.logger.Error("MoveBooking: source slot id=%d referenced by booking is missing", id)
			return nil, fmt.Errorf("%w: source slot id=%d is missing", ErrInternal, id)
		}
		if isConcurrencyError(err) {
			return nil, err
		}
		uc.logger.Error("MoveBooking: failed to lock slot id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to lock slot: %v", ErrInternal, err)
	}
	return slot, nil
}

func (uc *UseCase) saveSlot(ctx context.Context, slot *domain.Slot) error {
	if err := uc.slotRepo.UpdateCapacity(ctx, slot.ID,
		slot.OriginalCapacity, slot.AvailableCapacity, slot.BookedCount); err != nil {
		if isConcurrencyError(err) {
			return err
		}
		uc.logger.Error("MoveBooking: failed to update slot id=%d capacity: %v", slot.ID, err)
		return fmt.Errorf("%w: failed to update slot capacity: %v", ErrInternal, err)
	}
	return nil
}

func (uc *UseCase) saveBookingSlot(ctx context.Context, booking *domain.Booking, slotID int64, visitorCount int) error {
	if err := uc.bookingRepo.UpdateSlot(ctx, booking.ID, slotID, visitorCount); err != nil {
		if isConcurrencyError(err) {
			return err
		}
		uc.logger.Error("MoveBooking: failed to update booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
	}
	return nil
}

// isConcurrencyError различает ошибки конкурентного доступа от остальных
func isConcurrencyError(err error) bool {
	return errors.Is(err, txmanager.ErrLockTimeout) || errors.Is(err, txmanager.ErrSerialization)
}

func (uc *UseCase) publishMoved(booking *domain.Booking, prevSlotID int64) {
	if uc.publisher == nil {
		return
	}

	event := events.BookingEvent{
		BookingID:    booking.ID,
		TenantID:     booking.TenantID,
		ServiceID:    booking.ServiceID,
		SlotID:       booking.SlotID,
		PrevSlotID:   &prevSlotID,
		VisitorCount: booking.VisitorCount,
		Status:       string(booking.Status),
		OccurredAt:   time.Now().UTC(),
	}

	if err := uc.publisher.Publish(events.RoutingKeyMoved, event); err != nil {
		uc.logger.Error("MoveBooking: failed to publish event for booking id=%d: %v", booking.ID, err)
	}
}
