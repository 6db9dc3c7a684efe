package release_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/infra/events"
	bookingRepo "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/infra/storage/booking"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/txmanager"
)

const maxReasonLength = 500

// UseCase use case для освобождения бронирования с возвратом единиц в слот
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

// Execute отменяет бронирование и возвращает его единицы в слот.
// Отмена бронирования и счетчики слота меняются в одной транзакции.
// Ручной флаг недоступности слота отмене не мешает: освобождение
// вместимости разрешено всегда
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReleaseBooking: tenant=%d, booking=%d", req.TenantID, req.BookingID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReleaseBooking: validation failed: %v", err)
		return nil, err
	}

	var (
		released   *domain.Booking
		lockedSlot *domain.Slot
	)

	// 2. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Захватываем строку бронирования (FOR UPDATE)
		booking, err := uc.bookingRepo.GetByIDForUpdate(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("ReleaseBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			if isConcurrencyError(err) {
				return err
			}
			uc.logger.Error("ReleaseBooking: failed to lock booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to lock booking: %v", ErrInternal, err)
		}

		// Бронирования чужого тенанта неотличимы от несуществующих
		if booking.TenantID != req.TenantID {
			uc.logger.Warn("ReleaseBooking: booking id=%d belongs to another tenant", req.BookingID)
			return ErrBookingNotFound
		}

		// 2.2. Повторная отмена - отдельная ошибка: единицы уже возвращены,
		// второй возврат нарушил бы инвариант сохранения вместимости
		if booking.IsCancelled() {
			uc.logger.Warn("ReleaseBooking: booking id=%d is already cancelled", req.BookingID)
			return ErrAlreadyCancelled
		}

		if !booking.CanBeCancelled() {
			uc.logger.Warn("ReleaseBooking: booking id=%d has status %s", req.BookingID, booking.Status)
			return ErrNotCancellable
		}

		// 2.3. Захватываем строку слота и возвращаем единицы
		slot, err := uc.slotRepo.GetByIDForUpdate(txCtx, booking.SlotID)
		if err != nil {
			if isConcurrencyError(err) {
				return err
			}
			uc.logger.Error("ReleaseBooking: failed to lock slot id=%d: %v", booking.SlotID, err)
			return fmt.Errorf("%w: failed to lock slot: %v", ErrInternal, err)
		}

		slot.Release(booking.VisitorCount)
		if err := uc.slotRepo.UpdateCapacity(txCtx, slot.ID,
			slot.OriginalCapacity, slot.AvailableCapacity, slot.BookedCount); err != nil {
			if isConcurrencyError(err) {
				return err
			}
			uc.logger.Error("ReleaseBooking: failed to update slot id=%d capacity: %v", slot.ID, err)
			return fmt.Errorf("%w: failed to update slot capacity: %v", ErrInternal, err)
		}

		// 2.4. Помечаем бронирование отмененным
		reason := ""
		if req.Reason != nil {
			reason = *req.Reason
		}
		if err := uc.bookingRepo.Cancel(txCtx, booking.ID, reason); err != nil {
			if isConcurrencyError(err) {
				return err
			}
			uc.logger.Error("ReleaseBooking: failed to cancel booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
		}

		booking.Status = domain.StatusCancelled
		released = booking
		lockedSlot = slot
		return nil
	})

	if err != nil {
		if isConcurrencyError(err) {
			uc.logger.Warn("ReleaseBooking: booking id=%d is busy: %v", req.BookingID, err)
			return nil, ErrBusy
		}
		return nil, err
	}

	uc.logger.Info("ReleaseBooking: successfully cancelled booking id=%d, slot id=%d remaining=%d",
		released.ID, lockedSlot.ID, lockedSlot.AvailableCapacity)

	// 3. Публикуем событие после коммита
	uc.publishReleased(released)

	return &Response{
		BookingID:         released.ID,
		SlotID:            released.SlotID,
		VisitorCount:      released.VisitorCount,
		Status:            string(released.Status),
		RemainingCapacity: lockedSlot.AvailableCapacity,
		CancelledAt:       time.Now().UTC(),
	}, nil
}

// isConcurrencyError различает ошибки конкурентного доступа от остальных
func isConcurrencyError(err error) bool {
	return errors.Is(err, txmanager.ErrLockTimeout) || errors.Is(err, txmanager.ErrSerialization)
}

func (uc *UseCase) publishReleased(booking *domain.Booking) {
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

	if err := uc.publisher.Publish(events.RoutingKeyReleased, event); err != nil {
		uc.logger.Error("ReleaseBooking: failed to publish event for booking id=%d: %v", booking.ID, err)
	}
}
