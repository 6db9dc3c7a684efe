package repair_booking

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/infra/storage/booking"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/txmanager"
)

// UseCase use case для явного ремонта дрейфа: услуга бронирования
// подтягивается к услуге, которой сейчас принадлежит смена его слота.
// Вызывается только оператором; Reserve и Move при расхождении
// отказывают, а не чинят молча
type UseCase struct {
	bookingRepo BookingRepository
	slotRepo    SlotRepository
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute выполняет ремонт под блокировкой строки бронирования, чтобы
// параллельный Move не увел слот из-под пересчета
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RepairBooking: tenant=%d, booking=%d", req.TenantID, req.BookingID)

	if req.TenantID <= 0 || req.BookingID <= 0 {
		uc.logger.Warn("RepairBooking: validation failed: ids must be positive")
		return nil, fmt.Errorf("%w: tenant_id and booking_id must be positive", ErrInvalidInput)
	}

	var resp *Response

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByIDForUpdate(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("RepairBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			if isConcurrencyError(err) {
				return err
			}
			uc.logger.Error("RepairBooking: failed to lock booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to lock booking: %v", ErrInternal, err)
		}

		if booking.TenantID != req.TenantID {
			uc.logger.Warn("RepairBooking: booking id=%d belongs to another tenant", req.BookingID)
			return ErrBookingNotFound
		}

		expectedServiceID, err := uc.slotRepo.GetOwningServiceID(txCtx, booking.SlotID)
		if err != nil {
			if isConcurrencyError(err) {
				return err
			}
			uc.logger.Error("RepairBooking: failed to resolve owning service for slot id=%d: %v",
				booking.SlotID, err)
			return fmt.Errorf("%w: failed to resolve owning service: %v", ErrInternal, err)
		}

		if booking.ServiceID == expectedServiceID {
			uc.logger.Info("RepairBooking: booking id=%d is already consistent", booking.ID)
			resp = &Response{
				BookingID:     booking.ID,
				Repaired:      false,
				PrevServiceID: booking.ServiceID,
				ServiceID:     booking.ServiceID,
			}
			return nil
		}

		if err := uc.bookingRepo.UpdateServiceID(txCtx, booking.ID, expectedServiceID); err != nil {
			if isConcurrencyError(err) {
				return err
			}
			uc.logger.Error("RepairBooking: failed to update booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}

		// След для аудита: ремонт меняет принадлежность брони услуге
		uc.logger.Warn("RepairBooking: booking id=%d service repaired %d -> %d",
			booking.ID, booking.ServiceID, expectedServiceID)

		resp = &Response{
			BookingID:     booking.ID,
			Repaired:      true,
			PrevServiceID: booking.ServiceID,
			ServiceID:     expectedServiceID,
		}
		return nil
	})

	if err != nil {
		if isConcurrencyError(err) {
			uc.logger.Warn("RepairBooking: booking id=%d is busy: %v", req.BookingID, err)
			return nil, ErrBusy
		}
		return nil, err
	}

	return resp, nil
}

// ExecuteTenant выполняет разовый пакетный ремонт: сканирует все
// бронирования тенанта и чинит каждое найденное расхождение отдельной
// транзакцией. Каждое бронирование перепроверяется под блокировкой,
// поэтому гонка со сканом безопасна: исчезнувшее расхождение
// превращается в no-op
func (uc *UseCase) ExecuteTenant(ctx context.Context, req *TenantRequest) (*TenantResponse, error) {
	uc.logger.Info("RepairTenant: tenant=%d", req.TenantID)

	if req.TenantID <= 0 {
		uc.logger.Warn("RepairTenant: validation failed: tenant_id must be positive")
		return nil, fmt.Errorf("%w: tenant_id must be positive", ErrInvalidInput)
	}

	mismatched, _, err := uc.bookingRepo.ListMismatchedByTenant(ctx, req.TenantID)
	if err != nil {
		uc.logger.Error("RepairTenant: failed to scan tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to scan bookings: %v", ErrInternal, err)
	}

	resp := &TenantResponse{
		TenantID:      req.TenantID,
		MismatchCount: len(mismatched),
		Repaired:      make([]*Response, 0, len(mismatched)),
	}

	for _, booking := range mismatched {
		result, err := uc.Execute(ctx, &Request{TenantID: req.TenantID, BookingID: booking.ID})
		if err != nil {
			// Частичный прогресс допустим: ремонт - разовая data-quality
			// операция, оставшееся починит повторный запуск
			uc.logger.Warn("RepairTenant: failed to repair booking id=%d: %v", booking.ID, err)
			resp.FailedCount++
			continue
		}
		if result.Repaired {
			resp.RepairedCount++
			resp.Repaired = append(resp.Repaired, result)
		}
	}

	uc.logger.Info("RepairTenant: tenant=%d, mismatched=%d, repaired=%d, failed=%d",
		req.TenantID, resp.MismatchCount, resp.RepairedCount, resp.FailedCount)
	return resp, nil
}

// isConcurrencyError различает ошибки конкурентного доступа от остальных
func isConcurrencyError(err error) bool {
	return errors.Is(err, txmanager.ErrLockTimeout) || errors.Is(err, txmanager.ErrSerialization)
}
