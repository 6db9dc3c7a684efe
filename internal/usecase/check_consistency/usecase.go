package check_consistency

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
	bookingRepo "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/infra/storage/booking"
	slotRepo "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/infra/storage/slot"
)

// UseCase use case для выявления дрейфа услуги бронирования: смена слота
// могла быть административно переназначена на другую услугу уже после
// создания бронирований против ее слотов
type UseCase struct {
	bookingRepo BookingRepository
	slotRepo    SlotRepository
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, slotRepo SlotRepository, txManager TransactionManager, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Check сверяет услугу одного бронирования с услугой владеющей смены слота.
// Проверка только читает и ничего не чинит: ремонт - отдельная явная операция
func (uc *UseCase) Check(ctx context.Context, req *CheckRequest) (*Response, error) {
	uc.logger.Info("CheckConsistency: tenant=%d, booking=%d", req.TenantID, req.BookingID)

	if req.TenantID <= 0 || req.BookingID <= 0 {
		uc.logger.Warn("CheckConsistency: validation failed: ids must be positive")
		return nil, fmt.Errorf("%w: tenant_id and booking_id must be positive", ErrInvalidInput)
	}

	var (
		booking           *domain.Booking
		expectedServiceID int64
	)

	// Два чтения в read-only транзакции: параллельный перенос или ремонт
	// между ними не должен породить ложный дрейф
	err := uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		b, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("CheckConsistency: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("CheckConsistency: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if b.TenantID != req.TenantID {
			uc.logger.Warn("CheckConsistency: booking id=%d belongs to another tenant", req.BookingID)
			return ErrBookingNotFound
		}

		expectedServiceID, err = uc.slotRepo.GetOwningServiceID(txCtx, b.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Error("CheckConsistency: booking id=%d references missing slot id=%d",
					b.ID, b.SlotID)
				return fmt.Errorf("%w: booking references a missing slot", ErrInternal)
			}
			uc.logger.Error("CheckConsistency: failed to resolve owning service for slot id=%d: %v",
				b.SlotID, err)
			return fmt.Errorf("%w: failed to resolve owning service: %v", ErrInternal, err)
		}

		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	if booking.ServiceID == expectedServiceID {
		return &Response{Consistent: true}, nil
	}

	uc.logger.Warn("CheckConsistency: booking id=%d has service %d, owning shift serves %d",
		booking.ID, booking.ServiceID, expectedServiceID)

	return &Response{
		Consistent: false,
		Mismatches: []Mismatch{{
			BookingID:         booking.ID,
			SlotID:            booking.SlotID,
			ActualServiceID:   booking.ServiceID,
			ExpectedServiceID: expectedServiceID,
		}},
	}, nil
}

// Scan находит все разъехавшиеся бронирования тенанта одним проходом по БД.
// Используется для разовой выверки данных после административных правок
func (uc *UseCase) Scan(ctx context.Context, req *ScanRequest) (*Response, error) {
	uc.logger.Info("CheckConsistency: scanning tenant=%d", req.TenantID)

	if req.TenantID <= 0 {
		uc.logger.Warn("CheckConsistency: validation failed: tenant_id must be positive")
		return nil, fmt.Errorf("%w: tenant_id must be positive", ErrInvalidInput)
	}

	mismatched, expectedIDs, err := uc.bookingRepo.ListMismatchedByTenant(ctx, req.TenantID)
	if err != nil {
		uc.logger.Error("CheckConsistency: failed to scan tenant id=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to scan tenant bookings: %v", ErrInternal, err)
	}

	resp := &Response{Consistent: len(mismatched) == 0}
	for i, booking := range mismatched {
		resp.Mismatches = append(resp.Mismatches, Mismatch{
			BookingID:         booking.ID,
			SlotID:            booking.SlotID,
			ActualServiceID:   booking.ServiceID,
			ExpectedServiceID: expectedIDs[i],
		})
	}

	uc.logger.Info("CheckConsistency: tenant id=%d has %d mismatched bookings",
		req.TenantID, len(resp.Mismatches))

	return resp, nil
}
