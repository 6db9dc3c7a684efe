package bookings

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/infra/storage/booking"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/service/bookings/models"
)

// Service сервис для чтения бронирований
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID в пределах тенанта
func (s *Service) GetByID(ctx context.Context, id int64, tenantID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for tenant=%d", id, tenantID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if booking.TenantID != tenantID {
		s.logger.Warn("GetByID: booking id=%d belongs to another tenant", id)
		return nil, ErrBookingNotFound
	}

	return models.FromDomainBooking(booking), nil
}

// GetTenantBookings получает бронирования тенанта с фильтрацией
// по услуге, слоту, периоду дат слота и статусу
func (s *Service) GetTenantBookings(ctx context.Context, req *models.GetTenantBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetTenantBookings: fetching bookings for tenant=%d", req.TenantID)

	if req.TenantID <= 0 {
		s.logger.Warn("GetTenantBookings: tenant_id must be positive")
		return nil, fmt.Errorf("%w: tenant_id must be positive", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetTenantBookings: invalid status=%v for tenant=%d", req.Status, req.TenantID)
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}

	list, err := s.bookingRepo.GetByTenantWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetTenantBookings: repository error for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: GetTenantBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetTenantBookings: fetched %d bookings for tenant=%d", len(list), req.TenantID)
	return models.FromDomainBookings(list), nil
}
