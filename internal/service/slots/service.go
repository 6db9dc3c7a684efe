package slots

import (
	"context"
	"errors"
	"fmt"

	slotRepo "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/infra/storage/slot"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/service/slots/models"
)

// Service сервис для чтения слотов и ручного управления их доступностью
type Service struct {
	slotRepo     SlotRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(slotRepo SlotRepository, logger Logger) *Service {
	return &Service{
		slotRepo:     slotRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetServiceSlots получает слоты услуги за период
func (s *Service) GetServiceSlots(ctx context.Context, req *models.GetServiceSlotsRequest) (*models.SlotListResponse, error) {
	s.logger.Info("GetServiceSlots: service=%d", req.ServiceID)

	if req.ServiceID <= 0 {
		s.logger.Warn("GetServiceSlots: service_id must be positive")
		return nil, fmt.Errorf("%w: service_id must be positive", ErrInvalidInput)
	}

	if req.FromDate.IsZero() || req.ToDate.IsZero() || req.ToDate.Before(req.FromDate) {
		s.logger.Warn("GetServiceSlots: invalid date range for service=%d", req.ServiceID)
		return nil, fmt.Errorf("%w: invalid date range", ErrInvalidInput)
	}

	list, err := s.slotRepo.ListByServiceAndDateRange(ctx, req.ServiceID, req.FromDate, req.ToDate)
	if err != nil {
		s.logger.Error("GetServiceSlots: repository error for service=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: GetServiceSlots - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetServiceSlots: fetched %d slots for service=%d", len(list), req.ServiceID)
	return models.FromDomainSlots(list), nil
}

// SetAvailability вручную открывает или закрывает слот для новых
// резервирований. Закрытие не трогает счетчики и существующие брони:
// это независимый от вместимости флаг (blackout)
func (s *Service) SetAvailability(ctx context.Context, req *models.SetAvailabilityRequest) (*models.SlotResponse, error) {
	s.logger.Info("SetAvailability: tenant=%d, slot=%d, available=%t",
		req.TenantID, req.SlotID, req.IsAvailable)

	if req.TenantID <= 0 || req.SlotID <= 0 {
		s.logger.Warn("SetAvailability: ids must be positive")
		return nil, fmt.Errorf("%w: tenant_id and slot_id must be positive", ErrInvalidInput)
	}

	slot, err := s.slotRepo.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("SetAvailability: slot id=%d not found", req.SlotID)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("SetAvailability: repository error for slot id=%d: %v", req.SlotID, err)
		return nil, fmt.Errorf("%w: SetAvailability - repository error: %v", ErrInternal, err)
	}

	if slot.TenantID != req.TenantID {
		s.logger.Warn("SetAvailability: slot id=%d belongs to another tenant", req.SlotID)
		return nil, ErrSlotNotFound
	}

	// Начавшийся слот уже нельзя ни открыть, ни закрыть
	if slot.StartsBefore(s.timeProvider.Now()) {
		s.logger.Warn("SetAvailability: slot id=%d has already started", req.SlotID)
		return nil, ErrSlotStarted
	}

	if slot.IsAvailable != req.IsAvailable {
		if err := s.slotRepo.SetAvailability(ctx, req.SlotID, req.IsAvailable); err != nil {
			s.logger.Error("SetAvailability: failed to update slot id=%d: %v", req.SlotID, err)
			return nil, fmt.Errorf("%w: SetAvailability - repository error: %v", ErrInternal, err)
		}
		slot.IsAvailable = req.IsAvailable
	}

	return models.FromDomainSlot(slot), nil
}
