package shifts

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
	shiftRepo "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/infra/storage/shift"
	catalog "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/integrations/servicecatalog"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/service/shifts/models"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/types"
)

// Service сервис администрирования смен
type Service struct {
	shiftRepo     ShiftRepository
	catalogClient ServiceCatalogClient
	logger        Logger
}

// NewService создает новый экземпляр сервиса смен
func NewService(shiftRepo ShiftRepository, catalogClient ServiceCatalogClient, logger Logger) *Service {
	return &Service{
		shiftRepo:     shiftRepo,
		catalogClient: catalogClient,
		logger:        logger,
	}
}

// Create создает смену для активной услуги каталога
func (s *Service) Create(ctx context.Context, req *models.CreateShiftRequest) (*models.ShiftResponse, error) {
	s.logger.Info("CreateShift: tenant=%d, service=%d, days=%v", req.TenantID, req.ServiceID, req.DaysOfWeek)

	if req.TenantID <= 0 || req.ServiceID <= 0 {
		s.logger.Warn("CreateShift: ids must be positive")
		return nil, fmt.Errorf("%w: tenant_id and service_id must be positive", ErrInvalidInput)
	}

	shift := req.ToDomainShift()
	if err := shift.Validate(); err != nil {
		s.logger.Warn("CreateShift: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	service, err := s.catalogClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			s.logger.Warn("CreateShift: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("CreateShift: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: CreateShift - catalog error: %v", ErrInternal, err)
	}

	if !service.IsActive {
		s.logger.Warn("CreateShift: service id=%d is archived", req.ServiceID)
		return nil, ErrServiceArchived
	}

	created, err := s.shiftRepo.Create(ctx, shift)
	if err != nil {
		if errors.Is(err, shiftRepo.ErrDuplicateShift) {
			s.logger.Warn("CreateShift: duplicate shift for service id=%d", req.ServiceID)
			return nil, ErrDuplicateShift
		}
		s.logger.Error("CreateShift: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateShift - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateShift: successfully created shift id=%d", created.ID)
	return models.FromDomainShift(created), nil
}

// Update меняет паттерн смены. Уже материализованные слоты не трогаются:
// правка влияет только на будущую материализацию
func (s *Service) Update(ctx context.Context, req *models.UpdateShiftRequest) (*models.ShiftResponse, error) {
	s.logger.Info("UpdateShift: tenant=%d, shift=%d", req.TenantID, req.ShiftID)

	if req.TenantID <= 0 || req.ShiftID <= 0 {
		s.logger.Warn("UpdateShift: ids must be positive")
		return nil, fmt.Errorf("%w: tenant_id and shift_id must be positive", ErrInvalidInput)
	}

	shift, err := s.getTenantShift(ctx, req.ShiftID, req.TenantID, "UpdateShift")
	if err != nil {
		return nil, err
	}

	if req.DaysOfWeek != nil {
		shift.DaysOfWeek = req.DaysOfWeek
	}
	if req.StartTime != nil {
		shift.StartTime = types.TimeString(*req.StartTime)
	}
	if req.EndTime != nil {
		shift.EndTime = types.TimeString(*req.EndTime)
	}

	if err := shift.Validate(); err != nil {
		s.logger.Warn("UpdateShift: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.shiftRepo.Update(ctx, shift); err != nil {
		if errors.Is(err, shiftRepo.ErrShiftNotFound) {
			return nil, ErrShiftNotFound
		}
		s.logger.Error("UpdateShift: repository error for shift id=%d: %v", req.ShiftID, err)
		return nil, fmt.Errorf("%w: UpdateShift - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateShift: successfully updated shift id=%d", shift.ID)
	return models.FromDomainShift(shift), nil
}

// Deactivate выключает смену. Смена не удаляется: история уже
// материализованных слотов должна сохраниться
func (s *Service) Deactivate(ctx context.Context, shiftID, tenantID int64) error {
	s.logger.Info("DeactivateShift: tenant=%d, shift=%d", tenantID, shiftID)

	if tenantID <= 0 || shiftID <= 0 {
		s.logger.Warn("DeactivateShift: ids must be positive")
		return fmt.Errorf("%w: tenant_id and shift_id must be positive", ErrInvalidInput)
	}

	if _, err := s.getTenantShift(ctx, shiftID, tenantID, "DeactivateShift"); err != nil {
		return err
	}

	if err := s.shiftRepo.Deactivate(ctx, shiftID); err != nil {
		if errors.Is(err, shiftRepo.ErrShiftNotFound) {
			return ErrShiftNotFound
		}
		s.logger.Error("DeactivateShift: repository error for shift id=%d: %v", shiftID, err)
		return fmt.Errorf("%w: DeactivateShift - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeactivateShift: successfully deactivated shift id=%d", shiftID)
	return nil
}

// ListByService получает смены услуги
func (s *Service) ListByService(ctx context.Context, serviceID int64, activeOnly bool) (*models.ShiftListResponse, error) {
	s.logger.Info("ListShifts: service=%d, active_only=%t", serviceID, activeOnly)

	if serviceID <= 0 {
		s.logger.Warn("ListShifts: service_id must be positive")
		return nil, fmt.Errorf("%w: service_id must be positive", ErrInvalidInput)
	}

	list, err := s.shiftRepo.ListByService(ctx, serviceID, activeOnly)
	if err != nil {
		s.logger.Error("ListShifts: repository error for service=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: ListShifts - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainShifts(list), nil
}

func (s *Service) getTenantShift(ctx context.Context, shiftID, tenantID int64, op string) (*domain.Shift, error) {
	shift, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, shiftRepo.ErrShiftNotFound) {
			s.logger.Warn("%s: shift id=%d not found", op, shiftID)
			return nil, ErrShiftNotFound
		}
		s.logger.Error("%s: repository error for shift id=%d: %v", op, shiftID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	if shift.TenantID != tenantID {
		s.logger.Warn("%s: shift id=%d belongs to another tenant", op, shiftID)
		return nil, ErrShiftNotFound
	}

	return shift, nil
}
