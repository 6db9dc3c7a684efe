package materialize_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
	shiftRepo "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/infra/storage/shift"
	catalog "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/integrations/servicecatalog"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/types"
)

// --- Mocks ---

type mockShiftRepo struct {
	getByIDFn func(ctx context.Context, id int64) (*domain.Shift, error)
}

func (m *mockShiftRepo) GetByID(ctx context.Context, id int64) (*domain.Shift, error) {
	return m.getByIDFn(ctx, id)
}

type mockSlotRepo struct {
	insertBatchFn func(ctx context.Context, slots []*domain.Slot) (int64, error)
}

func (m *mockSlotRepo) InsertBatch(ctx context.Context, slots []*domain.Slot) (int64, error) {
	return m.insertBatchFn(ctx, slots)
}

type mockCatalog struct {
	getServiceFn func(ctx context.Context, serviceID int64) (*catalog.Service, error)
}

func (m *mockCatalog) GetService(ctx context.Context, serviceID int64) (*catalog.Service, error) {
	return m.getServiceFn(ctx, serviceID)
}

type mockLocker struct {
	acquired bool
	unlocked bool
	gotTTL   time.Duration
}

func (m *mockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	m.gotTTL = ttl
	return m.acquired, nil
}

func (m *mockLocker) Unlock(ctx context.Context, key string) error {
	m.unlocked = true
	return nil
}

type fixedTimeProvider struct{ now time.Time }

func (p fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// --- Helpers ---

// 2026-09-07 - понедельник
var testNow = time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)

func sampleShift() *domain.Shift {
	return &domain.Shift{
		ID:        3,
		TenantID:  1,
		ServiceID: 7,
		// Понедельник, среда, пятница
		DaysOfWeek: []int{1, 3, 5},
		StartTime:  types.TimeString("10:00"),
		EndTime:    types.TimeString("12:00"),
		IsActive:   true,
	}
}

func sampleService() *catalog.Service {
	return &catalog.Service{ID: 7, TenantID: 1, CapacityPerSlot: 5, IsActive: true}
}

func newUseCase(shifts ShiftRepository, slots SlotRepository, cat ServiceCatalogClient, locker Locker) *UseCase {
	uc := NewUseCase(shifts, slots, cat, locker, 120, nopLogger{})
	uc.timeProvider = fixedTimeProvider{now: testNow}
	return uc
}

func sampleRequest() *Request {
	return &Request{
		TenantID: 1,
		ShiftID:  3,
		FromDate: time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		ToDate:   time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC),
	}
}

// --- Tests ---

func TestMaterialize_Success(t *testing.T) {
	shifts := &mockShiftRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Shift, error) {
			return sampleShift(), nil
		},
	}

	var inserted []*domain.Slot
	slots := &mockSlotRepo{
		insertBatchFn: func(ctx context.Context, batch []*domain.Slot) (int64, error) {
			inserted = batch
			return int64(len(batch)), nil
		},
	}
	cat := &mockCatalog{
		getServiceFn: func(ctx context.Context, serviceID int64) (*catalog.Service, error) {
			return sampleService(), nil
		},
	}

	uc := newUseCase(shifts, slots, cat, nil)

	resp, err := uc.Execute(context.Background(), sampleRequest())

	assert.NoError(t, err)
	// Неделя 7-13 сентября содержит пн, ср, пт: 7, 9, 11 числа
	assert.Equal(t, 3, resp.PlannedCount)
	assert.Equal(t, int64(3), resp.CreatedCount)
	assert.Len(t, inserted, 3)

	first := inserted[0]
	assert.Equal(t, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), first.SlotDate)
	assert.Equal(t, types.TimeString("10:00"), first.StartTime)
	assert.Equal(t, types.TimeString("12:00"), first.EndTime)
	assert.Equal(t, 5, first.OriginalCapacity)
	assert.Equal(t, 5, first.AvailableCapacity)
	assert.Equal(t, 0, first.BookedCount)
	assert.True(t, first.IsAvailable)
	assert.Equal(t, int64(7), first.ServiceID)

	assert.Equal(t, time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC), inserted[1].SlotDate)
	assert.Equal(t, time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC), inserted[2].SlotDate)
}

func TestMaterialize_RerunReportsOnlyNewRows(t *testing.T) {
	shifts := &mockShiftRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Shift, error) {
			return sampleShift(), nil
		},
	}
	// Повторный запуск: все строки уже есть, вставка ничего не добавила
	slots := &mockSlotRepo{
		insertBatchFn: func(ctx context.Context, batch []*domain.Slot) (int64, error) {
			return 0, nil
		},
	}
	cat := &mockCatalog{
		getServiceFn: func(ctx context.Context, serviceID int64) (*catalog.Service, error) {
			return sampleService(), nil
		},
	}

	uc := newUseCase(shifts, slots, cat, nil)

	resp, err := uc.Execute(context.Background(), sampleRequest())

	assert.NoError(t, err)
	assert.Equal(t, 3, resp.PlannedCount)
	assert.Equal(t, int64(0), resp.CreatedCount)
}

func TestMaterialize_NoOccurrencesInRange(t *testing.T) {
	shift := sampleShift()
	shift.DaysOfWeek = []int{0} // только воскресенье

	shifts := &mockShiftRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Shift, error) {
			return shift, nil
		},
	}
	slots := &mockSlotRepo{
		insertBatchFn: func(ctx context.Context, batch []*domain.Slot) (int64, error) {
			t.Fatal("insert must not be called for an empty expansion")
			return 0, nil
		},
	}
	cat := &mockCatalog{
		getServiceFn: func(ctx context.Context, serviceID int64) (*catalog.Service, error) {
			return sampleService(), nil
		},
	}

	uc := newUseCase(shifts, slots, cat, nil)

	req := sampleRequest()
	req.ToDate = time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC) // сб, воскресенье не попадает

	resp, err := uc.Execute(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, 0, resp.PlannedCount)
	assert.Equal(t, int64(0), resp.CreatedCount)
}

func TestMaterialize_InactiveShift(t *testing.T) {
	shift := sampleShift()
	shift.IsActive = false

	shifts := &mockShiftRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Shift, error) {
			return shift, nil
		},
	}

	uc := newUseCase(shifts, &mockSlotRepo{}, &mockCatalog{}, nil)

	resp, err := uc.Execute(context.Background(), sampleRequest())

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrShiftInactive)
}

func TestMaterialize_ArchivedServiceAborts(t *testing.T) {
	shifts := &mockShiftRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Shift, error) {
			return sampleShift(), nil
		},
	}
	service := sampleService()
	service.IsActive = false
	cat := &mockCatalog{
		getServiceFn: func(ctx context.Context, serviceID int64) (*catalog.Service, error) {
			return service, nil
		},
	}
	slots := &mockSlotRepo{
		insertBatchFn: func(ctx context.Context, batch []*domain.Slot) (int64, error) {
			t.Fatal("no partial writes for an archived service")
			return 0, nil
		},
	}

	uc := newUseCase(shifts, slots, cat, nil)

	resp, err := uc.Execute(context.Background(), sampleRequest())

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrServiceArchived)
}

func TestMaterialize_ServiceDeletedAborts(t *testing.T) {
	shifts := &mockShiftRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Shift, error) {
			return sampleShift(), nil
		},
	}
	cat := &mockCatalog{
		getServiceFn: func(ctx context.Context, serviceID int64) (*catalog.Service, error) {
			return nil, catalog.ErrServiceNotFound
		},
	}

	uc := newUseCase(shifts, &mockSlotRepo{}, cat, nil)

	resp, err := uc.Execute(context.Background(), sampleRequest())

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestMaterialize_ShiftNotFound(t *testing.T) {
	shifts := &mockShiftRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Shift, error) {
			return nil, shiftRepo.ErrShiftNotFound
		},
	}

	uc := newUseCase(shifts, &mockSlotRepo{}, &mockCatalog{}, nil)

	resp, err := uc.Execute(context.Background(), sampleRequest())

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrShiftNotFound)
}

func TestMaterialize_WrongTenant(t *testing.T) {
	shifts := &mockShiftRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Shift, error) {
			return sampleShift(), nil
		},
	}

	uc := newUseCase(shifts, &mockSlotRepo{}, &mockCatalog{}, nil)

	req := sampleRequest()
	req.TenantID = 2

	resp, err := uc.Execute(context.Background(), req)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrShiftNotFound)
}

func TestMaterialize_HorizonExceeded(t *testing.T) {
	uc := newUseCase(&mockShiftRepo{}, &mockSlotRepo{}, &mockCatalog{}, nil)

	req := sampleRequest()
	req.ToDate = req.FromDate.AddDate(0, 0, 200)

	resp, err := uc.Execute(context.Background(), req)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMaterialize_ReversedRange(t *testing.T) {
	uc := newUseCase(&mockShiftRepo{}, &mockSlotRepo{}, &mockCatalog{}, nil)

	req := sampleRequest()
	req.FromDate, req.ToDate = req.ToDate, req.FromDate

	resp, err := uc.Execute(context.Background(), req)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMaterialize_LockHeldElsewhere(t *testing.T) {
	shifts := &mockShiftRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Shift, error) {
			return sampleShift(), nil
		},
	}
	cat := &mockCatalog{
		getServiceFn: func(ctx context.Context, serviceID int64) (*catalog.Service, error) {
			return sampleService(), nil
		},
	}
	locker := &mockLocker{acquired: false}

	uc := newUseCase(shifts, &mockSlotRepo{}, cat, locker)

	resp, err := uc.Execute(context.Background(), sampleRequest())

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrAlreadyRunning)
}

func TestMaterialize_LockReleasedAfterRun(t *testing.T) {
	shifts := &mockShiftRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Shift, error) {
			return sampleShift(), nil
		},
	}
	slots := &mockSlotRepo{
		insertBatchFn: func(ctx context.Context, batch []*domain.Slot) (int64, error) {
			return int64(len(batch)), nil
		},
	}
	cat := &mockCatalog{
		getServiceFn: func(ctx context.Context, serviceID int64) (*catalog.Service, error) {
			return sampleService(), nil
		},
	}
	locker := &mockLocker{acquired: true}

	uc := newUseCase(shifts, slots, cat, locker)

	_, err := uc.Execute(context.Background(), sampleRequest())

	assert.NoError(t, err)
	assert.True(t, locker.unlocked)
	assert.Equal(t, DefaultLockTTL, locker.gotTTL)
}

func TestMaterialize_ConfiguredLockTTLReachesLocker(t *testing.T) {
	shifts := &mockShiftRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Shift, error) {
			return sampleShift(), nil
		},
	}
	slots := &mockSlotRepo{
		insertBatchFn: func(ctx context.Context, batch []*domain.Slot) (int64, error) {
			return int64(len(batch)), nil
		},
	}
	cat := &mockCatalog{
		getServiceFn: func(ctx context.Context, serviceID int64) (*catalog.Service, error) {
			return sampleService(), nil
		},
	}
	locker := &mockLocker{acquired: true}

	uc := NewUseCase(shifts, slots, cat, locker, 120, nopLogger{}, WithLockTTL(45*time.Second))
	uc.timeProvider = fixedTimeProvider{now: testNow}

	_, err := uc.Execute(context.Background(), sampleRequest())

	assert.NoError(t, err)
	assert.Equal(t, 45*time.Second, locker.gotTTL)
}
