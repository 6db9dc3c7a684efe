package move_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
	slotRepo "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/infra/storage/slot"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/ptr"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/types"
)

// --- Mocks ---

type mockBookingRepo struct {
	getByIDForUpdateFn func(ctx context.Context, id int64) (*domain.Booking, error)
	updateSlotFn       func(ctx context.Context, id int64, slotID int64, visitorCount int) error
}

func (m *mockBookingRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return m.getByIDForUpdateFn(ctx, id)
}

func (m *mockBookingRepo) UpdateSlot(ctx context.Context, id int64, slotID int64, visitorCount int) error {
	return m.updateSlotFn(ctx, id, slotID, visitorCount)
}

// mockSlotRepo хранит слоты по ID и записывает порядок захвата блокировок
type mockSlotRepo struct {
	slots         map[int64]*domain.Slot
	lockOrder     []int64
	saved         map[int64][3]int // id -> {original, available, booked}
	owningService map[int64]int64  // переопределение владеющей услуги слота
}

func newMockSlotRepo(slots ...*domain.Slot) *mockSlotRepo {
	m := &mockSlotRepo{
		slots: make(map[int64]*domain.Slot),
		saved: make(map[int64][3]int),
	}
	for _, s := range slots {
		m.slots[s.ID] = s
	}
	return m
}

func (m *mockSlotRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Slot, error) {
	m.lockOrder = append(m.lockOrder, id)
	s, ok := m.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return s, nil
}

// GetOwningServiceID отвечает услугой самого слота; тест на дрейф
// переопределяет ответ через owningService
func (m *mockSlotRepo) GetOwningServiceID(ctx context.Context, slotID int64) (int64, error) {
	if m.owningService != nil {
		if id, ok := m.owningService[slotID]; ok {
			return id, nil
		}
	}
	s, ok := m.slots[slotID]
	if !ok {
		return 0, slotRepo.ErrSlotNotFound
	}
	return s.ServiceID, nil
}

func (m *mockSlotRepo) UpdateCapacity(ctx context.Context, id int64, original, available, booked int) error {
	m.saved[id] = [3]int{original, available, booked}
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// --- Helpers ---

func sampleBooking() *domain.Booking {
	return &domain.Booking{
		ID:           100,
		TenantID:     1,
		ServiceID:    7,
		SlotID:       10,
		VisitorCount: 2,
		Status:       domain.StatusConfirmed,
	}
}

func slotWith(id int64, serviceID int64, original, available, booked int) *domain.Slot {
	return &domain.Slot{
		ID:                id,
		TenantID:          1,
		ServiceID:         serviceID,
		SlotDate:          time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		StartTime:         types.TimeString("10:00"),
		EndTime:           types.TimeString("11:00"),
		OriginalCapacity:  original,
		AvailableCapacity: available,
		BookedCount:       booked,
		IsAvailable:       true,
	}
}

func bookings(b *domain.Booking) *mockBookingRepo {
	return &mockBookingRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return b, nil
		},
		updateSlotFn: func(ctx context.Context, id int64, slotID int64, visitorCount int) error {
			return nil
		},
	}
}

// --- Tests ---

func TestMove_CrossSlotSuccess(t *testing.T) {
	source := slotWith(10, 7, 5, 3, 2)
	target := slotWith(20, 7, 4, 4, 0)
	slots := newMockSlotRepo(source, target)

	var movedToSlot int64
	var movedUnits int
	repo := bookings(sampleBooking())
	repo.updateSlotFn = func(ctx context.Context, id int64, slotID int64, visitorCount int) error {
		movedToSlot, movedUnits = slotID, visitorCount
		return nil
	}

	uc := NewUseCase(repo, slots, passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, BookingID: 100, TargetSlotID: 20})

	assert.NoError(t, err)
	assert.Equal(t, int64(20), movedToSlot)
	assert.Equal(t, 2, movedUnits)
	assert.Equal(t, int64(10), resp.PrevSlotID)
	assert.Equal(t, int64(20), resp.SlotID)
	assert.Equal(t, 2, resp.RemainingCapacity)

	// Единицы вернулись в исходный слот и списались из целевого
	assert.Equal(t, [3]int{5, 5, 0}, slots.saved[10])
	assert.Equal(t, [3]int{4, 2, 2}, slots.saved[20])
}

func TestMove_LocksSlotsInAscendingIDOrder(t *testing.T) {
	// Бронь на слоте 20, цель - слот 10: блокировка все равно 10, потом 20
	booking := sampleBooking()
	booking.SlotID = 20

	source := slotWith(20, 7, 5, 3, 2)
	target := slotWith(10, 7, 4, 4, 0)
	slots := newMockSlotRepo(source, target)

	uc := NewUseCase(bookings(booking), slots, passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, BookingID: 100, TargetSlotID: 10})

	assert.NoError(t, err)
	assert.Equal(t, []int64{10, 20}, slots.lockOrder)
	assert.Equal(t, int64(10), resp.SlotID)
}

func TestMove_SameSlotResizeUp(t *testing.T) {
	slot := slotWith(10, 7, 5, 3, 2)
	slots := newMockSlotRepo(slot)

	uc := NewUseCase(bookings(sampleBooking()), slots, passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		TenantID:        1,
		BookingID:       100,
		TargetSlotID:    10,
		NewVisitorCount: ptr.Ptr(4),
	})

	assert.NoError(t, err)
	assert.Equal(t, 4, resp.VisitorCount)
	assert.Equal(t, int64(10), resp.SlotID)

	// Списана только дельта в 2 единицы
	assert.Equal(t, [3]int{5, 1, 4}, slots.saved[10])
}

func TestMove_SameSlotResizeDown(t *testing.T) {
	slot := slotWith(10, 7, 5, 3, 2)
	slots := newMockSlotRepo(slot)

	uc := NewUseCase(bookings(sampleBooking()), slots, passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		TenantID:        1,
		BookingID:       100,
		TargetSlotID:    10,
		NewVisitorCount: ptr.Ptr(1),
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, resp.VisitorCount)
	assert.Equal(t, [3]int{5, 4, 1}, slots.saved[10])
}

func TestMove_SameSlotSameCountIsNoop(t *testing.T) {
	slot := slotWith(10, 7, 5, 3, 2)
	slots := newMockSlotRepo(slot)

	repo := bookings(sampleBooking())
	repo.updateSlotFn = func(ctx context.Context, id int64, slotID int64, visitorCount int) error {
		t.Fatal("no-op move must not touch the booking row")
		return nil
	}

	uc := NewUseCase(repo, slots, passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, BookingID: 100, TargetSlotID: 10})

	assert.NoError(t, err)
	assert.Equal(t, 2, resp.VisitorCount)
	assert.Empty(t, slots.saved)
}

func TestMove_ResizeUpOverCapacity(t *testing.T) {
	slot := slotWith(10, 7, 5, 1, 4)
	slots := newMockSlotRepo(slot)

	uc := NewUseCase(bookings(sampleBooking()), slots, passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		TenantID:        1,
		BookingID:       100,
		TargetSlotID:    10,
		NewVisitorCount: ptr.Ptr(5), // дельта 3 при остатке 1
	})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInsufficientCapacity)
}

func TestMove_TargetInsufficientCapacity(t *testing.T) {
	source := slotWith(10, 7, 5, 3, 2)
	target := slotWith(20, 7, 4, 1, 3)
	slots := newMockSlotRepo(source, target)

	uc := NewUseCase(bookings(sampleBooking()), slots, passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, BookingID: 100, TargetSlotID: 20})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInsufficientCapacity)

	var capErr *InsufficientCapacityError
	assert.ErrorAs(t, err, &capErr)
	assert.Equal(t, 2, capErr.Requested)
	assert.Equal(t, 1, capErr.Remaining)

	// Счетчики не менялись
	assert.Empty(t, slots.saved)
}

func TestMove_ServiceMismatch(t *testing.T) {
	source := slotWith(10, 7, 5, 3, 2)
	target := slotWith(20, 8, 4, 4, 0) // слот другой услуги
	slots := newMockSlotRepo(source, target)

	uc := NewUseCase(bookings(sampleBooking()), slots, passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, BookingID: 100, TargetSlotID: 20})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrServiceMismatch)
}

func TestMove_ReassignedShiftBlocksMove(t *testing.T) {
	// Денормализованная услуга слота еще совпадает с бронью, но смена
	// слота административно переназначена на услугу 9
	source := slotWith(10, 7, 5, 3, 2)
	target := slotWith(20, 7, 4, 4, 0)
	slots := newMockSlotRepo(source, target)
	slots.owningService = map[int64]int64{20: 9}

	uc := NewUseCase(bookings(sampleBooking()), slots, passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, BookingID: 100, TargetSlotID: 20})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrServiceMismatch)
}

func TestMove_TargetUnavailable(t *testing.T) {
	source := slotWith(10, 7, 5, 3, 2)
	target := slotWith(20, 7, 4, 4, 0)
	target.IsAvailable = false
	slots := newMockSlotRepo(source, target)

	uc := NewUseCase(bookings(sampleBooking()), slots, passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, BookingID: 100, TargetSlotID: 20})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrTargetSlotUnavailable)
}

func TestMove_TargetSlotNotFound(t *testing.T) {
	slots := newMockSlotRepo(slotWith(10, 7, 5, 3, 2))

	uc := NewUseCase(bookings(sampleBooking()), slots, passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, BookingID: 100, TargetSlotID: 99})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrTargetSlotNotFound)
}

func TestMove_ForeignTenantTargetHiddenAsNotFound(t *testing.T) {
	// Слот другого тенанта на той же услуге каталога
	target := slotWith(20, 7, 4, 4, 0)
	target.TenantID = 2
	slots := newMockSlotRepo(slotWith(10, 7, 5, 3, 2), target)

	uc := NewUseCase(bookings(sampleBooking()), slots, passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, BookingID: 100, TargetSlotID: 20})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrTargetSlotNotFound)
	assert.Empty(t, slots.saved)
}

func TestMove_MissingSourceSlotIsInternal(t *testing.T) {
	// Исходного слота брони нет в БД - нарушение целостности, а не 404 по цели
	slots := newMockSlotRepo(slotWith(20, 7, 4, 4, 0))

	uc := NewUseCase(bookings(sampleBooking()), slots, passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, BookingID: 100, TargetSlotID: 20})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInternal)
	assert.NotErrorIs(t, err, ErrTargetSlotNotFound)
}

func TestMove_CancelledBookingNotMovable(t *testing.T) {
	booking := sampleBooking()
	booking.Status = domain.StatusCancelled

	uc := NewUseCase(bookings(booking), newMockSlotRepo(), passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, BookingID: 100, TargetSlotID: 20})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrNotMovable)
}

func TestMove_WrongTenant(t *testing.T) {
	uc := NewUseCase(bookings(sampleBooking()), newMockSlotRepo(), passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 2, BookingID: 100, TargetSlotID: 20})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
