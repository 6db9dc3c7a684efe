package sync_capacity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
	catalog "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/integrations/servicecatalog"
)

// --- Mocks ---

type mockSlotRepo struct {
	slots []*domain.Slot
	saved map[int64][3]int
}

func (m *mockSlotRepo) ListFutureByService(ctx context.Context, serviceID int64, now time.Time) ([]*domain.Slot, error) {
	return m.slots, nil
}

func (m *mockSlotRepo) UpdateCapacity(ctx context.Context, id int64, original, available, booked int) error {
	if m.saved == nil {
		m.saved = make(map[int64][3]int)
	}
	m.saved[id] = [3]int{original, available, booked}
	return nil
}

type mockCatalog struct {
	service *catalog.Service
	err     error
}

func (m *mockCatalog) GetService(ctx context.Context, serviceID int64) (*catalog.Service, error) {
	return m.service, m.err
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

func slotWith(id int64, original, available, booked int) *domain.Slot {
	return &domain.Slot{
		ID:                id,
		ServiceID:         7,
		OriginalCapacity:  original,
		AvailableCapacity: available,
		BookedCount:       booked,
		IsAvailable:       true,
	}
}

func serviceWithCapacity(capacity int) *catalog.Service {
	return &catalog.Service{ID: 7, TenantID: 1, CapacityPerSlot: capacity, IsActive: true}
}

// --- Tests ---

func TestSync_RaisesCapacity(t *testing.T) {
	slots := &mockSlotRepo{slots: []*domain.Slot{
		slotWith(1, 5, 5, 0),
		slotWith(2, 5, 2, 3),
	}}
	cat := &mockCatalog{service: serviceWithCapacity(8)}

	uc := NewUseCase(slots, cat, passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 7})

	assert.NoError(t, err)
	assert.Equal(t, 8, resp.NewCapacity)
	assert.Equal(t, 2, resp.ScannedCount)
	assert.Equal(t, 2, resp.UpdatedCount)
	assert.Equal(t, 0, resp.ClampedCount)

	assert.Equal(t, [3]int{8, 8, 0}, slots.saved[1])
	assert.Equal(t, [3]int{8, 5, 3}, slots.saved[2])
}

func TestSync_LowersCapacityWithClamp(t *testing.T) {
	// Сценарий: original=5, booked=3, оператор снижает вместимость до 2.
	// Слот остается пережатым: original=2, available=0, бронь не тронута
	slots := &mockSlotRepo{slots: []*domain.Slot{
		slotWith(1, 5, 2, 3),
	}}
	cat := &mockCatalog{service: serviceWithCapacity(2)}

	uc := NewUseCase(slots, cat, passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 7})

	assert.NoError(t, err)
	assert.Equal(t, 1, resp.UpdatedCount)
	assert.Equal(t, 1, resp.ClampedCount)
	assert.Equal(t, []int64{1}, resp.ClampedSlotIDs)

	// booked_count не изменился - синхронизатор не отменяет бронирования
	assert.Equal(t, [3]int{2, 0, 3}, slots.saved[1])
}

func TestSync_SkipsAlreadyConsistentSlots(t *testing.T) {
	slots := &mockSlotRepo{slots: []*domain.Slot{
		slotWith(1, 5, 5, 0),
		slotWith(2, 5, 3, 2),
	}}
	cat := &mockCatalog{service: serviceWithCapacity(5)}

	uc := NewUseCase(slots, cat, passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 7})

	assert.NoError(t, err)
	assert.Equal(t, 2, resp.ScannedCount)
	assert.Equal(t, 0, resp.UpdatedCount)
	assert.Empty(t, slots.saved)
}

func TestSync_RepairsDriftedCountersAtSameCapacity(t *testing.T) {
	// original совпадает с каталогом, но счетчики разъехались
	slots := &mockSlotRepo{slots: []*domain.Slot{
		slotWith(1, 5, 4, 2),
	}}
	cat := &mockCatalog{service: serviceWithCapacity(5)}

	uc := NewUseCase(slots, cat, passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 7})

	assert.NoError(t, err)
	assert.Equal(t, 1, resp.UpdatedCount)
	assert.Equal(t, [3]int{5, 3, 2}, slots.saved[1])
}

func TestSync_ServiceNotFound(t *testing.T) {
	cat := &mockCatalog{err: catalog.ErrServiceNotFound}

	uc := NewUseCase(&mockSlotRepo{}, cat, passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 7})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestSync_InvalidCapacityFromCatalog(t *testing.T) {
	cat := &mockCatalog{service: serviceWithCapacity(0)}

	uc := NewUseCase(&mockSlotRepo{}, cat, passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 7})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInvalidCapacity)
}

func TestSync_InvalidServiceID(t *testing.T) {
	uc := NewUseCase(&mockSlotRepo{}, &mockCatalog{}, passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 0})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSync_NoFutureSlots(t *testing.T) {
	cat := &mockCatalog{service: serviceWithCapacity(5)}

	uc := NewUseCase(&mockSlotRepo{}, cat, passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 7})

	assert.NoError(t, err)
	assert.Equal(t, 0, resp.ScannedCount)
	assert.Equal(t, 0, resp.UpdatedCount)
}
