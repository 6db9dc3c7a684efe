package repair_booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
	bookingRepo "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/infra/storage/booking"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/txmanager"
)

// --- Mocks ---

type mockBookingRepo struct {
	getByIDForUpdateFn       func(ctx context.Context, id int64) (*domain.Booking, error)
	updateServiceIDFn        func(ctx context.Context, id int64, serviceID int64) error
	listMismatchedByTenantFn func(ctx context.Context, tenantID int64) ([]*domain.Booking, []int64, error)
}

func (m *mockBookingRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return m.getByIDForUpdateFn(ctx, id)
}

func (m *mockBookingRepo) UpdateServiceID(ctx context.Context, id int64, serviceID int64) error {
	return m.updateServiceIDFn(ctx, id, serviceID)
}

func (m *mockBookingRepo) ListMismatchedByTenant(ctx context.Context, tenantID int64) ([]*domain.Booking, []int64, error) {
	return m.listMismatchedByTenantFn(ctx, tenantID)
}

type mockSlotRepo struct {
	getOwningServiceIDFn func(ctx context.Context, slotID int64) (int64, error)
}

func (m *mockSlotRepo) GetOwningServiceID(ctx context.Context, slotID int64) (int64, error) {
	return m.getOwningServiceIDFn(ctx, slotID)
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

// --- Tests ---

func TestRepair_UpdatesDriftedBooking(t *testing.T) {
	var updatedServiceID int64
	bookings := &mockBookingRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return sampleBooking(), nil
		},
		updateServiceIDFn: func(ctx context.Context, id int64, serviceID int64) error {
			updatedServiceID = serviceID
			return nil
		},
	}
	slots := &mockSlotRepo{
		getOwningServiceIDFn: func(ctx context.Context, slotID int64) (int64, error) {
			return 8, nil
		},
	}

	uc := NewUseCase(bookings, slots, passthroughTxManager{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, BookingID: 100})

	assert.NoError(t, err)
	assert.True(t, resp.Repaired)
	assert.Equal(t, int64(7), resp.PrevServiceID)
	assert.Equal(t, int64(8), resp.ServiceID)
	assert.Equal(t, int64(8), updatedServiceID)
}

func TestRepair_ConsistentBookingIsNoop(t *testing.T) {
	bookings := &mockBookingRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return sampleBooking(), nil
		},
		updateServiceIDFn: func(ctx context.Context, id int64, serviceID int64) error {
			t.Fatal("consistent booking must not be updated")
			return nil
		},
	}
	slots := &mockSlotRepo{
		getOwningServiceIDFn: func(ctx context.Context, slotID int64) (int64, error) {
			return 7, nil
		},
	}

	uc := NewUseCase(bookings, slots, passthroughTxManager{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, BookingID: 100})

	assert.NoError(t, err)
	assert.False(t, resp.Repaired)
	assert.Equal(t, int64(7), resp.ServiceID)
}

func TestRepair_BookingNotFound(t *testing.T) {
	bookings := &mockBookingRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return nil, bookingRepo.ErrBookingNotFound
		},
	}

	uc := NewUseCase(bookings, &mockSlotRepo{}, passthroughTxManager{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, BookingID: 100})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepair_WrongTenant(t *testing.T) {
	bookings := &mockBookingRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return sampleBooking(), nil
		},
	}

	uc := NewUseCase(bookings, &mockSlotRepo{}, passthroughTxManager{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 2, BookingID: 100})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepairTenant_RepairsAllMismatched(t *testing.T) {
	first := sampleBooking()
	second := sampleBooking()
	second.ID = 101
	second.SlotID = 11

	updated := map[int64]int64{}
	bookings := &mockBookingRepo{
		listMismatchedByTenantFn: func(ctx context.Context, tenantID int64) ([]*domain.Booking, []int64, error) {
			return []*domain.Booking{first, second}, []int64{8, 9}, nil
		},
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			if id == first.ID {
				return first, nil
			}
			return second, nil
		},
		updateServiceIDFn: func(ctx context.Context, id int64, serviceID int64) error {
			updated[id] = serviceID
			return nil
		},
	}
	slots := &mockSlotRepo{
		getOwningServiceIDFn: func(ctx context.Context, slotID int64) (int64, error) {
			if slotID == first.SlotID {
				return 8, nil
			}
			return 9, nil
		},
	}

	uc := NewUseCase(bookings, slots, passthroughTxManager{}, nopLogger{})

	resp, err := uc.ExecuteTenant(context.Background(), &TenantRequest{TenantID: 1})

	assert.NoError(t, err)
	assert.Equal(t, 2, resp.MismatchCount)
	assert.Equal(t, 2, resp.RepairedCount)
	assert.Equal(t, 0, resp.FailedCount)
	assert.Equal(t, int64(8), updated[100])
	assert.Equal(t, int64(9), updated[101])
	assert.Len(t, resp.Repaired, 2)
}

func TestRepairTenant_PartialFailureKeepsGoing(t *testing.T) {
	first := sampleBooking()
	second := sampleBooking()
	second.ID = 101

	bookings := &mockBookingRepo{
		listMismatchedByTenantFn: func(ctx context.Context, tenantID int64) ([]*domain.Booking, []int64, error) {
			return []*domain.Booking{first, second}, []int64{8, 8}, nil
		},
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			if id == first.ID {
				return nil, txmanager.ErrLockTimeout
			}
			return second, nil
		},
		updateServiceIDFn: func(ctx context.Context, id int64, serviceID int64) error {
			return nil
		},
	}
	slots := &mockSlotRepo{
		getOwningServiceIDFn: func(ctx context.Context, slotID int64) (int64, error) {
			return 8, nil
		},
	}

	uc := NewUseCase(bookings, slots, passthroughTxManager{}, nopLogger{})

	resp, err := uc.ExecuteTenant(context.Background(), &TenantRequest{TenantID: 1})

	assert.NoError(t, err)
	assert.Equal(t, 2, resp.MismatchCount)
	assert.Equal(t, 1, resp.RepairedCount)
	assert.Equal(t, 1, resp.FailedCount)
}

func TestRepairTenant_InvalidTenant(t *testing.T) {
	uc := NewUseCase(&mockBookingRepo{}, &mockSlotRepo{}, passthroughTxManager{}, nopLogger{})

	resp, err := uc.ExecuteTenant(context.Background(), &TenantRequest{TenantID: 0})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRepair_LockTimeoutMapsToBusy(t *testing.T) {
	bookings := &mockBookingRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return nil, txmanager.ErrLockTimeout
		},
	}

	uc := NewUseCase(bookings, &mockSlotRepo{}, passthroughTxManager{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, BookingID: 100})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrBusy)
}
