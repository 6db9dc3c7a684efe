package release_booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
	bookingRepo "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/infra/storage/booking"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/ptr"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/txmanager"
)

// --- Mocks ---

type mockBookingRepo struct {
	getByIDForUpdateFn func(ctx context.Context, id int64) (*domain.Booking, error)
	cancelFn           func(ctx context.Context, id int64, reason string) error
}

func (m *mockBookingRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return m.getByIDForUpdateFn(ctx, id)
}

func (m *mockBookingRepo) Cancel(ctx context.Context, id int64, reason string) error {
	return m.cancelFn(ctx, id, reason)
}

type mockSlotRepo struct {
	getByIDForUpdateFn func(ctx context.Context, id int64) (*domain.Slot, error)
	updateCapacityFn   func(ctx context.Context, id int64, original, available, booked int) error
}

func (m *mockSlotRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Slot, error) {
	return m.getByIDForUpdateFn(ctx, id)
}

func (m *mockSlotRepo) UpdateCapacity(ctx context.Context, id int64, original, available, booked int) error {
	return m.updateCapacityFn(ctx, id, original, available, booked)
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

func sampleSlot() *domain.Slot {
	return &domain.Slot{
		ID:                10,
		TenantID:          1,
		ServiceID:         7,
		OriginalCapacity:  5,
		AvailableCapacity: 3,
		BookedCount:       2,
		IsAvailable:       true,
	}
}

func sampleRequest() *Request {
	return &Request{TenantID: 1, BookingID: 100}
}

// --- Tests ---

func TestRelease_Success(t *testing.T) {
	var savedAvailable, savedBooked int
	var cancelledID int64
	var cancelReason string

	bookings := &mockBookingRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return sampleBooking(), nil
		},
		cancelFn: func(ctx context.Context, id int64, reason string) error {
			cancelledID = id
			cancelReason = reason
			return nil
		},
	}
	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Slot, error) {
			return sampleSlot(), nil
		},
		updateCapacityFn: func(ctx context.Context, id int64, original, available, booked int) error {
			savedAvailable, savedBooked = available, booked
			return nil
		},
	}

	uc := NewUseCase(bookings, slots, passthroughTxManager{}, nil, nopLogger{})

	req := sampleRequest()
	req.Reason = ptr.Ptr("customer no-show")

	resp, err := uc.Execute(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, int64(100), cancelledID)
	assert.Equal(t, "customer no-show", cancelReason)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, 5, resp.RemainingCapacity)

	// Возврат единиц восстанавливает инвариант: 5 - 0 = 5 свободно
	assert.Equal(t, 5, savedAvailable)
	assert.Equal(t, 0, savedBooked)
}

func TestRelease_OverSubscribedSlotStaysClamped(t *testing.T) {
	// Слот пережат ресинком: original=3, booked=5, available=0.
	// Возврат 2 единиц оставляет booked=3 и available=0
	slot := sampleSlot()
	slot.OriginalCapacity = 3
	slot.AvailableCapacity = 0
	slot.BookedCount = 5

	var savedAvailable, savedBooked int
	bookings := &mockBookingRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return sampleBooking(), nil
		},
		cancelFn: func(ctx context.Context, id int64, reason string) error { return nil },
	}
	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Slot, error) {
			return slot, nil
		},
		updateCapacityFn: func(ctx context.Context, id int64, original, available, booked int) error {
			savedAvailable, savedBooked = available, booked
			return nil
		},
	}

	uc := NewUseCase(bookings, slots, passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), sampleRequest())

	assert.NoError(t, err)
	assert.Equal(t, 3, savedBooked)
	assert.Equal(t, 0, savedAvailable)
	assert.Equal(t, 0, resp.RemainingCapacity)
}

func TestRelease_UnavailableSlotStillReleases(t *testing.T) {
	// Ручной флаг is_available=false блокирует только новые резервирования
	slot := sampleSlot()
	slot.IsAvailable = false

	bookings := &mockBookingRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return sampleBooking(), nil
		},
		cancelFn: func(ctx context.Context, id int64, reason string) error { return nil },
	}
	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Slot, error) {
			return slot, nil
		},
		updateCapacityFn: func(ctx context.Context, id int64, original, available, booked int) error {
			return nil
		},
	}

	uc := NewUseCase(bookings, slots, passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), sampleRequest())

	assert.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
}

func TestRelease_AlreadyCancelled(t *testing.T) {
	booking := sampleBooking()
	booking.Status = domain.StatusCancelled

	bookings := &mockBookingRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return booking, nil
		},
	}
	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Slot, error) {
			t.Fatal("slot must not be locked for an already cancelled booking")
			return nil, nil
		},
	}

	uc := NewUseCase(bookings, slots, passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), sampleRequest())

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestRelease_NotCancellableStatus(t *testing.T) {
	booking := sampleBooking()
	booking.Status = domain.StatusCompleted

	bookings := &mockBookingRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return booking, nil
		},
	}

	uc := NewUseCase(bookings, &mockSlotRepo{}, passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), sampleRequest())

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrNotCancellable)
}

func TestRelease_WrongTenant(t *testing.T) {
	bookings := &mockBookingRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return sampleBooking(), nil
		},
	}

	uc := NewUseCase(bookings, &mockSlotRepo{}, passthroughTxManager{}, nil, nopLogger{})

	req := sampleRequest()
	req.TenantID = 2

	resp, err := uc.Execute(context.Background(), req)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRelease_BookingNotFound(t *testing.T) {
	bookings := &mockBookingRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return nil, bookingRepo.ErrBookingNotFound
		},
	}

	uc := NewUseCase(bookings, &mockSlotRepo{}, passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), sampleRequest())

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRelease_LockTimeoutMapsToBusy(t *testing.T) {
	bookings := &mockBookingRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return nil, txmanager.ErrLockTimeout
		},
	}

	uc := NewUseCase(bookings, &mockSlotRepo{}, passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), sampleRequest())

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrBusy)
}

func TestRelease_ValidationErrors(t *testing.T) {
	uc := NewUseCase(&mockBookingRepo{}, &mockSlotRepo{}, passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, BookingID: 0})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInvalidInput)

	resp, err = uc.Execute(context.Background(), &Request{TenantID: 0, BookingID: 100})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
