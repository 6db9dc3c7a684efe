package reserve_slot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/domain"
	slotRepo "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/infra/storage/slot"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/txmanager"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/types"
)

// --- Mocks ---

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

type mockBookingRepo struct {
	createFn func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	return m.createFn(ctx, booking)
}

type passthroughTxManager struct {
	err error // возвращается вместо результата fn, если задана
}

func (m *passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return m.err
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// --- Helpers ---

func sampleSlot() *domain.Slot {
	return &domain.Slot{
		ID:                10,
		TenantID:          1,
		ShiftID:           3,
		ServiceID:         7,
		SlotDate:          time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		StartTime:         types.TimeString("10:00"),
		EndTime:           types.TimeString("11:00"),
		OriginalCapacity:  5,
		AvailableCapacity: 5,
		BookedCount:       0,
		IsAvailable:       true,
	}
}

func sampleRequest() *Request {
	return &Request{
		TenantID:     1,
		SlotID:       10,
		VisitorCount: 2,
		CustomerName: "Omar Hassan",
	}
}

// --- Tests ---

func TestReserve_Success(t *testing.T) {
	slot := sampleSlot()

	var savedOriginal, savedAvailable, savedBooked int
	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Slot, error) {
			return slot, nil
		},
		updateCapacityFn: func(ctx context.Context, id int64, original, available, booked int) error {
			savedOriginal, savedAvailable, savedBooked = original, available, booked
			return nil
		},
	}
	bookings := &mockBookingRepo{
		createFn: func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
			created := *booking
			created.ID = 100
			created.CreatedAt = time.Now()
			return &created, nil
		},
	}

	uc := NewUseCase(slots, bookings, &passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), sampleRequest())

	assert.NoError(t, err)
	assert.Equal(t, int64(100), resp.BookingID)
	assert.Equal(t, int64(7), resp.ServiceID)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, 3, resp.RemainingCapacity)

	// Инвариант сохранения вместимости: available + booked == original
	assert.Equal(t, 5, savedOriginal)
	assert.Equal(t, 3, savedAvailable)
	assert.Equal(t, 2, savedBooked)
}

func TestReserve_PendingStatus(t *testing.T) {
	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Slot, error) {
			return sampleSlot(), nil
		},
		updateCapacityFn: func(ctx context.Context, id int64, original, available, booked int) error {
			return nil
		},
	}
	bookings := &mockBookingRepo{
		createFn: func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
			created := *booking
			created.ID = 101
			return &created, nil
		},
	}

	uc := NewUseCase(slots, bookings, &passthroughTxManager{}, nil, nopLogger{})

	req := sampleRequest()
	req.AsPending = true

	resp, err := uc.Execute(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
}

func TestReserve_ExactRemainingCapacity(t *testing.T) {
	slot := sampleSlot()
	slot.AvailableCapacity = 2
	slot.BookedCount = 3

	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Slot, error) {
			return slot, nil
		},
		updateCapacityFn: func(ctx context.Context, id int64, original, available, booked int) error {
			return nil
		},
	}
	bookings := &mockBookingRepo{
		createFn: func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
			created := *booking
			created.ID = 102
			return &created, nil
		},
	}

	uc := NewUseCase(slots, bookings, &passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), sampleRequest())

	// Запрос ровно на остаток проходит и обнуляет available
	assert.NoError(t, err)
	assert.Equal(t, 0, resp.RemainingCapacity)
}

func TestReserve_InsufficientCapacity(t *testing.T) {
	slot := sampleSlot()
	slot.AvailableCapacity = 1
	slot.BookedCount = 4

	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Slot, error) {
			return slot, nil
		},
		updateCapacityFn: func(ctx context.Context, id int64, original, available, booked int) error {
			t.Fatal("capacity must not be updated when the check fails")
			return nil
		},
	}
	bookings := &mockBookingRepo{
		createFn: func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
			t.Fatal("booking must not be created when the check fails")
			return nil, nil
		},
	}

	uc := NewUseCase(slots, bookings, &passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), sampleRequest())

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInsufficientCapacity)

	var capErr *InsufficientCapacityError
	assert.ErrorAs(t, err, &capErr)
	assert.Equal(t, 2, capErr.Requested)
	assert.Equal(t, 1, capErr.Remaining)
}

func TestReserve_SlotUnavailable(t *testing.T) {
	slot := sampleSlot()
	slot.IsAvailable = false

	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Slot, error) {
			return slot, nil
		},
	}

	uc := NewUseCase(slots, &mockBookingRepo{}, &passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), sampleRequest())

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestReserve_SlotNotFound(t *testing.T) {
	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Slot, error) {
			return nil, slotRepo.ErrSlotNotFound
		},
	}

	uc := NewUseCase(slots, &mockBookingRepo{}, &passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), sampleRequest())

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestReserve_ForeignTenantSlotHiddenAsNotFound(t *testing.T) {
	slot := sampleSlot()
	slot.TenantID = 2

	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Slot, error) {
			return slot, nil
		},
		updateCapacityFn: func(ctx context.Context, id int64, original, available, booked int) error {
			t.Fatal("foreign tenant slot must not be modified")
			return nil
		},
	}

	uc := NewUseCase(slots, &mockBookingRepo{}, &passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), sampleRequest())

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrSlotNotFound)
	assert.Equal(t, 5, slot.AvailableCapacity)
}

func TestReserve_LockTimeoutMapsToBusy(t *testing.T) {
	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Slot, error) {
			return nil, txmanager.ErrLockTimeout
		},
	}

	uc := NewUseCase(slots, &mockBookingRepo{}, &passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), sampleRequest())

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrBusy)
}

func TestReserve_ValidationErrors(t *testing.T) {
	uc := NewUseCase(&mockSlotRepo{}, &mockBookingRepo{}, &passthroughTxManager{}, nil, nopLogger{})

	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{"zero visitors", func(r *Request) { r.VisitorCount = 0 }},
		{"negative visitors", func(r *Request) { r.VisitorCount = -1 }},
		{"zero slot id", func(r *Request) { r.SlotID = 0 }},
		{"zero tenant id", func(r *Request) { r.TenantID = 0 }},
		{"empty customer name", func(r *Request) { r.CustomerName = "  " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := sampleRequest()
			tt.mutate(req)

			resp, err := uc.Execute(context.Background(), req)

			assert.Nil(t, resp)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestReserve_CreateBookingFailure(t *testing.T) {
	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.Slot, error) {
			return sampleSlot(), nil
		},
		updateCapacityFn: func(ctx context.Context, id int64, original, available, booked int) error {
			return nil
		},
	}
	bookings := &mockBookingRepo{
		createFn: func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
			return nil, errors.New("insert failed")
		},
	}

	uc := NewUseCase(slots, bookings, &passthroughTxManager{}, nil, nopLogger{})

	resp, err := uc.Execute(context.Background(), sampleRequest())

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInternal)
}
