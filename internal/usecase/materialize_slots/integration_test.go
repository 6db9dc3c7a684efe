//go:build integration

package materialize_slots_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shiftRepo "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/infra/storage/shift"
	slotRepo "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/infra/storage/slot"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/integrations/servicecatalog"
	materializeSlots "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/usecase/materialize_slots"
)

// Интеграционные тесты гоняются против реального Postgres со схемой
// из migrations/. Запуск:
//
//	TEST_DATABASE_DSN="host=localhost port=5432 user=postgres password=postgres dbname=reservations_test sslmode=disable" \
//	go test -tags=integration ./internal/usecase/materialize_slots/

type testLogger struct{}

func (testLogger) Info(format string, v ...interface{})  {}
func (testLogger) Warn(format string, v ...interface{})  {}
func (testLogger) Error(format string, v ...interface{}) {}

// stubCatalog отдает фиксированную услугу вместо HTTP-каталога
type stubCatalog struct {
	service *servicecatalog.Service
}

func (s *stubCatalog) GetService(ctx context.Context, serviceID int64) (*servicecatalog.Service, error) {
	return s.service, nil
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN is not set")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Ping())

	t.Cleanup(func() { db.Close() })
	return db
}

// seedShift создает смену на все дни недели, возвращает ее ID.
// Строки изолированы уникальным tenant_id
func seedShift(t *testing.T, db *sql.DB, tenantID, serviceID int64) int64 {
	t.Helper()

	var shiftID int64
	err := db.QueryRowContext(context.Background(), `
		INSERT INTO shifts (tenant_id, service_id, days_of_week, start_time, end_time, is_active)
		VALUES ($1, $2, '{0,1,2,3,4,5,6}', '10:00', '12:00', TRUE)
		RETURNING id`, tenantID, serviceID).Scan(&shiftID)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Exec("DELETE FROM slots WHERE tenant_id = $1", tenantID)
		db.Exec("DELETE FROM shifts WHERE tenant_id = $1", tenantID)
	})

	return shiftID
}

func newIDs() (int64, int64) {
	base := time.Now().UnixNano() % 1_000_000_000
	return base, base + 1
}

// Повторная материализация пересекающегося диапазона не создает дубликатов:
// идемпотентность обеспечивает уникальный индекс (shift_id, slot_date,
// start_time) и вставка с ON CONFLICT DO NOTHING
func TestIntegration_Materialize_OverlappingRerunCreatesNoDuplicates(t *testing.T) {
	db := openTestDB(t)
	tenantID, serviceID := newIDs()

	shiftID := seedShift(t, db, tenantID, serviceID)

	uc := materializeSlots.NewUseCase(
		shiftRepo.NewRepository(db),
		slotRepo.NewRepository(db),
		&stubCatalog{service: &servicecatalog.Service{
			ID:              serviceID,
			TenantID:        tenantID,
			Name:            "consultation",
			CapacityPerSlot: 4,
			IsActive:        true,
		}},
		nil,
		0,
		testLogger{},
	)

	from := time.Now().UTC().AddDate(0, 0, 7)
	to := from.AddDate(0, 0, 6)
	req := &materializeSlots.Request{
		TenantID: tenantID,
		ShiftID:  shiftID,
		FromDate: from,
		ToDate:   to,
	}

	first, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 7, first.PlannedCount)
	assert.EqualValues(t, 7, first.CreatedCount)

	// Повтор того же диапазона: запланировано столько же, вставлено ноль
	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 7, second.PlannedCount)
	assert.EqualValues(t, 0, second.CreatedCount)

	// Частично пересекающийся диапазон довставляет только новые даты
	third, err := uc.Execute(context.Background(), &materializeSlots.Request{
		TenantID: tenantID,
		ShiftID:  shiftID,
		FromDate: from.AddDate(0, 0, 3),
		ToDate:   to.AddDate(0, 0, 3),
	})
	require.NoError(t, err)
	assert.Equal(t, 7, third.PlannedCount)
	assert.EqualValues(t, 3, third.CreatedCount)

	// В таблице ровно по одному слоту на дату
	var total, distinct int
	err = db.QueryRow(`
		SELECT COUNT(*), COUNT(DISTINCT (slot_date, start_time))
		FROM slots WHERE shift_id = $1`, shiftID).Scan(&total, &distinct)
	require.NoError(t, err)
	assert.Equal(t, 10, total)
	assert.Equal(t, total, distinct)
}
