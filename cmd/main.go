package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	checkConsistencyHandler "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/handlers/check_consistency"
	createShiftHandler "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/handlers/create_shift"
	getBookingHandler "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/handlers/get_booking"
	getServiceShiftsHandler "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/handlers/get_service_shifts"
	getServiceSlotsHandler "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/handlers/get_service_slots"
	getTenantBookingsHandler "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/handlers/get_tenant_bookings"
	materializeSlotsHandler "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/handlers/materialize_slots"
	moveBookingHandler "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/handlers/move_booking"
	releaseBookingHandler "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/handlers/release_booking"
	repairBookingHandler "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/handlers/repair_booking"
	reserveSlotHandler "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/handlers/reserve_slot"
	setSlotAvailabilityHandler "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/handlers/set_slot_availability"
	syncCapacityHandler "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/handlers/sync_capacity"
	updateShiftHandler "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/handlers/update_shift"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/api/middleware"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/config"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/infra/events"
	bookingRepo "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/infra/storage/booking"
	shiftRepo "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/infra/storage/shift"
	slotRepo "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/infra/storage/slot"
	catalogClient "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/integrations/servicecatalog"
	bookingsService "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/service/bookings"
	shiftsService "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/service/shifts"
	slotsService "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/service/slots"
	checkConsistencyUC "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/usecase/check_consistency"
	materializeSlotsUC "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/usecase/materialize_slots"
	moveBookingUC "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/usecase/move_booking"
	releaseBookingUC "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/usecase/release_booking"
	repairBookingUC "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/usecase/repair_booking"
	reserveSlotUC "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/usecase/reserve_slot"
	syncCapacityUC "github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/internal/usecase/sync_capacity"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/dbmetrics"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/distlock"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/logger"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/metrics"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/simpletxmanager"
	"github.com/Mahmoudzaineldeen/booktifi-supabase-sub017/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting reservation engine...")
	log.Info("Configuration loaded from config.toml")
	log.Debug("Effective settings: horizon_days=%d, lock_timeout_ms=%d, serializable_retries=%d, lock_ttl_s=%d",
		cfg.Reservations.MaxHorizonDays, cfg.Reservations.LockTimeoutMS,
		cfg.Reservations.SerializableRetries, cfg.Locks.TTL)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем клиент каталога услуг
	catalog := catalogClient.NewClient(
		cfg.ServiceCatalog.URL,
		time.Duration(cfg.ServiceCatalog.Timeout)*time.Second,
		log,
	)
	log.Info("Service catalog client initialized (url=%s, timeout=%ds)",
		cfg.ServiceCatalog.URL, cfg.ServiceCatalog.Timeout)

	// Инициализируем репозитории и менеджер транзакций (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		shiftRepository   *shiftRepo.Repository
		slotRepository    *slotRepo.Repository
	)

	// Интерфейс менеджера транзакций (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		shiftRepository = shiftRepo.NewRepository(wrappedDB)
		slotRepository = slotRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(
			wrappedDB,
			txmanager.WithLockTimeout(cfg.Reservations.LockTimeoutMS),
			txmanager.WithMaxRetries(cfg.Reservations.SerializableRetries),
		)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		shiftRepository = shiftRepo.NewRepository(db)
		slotRepository = slotRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(
			db,
			simpletxmanager.WithLockTimeout(cfg.Reservations.LockTimeoutMS),
			simpletxmanager.WithMaxRetries(cfg.Reservations.SerializableRetries),
		)
	}

	// Публикация событий бронирований (опционально)
	var (
		reservePublisher reserveSlotUC.EventPublisher
		releasePublisher releaseBookingUC.EventPublisher
		movePublisher    moveBookingUC.EventPublisher
	)
	if cfg.Events.Enabled {
		publisher, err := events.NewPublisher(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()

		reservePublisher = publisher
		releasePublisher = publisher
		movePublisher = publisher
		log.Info("Event publisher initialized (exchange=%s)", cfg.Events.Exchange)
	}

	// Распределенные блокировки административных операций (опционально)
	var (
		materializeLocker materializeSlotsUC.Locker
		syncLocker        syncCapacityUC.Locker
	)
	if cfg.Locks.Enabled {
		locker, err := distlock.New(cfg.Locks.RedisAddr)
		if err != nil {
			log.Fatal("Failed to connect to Redis: %v", err)
		}
		defer locker.Close()

		materializeLocker = locker
		syncLocker = locker
		log.Info("Distributed locks enabled (redis=%s)", cfg.Locks.RedisAddr)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, log)
	slotSvc := slotsService.NewService(slotRepository, log)
	shiftSvc := shiftsService.NewService(shiftRepository, catalog, log)

	// Инициализируем use cases
	reserveSlotUseCase := reserveSlotUC.NewUseCase(
		slotRepository,
		bookingRepository,
		txMgr,
		reservePublisher,
		log,
	)
	releaseBookingUseCase := releaseBookingUC.NewUseCase(
		bookingRepository,
		slotRepository,
		txMgr,
		releasePublisher,
		log,
	)
	moveBookingUseCase := moveBookingUC.NewUseCase(
		bookingRepository,
		slotRepository,
		txMgr,
		movePublisher,
		log,
	)
	lockTTL := time.Duration(cfg.Locks.TTL) * time.Second
	materializeSlotsUseCase := materializeSlotsUC.NewUseCase(
		shiftRepository,
		slotRepository,
		catalog,
		materializeLocker,
		cfg.Reservations.MaxHorizonDays,
		log,
		materializeSlotsUC.WithLockTTL(lockTTL),
	)
	syncCapacityUseCase := syncCapacityUC.NewUseCase(
		slotRepository,
		catalog,
		txMgr,
		syncLocker,
		log,
		syncCapacityUC.WithLockTTL(lockTTL),
	)
	checkConsistencyUseCase := checkConsistencyUC.NewUseCase(
		bookingRepository,
		slotRepository,
		txMgr,
		log,
	)
	repairBookingUseCase := repairBookingUC.NewUseCase(
		bookingRepository,
		slotRepository,
		txMgr,
		log,
	)

	// Инициализируем handlers
	reserveSlot := reserveSlotHandler.NewHandler(reserveSlotUseCase, log)
	releaseBooking := releaseBookingHandler.NewHandler(releaseBookingUseCase, log)
	moveBooking := moveBookingHandler.NewHandler(moveBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getTenantBookings := getTenantBookingsHandler.NewHandler(bookingSvc, log)
	checkConsistency := checkConsistencyHandler.NewHandler(checkConsistencyUseCase, log)
	repairBooking := repairBookingHandler.NewHandler(repairBookingUseCase, log)
	createShift := createShiftHandler.NewHandler(shiftSvc, log)
	updateShift := updateShiftHandler.NewHandler(shiftSvc, log)
	getServiceShifts := getServiceShiftsHandler.NewHandler(shiftSvc, log)
	materializeSlots := materializeSlotsHandler.NewHandler(materializeSlotsUseCase, log)
	syncCapacity := syncCapacityHandler.NewHandler(syncCapacityUseCase, log)
	getServiceSlots := getServiceSlotsHandler.NewHandler(slotSvc, log)
	setSlotAvailability := setSlotAvailabilityHandler.NewHandler(slotSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Слоты услуги за период
	api.HandleFunc("/services/{serviceId}/slots", getServiceSlots.Handle).Methods(http.MethodGet)

	// Смены услуги
	api.HandleFunc("/services/{serviceId}/shifts", getServiceShifts.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Tenant-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Резервирование единиц вместимости слота
	protected.HandleFunc("/bookings", reserveSlot.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования с возвратом единиц
	protected.HandleFunc("/bookings/{bookingId}/cancel", releaseBooking.Handle).Methods(http.MethodPatch)

	// Перенос бронирования на другой слот (или ресайз на текущем)
	protected.HandleFunc("/bookings/{bookingId}/move", moveBooking.Handle).Methods(http.MethodPatch)

	// Список бронирований тенанта
	protected.HandleFunc("/tenants/{tenantId}/bookings", getTenantBookings.Handle).Methods(http.MethodGet)

	// --- Консистентность ---
	// Проверка бронирования на дрейф услуги
	protected.HandleFunc("/bookings/{bookingId}/consistency", checkConsistency.HandleCheck).Methods(http.MethodGet)

	// Ремонт услуги бронирования по владеющей смене
	protected.HandleFunc("/bookings/{bookingId}/consistency/repair", repairBooking.Handle).Methods(http.MethodPost)

	// Сканирование всех бронирований тенанта
	protected.HandleFunc("/tenants/{tenantId}/consistency", checkConsistency.HandleScan).Methods(http.MethodGet)

	// Пакетный ремонт всех расхождений тенанта
	protected.HandleFunc("/tenants/{tenantId}/consistency/repair", repairBooking.HandleTenant).Methods(http.MethodPost)

	// --- Смены и слоты (для администраторов тенанта) ---
	// Создание смены
	protected.HandleFunc("/shifts", createShift.Handle).Methods(http.MethodPost)

	// Изменение паттерна смены
	protected.HandleFunc("/shifts/{shiftId}", updateShift.HandleUpdate).Methods(http.MethodPut)

	// Деактивация смены
	protected.HandleFunc("/shifts/{shiftId}", updateShift.HandleDeactivate).Methods(http.MethodDelete)

	// Материализация слотов смены на диапазон дат
	protected.HandleFunc("/shifts/{shiftId}/materialize", materializeSlots.Handle).Methods(http.MethodPost)

	// Синхронизация вместимости слотов с каталогом услуг
	protected.HandleFunc("/services/{serviceId}/capacity-sync", syncCapacity.Handle).Methods(http.MethodPost)

	// Ручное открытие/закрытие слота
	protected.HandleFunc("/slots/{slotId}/availability", setSlotAvailability.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
