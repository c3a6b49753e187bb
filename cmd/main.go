package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	blockSlotsHandler "github.com/m04kA/court-booking-service/internal/api/handlers/block_slots"
	cancelBookingHandler "github.com/m04kA/court-booking-service/internal/api/handlers/cancel_booking"
	courtEventsHandler "github.com/m04kA/court-booking-service/internal/api/handlers/court_events"
	createBookingHandler "github.com/m04kA/court-booking-service/internal/api/handlers/create_booking"
	createCourtHandler "github.com/m04kA/court-booking-service/internal/api/handlers/create_court"
	getBookingHandler "github.com/m04kA/court-booking-service/internal/api/handlers/get_booking"
	getBookingByReferenceHandler "github.com/m04kA/court-booking-service/internal/api/handlers/get_booking_by_reference"
	getCourtHandler "github.com/m04kA/court-booking-service/internal/api/handlers/get_court"
	getCourtBookingsHandler "github.com/m04kA/court-booking-service/internal/api/handlers/get_court_bookings"
	getSlotsHandler "github.com/m04kA/court-booking-service/internal/api/handlers/get_slots"
	listCourtsHandler "github.com/m04kA/court-booking-service/internal/api/handlers/list_courts"
	unblockSlotsHandler "github.com/m04kA/court-booking-service/internal/api/handlers/unblock_slots"
	updateCourtHandler "github.com/m04kA/court-booking-service/internal/api/handlers/update_court"
	"github.com/m04kA/court-booking-service/internal/api/middleware"
	"github.com/m04kA/court-booking-service/internal/config"
	"github.com/m04kA/court-booking-service/internal/infra/changefeed"
	blockRepo "github.com/m04kA/court-booking-service/internal/infra/storage/block"
	bookingRepo "github.com/m04kA/court-booking-service/internal/infra/storage/booking"
	courtRepo "github.com/m04kA/court-booking-service/internal/infra/storage/court"
	institutionRepo "github.com/m04kA/court-booking-service/internal/infra/storage/institution"
	"github.com/m04kA/court-booking-service/internal/integrations/smsgateway"
	bookingsService "github.com/m04kA/court-booking-service/internal/service/bookings"
	courtsService "github.com/m04kA/court-booking-service/internal/service/courts"
	blockSlotsUC "github.com/m04kA/court-booking-service/internal/usecase/block_slots"
	createBookingUC "github.com/m04kA/court-booking-service/internal/usecase/create_booking"
	getSlotGridUC "github.com/m04kA/court-booking-service/internal/usecase/get_slot_grid"
	unblockSlotsUC "github.com/m04kA/court-booking-service/internal/usecase/unblock_slots"
	"github.com/m04kA/court-booking-service/internal/worker/smsforwarder"
	"github.com/m04kA/court-booking-service/pkg/dbmetrics"
	"github.com/m04kA/court-booking-service/pkg/logger"
	"github.com/m04kA/court-booking-service/pkg/metrics"
	"github.com/m04kA/court-booking-service/pkg/txmanager"
)

type conflictMetrics interface {
	IncBookingConflict(kind string)
}

func main() {
	configPath := "config.toml"
	if p, ok := os.LookupEnv("CONFIG_PATH"); ok {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting court-booking-service...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены).
	// Интерфейсы остаются nil при выключенных метриках.
	var (
		metricsCollector *metrics.Metrics
		dbCollector      dbmetrics.Collector
		bookingConflicts conflictMetrics
		smsMetrics       smsforwarder.Metrics
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		dbCollector = metricsCollector
		bookingConflicts = metricsCollector
		smsMetrics = metricsCollector
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

	wrappedDB := dbmetrics.WrapWithDefault(db, dbCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(
		wrappedDB,
		bookingRepo.WithReferenceCodes(nil, cfg.Booking.ReferenceCodeRetries),
	)
	blockRepository := blockRepo.NewRepository(wrappedDB)
	courtRepository := courtRepo.NewRepository(wrappedDB)
	institutionRepository := institutionRepo.NewRepository(wrappedDB)

	// Лента изменений: Redis для нескольких инстансов, иначе в памяти процесса
	var feed changefeed.Feed
	if cfg.Redis.Enabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancelPing()
		if err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		feed = changefeed.NewRedis(redisClient, cfg.Redis.ChannelPrefix, log)
		log.Info("Change feed: redis (addr=%s, prefix=%s)", cfg.Redis.Addr, cfg.Redis.ChannelPrefix)
	} else {
		feed = changefeed.NewMemory(log)
		log.Info("Change feed: in-memory")
	}

	// Фоновые воркеры
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	workersDone := make(chan struct{})

	if cfg.SMS.Enabled {
		smsClient := smsgateway.NewClient(cfg.SMS.AccountSID, cfg.SMS.AuthToken, cfg.SMS.FromNumber, log)
		smsWorker := smsforwarder.NewWorker(feed, bookingRepository, courtRepository, smsClient, smsMetrics, log)
		go func() {
			defer close(workersDone)
			if err := smsWorker.Run(workerCtx); err != nil {
				log.Error("SMS forwarder stopped: %v", err)
			}
		}()
		log.Info("SMS notifications enabled (from=%s)", cfg.SMS.FromNumber)
	} else {
		close(workersDone)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		courtRepository,
		institutionRepository,
		feed,
		log,
	)
	courtSvc := courtsService.NewService(
		courtRepository,
		institutionRepository,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		courtRepository,
		bookingRepository,
		blockRepository,
		txMgr,
		feed,
		bookingConflicts,
		createBookingUC.Rules{
			MinBookingNoticeMinutes: cfg.Booking.MinBookingNoticeMinutes,
			AdvanceBookingDays:      cfg.Booking.AdvanceBookingDays,
		},
		log,
	)
	getSlotGridUseCase := getSlotGridUC.NewUseCase(
		courtRepository,
		bookingRepository,
		blockRepository,
		log,
	)
	blockSlotsUseCase := blockSlotsUC.NewUseCase(
		courtRepository,
		institutionRepository,
		bookingRepository,
		blockRepository,
		txMgr,
		feed,
		bookingConflicts,
		log,
	)
	unblockSlotsUseCase := unblockSlotsUC.NewUseCase(
		courtRepository,
		institutionRepository,
		blockRepository,
		txMgr,
		feed,
		log,
	)

	// Инициализируем handlers
	getSlots := getSlotsHandler.NewHandler(getSlotGridUseCase, log)
	courtEvents := courtEventsHandler.NewHandler(feed, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBookingByReference := getBookingByReferenceHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getCourtBookings := getCourtBookingsHandler.NewHandler(bookingSvc, log)
	blockSlots := blockSlotsHandler.NewHandler(blockSlotsUseCase, log)
	unblockSlots := unblockSlotsHandler.NewHandler(unblockSlotsUseCase, log)
	getCourt := getCourtHandler.NewHandler(courtSvc, log)
	listCourts := listCourtsHandler.NewHandler(courtSvc, log)
	createCourt := createCourtHandler.NewHandler(courtSvc, log)
	updateCourt := updateCourtHandler.NewHandler(courtSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// --- Корты и сетка слотов ---
	api.HandleFunc("/institutions/{institutionId}/courts", listCourts.Handle).Methods(http.MethodGet)
	api.HandleFunc("/courts/{courtId}", getCourt.Handle).Methods(http.MethodGet)
	api.HandleFunc("/courts/{courtId}/slots", getSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/courts/{courtId}/events", courtEvents.Handle).Methods(http.MethodGet)

	// --- Бронирование клиентом ---
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/reference/{referenceCode}", getBookingByReference.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header, администратор учреждения)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/courts/{courtId}/bookings", getCourtBookings.Handle).Methods(http.MethodGet)

	// --- Блокировки ---
	protected.HandleFunc("/courts/{courtId}/blocks", blockSlots.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/blocks/unblock", unblockSlots.Handle).Methods(http.MethodPost)

	// --- Управление кортами ---
	protected.HandleFunc("/courts", createCourt.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/courts/{courtId}", updateCourt.Handle).Methods(http.MethodPatch)

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	stopWorkers()
	select {
	case <-workersDone:
	case <-shutdownCtx.Done():
		log.Warn("Background workers did not stop in time")
	}

	// Закрытие ленты завершает SSE потоки, иначе Shutdown ждет их до таймаута.
	// Для Redis закрывает и клиент.
	if err := feed.Close(); err != nil {
		log.Error("Failed to close change feed: %v", err)
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
