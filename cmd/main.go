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

	assignGuideHandler "github.com/tinnohofficial/SmartTour-BookingEngine/internal/api/handlers/assign_guide"
	cancelBookingHandler "github.com/tinnohofficial/SmartTour-BookingEngine/internal/api/handlers/cancel_booking"
	confirmItemHandler "github.com/tinnohofficial/SmartTour-BookingEngine/internal/api/handlers/confirm_item"
	eligibleGuidesHandler "github.com/tinnohofficial/SmartTour-BookingEngine/internal/api/handlers/eligible_guides"
	expireBookingsHandler "github.com/tinnohofficial/SmartTour-BookingEngine/internal/api/handlers/expire_bookings"
	getAvailabilityHandler "github.com/tinnohofficial/SmartTour-BookingEngine/internal/api/handlers/get_availability"
	getBookingHandler "github.com/tinnohofficial/SmartTour-BookingEngine/internal/api/handlers/get_booking"
	getUserBookingsHandler "github.com/tinnohofficial/SmartTour-BookingEngine/internal/api/handlers/get_user_bookings"
	paymentCallbackHandler "github.com/tinnohofficial/SmartTour-BookingEngine/internal/api/handlers/payment_callback"
	submitBookingHandler "github.com/tinnohofficial/SmartTour-BookingEngine/internal/api/handlers/submit_booking"
	updateGuideAvailabilityHandler "github.com/tinnohofficial/SmartTour-BookingEngine/internal/api/handlers/update_guide_availability"
	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/api/middleware"
	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/config"
	availabilityRepo "github.com/tinnohofficial/SmartTour-BookingEngine/internal/infra/storage/availability"
	bookingRepo "github.com/tinnohofficial/SmartTour-BookingEngine/internal/infra/storage/booking"
	catalogRepo "github.com/tinnohofficial/SmartTour-BookingEngine/internal/infra/storage/catalog"
	guideRepo "github.com/tinnohofficial/SmartTour-BookingEngine/internal/infra/storage/guide"
	paymentServiceClient "github.com/tinnohofficial/SmartTour-BookingEngine/internal/integrations/paymentservice"
	bookingsService "github.com/tinnohofficial/SmartTour-BookingEngine/internal/service/bookings"
	guidesService "github.com/tinnohofficial/SmartTour-BookingEngine/internal/service/guides"
	pricingService "github.com/tinnohofficial/SmartTour-BookingEngine/internal/service/pricing"
	getAvailabilityUC "github.com/tinnohofficial/SmartTour-BookingEngine/internal/usecase/get_availability"
	submitBookingUC "github.com/tinnohofficial/SmartTour-BookingEngine/internal/usecase/submit_booking"
	"github.com/tinnohofficial/SmartTour-BookingEngine/pkg/dbmetrics"
	"github.com/tinnohofficial/SmartTour-BookingEngine/pkg/logger"
	"github.com/tinnohofficial/SmartTour-BookingEngine/pkg/metrics"
	"github.com/tinnohofficial/SmartTour-BookingEngine/pkg/simpletxmanager"
	"github.com/tinnohofficial/SmartTour-BookingEngine/pkg/txmanager"
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

	log.Info("Starting SmartTour-BookingEngine...")
	log.Info("Configuration loaded from config.toml")

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

	// Инициализируем клиент PaymentService
	paymentClient := paymentServiceClient.NewClient(
		cfg.PaymentService.URL,
		time.Duration(cfg.PaymentService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (PaymentService=%s timeout=%ds)",
		cfg.PaymentService.URL, cfg.PaymentService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		catalogRepository      *catalogRepo.Repository
		availabilityRepository *availabilityRepo.Repository
		bookingRepository      *bookingRepo.Repository
		guideRepository        *guideRepo.Repository
	)

	// Интерфейс transaction manager, общий для сервисов и usecases
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")

		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		availabilityRepository = availabilityRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		guideRepository = guideRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		catalogRepository = catalogRepo.NewRepository(db)
		availabilityRepository = availabilityRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		guideRepository = guideRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	pricingSvc := pricingService.NewService(log)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		availabilityRepository,
		guideRepository,
		paymentClient,
		txMgr,
		log,
	)
	guideSvc := guidesService.NewService(
		bookingRepository,
		guideRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	submitBookingUseCase := submitBookingUC.NewUseCase(
		catalogRepository,
		availabilityRepository,
		bookingRepository,
		pricingSvc,
		txMgr,
		log,
	)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		catalogRepository,
		availabilityRepository,
		log,
	)

	paymentGrace := time.Duration(cfg.Booking.PaymentGraceMinutes) * time.Minute

	// Инициализируем handlers
	submitBooking := submitBookingHandler.NewHandler(submitBookingUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	confirmItem := confirmItemHandler.NewHandler(bookingSvc, log)
	paymentCallback := paymentCallbackHandler.NewHandler(bookingSvc, log)
	eligibleGuides := eligibleGuidesHandler.NewHandler(guideSvc, log)
	assignGuide := assignGuideHandler.NewHandler(guideSvc, log)
	updateGuideAvailability := updateGuideAvailabilityHandler.NewHandler(guideSvc, log)
	expireBookings := expireBookingsHandler.NewHandler(bookingSvc, paymentGrace, log)

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

	// ============================================================
	// INTERNAL ROUTES (для соседних сервисов и планировщика)
	// ============================================================

	internal := r.PathPrefix("/internal").Subrouter()

	// Колбэк PaymentService о результате платежа
	internal.HandleFunc("/payments/callback", paymentCallback.Handle).Methods(http.MethodPost)

	// Ручной запуск отмены просроченных бронирований
	internal.HandleFunc("/bookings/expire", expireBookings.Handle).Methods(http.MethodPost)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступность слота активности
	api.HandleFunc("/activities/{activityId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание составного бронирования
	protected.HandleFunc("/bookings", submitBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Гиды ---
	// Подходящие гиды для бронирования
	protected.HandleFunc("/bookings/{bookingId}/eligible-guides", eligibleGuides.Handle).Methods(http.MethodGet)

	// Назначение гида на бронирование
	protected.HandleFunc("/bookings/{bookingId}/assign-guide", assignGuide.Handle).Methods(http.MethodPost)

	// Доступность гида
	protected.HandleFunc("/guides/{guideId}/availability", updateGuideAvailability.Handle).Methods(http.MethodPut)

	// --- Провайдеры ---
	// Подтверждение позиции бронирования провайдером
	protected.HandleFunc("/booking-items/{itemId}/confirm", confirmItem.Handle).Methods(http.MethodPost)

	// Фоновая отмена просроченных неоплаченных бронирований
	expireStopCh := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Booking.ExpireIntervalMinutes) * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := bookingSvc.ExpirePending(context.Background(), paymentGrace); err != nil {
					log.Error("Background expiry failed: %v", err)
				}
			case <-expireStopCh:
				return
			}
		}
	}()
	log.Info("Background expiry scheduler started (interval=%dm, grace=%dm)",
		cfg.Booking.ExpireIntervalMinutes, cfg.Booking.PaymentGraceMinutes)

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

	// Останавливаем фоновый планировщик
	close(expireStopCh)

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
