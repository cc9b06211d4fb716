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
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	cancelBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_booking"
	getBusinessHoursHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_business_hours"
	getOwnerBookingsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_owner_bookings"
	getPermissionsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_permissions"
	getUserBookingsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_user_bookings"
	healthHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/health"
	stripeWebhookHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/stripe_webhook"
	updateBusinessHoursHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/update_business_hours"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/config"
	bookingRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/booking"
	hoursRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/business_hours"
	serviceRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/service"
	teamRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/team"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/payments"
	bookingsService "github.com/m04kA/SMC-SalonBooking/internal/service/bookings"
	businessHoursService "github.com/m04kA/SMC-SalonBooking/internal/service/business_hours"
	permissionsService "github.com/m04kA/SMC-SalonBooking/internal/service/permissions"
	createBookingUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/tracing"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

const readinessTimeout = 2 * time.Second

// bookingEventPublisher публикация событий бронирований (Kafka или заглушка)
type bookingEventPublisher interface {
	Publish(ctx context.Context, event events.BookingEvent) error
	Close() error
}

func main() {
	configPath := "config.toml"
	if v, ok := os.LookupEnv("CONFIG_PATH"); ok {
		configPath = v
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

	log.Info("Starting SMC-SalonBooking...")
	log.Info("Configuration loaded from %s", configPath)

	// Трейсинг
	shutdownTracing, err := tracing.Setup(context.Background(), tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  ptr.Deref(cfg.Tracing.SampleRatio, 1),
	})
	if err != nil {
		log.Fatal("Failed to set up tracing: %v", err)
	}
	if cfg.Tracing.Enabled {
		log.Info("Tracing enabled, exporting to %s", cfg.Tracing.OTLPEndpoint)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
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

	// Без метрик обёртка просто проксирует вызовы
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Параметры расчёта слотов
	settings, err := availabilitySettings(cfg.Availability)
	if err != nil {
		log.Fatal("Invalid availability settings: %v", err)
	}

	// Инициализируем интеграции
	var publisher bookingEventPublisher = events.NopPublisher{}
	if cfg.Events.Enabled {
		publisher = events.NewKafkaPublisher(
			cfg.Events.Brokers,
			cfg.Events.Topic,
			time.Duration(cfg.Events.WriteTimeout)*time.Second,
			log,
		)
		log.Info("Booking events enabled (brokers=%v, topic=%s)", cfg.Events.Brokers, cfg.Events.Topic)
	}

	// Интерфейсы должны остаться nil, если оплата выключена
	var (
		checkoutClient createBookingUC.PaymentsClient
		webhookParser  bookingsService.WebhookParser
	)
	if cfg.Payments.Enabled {
		stripeClient := payments.NewClient(payments.Config{
			SecretKey:        cfg.Payments.SecretKey,
			WebhookSecret:    cfg.Payments.WebhookSecret,
			WebhookTolerance: time.Duration(cfg.Payments.WebhookTolerance) * time.Second,
			SuccessURL:       cfg.Payments.SuccessURL,
			CancelURL:        cfg.Payments.CancelURL,
		}, log)
		checkoutClient = stripeClient
		webhookParser = stripeClient
		log.Info("Stripe checkout enabled")
	}

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	serviceRepository := serviceRepo.NewRepository(wrappedDB)
	hoursRepository := hoursRepo.NewRepository(wrappedDB)
	teamRepository := teamRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	permissionsSvc := permissionsService.NewService(teamRepository, log)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		permissionsSvc,
		webhookParser,
		publisher,
		metricsCollector,
		log,
	)
	businessHoursSvc := businessHoursService.NewService(
		hoursRepository,
		permissionsSvc,
		txMgr,
		settings.DefaultOpen,
		settings.DefaultClose,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		serviceRepository,
		hoursRepository,
		settings,
		metricsCollector,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		serviceRepository,
		hoursRepository,
		checkoutClient,
		publisher,
		txMgr,
		settings,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getOwnerBookings := getOwnerBookingsHandler.NewHandler(bookingSvc, log)
	getBusinessHours := getBusinessHoursHandler.NewHandler(businessHoursSvc, log)
	updateBusinessHours := updateBusinessHoursHandler.NewHandler(businessHoursSvc, log)
	getPermissions := getPermissionsHandler.NewHandler(permissionsSvc, log)
	stripeWebhook := stripeWebhookHandler.NewHandler(bookingSvc, log)
	health := healthHandler.NewHandler(db, readinessTimeout, log)

	// Rate limiter для публичных ручек
	var limiter middleware.Limiter
	var redisClient *redis.Client
	if cfg.RateLimit.Enabled {
		window := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
		if cfg.RateLimit.RedisAddr != "" {
			redisClient = redis.NewClient(&redis.Options{
				Addr:     cfg.RateLimit.RedisAddr,
				Password: cfg.RateLimit.RedisPassword,
				DB:       cfg.RateLimit.RedisDB,
			})
			limiter = middleware.NewRedisLimiter(redisClient, cfg.RateLimit.Limit, window, cfg.Metrics.ServiceName)
			log.Info("Rate limit enabled: %d req per %s, redis=%s", cfg.RateLimit.Limit, window, cfg.RateLimit.RedisAddr)
		} else {
			limiter = middleware.NewLocalLimiter(cfg.RateLimit.Limit, window)
			log.Info("Rate limit enabled: %d req per %s, in-process", cfg.RateLimit.Limit, window)
		}
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Служебные endpoints
	r.HandleFunc("/health", health.Live).Methods(http.MethodGet)
	r.HandleFunc("/ready", health.Ready).Methods(http.MethodGet)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	public := r.PathPrefix("").Subrouter()
	if limiter != nil {
		clientKeys, err := middleware.NewClientKeyResolver(cfg.RateLimit.TrustedProxies)
		if err != nil {
			log.Fatal("Invalid rate_limit.trusted_proxies: %v", err)
		}
		public.Use(middleware.RateLimit(limiter, clientKeys, log))
	}

	// Свободные слоты: короткий путь и путь под /api/v1
	public.HandleFunc("/availability", getAvailableSlots.Handle).Methods(http.MethodGet)
	public.HandleFunc("/api/v1/availability", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Расписание владельца
	public.HandleFunc("/api/v1/owners/{ownerId}/business-hours", getBusinessHours.Handle).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Вебхук Stripe (аутентификация по подписи)
	if cfg.Payments.Enabled {
		api.HandleFunc("/webhooks/stripe", stripeWebhook.Handle).Methods(http.MethodPost)
	}

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Управление салоном (для владельца и команды) ---
	protected.HandleFunc("/owners/{ownerId}/bookings", getOwnerBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/owners/{ownerId}/business-hours", updateBusinessHours.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/owners/{ownerId}/permissions", getPermissions.Handle).Methods(http.MethodGet)

	// otelhttp снаружи, чтобы trace id был в контексте access-лога
	var handler http.Handler = middleware.Recover(log)(r)
	handler = middleware.AccessLog(log)(handler)
	handler = otelhttp.NewHandler(handler, "http.server",
		otelhttp.WithSpanNameFormatter(func(_ string, req *http.Request) string {
			return req.Method + " " + req.URL.Path
		}),
	)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	if err := publisher.Close(); err != nil {
		log.Error("Failed to close events publisher: %v", err)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to flush traces: %v", err)
	}

	log.Info("Server stopped gracefully")
}

// availabilitySettings собирает параметры расчёта слотов из конфигурации
func availabilitySettings(cfg config.AvailabilityConfig) (availability.Settings, error) {
	open, err := types.NewTimeStringFromString(cfg.DefaultOpen)
	if err != nil {
		return availability.Settings{}, err
	}

	closeTime, err := types.NewTimeStringFromString(cfg.DefaultClose)
	if err != nil {
		return availability.Settings{}, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return availability.Settings{}, err
	}

	return availability.Settings{
		DefaultOpen:     open,
		DefaultClose:    closeTime,
		StrideMinutes:   cfg.StrideMinutes,
		Location:        loc,
		HonorClosedDays: cfg.HonorClosedDays,
	}, nil
}
