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

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/api"
	calculateQuoteHandler "github.com/m04kA/SMC-OsagoQuoteService/internal/api/handlers/calculate_quote"
	createWizardHandler "github.com/m04kA/SMC-OsagoQuoteService/internal/api/handlers/create_wizard"
	discardDraftHandler "github.com/m04kA/SMC-OsagoQuoteService/internal/api/handlers/discard_draft"
	getDraftHandler "github.com/m04kA/SMC-OsagoQuoteService/internal/api/handlers/get_draft"
	getRefDataHandler "github.com/m04kA/SMC-OsagoQuoteService/internal/api/handlers/get_ref_data"
	getWizardHandler "github.com/m04kA/SMC-OsagoQuoteService/internal/api/handlers/get_wizard"
	leaveWizardHandler "github.com/m04kA/SMC-OsagoQuoteService/internal/api/handlers/leave_wizard"
	nextStepHandler "github.com/m04kA/SMC-OsagoQuoteService/internal/api/handlers/next_step"
	previousStepHandler "github.com/m04kA/SMC-OsagoQuoteService/internal/api/handlers/previous_step"
	updateWizardFormHandler "github.com/m04kA/SMC-OsagoQuoteService/internal/api/handlers/update_wizard_form"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/config"
	draftRepo "github.com/m04kA/SMC-OsagoQuoteService/internal/infra/storage/draft"
	refDataRepo "github.com/m04kA/SMC-OsagoQuoteService/internal/infra/storage/refdata"
	tariffRepo "github.com/m04kA/SMC-OsagoQuoteService/internal/infra/storage/tariff"
	pricingServiceClient "github.com/m04kA/SMC-OsagoQuoteService/internal/integrations/pricingservice"
	userServiceClient "github.com/m04kA/SMC-OsagoQuoteService/internal/integrations/userservice"
	draftsService "github.com/m04kA/SMC-OsagoQuoteService/internal/service/drafts"
	refDataService "github.com/m04kA/SMC-OsagoQuoteService/internal/service/refdata"
	wizardSessionsService "github.com/m04kA/SMC-OsagoQuoteService/internal/service/wizard_sessions"
	calculateQuoteUC "github.com/m04kA/SMC-OsagoQuoteService/internal/usecase/calculate_quote"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/usecase/quote_wizard"
	"github.com/m04kA/SMC-OsagoQuoteService/pkg/dbmetrics"
	"github.com/m04kA/SMC-OsagoQuoteService/pkg/logger"
	"github.com/m04kA/SMC-OsagoQuoteService/pkg/metrics"
	"github.com/m04kA/SMC-OsagoQuoteService/pkg/txmanager"
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

	log.Info("Starting SMC-OsagoQuoteService...")

	// Суммы и коэффициенты в JSON отдаются числами, как их ждет фронтенд
	decimal.MarshalJSONWithoutQuotes = true

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

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.New(db)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Интеграционные клиенты
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	pricingClient := pricingServiceClient.NewClient(
		cfg.PricingService.URL,
		time.Duration(cfg.PricingService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (UserService=%s timeout=%ds, PricingService=%s timeout=%ds)",
		cfg.UserService.URL, cfg.UserService.Timeout, cfg.PricingService.URL, cfg.PricingService.Timeout)

	// Репозитории
	refDataRepository := refDataRepo.NewRepository(wrappedDB)
	tariffRepository := tariffRepo.NewRepository(wrappedDB)
	draftRepository := draftRepo.NewRepository(wrappedDB, cfg.Wizard.DraftTTLDuration())

	// Сервисы и use cases
	refDataSvc := refDataService.NewService(refDataRepository, log)
	draftsSvc := draftsService.NewService(draftRepository, userClient, log)

	calculateQuoteUseCase := calculateQuoteUC.NewUseCase(
		refDataRepository,
		tariffRepository,
		userClient,
		txMgr,
		log,
	)

	wizardSvc := wizardSessionsService.NewService(
		wizardSessionsService.Config{
			TTL:         cfg.Wizard.SessionTTLDuration(),
			MaxSessions: cfg.Wizard.MaxSessions,
		},
		pricingClient,
		draftRepository,
		draftsSvc,
		metricsCollector,
		&quote_wizard.RealTimeProvider{},
		log,
	)
	wizardSvc.SetOwnerResolver(userClient)
	wizardSvc.StartJanitor(cfg.Wizard.JanitorIntervalDuration())

	// Handlers и роутер
	router := api.NewRouter(api.Handlers{
		GetRefData:       getRefDataHandler.NewHandler(refDataSvc, log),
		CalculateQuote:   calculateQuoteHandler.NewHandler(calculateQuoteUseCase, log),
		CreateWizard:     createWizardHandler.NewHandler(wizardSvc, log),
		GetWizard:        getWizardHandler.NewHandler(wizardSvc, log),
		UpdateWizardForm: updateWizardFormHandler.NewHandler(wizardSvc, log),
		NextStep:         nextStepHandler.NewHandler(wizardSvc, log),
		PreviousStep:     previousStepHandler.NewHandler(wizardSvc, log),
		LeaveWizard:      leaveWizardHandler.NewHandler(wizardSvc, log),
		GetDraft:         getDraftHandler.NewHandler(draftsSvc, log),
		DiscardDraft:     discardDraftHandler.NewHandler(draftsSvc, log),
	}, api.MetricsConfig{
		Metrics: metricsCollector,
		Path:    cfg.Metrics.Path,
	})

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
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

	wizardSvc.Stop()

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
