// cmd/portal-server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"nagarik-sewa/internal/api"
	"nagarik-sewa/internal/applications"
	"nagarik-sewa/internal/common/auth"
	awsclients "nagarik-sewa/internal/common/aws"
	"nagarik-sewa/internal/common/camunda"
	"nagarik-sewa/internal/common/config"
	"nagarik-sewa/internal/common/database"
	"nagarik-sewa/internal/common/logger"
	"nagarik-sewa/internal/common/observability"
	"nagarik-sewa/internal/messaging"
	"nagarik-sewa/internal/notify"
	"nagarik-sewa/internal/routing"
	"nagarik-sewa/internal/store"
	"nagarik-sewa/internal/workflow"
	"nagarik-sewa/pkg/registry"

	ra "nagarik-sewa/internal/workers/application/route-application"
	ssn "nagarik-sewa/internal/workers/application/send-status-notification"
	vad "nagarik-sewa/internal/workers/application/validate-application-data"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting portal server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(observability.Config{
		ServiceName:    cfg.Observability.ServiceName,
		TracingEnabled: cfg.Observability.TracingEnabled,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
	}, log)

	ctx := context.Background()

	cat, err := registry.LoadCatalog(cfg.Applications.CatalogPath)
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(err))
	}
	zapLog.Info("Catalog loaded", zap.String("version", cat.Version()), zap.Int("services", len(cat.Services())))

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	if cfg.Migrations.Enabled {
		if err := database.RunMigrations(cfg.Migrations.Path, cfg.Database.Postgres.GetURL(), log); err != nil {
			zapLog.Fatal("migrations failed", zap.Error(err))
		}
	}

	// --- Init Redis with retry ---
	redis := database.NewRedis(cfg.Database.Redis)
	err = retryWithBackoff(func() error {
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	accounts := store.NewAccountRepository(pg.DB, log)
	deps := applications.Dependencies{
		Repository: store.NewApplicationRepository(pg.DB, log),
		Officials:  accounts,
		Catalog:    cat,
		Cache:      store.NewStatsCache(redis.Client, config.GetDuration(cfg.Cache.StatsTTL), log),
	}

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	if cfg.Database.Elasticsearch.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		searchIndex := store.NewSearchIndex(esClient.Client, cfg.Database.Elasticsearch.Index, log)
		if err := searchIndex.EnsureIndex(ctx); err != nil {
			zapLog.Fatal("failed to create search index", zap.Error(err))
		}
		deps.Search = searchIndex
		zapLog.Info("Elasticsearch connected successfully", zap.String("index", cfg.Database.Elasticsearch.Index))
	}

	// --- Notifications ---
	notifyCfg := notify.Config{
		EmailEnabled: cfg.Integrations.AWS.SES.Enabled,
		SMSEnabled:   cfg.Integrations.AWS.SNS.Enabled,
		FromEmail:    cfg.Integrations.AWS.SES.FromEmail,
		SMSSenderID:  cfg.Integrations.AWS.SNS.DefaultSMSSenderID,
	}
	var notifier *notify.Service
	if notifyCfg.EmailEnabled || notifyCfg.SMSEnabled {
		clients, err := awsclients.NewClients(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("aws client init failed", zap.Error(err))
		}
		notifier = notify.NewService(notifyCfg, clients.SES, clients.SNS, log)
	} else {
		notifier = notify.NewService(notifyCfg, nil, nil, log)
	}

	// --- Workflow engine ---
	var zeebe *camunda.Client
	var workers []*camunda.CamundaWorker
	if cfg.Camunda.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
				GatewayAddress:         cfg.Camunda.BrokerAddress,
				UsePlaintextConnection: true,
				RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
			})
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")

		deps.Workflow = workflow.NewZeebePublisher(zeebe, cfg.Camunda.ProcessID, cfg.Camunda.StatusMessage,
			config.GetDuration(cfg.Camunda.Timeout), log)

		if config.IsWorkerEnabled(cfg, vad.TaskType) {
			wcfg := config.GetWorkerConfig(cfg, vad.TaskType)
			handler := vad.NewHandler(&vad.Config{Timeout: config.GetDuration(wcfg.Timeout)}, cat, log)
			workers = append(workers, camunda.NewWorker(zeebe.GetClient(), vad.TaskType, wcfg.MaxJobsActive,
				config.GetDuration(wcfg.Timeout), handler, obs, log))
		}
		if config.IsWorkerEnabled(cfg, ra.TaskType) {
			wcfg := config.GetWorkerConfig(cfg, ra.TaskType)
			handler := ra.NewHandler(&ra.Config{Timeout: config.GetDuration(wcfg.Timeout)}, routing.NewResolver(cat), log)
			workers = append(workers, camunda.NewWorker(zeebe.GetClient(), ra.TaskType, wcfg.MaxJobsActive,
				config.GetDuration(wcfg.Timeout), handler, obs, log))
		}
		if config.IsWorkerEnabled(cfg, ssn.TaskType) {
			wcfg := config.GetWorkerConfig(cfg, ssn.TaskType)
			handler := ssn.NewHandler(&ssn.Config{Timeout: config.GetDuration(wcfg.Timeout)}, notifier, log)
			workers = append(workers, camunda.NewWorker(zeebe.GetClient(), ssn.TaskType, wcfg.MaxJobsActive,
				config.GetDuration(wcfg.Timeout), handler, obs, log))
		}
		zapLog.Info("Workers registered", zap.Int("count", len(workers)))
	} else {
		deps.Workflow = workflow.NewDirectPublisher(notifier, log)
	}

	apps := applications.NewService(applications.Config{
		EstimatedDaysMin: cfg.Applications.EstimatedDaysMin,
		EstimatedDaysMax: cfg.Applications.EstimatedDaysMax,
	}, deps, log)

	router, err := api.NewRouter(api.Config{
		Mode:           cfg.Server.Mode,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, api.Dependencies{
		Applications:  apps,
		Messages:      messaging.NewService(store.NewMessageRepository(pg.DB, log), accounts, log),
		Accounts:      accounts,
		Catalog:       cat,
		JWT:           auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, time.Duration(cfg.Auth.TokenTTL)*time.Minute),
		Observability: obs,
		Ready: func(ctx context.Context) error {
			if err := pg.Ping(ctx); err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
			if err := redis.Ping(ctx); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			if zeebe != nil {
				return zeebe.HealthCheck(ctx)
			}
			return nil
		},
	}, log)
	if err != nil {
		zapLog.Fatal("router init failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}
	for _, w := range workers {
		w.Stop(shutdownCtx)
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Observability shutdown failed", zap.Error(err))
	}

	zapLog.Info("Portal server stopped gracefully")
}
