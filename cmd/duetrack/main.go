package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/duetrack/duetrack/internal/app"
	"github.com/duetrack/duetrack/internal/audit"
	"github.com/duetrack/duetrack/internal/auth"
	"github.com/duetrack/duetrack/internal/customers"
	"github.com/duetrack/duetrack/internal/dues"
	"github.com/duetrack/duetrack/internal/notify"
	"github.com/duetrack/duetrack/internal/payments"
	"github.com/duetrack/duetrack/internal/platform/cache"
	"github.com/duetrack/duetrack/internal/platform/db"
	"github.com/duetrack/duetrack/internal/platform/tabular"
	"github.com/duetrack/duetrack/internal/scheduler"
	"github.com/duetrack/duetrack/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	var (
		customerStore tabular.Store[customers.Customer]
		duesStore     tabular.Store[dues.Entry]
		trail         *audit.Trail
		pool          *pgxpool.Pool
	)
	switch cfg.StorageDriver {
	case app.StoragePostgres:
		pool, err = db.New(ctx, cfg.PGDSN)
		if err != nil {
			logger.Error("connect postgres", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()

		custStore := tabular.NewPostgres(pool, "customers", customers.Codec())
		dueStore := tabular.NewPostgres(pool, "dues", dues.Codec())
		if err := custStore.EnsureSchema(ctx); err != nil {
			logger.Error("ensure customers schema", slog.Any("error", err))
			os.Exit(1)
		}
		if err := dueStore.EnsureSchema(ctx); err != nil {
			logger.Error("ensure dues schema", slog.Any("error", err))
			os.Exit(1)
		}
		trail, err = audit.NewPostgresTrail(ctx, pool)
		if err != nil {
			logger.Error("ensure audit schema", slog.Any("error", err))
			os.Exit(1)
		}
		customerStore = custStore
		duesStore = dueStore
	default:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			logger.Error("create data dir", slog.Any("error", err))
			os.Exit(1)
		}
		customerStore = tabular.NewFile(cfg.DataDir+"/customers.csv", customers.Codec())
		duesStore = tabular.NewFile(cfg.DataDir+"/dues.csv", dues.Codec())
		trail = audit.NewFileTrail(cfg.DataDir)
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	queueClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := queueClient.Close(); err != nil {
			logger.Warn("queue close", slog.Any("error", err))
		}
	}()
	dispatcher := notify.NewQueueDispatcher(queueClient, logger)

	ledger := dues.NewLedger(duesStore)
	authority := auth.NewAuthority()
	customerService := customers.NewService(customerStore, ledger, trail, authority)
	authService := auth.NewService(customerService, authority, trail)
	auditService := audit.NewService(trail)

	keyStore := payments.NewKeyStore(cfg.GatewayKeysFile)
	gatewayClient := payments.NewClient(cfg.GatewayBaseURL, keyStore)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AuthHandler:      auth.NewHandler(logger, authService),
		CustomersHandler: customers.NewHandler(logger, customerService, dispatcher, cfg.ShopName),
		AuditHandler:     audit.NewHandler(logger, auditService),
		PaymentsHandler:  payments.NewHandler(logger, keyStore, gatewayClient),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	reminder := scheduler.NewDailyReminder(
		logger,
		customerService,
		dispatcher,
		scheduler.NewWatermark(redisClient),
		cfg.ShopName,
		cfg.DailyEmailHour,
		cfg.DailyEmailMinute,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := reminder.Run(gctx); err != nil && err != context.Canceled {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("runtime", slog.Any("error", err))
		os.Exit(1)
	}
}
