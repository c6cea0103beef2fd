package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/sharedgoals/internal/amqp"
	"github.com/mmynk/sharedgoals/internal/calculator"
	"github.com/mmynk/sharedgoals/internal/config"
	"github.com/mmynk/sharedgoals/internal/ledger"
	"github.com/mmynk/sharedgoals/internal/metrics"
	"github.com/mmynk/sharedgoals/internal/middleware"
	"github.com/mmynk/sharedgoals/internal/models"
	"github.com/mmynk/sharedgoals/internal/service"
	"github.com/mmynk/sharedgoals/internal/settlement"
	"github.com/mmynk/sharedgoals/internal/storage"
	"github.com/mmynk/sharedgoals/internal/storage/memory"
	"github.com/mmynk/sharedgoals/internal/storage/sqlite"
	"github.com/mmynk/sharedgoals/pkg/api/apiconnect"
	"github.com/mmynk/sharedgoals/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "backend", cfg.DataBackend, "database", cfg.SQLiteDBPath)

	l := ledger.New(store, ledger.WithLogger(logger))

	registry := prometheus.NewRegistry()
	var recorder service.Recorder
	if cfg.MetricsEnabled {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		rec := metrics.NewRecorder(registry)
		l.Subscribe(rec.HandleEvent)
		recorder = rec
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SeedDemo {
		if err := l.SeedDemo(ctx); err != nil {
			return fmt.Errorf("failed to seed demo goals: %w", err)
		}
		logger.Info("Demo goals seeded")
	}

	g, ctx := errgroup.WithContext(ctx)

	switch cfg.SettlementApproval {
	case config.ApprovalTimer:
		approver := settlement.NewDelayedApprover(l, cfg.SettlementDelay, settlement.WithLogger(logger))
		l.Subscribe(approver.HandleEvent)
		defer approver.Stop()
	case config.ApprovalAMQP:
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to AMQP: %w", err)
		}
		defer client.Close()
		l.Subscribe(client.HandleEvent)
		g.Go(func() error {
			err := client.ConsumeApprovals(ctx, l)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	logger.Info("Settlement approval configured", "mode", cfg.SettlementApproval, "delay", cfg.SettlementDelay)

	resumed, err := l.ResumePending(ctx)
	if err != nil {
		return fmt.Errorf("failed to resume pending settlements: %w", err)
	}
	if resumed > 0 {
		logger.Info("Pending settlements resumed", "count", resumed)
	}

	interceptors := connect.WithInterceptors(
		middleware.Identify(cfg.DefaultMemberID),
		middleware.LoggingInterceptor(logger),
	)

	serviceOpts := []service.Option{
		service.WithDefaultMember(models.Member{
			ID:       cfg.DefaultMemberID,
			Name:     cfg.DefaultMemberName,
			Initials: calculator.Initials(cfg.DefaultMemberName),
		}),
		service.WithSessionTTL(cfg.SessionTTL),
		service.WithMaxSessions(cfg.MaxSessions),
	}

	mux := http.NewServeMux()

	// Register Connect services
	goalPath, goalHandler := apiconnect.NewGoalServiceHandler(service.NewGoalService(l, recorder, serviceOpts...), interceptors)
	mux.Handle(goalPath, goalHandler)

	navPath, navHandler := apiconnect.NewNavigationServiceHandler(service.NewNavigationService(l, recorder, serviceOpts...), interceptors)
	mux.Handle(navPath, navHandler)

	if cfg.MetricsEnabled {
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	handler := middleware.HTTPLogging(logger, middleware.CORS(cfg.CORSOrigin, mux))
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		logger.Info("Connect server starting", "address", server.Addr, "url", "http://localhost"+server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStore(cfg *config.Config) (storage.Store, error) {
	if cfg.DataBackend != config.BackendSQLite {
		return memory.New(), nil
	}
	store, err := sqlite.New(cfg.SQLiteDBPath)
	if err != nil {
		return nil, err
	}
	return store, nil
}
