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

	"github.com/nats-io/nats.go"
	"golang.org/x/sync/errgroup"

	"github.com/Rohitlovewanshi/Wallet-Management/config"
	"github.com/Rohitlovewanshi/Wallet-Management/infra/broker"
	infradb "github.com/Rohitlovewanshi/Wallet-Management/infra/db"
	"github.com/Rohitlovewanshi/Wallet-Management/infra/deadletter"
	"github.com/Rohitlovewanshi/Wallet-Management/infra/repository"
	"github.com/Rohitlovewanshi/Wallet-Management/infra/repository/memory"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/ports"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/handler"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/messaging"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/usecase"
	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/worker"
)

// walletStore is what the wallet service needs from its storage driver.
type walletStore interface {
	ports.WalletRepository
	ports.BalanceReader
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("service", config.ServiceWallet))

	cfg := config.Load(config.ServiceWallet)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("wallet service stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("wallet service stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	wallets, outboxRepo, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	bus, err := broker.Open(cfg, logger)
	if err != nil {
		return fmt.Errorf("open bus: %w", err)
	}
	defer bus.Close()
	logger.Info("connected to event bus", slog.String("driver", cfg.Bus.Driver))

	journal, err := deadletter.Open(cfg.DeadLetter.Dir)
	if err != nil {
		return err
	}
	defer journal.Close()

	nc, err := nats.Connect(cfg.NATS.URL, nats.Name(config.ServiceWallet))
	if err != nil {
		return fmt.Errorf("connect nats: %w", err)
	}
	defer nc.Close()
	logger.Info("connected to nats", slog.String("url", cfg.NATS.URL))

	factory := usecase.NewWalletFactory(wallets, cfg.Wallet.PromotionalBalance, logger)

	router := messaging.NewRouter(bus.Subscriber, journal, messaging.RetryPolicy{
		MaxAttempts:     cfg.Retry.MaxAttempts,
		InitialInterval: cfg.Retry.InitialInterval,
		MaxInterval:     cfg.Retry.MaxInterval,
	}, logger)
	messaging.RegisterWalletRoutes(router, factory)

	publisher := broker.NewBreakerPublisher(config.ServiceWallet, bus.Publisher, 5, 30*time.Second, logger)
	outboxWorker := worker.NewOutboxWorker(outboxRepo, publisher, worker.Options{
		Interval:       cfg.Worker.Interval,
		BatchSize:      cfg.Worker.BatchSize,
		PublishTimeout: cfg.Worker.PublishTimeout,
		RetryInitial:   cfg.Retry.InitialInterval,
		RetryMax:       cfg.Retry.MaxInterval,
	}, logger)

	responder := broker.NewBalanceResponder(nc, wallets, logger)

	server := &http.Server{
		Addr: fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: handler.NewRouter(config.ServiceWallet, journal,
			handler.NewWalletHandlerFactory(factory),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return serve(gctx, server, logger) })
	g.Go(func() error { return router.Run(gctx) })
	g.Go(func() error { return outboxWorker.Run(gctx) })
	g.Go(func() error { return responder.Run(gctx) })

	return g.Wait()
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (walletStore, ports.OutboxRepository, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		outbox := memory.NewOutboxRepository()
		return memory.NewWalletRepository(outbox), outbox, func() {}, nil

	case config.DriverPostgres:
		db, err := infradb.Connect(ctx, infradb.Options{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			Name:     cfg.Database.Name,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("connected to database", slog.String("name", cfg.Database.Name))
		return repository.NewWalletRepository(db), repository.NewOutboxRepository(db), func() { _ = db.Close() }, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func serve(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
