package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Rohitlovewanshi/Wallet-Management/config"
	infradb "github.com/Rohitlovewanshi/Wallet-Management/infra/db"
)

var serviceDirs = map[string]string{
	config.ServiceTransaction: "transaction",
	config.ServiceWallet:      "wallet",
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	service := flag.String("service", config.ServiceTransaction, "service whose schema is migrated (transaction-service|wallet-service)")
	dir := flag.String("dir", "migrations", "root directory holding one migrations folder per service")
	flag.Parse()

	direction := infradb.MigrateUp
	if flag.NArg() > 0 {
		direction = flag.Arg(0)
	}

	if err := run(*service, *dir, direction); err != nil {
		logger.Error("migration failed",
			slog.String("service", *service),
			slog.String("direction", direction),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	logger.Info("migration applied", slog.String("service", *service), slog.String("direction", direction))
}

func run(service, root, direction string) error {
	sub, ok := serviceDirs[service]
	if !ok {
		return fmt.Errorf("unknown service %q", service)
	}

	cfg := config.Load(service)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := infradb.Connect(ctx, infradb.Options{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	dir, err := filepath.Abs(filepath.Join(root, sub))
	if err != nil {
		return err
	}
	return infradb.Migrate(db, dir, direction)
}
