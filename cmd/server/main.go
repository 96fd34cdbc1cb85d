package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/kirvasilev/notesync/internal/api"
	"github.com/kirvasilev/notesync/internal/config"
	"github.com/kirvasilev/notesync/internal/repository"
	syncuc "github.com/kirvasilev/notesync/internal/usecase/sync"
	"github.com/kirvasilev/notesync/pkg/database"
	"github.com/kirvasilev/notesync/pkg/httpx"
	"github.com/kirvasilev/notesync/pkg/logger/slogx"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("run app: %v", err)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Parse()
	if err != nil {
		return fmt.Errorf("parse cfg: %v", err)
	}

	if err := slogx.InitGlobal(os.Stdout, cfg.App.LogLevel, cfg.App.Pretty); err != nil {
		return fmt.Errorf("init logger: %v", err)
	}

	pool, err := database.NewPGX(ctx, database.NewOptions(
		net.JoinHostPort(cfg.Database.Host, cfg.Database.Port),
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		database.WithLogger(slogx.Default()),
	))
	if err != nil {
		return fmt.Errorf("connect to database: %v", err)
	}
	defer pool.Close()

	if err := repository.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("migrate database: %v", err)
	}

	repo := repository.New(database.NewDatabase(pool))

	engine, err := syncuc.New(syncuc.NewOptions(repo, repo))
	if err != nil {
		return fmt.Errorf("init sync engine: %v", err)
	}

	srv, err := httpx.New(httpx.NewOptions(
		cfg.HTTP.Addr,
		api.NewRouter(engine),
		httpx.WithLogger(slogx.Default()),
		httpx.WithMiddlewares(slogx.LoggingMiddleware),
	))
	if err != nil {
		return fmt.Errorf("init http server: %v", err)
	}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error { return srv.Run(ctx) })

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("wait app stop: %v", err)
	}

	return nil
}
