package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/evolutionflow/admin-bff/internal/auth"
	"github.com/evolutionflow/admin-bff/internal/members"
	"github.com/evolutionflow/admin-bff/pkg/backend"
	"github.com/evolutionflow/admin-bff/pkg/config"
	"github.com/evolutionflow/admin-bff/pkg/env"
	"github.com/evolutionflow/admin-bff/pkg/listview"
	"github.com/evolutionflow/admin-bff/pkg/logger"
	"github.com/joho/godotenv"
)

const serviceName = "console"

func sessionPath() string {
	if p := env.Get("EFADMIN_CONSOLE_SESSION_FILE", ""); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "evolutionflow", "session.json")
}

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Debug(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(env.Get("EFADMIN_CONSOLE_LOG_LEVEL", "warn")),
		WarnStack:   cfg.App.LogWarnStack,
	})

	client, err := backend.NewClient(cfg.Backend.URL, backend.WithTimeout(cfg.Backend.Timeout))
	if err != nil {
		logg.Error(context.Background(), "failed to create backend client", err)
		os.Exit(1)
	}

	store, err := auth.NewStore(client, auth.NewFileStorage(sessionPath()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create session store", err)
		os.Exit(1)
	}

	svc, err := members.NewService(members.ServiceParams{
		Backend:    client,
		PageSize:   cfg.ListView.PageSize,
		FetchLimit: cfg.Backend.FetchLimit,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create member service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := newConsole(store, svc, []listview.ViewOption{listview.WithDebounce(cfg.ListView.SearchDebounce)}, os.Stdout, logg)
	defer c.close()

	if err := store.Init(ctx); err != nil {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "could not restore session")
	}

	if err := c.run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		logg.Error(ctx, "console stopped unexpectedly", err)
		os.Exit(1)
	}
}
