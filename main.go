package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/crowd-band/cliparse"
	"github.com/danielhkuo/crowd-band/contest"
	"github.com/danielhkuo/crowd-band/metrics"
	"github.com/danielhkuo/crowd-band/router"
	"github.com/danielhkuo/crowd-band/scheduler"
	"github.com/danielhkuo/crowd-band/store"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Open the key-value store
	kv, err := openStore(cfg)
	if err != nil {
		slog.Error("store open failed", "store", cfg.StoreType, "error", err)
		os.Exit(1)
	}
	defer kv.Close()
	slog.Info("Store ready", "store", cfg.StoreType)

	engine := contest.New(kv, contest.Config{Genre: cfg.SongGenre})
	metrics.Register()

	// Create server
	server := &http.Server{
		Handler:           router.NewRouter(engine, cfg),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return scheduler.New(engine, cfg.CloseInterval).Run(gctx)
	})

	g.Go(func() error {
		// Wait for Ctrl-C or a failed sibling
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed")
	}
}

func openStore(cfg cliparse.Config) (store.Store, error) {
	switch cfg.StoreType {
	case cliparse.StoreBadger:
		return store.OpenBadger(store.BadgerConfig{
			Path:       cfg.DataDir,
			SyncWrites: true,
			Logger:     slog.Default(),
			GCInterval: 10 * time.Minute,
		})
	case cliparse.StorePostgres:
		return store.OpenSQL(store.TypePostgres, cfg.DatabaseURL)
	case cliparse.StoreSQLite:
		return store.OpenSQL(store.TypeSQLite, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.StoreType)
	}
}
