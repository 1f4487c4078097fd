package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mask13/IS601-Midterm/internal/api"
	"github.com/Mask13/IS601-Midterm/internal/config"
	"github.com/Mask13/IS601-Midterm/internal/engine"
	"github.com/Mask13/IS601-Midterm/internal/history"
	"github.com/Mask13/IS601-Midterm/internal/observability"
	"github.com/Mask13/IS601-Midterm/internal/operations"
	"github.com/Mask13/IS601-Midterm/internal/server"
)

func main() {

	ctx := context.Background()

	if err := loadDotEnv(); err != nil {
		panic(err)
	}

	// Logger
	err := observability.InitLogger()
	if err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Tracing
	traceShutdown, err := observability.InitTracing(ctx)
	if err != nil {
		panic(err)
	}
	defer traceShutdown(ctx)

	// Metrics
	metricShutdown, err := initMetrics(ctx)
	if err != nil {
		panic(err)
	}
	defer metricShutdown(ctx)

	// Configuration is validated once; invalid values are fatal.
	cfg, err := config.FromEnv()
	if err != nil {
		panic(err)
	}

	store := history.NewStore(cfg.HistoryFile, observability.Logger)
	calc, err := engine.New(cfg, store, observability.Logger)
	if err != nil {
		panic(err)
	}

	registry := operations.NewRegistry(cfg.Precision)

	// Router
	router := server.NewRouter(api.New(calc, registry))

	srv := &http.Server{
		Addr:    ":8080",
		Handler: router,
	}

	go func() {
		observability.Logger.Info("server started")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	waitForShutdown(srv)
}

func waitForShutdown(srv *http.Server) {

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	srv.Shutdown(ctx)
}
