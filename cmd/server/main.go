package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	babyhandler "nestcare/internal/baby/handler"
	"nestcare/internal/baby/service"
	"nestcare/internal/baby/store"
	"nestcare/internal/platform/config"
	"nestcare/internal/platform/httpserver"
	"nestcare/internal/platform/logger"
	"nestcare/internal/platform/metrics"
	"nestcare/internal/platform/middleware"
	sharehandler "nestcare/internal/sharelink/handler"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal packages.
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.New(cfg.Log)
	m := metrics.New()

	blob := store.NewFileBlob(cfg.Storage.Path)
	babyStore := store.New(blob, log, m)

	provider := service.NewProvider(babyStore, log)
	provider.Load(context.Background())

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Logger(log))

	babyhandler.New(provider, log).Register(router)
	sharehandler.New(provider, cfg.Share.BaseURL, log, m).Register(router)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Server, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting nestcare", "addr", cfg.Server.Addr, "storage", cfg.Storage.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}
