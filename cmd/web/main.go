package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"weaponwheel/internal/config"
	"weaponwheel/internal/handlers"
	"weaponwheel/internal/lib/logger"
	"weaponwheel/internal/metrics"
	"weaponwheel/internal/wheel"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults to $CONFIG_PATH)")
	flag.Parse()

	cfg := config.MustLoad(*configPath)

	log := logger.New(cfg.Log)
	defer func() { _ = log.Sync() }()

	log.Info("starting weapon wheel", zap.String("env", cfg.Env))
	log.Debug("debug messages are enabled")

	_ = mime.AddExtensionType(".js", "application/javascript")
	_ = mime.AddExtensionType(".css", "text/css")

	options, err := wheel.LoadOptions(cfg.Wheel.OptionsFile)
	if err != nil {
		log.Fatal("failed to load wheel options", zap.String("path", cfg.Wheel.OptionsFile), zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	spinMetrics := metrics.NewSpins(reg)

	store := wheel.NewStore(
		wheel.WithStoreLogger(log),
		wheel.WithObserver(spinMetrics),
		wheel.WithDefaultOptions(options),
	)
	if _, err := store.CreateWheel(cfg.Wheel.DefaultID, nil); err != nil {
		log.Fatal("failed to create default wheel", zap.Error(err))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(handlers.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Accept", "Content-Type", "Hx-Request"},
		MaxAge:         300,
	}))

	staticFS, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		log.Fatal("failed to mount static files", zap.Error(err))
	}
	r.Mount("/static", http.StripPrefix("/static", http.FileServer(http.FS(staticFS))))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	handlers.NewHomeHandler(store, cfg.Wheel.DefaultID, log).RegisterRoutes(r)
	handlers.NewWheelHandler(store, log, cfg.BaseURL).RegisterRoutes(r)

	server := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           r,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      0, // SSE streams stay open
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("listening", zap.String("address", "http://localhost"+cfg.HTTP.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
}

//go:embed static/*
var embeddedStatic embed.FS
