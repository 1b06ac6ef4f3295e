package main

import (
	"context"
	"embed"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"datalens/adapters/insight"
	"datalens/adapters/profiling"
	"datalens/adapters/tabular"
	"datalens/adapters/viz"
	"datalens/app"
	"datalens/internal"
	"datalens/internal/config"
	"datalens/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

//go:embed ui/templates/** ui/static/*
var embeddedFiles embed.FS

func main() {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()
	gin.SetMode(cfg.Server.GinMode)

	// Optional pprof endpoint for load investigation
	if cfg.Profiling.Enabled {
		go func() {
			logger.Info("pprof listening on http://localhost:%s/debug/pprof/", cfg.Profiling.Port)
			if err := http.ListenAndServe(":"+cfg.Profiling.Port, nil); err != nil {
				logger.Error("pprof server stopped: %v", err)
			}
		}()
	}

	loader := tabular.NewLoaderWith(tabular.CoercionConfig{
		NumericThreshold:  cfg.Coercion.NumericThreshold,
		BooleanThreshold:  cfg.Coercion.BooleanThreshold,
		DatetimeThreshold: cfg.Coercion.DatetimeThreshold,
	})

	service := app.NewDashboardService(
		*cfg,
		loader,
		tabular.NewExporter(),
		profiling.NewEngine(),
		insight.NewEngine(),
		viz.NewEngine(),
		logger,
	)

	server, err := ui.NewServer(*cfg, service, embeddedFiles, logger)
	if err != nil {
		log.Fatalf("Failed to create dashboard server: %v", err)
	}

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	httpServer := &http.Server{Addr: addr, Handler: server.Handler()}

	go func() {
		logger.Info("dashboard listening on http://%s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Block until an interrupt, then drain in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown: %v", err)
	}
}
