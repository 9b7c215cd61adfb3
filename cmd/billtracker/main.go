package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"billtracker/internal/backend"
	"billtracker/internal/config"
	"billtracker/internal/debounce"
	apphttp "billtracker/internal/http"
	applog "billtracker/internal/log"
	"billtracker/internal/metrics"
	"billtracker/internal/services"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.New(cfg.LogLevel, cfg.LogFormat)
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger.Logger).Create(backendCfg)
	if err != nil {
		logger.Error("Failed to open storage backend", "error", err, "backend", backendCfg.Type)
		os.Exit(1)
	}
	logger.Info("Storage backend ready", "backend", backendCfg.Type)

	deb := debounce.New(cfg.DebounceQuiet, logger.WithComponent("debounce").Logger)
	deb.OnFlush(metrics.CountFlush)

	bills := services.NewBillService(res.Stores.Bills, deb, logger.WithComponent("bills").Logger)
	audits := services.NewAuditService(res.Stores.Audits, deb, logger.WithComponent("audits").Logger)
	recon := services.NewReconService(res.Stores.Statements, res.Stores.Fees, deb, cfg.SummaryCacheTTL, logger.WithComponent("recon").Logger)

	srv := apphttp.NewServer(":"+cfg.Port, bills, audits, recon, cfg.NarrationMarker)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}

		// Flush pending debounced writes before the backend closes, so a
		// clean shutdown never loses the last edit burst.
		deb.Stop()
		if res.Cleanup != nil {
			if err := res.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
