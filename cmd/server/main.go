package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hxtubes/hxreport/internal/config"
	"github.com/hxtubes/hxreport/internal/repository/cache"
	"github.com/hxtubes/hxreport/internal/repository/mongodb"
	"github.com/hxtubes/hxreport/internal/repository/sheets"
	"github.com/hxtubes/hxreport/internal/scheduler"
	"github.com/hxtubes/hxreport/internal/server/handlers"
	"github.com/hxtubes/hxreport/internal/server/router"
	reportingsvc "github.com/hxtubes/hxreport/internal/service/reporting"
	"github.com/hxtubes/hxreport/pkg/clients/supabase"
	whatsappclient "github.com/hxtubes/hxreport/pkg/clients/whatsapp"
	"github.com/hxtubes/hxreport/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Env))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	source, err := newSource(context.Background(), cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init data source", zap.Error(err))
	}
	cached := cache.New(source, cfg.Source.CacheTTL, logger.Named(baseLogger, "repo.cache"))

	loc := cfg.Location()
	reportingSvc := reportingsvc.NewService(cached, cfg.Source, loc, logger.Named(baseLogger, "svc.reporting"))

	reportHandler := handlers.NewReportHandler(reportingSvc, logger.Named(baseLogger, "handlers.reports"))
	engine := router.New(reportHandler, logger.Named(baseLogger, "router"))

	if cfg.Reporting.Enabled {
		var archive mongodb.Repository
		if cfg.MongoDB.Enabled() {
			mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
			if err != nil {
				baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
			}
			defer func() {
				if err := mongoRepo.Close(context.Background()); err != nil {
					baseLogger.Error("failed to close mongodb connection", zap.Error(err))
				}
			}()
			archive = mongoRepo
		} else {
			baseLogger.Warn("mongodb uri missing, daily report archive disabled")
		}

		var messenger whatsappclient.Client
		if cfg.WhatsApp.Enabled() {
			messenger = whatsappclient.NewClient(cfg.WhatsApp)
		} else {
			baseLogger.Warn("whatsapp credentials missing, daily summary delivery disabled")
		}

		sched := scheduler.NewScheduler(cfg.Reporting, loc, reportingSvc, archive, messenger, cfg.WhatsApp.ReportRecipient, logger.Named(baseLogger, "scheduler"))
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			sched.Stop(stopCtx)
		}()
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.WithCORS(engine, cfg.Server.AllowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("data_source", cfg.Source.Kind))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newSource(ctx context.Context, cfg *config.Config, baseLogger *zap.Logger) (cache.Source, error) {
	switch cfg.Source.Kind {
	case config.SourceSheets:
		return sheets.NewSource(ctx, cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
	default:
		return supabase.NewClient(cfg.Supabase), nil
	}
}
