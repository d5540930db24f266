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

	"github.com/mamadbah2/agricure/internal/config"
	"github.com/mamadbah2/agricure/internal/i18n"
	"github.com/mamadbah2/agricure/internal/observability"
	"github.com/mamadbah2/agricure/internal/repository/influx"
	"github.com/mamadbah2/agricure/internal/repository/mongodb"
	"github.com/mamadbah2/agricure/internal/repository/sheets"
	"github.com/mamadbah2/agricure/internal/scheduler"
	"github.com/mamadbah2/agricure/internal/server/handlers"
	"github.com/mamadbah2/agricure/internal/server/router"
	alertsvc "github.com/mamadbah2/agricure/internal/service/alerts"
	authsvc "github.com/mamadbah2/agricure/internal/service/auth"
	dashboardsvc "github.com/mamadbah2/agricure/internal/service/dashboard"
	farmsvc "github.com/mamadbah2/agricure/internal/service/farms"
	monitorsvc "github.com/mamadbah2/agricure/internal/service/monitor"
	recommendationsvc "github.com/mamadbah2/agricure/internal/service/recommendations"
	telemetrysvc "github.com/mamadbah2/agricure/internal/service/telemetry"
	"github.com/mamadbah2/agricure/pkg/clients/anthropic"
	"github.com/mamadbah2/agricure/pkg/clients/thingspeak"
	whatsappclient "github.com/mamadbah2/agricure/pkg/clients/whatsapp"
	"github.com/mamadbah2/agricure/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	metrics := observability.NewMetrics()

	tsClient := thingspeak.NewClient(cfg.ThingSpeak, baseLogger.Named("client.thingspeak"),
		thingspeak.WithStateObserver(metrics.BreakerStateChanged))
	telemetrySvc := telemetrysvc.NewService(tsClient, cfg.ThingSpeak, nil, metrics, baseLogger.Named("svc.telemetry"))
	dashboardSvc := dashboardsvc.NewService(telemetrySvc, baseLogger.Named("svc.dashboard"))

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName, baseLogger.Named("repo.mongo"))
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoRepo.Close(ctx); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	sinks := []monitorsvc.NamedSink{{Name: "mongodb", Sink: mongoRepo}}

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sinks = append(sinks, monitorsvc.NamedSink{Name: "sheets", Sink: sheetsRepo})
	} else {
		baseLogger.Info("google sheets export disabled")
	}

	if cfg.Influx.Enabled() {
		influxWriter, err := influx.NewSnapshotWriter(cfg.Influx, baseLogger.Named("repo.influx"))
		if err != nil {
			baseLogger.Fatal("failed to init influx writer", zap.Error(err))
		}
		defer influxWriter.Close()
		sinks = append(sinks, monitorsvc.NamedSink{Name: "influx", Sink: influxWriter})
	} else {
		baseLogger.Info("influx export disabled")
	}

	var notifier monitorsvc.Notifier
	if cfg.WhatsApp.Enabled() {
		waClient := whatsappclient.NewClient(cfg.WhatsApp)
		notifier = alertsvc.NewWhatsAppNotifier(waClient, cfg.WhatsApp.AlertRecipient, baseLogger.Named("svc.alerts"))
		baseLogger.Info("whatsapp soil alerts enabled")
	} else {
		baseLogger.Warn("whatsapp credentials missing, soil alerts disabled")
	}

	monitor := monitorsvc.NewService(telemetrySvc, sinks, notifier, metrics, baseLogger.Named("svc.monitor"))

	var aiClient anthropic.Client
	if cfg.AI.Enabled() {
		aiClient = anthropic.NewClient(cfg.AI.AnthropicKey, "")
		baseLogger.Info("anthropic ai client enabled")
	} else {
		baseLogger.Warn("anthropic api key missing, recommendation enhancement disabled")
	}

	authSvc := authsvc.NewService(mongoRepo, authsvc.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL), baseLogger.Named("svc.auth"))
	prefs := i18n.NewPreferences(mongoRepo, baseLogger.Named("svc.i18n"))
	farmSvc := farmsvc.NewService(mongoRepo, baseLogger.Named("svc.farms"))
	recommendationSvc := recommendationsvc.NewService(mongoRepo, aiClient, baseLogger.Named("svc.recommendations"))

	engine := router.New(router.Handlers{
		Auth:            handlers.NewAuthHandler(authSvc, baseLogger.Named("handlers.auth")),
		Language:        handlers.NewLanguageHandler(prefs, baseLogger.Named("handlers.language")),
		Soil:            handlers.NewSoilHandler(dashboardSvc, telemetrySvc, prefs, mongoRepo, baseLogger.Named("handlers.soil")),
		Farms:           handlers.NewFarmHandler(farmSvc, baseLogger.Named("handlers.farms")),
		Recommendations: handlers.NewRecommendationHandler(recommendationSvc, telemetrySvc, baseLogger.Named("handlers.recommendations")),
		Ready:           mongoRepo,
	}, authSvc, metrics, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(cfg.Polling, monitor, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer func() { <-sched.Stop().Done() }()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
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
