// cmd/api-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notification-service/internal/api"
	"notification-service/internal/common/aws"
	"notification-service/internal/common/config"
	"notification-service/internal/common/database"
	"notification-service/internal/common/logger"
	"notification-service/internal/common/observability"
	"notification-service/internal/dispatch"
	"notification-service/internal/dispatch/channel"
	"notification-service/internal/models"
	"notification-service/internal/repository"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	zapLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLogger.Sync()
	log := logger.NewZapAdapter(zapLogger)

	log.Info("starting notification service", map[string]interface{}{
		"name":        cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	tracingEndpoint := ""
	if cfg.Tracing.Enabled {
		tracingEndpoint = cfg.Tracing.CollectorEndpoint
	}
	shutdownTracing, err := observability.InitTracing(cfg.App.Name, tracingEndpoint)
	if err != nil {
		zapLogger.Fatal("failed to initialize tracing", zap.Error(err))
	}

	ctx := context.Background()

	var pg *database.PostgresClient
	err = retryWithBackoff(5, 2*time.Second, func() error {
		var connErr error
		pg, connErr = database.NewPostgres(cfg.Database.Postgres)
		if connErr != nil {
			return connErr
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return pg.Ping(pingCtx)
	})
	if err != nil {
		zapLogger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pg.Close()

	rdb := database.NewRedis(cfg.Database.Redis)
	if err := rdb.Ping(ctx); err != nil {
		zapLogger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	awsCfg, err := aws.NewConfig(ctx, cfg.Integrations.AWS.Region)
	if err != nil {
		zapLogger.Fatal("failed to load AWS config", zap.Error(err))
	}

	db := pg.GetDB()
	notifications := repository.NewNotificationRepository(db)
	templates := repository.NewTemplateRepository(db)
	deliveries := repository.NewDeliveryRepository(db)
	projects := repository.NewCachedProjectResolver(
		repository.NewProjectRepository(db),
		rdb.GetClient(),
		time.Duration(cfg.Notifications.ProjectCacheTTL)*time.Second,
		log,
	)

	dispatchers := buildDispatchers(cfg, awsCfg, log)

	service := dispatch.NewService(notifications, templates, deliveries, dispatchers, log)
	handler := api.NewNotificationHandler(service, log)
	router := api.NewRouter(handler, projects, cfg.App.Name, log)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.HTTP.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.HTTP.WriteTimeout),
	}

	go func() {
		log.Info("http server listening", map[string]interface{}{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.HTTP.ShutdownTimeout))
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed", nil)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.WithError(err).Warn("tracing shutdown failed", nil)
	}
}

// buildDispatchers wires one dispatcher per channel. EMAIL always goes through
// SES; SMS goes through SNS only when configured, otherwise both SMS and PUSH
// use the simulated dispatcher.
func buildDispatchers(cfg *config.Config, awsCfg awssdk.Config, log logger.Logger) channel.Registry {
	registry := channel.Registry{
		models.ChannelEmail: channel.NewEmailDispatcher(
			aws.NewSES(awsCfg), cfg.Integrations.AWS.SES.FromEmail, log),
		models.ChannelPush: channel.NewSimulatedDispatcher(
			models.ChannelPush, cfg.Notifications.Simulation.FailureRate, log),
	}

	if cfg.Notifications.SMS.Provider == "sns" {
		registry[models.ChannelSMS] = channel.NewSMSDispatcher(
			aws.NewSNS(awsCfg), cfg.Integrations.AWS.SNS.DefaultSMSSenderID, log)
	} else {
		registry[models.ChannelSMS] = channel.NewSimulatedDispatcher(
			models.ChannelSMS, cfg.Notifications.Simulation.FailureRate, log)
	}
	return registry
}

func retryWithBackoff(attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		time.Sleep(delay)
		delay *= 2
	}
	return err
}
