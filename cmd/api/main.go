package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/thiagoricci/Rewlio/internal/api"
	v1 "github.com/thiagoricci/Rewlio/internal/api/v1"
	"github.com/thiagoricci/Rewlio/internal/api/middleware"
	"github.com/thiagoricci/Rewlio/internal/config"
	"github.com/thiagoricci/Rewlio/internal/database"
	"github.com/thiagoricci/Rewlio/internal/events"
	"github.com/thiagoricci/Rewlio/internal/metrics"
	"github.com/thiagoricci/Rewlio/internal/repository"
	"github.com/thiagoricci/Rewlio/internal/service"
	"github.com/thiagoricci/Rewlio/pkg/httpclient"
	"github.com/thiagoricci/Rewlio/pkg/mq"
	"github.com/thiagoricci/Rewlio/pkg/twilio"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			database.NewConnection,
			metrics.NewMetrics,
			NewFiberApp,
			NewTwilioGateway,
			NewEventPublisher,

			repository.NewInfoRequestRepository,
			repository.NewSmsMessageRepository,
			repository.NewCreditAccountRepository,
			repository.NewCreditTransactionRepository,
			repository.NewTenantCredentialsRepository,
			repository.NewTransactionManager,

			service.NewCreditService,
			service.NewCollectService,
			service.NewInboundService,
			service.NewSweepService,
			service.NewMessageService,

			v1.NewHandler,
		),
		fx.Invoke(startServer),
	).Run()
}

func NewFiberApp(m *metrics.Metrics, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
	})
	app.Use(metrics.HTTPMetricsMiddleware(m, logger))
	return app
}

func NewTwilioGateway(cfg *config.Config) twilio.Gateway {
	client := httpclient.NewHTTPClient(cfg.Twilio.Timeout)
	return twilio.NewClient(twilio.Config{BaseURL: cfg.Twilio.BaseURL, Timeout: cfg.Twilio.Timeout}, client)
}

func NewEventPublisher(cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) (events.EventPublisher, error) {
	if !cfg.RabbitMQ.Enable {
		logger.Info("Event publishing disabled")
		return events.NewNoopPublisher(), nil
	}

	rabbit, err := mq.NewConnection(mq.Config{URL: cfg.RabbitMQ.URL}, logger)
	if err != nil {
		return nil, err
	}

	if err := rabbit.DeclareExchange(events.Exchange); err != nil {
		return nil, err
	}

	publisher, err := rabbit.CreatePublisher()
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return rabbit.Close()
		},
	})

	return events.NewPublisher(publisher, logger), nil
}

func startServer(app *fiber.App, handler *v1.Handler, cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) {
	api.SetupRoutes(app, handler)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := app.Listen(cfg.API.Port); err != nil {
					logger.Error("Server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}
