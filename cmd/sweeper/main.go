package main

import (
	"context"
	"time"

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

// The sweeper can also be triggered over HTTP; this binary is for
// deployments without an external scheduler.
func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			database.NewConnection,
			metrics.NewMetrics,
			NewTwilioGateway,
			NewEventPublisher,

			repository.NewInfoRequestRepository,
			repository.NewSmsMessageRepository,
			repository.NewTenantCredentialsRepository,

			service.NewSweepService,
		),
		fx.Invoke(runSweeper),
	).Run()
}

func NewTwilioGateway(cfg *config.Config) twilio.Gateway {
	client := httpclient.NewHTTPClient(cfg.Twilio.Timeout)
	return twilio.NewClient(twilio.Config{BaseURL: cfg.Twilio.BaseURL, Timeout: cfg.Twilio.Timeout}, client)
}

func NewEventPublisher(cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) (events.EventPublisher, error) {
	if !cfg.RabbitMQ.Enable {
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

func runSweeper(cfg *config.Config, sweep service.SweepService, logger *zap.Logger, lc fx.Lifecycle) {
	appCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go loop(appCtx, cfg.Sweeper.Interval, sweep, logger)
			logger.Info("Sweeper started", zap.Duration("interval", cfg.Sweeper.Interval))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping sweeper")
			cancel()
			return nil
		},
	})
}

func loop(ctx context.Context, interval time.Duration, sweep service.SweepService, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := sweep.SweepExpired(ctx)
			if err != nil {
				logger.Error("Sweep run failed", zap.Error(err))
				continue
			}
			if count > 0 {
				logger.Info("Sweep run finished", zap.Int("expired", count))
			}
		}
	}
}
