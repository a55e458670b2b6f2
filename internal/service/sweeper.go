package service

import (
	"context"
	"time"

	"github.com/thiagoricci/Rewlio/internal/events"
	"github.com/thiagoricci/Rewlio/internal/metrics"
	"github.com/thiagoricci/Rewlio/internal/model"
	"github.com/thiagoricci/Rewlio/internal/repository"
	"github.com/thiagoricci/Rewlio/pkg/phone"
	"github.com/thiagoricci/Rewlio/pkg/twilio"
	"go.uber.org/zap"
)

// SweepService reaps overdue pending requests so the phone line is freed for
// a new request even when the orchestrator's own timeout misses.
type SweepService interface {
	SweepExpired(ctx context.Context) (int, error)
}

type sweeper struct {
	requests    repository.InfoRequestRepository
	messages    repository.SmsMessageRepository
	credentials repository.TenantCredentialsRepository
	gateway     twilio.Gateway
	events      events.EventPublisher
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

func NewSweepService(requests repository.InfoRequestRepository, messages repository.SmsMessageRepository,
	credentials repository.TenantCredentialsRepository, gateway twilio.Gateway, events events.EventPublisher,
	metrics *metrics.Metrics, logger *zap.Logger) SweepService {
	return &sweeper{
		requests:    requests,
		messages:    messages,
		credentials: credentials,
		gateway:     gateway,
		events:      events,
		metrics:     metrics,
		logger:      logger,
	}
}

func (s *sweeper) SweepExpired(ctx context.Context) (int, error) {
	overdue, err := s.requests.FindOverdue(time.Now())
	if err != nil {
		s.logger.Error("Failed to find overdue requests", zap.Error(err))
		return 0, err
	}

	if len(overdue) == 0 {
		return 0, nil
	}

	ids := make([]int64, 0, len(overdue))
	for _, request := range overdue {
		ids = append(ids, request.ID)
	}

	if err := s.requests.MarkExpiredBulk(ctx, ids); err != nil {
		s.logger.Error("Failed to expire overdue requests",
			zap.Error(err),
			zap.Int("count", len(ids)))
		return 0, err
	}

	s.logger.Info("Expired overdue requests", zap.Int("count", len(ids)))
	s.metrics.SweepExpiredTotal.Add(float64(len(ids)))

	for i := range overdue {
		s.notifyRecipient(ctx, &overdue[i])
	}

	return len(overdue), nil
}

// notifyRecipient sends the timeout notice. Per-recipient failures are logged
// and never abort the batch.
func (s *sweeper) notifyRecipient(ctx context.Context, request *model.InfoRequest) {
	s.events.Publish(ctx, events.RoutingKeyRequestExpired, events.Event{
		TenantID:    request.TenantID,
		RequestCode: request.RequestCode,
		CallID:      request.CallID,
		Status:      string(model.RequestStatusExpired),
	})

	creds, err := s.credentials.FindByTenantID(request.TenantID)
	if err != nil {
		s.logger.Warn("No credentials for tenant, skipping timeout notice",
			zap.String("tenantID", request.TenantID),
			zap.String("requestCode", request.RequestCode))
		return
	}

	body := timeoutSMS()

	tenantCreds := twilio.Credentials{
		AccountSID:  creds.AccountSID,
		AuthToken:   creds.AuthToken,
		PhoneNumber: creds.PhoneNumber,
	}

	sent, err := s.gateway.Send(ctx, tenantCreds, request.RecipientPhone, body)
	if err != nil {
		s.metrics.SmsSendErrors.WithLabelValues(err.Error()).Inc()
		s.logger.Error("Failed to send timeout notice",
			zap.Error(err),
			zap.String("requestCode", request.RequestCode),
			zap.String("recipient", phone.Mask(request.RecipientPhone)))
		return
	}

	code := request.RequestCode
	outbound := model.SmsMessage{
		TenantID:      request.TenantID,
		PhoneNumber:   request.RecipientPhone,
		Body:          body,
		Direction:     model.DirectionOutbound,
		ProviderMsgID: sent.SID,
		RequestCode:   &code,
		CreatedAt:     time.Now(),
	}
	if err := s.messages.Create(ctx, &outbound); err != nil {
		s.logger.Error("Failed to log timeout notice",
			zap.Error(err),
			zap.String("requestCode", request.RequestCode))
	}

	s.metrics.SmsSentTotal.WithLabelValues(string(model.DirectionOutbound), "timeout").Inc()
}
