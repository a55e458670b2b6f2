package service

import (
	"context"
	"errors"
	"time"

	"github.com/thiagoricci/Rewlio/internal/events"
	"github.com/thiagoricci/Rewlio/internal/metrics"
	"github.com/thiagoricci/Rewlio/internal/model"
	"github.com/thiagoricci/Rewlio/internal/repository"
	"github.com/thiagoricci/Rewlio/internal/validation"
	"github.com/thiagoricci/Rewlio/pkg/phone"
	"github.com/thiagoricci/Rewlio/pkg/twilio"
	"go.uber.org/zap"
)

// InboundService correlates carrier-delivered replies to pending requests.
// It never reports failure upward: the webhook must always acknowledge the
// carrier or Twilio retries the delivery.
type InboundService interface {
	HandleReply(ctx context.Context, cmd InboundSmsCommand)
}

type inbound struct {
	requests    repository.InfoRequestRepository
	messages    repository.SmsMessageRepository
	credentials repository.TenantCredentialsRepository
	gateway     twilio.Gateway
	events      events.EventPublisher
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

func NewInboundService(requests repository.InfoRequestRepository, messages repository.SmsMessageRepository,
	credentials repository.TenantCredentialsRepository, gateway twilio.Gateway, events events.EventPublisher,
	metrics *metrics.Metrics, logger *zap.Logger) InboundService {
	return &inbound{
		requests:    requests,
		messages:    messages,
		credentials: credentials,
		gateway:     gateway,
		events:      events,
		metrics:     metrics,
		logger:      logger,
	}
}

func (s *inbound) HandleReply(ctx context.Context, cmd InboundSmsCommand) {
	if cmd.From == "" || cmd.To == "" || cmd.Body == "" {
		s.logger.Warn("Inbound SMS missing From, To, or Body")
		return
	}

	creds, err := s.credentials.FindByPhoneNumber(cmd.To)
	if err != nil {
		// Nobody owns this receiving number; the carrier still gets its ack.
		s.logger.Warn("No tenant owns receiving number",
			zap.String("to", phone.Mask(cmd.To)),
			zap.Error(err))
		return
	}

	// Log the inbound message before any correlation attempt so every text
	// is retained in the inbox even without a matching request.
	inboundMsg := model.SmsMessage{
		TenantID:      creds.TenantID,
		PhoneNumber:   cmd.From,
		Body:          cmd.Body,
		Direction:     model.DirectionInbound,
		ProviderMsgID: cmd.ProviderMsgID,
		CreatedAt:     time.Now(),
	}
	if err := s.messages.Create(ctx, &inboundMsg); err != nil {
		s.logger.Error("Failed to log inbound message",
			zap.Error(err),
			zap.String("tenantID", creds.TenantID))
	}

	s.metrics.SmsSentTotal.WithLabelValues(string(model.DirectionInbound), "reply").Inc()

	request, err := s.requests.FindNewestPending(creds.TenantID, cmd.From)
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			s.logger.Info("No pending request for sender, message kept as general inbound",
				zap.String("tenantID", creds.TenantID),
				zap.String("from", phone.Mask(cmd.From)))
		} else {
			s.logger.Error("Pending request lookup failed",
				zap.Error(err),
				zap.String("tenantID", creds.TenantID))
		}
		return
	}

	if err := s.messages.BackfillRequestCode(ctx, inboundMsg.ID, request.RequestCode); err != nil {
		s.logger.Error("Failed to backfill request code on inbound message",
			zap.Error(err),
			zap.String("requestCode", request.RequestCode))
	}

	result := validation.Validate(cmd.Body, request.InfoType)
	if !result.Valid {
		s.metrics.ValidationFailures.WithLabelValues(string(request.InfoType)).Inc()
		s.sendCorrective(ctx, creds, request, result.Error)
		return
	}

	s.completeRequest(ctx, request, result.Normalized)
}

func (s *inbound) completeRequest(ctx context.Context, request *model.InfoRequest, value string) {
	err := s.requests.Complete(ctx, request.ID, value, time.Now())
	if err != nil {
		// A sweeper expiry can win the race by microseconds; the late reply
		// is already logged and simply has no effect.
		if errors.Is(err, repository.ErrNoRowsAffected) {
			s.logger.Info("Request no longer pending, reply ignored",
				zap.String("requestCode", request.RequestCode))
		} else {
			s.logger.Error("Failed to complete request",
				zap.Error(err),
				zap.String("requestCode", request.RequestCode))
		}
		return
	}

	s.logger.Info("Request completed by reply",
		zap.String("requestCode", request.RequestCode),
		zap.String("tenantID", request.TenantID))

	s.events.Publish(ctx, events.RoutingKeyRequestCompleted, events.Event{
		TenantID:    request.TenantID,
		RequestCode: request.RequestCode,
		CallID:      request.CallID,
		Status:      string(model.RequestStatusCompleted),
	})
}

// sendCorrective texts the validation error back and leaves the request
// pending so the next reply can still be correlated.
func (s *inbound) sendCorrective(ctx context.Context, creds *model.TenantCredentials,
	request *model.InfoRequest, validationError string) {

	body := correctiveSMS(validationError)

	tenantCreds := twilio.Credentials{
		AccountSID:  creds.AccountSID,
		AuthToken:   creds.AuthToken,
		PhoneNumber: creds.PhoneNumber,
	}

	sent, err := s.gateway.Send(ctx, tenantCreds, request.RecipientPhone, body)
	if err != nil {
		s.metrics.SmsSendErrors.WithLabelValues(err.Error()).Inc()
		s.logger.Error("Failed to send corrective SMS",
			zap.Error(err),
			zap.String("requestCode", request.RequestCode))
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
		s.logger.Error("Failed to log corrective SMS",
			zap.Error(err),
			zap.String("requestCode", request.RequestCode))
	}

	s.metrics.SmsSentTotal.WithLabelValues(string(model.DirectionOutbound), "corrective").Inc()

	s.logger.Info("Corrective SMS sent, request stays pending",
		zap.String("requestCode", request.RequestCode),
		zap.String("infoType", string(request.InfoType)))
}
