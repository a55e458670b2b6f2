package service

import (
	"context"
	"errors"
	"time"

	"github.com/thiagoricci/Rewlio/internal/config"
	"github.com/thiagoricci/Rewlio/internal/constants"
	"github.com/thiagoricci/Rewlio/internal/events"
	"github.com/thiagoricci/Rewlio/internal/metrics"
	"github.com/thiagoricci/Rewlio/internal/model"
	"github.com/thiagoricci/Rewlio/internal/repository"
	"github.com/thiagoricci/Rewlio/internal/requestcode"
	"github.com/thiagoricci/Rewlio/pkg/phone"
	"github.com/thiagoricci/Rewlio/pkg/twilio"
	"go.uber.org/zap"
)

const maxCodeRetries = 3

// CollectService is the outbound orchestrator: it creates an info request,
// texts the recipient, then blocks polling the store until the reply arrives,
// the request dies, or the wait ceiling passes. The response to the caller is
// the call continuation signal, which is why this is synchronous.
type CollectService interface {
	Collect(ctx context.Context, cmd CollectInfoCommand) (CollectResult, error)
}

type collect struct {
	requests    repository.InfoRequestRepository
	messages    repository.SmsMessageRepository
	credentials repository.TenantCredentialsRepository
	credit      CreditService
	gateway     twilio.Gateway
	events      events.EventPublisher
	metrics     *metrics.Metrics
	cfg         config.Collect
	logger      *zap.Logger
}

func NewCollectService(requests repository.InfoRequestRepository, messages repository.SmsMessageRepository,
	credentials repository.TenantCredentialsRepository, credit CreditService, gateway twilio.Gateway,
	events events.EventPublisher, metrics *metrics.Metrics, cfg *config.Config, logger *zap.Logger) CollectService {
	return &collect{
		requests:    requests,
		messages:    messages,
		credentials: credentials,
		credit:      credit,
		gateway:     gateway,
		events:      events,
		metrics:     metrics,
		cfg:         cfg.Collect,
		logger:      logger,
	}
}

func (s *collect) Collect(ctx context.Context, cmd CollectInfoCommand) (CollectResult, error) {
	if cmd.TenantID == "" || cmd.CallID == "" || cmd.RecipientPhone == "" || cmd.PromptMessage == "" {
		return CollectResult{}, NewServiceError(constants.ErrCodeMissingFields, errors.New("missing required fields"))
	}

	if !phone.IsValidE164(cmd.RecipientPhone) {
		return CollectResult{}, NewServiceError(constants.ErrCodeInvalidPhoneNumber, errors.New("recipient phone is not E.164"))
	}

	if cmd.InfoType == "" {
		cmd.InfoType = model.InfoTypeGeneral
	}

	// Nothing is created until the tenant can pay for the send.
	if err := s.credit.EnsureBalance(ctx, cmd.TenantID); err != nil {
		return CollectResult{}, err
	}

	creds, err := s.credentials.FindByTenantID(cmd.TenantID)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialsNotFound) {
			return CollectResult{}, NewServiceError(constants.ErrCodeTenantNotConfigured, ErrCredentialsNotFound)
		}
		return CollectResult{}, NewServiceError(constants.ErrCodeInternalError, err)
	}

	request, err := s.createRequest(ctx, cmd)
	if err != nil {
		return CollectResult{}, err
	}

	s.logger.Info("Info request created",
		zap.String("requestCode", request.RequestCode),
		zap.String("tenantID", cmd.TenantID),
		zap.String("callID", cmd.CallID),
		zap.String("recipient", phone.Mask(cmd.RecipientPhone)))

	tenantCreds := twilio.Credentials{
		AccountSID:  creds.AccountSID,
		AuthToken:   creds.AuthToken,
		PhoneNumber: creds.PhoneNumber,
	}

	sent, err := s.gateway.Send(ctx, tenantCreds, cmd.RecipientPhone, cmd.PromptMessage)
	if err != nil {
		s.metrics.SmsSendErrors.WithLabelValues(err.Error()).Inc()
		s.logger.Error("Prompt SMS send failed, expiring request",
			zap.Error(err),
			zap.String("requestCode", request.RequestCode))

		// No orphan pending rows from this path, and the tenant is not
		// charged for a message the carrier never took.
		if expireErr := s.requests.MarkExpired(ctx, request.ID); expireErr != nil {
			s.logger.Error("Failed to expire request after send failure",
				zap.Error(expireErr),
				zap.String("requestCode", request.RequestCode))
		}

		result := CollectResult{RequestCode: request.RequestCode, Status: model.RequestStatusExpired}
		return result, NewServiceError(constants.ErrCodeSmsSendFailed, err)
	}

	s.afterSend(ctx, request, sent.SID)

	return s.waitForReply(ctx, request)
}

func (s *collect) createRequest(ctx context.Context, cmd CollectInfoCommand) (*model.InfoRequest, error) {
	var lastErr error

	for attempt := 0; attempt < maxCodeRetries; attempt++ {
		now := time.Now()
		request := model.InfoRequest{
			RequestCode:    requestcode.Generate(),
			CallID:         cmd.CallID,
			TenantID:       cmd.TenantID,
			RecipientPhone: cmd.RecipientPhone,
			InfoType:       cmd.InfoType,
			PromptMessage:  cmd.PromptMessage,
			Status:         model.RequestStatusPending,
			CreatedAt:      now,
			ExpiresAt:      now.Add(model.RequestTTL),
		}

		err := s.requests.Create(ctx, &request)
		if err == nil {
			s.metrics.RequestsCreated.WithLabelValues(string(cmd.InfoType)).Inc()
			return &request, nil
		}

		lastErr = err
		if !errors.Is(err, repository.ErrRequestCodeDuplicate) {
			break
		}

		s.logger.Warn("Request code collision, regenerating",
			zap.String("requestCode", request.RequestCode))
	}

	s.logger.Error("Failed to create info request",
		zap.Error(lastErr),
		zap.String("tenantID", cmd.TenantID))

	return nil, NewServiceError(constants.ErrCodeInternalError, lastErr)
}

// afterSend records the side effects of a successful carrier hand-off: the
// debit, its audit row, the outbound message log, and lifecycle events.
// None of them may fail the collection; the SMS is already on its way.
func (s *collect) afterSend(ctx context.Context, request *model.InfoRequest, providerMsgID string) {
	if err := s.credit.DebitForSend(ctx, request.TenantID, request.RequestCode); err != nil {
		s.logger.Error("Failed to debit credit after send",
			zap.Error(err),
			zap.String("requestCode", request.RequestCode))
	}

	code := request.RequestCode
	outbound := model.SmsMessage{
		TenantID:      request.TenantID,
		PhoneNumber:   request.RecipientPhone,
		Body:          request.PromptMessage,
		Direction:     model.DirectionOutbound,
		ProviderMsgID: providerMsgID,
		RequestCode:   &code,
		CreatedAt:     time.Now(),
	}
	if err := s.messages.Create(ctx, &outbound); err != nil {
		s.logger.Error("Failed to log outbound prompt",
			zap.Error(err),
			zap.String("requestCode", request.RequestCode))
	}

	s.metrics.SmsSentTotal.WithLabelValues(string(model.DirectionOutbound), "prompt").Inc()

	s.events.Publish(ctx, events.RoutingKeyRequestCreated, events.Event{
		TenantID:    request.TenantID,
		RequestCode: request.RequestCode,
		CallID:      request.CallID,
		Status:      string(model.RequestStatusPending),
	})
	s.events.Publish(ctx, events.RoutingKeySmsSent, events.Event{
		TenantID:    request.TenantID,
		RequestCode: request.RequestCode,
	})
}

// waitForReply polls the store until the correlator or the sweeper moves the
// request out of pending, the ceiling elapses, or the caller disconnects.
// The ceiling is measured from here with our own clock, independent of the
// stored expiry, as the last line of defense when the sweeper misses.
func (s *collect) waitForReply(ctx context.Context, request *model.InfoRequest) (CollectResult, error) {
	started := time.Now()
	deadline := started.Add(s.cfg.WaitCeiling)

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Warn("Caller disconnected while waiting for reply",
				zap.String("requestCode", request.RequestCode))
			return s.timeoutRequest(request, started)

		case <-ticker.C:
		}

		if time.Now().After(deadline) {
			return s.timeoutRequest(request, started)
		}

		current, err := s.requests.GetByCode(request.TenantID, request.RequestCode)
		if err != nil {
			s.logger.Error("Poll lookup failed",
				zap.Error(err),
				zap.String("requestCode", request.RequestCode))
			continue
		}

		switch current.Status {
		case model.RequestStatusCompleted:
			s.metrics.RequestsResolved.WithLabelValues(string(current.Status)).Inc()
			s.metrics.RequestWaitSeconds.Observe(time.Since(started).Seconds())

			s.logger.Info("Info request completed",
				zap.String("requestCode", request.RequestCode),
				zap.Duration("waited", time.Since(started)))

			result := CollectResult{
				RequestCode: current.RequestCode,
				Status:      current.Status,
			}
			if current.ReceivedValue != nil {
				result.Value = *current.ReceivedValue
			}
			if current.ReceivedAt != nil {
				result.ReceivedAt = *current.ReceivedAt
			}
			return result, nil

		case model.RequestStatusExpired, model.RequestStatusInvalid:
			s.metrics.RequestsResolved.WithLabelValues(string(current.Status)).Inc()

			s.logger.Info("Info request resolved without value",
				zap.String("requestCode", request.RequestCode),
				zap.String("status", string(current.Status)))

			result := CollectResult{RequestCode: current.RequestCode, Status: current.Status}
			return result, NewServiceError(constants.ErrCodeRequestExpired, errors.New("request expired or invalid"))
		}
	}
}

func (s *collect) timeoutRequest(request *model.InfoRequest, started time.Time) (CollectResult, error) {
	bg, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.requests.MarkExpired(bg, request.ID); err != nil {
		if !errors.Is(err, repository.ErrNoRowsAffected) {
			s.logger.Error("Failed to expire request on timeout",
				zap.Error(err),
				zap.String("requestCode", request.RequestCode))
		}
	} else {
		s.events.Publish(bg, events.RoutingKeyRequestExpired, events.Event{
			TenantID:    request.TenantID,
			RequestCode: request.RequestCode,
			CallID:      request.CallID,
			Status:      string(model.RequestStatusExpired),
		})
	}

	s.metrics.RequestsResolved.WithLabelValues("timeout").Inc()
	s.metrics.RequestWaitSeconds.Observe(time.Since(started).Seconds())

	result := CollectResult{RequestCode: request.RequestCode, Status: model.RequestStatusExpired}
	return result, NewServiceError(constants.ErrCodeRequestTimeout, errors.New("request timed out"))
}
