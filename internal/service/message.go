package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/thiagoricci/Rewlio/internal/constants"
	"github.com/thiagoricci/Rewlio/internal/metrics"
	"github.com/thiagoricci/Rewlio/internal/model"
	"github.com/thiagoricci/Rewlio/internal/repository"
	"github.com/thiagoricci/Rewlio/pkg/twilio"
	"go.uber.org/zap"
)

// Twilio caps a concatenated message body at 1600 characters.
const maxMessageLength = 1600

// MessageService covers the inbox surface: ad-hoc outbound sends from the
// dashboard and read-only history queries. Ad-hoc sends are not metered.
type MessageService interface {
	SendMessage(ctx context.Context, cmd SendMessageCommand) (string, error)
	ListMessages(query ListMessagesQuery) ([]model.SmsMessage, int, error)
	ListRequests(query ListRequestsQuery) ([]model.InfoRequest, error)
}

type message struct {
	messages    repository.SmsMessageRepository
	requests    repository.InfoRequestRepository
	credentials repository.TenantCredentialsRepository
	gateway     twilio.Gateway
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

func NewMessageService(messages repository.SmsMessageRepository, requests repository.InfoRequestRepository,
	credentials repository.TenantCredentialsRepository, gateway twilio.Gateway, metrics *metrics.Metrics,
	logger *zap.Logger) MessageService {
	return &message{
		messages:    messages,
		requests:    requests,
		credentials: credentials,
		gateway:     gateway,
		metrics:     metrics,
		logger:      logger,
	}
}

func (s *message) SendMessage(ctx context.Context, cmd SendMessageCommand) (string, error) {
	if cmd.TenantID == "" || cmd.PhoneNumber == "" || strings.TrimSpace(cmd.Body) == "" {
		return "", NewServiceError(constants.ErrCodeMissingFields, errors.New("missing required fields"))
	}

	if len(cmd.Body) > maxMessageLength {
		return "", NewServiceError(constants.ErrCodeMessageTooLong, errors.New("message body exceeds limit"))
	}

	creds, err := s.credentials.FindByTenantID(cmd.TenantID)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialsNotFound) {
			return "", NewServiceError(constants.ErrCodeTenantNotConfigured, ErrCredentialsNotFound)
		}
		return "", NewServiceError(constants.ErrCodeInternalError, err)
	}

	tenantCreds := twilio.Credentials{
		AccountSID:  creds.AccountSID,
		AuthToken:   creds.AuthToken,
		PhoneNumber: creds.PhoneNumber,
	}

	sent, err := s.gateway.Send(ctx, tenantCreds, cmd.PhoneNumber, cmd.Body)
	if err != nil {
		s.metrics.SmsSendErrors.WithLabelValues(err.Error()).Inc()
		return "", NewServiceError(constants.ErrCodeSmsSendFailed, err)
	}

	outbound := model.SmsMessage{
		TenantID:      cmd.TenantID,
		PhoneNumber:   cmd.PhoneNumber,
		Body:          cmd.Body,
		Direction:     model.DirectionOutbound,
		ProviderMsgID: sent.SID,
		CreatedAt:     time.Now(),
	}
	if err := s.messages.Create(ctx, &outbound); err != nil {
		// The message already went out; history just loses a row.
		s.logger.Error("Failed to log ad-hoc outbound message",
			zap.Error(err),
			zap.String("tenantID", cmd.TenantID))
	}

	s.metrics.SmsSentTotal.WithLabelValues(string(model.DirectionOutbound), "adhoc").Inc()

	return sent.SID, nil
}

func (s *message) ListMessages(query ListMessagesQuery) ([]model.SmsMessage, int, error) {
	limit := query.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	messages, err := s.messages.ListByTenant(query.TenantID, limit, query.Offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.messages.CountByTenant(query.TenantID)
	if err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

func (s *message) ListRequests(query ListRequestsQuery) ([]model.InfoRequest, error) {
	limit := query.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	return s.requests.ListByTenant(query.TenantID, limit, query.Offset)
}
