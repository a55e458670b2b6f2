package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/thiagoricci/Rewlio/internal/constants"
	"github.com/thiagoricci/Rewlio/internal/mocks"
	"github.com/thiagoricci/Rewlio/internal/model"
	"github.com/thiagoricci/Rewlio/internal/repository"
	"github.com/thiagoricci/Rewlio/internal/service"
	"github.com/thiagoricci/Rewlio/pkg/twilio"
	"go.uber.org/zap"
)

type messageFixture struct {
	messages    *mocks.SmsMessageRepository
	requests    *mocks.InfoRequestRepository
	credentials *mocks.TenantCredentialsRepository
	gateway     *mocks.TwilioGateway
	svc         service.MessageService
}

func newMessageFixture() *messageFixture {
	f := &messageFixture{
		messages:    &mocks.SmsMessageRepository{},
		requests:    &mocks.InfoRequestRepository{},
		credentials: &mocks.TenantCredentialsRepository{},
		gateway:     &mocks.TwilioGateway{},
	}
	f.svc = service.NewMessageService(f.messages, f.requests, f.credentials,
		f.gateway, testMetrics, zap.NewNop())
	return f
}

var sendCmd = service.SendMessageCommand{
	TenantID:    "tenant-1",
	PhoneNumber: "+15557772222",
	Body:        "Your appointment is confirmed for 3pm.",
}

func TestSendMessage(t *testing.T) {
	t.Run("sends and logs the outbound message", func(t *testing.T) {
		f := newMessageFixture()

		f.credentials.On("FindByTenantID", "tenant-1").Return(tenantCreds, nil)
		f.gateway.On("Send", mock.Anything, mock.Anything, "+15557772222", sendCmd.Body).
			Return(twilio.Response{SID: "SM-adhoc"}, nil)
		f.messages.On("Create", mock.Anything, mock.MatchedBy(func(msg *model.SmsMessage) bool {
			return msg.Direction == model.DirectionOutbound && msg.RequestCode == nil
		})).Return(nil)

		sid, err := f.svc.SendMessage(context.Background(), sendCmd)

		assert.NoError(t, err)
		assert.Equal(t, "SM-adhoc", sid)
		f.messages.AssertExpectations(t)
	})

	t.Run("rejects a blank body", func(t *testing.T) {
		f := newMessageFixture()

		cmd := sendCmd
		cmd.Body = "   "
		_, err := f.svc.SendMessage(context.Background(), cmd)

		var serviceErr service.Error
		assert.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, constants.ErrCodeMissingFields, serviceErr.Code)
		f.gateway.AssertNotCalled(t, "Send")
	})

	t.Run("rejects a body over the carrier limit", func(t *testing.T) {
		f := newMessageFixture()

		cmd := sendCmd
		cmd.Body = strings.Repeat("a", 1601)
		_, err := f.svc.SendMessage(context.Background(), cmd)

		var serviceErr service.Error
		assert.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, constants.ErrCodeMessageTooLong, serviceErr.Code)
	})

	t.Run("rejects a tenant without credentials", func(t *testing.T) {
		f := newMessageFixture()

		f.credentials.On("FindByTenantID", "tenant-1").
			Return(nil, repository.ErrCredentialsNotFound)

		_, err := f.svc.SendMessage(context.Background(), sendCmd)

		var serviceErr service.Error
		assert.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, constants.ErrCodeTenantNotConfigured, serviceErr.Code)
	})

	t.Run("maps a gateway failure without logging a row", func(t *testing.T) {
		f := newMessageFixture()

		f.credentials.On("FindByTenantID", "tenant-1").Return(tenantCreds, nil)
		f.gateway.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(twilio.Response{}, errors.New(twilio.ErrorCodeServerError))

		_, err := f.svc.SendMessage(context.Background(), sendCmd)

		var serviceErr service.Error
		assert.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, constants.ErrCodeSmsSendFailed, serviceErr.Code)
		f.messages.AssertNotCalled(t, "Create")
	})
}

func TestListMessages(t *testing.T) {
	t.Run("clamps the limit and returns the total", func(t *testing.T) {
		f := newMessageFixture()

		rows := []model.SmsMessage{{ID: 1}, {ID: 2}}
		f.messages.On("ListByTenant", "tenant-1", 50, 0).Return(rows, nil)
		f.messages.On("CountByTenant", "tenant-1").Return(9, nil)

		messages, total, err := f.svc.ListMessages(service.ListMessagesQuery{TenantID: "tenant-1", Limit: 500})

		assert.NoError(t, err)
		assert.Len(t, messages, 2)
		assert.Equal(t, 9, total)
	})

	t.Run("propagates a list failure", func(t *testing.T) {
		f := newMessageFixture()

		f.messages.On("ListByTenant", "tenant-1", 50, 0).
			Return(nil, errors.New("connection reset"))

		_, _, err := f.svc.ListMessages(service.ListMessagesQuery{TenantID: "tenant-1"})

		assert.Error(t, err)
	})
}

func TestListRequests(t *testing.T) {
	t.Run("passes the query through with a default limit", func(t *testing.T) {
		f := newMessageFixture()

		rows := []model.InfoRequest{{ID: 1, RequestCode: "AAAAA1"}}
		f.requests.On("ListByTenant", "tenant-1", 50, 0).Return(rows, nil)

		requests, err := f.svc.ListRequests(service.ListRequestsQuery{TenantID: "tenant-1"})

		assert.NoError(t, err)
		assert.Len(t, requests, 1)
	})
}
