package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

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

type collectFixture struct {
	requests    *mocks.InfoRequestRepository
	messages    *mocks.SmsMessageRepository
	credentials *mocks.TenantCredentialsRepository
	credit      *mocks.CreditService
	gateway     *mocks.TwilioGateway
	events      *mocks.EventPublisher
	svc         service.CollectService
}

func newCollectFixture() *collectFixture {
	f := &collectFixture{
		requests:    &mocks.InfoRequestRepository{},
		messages:    &mocks.SmsMessageRepository{},
		credentials: &mocks.TenantCredentialsRepository{},
		credit:      &mocks.CreditService{},
		gateway:     &mocks.TwilioGateway{},
		events:      &mocks.EventPublisher{},
	}
	f.events.On("Publish", mock.Anything, mock.Anything, mock.Anything).Maybe()
	f.svc = service.NewCollectService(f.requests, f.messages, f.credentials, f.credit,
		f.gateway, f.events, testMetrics, testConfig(), zap.NewNop())
	return f
}

var collectCmd = service.CollectInfoCommand{
	TenantID:       "tenant-1",
	CallID:         "call-42",
	RecipientPhone: "+15557772222",
	InfoType:       model.InfoTypeEmail,
	PromptMessage:  "Please reply with your email address.",
}

var tenantCreds = &model.TenantCredentials{
	TenantID:    "tenant-1",
	AccountSID:  "AC123",
	AuthToken:   "token",
	PhoneNumber: "+15550001111",
}

func expectCreate(f *collectFixture) {
	f.requests.On("Create", mock.Anything, mock.MatchedBy(func(request *model.InfoRequest) bool {
		return request.TenantID == "tenant-1" &&
			request.Status == model.RequestStatusPending &&
			len(request.RequestCode) == 6 &&
			request.ExpiresAt.Equal(request.CreatedAt.Add(5*time.Minute))
	})).Run(func(args mock.Arguments) {
		request := args.Get(1).(*model.InfoRequest)
		request.ID = 77
	}).Return(nil)
}

func TestCollect_InputValidation(t *testing.T) {
	t.Run("rejects missing fields without side effects", func(t *testing.T) {
		f := newCollectFixture()

		_, err := f.svc.Collect(context.Background(), service.CollectInfoCommand{TenantID: "tenant-1"})

		var serviceErr service.Error
		assert.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, constants.ErrCodeMissingFields, serviceErr.Code)
		f.credit.AssertNotCalled(t, "EnsureBalance")
		f.requests.AssertNotCalled(t, "Create")
	})

	t.Run("rejects non-E164 recipient", func(t *testing.T) {
		f := newCollectFixture()

		cmd := collectCmd
		cmd.RecipientPhone = "555-777-2222"
		_, err := f.svc.Collect(context.Background(), cmd)

		var serviceErr service.Error
		assert.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, constants.ErrCodeInvalidPhoneNumber, serviceErr.Code)
	})
}

func TestCollect_PreconditionFailures(t *testing.T) {
	t.Run("insufficient credit creates no request", func(t *testing.T) {
		f := newCollectFixture()

		f.credit.On("EnsureBalance", mock.Anything, "tenant-1").
			Return(service.NewServiceError(constants.ErrCodeInsufficientCredits, service.ErrInsufficientBalance))

		_, err := f.svc.Collect(context.Background(), collectCmd)

		var serviceErr service.Error
		assert.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, constants.ErrCodeInsufficientCredits, serviceErr.Code)
		f.requests.AssertNotCalled(t, "Create")
		f.gateway.AssertNotCalled(t, "Send")
	})

	t.Run("missing tenant credentials creates no request", func(t *testing.T) {
		f := newCollectFixture()

		f.credit.On("EnsureBalance", mock.Anything, "tenant-1").Return(nil)
		f.credentials.On("FindByTenantID", "tenant-1").
			Return(nil, repository.ErrCredentialsNotFound)

		_, err := f.svc.Collect(context.Background(), collectCmd)

		var serviceErr service.Error
		assert.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, constants.ErrCodeTenantNotConfigured, serviceErr.Code)
		f.requests.AssertNotCalled(t, "Create")
	})
}

func TestCollect_SendFailure(t *testing.T) {
	t.Run("expires the fresh request and skips the debit", func(t *testing.T) {
		f := newCollectFixture()

		f.credit.On("EnsureBalance", mock.Anything, "tenant-1").Return(nil)
		f.credentials.On("FindByTenantID", "tenant-1").Return(tenantCreds, nil)
		expectCreate(f)

		f.gateway.On("Send", mock.Anything, mock.Anything, "+15557772222", collectCmd.PromptMessage).
			Return(twilio.Response{}, errors.New(twilio.ErrorCodeServerError))

		f.requests.On("MarkExpired", mock.Anything, int64(77)).Return(nil)

		result, err := f.svc.Collect(context.Background(), collectCmd)

		var serviceErr service.Error
		assert.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, constants.ErrCodeSmsSendFailed, serviceErr.Code)
		assert.Equal(t, model.RequestStatusExpired, result.Status)
		assert.Len(t, result.RequestCode, 6)

		f.requests.AssertExpectations(t)
		f.credit.AssertNotCalled(t, "DebitForSend")
		f.messages.AssertNotCalled(t, "Create")
	})
}

func TestCollect_WaitForReply(t *testing.T) {
	setupSend := func(f *collectFixture) {
		f.credit.On("EnsureBalance", mock.Anything, "tenant-1").Return(nil)
		f.credentials.On("FindByTenantID", "tenant-1").Return(tenantCreds, nil)
		expectCreate(f)
		f.gateway.On("Send", mock.Anything, mock.Anything, "+15557772222", collectCmd.PromptMessage).
			Return(twilio.Response{SID: "SM1"}, nil)
		f.credit.On("DebitForSend", mock.Anything, "tenant-1", mock.Anything).Return(nil)
		f.messages.On("Create", mock.Anything, mock.MatchedBy(func(msg *model.SmsMessage) bool {
			return msg.Direction == model.DirectionOutbound && msg.RequestCode != nil
		})).Return(nil)
	}

	t.Run("returns the received value once completed", func(t *testing.T) {
		f := newCollectFixture()
		setupSend(f)

		receivedAt := time.Now()
		value := "jane@example.com"

		f.requests.On("GetByCode", "tenant-1", mock.Anything).
			Return(&model.InfoRequest{Status: model.RequestStatusPending}, nil).Once()
		f.requests.On("GetByCode", "tenant-1", mock.Anything).
			Return(&model.InfoRequest{
				Status:        model.RequestStatusCompleted,
				ReceivedValue: &value,
				ReceivedAt:    &receivedAt,
			}, nil)

		result, err := f.svc.Collect(context.Background(), collectCmd)

		assert.NoError(t, err)
		assert.Equal(t, "jane@example.com", result.Value)
		assert.Equal(t, model.RequestStatusCompleted, result.Status)
		assert.WithinDuration(t, receivedAt, result.ReceivedAt, time.Second)
	})

	t.Run("surfaces a terminal expiry from the sweeper", func(t *testing.T) {
		f := newCollectFixture()
		setupSend(f)

		f.requests.On("GetByCode", "tenant-1", mock.Anything).
			Return(&model.InfoRequest{Status: model.RequestStatusExpired}, nil)

		result, err := f.svc.Collect(context.Background(), collectCmd)

		var serviceErr service.Error
		assert.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, constants.ErrCodeRequestExpired, serviceErr.Code)
		assert.Equal(t, model.RequestStatusExpired, result.Status)
	})

	t.Run("expires the request when the ceiling elapses", func(t *testing.T) {
		f := newCollectFixture()
		setupSend(f)

		f.requests.On("GetByCode", "tenant-1", mock.Anything).
			Return(&model.InfoRequest{Status: model.RequestStatusPending}, nil)
		f.requests.On("MarkExpired", mock.Anything, int64(77)).Return(nil)

		result, err := f.svc.Collect(context.Background(), collectCmd)

		var serviceErr service.Error
		assert.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, constants.ErrCodeRequestTimeout, serviceErr.Code)
		assert.Equal(t, model.RequestStatusExpired, result.Status)
		f.requests.AssertCalled(t, "MarkExpired", mock.Anything, int64(77))
	})

	t.Run("caller disconnect expires the request", func(t *testing.T) {
		f := newCollectFixture()
		setupSend(f)

		f.requests.On("GetByCode", "tenant-1", mock.Anything).
			Return(&model.InfoRequest{Status: model.RequestStatusPending}, nil).Maybe()
		f.requests.On("MarkExpired", mock.Anything, int64(77)).Return(nil)

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		_, err := f.svc.Collect(ctx, collectCmd)

		var serviceErr service.Error
		assert.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, constants.ErrCodeRequestTimeout, serviceErr.Code)
	})
}

func TestCollect_CodeCollision(t *testing.T) {
	t.Run("regenerates on duplicate request code", func(t *testing.T) {
		f := newCollectFixture()

		f.credit.On("EnsureBalance", mock.Anything, "tenant-1").Return(nil)
		f.credentials.On("FindByTenantID", "tenant-1").Return(tenantCreds, nil)

		f.requests.On("Create", mock.Anything, mock.Anything).
			Return(repository.ErrRequestCodeDuplicate).Once()
		f.requests.On("Create", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				args.Get(1).(*model.InfoRequest).ID = 78
			}).Return(nil).Once()

		f.gateway.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(twilio.Response{SID: "SM1"}, nil)
		f.credit.On("DebitForSend", mock.Anything, "tenant-1", mock.Anything).Return(nil)
		f.messages.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.requests.On("GetByCode", "tenant-1", mock.Anything).
			Return(&model.InfoRequest{Status: model.RequestStatusCompleted}, nil)

		_, err := f.svc.Collect(context.Background(), collectCmd)

		assert.NoError(t, err)
		f.requests.AssertNumberOfCalls(t, "Create", 2)
	})
}
