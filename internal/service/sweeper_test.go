package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/thiagoricci/Rewlio/internal/mocks"
	"github.com/thiagoricci/Rewlio/internal/model"
	"github.com/thiagoricci/Rewlio/internal/repository"
	"github.com/thiagoricci/Rewlio/internal/service"
	"github.com/thiagoricci/Rewlio/pkg/twilio"
	"go.uber.org/zap"
)

type sweeperFixture struct {
	requests    *mocks.InfoRequestRepository
	messages    *mocks.SmsMessageRepository
	credentials *mocks.TenantCredentialsRepository
	gateway     *mocks.TwilioGateway
	events      *mocks.EventPublisher
	svc         service.SweepService
}

func newSweeperFixture() *sweeperFixture {
	f := &sweeperFixture{
		requests:    &mocks.InfoRequestRepository{},
		messages:    &mocks.SmsMessageRepository{},
		credentials: &mocks.TenantCredentialsRepository{},
		gateway:     &mocks.TwilioGateway{},
		events:      &mocks.EventPublisher{},
	}
	f.events.On("Publish", mock.Anything, mock.Anything, mock.Anything).Maybe()
	f.svc = service.NewSweepService(f.requests, f.messages, f.credentials,
		f.gateway, f.events, testMetrics, zap.NewNop())
	return f
}

func overdueRequests() []model.InfoRequest {
	return []model.InfoRequest{
		{ID: 1, RequestCode: "AAAAA1", TenantID: "tenant-1", RecipientPhone: "+15557770001", Status: model.RequestStatusPending},
		{ID: 2, RequestCode: "BBBBB2", TenantID: "tenant-2", RecipientPhone: "+15557770002", Status: model.RequestStatusPending},
	}
}

func TestSweepExpired(t *testing.T) {
	t.Run("nothing overdue is a no-op", func(t *testing.T) {
		f := newSweeperFixture()

		f.requests.On("FindOverdue", mock.Anything).Return([]model.InfoRequest{}, nil)

		count, err := f.svc.SweepExpired(context.Background())

		assert.NoError(t, err)
		assert.Zero(t, count)
		f.requests.AssertNotCalled(t, "MarkExpiredBulk")
		f.gateway.AssertNotCalled(t, "Send")
	})

	t.Run("expires the batch and notifies each recipient", func(t *testing.T) {
		f := newSweeperFixture()

		f.requests.On("FindOverdue", mock.Anything).Return(overdueRequests(), nil)
		f.requests.On("MarkExpiredBulk", mock.Anything, []int64{1, 2}).Return(nil)

		f.credentials.On("FindByTenantID", "tenant-1").Return(tenantCreds, nil)
		f.credentials.On("FindByTenantID", "tenant-2").Return(&model.TenantCredentials{
			TenantID:    "tenant-2",
			AccountSID:  "AC456",
			AuthToken:   "token2",
			PhoneNumber: "+15550002222",
		}, nil)

		f.gateway.On("Send", mock.Anything, mock.Anything, "+15557770001", mock.Anything).
			Return(twilio.Response{SID: "SM-t1"}, nil)
		f.gateway.On("Send", mock.Anything, mock.Anything, "+15557770002", mock.Anything).
			Return(twilio.Response{SID: "SM-t2"}, nil)

		f.messages.On("Create", mock.Anything, mock.MatchedBy(func(msg *model.SmsMessage) bool {
			return msg.Direction == model.DirectionOutbound && msg.RequestCode != nil
		})).Return(nil).Times(2)

		count, err := f.svc.SweepExpired(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 2, count)
		f.requests.AssertExpectations(t)
		f.gateway.AssertExpectations(t)
		f.messages.AssertExpectations(t)
	})

	t.Run("a failed notice does not abort the batch", func(t *testing.T) {
		f := newSweeperFixture()

		f.requests.On("FindOverdue", mock.Anything).Return(overdueRequests(), nil)
		f.requests.On("MarkExpiredBulk", mock.Anything, []int64{1, 2}).Return(nil)

		f.credentials.On("FindByTenantID", "tenant-1").Return(tenantCreds, nil)
		f.credentials.On("FindByTenantID", "tenant-2").
			Return(nil, repository.ErrCredentialsNotFound)

		f.gateway.On("Send", mock.Anything, mock.Anything, "+15557770001", mock.Anything).
			Return(twilio.Response{}, errors.New(twilio.ErrorCodeNetworkError))

		count, err := f.svc.SweepExpired(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 2, count)
		f.messages.AssertNotCalled(t, "Create")
	})

	t.Run("propagates a lookup failure", func(t *testing.T) {
		f := newSweeperFixture()

		f.requests.On("FindOverdue", mock.Anything).
			Return(nil, errors.New("connection reset"))

		count, err := f.svc.SweepExpired(context.Background())

		assert.Error(t, err)
		assert.Zero(t, count)
	})

	t.Run("propagates a bulk expire failure without notifying", func(t *testing.T) {
		f := newSweeperFixture()

		f.requests.On("FindOverdue", mock.Anything).Return(overdueRequests(), nil)
		f.requests.On("MarkExpiredBulk", mock.Anything, []int64{1, 2}).
			Return(errors.New("lock wait timeout"))

		count, err := f.svc.SweepExpired(context.Background())

		assert.Error(t, err)
		assert.Zero(t, count)
		f.gateway.AssertNotCalled(t, "Send")
	})
}
