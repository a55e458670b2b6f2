package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thiagoricci/Rewlio/pkg/twilio"
)

type TwilioGateway struct {
	mock.Mock
}

func (m *TwilioGateway) Send(ctx context.Context, creds twilio.Credentials, to string, body string) (twilio.Response, error) {
	args := m.Called(ctx, creds, to, body)
	return args.Get(0).(twilio.Response), args.Error(1)
}
