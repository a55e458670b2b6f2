package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thiagoricci/Rewlio/internal/model"
)

type SmsMessageRepository struct {
	mock.Mock
}

func (m *SmsMessageRepository) Create(ctx context.Context, message *model.SmsMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *SmsMessageRepository) BackfillRequestCode(ctx context.Context, id int64, requestCode string) error {
	args := m.Called(ctx, id, requestCode)
	return args.Error(0)
}

func (m *SmsMessageRepository) ListByTenant(tenantID string, limit, offset int) ([]model.SmsMessage, error) {
	args := m.Called(tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SmsMessage), args.Error(1)
}

func (m *SmsMessageRepository) CountByTenant(tenantID string) (int, error) {
	args := m.Called(tenantID)
	return args.Int(0), args.Error(1)
}
