package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/thiagoricci/Rewlio/internal/model"
)

type InfoRequestRepository struct {
	mock.Mock
}

func (m *InfoRequestRepository) Create(ctx context.Context, request *model.InfoRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *InfoRequestRepository) GetByCode(tenantID, requestCode string) (*model.InfoRequest, error) {
	args := m.Called(tenantID, requestCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InfoRequest), args.Error(1)
}

func (m *InfoRequestRepository) FindNewestPending(tenantID, recipientPhone string) (*model.InfoRequest, error) {
	args := m.Called(tenantID, recipientPhone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InfoRequest), args.Error(1)
}

func (m *InfoRequestRepository) Complete(ctx context.Context, id int64, receivedValue string, receivedAt time.Time) error {
	args := m.Called(ctx, id, receivedValue, receivedAt)
	return args.Error(0)
}

func (m *InfoRequestRepository) MarkExpired(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *InfoRequestRepository) MarkExpiredBulk(ctx context.Context, ids []int64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *InfoRequestRepository) FindOverdue(now time.Time) ([]model.InfoRequest, error) {
	args := m.Called(now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InfoRequest), args.Error(1)
}

func (m *InfoRequestRepository) ListByTenant(tenantID string, limit, offset int) ([]model.InfoRequest, error) {
	args := m.Called(tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InfoRequest), args.Error(1)
}
