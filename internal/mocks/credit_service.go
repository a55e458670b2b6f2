package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thiagoricci/Rewlio/internal/model"
)

type CreditService struct {
	mock.Mock
}

func (m *CreditService) EnsureBalance(ctx context.Context, tenantID string) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

func (m *CreditService) DebitForSend(ctx context.Context, tenantID string, requestCode string) error {
	args := m.Called(ctx, tenantID, requestCode)
	return args.Error(0)
}

func (m *CreditService) Credit(ctx context.Context, tenantID string, amount int64, description string) error {
	args := m.Called(ctx, tenantID, amount, description)
	return args.Error(0)
}

func (m *CreditService) GetBalance(tenantID string) (int64, error) {
	args := m.Called(tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CreditService) ListTransactions(tenantID string, limit, offset int) ([]model.CreditTransaction, error) {
	args := m.Called(tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CreditTransaction), args.Error(1)
}
