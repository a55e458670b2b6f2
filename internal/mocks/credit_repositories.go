package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thiagoricci/Rewlio/internal/model"
)

type CreditAccountRepository struct {
	mock.Mock
}

func (m *CreditAccountRepository) Create(ctx context.Context, account *model.CreditAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *CreditAccountRepository) FindByTenantID(tenantID string) (*model.CreditAccount, error) {
	args := m.Called(tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CreditAccount), args.Error(1)
}

func (m *CreditAccountRepository) Debit(ctx context.Context, tenantID string, amount int64) error {
	args := m.Called(ctx, tenantID, amount)
	return args.Error(0)
}

func (m *CreditAccountRepository) Credit(ctx context.Context, tenantID string, amount int64) error {
	args := m.Called(ctx, tenantID, amount)
	return args.Error(0)
}

type CreditTransactionRepository struct {
	mock.Mock
}

func (m *CreditTransactionRepository) Create(ctx context.Context, tx *model.CreditTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *CreditTransactionRepository) ListByTenant(tenantID string, limit, offset int) ([]model.CreditTransaction, error) {
	args := m.Called(tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CreditTransaction), args.Error(1)
}
