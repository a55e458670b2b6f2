package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/thiagoricci/Rewlio/internal/model"
)

type TenantCredentialsRepository struct {
	mock.Mock
}

func (m *TenantCredentialsRepository) FindByTenantID(tenantID string) (*model.TenantCredentials, error) {
	args := m.Called(tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TenantCredentials), args.Error(1)
}

func (m *TenantCredentialsRepository) FindByPhoneNumber(phoneNumber string) (*model.TenantCredentials, error) {
	args := m.Called(phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TenantCredentials), args.Error(1)
}
