package repository

import (
	"errors"

	"github.com/thiagoricci/Rewlio/internal/model"
	"gorm.io/gorm"
)

var ErrCredentialsNotFound = errors.New("CREDENTIALS_NOT_FOUND")

// TenantCredentialsRepository is read-only: the settings UI owns writes.
type TenantCredentialsRepository interface {
	FindByTenantID(tenantID string) (*model.TenantCredentials, error)
	FindByPhoneNumber(phoneNumber string) (*model.TenantCredentials, error)
}

type TenantCredentials struct {
	db *gorm.DB
}

func NewTenantCredentialsRepository(db *gorm.DB) TenantCredentialsRepository {
	return &TenantCredentials{db: db}
}

func (r *TenantCredentials) FindByTenantID(tenantID string) (*model.TenantCredentials, error) {
	var creds model.TenantCredentials

	err := r.db.Where("tenant_id = ?", tenantID).First(&creds).Error
	if err == nil {
		return &creds, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCredentialsNotFound
	}

	return nil, err
}

// FindByPhoneNumber resolves which tenant owns a receiving number. This is
// how an inbound webhook delivery is attributed to a tenant.
func (r *TenantCredentials) FindByPhoneNumber(phoneNumber string) (*model.TenantCredentials, error) {
	var creds model.TenantCredentials

	err := r.db.Where("twilio_phone_number = ?", phoneNumber).First(&creds).Error
	if err == nil {
		return &creds, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCredentialsNotFound
	}

	return nil, err
}
