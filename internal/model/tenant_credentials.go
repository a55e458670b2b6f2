package model

import "time"

// TenantCredentials is the per-tenant Twilio account used for all sends.
// Read-only to this service; the settings UI owns its lifecycle.
type TenantCredentials struct {
	TenantID    string    `gorm:"column:tenant_id;primaryKey"`
	AccountSID  string    `gorm:"column:twilio_account_sid"`
	AuthToken   string    `gorm:"column:twilio_auth_token"`
	PhoneNumber string    `gorm:"column:twilio_phone_number;index:idx_twilio_number,unique"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (TenantCredentials) TableName() string {
	return "tenant_credentials"
}
