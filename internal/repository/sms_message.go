package repository

import (
	"context"

	"github.com/thiagoricci/Rewlio/internal/model"
	"gorm.io/gorm"
)

type SmsMessageRepository interface {
	Create(ctx context.Context, message *model.SmsMessage) error
	BackfillRequestCode(ctx context.Context, id int64, requestCode string) error
	ListByTenant(tenantID string, limit, offset int) ([]model.SmsMessage, error)
	CountByTenant(tenantID string) (int, error)
}

type SmsMessage struct {
	db *gorm.DB
}

func NewSmsMessageRepository(db *gorm.DB) SmsMessageRepository {
	return &SmsMessage{db: db}
}

func (r *SmsMessage) Create(ctx context.Context, message *model.SmsMessage) error {
	db := GetTx(ctx, r.db)
	return db.Create(message).Error
}

// BackfillRequestCode is the only permitted mutation of a logged message:
// tagging it with the request it was correlated to.
func (r *SmsMessage) BackfillRequestCode(ctx context.Context, id int64, requestCode string) error {
	db := GetTx(ctx, r.db)

	return db.Model(&model.SmsMessage{}).
		Where("id = ?", id).
		Update("request_code", requestCode).Error
}

func (r *SmsMessage) ListByTenant(tenantID string, limit, offset int) ([]model.SmsMessage, error) {
	var messages []model.SmsMessage

	err := r.db.Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	return messages, nil
}

func (r *SmsMessage) CountByTenant(tenantID string) (int, error) {
	var count int64

	err := r.db.Model(&model.SmsMessage{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return int(count), nil
}
