package repository

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/thiagoricci/Rewlio/internal/model"
	"gorm.io/gorm"
)

var ErrRequestNotFound = errors.New("REQUEST_NOT_FOUND")
var ErrRequestCodeDuplicate = errors.New("REQUEST_CODE_DUPLICATE")
var ErrNoRowsAffected = errors.New("NO_ROWS_AFFECTED")

type InfoRequestRepository interface {
	Create(ctx context.Context, request *model.InfoRequest) error
	GetByCode(tenantID, requestCode string) (*model.InfoRequest, error)
	FindNewestPending(tenantID, recipientPhone string) (*model.InfoRequest, error)
	Complete(ctx context.Context, id int64, receivedValue string, receivedAt time.Time) error
	MarkExpired(ctx context.Context, id int64) error
	MarkExpiredBulk(ctx context.Context, ids []int64) error
	FindOverdue(now time.Time) ([]model.InfoRequest, error)
	ListByTenant(tenantID string, limit, offset int) ([]model.InfoRequest, error)
}

type InfoRequest struct {
	db *gorm.DB
}

func NewInfoRequestRepository(db *gorm.DB) InfoRequestRepository {
	return &InfoRequest{db: db}
}

func (r *InfoRequest) Create(ctx context.Context, request *model.InfoRequest) error {
	db := GetTx(ctx, r.db)
	err := db.Create(request).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrRequestCodeDuplicate
	}

	return err
}

func (r *InfoRequest) GetByCode(tenantID, requestCode string) (*model.InfoRequest, error) {
	var request model.InfoRequest

	err := r.db.Where("tenant_id = ? AND request_code = ?", tenantID, requestCode).
		First(&request).Error
	if err == nil {
		return &request, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRequestNotFound
	}

	return nil, err
}

// FindNewestPending is the correlation lookup: the single most recent pending
// request for a sender within a tenant. Older pending rows for the same pair
// are unreachable by replies and left for the sweeper.
func (r *InfoRequest) FindNewestPending(tenantID, recipientPhone string) (*model.InfoRequest, error) {
	var request model.InfoRequest

	err := r.db.Where("tenant_id = ? AND recipient_phone = ? AND status = ?",
		tenantID, recipientPhone, model.RequestStatusPending).
		Order("created_at DESC").
		First(&request).Error
	if err == nil {
		return &request, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRequestNotFound
	}

	return nil, err
}

// Complete transitions pending -> completed and records the value. The update
// is filtered on status=pending, so a second call or a race with the sweeper
// affects zero rows and returns ErrNoRowsAffected.
func (r *InfoRequest) Complete(ctx context.Context, id int64, receivedValue string, receivedAt time.Time) error {
	db := GetTx(ctx, r.db)

	result := db.Model(&model.InfoRequest{}).
		Where("id = ? AND status = ?", id, model.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":         model.RequestStatusCompleted,
			"received_value": receivedValue,
			"received_at":    receivedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

func (r *InfoRequest) MarkExpired(ctx context.Context, id int64) error {
	db := GetTx(ctx, r.db)

	result := db.Model(&model.InfoRequest{}).
		Where("id = ? AND status = ?", id, model.RequestStatusPending).
		Update("status", model.RequestStatusExpired)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

func (r *InfoRequest) MarkExpiredBulk(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	db := GetTx(ctx, r.db)

	return db.Model(&model.InfoRequest{}).
		Where("id IN ? AND status = ?", ids, model.RequestStatusPending).
		Update("status", model.RequestStatusExpired).Error
}

func (r *InfoRequest) FindOverdue(now time.Time) ([]model.InfoRequest, error) {
	var requests []model.InfoRequest

	err := r.db.Where("status = ? AND expires_at < ?", model.RequestStatusPending, now).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *InfoRequest) ListByTenant(tenantID string, limit, offset int) ([]model.InfoRequest, error) {
	var requests []model.InfoRequest

	err := r.db.Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}

	return requests, nil
}
