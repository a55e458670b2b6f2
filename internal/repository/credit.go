package repository

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/thiagoricci/Rewlio/internal/model"
	"gorm.io/gorm"
)

var ErrAccountNotFound = errors.New("ACCOUNT_NOT_FOUND")
var ErrAccountExists = errors.New("ACCOUNT_EXISTS")
var ErrInsufficientBalance = errors.New("INSUFFICIENT_BALANCE")
var ErrTransactionExists = errors.New("TRANSACTION_EXISTS")

type CreditAccountRepository interface {
	Create(ctx context.Context, account *model.CreditAccount) error
	FindByTenantID(tenantID string) (*model.CreditAccount, error)
	Debit(ctx context.Context, tenantID string, amount int64) error
	Credit(ctx context.Context, tenantID string, amount int64) error
}

type CreditAccount struct {
	db *gorm.DB
}

func NewCreditAccountRepository(db *gorm.DB) CreditAccountRepository {
	return &CreditAccount{db: db}
}

func (r *CreditAccount) Create(ctx context.Context, account *model.CreditAccount) error {
	db := GetTx(ctx, r.db)
	err := db.Create(account).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrAccountExists
	}

	return err
}

func (r *CreditAccount) FindByTenantID(tenantID string) (*model.CreditAccount, error) {
	var account model.CreditAccount

	err := r.db.Where("tenant_id = ?", tenantID).First(&account).Error
	if err == nil {
		return &account, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}

	return nil, err
}

// Debit is a single conditional update so two concurrent debits can never
// drive the balance below zero. Zero rows affected means the balance check
// failed.
func (r *CreditAccount) Debit(ctx context.Context, tenantID string, amount int64) error {
	db := GetTx(ctx, r.db)

	result := db.Model(&model.CreditAccount{}).
		Where("tenant_id = ? AND balance >= ?", tenantID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrInsufficientBalance
	}

	return nil
}

func (r *CreditAccount) Credit(ctx context.Context, tenantID string, amount int64) error {
	db := GetTx(ctx, r.db)

	result := db.Model(&model.CreditAccount{}).
		Where("tenant_id = ?", tenantID).
		Update("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}

	return nil
}

type CreditTransactionRepository interface {
	Create(ctx context.Context, tx *model.CreditTransaction) error
	ListByTenant(tenantID string, limit, offset int) ([]model.CreditTransaction, error)
}

type CreditTransaction struct {
	db *gorm.DB
}

func NewCreditTransactionRepository(db *gorm.DB) CreditTransactionRepository {
	return &CreditTransaction{db: db}
}

func (r *CreditTransaction) Create(ctx context.Context, tx *model.CreditTransaction) error {
	db := GetTx(ctx, r.db)
	err := db.Create(tx).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrTransactionExists
	}

	return err
}

func (r *CreditTransaction) ListByTenant(tenantID string, limit, offset int) ([]model.CreditTransaction, error) {
	var txs []model.CreditTransaction

	err := r.db.Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	if err != nil {
		return nil, err
	}

	return txs, nil
}
