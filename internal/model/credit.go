package model

import "time"

const (
	CreditTxTypeFreeSignup = "free_signup"
	CreditTxTypeUsage      = "usage"
	CreditTxTypePurchase   = "purchase"
)

type CreditAccount struct {
	TenantID  string    `gorm:"column:tenant_id;primaryKey;<-:create"`
	Balance   int64     `gorm:"column:balance;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (CreditAccount) TableName() string {
	return "credit_accounts"
}

// CreditTransaction is the append-only audit trail for every balance
// mutation. Amount is negative for debits.
type CreditTransaction struct {
	ID             int64     `gorm:"primaryKey;autoIncrement;<-:create"`
	TenantID       string    `gorm:"column:tenant_id;index;not null;<-:create"`
	Amount         int64     `gorm:"column:amount;not null;<-:create"`
	TxType         string    `gorm:"column:tx_type;type:varchar(20);not null;<-:create"`
	Description    string    `gorm:"column:description;<-:create"`
	IdempotencyKey string    `gorm:"column:idempotency_key;index:idx_credit_tx_idem,unique;<-:create"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
