package model

import "time"

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusCompleted RequestStatus = "completed"
	RequestStatusExpired   RequestStatus = "expired"
	// RequestStatusInvalid is reserved for stricter resolution policies. The
	// correlator keeps a request pending after a failed validation, so this
	// state is honored by readers but never written by the core today.
	RequestStatusInvalid RequestStatus = "invalid"
)

type InfoType string

const (
	InfoTypeEmail         InfoType = "email"
	InfoTypeAddress       InfoType = "address"
	InfoTypeAccountNumber InfoType = "account_number"
	InfoTypeGeneral       InfoType = "general"
)

// RequestTTL is the fixed window a recipient has to answer. ExpiresAt is
// always CreatedAt + RequestTTL and never mutated after creation.
const RequestTTL = 5 * time.Minute

type InfoRequest struct {
	ID             int64         `gorm:"primaryKey;autoIncrement;column:id;<-:create"`
	RequestCode    string        `gorm:"column:request_code;type:char(6);index:idx_request_code,unique;<-:create"`
	CallID         string        `gorm:"column:call_id;<-:create"`
	TenantID       string        `gorm:"column:tenant_id;index:idx_tenant_phone;<-:create"`
	RecipientPhone string        `gorm:"column:recipient_phone;index:idx_tenant_phone;<-:create"`
	InfoType       InfoType      `gorm:"column:info_type;type:varchar(20);<-:create"`
	PromptMessage  string        `gorm:"column:prompt_message;type:text;<-:create"`
	Status         RequestStatus `gorm:"column:status;type:varchar(10)"`
	ReceivedValue  *string       `gorm:"column:received_value;type:text"`
	ReceivedAt     *time.Time    `gorm:"column:received_at"`
	CreatedAt      time.Time     `gorm:"column:created_at"`
	ExpiresAt      time.Time     `gorm:"column:expires_at;<-:create"`
}

func (InfoRequest) TableName() string {
	return "info_requests"
}

// Terminal reports whether the request can no longer change state.
func (r *InfoRequest) Terminal() bool {
	return r.Status != RequestStatusPending
}
