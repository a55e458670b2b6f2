package model

import "time"

type MessageDirection string

const (
	DirectionInbound  MessageDirection = "inbound"
	DirectionOutbound MessageDirection = "outbound"
)

// SmsMessage is the append-only log of every text that crosses the system.
// Rows are never mutated after creation except to backfill RequestCode once
// an inbound message is correlated to a pending request.
type SmsMessage struct {
	ID            int64            `gorm:"primaryKey;autoIncrement;column:id;<-:create"`
	TenantID      string           `gorm:"column:tenant_id;index;<-:create"`
	PhoneNumber   string           `gorm:"column:phone_number;<-:create"`
	Body          string           `gorm:"column:message_body;type:text;<-:create"`
	Direction     MessageDirection `gorm:"column:direction;type:varchar(10);<-:create"`
	ProviderMsgID string           `gorm:"column:provider_msg_id;index;<-:create"`
	RequestCode   *string          `gorm:"column:request_code;type:char(6)"`
	CreatedAt     time.Time        `gorm:"column:created_at"`
}

func (SmsMessage) TableName() string {
	return "sms_messages"
}
