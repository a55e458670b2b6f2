package service

import (
	"time"

	"github.com/thiagoricci/Rewlio/internal/model"
)

// CollectInfoCommand is the normalized orchestrator input. Both trigger
// payload shapes (agent and test harness) resolve to this tuple at the API
// boundary before the core runs.
type CollectInfoCommand struct {
	TenantID       string
	CallID         string
	RecipientPhone string
	InfoType       model.InfoType
	PromptMessage  string
}

type CollectResult struct {
	RequestCode string
	Status      model.RequestStatus
	Value       string
	ReceivedAt  time.Time
}

// InboundSmsCommand carries one carrier-delivered inbound message.
type InboundSmsCommand struct {
	From          string
	To            string
	Body          string
	ProviderMsgID string
}

type SendMessageCommand struct {
	TenantID    string
	PhoneNumber string
	Body        string
}

type ListMessagesQuery struct {
	TenantID string
	Limit    int
	Offset   int
}

type ListRequestsQuery struct {
	TenantID string
	Limit    int
	Offset   int
}
