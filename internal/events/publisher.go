package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/thiagoricci/Rewlio/pkg/mq"
	"go.uber.org/zap"
)

const Exchange = "rewlio.events"

const (
	RoutingKeyRequestCreated   = "request.created"
	RoutingKeyRequestCompleted = "request.completed"
	RoutingKeyRequestExpired   = "request.expired"
	RoutingKeySmsSent          = "sms.sent"
)

// Event is the envelope published for every request lifecycle transition.
// Dashboards and downstream consumers subscribe to the topic exchange;
// the core never blocks on them.
type Event struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	RequestCode string    `json:"request_code,omitempty"`
	CallID      string    `json:"call_id,omitempty"`
	Status      string    `json:"status,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event Event)
}

type publisher struct {
	pub    mq.Publisher
	logger *zap.Logger
}

func NewPublisher(pub mq.Publisher, logger *zap.Logger) EventPublisher {
	return &publisher{pub: pub, logger: logger}
}

// Publish is best-effort: event delivery never fails a webhook, so errors
// are logged and swallowed.
func (p *publisher) Publish(ctx context.Context, routingKey string, event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal event", zap.Error(err), zap.String("routingKey", routingKey))
		return
	}

	if err := p.pub.Publish(ctx, Exchange, routingKey, body); err != nil {
		p.logger.Warn("Failed to publish event",
			zap.Error(err),
			zap.String("routingKey", routingKey),
			zap.String("tenantID", event.TenantID))
	}
}

type noopPublisher struct{}

// NewNoopPublisher is used when the broker is disabled in config.
func NewNoopPublisher() EventPublisher { return noopPublisher{} }

func (noopPublisher) Publish(context.Context, string, Event) {}
