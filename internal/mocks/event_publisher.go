package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thiagoricci/Rewlio/internal/events"
)

type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) Publish(ctx context.Context, routingKey string, event events.Event) {
	m.Called(ctx, routingKey, event)
}
