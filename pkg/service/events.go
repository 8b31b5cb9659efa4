package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/countyai/cop-portal/pkg/eventbus"
)

// notifier publishes best-effort notifications; a failed publish never fails
// the write that triggered it.
type notifier struct {
	bus    eventbus.Publisher
	logger *zap.Logger
}

func (n notifier) publish(ctx context.Context, channel, eventType string, payload interface{}) {
	if n.bus == nil {
		return
	}
	event, err := eventbus.NewEvent(eventType, payload)
	if err != nil {
		n.logger.Warn("failed to encode event", zap.String("type", eventType), zap.Error(err))
		return
	}
	if err := n.bus.Publish(ctx, channel, event); err != nil {
		n.logger.Warn("failed to publish event", zap.String("type", eventType), zap.Error(err))
	}
}
