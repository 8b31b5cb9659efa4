package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/countyai/cop-portal/pkg/eventbus"
)

// EventSource streams bus events; *eventbus.Bus satisfies it.
type EventSource interface {
	Subscribe(ctx context.Context, channels ...string) <-chan *eventbus.Event
}

type EventsHandler struct {
	source EventSource
	logger *zap.Logger
}

func NewEventsHandler(source EventSource, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{source: source, logger: logger}
}

// Stream relays portal events to the admin dashboard as server-sent events
// until the client disconnects.
func (h *EventsHandler) Stream(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	ctx := c.Request.Context()
	events := h.source.Subscribe(ctx, eventbus.Channels...)
	c.Writer.Flush()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			c.SSEvent(event.Type, event)
			c.Writer.Flush()
		case <-ctx.Done():
			return
		}
	}
}
