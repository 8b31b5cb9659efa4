package eventbus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type Event struct {
	Type      string          `json:"type"`
	Timestamp int64           `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

type ProjectEvent struct {
	ProjectID        string `json:"projectId"`
	Status           string `json:"status,omitempty"`
	PreviousStatus   string `json:"previousStatus,omitempty"`
	ChangedBy        string `json:"changedBy,omitempty"`
	ROICalculationID string `json:"roiCalculationId,omitempty"`
}

type ROIEvent struct {
	CalculationID string  `json:"calculationId"`
	ProjectID     string  `json:"projectId,omitempty"`
	Linked        bool    `json:"linked"`
	ROI           float64 `json:"roi"`
}

type SubmissionEvent struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
	Status     string `json:"status,omitempty"`
}

const (
	ChannelProject    = "cop:events:project"
	ChannelROI        = "cop:events:roi"
	ChannelSubmission = "cop:events:submission"
)

// Channels lists every channel the portal publishes on.
var Channels = []string{ChannelProject, ChannelROI, ChannelSubmission}

// Publisher is what services need from the bus; a nil *Bus is a no-op.
type Publisher interface {
	Publish(ctx context.Context, channel string, event Event) error
}

type Bus struct {
	client redis.UniversalClient
}

func NewBus(client redis.UniversalClient) *Bus {
	return &Bus{client: client}
}

func NewEvent(eventType string, payload interface{}) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		Data:      data,
	}, nil
}

func (b *Bus) Publish(ctx context.Context, channel string, event Event) error {
	if b == nil || b.client == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, channel, payload).Err()
}

func (b *Bus) Subscribe(ctx context.Context, channels ...string) <-chan *Event {
	ch := make(chan *Event, 100)
	if b == nil || b.client == nil {
		go func() {
			<-ctx.Done()
			close(ch)
		}()
		return ch
	}

	sub := b.client.Subscribe(ctx, channels...)

	go func() {
		defer close(ch)
		for msg := range sub.Channel() {
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}
			select {
			case ch <- &event:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		<-ctx.Done()
		_ = sub.Close()
	}()

	return ch
}
