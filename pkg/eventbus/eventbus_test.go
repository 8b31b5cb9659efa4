package eventbus

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestNewEventEncodesPayload(t *testing.T) {
	event, err := NewEvent("project_status_changed", ProjectEvent{ProjectID: "p1", Status: "approved"})
	if err != nil {
		t.Fatalf("NewEvent() error: %v", err)
	}
	if event.Type != "project_status_changed" {
		t.Fatalf("unexpected type %q", event.Type)
	}

	var decoded ProjectEvent
	if err := json.Unmarshal(event.Data, &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded.ProjectID != "p1" || decoded.Status != "approved" {
		t.Fatalf("unexpected payload %+v", decoded)
	}
}

func TestNilBusIsNoop(t *testing.T) {
	var bus *Bus
	if err := bus.Publish(context.Background(), ChannelProject, Event{Type: "x"}); err != nil {
		t.Fatalf("nil bus publish returned %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch := bus.Subscribe(ctx, Channels...)
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("subscription channel not closed after cancel")
	}
}
