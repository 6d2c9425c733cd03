package events

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	h.Publish(SampleTaken, SampleEvent{Index: 2, Count: 3, Ts: 42})

	select {
	case ev := <-ch:
		if ev.Name != SampleTaken {
			t.Fatalf("Name = %q, want %q", ev.Name, SampleTaken)
		}
		payload, err := DecodeAs[SampleEvent](ev)
		if err != nil {
			t.Fatalf("DecodeAs: %v", err)
		}
		if payload.Index != 2 || payload.Count != 3 || payload.Ts != 42 {
			t.Fatalf("payload = %+v", payload)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestSlowSubscriberDropsEvents(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	// Overflow the buffer; Publish must never block.
	for i := 0; i < subscriberBuffer*2; i++ {
		h.Publish(SampleTaken, SampleEvent{Index: i})
	}

	if got := len(ch); got != subscriberBuffer {
		t.Fatalf("buffered = %d, want %d", got, subscriberBuffer)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	h.Unsubscribe(ch)

	if _, ok := <-ch; ok {
		t.Fatal("channel still open after Unsubscribe")
	}

	// A second Unsubscribe of the same channel is a no-op.
	h.Unsubscribe(ch)
}

func TestNilHubPublish(t *testing.T) {
	var h *Hub
	h.Publish(CalibrationSaved, CalibrationSavedEvent{Name: "cal"})
}

func TestDecodeAsEmptyPayload(t *testing.T) {
	payload, err := DecodeAs[SampleEvent](Event{Name: SampleRemoved})
	if err != nil {
		t.Fatalf("DecodeAs: %v", err)
	}
	if payload != (SampleEvent{}) {
		t.Fatalf("payload = %+v, want zero value", payload)
	}
}
