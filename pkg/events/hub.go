package events

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// SubscriberBuffer is the number of events a slow subscriber may lag behind
// before events are dropped for it.
const SubscriberBuffer = 16

// EventHub fans events out to every subscriber without blocking the
// publisher.
type EventHub struct {
	mu     sync.RWMutex
	subs   map[chan Event]struct{}
	closed bool
}

func NewEventHub() *EventHub { return &EventHub{subs: make(map[chan Event]struct{})} }

// Subscribe returns a channel receiving every event published from now on.
// The channel is closed by Unsubscribe or Close.
func (h *EventHub) Subscribe() chan Event {
	ch := make(chan Event, SubscriberBuffer)
	h.mu.Lock()
	if h.closed {
		close(ch)
	} else {
		h.subs[ch] = struct{}{}
	}
	h.mu.Unlock()
	return ch
}

func (h *EventHub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Subscribers returns the number of live subscriptions.
func (h *EventHub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish marshals payload and delivers it to every subscriber. A nil hub
// discards the event.
func (h *EventHub) Publish(name string, payload any) {
	if h == nil {
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		logrus.WithField("event", name).Errorf("failed to marshal event: %v", err)
		return
	}
	msg := Event{Name: name, Data: b}
	h.mu.RLock()
	for ch := range h.subs {
		// Non-blocking send; drop if subscriber is slow
		select {
		case ch <- msg:
		default:
			logrus.WithField("event", name).Trace("dropping event for slow subscriber")
		}
	}
	h.mu.RUnlock()
}

// Close closes every subscription. Later subscriptions are closed at once.
func (h *EventHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
	h.closed = true
}
