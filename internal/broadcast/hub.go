// Package broadcast fans events out to connected websocket subscribers.
//
// Delivery is best-effort: no acknowledgement, no persistence, no ordering
// guarantee across subscribers. A subscriber that cannot keep up is dropped
// so that publishers never block.
package broadcast

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Event names understood by frontend subscribers.
const (
	EventSensorUpdate = "sensor-update"
	EventNewAlert     = "new-alert"
	EventNewReport    = "new-report"
)

// envelope is the wire shape of every pushed event.
type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Publisher is what services need from the push channel.
type Publisher interface {
	// Publish delivers payload to every currently connected subscriber.
	// It never blocks on a slow subscriber.
	Publish(event string, payload any)
}

// sendQueueLen bounds the per-subscriber backlog before it is dropped.
const sendQueueLen = 64

// Hub tracks the subscriber set and fans published events out to it.
type Hub struct {
	logger *zap.Logger

	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

// NewHub constructs an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{logger: logger, subs: make(map[*subscriber]struct{})}
}

// Publish marshals the event envelope once and offers it to every
// subscriber's queue. Full queues mean the subscriber is too slow; it gets
// closed rather than stalling the caller.
func (h *Hub) Publish(event string, payload any) {
	msg, err := json.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		h.logger.Error("marshal event", zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.RLock()
	var stalled []*subscriber
	for s := range h.subs {
		select {
		case s.send <- msg:
		default:
			stalled = append(stalled, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range stalled {
		h.logger.Warn("dropping slow subscriber", zap.String("remote", s.remote))
		h.remove(s)
	}
}

// SubscriberCount reports how many clients are currently connected.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) add(s *subscriber) {
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
}

// remove detaches the subscriber and closes its queue exactly once.
func (h *Hub) remove(s *subscriber) {
	h.mu.Lock()
	_, present := h.subs[s]
	delete(h.subs, s)
	h.mu.Unlock()
	if present {
		close(s.send)
	}
}
