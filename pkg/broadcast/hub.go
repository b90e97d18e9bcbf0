package broadcast

import (
	"sync"

	"mocktrade/pkg/types"

	log "github.com/sirupsen/logrus"
)

// Subscriber is one connected notification client. Events arrive on C until
// the subscriber is dropped, at which point C is closed.
type Subscriber struct {
	C chan types.OrderInfo

	mu     sync.Mutex
	closed bool
}

// send attempts a non-blocking delivery. It reports false when the
// subscriber's buffer is full or the subscriber is already closed.
func (s *Subscriber) send(info types.OrderInfo) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.C <- info:
		return true
	default:
		return false
	}
}

func (s *Subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.C)
	}
}

// Hub fans order snapshots out to every connected subscriber. Delivery to
// one subscriber never blocks or fails another: each subscriber has its own
// buffered channel, and a subscriber whose buffer is full is dropped instead
// of stalling the publisher.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*Subscriber]struct{}
	buffer int
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 64
	}
	return &Hub{
		subs:   make(map[*Subscriber]struct{}),
		buffer: buffer,
	}
}

func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{C: make(chan types.OrderInfo, h.buffer)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	n := len(h.subs)
	h.mu.Unlock()
	log.Debugf("subscriber added, %d connected", n)
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	_, ok := h.subs[sub]
	delete(h.subs, sub)
	n := len(h.subs)
	h.mu.Unlock()
	if ok {
		sub.close()
		log.Debugf("subscriber removed, %d connected", n)
	}
}

// Publish delivers the snapshot to every current subscriber. Subscribers
// that cannot keep up are unsubscribed; the publisher never blocks.
func (h *Hub) Publish(info types.OrderInfo) {
	h.mu.RLock()
	subs := make([]*Subscriber, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		if !sub.send(info) {
			log.Warnf("dropping slow subscriber (order %s)", info.OrderID)
			h.Unsubscribe(sub)
		}
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
