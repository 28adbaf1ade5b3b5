package service

import (
	"sync"

	"github.com/atlasworks/atlas-api/internal/dto"
	"github.com/atlasworks/atlas-api/internal/observability"
)

// ActivityBroker fans newly appended audit records out to in-process
// subscribers (the admin dashboard websocket). Slow subscribers are skipped
// rather than blocking the append path.
type ActivityBroker struct {
	mu          sync.RWMutex
	subscribers map[chan dto.ActivityResponse]struct{}
}

// NewActivityBroker constructs an empty broker.
func NewActivityBroker() *ActivityBroker {
	return &ActivityBroker{subscribers: make(map[chan dto.ActivityResponse]struct{})}
}

// Subscribe registers a new listener and returns its channel.
func (b *ActivityBroker) Subscribe() chan dto.ActivityResponse {
	ch := make(chan dto.ActivityResponse, 16)

	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	observability.ActivityStreamClients().Inc()
	return ch
}

// Unsubscribe removes a listener and closes its channel.
func (b *ActivityBroker) Unsubscribe(ch chan dto.ActivityResponse) {
	b.mu.Lock()
	if _, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(ch)
		observability.ActivityStreamClients().Dec()
	}
	b.mu.Unlock()
}

// Broadcast delivers the record to every subscriber without blocking.
func (b *ActivityBroker) Broadcast(record dto.ActivityResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers {
		select {
		case ch <- record:
		default:
		}
	}
}
