package services

import (
	"slices"
	"sync"

	"github.com/custodia-labs/gfacade/internal/core/domain"
	"github.com/custodia-labs/gfacade/internal/core/ports/driven"
)

// Ensure EventBus implements the interface.
var _ driven.EventPublisher = (*EventBus)(nil)

// EventBus fans request events out to subscribers. Handlers run on the
// publishing goroutine and must return quickly.
type EventBus struct {
	mu       sync.RWMutex
	next     int
	handlers []subscriber
}

type subscriber struct {
	id      int
	handler func(domain.RequestEvent)
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a handler and returns a function that removes it.
func (b *EventBus) Subscribe(handler func(domain.RequestEvent)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.handlers = append(b.handlers, subscriber{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			b.handlers = slices.DeleteFunc(b.handlers, func(s subscriber) bool { return s.id == id })
		})
	}
}

// Publish delivers an event to every current subscriber in subscription order.
func (b *EventBus) Publish(event domain.RequestEvent) {
	b.mu.RLock()
	handlers := slices.Clone(b.handlers)
	b.mu.RUnlock()

	for _, s := range handlers {
		s.handler(event)
	}
}

// RequestStats aggregates request events.
type RequestStats struct {
	mu       sync.Mutex
	requests int
	retries  int
	failures int
}

// Observe records one event. It matches the EventBus handler signature.
func (s *RequestStats) Observe(event domain.RequestEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if event.Attempt <= 1 {
		s.requests++
	} else {
		s.retries++
	}
	if event.Failed() {
		s.failures++
	}
}

// Snapshot returns the counts.
func (s *RequestStats) Snapshot() (requests, retries, failures int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests, s.retries, s.failures
}
