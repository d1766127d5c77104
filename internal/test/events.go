package test

import (
	"context"
	"sync"

	"github.com/polkiloo/storefront/internal/adapter/events"
)

// PublisherStub records published order events.
type PublisherStub struct {
	Err error

	mu     sync.Mutex
	events []events.OrderStatusEvent
}

// PublishOrderStatus stores the event and returns Err.
func (p *PublisherStub) PublishOrderStatus(ctx context.Context, event events.OrderStatusEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.Err
}

// Events returns a copy of everything published so far.
func (p *PublisherStub) Events() []events.OrderStatusEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.OrderStatusEvent(nil), p.events...)
}

var _ events.Publisher = (*PublisherStub)(nil)
