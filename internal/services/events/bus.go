package events

import (
	"context"
	"sync"

	"github.com/KirkDiggler/lottery/internal/models"
	evbus "github.com/asaskevich/EventBus"
	"github.com/sirupsen/logrus"
)

// Config holds configuration for the bus
type Config struct {
	Logger logrus.FieldLogger
}

// Bus routes events by type through EventBus. The EventBus callback only
// enqueues onto a single bus-wide queue, and one goroutine delivers the
// queue in publish order across every event type.
type Bus struct {
	bus    evbus.Bus
	logger logrus.FieldLogger

	mu     sync.Mutex
	closed bool
	done   chan struct{}

	qmu   sync.Mutex
	idle  *sync.Cond
	queue []delivery
	wake  chan struct{}

	// pending counts queued and running deliveries
	pending int
}

type subscriber struct {
	eventType models.EventType
	handler   Handler
	logger    logrus.FieldLogger
}

type delivery struct {
	sub   *subscriber
	event *models.Event
}

// New creates a bus and starts its delivery goroutine
func New(cfg *Config) *Bus {
	logger := logrus.FieldLogger(logrus.StandardLogger())
	if cfg != nil && cfg.Logger != nil {
		logger = cfg.Logger
	}

	b := &Bus{
		bus:    evbus.New(),
		logger: logger,
		done:   make(chan struct{}),
		wake:   make(chan struct{}, 1),
	}
	b.idle = sync.NewCond(&b.qmu)

	go b.run()

	return b
}

// Publish queues the event for every subscriber of its type
func (b *Bus) Publish(ctx context.Context, event *models.Event) error {
	if event == nil {
		return ErrNilEvent
	}
	if event.Type == "" {
		return ErrEmptyEventType
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBusClosed
	}

	b.bus.Publish(string(event.Type), event)
	return nil
}

// Subscribe registers a handler for an event type
func (b *Bus) Subscribe(eventType models.EventType, handler Handler) error {
	if handler == nil {
		return ErrNilHandler
	}
	if eventType == "" {
		return ErrEmptyEventType
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBusClosed
	}

	sub := &subscriber{
		eventType: eventType,
		handler:   handler,
		logger:    b.logger.WithField("event_type", eventType),
	}

	return b.bus.Subscribe(string(eventType), func(event *models.Event) {
		b.enqueue(sub, event)
	})
}

// Wait blocks until every queued event has been handled
func (b *Bus) Wait() {
	b.qmu.Lock()
	defer b.qmu.Unlock()
	for b.pending > 0 {
		b.idle.Wait()
	}
}

// Close drains outstanding events and stops the delivery goroutine
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	b.Wait()
	close(b.done)
}

func (b *Bus) enqueue(sub *subscriber, event *models.Event) {
	b.qmu.Lock()
	b.queue = append(b.queue, delivery{sub: sub, event: event})
	b.pending++
	b.qmu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

func (b *Bus) run() {
	for {
		select {
		case <-b.done:
			return
		case <-b.wake:
			b.drain()
		}
	}
}

func (b *Bus) drain() {
	for {
		b.qmu.Lock()
		if len(b.queue) == 0 {
			b.qmu.Unlock()
			return
		}
		batch := b.queue
		b.queue = nil
		b.qmu.Unlock()

		for _, d := range batch {
			b.deliver(d)
		}
	}
}

func (b *Bus) deliver(d delivery) {
	defer b.delivered()
	defer func() {
		if r := recover(); r != nil {
			d.sub.logger.WithField("panic", r).Error("event handler panicked")
		}
	}()

	d.sub.handler(d.event)
}

func (b *Bus) delivered() {
	b.qmu.Lock()
	defer b.qmu.Unlock()
	b.pending--
	if b.pending == 0 {
		b.idle.Broadcast()
	}
}
