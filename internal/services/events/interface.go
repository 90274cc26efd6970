// Package events fans lottery notifications out to observers.
//
// Publishing never waits on a subscriber. Each subscriber receives events in
// publish order on its own goroutine, so a subscriber may call back into the
// service that published.
package events

//go:generate mockgen -package=mocks -destination=mocks/mock_publisher.go github.com/KirkDiggler/lottery/internal/services/events Publisher

import (
	"context"

	"github.com/KirkDiggler/lottery/internal/models"
)

// Handler consumes a single event
type Handler func(event *models.Event)

// Publisher delivers events to subscribers
type Publisher interface {
	// Publish queues an event for every subscriber of its type
	Publish(ctx context.Context, event *models.Event) error

	// Subscribe registers a handler for an event type
	Subscribe(eventType models.EventType, handler Handler) error

	// Wait blocks until every queued event has been handled
	Wait()
}
