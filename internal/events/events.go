// Package events provides event handling functionality
package events

import (
	"context"
	"sync"

	"github.com/adpulse/adpulse/internal/db/models"
	"github.com/adpulse/adpulse/internal/logger"
)

// EventType represents the type of lifecycle event
type EventType string

const (
	// EventJobQueued is emitted when a job enters the queue, on creation or
	// regeneration
	EventJobQueued EventType = "job_queued"
	// EventJobRendered is emitted when a provider callback resolves the
	// render, successfully or not
	EventJobRendered EventType = "job_rendered"
	// EventJobReviewed is emitted when a human disposes of a job
	EventJobReviewed EventType = "job_reviewed"
	// EventJobSwept is emitted when the stale sweep fails a pending job
	EventJobSwept EventType = "job_swept"
	// EventChannelSize is the buffer size for the event channel
	EventChannelSize = 100
)

// Event represents a generation job lifecycle event
type Event struct {
	Type       EventType               // The type of event
	JobID      string                  // The job ID
	Platform   models.Platform         // The platform the job is routed to
	Status     models.GenerationStatus // The job status after the transition
	RetryCount int                     // The job's retry counter
}

// Handler is a function that handles an event
type Handler func(context.Context, Event) error

var (
	// handlers is a map of event types to their handlers
	handlers = make(map[EventType][]Handler)
	// handlersMu is a mutex for the handlers map
	handlersMu sync.RWMutex
	// eventChan is a channel for events
	eventChan = make(chan Event, EventChannelSize)
)

// Subscribe registers a handler for a specific event type
func Subscribe(eventType EventType, handler Handler) {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	handlers[eventType] = append(handlers[eventType], handler)
	logger.Debugf("Registered handler for event type: %s", eventType)
}

// Publish sends an event to be processed. Publishing never blocks the
// lifecycle path: if the buffer is full the event is dropped and logged.
func Publish(event Event) {
	select {
	case eventChan <- event:
		logger.Debugf("Published event: %s (job: %s)", event.Type, event.JobID)
	default:
		logger.Warnf("Event buffer full, dropping event %s for job %s", event.Type, event.JobID)
	}
}

// Start starts the event processing loop
func Start(ctx context.Context) {
	go processEvents(ctx)
	logger.Info("Started event processing loop")
}

// processEvents handles events in the background
func processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping event processing loop")
			return
		case event := <-eventChan:
			handlersMu.RLock()
			eventHandlers := handlers[event.Type]
			handlersMu.RUnlock()

			for _, handler := range eventHandlers {
				go func(h Handler, e Event) {
					if err := h(ctx, e); err != nil {
						logger.Errorf("Failed to handle event %s for job %s: %v", e.Type, e.JobID, err)
					}
				}(handler, event)
			}
		}
	}
}
