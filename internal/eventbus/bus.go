// Package eventbus decouples webhook acknowledgment from mail handling.
// Accepted events are dispatched through a buffered channel to a worker
// pool; each event is processed by one uninterrupted task.
package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shaharia-lab/billingmail/internal/event"
)

const (
	defaultWorkers    = 3
	defaultBufferSize = 100
)

// Handler processes one billing event.
type Handler func(ctx context.Context, evt *event.Context)

// Bus is the interface for publishing events and managing handlers.
type Bus interface {
	// Publish enqueues an event. It never blocks: if the buffer is full the
	// event is dropped and a warning is logged. The webhook has already
	// been acknowledged by then; dropping is the overload behavior.
	Publish(evt *event.Context)

	// Subscribe registers a handler invoked for every published event.
	// Subscribe must be called before the first Publish.
	Subscribe(h Handler)

	// Close stops accepting new events and waits for pending events to be
	// processed.
	Close()
}

type inMemoryBus struct {
	ch       chan *event.Context
	handlers []Handler
	mu       sync.RWMutex
	wg       sync.WaitGroup
	logger   *slog.Logger
}

// New creates an in-memory Bus with the given number of worker goroutines.
// workers <= 0 uses the default of 3.
func New(workers int, logger *slog.Logger) Bus {
	if workers <= 0 {
		workers = defaultWorkers
	}
	b := &inMemoryBus{
		ch:     make(chan *event.Context, defaultBufferSize),
		logger: logger,
	}
	for i := 0; i < workers; i++ {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			for evt := range b.ch {
				b.dispatch(evt)
			}
		}()
	}
	return b
}

// dispatch invokes every handler for the event with panic recovery, so one
// bad handler cannot take a worker down.
func (b *inMemoryBus) dispatch(evt *event.Context) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("event handler panicked", "event", evt.ID, "panic", r)
				}
			}()
			h(context.Background(), evt)
		}()
	}
}

// Publish enqueues an event. If the buffer is full the event is dropped.
func (b *inMemoryBus) Publish(evt *event.Context) {
	select {
	case b.ch <- evt:
	default:
		b.logger.Warn("event buffer full, dropping event", "event", evt.ID, "kind", evt.Kind)
	}
}

// Subscribe adds a handler for all future events.
func (b *inMemoryBus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Close drains the channel and waits for the workers to finish.
func (b *inMemoryBus) Close() {
	close(b.ch)
	b.wg.Wait()
}
