package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/consulting-service/internal/events"
	"github.com/spec-kit/consulting-service/internal/service"
)

// NotificationWorker delivers events to the wrapped dispatcher from a fixed
// set of goroutines so that request handlers never wait on notification
// handlers. It implements events.Dispatcher.
type NotificationWorker struct {
	inner   events.Dispatcher
	logger  *zap.Logger
	queue   chan events.Event
	workers int
	wg      sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
}

// NewNotificationWorker wraps inner with a queue of the given size.
func NewNotificationWorker(inner events.Dispatcher, logger *zap.Logger, workers, buffer int) *NotificationWorker {
	if workers <= 0 {
		workers = 1
	}
	if buffer <= 0 {
		buffer = 64
	}
	return &NotificationWorker{
		inner:   inner,
		logger:  logger,
		queue:   make(chan events.Event, buffer),
		workers: workers,
	}
}

// Start registers notification handlers and launches the workers. They stop
// when ctx is cancelled or Stop is called.
func (w *NotificationWorker) Start(ctx context.Context, notifications *service.NotificationService) {
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.run(ctx)
	}
}

func (w *NotificationWorker) run(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.queue:
			if !ok {
				return
			}
			if err := w.inner.Publish(ctx, event); err != nil {
				w.logger.Warn("notification handler failed",
					zap.String("event_id", event.ID),
					zap.String("event_type", string(event.Type)),
					zap.Error(err))
			}
		}
	}
}

// Publish enqueues event. When the queue is full, or the worker has been
// stopped, the event is dropped and logged rather than blocking the caller.
func (w *NotificationWorker) Publish(_ context.Context, event events.Event) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		w.logger.Warn("notification worker stopped; dropping event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
		return nil
	}
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("notification queue full; dropping event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
	}
	return nil
}

// Subscribe registers handler on the wrapped dispatcher.
func (w *NotificationWorker) Subscribe(eventType events.EventType, handler events.EventHandler) {
	w.inner.Subscribe(eventType, handler)
}

// Stop drains queued events and waits for the workers to exit. Events
// published afterwards are dropped.
func (w *NotificationWorker) Stop() {
	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		close(w.queue)
	}
	w.mu.Unlock()
	w.wg.Wait()
}
