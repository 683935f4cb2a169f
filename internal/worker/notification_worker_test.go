package worker

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/spec-kit/consulting-service/internal/domain"
	"github.com/spec-kit/consulting-service/internal/events"
)

func TestNotificationWorkerDeliversQueuedEvents(t *testing.T) {
	inner := events.NewInMemoryDispatcher()
	w := NewNotificationWorker(inner, zap.NewNop(), 2, 16)

	var mu sync.Mutex
	var got []string
	w.Subscribe(events.EventResourceCreated, func(_ context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.ResourceID)
		return nil
	})

	w.Start(context.Background(), nil)
	for _, id := range []string{"a", "b", "c"} {
		assert.NoError(t, w.Publish(context.Background(), events.New(events.EventResourceCreated, domain.ResourceAppointments, id, nil, nil)))
	}
	w.Stop()

	assert.ElementsMatch(t, []string{"a", "b", "c"}, got)
}

func TestNotificationWorkerDropsWhenFull(t *testing.T) {
	inner := events.NewInMemoryDispatcher()
	w := NewNotificationWorker(inner, zap.NewNop(), 1, 1)

	// Not started: the second publish finds the queue full.
	assert.NoError(t, w.Publish(context.Background(), events.Event{ID: "1"}))
	assert.NoError(t, w.Publish(context.Background(), events.Event{ID: "2"}))
	assert.Len(t, w.queue, 1)
}

func TestNotificationWorkerPublishAfterStop(t *testing.T) {
	inner := events.NewInMemoryDispatcher()
	w := NewNotificationWorker(inner, zap.NewNop(), 1, 4)

	var delivered int
	w.Subscribe(events.EventResourceCreated, func(context.Context, events.Event) error {
		delivered++
		return nil
	})
	w.Start(context.Background(), nil)
	w.Stop()
	w.Stop()

	assert.NotPanics(t, func() {
		assert.NoError(t, w.Publish(context.Background(), events.New(events.EventResourceCreated, domain.ResourceCourses, "late", nil, nil)))
	})
	assert.Zero(t, delivered)
}
