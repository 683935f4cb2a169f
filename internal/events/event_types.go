package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/consulting-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered  EventType = "user_registered"
	EventResourceCreated EventType = "resource_created"
	EventResourceUpdated EventType = "resource_updated"
	EventResourceDeleted EventType = "resource_deleted"
	EventCourseViewed    EventType = "course_viewed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string              `json:"id"`
	Type       EventType           `json:"type"`
	Resource   domain.ResourceType `json:"resource"`
	ResourceID string              `json:"resource_id"`
	// ActorID is nil for anonymous actions such as registration.
	ActorID   *string     `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// New stamps an event with an id and the current time.
func New(eventType EventType, resource domain.ResourceType, resourceID string, actor *domain.User, payload interface{}) Event {
	event := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Resource:   resource,
		ResourceID: resourceID,
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	}
	if actor != nil {
		id := actor.ID
		event.ActorID = &id
	}
	return event
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// ContactMessagePayload accompanies EventResourceCreated for contact messages.
type ContactMessagePayload struct {
	Subject string `json:"subject"`
}

// AppointmentPayload accompanies EventResourceCreated for appointments.
type AppointmentPayload struct {
	PreferredDate string `json:"preferred_date"`
	PreferredTime string `json:"preferred_time"`
}

// CourseViewedPayload payload.
type CourseViewedPayload struct {
	CourseID string `json:"course_id"`
	Requests int    `json:"requests"`
}
