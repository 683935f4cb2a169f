package domain

import "time"

// ContactMessage is a message sent through the contact form.
type ContactMessage struct {
	ID      string
	OwnerID string
	Subject string
	Message string
	SentAt  time.Time
}

func (m *ContactMessage) ResourceID() string        { return m.ID }
func (m *ContactMessage) OwnerRef() *string         { return ownerRef(m.OwnerID) }
func (m *ContactMessage) AssignOwner(userID string) { m.OwnerID = userID }
