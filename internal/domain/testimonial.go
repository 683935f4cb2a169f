package domain

import "time"

// Testimonial is a student's admission story.
type Testimonial struct {
	ID         string
	OwnerID    string
	University string
	Story      string
	Photo      string
	VideoURL   *string
	Country    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (t *Testimonial) ResourceID() string        { return t.ID }
func (t *Testimonial) OwnerRef() *string         { return ownerRef(t.OwnerID) }
func (t *Testimonial) AssignOwner(userID string) { t.OwnerID = userID }
