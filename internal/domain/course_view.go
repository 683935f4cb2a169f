package domain

import "time"

// CourseView marks that a user has opened a course. At most one exists per
// (UserID, CourseID).
type CourseView struct {
	ID       string
	UserID   string
	CourseID string
	ViewedAt time.Time
}

func (v *CourseView) ResourceID() string { return v.ID }
func (v *CourseView) OwnerRef() *string  { return ownerRef(v.UserID) }
