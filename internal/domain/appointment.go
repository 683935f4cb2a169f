package domain

import "time"

// Appointment is a consultation request. The owner is cleared when the
// owning account is deleted; the record itself is kept.
type Appointment struct {
	ID            string
	OwnerID       *string
	PreferredDate time.Time
	PreferredTime string
	Message       *string
	CreatedAt     time.Time
}

func (a *Appointment) ResourceID() string { return a.ID }

func (a *Appointment) OwnerRef() *string {
	if a.OwnerID == nil {
		return nil
	}
	return ownerRef(*a.OwnerID)
}

func (a *Appointment) AssignOwner(userID string) { a.OwnerID = &userID }
