package domain

import "time"

// CourseCategory enumerates course kinds.
type CourseCategory string

const (
	CourseCategoryLanguage    CourseCategory = "language"
	CourseCategoryPreparation CourseCategory = "preparation"
)

// Course is a program offered on the platform. Requests counts distinct viewers.
type Course struct {
	ID            string
	OwnerID       string
	Title         string
	Description   string
	DurationWeeks int
	Price         string
	Country       string
	Category      CourseCategory
	StartDate     time.Time
	Image         string
	Requests      int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (c *Course) ResourceID() string        { return c.ID }
func (c *Course) OwnerRef() *string         { return ownerRef(c.OwnerID) }
func (c *Course) AssignOwner(userID string) { c.OwnerID = userID }
