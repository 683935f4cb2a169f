package dto

import (
	"time"

	"github.com/spec-kit/consulting-service/internal/domain"
)

// CourseRequest is the create and full-update payload of a course.
// Owner and request counter are not accepted from clients.
type CourseRequest struct {
	Title         string `json:"title" validate:"required,notblank,max=255"`
	Description   string `json:"description"`
	DurationWeeks int    `json:"duration_weeks" validate:"required,gt=0"`
	Price         string `json:"price" validate:"required,money"`
	Country       string `json:"country" validate:"required,notblank,max=100"`
	Category      string `json:"category" validate:"required,course_category"`
	StartDate     string `json:"start_date" validate:"required,date"`
	Image         string `json:"image" validate:"required,max=255"`
}

// CoursePatch changes only the fields it carries.
type CoursePatch struct {
	Title         *string `json:"title" validate:"omitnil,notblank,max=255"`
	Description   *string `json:"description"`
	DurationWeeks *int    `json:"duration_weeks" validate:"omitnil,gt=0"`
	Price         *string `json:"price" validate:"omitnil,money"`
	Country       *string `json:"country" validate:"omitnil,notblank,max=100"`
	Category      *string `json:"category" validate:"omitnil,course_category"`
	StartDate     *string `json:"start_date" validate:"omitnil,date"`
	Image         *string `json:"image" validate:"omitnil,notblank,max=255"`
}

// ToDomain builds a new course from a validated request.
func (r CourseRequest) ToDomain() *domain.Course {
	c := &domain.Course{}
	r.ApplyTo(c)
	return c
}

// ApplyTo overwrites every client-editable field.
func (r CourseRequest) ApplyTo(c *domain.Course) {
	start, _ := ParseDate(r.StartDate)
	c.Title = r.Title
	c.Description = r.Description
	c.DurationWeeks = r.DurationWeeks
	c.Price = r.Price
	c.Country = r.Country
	c.Category = domain.CourseCategory(r.Category)
	c.StartDate = start
	c.Image = r.Image
}

// ApplyTo overwrites the fields present in the patch.
func (p CoursePatch) ApplyTo(c *domain.Course) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.DurationWeeks != nil {
		c.DurationWeeks = *p.DurationWeeks
	}
	if p.Price != nil {
		c.Price = *p.Price
	}
	if p.Country != nil {
		c.Country = *p.Country
	}
	if p.Category != nil {
		c.Category = domain.CourseCategory(*p.Category)
	}
	if p.StartDate != nil {
		if start, err := ParseDate(*p.StartDate); err == nil {
			c.StartDate = start
		}
	}
	if p.Image != nil {
		c.Image = *p.Image
	}
}

// CourseResponse renders a course.
type CourseResponse struct {
	ID            string                `json:"id"`
	Owner         string                `json:"owner"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	DurationWeeks int                   `json:"duration_weeks"`
	Price         string                `json:"price"`
	Country       string                `json:"country"`
	Category      domain.CourseCategory `json:"category"`
	StartDate     string                `json:"start_date"`
	Image         string                `json:"image"`
	Requests      int                   `json:"requests"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// NewCourseResponse maps a domain course.
func NewCourseResponse(c *domain.Course) CourseResponse {
	return CourseResponse{
		ID:            c.ID,
		Owner:         c.OwnerID,
		Title:         c.Title,
		Description:   c.Description,
		DurationWeeks: c.DurationWeeks,
		Price:         c.Price,
		Country:       c.Country,
		Category:      c.Category,
		StartDate:     c.StartDate.Format(DateLayout),
		Image:         c.Image,
		Requests:      c.Requests,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// CourseViewResponse renders one view record.
type CourseViewResponse struct {
	ID       string    `json:"id"`
	User     string    `json:"user"`
	Course   string    `json:"course"`
	ViewedAt time.Time `json:"viewed_at"`
}

// NewCourseViewResponse maps a view record.
func NewCourseViewResponse(v *domain.CourseView) CourseViewResponse {
	return CourseViewResponse{ID: v.ID, User: v.UserID, Course: v.CourseID, ViewedAt: v.ViewedAt}
}
