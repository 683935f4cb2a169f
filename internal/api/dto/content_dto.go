package dto

import (
	"time"

	"github.com/spec-kit/consulting-service/internal/domain"
)

// BlogPostRequest is the create and full-update payload of a post.
type BlogPostRequest struct {
	Title    string  `json:"title" validate:"required,notblank,max=255"`
	Slug     string  `json:"slug" validate:"required,slug,max=255"`
	Content  string  `json:"content" validate:"required,notblank"`
	Image    *string `json:"image" validate:"omitempty,max=255"`
	Category string  `json:"category" validate:"required,notblank,max=100"`
}

// BlogPostPatch changes only the fields it carries.
type BlogPostPatch struct {
	Title    *string `json:"title" validate:"omitnil,notblank,max=255"`
	Slug     *string `json:"slug" validate:"omitnil,slug,max=255"`
	Content  *string `json:"content" validate:"omitnil,notblank"`
	Image    *string `json:"image" validate:"omitempty,max=255"`
	Category *string `json:"category" validate:"omitnil,notblank,max=100"`
}

func (r BlogPostRequest) ToDomain() *domain.BlogPost {
	p := &domain.BlogPost{}
	r.ApplyTo(p)
	return p
}

func (r BlogPostRequest) ApplyTo(p *domain.BlogPost) {
	p.Title = r.Title
	p.Slug = r.Slug
	p.Content = r.Content
	p.Image = r.Image
	p.Category = r.Category
}

func (r BlogPostPatch) ApplyTo(p *domain.BlogPost) {
	if r.Title != nil {
		p.Title = *r.Title
	}
	if r.Slug != nil {
		p.Slug = *r.Slug
	}
	if r.Content != nil {
		p.Content = *r.Content
	}
	if r.Image != nil {
		p.Image = r.Image
	}
	if r.Category != nil {
		p.Category = *r.Category
	}
}

// BlogPostResponse renders a post.
type BlogPostResponse struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	Image     *string   `json:"image"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewBlogPostResponse(p *domain.BlogPost) BlogPostResponse {
	return BlogPostResponse{
		ID:        p.ID,
		Owner:     p.OwnerID,
		Title:     p.Title,
		Slug:      p.Slug,
		Content:   p.Content,
		Image:     p.Image,
		Category:  p.Category,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// AppointmentRequest books a consultation.
type AppointmentRequest struct {
	PreferredDate string  `json:"preferred_date" validate:"required,date"`
	PreferredTime string  `json:"preferred_time" validate:"required,clock"`
	Message       *string `json:"message" validate:"omitempty,max=2000"`
}

// AppointmentPatch changes only the fields it carries.
type AppointmentPatch struct {
	PreferredDate *string `json:"preferred_date" validate:"omitnil,date"`
	PreferredTime *string `json:"preferred_time" validate:"omitnil,clock"`
	Message       *string `json:"message" validate:"omitempty,max=2000"`
}

func (r AppointmentRequest) ToDomain() *domain.Appointment {
	a := &domain.Appointment{}
	r.ApplyTo(a)
	return a
}

func (r AppointmentRequest) ApplyTo(a *domain.Appointment) {
	a.PreferredDate, _ = ParseDate(r.PreferredDate)
	a.PreferredTime, _ = ParseClock(r.PreferredTime)
	a.Message = r.Message
}

func (r AppointmentPatch) ApplyTo(a *domain.Appointment) {
	if r.PreferredDate != nil {
		if d, err := ParseDate(*r.PreferredDate); err == nil {
			a.PreferredDate = d
		}
	}
	if r.PreferredTime != nil {
		if t, err := ParseClock(*r.PreferredTime); err == nil {
			a.PreferredTime = t
		}
	}
	if r.Message != nil {
		a.Message = r.Message
	}
}

// AppointmentResponse renders an appointment; Owner is null once the
// booking account is gone.
type AppointmentResponse struct {
	ID            string    `json:"id"`
	Owner         *string   `json:"owner"`
	PreferredDate string    `json:"preferred_date"`
	PreferredTime string    `json:"preferred_time"`
	Message       *string   `json:"message"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewAppointmentResponse(a *domain.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:            a.ID,
		Owner:         a.OwnerID,
		PreferredDate: a.PreferredDate.Format(DateLayout),
		PreferredTime: a.PreferredTime,
		Message:       a.Message,
		CreatedAt:     a.CreatedAt,
	}
}

// ContactMessageRequest is sent through the contact form.
type ContactMessageRequest struct {
	Subject string `json:"subject" validate:"required,notblank,max=255"`
	Message string `json:"message" validate:"required,notblank"`
}

// ContactMessagePatch changes only the fields it carries.
type ContactMessagePatch struct {
	Subject *string `json:"subject" validate:"omitnil,notblank,max=255"`
	Message *string `json:"message" validate:"omitnil,notblank"`
}

func (r ContactMessageRequest) ToDomain() *domain.ContactMessage {
	return &domain.ContactMessage{Subject: r.Subject, Message: r.Message}
}

func (r ContactMessageRequest) ApplyTo(m *domain.ContactMessage) {
	m.Subject = r.Subject
	m.Message = r.Message
}

func (r ContactMessagePatch) ApplyTo(m *domain.ContactMessage) {
	if r.Subject != nil {
		m.Subject = *r.Subject
	}
	if r.Message != nil {
		m.Message = *r.Message
	}
}

type ContactMessageResponse struct {
	ID      string    `json:"id"`
	Owner   string    `json:"owner"`
	Subject string    `json:"subject"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}

func NewContactMessageResponse(m *domain.ContactMessage) ContactMessageResponse {
	return ContactMessageResponse{ID: m.ID, Owner: m.OwnerID, Subject: m.Subject, Message: m.Message, SentAt: m.SentAt}
}

// TestimonialRequest is the create and full-update payload of a testimonial.
type TestimonialRequest struct {
	University string  `json:"university" validate:"required,notblank,max=255"`
	Story      string  `json:"story" validate:"required,notblank"`
	Photo      string  `json:"photo" validate:"required,max=255"`
	VideoURL   *string `json:"video_url" validate:"omitempty,url,max=500"`
	Country    string  `json:"country" validate:"required,notblank,max=100"`
}

// TestimonialPatch changes only the fields it carries.
type TestimonialPatch struct {
	University *string `json:"university" validate:"omitnil,notblank,max=255"`
	Story      *string `json:"story" validate:"omitnil,notblank"`
	Photo      *string `json:"photo" validate:"omitnil,notblank,max=255"`
	VideoURL   *string `json:"video_url" validate:"omitempty,url,max=500"`
	Country    *string `json:"country" validate:"omitnil,notblank,max=100"`
}

func (r TestimonialRequest) ToDomain() *domain.Testimonial {
	t := &domain.Testimonial{}
	r.ApplyTo(t)
	return t
}

func (r TestimonialRequest) ApplyTo(t *domain.Testimonial) {
	t.University = r.University
	t.Story = r.Story
	t.Photo = r.Photo
	t.VideoURL = r.VideoURL
	t.Country = r.Country
}

func (r TestimonialPatch) ApplyTo(t *domain.Testimonial) {
	if r.University != nil {
		t.University = *r.University
	}
	if r.Story != nil {
		t.Story = *r.Story
	}
	if r.Photo != nil {
		t.Photo = *r.Photo
	}
	if r.VideoURL != nil {
		t.VideoURL = r.VideoURL
	}
	if r.Country != nil {
		t.Country = *r.Country
	}
}

type TestimonialResponse struct {
	ID         string    `json:"id"`
	Owner      string    `json:"owner"`
	University string    `json:"university"`
	Story      string    `json:"story"`
	Photo      string    `json:"photo"`
	VideoURL   *string   `json:"video_url"`
	Country    string    `json:"country"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewTestimonialResponse(t *domain.Testimonial) TestimonialResponse {
	return TestimonialResponse{
		ID:         t.ID,
		Owner:      t.OwnerID,
		University: t.University,
		Story:      t.Story,
		Photo:      t.Photo,
		VideoURL:   t.VideoURL,
		Country:    t.Country,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}
