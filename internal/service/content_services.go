package service

import (
	"github.com/spec-kit/consulting-service/internal/domain"
	"github.com/spec-kit/consulting-service/internal/events"
	"github.com/spec-kit/consulting-service/internal/repository"
)

type (
	BlogPostService       = ResourceService[domain.BlogPost, *domain.BlogPost, repository.BlogPostFilter]
	AppointmentService    = ResourceService[domain.Appointment, *domain.Appointment, repository.AppointmentFilter]
	ContactMessageService = ResourceService[domain.ContactMessage, *domain.ContactMessage, repository.ContactMessageFilter]
	TestimonialService    = ResourceService[domain.Testimonial, *domain.Testimonial, repository.TestimonialFilter]
)

// NewBlogPostService builds the blog workflow.
func NewBlogPostService(deps ResourceDependencies[domain.BlogPost, repository.BlogPostFilter]) *BlogPostService {
	return NewResourceService[domain.BlogPost, *domain.BlogPost, repository.BlogPostFilter](domain.ResourceBlogPosts, deps)
}

// NewAppointmentService builds the appointment workflow.
func NewAppointmentService(deps ResourceDependencies[domain.Appointment, repository.AppointmentFilter]) *AppointmentService {
	if deps.Payload == nil {
		deps.Payload = func(a *domain.Appointment) any {
			return events.AppointmentPayload{
				PreferredDate: a.PreferredDate.Format("2006-01-02"),
				PreferredTime: a.PreferredTime,
			}
		}
	}
	return NewResourceService[domain.Appointment, *domain.Appointment, repository.AppointmentFilter](domain.ResourceAppointments, deps)
}

// NewContactMessageService builds the contact form workflow.
func NewContactMessageService(deps ResourceDependencies[domain.ContactMessage, repository.ContactMessageFilter]) *ContactMessageService {
	if deps.Payload == nil {
		deps.Payload = func(m *domain.ContactMessage) any {
			return events.ContactMessagePayload{Subject: m.Subject}
		}
	}
	return NewResourceService[domain.ContactMessage, *domain.ContactMessage, repository.ContactMessageFilter](domain.ResourceContactMessages, deps)
}

// NewTestimonialService builds the testimonial workflow.
func NewTestimonialService(deps ResourceDependencies[domain.Testimonial, repository.TestimonialFilter]) *TestimonialService {
	return NewResourceService[domain.Testimonial, *domain.Testimonial, repository.TestimonialFilter](domain.ResourceTestimonials, deps)
}
