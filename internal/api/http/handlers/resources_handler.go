package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/consulting-service/internal/api/dto"
	"github.com/spec-kit/consulting-service/internal/domain"
	"github.com/spec-kit/consulting-service/internal/repository"
	"github.com/spec-kit/consulting-service/internal/service"
)

// blogDateLayout is the format of the blog created_at filters.
const blogDateLayout = "2006.01.02"

type (
	CoursesHandler         = ResourceHandler[domain.Course, repository.CourseFilter, dto.CourseRequest, dto.CoursePatch, dto.CourseResponse]
	BlogPostsHandler       = ResourceHandler[domain.BlogPost, repository.BlogPostFilter, dto.BlogPostRequest, dto.BlogPostPatch, dto.BlogPostResponse]
	AppointmentsHandler    = ResourceHandler[domain.Appointment, repository.AppointmentFilter, dto.AppointmentRequest, dto.AppointmentPatch, dto.AppointmentResponse]
	ContactMessagesHandler = ResourceHandler[domain.ContactMessage, repository.ContactMessageFilter, dto.ContactMessageRequest, dto.ContactMessagePatch, dto.ContactMessageResponse]
	TestimonialsHandler    = ResourceHandler[domain.Testimonial, repository.TestimonialFilter, dto.TestimonialRequest, dto.TestimonialPatch, dto.TestimonialResponse]
)

// NewCoursesHandler serves /courses. Retrieval goes through the course
// service so signed-in views are counted.
func NewCoursesHandler(svc *service.CourseService) *CoursesHandler {
	return newResourceHandler[domain.Course, repository.CourseFilter, dto.CourseRequest, dto.CoursePatch](
		svc, "course", dto.NewCourseResponse, courseFilter)
}

// NewBlogPostsHandler serves /blog/posts.
func NewBlogPostsHandler(svc *service.BlogPostService) *BlogPostsHandler {
	return newResourceHandler[domain.BlogPost, repository.BlogPostFilter, dto.BlogPostRequest, dto.BlogPostPatch](
		svc, "post", dto.NewBlogPostResponse, blogPostFilter)
}

// NewAppointmentsHandler serves /appointments.
func NewAppointmentsHandler(svc *service.AppointmentService) *AppointmentsHandler {
	return newResourceHandler[domain.Appointment, repository.AppointmentFilter, dto.AppointmentRequest, dto.AppointmentPatch](
		svc, "appointment", dto.NewAppointmentResponse, nil)
}

// NewContactMessagesHandler serves /contacts/messages.
func NewContactMessagesHandler(svc *service.ContactMessageService) *ContactMessagesHandler {
	return newResourceHandler[domain.ContactMessage, repository.ContactMessageFilter, dto.ContactMessageRequest, dto.ContactMessagePatch](
		svc, "contact message", dto.NewContactMessageResponse, nil)
}

// NewTestimonialsHandler serves /testimonials.
func NewTestimonialsHandler(svc *service.TestimonialService) *TestimonialsHandler {
	return newResourceHandler[domain.Testimonial, repository.TestimonialFilter, dto.TestimonialRequest, dto.TestimonialPatch](
		svc, "testimonial", dto.NewTestimonialResponse, testimonialFilter)
}

func courseFilter(c *fiber.Ctx) (repository.CourseFilter, bool, error) {
	var f repository.CourseFilter
	f.Country = optionalQuery(c, "country")
	if raw := optionalQuery(c, "category"); raw != nil {
		category := domain.CourseCategory(*raw)
		if category != domain.CourseCategoryLanguage && category != domain.CourseCategoryPreparation {
			return f, false, nil
		}
		f.Category = &category
	}
	return f, true, nil
}

func blogPostFilter(c *fiber.Ctx) (repository.BlogPostFilter, bool, error) {
	var f repository.BlogPostFilter
	f.Category = optionalQuery(c, "category")

	dates := []struct {
		param string
		dst   **time.Time
	}{
		{"created_at", &f.CreatedOn},
		{"created_at__gte", &f.CreatedFrom},
		{"created_at__lte", &f.CreatedTo},
	}
	for _, d := range dates {
		raw := optionalQuery(c, d.param)
		if raw == nil {
			continue
		}
		day, err := time.Parse(blogDateLayout, *raw)
		if err != nil {
			return f, false, nil
		}
		*d.dst = &day
	}
	return f, true, nil
}

func testimonialFilter(c *fiber.Ctx) (repository.TestimonialFilter, bool, error) {
	return repository.TestimonialFilter{University: optionalQuery(c, "university")}, true, nil
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	return &raw
}
