package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/consulting-service/internal/api/http/handlers"
	"github.com/spec-kit/consulting-service/internal/auth"
	"github.com/spec-kit/consulting-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Users           *handlers.UsersHandler
	Courses         *handlers.CoursesHandler
	BlogPosts       *handlers.BlogPostsHandler
	Appointments    *handlers.AppointmentsHandler
	ContactMessages *handlers.ContactMessagesHandler
	Testimonials    *handlers.TestimonialsHandler
	Stats           *handlers.StatsHandler
	AuthMiddleware  *auth.AuthMiddleware
	Metrics         *observability.Metrics
}

// resourceRoutes is the handler set behind one owned-resource collection.
type resourceRoutes interface {
	List(*fiber.Ctx) error
	Create(*fiber.Ctx) error
	Get(*fiber.Ctx) error
	Replace(*fiber.Ctx) error
	Patch(*fiber.Ctx) error
	Delete(*fiber.Ctx) error
}

// RegisterRoutes wires HTTP routes. Resource routes authenticate
// optionally; the policy engine decides what anonymous callers may do.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	optional := cfg.AuthMiddleware.Optional
	required := cfg.AuthMiddleware.Handle

	accounts := app.Group("/accounts")
	accounts.Post("/register", cfg.Users.Register)
	accounts.Post("/token", cfg.Users.Token)
	accounts.Post("/token/refresh", cfg.Users.Refresh)
	accounts.Post("/password/change", required, auth.RequireAuthenticated(), cfg.Users.ChangePassword)
	accounts.Get("/me", required, cfg.Users.Me)

	users := accounts.Group("/users", optional)
	users.Get("/", cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Replace)
	users.Patch("/:id", cfg.Users.Patch)
	users.Delete("/:id", cfg.Users.Delete)

	mountResource(app.Group("/courses", optional), cfg.Courses)
	mountResource(app.Group("/blog/posts", optional), cfg.BlogPosts)
	mountResource(app.Group("/appointments", optional), cfg.Appointments)
	mountResource(app.Group("/contacts/messages", optional), cfg.ContactMessages)
	mountResource(app.Group("/testimonials", optional), cfg.Testimonials)

	stats := app.Group("/stats", optional)
	stats.Get("/student-count", cfg.Stats.StudentCount)
	stats.Get("/course-views", cfg.Stats.CourseViews)
	stats.Get("/course-views/:course_id", cfg.Stats.CourseViewCount)
}

func mountResource(group fiber.Router, h resourceRoutes) {
	group.Get("/", h.List)
	group.Post("/", h.Create)
	group.Get("/:id", h.Get)
	group.Put("/:id", h.Replace)
	group.Patch("/:id", h.Patch)
	group.Delete("/:id", h.Delete)
}
