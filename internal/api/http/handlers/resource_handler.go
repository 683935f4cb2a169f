package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/consulting-service/internal/auth"
	"github.com/spec-kit/consulting-service/internal/domain"
	"github.com/spec-kit/consulting-service/internal/service"
)

// OwnedService is the workflow a ResourceHandler drives.
type OwnedService[T any, F any] interface {
	List(ctx context.Context, requester *domain.User, params service.ListParams[F]) (service.Page[T], error)
	Get(ctx context.Context, requester *domain.User, id string) (*T, error)
	Create(ctx context.Context, requester *domain.User, item *T) error
	Update(ctx context.Context, requester *domain.User, id string, apply func(*T) error) (*T, error)
	Delete(ctx context.Context, requester *domain.User, id string) error
}

// CreateRequest is a full payload: it builds a new record or replaces
// every editable field of an existing one.
type CreateRequest[T any] interface {
	ToDomain() *T
	ApplyTo(*T)
}

// PatchRequest changes only the fields it carries.
type PatchRequest[T any] interface {
	ApplyTo(*T)
}

// FilterParser reads list filters from the query string. ok=false means
// the filter can match nothing; the service still authorizes the list.
type FilterParser[F any] func(c *fiber.Ctx) (filter F, ok bool, err error)

// ResourceHandler exposes list, create, retrieve, replace, patch and delete
// for one owned resource type.
type ResourceHandler[T any, F any, C CreateRequest[T], P PatchRequest[T], R any] struct {
	service OwnedService[T, F]
	noun    string
	render  func(*T) R
	filter  FilterParser[F]
}

func newResourceHandler[T any, F any, C CreateRequest[T], P PatchRequest[T], R any](
	svc OwnedService[T, F], noun string, render func(*T) R, filter FilterParser[F],
) *ResourceHandler[T, F, C, P, R] {
	if filter == nil {
		filter = noFilter[F]
	}
	return &ResourceHandler[T, F, C, P, R]{service: svc, noun: noun, render: render, filter: filter}
}

func noFilter[F any](*fiber.Ctx) (F, bool, error) {
	var zero F
	return zero, true, nil
}

// List GET /.
func (h *ResourceHandler[T, F, C, P, R]) List(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}
	filter, ok, err := h.filter(c)
	if err != nil {
		return err
	}

	result, err := h.service.List(c.UserContext(), auth.Requester(c), service.ListParams[F]{
		Filter:    filter,
		MatchNone: !ok,
		Limit:     page.Size,
		Offset:    page.offset(),
	})
	if err != nil {
		return err
	}

	items := make([]R, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, h.render(&result.Items[i]))
	}
	return c.JSON(listResponse(items, result.Total, page))
}

// Create POST /.
func (h *ResourceHandler[T, F, C, P, R]) Create(c *fiber.Ctx) error {
	var req C
	if err := bindBody(c, &req); err != nil {
		return err
	}
	item := req.ToDomain()
	if err := h.service.Create(c.UserContext(), auth.Requester(c), item); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": h.render(item)})
}

// Get GET /:id.
func (h *ResourceHandler[T, F, C, P, R]) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id", h.noun)
	if err != nil {
		return err
	}
	item, err := h.service.Get(c.UserContext(), auth.Requester(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.render(item)})
}

// Replace PUT /:id.
func (h *ResourceHandler[T, F, C, P, R]) Replace(c *fiber.Ctx) error {
	var req C
	return h.update(c, &req, func(item *T) { req.ApplyTo(item) })
}

// Patch PATCH /:id.
func (h *ResourceHandler[T, F, C, P, R]) Patch(c *fiber.Ctx) error {
	var req P
	return h.update(c, &req, func(item *T) { req.ApplyTo(item) })
}

func (h *ResourceHandler[T, F, C, P, R]) update(c *fiber.Ctx, body any, apply func(*T)) error {
	id, err := pathID(c, "id", h.noun)
	if err != nil {
		return err
	}
	if err := bindBody(c, body); err != nil {
		return err
	}
	item, err := h.service.Update(c.UserContext(), auth.Requester(c), id, func(item *T) error {
		apply(item)
		return nil
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.render(item)})
}

// Delete DELETE /:id.
func (h *ResourceHandler[T, F, C, P, R]) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id", h.noun)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), auth.Requester(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
