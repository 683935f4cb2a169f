package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/consulting-service/internal/api/dto"
	apperrors "github.com/spec-kit/consulting-service/pkg/util/errorutil"
)

// pageRequest is the 1-based page window requested by a list call.
type pageRequest struct {
	Page int
	Size int
}

func (p pageRequest) offset() int {
	return (p.Page - 1) * p.Size
}

func parsePage(c *fiber.Ctx) (pageRequest, error) {
	p := pageRequest{Page: 1, Size: dto.DefaultPageSize}
	details := map[string]any{}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			details["page"] = "must be a positive integer"
		} else {
			p.Page = page
		}
	}
	if raw := c.Query("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			details["page_size"] = "must be a positive integer"
		} else {
			p.Size = min(size, dto.MaxPageSize)
		}
	}

	if len(details) > 0 {
		return p, apperrors.NewValidationError("invalid pagination", details)
	}
	return p, nil
}

func listResponse[T any](items []T, total int, p pageRequest) dto.ListResponse[T] {
	return dto.ListResponse[T]{
		Data: items,
		Meta: dto.PageMeta{Count: total, Page: p.Page, PageSize: p.Size},
	}
}

// bindBody decodes and validates a JSON payload.
func bindBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"body": err.Error()})
	}
	return dto.Validate(dst)
}

// pathID returns the :id route parameter. Identifiers are UUIDs, so
// anything else cannot name an existing record.
func pathID(c *fiber.Ctx, param, noun string) (string, error) {
	raw := c.Params(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apperrors.NewNotFound(noun, nil)
	}
	return id.String(), nil
}
