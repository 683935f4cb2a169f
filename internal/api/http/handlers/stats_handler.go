package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/consulting-service/internal/api/dto"
	"github.com/spec-kit/consulting-service/internal/auth"
	"github.com/spec-kit/consulting-service/internal/repository"
	"github.com/spec-kit/consulting-service/internal/service"
)

// StatsHandler serves aggregate counters.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// StudentCount GET /stats/student-count.
func (h *StatsHandler) StudentCount(c *fiber.Ctx) error {
	count, err := h.stats.StudentCount(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"student_count": count}})
}

// CourseViews GET /stats/course-views, optionally narrowed by ?course=.
func (h *StatsHandler) CourseViews(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}

	var filter repository.CourseViewFilter
	matchNone := false
	if raw := optionalQuery(c, "course"); raw != nil {
		if id, err := uuid.Parse(*raw); err != nil {
			matchNone = true
		} else {
			courseID := id.String()
			filter.CourseID = &courseID
		}
	}

	result, err := h.stats.ListViews(c.UserContext(), auth.Requester(c), service.ListParams[repository.CourseViewFilter]{
		Filter:    filter,
		MatchNone: matchNone,
		Limit:     page.Size,
		Offset:    page.offset(),
	})
	if err != nil {
		return err
	}
	return c.JSON(listResponse(dto.MapItems(result.Items, dto.NewCourseViewResponse), result.Total, page))
}

// CourseViewCount GET /stats/course-views/:course_id.
func (h *StatsHandler) CourseViewCount(c *fiber.Ctx) error {
	courseID, err := pathID(c, "course_id", "course")
	if err != nil {
		return err
	}
	count, err := h.stats.CourseViewCount(c.UserContext(), auth.Requester(c), courseID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"course_id": courseID, "view_count": count}})
}
