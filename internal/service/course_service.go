package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/consulting-service/internal/domain"
	"github.com/spec-kit/consulting-service/internal/events"
	"github.com/spec-kit/consulting-service/internal/repository"
)

// CourseService adds view counting to the course workflow.
type CourseService struct {
	*ResourceService[domain.Course, *domain.Course, repository.CourseFilter]
	views repository.CourseViewRepository
}

// NewCourseService builds the service.
func NewCourseService(deps ResourceDependencies[domain.Course, repository.CourseFilter], views repository.CourseViewRepository) *CourseService {
	return &CourseService{
		ResourceService: NewResourceService[domain.Course, *domain.Course, repository.CourseFilter](domain.ResourceCourses, deps),
		views:           views,
	}
}

// Get returns the course and, for signed-in requesters, records their first
// view of it. A failure to record is logged and does not fail the read.
func (s *CourseService) Get(ctx context.Context, requester *domain.User, id string) (*domain.Course, error) {
	course, err := s.ResourceService.Get(ctx, requester, id)
	if err != nil || requester == nil {
		return course, err
	}

	first, err := s.views.RecordView(ctx, requester.ID, course.ID)
	if err != nil {
		s.logger.Warn("record course view",
			zap.String("course_id", course.ID),
			zap.String("user_id", requester.ID),
			zap.Error(err))
		return course, nil
	}
	if first {
		course.Requests++
		s.metrics.RecordCourseView()
		s.publish(ctx, events.New(events.EventCourseViewed, domain.ResourceCourses, course.ID, requester,
			events.CourseViewedPayload{CourseID: course.ID, Requests: course.Requests}))
	}
	return course, nil
}
