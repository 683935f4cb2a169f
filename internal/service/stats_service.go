package service

import (
	"context"

	"github.com/spec-kit/consulting-service/internal/domain"
	"github.com/spec-kit/consulting-service/internal/policy"
	"github.com/spec-kit/consulting-service/internal/repository"
	apperrors "github.com/spec-kit/consulting-service/pkg/util/errorutil"
)

// StatsService answers the platform's aggregate queries.
type StatsService struct {
	users   repository.UserRepository
	courses repository.CourseRepository
	views   repository.CourseViewRepository
	policy  *policy.Engine
}

// StatsDependencies bundles repositories for the stats service.
type StatsDependencies struct {
	UserRepo   repository.UserRepository
	CourseRepo repository.CourseRepository
	ViewRepo   repository.CourseViewRepository
	Policy     *policy.Engine
}

// NewStatsService builds the service.
func NewStatsService(deps StatsDependencies) *StatsService {
	return &StatsService{
		users:   deps.UserRepo,
		courses: deps.CourseRepo,
		views:   deps.ViewRepo,
		policy:  deps.Policy,
	}
}

// StudentCount returns the number of student accounts. It is public.
func (s *StatsService) StudentCount(ctx context.Context) (int, error) {
	count, err := s.users.CountByRole(ctx, domain.RoleStudent)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return count, nil
}

// CourseViewCount returns how many distinct users viewed a course. A course
// the requester cannot retrieve is reported as not found, like a missing one.
func (s *StatsService) CourseViewCount(ctx context.Context, requester *domain.User, courseID string) (int, error) {
	if err := s.policy.CanRetrieve(requester, domain.ResourceCourseViews, &domain.CourseView{CourseID: courseID}); err != nil {
		return 0, err
	}
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return 0, storageError(err, "course")
	}
	if err := s.policy.CanRetrieve(requester, domain.ResourceCourses, course); err != nil {
		return 0, err
	}
	count, err := s.views.CountByCourse(ctx, course.ID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return count, nil
}

// ListViews returns view records in the requester's scope: their own
// history, or everything for administrators.
func (s *StatsService) ListViews(ctx context.Context, requester *domain.User, params ListParams[repository.CourseViewFilter]) (Page[domain.CourseView], error) {
	scope, err := s.policy.CanList(requester, domain.ResourceCourseViews)
	if err != nil {
		return Page[domain.CourseView]{}, err
	}
	if scope.Empty() || params.MatchNone {
		return Page[domain.CourseView]{Items: []domain.CourseView{}}, nil
	}

	views, total, err := s.views.List(ctx, repository.ListQuery[repository.CourseViewFilter]{
		OwnerID: scope.Owner(),
		Filter:  params.Filter,
		Limit:   params.Limit,
		Offset:  params.Offset,
	})
	if err != nil {
		return Page[domain.CourseView]{}, apperrors.MapError(err)
	}
	return Page[domain.CourseView]{Items: views, Total: total}, nil
}
