package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/consulting-service/internal/domain"
	"github.com/spec-kit/consulting-service/internal/events"
	"github.com/spec-kit/consulting-service/internal/observability"
	"github.com/spec-kit/consulting-service/internal/policy"
	"github.com/spec-kit/consulting-service/internal/repository"
	apperrors "github.com/spec-kit/consulting-service/pkg/util/errorutil"
)

// Page is one slice of a listing plus the number of rows in scope.
type Page[T any] struct {
	Items []T
	Total int
}

// ListParams carries type-specific filters and the requested window.
type ListParams[F any] struct {
	Filter F
	// MatchNone marks a filter no row can satisfy. The list is still
	// authorized but answered empty.
	MatchNone bool
	Limit     int
	Offset    int
}

// ResourceDependencies bundles collaborators of a ResourceService.
type ResourceDependencies[T any, F any] struct {
	Repo       repository.OwnedRepository[T, F]
	Policy     *policy.Engine
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	// Payload optionally builds the event payload for created records.
	Payload func(*T) any
}

// ResourceService runs the owner-scoped workflow shared by every owned
// resource type: list within scope, retrieve, create with owner stamping,
// update and delete.
type ResourceService[T any, P interface {
	*T
	domain.OwnedResource
}, F any] struct {
	resource   domain.ResourceType
	noun       string
	repo       repository.OwnedRepository[T, F]
	policy     *policy.Engine
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	payload    func(*T) any
}

// NewResourceService builds the service for resource type rt.
func NewResourceService[T any, P interface {
	*T
	domain.OwnedResource
}, F any](rt domain.ResourceType, deps ResourceDependencies[T, F]) *ResourceService[T, P, F] {
	noun := string(rt)
	if p, ok := deps.Policy.Policy(rt); ok && p.Noun != "" {
		noun = p.Noun
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResourceService[T, P, F]{
		resource:   rt,
		noun:       noun,
		repo:       deps.Repo,
		policy:     deps.Policy,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		payload:    deps.Payload,
	}
}

// List returns the requester's visible rows. An empty scope short-circuits.
func (s *ResourceService[T, P, F]) List(ctx context.Context, requester *domain.User, params ListParams[F]) (Page[T], error) {
	scope, err := s.policy.CanList(requester, s.resource)
	if err != nil {
		return Page[T]{}, s.denied(policy.ActionList, err)
	}
	if scope.Empty() || params.MatchNone {
		return Page[T]{Items: []T{}}, nil
	}

	items, total, err := s.repo.List(ctx, repository.ListQuery[F]{
		OwnerID: scope.Owner(),
		Filter:  params.Filter,
		Limit:   params.Limit,
		Offset:  params.Offset,
	})
	if err != nil {
		return Page[T]{}, storageError(err, s.noun)
	}
	return Page[T]{Items: items, Total: total}, nil
}

// Get loads one record the requester is allowed to see.
func (s *ResourceService[T, P, F]) Get(ctx context.Context, requester *domain.User, id string) (*T, error) {
	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanRetrieve(requester, s.resource, P(item)); err != nil {
		return nil, s.denied(policy.ActionRetrieve, err)
	}
	return item, nil
}

// Create stores item owned by the requester, whatever owner it carried.
func (s *ResourceService[T, P, F]) Create(ctx context.Context, requester *domain.User, item *T) error {
	if err := s.policy.CanCreate(requester, s.resource); err != nil {
		return s.denied(policy.ActionCreate, err)
	}
	if requester == nil {
		return apperrors.NewUnauthorized("authentication credentials were not provided")
	}

	P(item).AssignOwner(requester.ID)
	if err := s.repo.Create(ctx, item); err != nil {
		return s.writeError(err)
	}

	var payload any
	if s.payload != nil {
		payload = s.payload(item)
	}
	s.publish(ctx, events.New(events.EventResourceCreated, s.resource, P(item).ResourceID(), requester, payload))
	return nil
}

// Update authorizes the change, then hands the stored record to apply. apply
// receives a private copy and may reject it with an error.
func (s *ResourceService[T, P, F]) Update(ctx context.Context, requester *domain.User, id string, apply func(*T) error) (*T, error) {
	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanUpdate(requester, s.resource, P(item)); err != nil {
		return nil, s.denied(policy.ActionUpdate, err)
	}
	if err := apply(item); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, s.writeError(err)
	}

	s.publish(ctx, events.New(events.EventResourceUpdated, s.resource, id, requester, nil))
	return item, nil
}

// Delete removes a record the requester may delete.
func (s *ResourceService[T, P, F]) Delete(ctx context.Context, requester *domain.User, id string) error {
	item, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.policy.CanDelete(requester, s.resource, P(item)); err != nil {
		return s.denied(policy.ActionDelete, err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storageError(err, s.noun)
	}

	s.publish(ctx, events.New(events.EventResourceDeleted, s.resource, id, requester, nil))
	return nil
}

func (s *ResourceService[T, P, F]) load(ctx context.Context, id string) (*T, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err, s.noun)
	}
	return item, nil
}

func (s *ResourceService[T, P, F]) writeError(err error) error {
	if s.resource == domain.ResourceBlogPosts {
		if verr := duplicateAsValidation(err, "slug", "a post with this slug already exists"); verr != nil {
			return verr
		}
	}
	return storageError(err, s.noun)
}

func (s *ResourceService[T, P, F]) denied(action policy.Action, err error) error {
	if de := apperrors.ToDomainError(err); de != nil {
		s.metrics.RecordPolicyDenial(string(s.resource), string(action), de.Code)
	}
	return err
}

func (s *ResourceService[T, P, F]) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("resource", string(event.Resource)),
			zap.Error(err))
	}
}
