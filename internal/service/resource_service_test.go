package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/consulting-service/internal/domain"
	"github.com/spec-kit/consulting-service/internal/events"
	"github.com/spec-kit/consulting-service/internal/policy"
	"github.com/spec-kit/consulting-service/internal/repository"
	apperrors "github.com/spec-kit/consulting-service/pkg/util/errorutil"
)

func TestCreateStampsRequesterAsOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, policy.Options{})
	alice := f.register(t, "alice@example.com")

	msg := &domain.ContactMessage{OwnerID: "someone-else", Subject: "Visa", Message: "Help"}
	require.NoError(t, f.contacts.Create(ctx, alice, msg))
	assert.Equal(t, alice.ID, msg.OwnerID)

	err := f.contacts.Create(ctx, nil, &domain.ContactMessage{Subject: "x", Message: "y"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestListIsOwnerScoped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, policy.Options{})
	alice := f.register(t, "alice@example.com")
	bob := f.register(t, "bob@example.com")
	root := f.admin(t)

	for _, u := range []*domain.User{alice, alice, bob} {
		require.NoError(t, f.testimonials.Create(ctx, u, &domain.Testimonial{University: "TUM", Story: "s", Photo: "p.jpg", Country: "DE"}))
	}

	page, err := f.testimonials.List(ctx, alice, ListParams[repository.TestimonialFilter]{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	for _, item := range page.Items {
		assert.Equal(t, alice.ID, item.OwnerID)
	}

	page, err = f.testimonials.List(ctx, root, ListParams[repository.TestimonialFilter]{})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)

	_, err = f.testimonials.List(ctx, nil, ListParams[repository.TestimonialFilter]{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestMatchNoneListIsAuthorizedFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, policy.Options{})
	alice := f.register(t, "alice@example.com")
	require.NoError(t, f.testimonials.Create(ctx, alice, &domain.Testimonial{University: "TUM", Story: "s", Photo: "p.jpg", Country: "DE"}))

	params := ListParams[repository.TestimonialFilter]{MatchNone: true}
	_, err := f.testimonials.List(ctx, nil, params)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	page, err := f.testimonials.List(ctx, alice, params)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.Total)
}

func TestStrictContactsAreInvisibleToMembers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, policy.Options{ContactsStrict: true})
	alice := f.register(t, "alice@example.com")
	root := f.admin(t)

	msg := &domain.ContactMessage{Subject: "Visa", Message: "Help"}
	require.NoError(t, f.contacts.Create(ctx, alice, msg))

	page, err := f.contacts.List(ctx, alice, ListParams[repository.ContactMessageFilter]{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.Total)

	_, err = f.contacts.Get(ctx, alice, msg.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	got, err := f.contacts.Get(ctx, root, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "Visa", got.Subject)
}

func TestUpdateAndDeleteRespectOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, policy.Options{})
	alice := f.register(t, "alice@example.com")
	bob := f.register(t, "bob@example.com")
	root := f.admin(t)

	appt := &domain.Appointment{PreferredDate: time.Now(), PreferredTime: "10:30:00"}
	require.NoError(t, f.appointments.Create(ctx, alice, appt))

	applied := false
	_, err := f.appointments.Update(ctx, bob, appt.ID, func(a *domain.Appointment) error {
		applied = true
		return nil
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	assert.False(t, applied)

	note := "bring transcripts"
	updated, err := f.appointments.Update(ctx, alice, appt.ID, func(a *domain.Appointment) error {
		a.Message = &note
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, &note, updated.Message)

	rejected := apperrors.NewValidationError("bad", nil)
	_, err = f.appointments.Update(ctx, alice, appt.ID, func(*domain.Appointment) error { return rejected })
	assert.ErrorIs(t, err, rejected)

	assert.True(t, apperrors.HasCode(f.appointments.Delete(ctx, bob, appt.ID), apperrors.CodeNotFound))
	require.NoError(t, f.appointments.Delete(ctx, root, appt.ID))
	assert.True(t, apperrors.HasCode(f.appointments.Delete(ctx, root, appt.ID), apperrors.CodeNotFound))
}

func TestVisibleButNotOwnedIsForbidden(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, policy.Options{CoursesPublicRead: true})
	alice := f.register(t, "alice@example.com")
	bob := f.register(t, "bob@example.com")
	c := f.course(t, alice, "IELTS prep")

	_, err := f.courses.Update(ctx, bob, c.ID, func(*domain.Course) error { return nil })
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeForbidden, de.Code)
	assert.NotEmpty(t, de.Message)
}

func TestBlogSlugClashIsValidationError(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, policy.Options{BlogPublicRead: true, BlogStrict: true})
	root := f.admin(t)
	alice := f.register(t, "alice@example.com")

	post := &domain.BlogPost{Title: "Hello", Slug: "hello", Content: "c", Category: "news"}
	require.NoError(t, f.posts.Create(ctx, root, post))

	err := f.posts.Create(ctx, root, &domain.BlogPost{Title: "Again", Slug: "hello", Content: "c", Category: "news"})
	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidation, de.Code)
	assert.Contains(t, de.Details, "slug")

	err = f.posts.Create(ctx, alice, &domain.BlogPost{Title: "Mine", Slug: "mine", Content: "c", Category: "news"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	got, err := f.posts.Get(ctx, nil, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Slug)
}

func TestCourseViewCountedOncePerUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, policy.Options{CoursesPublicRead: true})
	owner := f.register(t, "owner@example.com")
	viewer := f.register(t, "viewer@example.com")
	c := f.course(t, owner, "German B1")

	var viewed []events.Event
	f.dispatcher.Subscribe(events.EventCourseViewed, func(_ context.Context, e events.Event) error {
		viewed = append(viewed, e)
		return nil
	})

	first, err := f.courses.Get(ctx, viewer, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Requests)

	second, err := f.courses.Get(ctx, viewer, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Requests)

	anon, err := f.courses.Get(ctx, nil, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, anon.Requests)

	_, err = f.courses.Get(ctx, owner, c.ID)
	require.NoError(t, err)
	stored, err := f.store.Courses.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Requests)
	assert.Len(t, viewed, 2)
}

func TestConcurrentCourseViews(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, policy.Options{CoursesPublicRead: true})
	owner := f.register(t, "owner@example.com")
	viewer := f.register(t, "viewer@example.com")
	c := f.course(t, owner, "TestDaF")

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.courses.Get(ctx, viewer, c.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := f.store.Courses.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Requests)

	count, err := f.stats.CourseViewCount(ctx, viewer, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCourseUpdateCannotTouchRequests(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, policy.Options{})
	alice := f.register(t, "alice@example.com")
	c := f.course(t, alice, "German A1")
	_, err := f.courses.Get(ctx, alice, c.ID)
	require.NoError(t, err)

	updated, err := f.courses.Update(ctx, alice, c.ID, func(course *domain.Course) error {
		course.Title = "German A1 (evening)"
		course.Requests = 1000
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Requests)
}
