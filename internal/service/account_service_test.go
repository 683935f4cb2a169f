package service

import (
	"context"
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

func TestRegisterForcesStudent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, policy.Options{})

	var registered []events.Event
	f.dispatcher.Subscribe(events.EventUserRegistered, func(_ context.Context, e events.Event) error {
		registered = append(registered, e)
		return nil
	})

	u, err := f.accounts.Register(ctx, NewUserInput{
		Email: "eve@example.com", Password: "pw", Role: domain.RoleAdmin, IsStaff: true, IsSuperuser: true,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, u.Role)
	assert.False(t, u.IsStaff)
	assert.False(t, u.IsSuperuser)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "pw", u.PasswordHash)
	assert.Len(t, registered, 1)
}

func TestRegisterDuplicateEmailIsValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, policy.Options{})
	f.register(t, "dup@example.com")

	_, err := f.accounts.Register(ctx, NewUserInput{Email: "dup@example.com", Password: "other"})
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, apperrors.CodeValidation, de.Code)
	assert.Contains(t, de.Details, "email")
}

func TestCreateUserRequiresEmailAndPassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, policy.Options{})

	_, err := f.accounts.CreateUser(ctx, NewUserInput{Email: "  ", Password: ""})
	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidation, de.Code)
	assert.Contains(t, de.Details, "email")
	assert.Contains(t, de.Details, "password")

	_, err = f.accounts.CreateSuperuser(ctx, "", "x")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = f.accounts.CreateUser(ctx, NewUserInput{Email: "x@example.com", Password: "x", Role: "wizard"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestCreateSuperuserDefaults(t *testing.T) {
	f := newFixture(t, policy.Options{})
	root := f.admin(t)
	assert.Equal(t, domain.RoleAdmin, root.Role)
	assert.True(t, root.IsStaff)
	assert.True(t, root.IsSuperuser)
	assert.True(t, root.IsActive)
}

func TestLoginAndRefreshRotation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, policy.Options{})
	f.register(t, "alice@example.com")

	_, _, err := f.accounts.Login(ctx, "alice@example.com", "wrong")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
	_, _, err = f.accounts.Login(ctx, "nobody@example.com", "x")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	user, pair, err := f.accounts.Login(ctx, "alice@example.com", "pass-alice@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.True(t, pair.RefreshExpiresAt.After(time.Now()))

	claims, err := f.accounts.TokenManager().ParseToken(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	next, err := f.accounts.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	assert.NotEqual(t, pair.Refresh, next.Refresh)

	_, err = f.accounts.Refresh(ctx, pair.Refresh)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
	_, err = f.accounts.Refresh(ctx, "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestInactiveUserCannotLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, policy.Options{})
	alice := f.register(t, "alice@example.com")
	root := f.admin(t)

	_, pair, err := f.accounts.Login(ctx, "alice@example.com", "pass-alice@example.com")
	require.NoError(t, err)

	inactive := false
	_, err = f.accounts.UpdateUser(ctx, root, alice.ID, UserPatch{IsActive: &inactive})
	require.NoError(t, err)

	_, _, err = f.accounts.Login(ctx, "alice@example.com", "pass-alice@example.com")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
	_, err = f.accounts.Refresh(ctx, pair.Refresh)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, policy.Options{})
	alice := f.register(t, "alice@example.com")

	_, pair, err := f.accounts.Login(ctx, "alice@example.com", "pass-alice@example.com")
	require.NoError(t, err)

	err = f.accounts.ChangePassword(ctx, alice, "wrong", "new-pass")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	require.NoError(t, f.accounts.ChangePassword(ctx, alice, "pass-alice@example.com", "new-pass"))

	_, err = f.accounts.Refresh(ctx, pair.Refresh)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
	_, _, err = f.accounts.Login(ctx, "alice@example.com", "new-pass")
	assert.NoError(t, err)
}

func TestSelfPromotionRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, policy.Options{})
	alice := f.register(t, "alice@example.com")

	admin := domain.RoleAdmin
	name := "Alice"
	_, err := f.accounts.UpdateUser(ctx, alice, alice.ID, UserPatch{Role: &admin, FullName: &name})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	stored, err := f.store.Users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, stored.Role)
	assert.Nil(t, stored.FullName)

	updated, err := f.accounts.UpdateUser(ctx, alice, alice.ID, UserPatch{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, &name, updated.FullName)
}

func TestUserVisibilityAndDeletion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, policy.Options{})
	alice := f.register(t, "alice@example.com")
	bob := f.register(t, "bob@example.com")
	root := f.admin(t)

	page, err := f.accounts.ListUsers(ctx, alice, ListParams[repository.UserFilter]{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, alice.ID, page.Items[0].ID)

	page, err = f.accounts.ListUsers(ctx, root, ListParams[repository.UserFilter]{})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)

	_, err = f.accounts.GetUser(ctx, alice, bob.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	assert.True(t, apperrors.HasCode(f.accounts.DeleteUser(ctx, alice, alice.ID), apperrors.CodeForbidden))
	require.NoError(t, f.accounts.DeleteUser(ctx, root, bob.ID))
	_, err = f.accounts.GetUser(ctx, root, bob.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestStudentCount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, policy.Options{})
	f.register(t, "a@example.com")
	f.register(t, "b@example.com")
	f.admin(t)

	count, err := f.stats.StudentCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestViewHistoryScope(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, policy.Options{CoursesPublicRead: true})
	owner := f.register(t, "owner@example.com")
	alice := f.register(t, "alice@example.com")
	bob := f.register(t, "bob@example.com")
	root := f.admin(t)
	c := f.course(t, owner, "German")

	for _, u := range []*domain.User{alice, bob} {
		_, err := f.courses.Get(ctx, u, c.ID)
		require.NoError(t, err)
	}

	page, err := f.stats.ListViews(ctx, alice, ListParams[repository.CourseViewFilter]{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, alice.ID, page.Items[0].UserID)

	page, err = f.stats.ListViews(ctx, root, ListParams[repository.CourseViewFilter]{Filter: repository.CourseViewFilter{CourseID: &c.ID}})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	_, err = f.stats.CourseViewCount(ctx, nil, c.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
	_, err = f.stats.CourseViewCount(ctx, alice, "missing")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestCourseViewCountHidesInvisibleCourses(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, policy.Options{})
	owner := f.register(t, "owner@example.com")
	other := f.register(t, "other@example.com")
	root := f.admin(t)
	c := f.course(t, owner, "German")

	_, err := f.courses.Get(ctx, owner, c.ID)
	require.NoError(t, err)

	count, err := f.stats.CourseViewCount(ctx, owner, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = f.stats.CourseViewCount(ctx, root, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, hiddenErr := f.stats.CourseViewCount(ctx, other, c.ID)
	_, missingErr := f.stats.CourseViewCount(ctx, other, "missing")
	assert.True(t, apperrors.HasCode(hiddenErr, apperrors.CodeNotFound))
	assert.True(t, apperrors.HasCode(missingErr, apperrors.CodeNotFound))
	assert.Equal(t, missingErr.Error(), hiddenErr.Error())

	_, err = f.stats.CourseViewCount(ctx, nil, "missing")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

// A student registers, books an appointment and a course; another student
// sees none of it; an administrator sees all of it.
func TestEndToEndScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, policy.Options{BlogPublicRead: true, BlogStrict: true})
	alice := f.register(t, "alice@example.com")
	bob := f.register(t, "bob@example.com")
	root := f.admin(t)

	appt := &domain.Appointment{PreferredDate: time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC), PreferredTime: "09:00:00"}
	require.NoError(t, f.appointments.Create(ctx, alice, appt))
	course := f.course(t, alice, "German A1")

	page, err := f.appointments.List(ctx, bob, ListParams[repository.AppointmentFilter]{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	_, err = f.courses.Get(ctx, bob, course.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	page, err = f.appointments.List(ctx, root, ListParams[repository.AppointmentFilter]{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	require.NoError(t, f.accounts.DeleteUser(ctx, root, alice.ID))
	orphan, err := f.appointments.Get(ctx, root, appt.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan.OwnerID)
	_, err = f.courses.Get(ctx, root, course.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}
