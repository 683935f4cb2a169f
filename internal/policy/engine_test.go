package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/consulting-service/internal/domain"
	apperrors "github.com/spec-kit/consulting-service/pkg/util/errorutil"
)

var (
	alice   = &domain.User{ID: "u-alice", Role: domain.RoleStudent, IsActive: true}
	bob     = &domain.User{ID: "u-bob", Role: domain.RoleStudent, IsActive: true}
	pat     = &domain.User{ID: "u-pat", Role: domain.RolePartner, IsActive: true}
	root    = &domain.User{ID: "u-root", Role: domain.RoleAdmin, IsActive: true, IsStaff: true, IsSuperuser: true}
	mystery = &domain.User{ID: "u-x", Role: domain.Role("wizard"), IsActive: true}
)

func defaultEngine() *Engine {
	return NewEngine(DefaultTable(Options{BlogPublicRead: true, BlogStrict: true}))
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, code), "expected %s, got %v", code, err)
}

func TestCanListScopes(t *testing.T) {
	e := defaultEngine()

	owned := []domain.ResourceType{
		domain.ResourceCourses,
		domain.ResourceAppointments,
		domain.ResourceContactMessages,
		domain.ResourceTestimonials,
		domain.ResourceUsers,
		domain.ResourceCourseViews,
	}
	for _, rt := range owned {
		t.Run(string(rt), func(t *testing.T) {
			scope, err := e.CanList(alice, rt)
			require.NoError(t, err)
			assert.Equal(t, OwnedBy(alice.ID), scope)
			require.NotNil(t, scope.Owner())
			assert.Equal(t, alice.ID, *scope.Owner())

			scope, err = e.CanList(root, rt)
			require.NoError(t, err)
			assert.Equal(t, VisibleAll, scope.Visibility)
			assert.Nil(t, scope.Owner())

			_, err = e.CanList(nil, rt)
			assertCode(t, err, apperrors.CodeUnauthorized)
		})
	}

	scope, err := e.CanList(nil, domain.ResourceBlogPosts)
	require.NoError(t, err)
	assert.Equal(t, All(), scope)
}

func TestAdminOnlyListIsEmptyForMembers(t *testing.T) {
	e := NewEngine(DefaultTable(Options{ContactsStrict: true}))

	scope, err := e.CanList(alice, domain.ResourceContactMessages)
	require.NoError(t, err)
	assert.True(t, scope.Empty())
	assert.False(t, scope.Includes(&domain.ContactMessage{OwnerID: alice.ID}))

	scope, err = e.CanList(root, domain.ResourceContactMessages)
	require.NoError(t, err)
	assert.False(t, scope.Empty())
}

func TestCanCreate(t *testing.T) {
	e := defaultEngine()

	assert.NoError(t, e.CanCreate(nil, domain.ResourceUsers))
	assert.NoError(t, e.CanCreate(alice, domain.ResourceCourses))
	assertCode(t, e.CanCreate(nil, domain.ResourceCourses), apperrors.CodeUnauthorized)

	assertCode(t, e.CanCreate(alice, domain.ResourceBlogPosts), apperrors.CodeForbidden)
	assert.NoError(t, e.CanCreate(root, domain.ResourceBlogPosts))

	assertCode(t, e.CanCreate(root, domain.ResourceCourseViews), apperrors.CodeForbidden)

	strictCourses := NewEngine(DefaultTable(Options{CoursesAdminCreate: true}))
	assertCode(t, strictCourses.CanCreate(pat, domain.ResourceCourses), apperrors.CodeForbidden)
	assert.NoError(t, strictCourses.CanCreate(root, domain.ResourceCourses))
}

func TestCanRetrieveHidesForeignRecords(t *testing.T) {
	e := defaultEngine()
	course := &domain.Course{ID: "c1", OwnerID: alice.ID}

	assert.NoError(t, e.CanRetrieve(alice, domain.ResourceCourses, course))
	assert.NoError(t, e.CanRetrieve(root, domain.ResourceCourses, course))
	assertCode(t, e.CanRetrieve(bob, domain.ResourceCourses, course), apperrors.CodeNotFound)
	assertCode(t, e.CanRetrieve(nil, domain.ResourceCourses, course), apperrors.CodeUnauthorized)

	public := NewEngine(DefaultTable(Options{CoursesPublicRead: true}))
	assert.NoError(t, public.CanRetrieve(nil, domain.ResourceCourses, course))
	assert.NoError(t, public.CanRetrieve(bob, domain.ResourceCourses, course))
}

func TestOrphanedRecordOnlyVisibleToAdmin(t *testing.T) {
	e := defaultEngine()
	orphan := &domain.Appointment{ID: "a1"}

	assertCode(t, e.CanRetrieve(alice, domain.ResourceAppointments, orphan), apperrors.CodeNotFound)
	assert.NoError(t, e.CanRetrieve(root, domain.ResourceAppointments, orphan))
	assert.False(t, OwnedBy("").Includes(orphan))
}

func TestUpdateAndDelete(t *testing.T) {
	e := defaultEngine()
	course := &domain.Course{ID: "c1", OwnerID: alice.ID}

	assert.NoError(t, e.CanUpdate(alice, domain.ResourceCourses, course))
	assert.NoError(t, e.CanDelete(alice, domain.ResourceCourses, course))
	assert.NoError(t, e.CanUpdate(root, domain.ResourceCourses, course))

	// Not visible, so the existence is not revealed.
	assertCode(t, e.CanUpdate(bob, domain.ResourceCourses, course), apperrors.CodeNotFound)
	assertCode(t, e.CanDelete(bob, domain.ResourceCourses, course), apperrors.CodeNotFound)

	public := NewEngine(DefaultTable(Options{CoursesPublicRead: true}))
	err := public.CanUpdate(bob, domain.ResourceCourses, course)
	assertCode(t, err, apperrors.CodeForbidden)
	assert.Contains(t, err.Error(), "your own course")
	assertCode(t, public.CanUpdate(nil, domain.ResourceCourses, course), apperrors.CodeUnauthorized)
}

func TestStrictBlogWritesAreAdminOnly(t *testing.T) {
	e := defaultEngine()
	post := &domain.BlogPost{ID: "p1", OwnerID: alice.ID}

	assert.NoError(t, e.CanRetrieve(nil, domain.ResourceBlogPosts, post))
	err := e.CanUpdate(alice, domain.ResourceBlogPosts, post)
	assertCode(t, err, apperrors.CodeForbidden)
	assert.Contains(t, err.Error(), "only administrators")
	assert.NoError(t, e.CanDelete(root, domain.ResourceBlogPosts, post))

	relaxed := NewEngine(DefaultTable(Options{BlogPublicRead: true}))
	assert.NoError(t, relaxed.CanUpdate(alice, domain.ResourceBlogPosts, post))
	assertCode(t, relaxed.CanUpdate(bob, domain.ResourceBlogPosts, post), apperrors.CodeForbidden)
}

func TestUsersPolicy(t *testing.T) {
	e := defaultEngine()

	assert.NoError(t, e.CanRetrieve(alice, domain.ResourceUsers, alice))
	assertCode(t, e.CanRetrieve(alice, domain.ResourceUsers, bob), apperrors.CodeNotFound)
	assert.NoError(t, e.CanUpdate(alice, domain.ResourceUsers, alice))

	err := e.CanDelete(alice, domain.ResourceUsers, alice)
	assertCode(t, err, apperrors.CodeForbidden)
	assert.NoError(t, e.CanDelete(root, domain.ResourceUsers, alice))
}

func TestPartnerBehavesAsStudent(t *testing.T) {
	e := defaultEngine()
	own := &domain.Testimonial{ID: "t1", OwnerID: pat.ID}
	other := &domain.Testimonial{ID: "t2", OwnerID: alice.ID}

	for _, rt := range []domain.ResourceType{domain.ResourceCourses, domain.ResourceTestimonials} {
		a, errA := e.CanList(alice, rt)
		p, errP := e.CanList(pat, rt)
		require.NoError(t, errA)
		require.NoError(t, errP)
		assert.Equal(t, a.Visibility, p.Visibility)
	}
	assert.NoError(t, e.CanUpdate(pat, domain.ResourceTestimonials, own))
	assertCode(t, e.CanUpdate(pat, domain.ResourceTestimonials, other), apperrors.CodeNotFound)
}

func TestUnknownRoleIsDenied(t *testing.T) {
	e := defaultEngine()

	_, err := e.CanList(mystery, domain.ResourceBlogPosts)
	assertCode(t, err, apperrors.CodeForbidden)
	assertCode(t, e.CanCreate(mystery, domain.ResourceUsers), apperrors.CodeForbidden)
}

func TestDecide(t *testing.T) {
	e := defaultEngine()

	d := e.Decide(Request{Requester: alice, Resource: domain.ResourceAppointments, Action: ActionList})
	assert.True(t, d.Allowed)
	assert.Equal(t, OwnedBy(alice.ID), d.Scope)

	d = e.Decide(Request{
		Requester: bob,
		Resource:  domain.ResourceAppointments,
		Action:    ActionPartialUpdate,
		Target:    &domain.Appointment{ID: "a1", OwnerID: &alice.ID},
	})
	assert.False(t, d.Allowed)
	assertCode(t, d.Err, apperrors.CodeNotFound)

	d = e.Decide(Request{Requester: root, Resource: domain.ResourceType("invoices"), Action: ActionList})
	assertCode(t, d.Err, apperrors.CodeForbidden)

	d = e.Decide(Request{Requester: root, Resource: domain.ResourceCourses, Action: Action("archive")})
	assertCode(t, d.Err, apperrors.CodeForbidden)
}

func TestCheckUserFields(t *testing.T) {
	e := defaultEngine()
	admin := domain.RoleAdmin
	student := domain.RoleStudent
	yes := true
	no := false

	err := e.CheckUserFields(alice, alice, UserChanges{Role: &admin})
	assertCode(t, err, apperrors.CodeForbidden)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, []string{"role"}, de.Details["fields"])

	err = e.CheckUserFields(alice, alice, UserChanges{IsStaff: &yes, IsSuperuser: &yes})
	assertCode(t, err, apperrors.CodeForbidden)
	assert.Equal(t, []string{"is_staff", "is_superuser"}, apperrors.ToDomainError(err).Details["fields"])

	err = e.CheckUserFields(alice, alice, UserChanges{IsActive: &no})
	assert.Equal(t, []string{"is_active"}, apperrors.ToDomainError(err).Details["fields"])

	assert.NoError(t, e.CheckUserFields(alice, alice, UserChanges{Role: &student, IsStaff: &no, IsActive: &yes}))
	assert.NoError(t, e.CheckUserFields(alice, alice, UserChanges{}))
	assert.NoError(t, e.CheckUserFields(root, alice, UserChanges{Role: &admin, IsStaff: &yes}))
	assertCode(t, e.CheckUserFields(nil, alice, UserChanges{Role: &admin}), apperrors.CodeUnauthorized)
}
