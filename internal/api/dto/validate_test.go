package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/consulting-service/pkg/util/errorutil"
)

func validCourse() CourseRequest {
	return CourseRequest{
		Title:         "German A1",
		DurationWeeks: 10,
		Price:         "1200.50",
		Country:       "Germany",
		Category:      "language",
		StartDate:     "2025-09-01",
		Image:         "courses/german-a1.png",
	}
}

func detailsOf(t *testing.T, err error) map[string]any {
	t.Helper()
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	require.Equal(t, apperrors.CodeValidation, de.Code)
	return de.Details
}

func TestValidateCourse(t *testing.T) {
	require.NoError(t, Validate(validCourse()))

	cases := map[string]func(*CourseRequest){
		"price":          func(r *CourseRequest) { r.Price = "12.345" },
		"category":       func(r *CourseRequest) { r.Category = "cooking" },
		"start_date":     func(r *CourseRequest) { r.StartDate = "01/09/2025" },
		"duration_weeks": func(r *CourseRequest) { r.DurationWeeks = 0 },
		"title":          func(r *CourseRequest) { r.Title = "   " },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			req := validCourse()
			mutate(&req)
			details := detailsOf(t, Validate(req))
			assert.Contains(t, details, field)
		})
	}
}

func TestMoneyFormat(t *testing.T) {
	for _, price := range []string{"0", "0.5", "99999999.99"} {
		req := validCourse()
		req.Price = price
		assert.NoError(t, Validate(req), price)
	}
	for _, price := range []string{"-1", "100000000", "1.001", "abc", "1e3"} {
		req := validCourse()
		req.Price = price
		assert.Error(t, Validate(req), price)
	}
}

func TestPatchSkipsMissingFields(t *testing.T) {
	assert.NoError(t, Validate(CoursePatch{}))

	blank := ""
	details := detailsOf(t, Validate(CoursePatch{Title: &blank}))
	assert.Contains(t, details, "title")

	bad := "free"
	details = detailsOf(t, Validate(CoursePatch{Price: &bad}))
	assert.Equal(t, customTags["money"], details["price"])
}

func TestRequiredMessageUsesJSONName(t *testing.T) {
	details := detailsOf(t, Validate(RegisterRequest{}))
	assert.Contains(t, details["email"], "email")
	assert.Contains(t, details, "password")
}

func TestRoleTag(t *testing.T) {
	admin, bogus := "admin", "root"
	assert.NoError(t, Validate(UserPatchRequest{Role: &admin}))
	details := detailsOf(t, Validate(UserPatchRequest{Role: &bogus}))
	assert.Contains(t, details, "role")
}

func TestSlugTag(t *testing.T) {
	post := BlogPostRequest{Title: "t", Slug: "study-in-germany-2025", Content: "c", Category: "news"}
	assert.NoError(t, Validate(post))
	post.Slug = "Study In Germany"
	assert.Contains(t, detailsOf(t, Validate(post)), "slug")
}

func TestParseClock(t *testing.T) {
	got, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30:00", got)

	got, err = ParseClock("17:05:30")
	require.NoError(t, err)
	assert.Equal(t, "17:05:30", got)

	_, err = ParseClock("25:00")
	assert.Error(t, err)
}

func TestAppointmentApplyNormalisesTime(t *testing.T) {
	req := AppointmentRequest{PreferredDate: "2025-03-10", PreferredTime: "14:00"}
	require.NoError(t, Validate(req))
	a := req.ToDomain()
	assert.Equal(t, "14:00:00", a.PreferredTime)
	assert.Equal(t, "2025-03-10", a.PreferredDate.Format(DateLayout))
}
