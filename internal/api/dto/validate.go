package dto

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/spec-kit/consulting-service/internal/domain"
	apperrors "github.com/spec-kit/consulting-service/pkg/util/errorutil"
)

const (
	// DateLayout is the wire format of calendar dates.
	DateLayout = "2006-01-02"
	// ClockLayout is the stored format of times of day.
	ClockLayout = "15:04:05"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	moneyPattern = regexp.MustCompile(`^\d{1,8}(\.\d{1,2})?$`)
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

	customTags = map[string]string{
		"notblank":        "this field cannot be blank",
		"money":           "must be a non-negative amount with at most 10 digits and 2 decimal places",
		"slug":            "must contain only lowercase letters, digits and hyphens",
		"course_category": "must be one of: language, preparation",
		"role":            "must be one of: student, admin, partner",
		"date":            "must be a date in YYYY-MM-DD format",
		"clock":           "must be a time in HH:MM or HH:MM:SS format",
	}
)

func init() {
	validate = validator.New()

	english := en.New()
	uni := ut.New(english, english)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("notblank", stringCheck(func(s string) bool { return strings.TrimSpace(s) != "" }))
	_ = validate.RegisterValidation("money", stringCheck(moneyPattern.MatchString))
	_ = validate.RegisterValidation("slug", stringCheck(slugPattern.MatchString))
	_ = validate.RegisterValidation("course_category", stringCheck(func(s string) bool {
		switch domain.CourseCategory(s) {
		case domain.CourseCategoryLanguage, domain.CourseCategoryPreparation:
			return true
		}
		return false
	}))
	_ = validate.RegisterValidation("role", stringCheck(func(s string) bool { return domain.Role(s).Valid() }))
	_ = validate.RegisterValidation("date", stringCheck(func(s string) bool {
		_, err := time.Parse(DateLayout, s)
		return err == nil
	}))
	_ = validate.RegisterValidation("clock", stringCheck(func(s string) bool {
		_, err := ParseClock(s)
		return err == nil
	}))

	registerFn := func(ut.Translator) error { return nil }
	for tag := range customTags {
		_ = validate.RegisterTranslation(tag, translator, registerFn, translateCustom)
	}
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	return customTags[fe.Tag()]
}

// stringCheck adapts a string predicate; pointers are followed by the
// validator before the check runs.
func stringCheck(ok func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}
		return ok(fl.Field().String())
	}
}

// Validate checks req against its struct tags. Failures become a validation
// error whose details map each JSON field to a message.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	details := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := details[fe.Field()]; seen {
			continue
		}
		details[fe.Field()] = fe.Translate(translator)
	}
	return apperrors.NewValidationError("invalid payload", details)
}

// ParseClock accepts HH:MM or HH:MM:SS and normalises to HH:MM:SS.
func ParseClock(raw string) (string, error) {
	for _, layout := range []string{ClockLayout, "15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(ClockLayout), nil
		}
	}
	return "", errors.New("invalid time of day")
}

// ParseDate parses a YYYY-MM-DD calendar date in UTC.
func ParseDate(raw string) (time.Time, error) {
	return time.Parse(DateLayout, raw)
}
