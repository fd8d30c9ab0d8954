// Package validation checks films and users against their field constraints
// using go-playground/validator v10. Every check reports only the first
// violated constraint, in a fixed order, so the same input always yields the
// same error.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"movie-discovery-social-service/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	// now is replaced in tests.
	now = time.Now
)

// Error is a single violated field constraint.
type Error struct {
	Field   string
	Tag     string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap makes errors.Is(err, models.ErrValidation) true.
func (e *Error) Unwrap() error {
	return models.ErrValidation
}

// GetValidator returns the shared validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("notblank", validators.NotBlank)
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Film validates description length, then the release date floor, then the
// struct tags in field order.
func Film(f *models.Film) error {
	if utf8.RuneCountInString(f.Description) > models.MaxDescriptionLength {
		return &Error{
			Field:   "description",
			Tag:     "max",
			Message: fmt.Sprintf("description must be at most %d characters", models.MaxDescriptionLength),
		}
	}
	if f.ReleaseDate.IsZero() {
		return &Error{Field: "release_date", Tag: "required", Message: "release_date is required"}
	}
	if f.ReleaseDate.Before(models.CinemaBirthday.Time) {
		return &Error{
			Field:   "release_date",
			Tag:     "min",
			Message: "release_date must not be before " + models.CinemaBirthday.String(),
		}
	}
	return Struct(f)
}

// User validates login whitespace, then the struct tags in field order, then
// the birthday.
func User(u *models.User) error {
	if strings.IndexFunc(u.Login, unicode.IsSpace) >= 0 {
		return &Error{Field: "login", Tag: "nowhitespace", Message: "login must not contain whitespace"}
	}
	if err := Struct(u); err != nil {
		return err
	}
	if u.Birthday.IsZero() {
		return &Error{Field: "birthday", Tag: "required", Message: "birthday is required"}
	}
	if u.Birthday.After(models.DateOf(now()).Time) {
		return &Error{Field: "birthday", Tag: "notfuture", Message: "birthday must not be in the future"}
	}
	return nil
}

// Positive rejects n <= 0 for the named parameter.
func Positive(field string, n int) error {
	if n <= 0 {
		return &Error{Field: field, Tag: "gt", Message: field + " must be positive"}
	}
	return nil
}

// Struct runs the validate tags of s and returns the first failure.
func Struct(s any) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &Error{Field: "unknown", Tag: "unknown", Message: err.Error()}
	}

	fe := fieldErrs[0]
	return &Error{Field: fe.Field(), Tag: fe.Tag(), Message: translate(fe)}
}

var messageTemplates = map[string]string{
	"required": "%s is required",
	"notblank": "%s must not be blank",
	"email":    "%s must be a valid email address",
}

var messageWithParam = map[string]string{
	"gt":  "%s must be greater than %s",
	"gte": "%s must be greater than or equal to %s",
	"max": "%s must be at most %s",
}

func translate(fe validator.FieldError) string {
	if tmpl, ok := messageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Field())
	}
	if tmpl, ok := messageWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}
