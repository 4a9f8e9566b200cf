package service

import (
	"errors"
	"reflect"
	"regexp"

	apperrors "assessments/internal/errors"
	"github.com/go-playground/validator/v10"
)

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool {
	return emailShape.MatchString(s)
}

// RequestValidator runs struct validation and turns the first failing field
// into a ValidationError carrying that field's `msg` tag.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	})
	return &RequestValidator{validate: v}
}

func (rv *RequestValidator) Struct(s any) error {
	err := rv.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperrors.ErrValidation("Invalid request")
	}
	return apperrors.ErrValidation(fieldMessage(s, fieldErrs[0]))
}

func fieldMessage(s any, fe validator.FieldError) string {
	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if f, ok := t.FieldByName(fe.StructField()); ok {
		if msg := f.Tag.Get("msg"); msg != "" {
			return msg
		}
	}
	return fe.Field() + " is invalid"
}
