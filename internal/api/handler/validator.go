package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// requestValidator adapts go-playground/validator to echo's Validator
// interface. Field names in messages come from the json tag, so clients
// see each field exactly as they sent it.
type requestValidator struct {
	v *validator.Validate
}

// NewValidator returns the validator wired into echo.Echo.Validator.
func NewValidator() *requestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &requestValidator{v: v}
}

// Validate satisfies echo.Validator. All field failures are joined into
// one message so a client can fix the whole payload in one round trip.
func (rv *requestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return err
	}
	msgs := make([]string, len(fields))
	for n, fe := range fields {
		msgs[n] = describeFieldError(fe)
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
}
