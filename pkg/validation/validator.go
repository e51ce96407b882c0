package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate = validator.New()

	// ErrInvalidViewName is returned for view names that cannot be used as
	// an output file stem.
	ErrInvalidViewName = errors.New("invalid view name")
)

// Struct validates v against its `validate` struct tags and returns the
// first failure in a user-facing form.
func Struct(v any) error {
	if err := validate.Struct(v); err != nil {
		return FormatError(err)
	}
	return nil
}

// ViewName checks that name can safely become part of an output path: one
// view owns exactly one file stem, so separators and dot segments are refused.
func ViewName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", ErrInvalidViewName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidViewName, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidViewName, name)
	}
	return nil
}

// FormatError converts validator errors to a more user-friendly format
func FormatError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	for _, e := range validationErrs {
		field := e.Namespace()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "oneof":
			return fmt.Errorf("%s: %v must be one of [%s]", field, e.Value(), e.Param())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}
