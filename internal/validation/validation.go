// Package validation checks resource payloads against their struct tags and
// reports failures as a domain.ValidationError keyed by JSON field path.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kailas-cloud/placebook/internal/domain"
)

// Validator is safe for concurrent use; it caches struct metadata.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator that reports fields by their JSON names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates in. Non-struct values pass.
func (val *Validator) Struct(in any) error {
	if !isStruct(in) {
		return nil
	}
	err := val.v.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate input: %w", err)
	}

	out := &domain.ValidationError{}
	for _, fe := range verrs {
		out.Add(fieldPath(fe.Namespace()), describe(fe))
	}
	return out
}

func isStruct(in any) bool {
	t := reflect.TypeOf(in)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t != nil && t.Kind() == reflect.Struct
}

// fieldPath drops the root struct name: "Input.location.coordinate.lat" -> "location.coordinate.lat".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be blank"
	case "email":
		return "must be a well-formed email address"
	case "url":
		return "must be a valid URL"
	case "min", "gte":
		return "must be greater than or equal to " + fe.Param()
	case "max", "lte":
		return "must be less than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
