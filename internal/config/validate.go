package config

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/jmylchreest/toastui/internal/model"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// validatorInstance configures and returns the shared validator used by Validate.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their TOML key so errors match what the user wrote.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("kind", func(fl validator.FieldLevel) bool {
			return model.Kind(fl.Field().String()).Valid()
		})

		_ = v.RegisterValidation("position", func(fl validator.FieldLevel) bool {
			return slices.Contains(ValidPositions(), Position(fl.Field().String()))
		})

		validateInst = v
	})
	return validateInst
}

// FieldError describes one invalid configuration value.
type FieldError struct {
	Field string // Dotted TOML path, e.g. "toast.position"
	Tag   string
	Param string
	Value any
}

func (e *FieldError) Error() string {
	switch e.Tag {
	case "position":
		return fmt.Sprintf("%s: invalid position %q, must be one of: %v", e.Field, e.Value, ValidPositions())
	case "kind":
		return fmt.Sprintf("%s: unknown kind %q, must be one of: %v", e.Field, e.Value, model.Kinds())
	case "required":
		return fmt.Sprintf("%s is required", e.Field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s, got %v", e.Field, e.Param, e.Value)
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s, got %v", e.Field, e.Param, e.Value)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s, got %v", e.Field, e.Param, e.Value)
	default:
		return fmt.Sprintf("%s failed validation for tag '%s'", e.Field, e.Tag)
	}
}

// Validate checks if the configuration is valid. All invalid fields are
// reported, joined, each as a *FieldError.
func (c *Config) Validate() error {
	err := validatorInstance().Struct(c)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}

	errs := make([]error, 0, len(ves))
	for _, fe := range ves {
		errs = append(errs, &FieldError{
			Field: fieldPath(fe),
			Tag:   fe.Tag(),
			Param: fe.Param(),
			Value: fe.Value(),
		})
	}
	return errors.Join(errs...)
}

// fieldPath strips the root struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
