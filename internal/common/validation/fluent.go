package validation

import (
	"fmt"
	"strings"

	"interactions-relay/internal/common/errors"
)

// Validator accumulates validation errors through a fluent API backed by
// the centralized go-playground validator.
type Validator struct {
	centralizedValidator *CentralizedValidator
	errors               []ValidationError
	prefix               string
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{
		centralizedValidator: globalValidator,
		errors:               make([]ValidationError, 0),
	}
}

// NewValidatorWithPrefix creates a new validator with a prefix for error messages
func NewValidatorWithPrefix(prefix string) *Validator {
	v := NewValidator()
	v.prefix = prefix
	return v
}

// RequireString validates that a string is not empty (trimmed)
func (v *Validator) RequireString(value, name string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.addError(name, "required", value, fmt.Sprintf("%s is required", name))
	}
	return v
}

// RequirePositive validates that an integer is positive
func (v *Validator) RequirePositive(value int, name string) *Validator {
	if err := v.centralizedValidator.ValidateVar(value, "min=1"); err != nil {
		v.addError(name, "min", fmt.Sprintf("%d", value), fmt.Sprintf("%s must be positive", name))
	}
	return v
}

// RequireNonNegative validates that an integer is non-negative
func (v *Validator) RequireNonNegative(value int, name string) *Validator {
	if err := v.centralizedValidator.ValidateVar(value, "min=0"); err != nil {
		v.addError(name, "min", fmt.Sprintf("%d", value), fmt.Sprintf("%s must be non-negative", name))
	}
	return v
}

// RequireRange validates that a value is within a range
func (v *Validator) RequireRange(value, min, max int, name string) *Validator {
	tag := fmt.Sprintf("min=%d,max=%d", min, max)
	if err := v.centralizedValidator.ValidateVar(value, tag); err != nil {
		v.addError(name, "range", fmt.Sprintf("%d", value), fmt.Sprintf("%s must be between %d and %d", name, min, max))
	}
	return v
}

// RequireOneOf validates that a value is one of the allowed values
func (v *Validator) RequireOneOf(value string, allowed []string, name string) *Validator {
	tag := fmt.Sprintf("required,oneof=%s", strings.Join(allowed, " "))
	if err := v.centralizedValidator.ValidateVar(value, tag); err != nil {
		v.addError(name, "oneof", value, fmt.Sprintf("%s must be one of: %s", name, strings.Join(allowed, ", ")))
	}
	return v
}

// RequireTag validates value against a go-playground tag such as
// "ed25519_hex" or "hostname_port", reporting message on failure.
func (v *Validator) RequireTag(value interface{}, tag, name, message string) *Validator {
	if err := v.centralizedValidator.ValidateVar(value, tag); err != nil {
		v.addError(name, tag, fmt.Sprintf("%v", value), fmt.Sprintf("%s %s", name, message))
	}
	return v
}

// Validate runs a custom validation function
func (v *Validator) Validate(fn func() error) *Validator {
	if err := fn(); err != nil {
		v.addError("custom", "custom", "", err.Error())
	}
	return v
}

// ValidateIf runs a validation function if a condition is true
func (v *Validator) ValidateIf(condition bool, fn func() error) *Validator {
	if condition {
		return v.Validate(fn)
	}
	return v
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Error returns the validation error or nil if there are no errors
func (v *Validator) Error() error {
	if !v.HasErrors() {
		return nil
	}

	if len(v.errors) == 1 {
		return errors.ValidationError(v.errors[0].Message)
	}

	messages := make([]string, len(v.errors))
	for i, e := range v.errors {
		messages[i] = e.Message
	}

	return errors.ValidationError(fmt.Sprintf("validation failed: %s", strings.Join(messages, "; ")))
}

// Merge merges errors from another validator
func (v *Validator) Merge(other *Validator) *Validator {
	if other != nil && other.HasErrors() {
		v.errors = append(v.errors, other.errors...)
	}
	return v
}

func (v *Validator) addError(field, tag, value, message string) {
	if v.prefix != "" {
		message = fmt.Sprintf("%s: %s", v.prefix, message)
		field = fmt.Sprintf("%s.%s", v.prefix, field)
	}

	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Tag:     tag,
		Value:   value,
		Message: message,
	})
}
