package validation

import (
	"encoding/hex"
	"fmt"
	"reflect"
	"strings"
	"time"

	"interactions-relay/internal/common/errors"

	"github.com/go-playground/validator/v10"
)

// CentralizedValidator provides unified validation using go-playground/validator
type CentralizedValidator struct {
	validator *validator.Validate
}

// ValidationResult contains validation results with structured errors
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// ValidationError represents a single validation error with context
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
	Param   string `json:"param,omitempty"`
}

// BrokerTypes lists the bus backends the relay can publish to
var BrokerTypes = []string{"gcp", "aws", "redis", "rabbitmq", "kafka"}

// NewCentralizedValidator creates a new centralized validator instance
func NewCentralizedValidator() *CentralizedValidator {
	v := validator.New()

	registerRelayValidators(v)

	// Report json names where present so messages match the env/config keys users see
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &CentralizedValidator{
		validator: v,
	}
}

// ValidateStruct validates a struct using struct tags
func (cv *CentralizedValidator) ValidateStruct(s interface{}) error {
	if err := cv.validator.Struct(s); err != nil {
		return cv.formatValidationErrors(err)
	}
	return nil
}

// ValidateVar validates a single variable with validation rules
func (cv *CentralizedValidator) ValidateVar(field interface{}, tag string) error {
	if err := cv.validator.Var(field, tag); err != nil {
		return cv.formatValidationErrors(err)
	}
	return nil
}

// ValidateStructResult validates a struct and returns detailed results
func (cv *CentralizedValidator) ValidateStructResult(s interface{}) *ValidationResult {
	err := cv.validator.Struct(s)
	if err == nil {
		return &ValidationResult{Valid: true, Errors: []ValidationError{}}
	}

	return &ValidationResult{
		Valid:  false,
		Errors: cv.extractValidationErrors(err),
	}
}

func (cv *CentralizedValidator) formatValidationErrors(err error) error {
	validationErrors := cv.extractValidationErrors(err)
	if len(validationErrors) == 1 {
		return errors.ValidationError(validationErrors[0].Message)
	}

	messages := make([]string, len(validationErrors))
	for i, e := range validationErrors {
		messages[i] = e.Message
	}

	return errors.ValidationError(fmt.Sprintf("validation failed: %s", strings.Join(messages, "; ")))
}

func (cv *CentralizedValidator) extractValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   fieldError.Field(),
				Tag:     fieldError.Tag(),
				Value:   fmt.Sprintf("%v", fieldError.Value()),
				Message: cv.formatFieldError(fieldError),
				Param:   fieldError.Param(),
			})
		}
	} else {
		validationErrors = append(validationErrors, ValidationError{
			Field:   "unknown",
			Tag:     "error",
			Message: err.Error(),
		})
	}

	return validationErrors
}

// formatFieldError formats go-playground/validator field errors into readable messages
func (cv *CentralizedValidator) formatFieldError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("field '%s' is required", err.Field())
	case "required_without":
		return fmt.Sprintf("field '%s' is required when %s is not set", err.Field(), err.Param())
	case "url":
		return fmt.Sprintf("field '%s' must be a valid URL", err.Field())
	case "min":
		return fmt.Sprintf("field '%s' must be at least %s", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("field '%s' must be at most %s", err.Field(), err.Param())
	case "oneof":
		return fmt.Sprintf("field '%s' must be one of: %s", err.Field(), err.Param())
	case "hostname_port":
		return fmt.Sprintf("field '%s' must be a host:port address", err.Field())
	case "broker_type":
		return fmt.Sprintf("field '%s' must be a valid broker type (%s)", err.Field(), strings.Join(BrokerTypes, ", "))
	case "ed25519_hex":
		return fmt.Sprintf("field '%s' must be a 64 character hex encoded Ed25519 public key", err.Field())
	case "duration":
		return fmt.Sprintf("field '%s' must be a valid duration", err.Field())
	default:
		return fmt.Sprintf("field '%s' failed validation: %s", err.Field(), err.Tag())
	}
}

func registerRelayValidators(v *validator.Validate) {
	v.RegisterValidation("broker_type", func(fl validator.FieldLevel) bool {
		brokerType := fl.Field().String()
		for _, valid := range BrokerTypes {
			if brokerType == valid {
				return true
			}
		}
		return false
	})

	v.RegisterValidation("ed25519_hex", func(fl validator.FieldLevel) bool {
		raw, err := hex.DecodeString(strings.TrimSpace(fl.Field().String()))
		return err == nil && len(raw) == 32
	})

	v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		_, err := time.ParseDuration(fl.Field().String())
		return err == nil
	})
}

var globalValidator = NewCentralizedValidator()

// ValidateStruct validates a struct using the global validator instance
func ValidateStruct(s interface{}) error {
	return globalValidator.ValidateStruct(s)
}

// ValidateVar validates a variable using the global validator instance
func ValidateVar(field interface{}, tag string) error {
	return globalValidator.ValidateVar(field, tag)
}

// ValidateStructResult validates a struct and returns detailed results using the global validator
func ValidateStructResult(s interface{}) *ValidationResult {
	return globalValidator.ValidateStructResult(s)
}
