package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one violated rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every rule a submission violates.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, f.Message)
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

// HasField reports whether the given field path has a violation.
func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	if err := v.RegisterValidation("travel_date", validateTravelDate); err != nil {
		panic(err)
	}
	return v
}

// validateTravelDate requires a parseable date that is not in the future.
func validateTravelDate(fl validator.FieldLevel) bool {
	t, err := ParseTravelDate(fl.Field().String())
	if err != nil {
		return false
	}
	return !t.After(time.Now().UTC())
}

// ValidateSubmission checks every rule and returns a *ValidationError listing all
// failures, or nil when the submission is valid. Call Normalize first.
func ValidateSubmission(s Submission) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Fields: []FieldError{{Field: "body", Message: err.Error()}}}
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		path := fieldPath(fe.Namespace())
		fields = append(fields, FieldError{Field: path, Message: describe(path, fe)})
	}
	return &ValidationError{Fields: fields}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "travel_date":
		if _, err := ParseTravelDate(fmt.Sprint(fe.Value())); err != nil {
			return fmt.Sprintf("%s must be a date in YYYY-MM-DD or RFC 3339 format", field)
		}
		return fmt.Sprintf("%s cannot be in the future", field)
	case "min", "max":
		return describeBound(field, fe)
	}
	return fmt.Sprintf("%s is invalid", field)
}

func describeBound(field string, fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		if fe.Tag() == "min" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case reflect.Slice:
		return fmt.Sprintf("%s must contain at most %s items", field, fe.Param())
	}
	if field == "rating" {
		return fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating)
	}
	if fe.Tag() == "min" {
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	}
	return fmt.Sprintf("%s must be at most %s", field, fe.Param())
}
