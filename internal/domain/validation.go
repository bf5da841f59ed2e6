package domain

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"strings"
)

type Validation struct {
	validator *validator.Validate
}

func NewValidation() *Validation {
	v := validator.New()
	v.RegisterValidation("notblank", validateNotBlank)
	return &Validation{validator: v}
}

func validateNotBlank(fl validator.FieldLevel) bool {
	// whitespace-only text counts as empty
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidationError describes one field that failed validation
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (v ValidationError) Error() string {
	return fmt.Sprintf("Field '%s': %s", v.Field, v.Message)
}

// ValidationErrors is a slice of ValidationError
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	return strings.Join(ve.Errors(), "; ")
}

// Errors returns the human readable message of every failure
func (ve ValidationErrors) Errors() []string {
	msgs := make([]string, 0, len(ve))
	for _, v := range ve {
		msgs = append(msgs, v.Message)
	}
	return msgs
}

func (v *Validation) Validate(i interface{}) ValidationErrors {
	var errs ValidationErrors

	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: "", Message: err.Error()}}
	}

	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}

	return errs
}

func messageFor(fe validator.FieldError) string {
	if fe.Field() == "Description" && (fe.Tag() == "notblank" || fe.Tag() == "required") {
		return "Item description cannot be empty."
	}
	return fmt.Sprintf("failed on the '%s' tag", fe.Tag())
}
