package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type registerForm struct {
	Username string `validate:"required,min=3,max=64"`
	Password string `validate:"required,min=8,max=128"`
}

type loginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type reportForm struct {
	Title       string `validate:"required,max=100"`
	Description string `validate:"required"`
	Location    string `validate:"required,max=100"`
	Severity    string `validate:"required,max=50"`
}

// validationMessage turns the first validator error into a field-specific,
// user-facing sentence.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid input"
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
