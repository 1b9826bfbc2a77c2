// Package web defines common components for a web application.
package web

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Response holds the common response type for all APIs.
type Response struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

// Error wraps a given err and its kind into json friendly response.
func Error(kind string, err error) Response {
	return Response{Error: err.Error(), Kind: kind}
}

// GetErrorMsg returns a human readable message for the failed validation tag.
// The message is meant to follow the field name.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " field is required"
	case "min":
		return fmt.Sprintf(" must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf(" must be less than %s", fe.Param())
	case "accountnumber":
		return " must contain only digits, at most 10"
	case "nationalid":
		return " must have exactly 10 digits"
	case "money":
		return " must be a decimal with at most 15 integer and 2 fraction digits"
	case "nonnegative":
		return " must be greater or equal to 0"
	case "isodate":
		return " must be a date formatted as yyyy-mm-dd"
	case "oneof":
		return fmt.Sprintf(" must be one of %s", fe.Param())
	}

	return " is invalid"
}
