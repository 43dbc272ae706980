// Package web defines common components for a web application.
package web

import "github.com/go-playground/validator/v10"

// Failure codes returned in JSONError.Code. They are stable and machine
// parseable, independent of the human readable message.
const (
	CodeInvalidArgument   = "invalid_argument"
	CodeNotFound          = "not_found"
	CodeAlreadyExists     = "already_exists"
	CodeInsufficientFunds = "insufficient_funds"
	CodeConflict          = "conflict"
	CodeUnavailable       = "unavailable"
	CodeInternal          = "internal"
)

// JSONError provides type for explicit json encoded error response.
type JSONError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Error wraps a given err into a json friendly struct.
func Error(code string, err error) JSONError {
	return JSONError{Code: code, Message: err.Error()}
}

// Response holds the common response type for all APIs.
type Response struct {
	Data  any        `json:"data,omitempty"`
	Error *JSONError `json:"error,omitempty"`
}

// GetErrorMsg renders a short message for the first failed binding validation.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " is required"
	case "min":
		return " must be at least " + fe.Param()
	case "max":
		return " must not exceed " + fe.Param()
	default:
		return " is invalid"
	}
}
