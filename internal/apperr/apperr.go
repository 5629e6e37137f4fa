package apperr

import (
	"errors"
	"fmt"
)

// Code is the machine-readable token carried by every structured error.
type Code string

const (
	CodeUnauthorized         Code = "UNAUTHORIZED"
	CodeForbidden            Code = "FORBIDDEN"
	CodeBadRequest           Code = "BAD_REQUEST"
	CodeNotFound             Code = "NOT_FOUND"
	CodeValidationFailed     Code = "VALIDATION_FAILED"
	CodeTotalPriceMismatch   Code = "TOTAL_PRICE_DOES_NOT_MATCH"
	CodeNotEnoughStock       Code = "NOT_ENOUGH_STOCK"
	CodeProductNotFound      Code = "PRODUCT_NOT_FOUND"
	CodeInvalidDataReference Code = "INVALID_DATA_REFERENCE"
	CodeDatabaseUnavailable  Code = "DATABASE_TEMPORARILY_UNAVAILABLE"
	CodeDatabaseFailed       Code = "DATABASE_OPERATION_FAILED"
)

// FieldError names a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the structured error every resolver returns on failure.
// Fields is populated for validation failures only.
type Error struct {
	Code    Code         `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"errors,omitempty"`
}

func (e *Error) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %d invalid field(s)", e.Message, len(e.Fields))
	}
	return e.Message
}

// New builds an error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Unauthorized is the 401-class denial: no session, or wrong role.
func Unauthorized() *Error {
	return New(CodeUnauthorized, "Unauthorized")
}

// Forbidden is the 403-class denial: valid role but not the resource owner.
func Forbidden() *Error {
	return New(CodeForbidden, "Access denied")
}

// NotFound names the missing resource ("Product not found", "Order not found").
func NotFound(resource string) *Error {
	return New(CodeNotFound, resource+" not found")
}

// Validation aggregates field errors into a single VALIDATION_FAILED error.
func Validation(fields []FieldError) *Error {
	msg := "Invalid input data"
	if len(fields) > 0 {
		msg = fields[0].Message
	}
	return &Error{Code: CodeValidationFailed, Message: msg, Fields: fields}
}

// As unwraps err into an *Error, or nil when err is not one.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
