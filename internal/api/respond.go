package api

import (
	"encoding/json"
	"net/http"

	"github.com/souqlab/storefront-api/internal/apperr"
)

// errorExtensions is the machine-readable part of the error envelope.
type errorExtensions struct {
	Code   apperr.Code         `json:"code"`
	Errors []apperr.FieldError `json:"errors,omitempty"`
}

// errorEnvelope is the wire shape of every failed operation.
type errorEnvelope struct {
	Message    string          `json:"message"`
	Extensions errorExtensions `json:"extensions"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// writeError serializes a structured error; anything untranslated collapses
// into the generic database-failure envelope.
func writeError(w http.ResponseWriter, err error) {
	e := apperr.As(err)
	if e == nil {
		e = apperr.Translate(err)
	}
	writeJSON(w, httpStatus(e.Code), errorEnvelope{
		Message:    e.Message,
		Extensions: errorExtensions{Code: e.Code, Errors: e.Fields},
	})
}

func httpStatus(code apperr.Code) int {
	switch code {
	case apperr.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperr.CodeForbidden:
		return http.StatusForbidden
	case apperr.CodeNotFound, apperr.CodeProductNotFound:
		return http.StatusNotFound
	case apperr.CodeValidationFailed, apperr.CodeBadRequest,
		apperr.CodeInvalidDataReference:
		return http.StatusBadRequest
	case apperr.CodeTotalPriceMismatch, apperr.CodeNotEnoughStock:
		return http.StatusConflict
	case apperr.CodeDatabaseUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
