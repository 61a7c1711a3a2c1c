package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-screener/internal/analysis"
	"github.com/jonathan/resume-screener/internal/extraction"
	"github.com/jonathan/resume-screener/internal/fetch"
	"github.com/jonathan/resume-screener/internal/scoring"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		inputErr      *analysis.InputError
		validationErr *ErrValidation
		fieldErrs     validator.ValidationErrors
		extractErr    *extraction.ExtractionError
		vocabErr      *scoring.VocabularyError
		fetchErr      *fetch.Error
		tooLarge      *http.MaxBytesError
	)

	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &inputErr), errors.As(err, &validationErr), errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &extractErr), errors.As(err, &vocabErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage renders err for a response body. Input errors surface their
// user-facing message; validator errors are flattened per field.
func errorMessage(err error) string {
	var inputErr *analysis.InputError
	if errors.As(err, &inputErr) {
		return inputErr.Message
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return extractValidationErrors(fieldErrs)
	}
	return err.Error()
}

func extractValidationErrors(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, fmt.Sprintf("validation error: %s - %s", e.Field(), e.Tag()))
	}
	return strings.Join(msgs, "; ")
}
