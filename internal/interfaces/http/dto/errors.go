package dto

import (
	"errors"
	"net/http"

	"github.com/billmaster/backend/internal/application/billing"
	"github.com/billmaster/backend/internal/domain/shared"
)

// Transport-level error codes. Domain error codes are returned unchanged.
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeValidation      = "VALIDATION_FAILED"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodePartialFailure  = "PARTIAL_FAILURE"
)

var statusByCode = map[string]int{
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodePartialFailure:  http.StatusInternalServerError,

	"NOT_FOUND":              http.StatusNotFound,
	"UNAUTHORIZED":           http.StatusUnauthorized,
	"FORBIDDEN":              http.StatusForbidden,
	"ALREADY_EXISTS":         http.StatusConflict,
	"CONCURRENCY_CONFLICT":   http.StatusConflict,
	"OPTIMISTIC_LOCK_FAILED": http.StatusConflict,
	"INVALID_STATE":          http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":     http.StatusUnprocessableEntity,
	"CANNOT_DELETE":          http.StatusUnprocessableEntity,
	"PDF_UNAVAILABLE":        http.StatusServiceUnavailable,
}

// HTTPStatus returns the status code for an error code. Validation codes map
// to 400 and anything unknown to 500.
func HTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	if shared.IsValidationError(shared.NewDomainError(code, "")) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// ErrorResult is the resolved HTTP form of an error
type ErrorResult struct {
	Status int
	Body   Response
}

// FromError maps an application error onto a status and response body.
// Store failures never leak their message to the client.
func FromError(err error, requestID string) ErrorResult {
	var stepErr *billing.StepError
	hasStep := errors.As(err, &stepErr)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		body := NewErrorResponse(domainErr.Code, domainErr.Message, requestID)
		if hasStep {
			body.Error.Step = stepInfo(stepErr)
		}
		return ErrorResult{Status: HTTPStatus(domainErr.Code), Body: body}
	}

	if hasStep {
		body := NewErrorResponse(ErrCodePartialFailure, "The operation did not complete", requestID)
		body.Error.Step = stepInfo(stepErr)
		return ErrorResult{Status: http.StatusInternalServerError, Body: body}
	}

	return ErrorResult{
		Status: http.StatusInternalServerError,
		Body:   NewErrorResponse(ErrCodeInternal, "An unexpected error occurred", requestID),
	}
}

func stepInfo(e *billing.StepError) *StepInfo {
	completed := make([]string, len(e.Completed))
	for i, s := range e.Completed {
		completed[i] = string(s)
	}
	return &StepInfo{
		Operation:  e.Operation,
		Failed:     string(e.Failed),
		Completed:  completed,
		RolledBack: e.RolledBack,
	}
}
