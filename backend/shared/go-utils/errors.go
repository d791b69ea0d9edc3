// backend/shared/go-utils/errors.go
package utils

import (
	"errors"
	"net/http"
)

// Errors shared by every service. Service packages define their own
// workflow-specific sentinels on top of these.
var (
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidPhone       = errors.New("invalid_phone")
	ErrEmailExists        = errors.New("email_exists")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrNotFound           = errors.New("not_found")

	ErrRowVersionConflict = errors.New("row_version_conflict")

	ErrRateLimitExceeded = errors.New("rate_limit_exceeded")

	// Twilio, SendGrid, Stripe, object storage.
	ErrExternalServiceFailure = errors.New("external_service_failure")
)

// AppError lets a service choose the HTTP status and public code it
// wants surfaced for a failure.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// HandleAppError writes an AppError as-is and anything else as a 500.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, nil, appErr.Err)
		return
	}
	RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
}
