package domain

import "errors"

// Domain errors represent facade failures independent of the wrapped API.
// Connector errors are mapped onto these so callers never need to inspect
// vendor error types.
var (
	// ErrNotFound indicates a requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a resource with the same identifier exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedOperation indicates the wrapped API has no equivalent
	// for the requested facade operation.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrUnknownAPI indicates no API or resource is registered under a name.
	ErrUnknownAPI = errors.New("unknown api")

	// ErrMissingProperty indicates a required configuration property is absent.
	ErrMissingProperty = errors.New("missing property")

	// Authentication Errors.

	// ErrAuthRequired indicates the API requires credentials but none resolved.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the credentials were rejected.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrTokenRefreshFailed indicates an access token could not be obtained.
	ErrTokenRefreshFailed = errors.New("token refresh failed")

	// ErrPermissionDenied indicates the credentials lack a required scope or role.
	ErrPermissionDenied = errors.New("permission denied")

	// Transport Errors.

	// ErrRateLimited indicates the API rate limit or quota was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnavailable indicates the remote service failed after all retries.
	ErrUnavailable = errors.New("service unavailable")
)
