package google

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/gfacade/internal/core/domain"
)

// Google API failures that have no domain equivalent.
var (
	// ErrQuotaExceeded indicates a daily or per-project quota was exhausted.
	// It wraps domain.ErrRateLimited.
	ErrQuotaExceeded = fmt.Errorf("google: quota exceeded: %w", domain.ErrRateLimited)

	// ErrPageTokenExpired indicates a page token is no longer valid (410 GONE).
	ErrPageTokenExpired = errors.New("google: page token expired")
)

// apiError keeps the googleapi error reachable while matching a domain sentinel.
type apiError struct {
	sentinel error
	cause    *googleapi.Error
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s: %s", e.sentinel, e.cause.Error())
}

func (e *apiError) Unwrap() []error {
	return []error{e.sentinel, e.cause}
}

// code extracts the HTTP status from a googleapi error anywhere in the chain.
func code(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	return 0
}

// IsUnauthorized returns true if the error indicates invalid credentials.
func IsUnauthorized(err error) bool {
	return errors.Is(err, domain.ErrAuthInvalid) || code(err) == http.StatusUnauthorized
}

// IsForbidden returns true if the error indicates insufficient permissions.
func IsForbidden(err error) bool {
	return errors.Is(err, domain.ErrPermissionDenied) || code(err) == http.StatusForbidden
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound) || code(err) == http.StatusNotFound
}

// IsConflict returns true if the resource already exists.
func IsConflict(err error) bool {
	return errors.Is(err, domain.ErrAlreadyExists) || code(err) == http.StatusConflict
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return errors.Is(err, domain.ErrRateLimited) || code(err) == http.StatusTooManyRequests
}

// IsPageTokenExpired returns true if a page token was rejected with 410 GONE.
func IsPageTokenExpired(err error) bool {
	return errors.Is(err, ErrPageTokenExpired) || code(err) == http.StatusGone
}

// WrapError maps a Google API error onto the domain sentinels. Errors that
// are not *googleapi.Error, or whose status has no mapping, are returned as is.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	var sentinel error
	switch {
	case gerr.Code == http.StatusBadRequest:
		sentinel = domain.ErrInvalidInput
	case gerr.Code == http.StatusUnauthorized:
		sentinel = domain.ErrAuthInvalid
	case gerr.Code == http.StatusForbidden && quotaReason(gerr):
		sentinel = ErrQuotaExceeded
	case gerr.Code == http.StatusForbidden:
		sentinel = domain.ErrPermissionDenied
	case gerr.Code == http.StatusNotFound:
		sentinel = domain.ErrNotFound
	case gerr.Code == http.StatusConflict:
		sentinel = domain.ErrAlreadyExists
	case gerr.Code == http.StatusGone:
		sentinel = ErrPageTokenExpired
	case gerr.Code == http.StatusTooManyRequests:
		sentinel = domain.ErrRateLimited
	case gerr.Code >= http.StatusInternalServerError:
		sentinel = domain.ErrUnavailable
	default:
		return err
	}
	return &apiError{sentinel: sentinel, cause: gerr}
}

// quotaReason reports whether a 403 is a quota failure rather than a
// permission failure. Drive and Analytics signal quota with 403.
func quotaReason(gerr *googleapi.Error) bool {
	for _, item := range gerr.Errors {
		switch item.Reason {
		case "rateLimitExceeded", "userRateLimitExceeded", "quotaExceeded", "dailyLimitExceeded":
			return true
		}
	}
	return false
}

// Hint suggests a next step for a failed call, or returns "" when the
// failure has no obvious remedy.
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case IsUnauthorized(err):
		return "the credentials were rejected; check the <api>.* or google.* properties"
	case IsForbidden(err):
		return "the principal lacks permission; check the granted scopes"
	case IsRateLimited(err):
		return "the API is throttling requests; retry later or lower rate_limit"
	case IsPageTokenExpired(err):
		return "the page token expired; list again from the first page"
	case IsNotFound(err):
		return "the resource does not exist or is not visible to the principal"
	case IsConflict(err):
		return "the resource already exists; use update instead of insert"
	}
	return ""
}
