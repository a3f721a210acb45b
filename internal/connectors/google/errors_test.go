package google

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/gfacade/internal/core/domain"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name string
		err  *googleapi.Error
		want error
	}{
		{"bad request", &googleapi.Error{Code: http.StatusBadRequest}, domain.ErrInvalidInput},
		{"unauthorised", &googleapi.Error{Code: http.StatusUnauthorized}, domain.ErrAuthInvalid},
		{"forbidden", &googleapi.Error{Code: http.StatusForbidden}, domain.ErrPermissionDenied},
		{
			"forbidden quota",
			&googleapi.Error{Code: http.StatusForbidden, Errors: []googleapi.ErrorItem{{Reason: "userRateLimitExceeded"}}},
			domain.ErrRateLimited,
		},
		{"not found", &googleapi.Error{Code: http.StatusNotFound}, domain.ErrNotFound},
		{"conflict", &googleapi.Error{Code: http.StatusConflict}, domain.ErrAlreadyExists},
		{"gone", &googleapi.Error{Code: http.StatusGone}, ErrPageTokenExpired},
		{"too many", &googleapi.Error{Code: http.StatusTooManyRequests}, domain.ErrRateLimited},
		{"server", &googleapi.Error{Code: http.StatusBadGateway}, domain.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapError(fmt.Errorf("call: %w", tt.err))

			assert.ErrorIs(t, err, tt.want)
			var gerr *googleapi.Error
			assert.True(t, errors.As(err, &gerr), "googleapi error stays reachable")
			assert.Equal(t, tt.err.Code, gerr.Code)
		})
	}
}

func TestWrapError_Passthrough(t *testing.T) {
	assert.NoError(t, WrapError(nil))

	plain := errors.New("dial tcp: refused")
	assert.Same(t, plain, WrapError(plain))

	teapot := &googleapi.Error{Code: http.StatusTeapot}
	assert.Same(t, error(teapot), WrapError(teapot))
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(&googleapi.Error{Code: 404}))
	assert.True(t, IsNotFound(domain.ErrNotFound))
	assert.True(t, IsUnauthorized(&googleapi.Error{Code: 401}))
	assert.True(t, IsForbidden(WrapError(&googleapi.Error{Code: 403})))
	assert.True(t, IsConflict(&googleapi.Error{Code: 409}))
	assert.True(t, IsRateLimited(ErrQuotaExceeded))
	assert.True(t, IsPageTokenExpired(&googleapi.Error{Code: 410}))
	assert.False(t, IsNotFound(errors.New("other")))
}

func TestHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"unauthorised", WrapError(&googleapi.Error{Code: 401}), "credentials were rejected"},
		{"forbidden", fmt.Errorf("get: %w", domain.ErrPermissionDenied), "lacks permission"},
		{"quota", ErrQuotaExceeded, "throttling"},
		{"gone", &googleapi.Error{Code: 410}, "page token expired"},
		{"missing", domain.ErrNotFound, "does not exist"},
		{"exists", &googleapi.Error{Code: 409}, "already exists"},
		{"other", errors.New("dial tcp: refused"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hint(tt.err)
			if tt.want == "" {
				assert.Empty(t, got)
				return
			}
			assert.Contains(t, got, tt.want)
		})
	}
}
