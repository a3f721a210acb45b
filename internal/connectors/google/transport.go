package google

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/gfacade/internal/core/domain"
	"github.com/custodia-labs/gfacade/internal/core/ports/driven"
	"github.com/custodia-labs/gfacade/internal/logger"
)

// HeaderRequestID carries the id shared by every attempt of one request.
const HeaderRequestID = "X-Request-Id"

// MaxRetryAfter caps how long a Retry-After header can stall a request.
const MaxRetryAfter = 5 * time.Minute

// NewHTTPClient builds the authorized client used by every wrapped API.
//
// Layers, outermost first: Interceptor, RetryTransport, rate limiting,
// oauth2.Transport (skipped for CredentialNone), then an http.Transport
// bounded by the connect and read timeouts.
func NewHTTPClient(
	ctx context.Context,
	settings *domain.CredentialSettings,
	provider driven.TokenProvider,
	publisher driven.EventPublisher,
	limiter *RateLimiter,
) *http.Client {
	var rt http.RoundTripper = newBaseTransport(settings)

	if provider != nil && provider.Kind() != domain.CredentialNone {
		rt = &authTransport{
			provider: provider,
			next:     &oauth2.Transport{Source: NewTokenSource(ctx, provider), Base: rt},
		}
	}
	if limiter != nil {
		rt = &rateLimitTransport{limiter: limiter, next: rt}
	}

	interceptor := &Interceptor{
		Prefix:    settings.Prefix,
		UserAgent: settings.ApplicationName,
		Publisher: publisher,
	}
	interceptor.Next = &RetryTransport{
		Next:    rt,
		Retries: settings.Retries,
		Observe: interceptor.Observe,
	}

	return &http.Client{Transport: interceptor}
}

func newBaseTransport(settings *domain.CredentialSettings) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   settings.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
		TLSHandshakeTimeout:   settings.ConnectTimeout,
		ResponseHeaderTimeout: settings.ReadTimeout,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
	}
}

// Interceptor stamps outgoing requests and reports every attempt made
// beneath it as a RequestEvent.
type Interceptor struct {
	// Prefix tags published events.
	Prefix string
	// UserAgent is prepended to the User-Agent header when set.
	UserAgent string
	// Publisher receives one event per attempt. May be nil.
	Publisher driven.EventPublisher
	// Next performs the request.
	Next http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (i *Interceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if out.Header.Get(HeaderRequestID) == "" {
		out.Header.Set(HeaderRequestID, uuid.NewString())
	}
	if i.UserAgent != "" {
		ua := out.Header.Get("User-Agent")
		switch {
		case ua == "":
			out.Header.Set("User-Agent", i.UserAgent)
		case !strings.HasPrefix(ua, i.UserAgent):
			out.Header.Set("User-Agent", i.UserAgent+" "+ua)
		}
	}
	return i.Next.RoundTrip(out)
}

// Observe publishes and logs a single attempt.
func (i *Interceptor) Observe(req *http.Request, attempt int, resp *http.Response, err error, elapsed time.Duration) {
	u := *req.URL
	u.RawQuery = ""

	event := domain.RequestEvent{
		ID:       req.Header.Get(HeaderRequestID),
		Prefix:   i.Prefix,
		Method:   req.Method,
		URL:      u.String(),
		Attempt:  attempt,
		Duration: elapsed,
		Err:      err,
	}
	if resp != nil {
		event.StatusCode = resp.StatusCode
	}

	logger.DebugAttrs("google request",
		"id", event.ID,
		"prefix", event.Prefix,
		"method", event.Method,
		"url", event.URL,
		"attempt", event.Attempt,
		"status", event.StatusCode,
		"duration", event.Duration,
	)

	if i.Publisher != nil {
		i.Publisher.Publish(event)
	}
}

// RetryTransport retries network errors, 429 and 5xx responses with
// exponential backoff. Requests with a body that cannot be replayed are
// sent once.
type RetryTransport struct {
	// Next performs each attempt.
	Next http.RoundTripper
	// Retries is the number of attempts after the first.
	Retries int
	// NewBackOff overrides the backoff policy. Nil uses exponential backoff.
	NewBackOff func() backoff.BackOff
	// Observe is called after every attempt. May be nil.
	Observe func(req *http.Request, attempt int, resp *http.Response, err error, elapsed time.Duration)
}

// statusError marks a retryable response. The response stays open until
// the retry loop decides whether to use or discard it.
type statusError struct {
	resp       *http.Response
	retryAfter error
}

func (e *statusError) Error() string {
	return fmt.Sprintf("retryable status %d", e.resp.StatusCode)
}

func (e *statusError) Unwrap() error {
	return e.retryAfter
}

// RoundTrip implements http.RoundTripper.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	tries := uint(max(t.Retries, 0)) + 1
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		tries = 1
	}

	attempt := 0
	op := func() (*http.Response, error) {
		attempt++
		r := req
		if attempt > 1 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, backoff.Permanent(err)
			}
			r = req.Clone(req.Context())
			r.Body = body
		}

		start := time.Now()
		resp, err := t.Next.RoundTrip(r)
		if t.Observe != nil {
			t.Observe(r, attempt, resp, err, time.Since(start))
		}
		if err != nil {
			if req.Context().Err() != nil {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		if Retryable(resp.StatusCode) {
			se := &statusError{resp: resp}
			if d, ok := RetryAfter(resp); ok {
				se.retryAfter = backoff.RetryAfter(int(d.Seconds()))
			}
			return resp, se
		}
		return resp, nil
	}

	resp, err := backoff.Retry(req.Context(), op,
		backoff.WithBackOff(t.backOff()),
		backoff.WithMaxTries(tries),
		backoff.WithNotify(func(err error, next time.Duration) {
			var se *statusError
			if errors.As(err, &se) {
				discard(se.resp)
			}
			logger.Debug("retrying %s %s in %s: %v", req.Method, req.URL.Path, next, err)
		}),
	)

	var se *statusError
	if errors.As(err, &se) {
		return se.resp, nil
	}
	if err != nil && resp != nil {
		discard(resp)
		return nil, err
	}
	return resp, err
}

func (t *RetryTransport) backOff() backoff.BackOff {
	if t.NewBackOff != nil {
		return t.NewBackOff()
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 30 * time.Second
	return b
}

// Retryable returns true for statuses worth another attempt.
func Retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// RetryAfter parses the Retry-After header as seconds or an HTTP date.
func RetryAfter(resp *http.Response) (time.Duration, bool) {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0, false
	}

	var d time.Duration
	if secs, err := strconv.Atoi(v); err == nil {
		d = time.Duration(secs) * time.Second
	} else if at, err := http.ParseTime(v); err == nil {
		d = time.Until(at).Round(time.Second)
	} else {
		return 0, false
	}

	return min(max(d, 0), MaxRetryAfter), true
}

func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}

// rateLimitTransport waits on the limiter before each attempt and backs
// off after every 429, for Retry-After or DefaultRetryAfter.
type rateLimitTransport struct {
	limiter *RateLimiter
	next    http.RoundTripper
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	resp, err := t.next.RoundTrip(req)
	if err == nil && resp.StatusCode == http.StatusTooManyRequests {
		d, _ := RetryAfter(resp)
		t.limiter.RecordRateLimitError(d)
	}
	return resp, err
}

// authTransport drops the cached token when the server rejects it so the
// next request fetches a fresh one.
type authTransport struct {
	provider driven.TokenProvider
	next     http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err == nil && resp.StatusCode == http.StatusUnauthorized {
		t.provider.InvalidateCache()
	}
	return resp, err
}
