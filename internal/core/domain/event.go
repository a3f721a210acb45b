package domain

import "time"

// RequestEvent describes one outgoing HTTP attempt made on behalf of an API.
// A retried request produces one event per attempt, sharing the same ID.
type RequestEvent struct {
	// ID correlates attempts and is sent as the X-Request-Id header.
	ID string `json:"id"`
	// Prefix is the configuration prefix of the calling API.
	Prefix string `json:"prefix"`
	// Method is the HTTP method.
	Method string `json:"method"`
	// URL is the request URL without query string.
	URL string `json:"url"`
	// Attempt is 1 for the first try.
	Attempt int `json:"attempt"`
	// StatusCode is 0 when no response was received.
	StatusCode int `json:"status_code"`
	// Duration is the time spent on this attempt.
	Duration time.Duration `json:"duration"`
	// Err is set when the attempt failed at the transport level.
	Err error `json:"-"`
}

// Failed returns true if the attempt errored or got a non-2xx status.
func (e RequestEvent) Failed() bool {
	return e.Err != nil || e.StatusCode < 200 || e.StatusCode > 299
}
