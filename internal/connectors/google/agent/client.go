package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/gfacade/internal/core/domain"
)

// restClient sends JSON requests to the agent API. Errors are decoded with
// googleapi.CheckResponse so they share the Google error mapping.
type restClient struct {
	base      *url.URL
	http      *http.Client
	userAgent string
}

func newRESTClient(endpoint string, hc *http.Client, userAgent string) (*restClient, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("%w: agent endpoint", domain.ErrMissingProperty)
	}
	base, err := url.Parse(endpoint)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: agent endpoint %q", domain.ErrInvalidInput, endpoint)
	}
	base.RawQuery = ""
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &restClient{base: base, http: hc, userAgent: userAgent}, nil
}

// url appends an already escaped path to the base, keeping any base path
// prefix.
func (c *restClient) url(path string, query url.Values) string {
	u := c.base.String() + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// send performs the request and returns the response for a 2xx status.
func (c *restClient) send(ctx context.Context, method, path string, query url.Values, in any) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if err := googleapi.CheckResponse(resp); err != nil {
		googleapi.CloseBody(resp)
		return nil, err
	}
	return resp, nil
}

// do performs a JSON round trip. out may be nil to discard the body.
func (c *restClient) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	resp, err := c.send(ctx, method, path, query, in)
	if err != nil {
		return err
	}
	defer googleapi.CloseBody(resp)
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
