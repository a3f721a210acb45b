package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ResourceRef addresses a resource collection exposed by the facade.
// Parent scopes collections that live under another resource, such as the
// web properties of one Analytics account.
type ResourceRef struct {
	API      APIName `json:"api"`
	Resource string  `json:"resource"`
	Parent   string  `json:"parent,omitempty"`
}

// Key returns the registry key "<api>/<resource>".
func (r ResourceRef) Key() string {
	return string(r.API) + "/" + r.Resource
}

// String includes the parent when set.
func (r ResourceRef) String() string {
	if r.Parent == "" {
		return r.Key()
	}
	return fmt.Sprintf("%s[%s]", r.Key(), r.Parent)
}

// ParseResourceKey splits "<api>/<resource>" into a ref.
func ParseResourceKey(key string) (ResourceRef, error) {
	api, resource, ok := strings.Cut(key, "/")
	if !ok || api == "" || resource == "" {
		return ResourceRef{}, fmt.Errorf("%w: resource key %q", ErrInvalidInput, key)
	}
	return ResourceRef{API: APIName(api), Resource: resource}, nil
}

// ResourceInfo describes a registered resource collection.
type ResourceInfo struct {
	Ref            ResourceRef `json:"ref"`
	Description    string      `json:"description"`
	RequiresParent bool        `json:"requires_parent,omitempty"`
}

// ListOptions controls a list call.
type ListOptions struct {
	PageSize  int64  `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
	Filter    string `json:"filter,omitempty"`
	// All follows next-page tokens until the collection is exhausted.
	All bool `json:"all,omitempty"`
}

// ListResult is one page (or, with All, every page) of JSON-encoded items.
type ListResult struct {
	Items         []json.RawMessage `json:"items"`
	NextPageToken string            `json:"next_page_token,omitempty"`
}
