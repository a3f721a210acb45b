// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/gfacade/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewCollections lists the registered resource collections.
	ViewCollections ViewType = iota
	// ViewItems lists the items of one collection.
	ViewItems
	// ViewItem shows one item as JSON.
	ViewItem
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewCollections:
		return "collections"
	case ViewItems:
		return "items"
	case ViewItem:
		return "item"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// CollectionSelected opens the items of a collection.
type CollectionSelected struct {
	Ref domain.ResourceRef
}

// ItemsLoaded carries a page of items. Append is set when the page
// continues the one already shown.
type ItemsLoaded struct {
	Ref    domain.ResourceRef
	Page   *domain.ListResult
	Append bool
	Err    error
}

// ItemSelected opens one item.
type ItemSelected struct {
	Ref domain.ResourceRef
	ID  string
}

// ItemLoaded carries an item's JSON.
type ItemLoaded struct {
	ID   string
	JSON []byte
	Err  error
}

// ItemDeleted reports a delete.
type ItemDeleted struct {
	ID  string
	Err error
}

// ErrorOccurred reports an error to the active view.
type ErrorOccurred struct {
	Err error
}
