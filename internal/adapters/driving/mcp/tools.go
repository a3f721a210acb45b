package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/gfacade/internal/core/domain"
)

// ItemInput addresses one item.
type ItemInput struct {
	API      string `json:"api" jsonschema:"API name: drive, sheets, analytics, pubsub, identitytoolkit, firebase or agent"`
	Resource string `json:"resource" jsonschema:"collection within the API, e.g. files or topics"`
	Parent   string `json:"parent,omitempty" jsonschema:"parent of the collection when it requires one"`
	ID       string `json:"id" jsonschema:"item id"`
}

// ListInput selects a page of a collection.
type ListInput struct {
	API       string `json:"api" jsonschema:"API name"`
	Resource  string `json:"resource" jsonschema:"collection within the API"`
	Parent    string `json:"parent,omitempty" jsonschema:"parent of the collection when it requires one"`
	PageSize  int64  `json:"page_size,omitempty" jsonschema:"maximum items per page"`
	PageToken string `json:"page_token,omitempty" jsonschema:"token from a previous page"`
	Filter    string `json:"filter,omitempty" jsonschema:"API specific filter"`
	All       bool   `json:"all,omitempty" jsonschema:"follow page tokens to the end"`
}

// WriteInput carries an item to insert or update.
type WriteInput struct {
	API      string         `json:"api" jsonschema:"API name"`
	Resource string         `json:"resource" jsonschema:"collection within the API"`
	Parent   string         `json:"parent,omitempty" jsonschema:"parent of the collection when it requires one"`
	ID       string         `json:"id,omitempty" jsonschema:"item id, required for update"`
	Item     map[string]any `json:"item" jsonschema:"the item fields as listed by get or list"`
}

// ItemOutput is a single item.
type ItemOutput struct {
	Item any `json:"item"`
}

// ListOutput is a page of items.
type ListOutput struct {
	Items         []any  `json:"items"`
	Count         int    `json:"count"`
	NextPageToken string `json:"next_page_token,omitempty"`
}

// DeleteOutput confirms a delete.
type DeleteOutput struct {
	Deleted string `json:"deleted"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_item",
		Description: "Retrieve one item of a Google API collection",
	}, s.handleGet)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_items",
		Description: "List items of a Google API collection",
	}, s.handleList)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "insert_item",
		Description: "Create an item in a Google API collection",
	}, s.handleInsert)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "update_item",
		Description: "Update an item of a Google API collection",
	}, s.handleUpdate)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_item",
		Description: "Delete an item of a Google API collection",
	}, s.handleDelete)
}

func (s *Server) handleGet(ctx context.Context, _ *mcp.CallToolRequest, input ItemInput) (*mcp.CallToolResult, ItemOutput, error) {
	ref, err := resourceRef(input.API, input.Resource, input.Parent)
	if err != nil {
		return nil, ItemOutput{}, err
	}
	raw, err := s.ports.Facade.Get(ctx, ref, input.ID)
	if err != nil {
		return nil, ItemOutput{}, err
	}
	return itemResult(raw)
}

func (s *Server) handleList(ctx context.Context, _ *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, ListOutput, error) {
	ref, err := resourceRef(input.API, input.Resource, input.Parent)
	if err != nil {
		return nil, ListOutput{}, err
	}
	page, err := s.ports.Facade.List(ctx, ref, domain.ListOptions{
		PageSize:  input.PageSize,
		PageToken: input.PageToken,
		Filter:    input.Filter,
		All:       input.All,
	})
	if err != nil {
		return nil, ListOutput{}, err
	}

	output := ListOutput{
		Items:         make([]any, len(page.Items)),
		Count:         len(page.Items),
		NextPageToken: page.NextPageToken,
	}
	for i, raw := range page.Items {
		if err := json.Unmarshal(raw, &output.Items[i]); err != nil {
			return nil, ListOutput{}, fmt.Errorf("decoding item: %w", err)
		}
	}
	return nil, output, nil
}

func (s *Server) handleInsert(ctx context.Context, _ *mcp.CallToolRequest, input WriteInput) (*mcp.CallToolResult, ItemOutput, error) {
	ref, body, err := writeRequest(input)
	if err != nil {
		return nil, ItemOutput{}, err
	}
	raw, err := s.ports.Facade.Insert(ctx, ref, body)
	if err != nil {
		return nil, ItemOutput{}, err
	}
	return itemResult(raw)
}

func (s *Server) handleUpdate(ctx context.Context, _ *mcp.CallToolRequest, input WriteInput) (*mcp.CallToolResult, ItemOutput, error) {
	if input.ID == "" {
		return nil, ItemOutput{}, fmt.Errorf("%w: update needs an id", domain.ErrInvalidInput)
	}
	ref, body, err := writeRequest(input)
	if err != nil {
		return nil, ItemOutput{}, err
	}
	raw, err := s.ports.Facade.Update(ctx, ref, input.ID, body)
	if err != nil {
		return nil, ItemOutput{}, err
	}
	return itemResult(raw)
}

func (s *Server) handleDelete(ctx context.Context, _ *mcp.CallToolRequest, input ItemInput) (*mcp.CallToolResult, DeleteOutput, error) {
	ref, err := resourceRef(input.API, input.Resource, input.Parent)
	if err != nil {
		return nil, DeleteOutput{}, err
	}
	if err := s.ports.Facade.Delete(ctx, ref, input.ID); err != nil {
		return nil, DeleteOutput{}, err
	}
	return nil, DeleteOutput{Deleted: ref.Key() + "/" + input.ID}, nil
}

func resourceRef(api, resource, parent string) (domain.ResourceRef, error) {
	name := domain.APIName(api)
	if !name.Valid() {
		return domain.ResourceRef{}, fmt.Errorf("%w: %q", domain.ErrUnknownAPI, api)
	}
	return domain.ResourceRef{API: name, Resource: resource, Parent: parent}, nil
}

func writeRequest(input WriteInput) (domain.ResourceRef, json.RawMessage, error) {
	ref, err := resourceRef(input.API, input.Resource, input.Parent)
	if err != nil {
		return domain.ResourceRef{}, nil, err
	}
	if input.Item == nil {
		return domain.ResourceRef{}, nil, fmt.Errorf("%w: item is required", domain.ErrInvalidInput)
	}
	body, err := json.Marshal(input.Item)
	if err != nil {
		return domain.ResourceRef{}, nil, fmt.Errorf("encoding item: %w", err)
	}
	return ref, body, nil
}

func itemResult(raw json.RawMessage) (*mcp.CallToolResult, ItemOutput, error) {
	var item any
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, ItemOutput{}, fmt.Errorf("decoding item: %w", err)
	}
	return nil, ItemOutput{Item: item}, nil
}
