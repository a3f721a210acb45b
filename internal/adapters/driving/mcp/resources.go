package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme prefixes every resource URI the server exposes.
const uriScheme = "gfacade://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "resources",
		Name:        "resources",
		Description: "Resource collections the facade exposes",
		MIMEType:    "application/json",
	}, s.handleCollectionsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "{api}/{resource}/{id}",
		Name:        "item",
		Description: "One item of a collection that needs no parent",
		MIMEType:    "application/json",
	}, s.handleItemResource)
}

// handleCollectionsResource lists the registered collections.
func (s *Server) handleCollectionsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(s.ports.Facade.Resources(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resources: %w", err)
	}
	return jsonContents(req.Params.URI, data), nil
}

// handleItemResource reads gfacade://{api}/{resource}/{id}.
func (s *Server) handleItemResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	api, resource, id, ok := splitItemURI(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	ref, err := resourceRef(api, resource, "")
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	raw, err := s.ports.Facade.Get(ctx, ref, id)
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", req.Params.URI, err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("formatting %s: %w", req.Params.URI, err)
	}
	return jsonContents(req.Params.URI, buf.Bytes()), nil
}

// splitItemURI splits gfacade://{api}/{resource}/{id}. Every segment is
// path unescaped. The id may itself contain slashes.
func splitItemURI(uri string) (api, resource, id string, ok bool) {
	rest, found := strings.CutPrefix(uri, uriScheme)
	if !found {
		return "", "", "", false
	}
	parts := strings.SplitN(rest, "/", 3)
	if len(parts) != 3 {
		return "", "", "", false
	}
	for i, part := range parts {
		v, err := url.PathUnescape(part)
		if err != nil || v == "" {
			return "", "", "", false
		}
		parts[i] = v
	}
	return parts[0], parts[1], parts[2], true
}

func jsonContents(uri string, data []byte) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}
}
