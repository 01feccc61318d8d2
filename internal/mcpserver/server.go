// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes gistlens tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/gistlens/internal/apperr"
	"github.com/starford/gistlens/internal/gistid"
	"github.com/starford/gistlens/internal/previewservice"
	"github.com/starford/gistlens/internal/storage"
)

// Server wraps the MCP server with gistlens tools.
type Server struct {
	mcp   *server.MCPServer
	svc   *previewservice.Service
	store storage.Provider
}

// New creates a new MCP server with all gistlens tools registered. store is
// the local checkout sidecars are written to; it may be nil.
func New(svc *previewservice.Service, store storage.Provider, version string) *Server {
	s := &Server{svc: svc, store: store}

	s.mcp = server.NewMCPServer(
		"gistlens",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("resolve_gist_id",
		mcp.WithDescription("Extract the canonical gist id from a gist URL or a raw hexadecimal id."),
		mcp.WithString("input", mcp.Required(), mcp.Description("Gist URL (https://gist.github.com/<owner>/<id>) or id")),
	), s.resolveGistID)

	s.mcp.AddTool(mcp.NewTool("get_gist",
		mcp.WithDescription("Fetch a gist: title, owner, creation date and every file with its language and content."),
		mcp.WithString("input", mcp.Required(), mcp.Description("Gist URL or id")),
	), s.getGist)

	s.mcp.AddTool(mcp.NewTool("compose_preview",
		mcp.WithDescription("Build the self-contained live-preview HTML document of a gist. "+
			"The gist must follow the layout described by get_preview_layout."),
		mcp.WithString("input", mcp.Required(), mcp.Description("Gist URL or id")),
	), s.composePreview)

	s.mcp.AddTool(mcp.NewTool("get_preview_layout",
		mcp.WithDescription("Returns the rules a gist must follow to render as a live preview, "+
			"including the base64 image sidecar convention."),
	), s.getPreviewLayout)

	s.mcp.AddTool(mcp.NewTool("make_image_sidecar",
		mcp.WithDescription("Encode an image as a base64 sidecar file for a preview gist. "+
			"Saved into the local checkout when one is configured, otherwise returned inline."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Asset path referenced by the markup, e.g. images/logo.png")),
		mcp.WithString("url", mcp.Required(), mcp.Description("http(s) URL or data: URI of the image")),
	), s.makeImageSidecar)

	s.mcp.AddResource(
		mcp.NewResource(PreviewLayoutURI, "Preview Layout",
			mcp.WithResourceDescription("How to lay out a gist so it renders as a live preview."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readPreviewLayoutResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) resolveGistID(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := req.RequireString("input")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := gistid.Resolve(input)
	if err != nil {
		return mcp.NewToolResultError(apperr.Message(err)), nil
	}
	return mcp.NewToolResultText(id), nil
}

func (s *Server) getGist(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := req.RequireString("input")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	view, err := s.svc.View(ctx, input)
	if err != nil {
		return mcp.NewToolResultError(apperr.Message(err)), nil
	}
	// Highlighted HTML is for browsers only.
	for i := range view.Files {
		view.Files[i].HTML = ""
	}
	out, _ := json.MarshalIndent(view, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) composePreview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := req.RequireString("input")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.svc.Document(ctx, input)
	if err != nil {
		return mcp.NewToolResultError(apperr.Message(err)), nil
	}
	return mcp.NewToolResultText(doc), nil
}

func (s *Server) getPreviewLayout(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(PreviewLayout), nil
}

func (s *Server) readPreviewLayoutResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      PreviewLayoutURI,
			MIMEType: "text/markdown",
			Text:     PreviewLayout,
		},
	}, nil
}
