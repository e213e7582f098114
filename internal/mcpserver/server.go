// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package mcpserver exposes receiver operations as MCP tools over stdio.
package mcpserver

import (
	"context"
	"io"

	"github.com/ManuGH/e2ctl/internal/log"
	"github.com/ManuGH/e2ctl/internal/openwebif"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

// Receiver is the subset of the OpenWebif client the tools need.
type Receiver interface {
	Status(ctx context.Context) (openwebif.StatusInfo, error)
	About(ctx context.Context) (openwebif.About, error)
	ToggleStandby(ctx context.Context) (bool, error)
	SetVolume(ctx context.Context, volume int) (bool, error)
	RemoteControl(ctx context.Context, code int) (bool, error)
	Bouquets(ctx context.Context) ([]openwebif.Bouquet, error)
	SearchEPG(ctx context.Context, query string) ([]openwebif.EPGEvent, error)
	PiconURL(ctx context.Context, channelName, serviceRef string) (string, bool, error)
}

// Server wraps an MCP server bound to one receiver.
type Server struct {
	mcp     *server.MCPServer
	rx      Receiver
	session string
	log     zerolog.Logger
}

// New builds the server and registers every tool.
func New(rx Receiver, version string) *Server {
	session := uuid.NewString()
	s := &Server{
		mcp:     server.NewMCPServer("e2ctl", version, server.WithToolCapabilities(false)),
		rx:      rx,
		session: session,
	}
	s.log = log.WithComponentFromContext(log.ContextWithCorrelationID(context.Background(), session), "mcp")
	s.mcp.AddTools(s.Tools()...)
	return s
}

// Session returns the correlation id shared by every tool call of this server.
func (s *Server) Session() string {
	return s.session
}

// MCP returns the underlying server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// ServeStdio answers JSON-RPC on in/out until ctx is cancelled or in closes.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	s.log.Info().Int("tools", len(s.Tools())).Msg("serving MCP over stdio")
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}
