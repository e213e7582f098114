// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ManuGH/e2ctl/internal/log"
	"github.com/ManuGH/e2ctl/internal/metrics"
	"github.com/ManuGH/e2ctl/internal/openwebif"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tool names
const (
	ToolGetStatus     = "get_status"
	ToolGetAbout      = "get_about"
	ToolToggleStandby = "toggle_standby"
	ToolSetVolume     = "set_volume"
	ToolRemoteControl = "remote_control"
	ToolListBouquets  = "list_bouquets"
	ToolSearchEPG     = "search_epg"
	ToolGetPiconURL   = "get_picon_url"
)

type toolFunc func(ctx context.Context, req mcp.CallToolRequest) (any, error)

// Tools returns every tool with its handler.
func (s *Server) Tools() []server.ServerTool {
	return []server.ServerTool{
		s.tool(mcp.NewTool(ToolGetStatus,
			mcp.WithDescription("Show what the receiver is playing, its volume and standby state."),
		), s.getStatus),
		s.tool(mcp.NewTool(ToolGetAbout,
			mcp.WithDescription("Describe the receiver hardware, image and tuners."),
		), s.getAbout),
		s.tool(mcp.NewTool(ToolToggleStandby,
			mcp.WithDescription("Toggle the receiver between standby and running."),
		), s.toggleStandby),
		s.tool(mcp.NewTool(ToolSetVolume,
			mcp.WithDescription("Set the receiver volume."),
			mcp.WithNumber("volume",
				mcp.Required(),
				mcp.Description("Volume between 0 and 100"),
			),
		), s.setVolume),
		s.tool(mcp.NewTool(ToolRemoteControl,
			mcp.WithDescription("Send a remote control key."),
			mcp.WithString("key",
				mcp.Required(),
				mcp.Description("up, down, playpause or a numeric key code"),
			),
		), s.remoteControl),
		s.tool(mcp.NewTool(ToolListBouquets,
			mcp.WithDescription("List bouquets and their channels."),
			mcp.WithString("bouquet",
				mcp.Description("Only return this bouquet (optional)"),
			),
		), s.listBouquets),
		s.tool(mcp.NewTool(ToolSearchEPG,
			mcp.WithDescription("Search programme guide titles."),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("Title text to search for"),
			),
		), s.searchEPG),
		s.tool(mcp.NewTool(ToolGetPiconURL,
			mcp.WithDescription("Find the channel logo URL. Defaults to the current channel."),
			mcp.WithString("channel",
				mcp.Description("Channel name (optional)"),
			),
			mcp.WithString("service_ref",
				mcp.Description("Service reference (optional)"),
			),
		), s.getPiconURL),
	}
}

// tool adapts fn into a handler. Failures become tool-result errors so the
// protocol session stays healthy.
func (s *Server) tool(t mcp.Tool, fn toolFunc) server.ServerTool {
	name := t.Name
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		ctx = log.ContextWithCorrelationID(ctx, s.session)
		ctx = log.ContextWithRequestID(ctx, uuid.NewString())
		logger := log.WithComponentFromContext(ctx, "mcp")

		out, err := fn(ctx, req)
		elapsed := time.Since(start)
		metrics.ObserveToolCall(name, err != nil, elapsed)

		if err != nil {
			logger.Warn().Err(err).Str("tool", name).Msg("tool failed")
			return mcp.NewToolResultError(err.Error()), nil
		}
		logger.Debug().Str("tool", name).Dur("elapsed", elapsed).Msg("tool succeeded")
		return jsonResult(out), nil
	}
	return server.ServerTool{Tool: t, Handler: handler}
}

func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error marshaling result: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

type commandResult struct {
	Result bool `json:"result"`
}

func (s *Server) getStatus(ctx context.Context, _ mcp.CallToolRequest) (any, error) {
	return s.rx.Status(ctx)
}

func (s *Server) getAbout(ctx context.Context, _ mcp.CallToolRequest) (any, error) {
	return s.rx.About(ctx)
}

func (s *Server) toggleStandby(ctx context.Context, _ mcp.CallToolRequest) (any, error) {
	ok, err := s.rx.ToggleStandby(ctx)
	if err != nil {
		return nil, err
	}
	return commandResult{Result: ok}, nil
}

func (s *Server) setVolume(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	volume, err := req.RequireFloat("volume")
	if err != nil {
		return nil, err
	}
	if volume != float64(int(volume)) {
		return nil, fmt.Errorf("volume must be a whole number, got %v", volume)
	}
	ok, err := s.rx.SetVolume(ctx, int(volume))
	if err != nil {
		return nil, err
	}
	return commandResult{Result: ok}, nil
}

func (s *Server) remoteControl(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return nil, err
	}
	code, err := openwebif.ParseRemoteKey(key)
	if err != nil {
		return nil, err
	}
	ok, err := s.rx.RemoteControl(ctx, code)
	if err != nil {
		return nil, err
	}
	return commandResult{Result: ok}, nil
}

func (s *Server) listBouquets(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	bouquets, err := s.rx.Bouquets(ctx)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.GetString("bouquet", ""))
	if name == "" {
		return bouquets, nil
	}
	for _, b := range bouquets {
		if strings.EqualFold(b.Name, name) {
			return []openwebif.Bouquet{b}, nil
		}
	}
	return nil, fmt.Errorf("bouquet %q not found", name)
}

func (s *Server) searchEPG(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return nil, err
	}
	return s.rx.SearchEPG(ctx, query)
}

type piconResult struct {
	URL   string `json:"url,omitempty"`
	Found bool   `json:"found"`
}

func (s *Server) getPiconURL(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	url, found, err := s.rx.PiconURL(ctx,
		req.GetString("channel", ""),
		req.GetString("service_ref", ""))
	if err != nil {
		return nil, err
	}
	return piconResult{URL: url, Found: found}, nil
}
