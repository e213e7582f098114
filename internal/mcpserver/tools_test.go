// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ManuGH/e2ctl/internal/log"
	"github.com/ManuGH/e2ctl/internal/openwebif"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCallToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func extractText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "content[0] is %T, want mcp.TextContent", result.Content[0])
	return tc.Text
}

func findHandler(t *testing.T, s *Server, name string) server.ToolHandlerFunc {
	t.Helper()
	for _, tool := range s.Tools() {
		if tool.Tool.Name == name {
			return tool.Handler
		}
	}
	t.Fatalf("tool %q not registered", name)
	return nil
}

func call(t *testing.T, s *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := findHandler(t, s, name)(context.Background(), newCallToolRequest(name, args))
	require.NoError(t, err, "tool errors must not surface as protocol errors")
	return result
}

func newMockServer(t *testing.T) (*Server, *openwebif.MockServer) {
	t.Helper()
	mock := openwebif.NewMockServer()
	t.Cleanup(mock.Close)
	c, err := openwebif.New(openwebif.Options{URL: mock.URL})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return New(c, "test"), mock
}

func TestTools_Registration(t *testing.T) {
	s, _ := newMockServer(t)

	var names []string
	for _, tool := range s.Tools() {
		names = append(names, tool.Tool.Name)
		assert.NotNil(t, tool.Handler, tool.Tool.Name)
		assert.NotEmpty(t, tool.Tool.Description, tool.Tool.Name)
	}
	assert.ElementsMatch(t, []string{
		ToolGetStatus, ToolGetAbout, ToolToggleStandby, ToolSetVolume,
		ToolRemoteControl, ToolListBouquets, ToolSearchEPG, ToolGetPiconURL,
	}, names)
}

func TestGetStatus(t *testing.T) {
	s, _ := newMockServer(t)

	result := call(t, s, ToolGetStatus, nil)
	assert.False(t, result.IsError)

	var st openwebif.StatusInfo
	require.NoError(t, json.Unmarshal([]byte(extractText(t, result)), &st))
	assert.Equal(t, "ITV2", st.CurrentStation)
	assert.Equal(t, 52, st.Volume)
}

func TestGetAbout(t *testing.T) {
	s, _ := newMockServer(t)

	result := call(t, s, ToolGetAbout, nil)
	assert.False(t, result.IsError)
	assert.Contains(t, extractText(t, result), `"box_type": "mocker1"`)
}

func TestSetVolume(t *testing.T) {
	s, mock := newMockServer(t)

	result := call(t, s, ToolSetVolume, map[string]any{"volume": 30})
	assert.False(t, result.IsError)
	assert.JSONEq(t, `{"result": true}`, extractText(t, result))
	assert.Equal(t, 1, mock.Requests("/api/vol"))

	result = call(t, s, ToolSetVolume, map[string]any{"volume": 130})
	assert.True(t, result.IsError)

	result = call(t, s, ToolSetVolume, map[string]any{"volume": 12.5})
	assert.True(t, result.IsError)

	result = call(t, s, ToolSetVolume, map[string]any{})
	assert.True(t, result.IsError, "missing required argument")
	assert.Equal(t, 1, mock.Requests("/api/vol"))
}

func TestRemoteControl(t *testing.T) {
	s, mock := newMockServer(t)

	assert.False(t, call(t, s, ToolRemoteControl, map[string]any{"key": "up"}).IsError)
	assert.False(t, call(t, s, ToolRemoteControl, map[string]any{"key": "116"}).IsError)
	assert.True(t, call(t, s, ToolRemoteControl, map[string]any{"key": "teleport"}).IsError)
	assert.Equal(t, []int{openwebif.KeyChannelUp, 116}, mock.RemoteCommands())
}

func TestToggleStandby(t *testing.T) {
	s, mock := newMockServer(t)

	result := call(t, s, ToolToggleStandby, nil)
	assert.False(t, result.IsError)
	assert.Equal(t, 1, mock.Requests("/api/powerstate"))
}

func TestListBouquets(t *testing.T) {
	s, _ := newMockServer(t)

	var all []openwebif.Bouquet
	require.NoError(t, json.Unmarshal([]byte(extractText(t, call(t, s, ToolListBouquets, nil))), &all))
	assert.Len(t, all, 2)

	var one []openwebif.Bouquet
	result := call(t, s, ToolListBouquets, map[string]any{"bouquet": "children"})
	require.NoError(t, json.Unmarshal([]byte(extractText(t, result)), &one))
	require.Len(t, one, 1)
	assert.Equal(t, "Children", one[0].Name)

	assert.True(t, call(t, s, ToolListBouquets, map[string]any{"bouquet": "Radio"}).IsError)
}

func TestSearchEPG(t *testing.T) {
	s, _ := newMockServer(t)

	result := call(t, s, ToolSearchEPG, map[string]any{"query": "away"})
	assert.False(t, result.IsError)
	assert.Contains(t, extractText(t, result), "Home and Away")

	assert.True(t, call(t, s, ToolSearchEPG, map[string]any{"query": "  "}).IsError)
}

func TestGetPiconURL(t *testing.T) {
	s, mock := newMockServer(t)

	var got piconResult
	require.NoError(t, json.Unmarshal([]byte(extractText(t, call(t, s, ToolGetPiconURL, nil))), &got))
	assert.True(t, got.Found)
	assert.Equal(t, mock.URL+"/picon/itv2.png", got.URL)

	result := call(t, s, ToolGetPiconURL, map[string]any{
		"channel":     "Nowhere TV",
		"service_ref": "1:0:1:0:0:0:0:0:0:0:",
	})
	assert.False(t, result.IsError)
	assert.JSONEq(t, `{"found": false}`, extractText(t, result))
}

type failingReceiver struct {
	Receiver
	err error
}

func (f failingReceiver) Status(context.Context) (openwebif.StatusInfo, error) {
	return openwebif.StatusInfo{}, f.err
}

func TestToolErrorIsResult(t *testing.T) {
	s := New(failingReceiver{err: errors.New("receiver unreachable")}, "test")

	result := call(t, s, ToolGetStatus, nil)
	assert.True(t, result.IsError)
	assert.Contains(t, extractText(t, result), "receiver unreachable")
}

func TestRequestIDPerCall(t *testing.T) {
	s, mock := newMockServer(t)

	call(t, s, ToolGetStatus, nil)
	call(t, s, ToolGetAbout, nil)

	ids := mock.RequestIDs()
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])
}

func TestHandleMessage_ListsTools(t *testing.T) {
	s, _ := newMockServer(t)
	ctx := context.Background()

	s.MCP().HandleMessage(ctx, json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`))
	resp := s.MCP().HandleMessage(ctx, json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`))

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	for _, name := range []string{ToolGetStatus, ToolGetPiconURL, ToolSearchEPG} {
		assert.Contains(t, string(data), `"`+name+`"`)
	}
}

type ctxReceiver struct {
	Receiver
	ctxs []context.Context
}

func (r *ctxReceiver) Status(ctx context.Context) (openwebif.StatusInfo, error) {
	r.ctxs = append(r.ctxs, ctx)
	return openwebif.StatusInfo{}, nil
}

func TestToolCallsShareSessionCorrelationID(t *testing.T) {
	rx := &ctxReceiver{}
	s := New(rx, "test")
	require.NotEmpty(t, s.Session())

	call(t, s, ToolGetStatus, nil)
	call(t, s, ToolGetStatus, nil)

	require.Len(t, rx.ctxs, 2)
	for _, ctx := range rx.ctxs {
		assert.Equal(t, s.Session(), log.CorrelationIDFromContext(ctx))
	}
	assert.NotEqual(t,
		log.RequestIDFromContext(rx.ctxs[0]),
		log.RequestIDFromContext(rx.ctxs[1]))

	other := New(rx, "test")
	assert.NotEqual(t, s.Session(), other.Session())
}
