// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package openwebif

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/ManuGH/e2ctl/internal/log"
)

const (
	pathPowerState    = "/api/powerstate"
	pathVolume        = "/api/vol"
	pathRemoteControl = "/api/remotecontrol"
)

// Remote control key codes.
const (
	KeyChannelUp       = 402
	KeyChannelDown     = 403
	KeyPlayPauseToggle = 207
)

// ParseRemoteKey accepts a key name (up, down, playpause) or a numeric
// key code.
func ParseRemoteKey(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "channelup":
		return KeyChannelUp, nil
	case "down", "channeldown":
		return KeyChannelDown, nil
	case "playpause", "play", "pause":
		return KeyPlayPauseToggle, nil
	}
	code, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || code <= 0 {
		return 0, argumentError("remotecontrol", "unknown remote key %q", s)
	}
	return code, nil
}

// commandResponse is the common envelope of command endpoints.
type commandResponse struct {
	Result  FlexBool `json:"result"`
	Message string   `json:"message"`
}

// command sends a rate-limited command and reports the receiver's result flag.
func (c *Client) command(ctx context.Context, operation, path string, query url.Values) (bool, error) {
	if err := c.waitCommand(ctx, operation); err != nil {
		return false, err
	}
	var resp commandResponse
	if err := c.getJSON(ctx, operation, c.endpoint(path, query), &resp); err != nil {
		return false, err
	}
	if !resp.Result {
		logger := log.WithContext(ctx, c.log)
		logger.Info().
			Str(log.FieldOperation, operation).
			Str("message", resp.Message).
			Msg("receiver rejected command")
	}
	return bool(resp.Result), nil
}

// ToggleStandby flips the receiver between standby and on, then refreshes
// the cached standby flag.
func (c *Client) ToggleStandby(ctx context.Context) (bool, error) {
	ok, err := c.command(ctx, "powerstate", pathPowerState, url.Values{"newstate": {"0"}})
	if err != nil {
		return false, err
	}
	if _, err := c.Status(ctx); err != nil {
		return ok, err
	}
	return ok, nil
}

// SetVolume sets the absolute volume (0-100).
func (c *Client) SetVolume(ctx context.Context, volume int) (bool, error) {
	if volume < 0 || volume > 100 {
		return false, argumentError("set_volume", "volume %d out of range 0-100", volume)
	}
	return c.command(ctx, "set_volume", pathVolume, url.Values{"set": {"set" + strconv.Itoa(volume)}})
}

// VolumeUp raises the volume one step.
func (c *Client) VolumeUp(ctx context.Context) (bool, error) {
	return c.command(ctx, "volume_up", pathVolume, url.Values{"set": {"up"}})
}

// VolumeDown lowers the volume one step.
func (c *Client) VolumeDown(ctx context.Context) (bool, error) {
	return c.command(ctx, "volume_down", pathVolume, url.Values{"set": {"down"}})
}

// ToggleMute mutes or unmutes.
func (c *Client) ToggleMute(ctx context.Context) (bool, error) {
	return c.command(ctx, "toggle_mute", pathVolume, url.Values{"set": {"mute"}})
}

// RemoteControl sends a key press by its Enigma2 key code.
func (c *Client) RemoteControl(ctx context.Context, code int) (bool, error) {
	if code <= 0 {
		return false, argumentError("remote_control", "invalid key code %d", code)
	}
	return c.command(ctx, "remote_control", pathRemoteControl, url.Values{"command": {strconv.Itoa(code)}})
}

func (c *Client) ChannelUp(ctx context.Context) (bool, error) {
	return c.RemoteControl(ctx, KeyChannelUp)
}

func (c *Client) ChannelDown(ctx context.Context) (bool, error) {
	return c.RemoteControl(ctx, KeyChannelDown)
}

func (c *Client) TogglePlayPause(ctx context.Context) (bool, error) {
	return c.RemoteControl(ctx, KeyPlayPauseToggle)
}
