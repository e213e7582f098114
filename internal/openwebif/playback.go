// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package openwebif

import (
	"context"
	"strings"

	"github.com/ManuGH/e2ctl/internal/picon"
)

// PlaybackType classifies what the receiver is showing.
type PlaybackType int

const (
	PlaybackNone PlaybackType = iota
	PlaybackLive
	PlaybackRecording
)

func (p PlaybackType) String() string {
	switch p {
	case PlaybackLive:
		return "live"
	case PlaybackRecording:
		return "recording"
	default:
		return "none"
	}
}

// CurrentPlaybackType classifies serviceRef, or the current service when
// serviceRef is empty.
func (c *Client) CurrentPlaybackType(ctx context.Context, serviceRef string) (PlaybackType, error) {
	if serviceRef == "" {
		if c.statusSeen.Load() && c.InStandby() {
			return PlaybackNone, nil
		}
		st, err := c.Status(ctx)
		if err != nil {
			return PlaybackNone, err
		}
		if st.InStandby || st.CurrentServiceRef == "" {
			return PlaybackNone, nil
		}
		serviceRef = st.CurrentServiceRef
	}

	if strings.HasPrefix(serviceRef, picon.RecordingPrefix) {
		return PlaybackRecording, nil
	}
	return PlaybackLive, nil
}
