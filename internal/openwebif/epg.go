// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package openwebif

import (
	"context"
	"net/url"
	"strings"
	"time"
)

const pathEPGSearch = "/api/epgsearch"

// EPGEvent is one programme guide entry.
type EPGEvent struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ShortDesc   string `json:"short_desc,omitempty"`
	LongDesc    string `json:"long_desc,omitempty"`
	ServiceName string `json:"service_name"`
	ServiceRef  string `json:"service_ref"`
	Begin       int64  `json:"begin_timestamp"`
	DurationSec int64  `json:"duration_sec"`
}

// Start returns the event start time.
func (e EPGEvent) Start() time.Time {
	return time.Unix(e.Begin, 0)
}

// End returns the event end time.
func (e EPGEvent) End() time.Time {
	return e.Start().Add(time.Duration(e.DurationSec) * time.Second)
}

type epgSearchResponse struct {
	Events []struct {
		ID          FlexInt `json:"id"`
		Title       string  `json:"title"`
		ShortDesc   string  `json:"shortdesc"`
		LongDesc    string  `json:"longdesc"`
		ServiceName string  `json:"sname"`
		ServiceRef  string  `json:"sref"`
		Begin       FlexInt `json:"begin_timestamp"`
		DurationSec FlexInt `json:"duration_sec"`
	} `json:"events"`
	Result FlexBool `json:"result"`
}

// SearchEPG searches event titles on the receiver.
func (c *Client) SearchEPG(ctx context.Context, query string) ([]EPGEvent, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, argumentError("epgsearch", "search query is empty")
	}

	// The receiver expects %20 rather than + for spaces.
	target := c.base + pathEPGSearch + "?search=" + strings.ReplaceAll(url.QueryEscape(query), "+", "%20")

	var resp epgSearchResponse
	if err := c.getJSON(ctx, "epgsearch", target, &resp); err != nil {
		return nil, err
	}

	out := make([]EPGEvent, 0, len(resp.Events))
	for _, e := range resp.Events {
		out = append(out, EPGEvent{
			ID:          int64(e.ID),
			Title:       e.Title,
			ShortDesc:   e.ShortDesc,
			LongDesc:    e.LongDesc,
			ServiceName: e.ServiceName,
			ServiceRef:  e.ServiceRef,
			Begin:       int64(e.Begin),
			DurationSec: int64(e.DurationSec),
		})
	}
	return out, nil
}
