// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package openwebif

import (
	"context"
)

const pathStatusInfo = "/api/statusinfo"

// StatusInfo is the receiver's view of what is currently playing.
type StatusInfo struct {
	InStandby              bool   `json:"in_standby"`
	IsRecording            bool   `json:"is_recording"`
	Muted                  bool   `json:"muted"`
	Volume                 int    `json:"volume"`
	Transcoding            bool   `json:"transcoding"`
	CurrentStation         string `json:"current_station,omitempty"`
	CurrentServiceRef      string `json:"current_service_ref,omitempty"`
	CurrentName            string `json:"current_name,omitempty"`
	CurrentDescription     string `json:"current_description,omitempty"`
	CurrentFullDescription string `json:"current_full_description,omitempty"`
	CurrentBegin           string `json:"current_begin,omitempty"`
	CurrentEnd             string `json:"current_end,omitempty"`
	CurrentFilename        string `json:"current_filename,omitempty"`
}

// statusResponse matches /api/statusinfo. Field names are defined by the
// firmware and are case-sensitive.
type statusResponse struct {
	InStandby              FlexBool `json:"inStandby"`
	IsRecording            FlexBool `json:"isRecording"`
	Muted                  FlexBool `json:"muted"`
	Volume                 FlexInt  `json:"volume"`
	Transcoding            FlexBool `json:"transcoding"`
	CurrentStation         string   `json:"currservice_station"`
	CurrentServiceRef      string   `json:"currservice_serviceref"`
	CurrentName            string   `json:"currservice_name"`
	CurrentDescription     string   `json:"currservice_description"`
	CurrentFullDescription string   `json:"currservice_fulldescription"`
	CurrentBegin           string   `json:"currservice_begin"`
	CurrentEnd             string   `json:"currservice_end"`
	CurrentFilename        string   `json:"currservice_filename"`
}

func (r statusResponse) toStatus() StatusInfo {
	return StatusInfo{
		InStandby:              bool(r.InStandby),
		IsRecording:            bool(r.IsRecording),
		Muted:                  bool(r.Muted),
		Volume:                 int(r.Volume),
		Transcoding:            bool(r.Transcoding),
		CurrentStation:         r.CurrentStation,
		CurrentServiceRef:      r.CurrentServiceRef,
		CurrentName:            r.CurrentName,
		CurrentDescription:     r.CurrentDescription,
		CurrentFullDescription: r.CurrentFullDescription,
		CurrentBegin:           r.CurrentBegin,
		CurrentEnd:             r.CurrentEnd,
		CurrentFilename:        r.CurrentFilename,
	}
}

// Status fetches /api/statusinfo and updates the cached standby flag.
// Concurrent callers share one in-flight request. The shared request is
// detached from the first caller's cancellation and bounded by the client
// timeout; each caller stops waiting when its own ctx ends.
func (c *Client) Status(ctx context.Context) (StatusInfo, error) {
	ch := c.statusGroup.DoChan("statusinfo", func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		var resp statusResponse
		if err := c.getJSON(fetchCtx, "statusinfo", c.endpoint(pathStatusInfo, nil), &resp); err != nil {
			return StatusInfo{}, err
		}
		st := resp.toStatus()
		c.standby.Store(st.InStandby)
		c.statusSeen.Store(true)
		return st, nil
	})

	select {
	case <-ctx.Done():
		return StatusInfo{}, &OWIError{Sentinel: ErrTimeout, Operation: "statusinfo", Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return StatusInfo{}, res.Err
		}
		return res.Val.(StatusInfo), nil
	}
}

// InStandby returns the standby flag from the last successful Status call.
// It is true until the first status has been seen.
func (c *Client) InStandby() bool {
	return c.standby.Load()
}

// Ping checks that the receiver answers with a valid status.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Status(ctx)
	return err
}
