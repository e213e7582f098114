// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ManuGH/e2ctl/internal/openwebif"
	"github.com/ManuGH/e2ctl/internal/version"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show what the receiver is playing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.receiver()
			if err != nil {
				return err
			}
			st, err := c.Status(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.flags.json {
				return writeJSON(out, st)
			}
			return table(out, statusRows(st))
		},
	}
}

func statusRows(st openwebif.StatusInfo) [][]string {
	rows := [][]string{
		{"Standby:", onOff(st.InStandby)},
		{"Recording:", onOff(st.IsRecording)},
		{"Volume:", strconv.Itoa(st.Volume) + muteSuffix(st.Muted)},
	}
	if st.CurrentStation != "" {
		rows = append(rows,
			[]string{"Channel:", st.CurrentStation},
			[]string{"Service:", st.CurrentServiceRef},
		)
	}
	if st.CurrentName != "" {
		rows = append(rows, []string{"Programme:", fmt.Sprintf("%s (%s - %s)", st.CurrentName, st.CurrentBegin, st.CurrentEnd)})
	}
	return rows
}

func muteSuffix(muted bool) string {
	if muted {
		return " (muted)"
	}
	return ""
}

func newAboutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "about",
		Short: "Describe the receiver hardware and image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.receiver()
			if err != nil {
				return err
			}

			var (
				about openwebif.About
				st    openwebif.StatusInfo
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				about, err = c.About(ctx)
				return err
			})
			g.Go(func() error {
				var err error
				st, err = c.Status(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.flags.json {
				return writeJSON(out, struct {
					About  openwebif.About      `json:"about"`
					Status openwebif.StatusInfo `json:"status"`
				}{about, st})
			}

			rows := [][]string{
				{"Receiver:", strings.TrimSpace(about.Brand + " " + about.Model)},
				{"Box type:", about.BoxType},
				{"Image:", strings.TrimSpace(about.ImageDistro + " " + about.ImageVersion)},
				{"OpenWebif:", about.WebIfVersion},
				{"Kernel:", about.KernelVersion},
				{"Uptime:", about.Uptime},
			}
			for _, t := range about.Tuners {
				rows = append(rows, []string{"Tuner:", t.Name + ": " + t.Type})
			}
			rows = append(rows, statusRows(st)...)
			return table(out, rows)
		},
	}
}

func newVersionCmd(a *app) *cobra.Command {
	var device bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the e2ctl version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if !device {
				_, err := fmt.Fprintln(out, "e2ctl", version.String())
				return err
			}
			c, err := a.receiver()
			if err != nil {
				return err
			}
			v, err := c.WebIfVersion(cmd.Context())
			if err != nil {
				return err
			}
			if a.flags.json {
				return writeJSON(out, map[string]string{"e2ctl": version.Version, "openwebif": v})
			}
			_, err = fmt.Fprintln(out, v)
			return err
		},
	}
	cmd.Flags().BoolVar(&device, "device", false, "print the receiver's OpenWebif version")
	return cmd
}
