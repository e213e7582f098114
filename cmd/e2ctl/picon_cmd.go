// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"errors"
	"fmt"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"
)

var errNoPicon = errors.New("no picon found")

func newPiconCmd(a *app) *cobra.Command {
	var channel, sref, output string
	cmd := &cobra.Command{
		Use:   "picon",
		Short: "Find the channel logo, by default for the current channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.receiver()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			url, found, err := c.PiconURL(ctx, channel, sref)
			if err != nil {
				return err
			}
			if !found {
				return errNoPicon
			}

			if output != "" {
				data, err := c.FetchPicon(ctx, url)
				if err != nil {
					return err
				}
				if err := renameio.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				a.log.Info().Str("path", output).Int("bytes", len(data)).Msg("picon saved")
			}

			out := cmd.OutOrStdout()
			if a.flags.json {
				return writeJSON(out, map[string]any{"url": url, "found": true, "output": output})
			}
			_, err = fmt.Fprintln(out, url)
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&channel, "channel", "", "channel name (default: current channel)")
	f.StringVar(&sref, "sref", "", "service reference")
	f.StringVarP(&output, "output", "o", "", "download the picon to this file")
	return cmd
}
