// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ManuGH/e2ctl/internal/openwebif"
	"github.com/spf13/cobra"
)

// errRejected reports a command the receiver answered with result=false.
var errRejected = errors.New("receiver rejected the command")

func checkResult(ok bool, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		return errRejected
	}
	return nil
}

func newStandbyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "standby",
		Short: "Toggle standby",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.receiver()
			if err != nil {
				return err
			}
			if err := checkResult(c.ToggleStandby(cmd.Context())); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "standby:", onOff(c.InStandby()))
			return err
		},
	}
}

func newVolumeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "volume set N | up | down | mute",
		Short:     "Change the volume",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{"set", "up", "down", "mute"},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.receiver()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var op func(context.Context) (bool, error)
			switch args[0] {
			case "set":
				if len(args) != 2 {
					return errors.New("usage: volume set N")
				}
				level, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("volume must be a number: %q", args[1])
				}
				op = func(ctx context.Context) (bool, error) { return c.SetVolume(ctx, level) }
			case "up":
				op = c.VolumeUp
			case "down":
				op = c.VolumeDown
			case "mute":
				op = c.ToggleMute
			default:
				return fmt.Errorf("unknown volume action %q", args[0])
			}
			if len(args) > 1 && args[0] != "set" {
				return fmt.Errorf("volume %s takes no value", args[0])
			}

			if err := checkResult(op(ctx)); err != nil {
				return err
			}
			st, err := c.Status(ctx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "volume: %d%s\n", st.Volume, muteSuffix(st.Muted))
			return err
		},
	}
}

func newRCCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rc up | down | playpause | CODE",
		Short: "Send a remote control key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := openwebif.ParseRemoteKey(args[0])
			if err != nil {
				return err
			}
			c, err := a.receiver()
			if err != nil {
				return err
			}
			return checkResult(c.RemoteControl(cmd.Context(), code))
		},
	}
}
