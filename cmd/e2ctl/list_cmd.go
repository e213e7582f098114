// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newBouquetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bouquets",
		Short: "List bouquets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.receiver()
			if err != nil {
				return err
			}
			bouquets, err := c.Bouquets(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.flags.json {
				return writeJSON(out, bouquets)
			}
			rows := make([][]string, 0, len(bouquets))
			for _, b := range bouquets {
				rows = append(rows, []string{b.Name, strconv.Itoa(len(b.Services)) + " channels"})
			}
			return table(out, rows)
		},
	}
}

func newServicesCmd(a *app) *cobra.Command {
	var bouquet string
	cmd := &cobra.Command{
		Use:   "services",
		Short: "List channels, optionally of one bouquet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.receiver()
			if err != nil {
				return err
			}
			services, err := c.Services(cmd.Context(), bouquet)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.flags.json {
				return writeJSON(out, services)
			}
			rows := make([][]string, 0, len(services))
			for _, s := range services {
				rows = append(rows, []string{s.Name, s.Ref})
			}
			return table(out, rows)
		},
	}
	cmd.Flags().StringVar(&bouquet, "bouquet", "", "bouquet name")
	return cmd
}

func newEPGCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "epg QUERY",
		Short: "Search the programme guide",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.receiver()
			if err != nil {
				return err
			}
			events, err := c.SearchEPG(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.flags.json {
				return writeJSON(out, events)
			}
			rows := make([][]string, 0, len(events))
			for _, e := range events {
				rows = append(rows, []string{
					e.Start().Local().Format("Mon 02 Jan 15:04"),
					(time.Duration(e.DurationSec) * time.Second).String(),
					e.ServiceName,
					e.Title,
				})
			}
			return table(out, rows)
		},
	}
}
