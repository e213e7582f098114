// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/ManuGH/e2ctl/internal/config"
	"github.com/ManuGH/e2ctl/internal/log"
	"github.com/ManuGH/e2ctl/internal/openwebif"
	"github.com/ManuGH/e2ctl/internal/telemetry"
	"github.com/ManuGH/e2ctl/internal/version"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	url        string
	host       string
	port       int
	https      bool
	username   string
	password   string
	logLevel   string
	json       bool
}

// app carries the state a command run needs.
type app struct {
	flags     globalFlags
	cfg       config.AppConfig
	log       zerolog.Logger
	client    *openwebif.Client
	telemetry *telemetry.Provider
}

// execute runs root and releases the client and the telemetry provider
// whether or not the command succeeded.
func execute(ctx context.Context, root *cobra.Command, a *app) error {
	err := root.ExecuteContext(ctx)
	a.teardown(ctx)
	return err
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{log: log.WithComponent("cli")}

	root := &cobra.Command{
		Use:           "e2ctl",
		Short:         "Control an Enigma2 receiver over OpenWebif",
		Long:          "e2ctl queries and controls Enigma2 set-top boxes through the OpenWebif HTTP API.",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "path to config file (YAML)")
	pf.StringVar(&a.flags.url, "url", "", "receiver base URL, e.g. http://192.168.1.10")
	pf.StringVar(&a.flags.host, "host", "", "receiver host name or IP")
	pf.IntVar(&a.flags.port, "port", 0, "receiver port")
	pf.BoolVar(&a.flags.https, "https", false, "use HTTPS")
	pf.StringVar(&a.flags.username, "username", "", "OpenWebif username")
	pf.StringVar(&a.flags.password, "password", "", "OpenWebif password")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	pf.BoolVar(&a.flags.json, "json", false, "print JSON instead of text")

	root.AddCommand(
		newStatusCmd(a),
		newAboutCmd(a),
		newVersionCmd(a),
		newStandbyCmd(a),
		newVolumeCmd(a),
		newRCCmd(a),
		newBouquetsCmd(a),
		newServicesCmd(a),
		newEPGCmd(a),
		newPiconCmd(a),
		newMCPCmd(a),
	)
	return root, a
}

// setup loads configuration, applies flag overrides and tags the command
// context with a request id.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.NewLoader(a.flags.configPath, version.Version).Load()
	if err != nil {
		return err
	}
	a.applyFlags(cmd, &cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	a.cfg = cfg

	log.Reconfigure(cfg.LogConfig(cmd.ErrOrStderr()))

	ctx := log.ContextWithRequestID(cmd.Context(), uuid.NewString())
	cmd.SetContext(ctx)
	a.log = log.WithContext(ctx, log.Derive(func(c *zerolog.Context) {
		*c = c.Str(log.FieldComponent, "cli").Str("command", cmd.CommandPath())
	}))

	a.telemetry, err = telemetry.NewProvider(ctx, cfg.TelemetryConfig())
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	return nil
}

func (a *app) applyFlags(cmd *cobra.Command, cfg *config.AppConfig) {
	pf := cmd.Flags()
	if pf.Changed("url") {
		cfg.Receiver.URL = a.flags.url
	}
	if pf.Changed("host") {
		cfg.Receiver.Host = a.flags.host
	}
	if pf.Changed("port") {
		cfg.Receiver.Port = a.flags.port
	}
	if pf.Changed("https") {
		cfg.Receiver.HTTPS = a.flags.https
	}
	if pf.Changed("username") {
		cfg.Receiver.Username = a.flags.username
	}
	if pf.Changed("password") {
		cfg.Receiver.Password = a.flags.password
	}
	if pf.Changed("log-level") {
		cfg.LogLevel = a.flags.logLevel
	}
}

// receiver builds the client on first use.
func (a *app) receiver() (*openwebif.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	opts := a.cfg.ClientOptions()
	logger := log.WithComponent("openwebif")
	opts.Logger = &logger

	c, err := openwebif.New(opts)
	if err != nil {
		if errors.Is(err, openwebif.ErrMissingParam) {
			return nil, fmt.Errorf("%w (set --url, --host, E2_URL or E2_HOST)", err)
		}
		return nil, err
	}
	a.client = c
	return c, nil
}

func (a *app) teardown(ctx context.Context) {
	if a.client != nil {
		a.client.Close()
		a.client = nil
	}
	if a.telemetry != nil {
		if err := a.telemetry.Shutdown(context.WithoutCancel(ctx)); err != nil {
			a.log.Warn().Err(err).Msg("telemetry shutdown failed")
		}
		a.telemetry = nil
	}
}
