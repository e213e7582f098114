// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config loads e2ctl settings with the precedence
// environment > YAML file > defaults.
//
// Files:
//   - types.go: AppConfig and the strict FileConfig mirror
//   - loader.go: Loader, defaults and strict YAML parsing
//   - merge_file.go / merge_env.go: the two override layers
//   - env.go: logged E2_* environment parsing
//   - validation.go: final validation
//   - options.go: mapping to client, logging and telemetry settings
package config
