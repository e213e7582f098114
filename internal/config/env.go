// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/e2ctl/internal/log"
	"github.com/rs/zerolog"
)

// ParseString returns the value of key, or defaultValue when it is unset or empty.
func ParseString(key, defaultValue string) string {
	return parseStringWithLogger(log.WithComponent("config"), key, defaultValue)
}

func parseStringWithLogger(logger zerolog.Logger, key, defaultValue string) string {
	return readEnv(logger, key, defaultValue, "string", func(s string) (string, error) { return s, nil })
}

// ParseInt reads an integer; invalid values fall back to defaultValue.
func ParseInt(key string, defaultValue int) int {
	return readEnv(log.WithComponent("config"), key, defaultValue, "integer", strconv.Atoi)
}

// ParseDuration reads a Go duration such as "5s". A bare number is invalid.
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	return readEnv(log.WithComponent("config"), key, defaultValue, "duration", time.ParseDuration)
}

// ParseBool accepts true/false, 1/0 and yes/no in any case.
func ParseBool(key string, defaultValue bool) bool {
	return readEnv(log.WithComponent("config"), key, defaultValue, "boolean", parseBool)
}

// ParseFloat reads a float64; invalid values fall back to defaultValue.
func ParseFloat(key string, defaultValue float64) float64 {
	return readEnv(log.WithComponent("config"), key, defaultValue, "float", func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", s)
}

// readEnv looks up key and converts it with parse. Unset, empty and
// unparsable values yield def. Every decision is logged; secrets never are.
func readEnv[T any](logger zerolog.Logger, key string, def T, kind string, parse func(string) (T, error)) T {
	sensitive := isSensitiveEnvKey(key)

	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		evt := logger.Debug().Str("key", key).Str("source", "default")
		if !sensitive {
			evt = evt.Interface("default", def)
		}
		if ok {
			evt.Msg("using default value (environment variable is empty)")
		} else {
			evt.Msg("using default value")
		}
		return def
	}

	value, err := parse(raw)
	if err != nil {
		evt := logger.Warn().Str("key", key)
		if !sensitive {
			evt = evt.Str("value", displayEnvValue(key, raw)).Interface("default", def)
		}
		evt.Msgf("invalid %s in environment variable, using default", kind)
		return def
	}

	evt := logger.Debug().Str("key", key).Str("source", "environment")
	if sensitive {
		evt = evt.Bool("sensitive", true)
	} else {
		evt = evt.Str("value", displayEnvValue(key, raw))
	}
	evt.Msg("using environment variable")
	return value
}

func isSensitiveEnvKey(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "token") || strings.Contains(k, "password")
}

// displayEnvValue masks credentials embedded in URL-valued variables.
func displayEnvValue(key, raw string) string {
	if strings.HasSuffix(strings.ToLower(key), "_url") {
		return MaskURL(raw)
	}
	return raw
}
