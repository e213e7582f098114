// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package net

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/idna"
)

// SanitizeURL removes user info and query parameters for safe logging.
func SanitizeURL(rawURL string) string {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "invalid-url-redacted"
	}
	parsedURL.User = nil
	parsedURL.RawQuery = ""
	return parsedURL.String()
}

// ParseDirectHTTPURL validates if a string is a safe, direct HTTP/HTTPS URL.
// It enforces:
//   - Scheme must be "http" or "https"
//   - Host must be non-empty
//   - No embedded User/Password credentials
func ParseDirectHTTPURL(s string) (*url.URL, bool) {
	s = strings.TrimSpace(s)
	u, err := url.Parse(s)
	if err != nil {
		return nil, false
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, false
	}
	if u.Host == "" {
		return nil, false
	}
	if u.User != nil {
		return nil, false
	}
	if u.Fragment != "" {
		return nil, false
	}

	return u, true
}

// NormalizeBaseURL validates a receiver base URL of the form
// http(s)://host[:port] and returns it without trailing slash.
func NormalizeBaseURL(raw string) (string, error) {
	u, ok := ParseDirectHTTPURL(raw)
	if !ok {
		return "", fmt.Errorf("invalid base url %q: want http(s)://host[:port] without credentials", SanitizeURL(raw))
	}
	if u.RawQuery != "" {
		return "", fmt.Errorf("invalid base url %q: query not allowed", SanitizeURL(raw))
	}
	u.Scheme = strings.ToLower(u.Scheme)
	return strings.TrimRight(u.String(), "/"), nil
}

// NormalizeHost validates a bare host (no scheme, path, port or userinfo)
// and returns its lowercase ASCII form. Internationalized names are
// converted to punycode; IPv6 literals lose their brackets.
func NormalizeHost(raw string) (string, error) {
	host := strings.TrimSpace(raw)
	if host == "" {
		return "", fmt.Errorf("host is empty")
	}
	if strings.Contains(host, "://") {
		return "", fmt.Errorf("host must not include scheme: %s", raw)
	}
	if strings.Contains(host, "/") {
		return "", fmt.Errorf("host must not include path: %s", raw)
	}
	if strings.Contains(host, "@") {
		return "", fmt.Errorf("host must not include userinfo: %s", raw)
	}
	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	}
	if strings.Contains(host, ":") && net.ParseIP(host) == nil {
		return "", fmt.Errorf("host must not include port: %s", raw)
	}
	host = strings.TrimSuffix(host, ".")
	if host == "" {
		return "", fmt.Errorf("host is empty")
	}
	if ip := net.ParseIP(host); ip != nil {
		return strings.ToLower(ip.String()), nil
	}
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", fmt.Errorf("invalid host %q: %w", raw, err)
	}
	return strings.ToLower(ascii), nil
}

// BuildBaseURL assembles http(s)://host[:port]. A zero port is omitted.
func BuildBaseURL(host string, port int, https bool) (string, error) {
	h, err := NormalizeHost(host)
	if err != nil {
		return "", err
	}
	if port < 0 || port > 65535 {
		return "", fmt.Errorf("port out of range: %d", port)
	}

	scheme := "http"
	if https {
		scheme = "https"
	}

	authority := h
	if port > 0 {
		authority = net.JoinHostPort(h, strconv.Itoa(port))
	} else if strings.Contains(h, ":") {
		authority = "[" + h + "]"
	}
	return scheme + "://" + authority, nil
}
