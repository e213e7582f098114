// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package openwebif

import (
	"context"
	"errors"
	"net/http"

	"github.com/ManuGH/e2ctl/internal/picon"
	platformnet "github.com/ManuGH/e2ctl/internal/platform/net"
)

// PiconURL resolves and verifies the picon of channelName. Empty arguments
// are taken from the current status. found is false when the receiver has
// no picon; err reports transport and authentication failures.
func (c *Client) PiconURL(ctx context.Context, channelName, serviceRef string) (string, bool, error) {
	return c.picons.Resolve(ctx, channelName, serviceRef)
}

// PiconCache exposes the URLs confirmed so far.
func (c *Client) PiconCache() picon.Cache {
	return c.picons.Cache()
}

// PiconExists sends a HEAD request for target. Only 200 counts as present;
// 401 and 403 are authentication errors, other statuses mean absent.
func (c *Client) PiconExists(ctx context.Context, target string) (bool, error) {
	if _, ok := platformnet.ParseDirectHTTPURL(target); !ok {
		return false, argumentError("picon_head", "not an http(s) url: %s", platformnet.SanitizeURL(target))
	}

	exists := false
	err := c.do(ctx, "picon_head", http.MethodHead, target, func(resp *http.Response) error {
		switch resp.StatusCode {
		case http.StatusOK:
			exists = true
			return nil
		case http.StatusUnauthorized, http.StatusForbidden:
			return wrapError("picon_head", nil, resp.StatusCode, nil)
		default:
			return nil
		}
	})
	if err != nil {
		return false, err
	}
	return exists, nil
}

// FetchPicon downloads the image at target.
func (c *Client) FetchPicon(ctx context.Context, target string) ([]byte, error) {
	if _, ok := platformnet.ParseDirectHTTPURL(target); !ok {
		return nil, argumentError("picon_get", "not an http(s) url: %s", platformnet.SanitizeURL(target))
	}
	body, err := c.get(ctx, "picon_get", target, maxImageBody)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, decodeError("picon_get", errors.New("empty image"))
	}
	return body, nil
}

// piconSource adapts the client to the resolver's collaborators.
type piconSource struct {
	c *Client
}

func (s piconSource) CurrentService(ctx context.Context) (string, string, error) {
	st, err := s.c.Status(ctx)
	if err != nil {
		return "", "", err
	}
	return st.CurrentStation, st.CurrentServiceRef, nil
}

func (s piconSource) Exists(ctx context.Context, url string) (bool, error) {
	return s.c.PiconExists(ctx, url)
}
