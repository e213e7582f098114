// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package openwebif

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	pathAbout    = "/api/about"
	pathWebAbout = "/web/about"
)

// Tuner describes one frontend of the receiver.
type Tuner struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// About summarizes the receiver hardware and image.
type About struct {
	WebIfVersion  string  `json:"webif_version"`
	ImageDistro   string  `json:"image_distro"`
	ImageVersion  string  `json:"image_version,omitempty"`
	Brand         string  `json:"brand"`
	BoxType       string  `json:"box_type"`
	Model         string  `json:"model,omitempty"`
	MachineBuild  string  `json:"machine_build,omitempty"`
	KernelVersion string  `json:"kernel_version,omitempty"`
	EnigmaVersion string  `json:"enigma_version,omitempty"`
	Uptime        string  `json:"uptime"`
	Tuners        []Tuner `json:"tuners,omitempty"`
}

type aboutResponse struct {
	Info *struct {
		WebIfVersion  string  `json:"webifver"`
		ImageDistro   string  `json:"imagedistro"`
		ImageVersion  string  `json:"imagever"`
		Brand         string  `json:"brand"`
		BoxType       string  `json:"boxtype"`
		Model         string  `json:"model"`
		MachineBuild  string  `json:"machinebuild"`
		KernelVersion string  `json:"kernelver"`
		EnigmaVersion string  `json:"enigmaver"`
		Uptime        string  `json:"uptime"`
		Tuners        []Tuner `json:"tuners"`
	} `json:"info"`
}

// About fetches /api/about.
func (c *Client) About(ctx context.Context) (About, error) {
	var resp aboutResponse
	if err := c.getJSON(ctx, "about", c.endpoint(pathAbout, nil), &resp); err != nil {
		return About{}, err
	}
	if resp.Info == nil {
		return About{}, decodeError("about", errors.New(`missing "info" object`))
	}
	info := resp.Info
	return About{
		WebIfVersion:  info.WebIfVersion,
		ImageDistro:   info.ImageDistro,
		ImageVersion:  info.ImageVersion,
		Brand:         info.Brand,
		BoxType:       info.BoxType,
		Model:         info.Model,
		MachineBuild:  info.MachineBuild,
		KernelVersion: info.KernelVersion,
		EnigmaVersion: info.EnigmaVersion,
		Uptime:        info.Uptime,
		Tuners:        info.Tuners,
	}, nil
}

// WebIfVersion reads e2webifversion from the legacy XML /web/about page.
func (c *Client) WebIfVersion(ctx context.Context) (string, error) {
	body, err := c.get(ctx, "web_about", c.endpoint(pathWebAbout, nil), maxJSONBody)
	if err != nil {
		return "", err
	}
	version, err := findXMLElement(body, "e2webifversion")
	if err != nil {
		return "", decodeError("web_about", err)
	}
	return version, nil
}

// findXMLElement returns the trimmed text of the first element with the
// given local name anywhere in the document.
func findXMLElement(doc []byte, name string) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("element %q not found", name)
		}
		if err != nil {
			return "", err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != name {
			continue
		}
		var text string
		if err := dec.DecodeElement(&text, &start); err != nil {
			return "", err
		}
		return strings.TrimSpace(text), nil
	}
}
