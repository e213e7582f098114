// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package openwebif

import (
	"context"
	"strings"
)

const (
	pathAllServices = "/api/getallservices"

	// markerPrefix identifies separator entries inside a bouquet.
	markerPrefix = "1:64:"
)

// Service is one tunable channel.
type Service struct {
	Name string `json:"name"`
	Ref  string `json:"ref"`
}

// Bouquet is a named channel list defined on the receiver.
type Bouquet struct {
	Name     string    `json:"name"`
	Ref      string    `json:"ref"`
	Services []Service `json:"services"`
}

type allServicesResponse struct {
	Services []struct {
		Name        string `json:"servicename"`
		Ref         string `json:"servicereference"`
		SubServices []struct {
			Name string `json:"servicename"`
			Ref  string `json:"servicereference"`
		} `json:"subservices"`
	} `json:"services"`
}

// Bouquets lists every bouquet with its services. Marker entries are dropped.
func (c *Client) Bouquets(ctx context.Context) ([]Bouquet, error) {
	var resp allServicesResponse
	if err := c.getJSON(ctx, "getallservices", c.endpoint(pathAllServices, nil), &resp); err != nil {
		return nil, err
	}

	out := make([]Bouquet, 0, len(resp.Services))
	for _, b := range resp.Services {
		bouquet := Bouquet{
			Name:     b.Name,
			Ref:      b.Ref,
			Services: make([]Service, 0, len(b.SubServices)),
		}
		for _, s := range b.SubServices {
			if strings.HasPrefix(s.Ref, markerPrefix) {
				continue
			}
			bouquet.Services = append(bouquet.Services, Service{Name: s.Name, Ref: s.Ref})
		}
		out = append(out, bouquet)
	}
	return out, nil
}

// Services returns the services of the named bouquet, or of all bouquets
// when name is empty. An unknown bouquet yields an empty list.
func (c *Client) Services(ctx context.Context, bouquet string) ([]Service, error) {
	bouquets, err := c.Bouquets(ctx)
	if err != nil {
		return nil, err
	}

	out := []Service{}
	for _, b := range bouquets {
		if bouquet != "" && b.Name != bouquet {
			continue
		}
		out = append(out, b.Services...)
	}
	return out, nil
}
