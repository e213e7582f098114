// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package openwebif

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbout(t *testing.T) {
	mock := newMock(t)
	c := newTestClient(t, mock.URL)

	about, err := c.About(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Mock", about.Brand)
	assert.Equal(t, "OWIF 1.2.7", about.WebIfVersion)
	assert.Equal(t, "openatv", about.ImageDistro)
	assert.Equal(t, "mocker1", about.BoxType)
	assert.Equal(t, "103d 21:11", about.Uptime)
	assert.Len(t, about.Tuners, 2)
}

func TestAbout_MissingInfo(t *testing.T) {
	mock := newMock(t)
	mock.SetAbout(map[string]any{"result": true})
	c := newTestClient(t, mock.URL)

	_, err := c.About(context.Background())
	assert.ErrorIs(t, err, ErrUpstreamBadResponse)
}

func TestWebIfVersion(t *testing.T) {
	mock := newMock(t)
	c := newTestClient(t, mock.URL)

	version, err := c.WebIfVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "OWIF 1.2.7", version)
}

func TestWebIfVersion_ElementMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<e2abouts><e2about><e2model>x</e2model></e2about></e2abouts>`))
	}))
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	_, err := c.WebIfVersion(context.Background())
	assert.ErrorIs(t, err, ErrUpstreamBadResponse)
}

func TestFindXMLElement_Nested(t *testing.T) {
	got, err := findXMLElement([]byte(`<a><b><c> v1 </c></b><c>v2</c></a>`), "c")
	require.NoError(t, err)
	assert.Equal(t, "v1", got)

	_, err = findXMLElement([]byte(`<a><b`), "c")
	assert.Error(t, err)
}
