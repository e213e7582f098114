// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package openwebif

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

// MockServer simulates the OpenWebif API of a receiver for tests.
type MockServer struct {
	*httptest.Server

	mu         sync.Mutex
	status     map[string]any
	about      map[string]any
	webAbout   string
	bouquets   []mockBouquet
	events     []map[string]any
	files      map[string][]byte // picon and lcd4linux paths
	username   string
	password   string
	failures   map[string]mockFailure
	delays     map[string]time.Duration
	requests   map[string]int
	requestIDs []string
	rcCommands []int
}

type mockBouquet struct {
	name     string
	ref      string
	services []Service
}

type mockFailure struct {
	remaining int
	status    int
}

// NewMockServer starts a mock receiver with realistic default data.
func NewMockServer() *MockServer {
	m := &MockServer{}
	m.reset()

	r := chi.NewRouter()
	r.Use(m.record, m.authenticate, m.inject)

	r.Get(pathStatusInfo, m.handleStatus)
	r.Get(pathAbout, m.handleAbout)
	r.Get(pathWebAbout, m.handleWebAbout)
	r.Get(pathPowerState, m.handlePowerState)
	r.Get(pathVolume, m.handleVolume)
	r.Get(pathRemoteControl, m.handleRemoteControl)
	r.Get(pathAllServices, m.handleAllServices)
	r.Get(pathEPGSearch, m.handleEPGSearch)
	r.Get("/picon/{file}", m.handleFile)
	r.Head("/picon/{file}", m.handleFile)
	r.Get("/lcd4linux/{file}", m.handleFile)
	r.Head("/lcd4linux/{file}", m.handleFile)

	m.Server = httptest.NewServer(r)
	return m
}

// Reset restores the default data and clears counters.
func (m *MockServer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
}

func (m *MockServer) reset() {
	m.status = map[string]any{
		"inStandby":                   false,
		"currservice_begin":           "21:00",
		"muted":                       false,
		"isRecording":                 "false",
		"currservice_station":         "ITV2",
		"currservice_serviceref":      "1:0:1:2756:7FC:2:11A0000:0:0:0:",
		"volume":                      52,
		"currservice_fulldescription": "New: Family Guy\n21:00 - 21:30\n\n",
		"currservice_name":            "New: Family Guy",
		"currservice_filename":        "",
		"transcoding":                 false,
		"currservice_end":             "21:30",
		"currservice_description":     "Peter and the gang join the Coast Guard.",
	}
	m.about = map[string]any{
		"info": map[string]any{
			"webifver":     "OWIF 1.2.7",
			"imagedistro":  "openatv",
			"imagever":     "6.0.0",
			"brand":        "Mock",
			"boxtype":      "mocker1",
			"model":        "Mock Receiver",
			"machinebuild": "mockmachine",
			"kernelver":    "4.10.6",
			"enigmaver":    "2017-10-23",
			"uptime":       "103d 21:11",
			"tuners": []map[string]any{
				{"name": "Tuner A", "type": "BCM7346 (internal) (DVB-S2)"},
				{"name": "Tuner B", "type": "Si2168 (DVB-T2)"},
			},
		},
	}
	m.webAbout = `<?xml version="1.0" encoding="UTF-8"?>
<e2abouts><e2about><e2enigmaversion>2017-10-23</e2enigmaversion><e2webifversion> OWIF 1.2.7 </e2webifversion></e2about></e2abouts>`
	m.bouquets = []mockBouquet{
		{
			name: "Favourites (TV)",
			ref:  `1:7:1:0:0:0:0:0:0:0:FROM BOUQUET "userbouquet.favourites.tv" ORDER BY bouquet`,
			services: []Service{
				{Name: "ITV2", Ref: "1:0:1:2756:7FC:2:11A0000:0:0:0:"},
				{Name: "--- News ---", Ref: "1:64:1:0:0:0:0:0:0:0::--- News ---"},
				{Name: "BBC ONE HD", Ref: "1:0:19:1B1D:802:2:11A0000:0:0:0:"},
			},
		},
		{
			name: "Children",
			ref:  `1:7:1:0:0:0:0:0:0:0:FROM BOUQUET "userbouquet.children.tv" ORDER BY bouquet`,
			services: []Service{
				{Name: "CBBC", Ref: "1:0:1:1B2A:802:2:11A0000:0:0:0:"},
				{Name: "CBeebies", Ref: "1:0:1:1B2B:802:2:11A0000:0:0:0:"},
			},
		},
	}
	m.events = []map[string]any{
		{
			"id":              32845,
			"title":           "Home and Away",
			"shortdesc":       "Drama",
			"longdesc":        "Irene gets a surprise visitor.",
			"sname":           "5STAR",
			"sref":            "1:0:1:1B2C:802:2:11A0000:0:0:0:",
			"begin_timestamp": 1700000000,
			"duration_sec":    "1800",
		},
	}
	m.files = map[string][]byte{
		"/picon/itv2.png":    []byte("\x89PNG itv2"),
		"/picon/bbcone.png":  []byte("\x89PNG bbcone"),
		"/lcd4linux/dpf.png": []byte("\x89PNG dpf"),
	}
	m.username = ""
	m.password = ""
	m.failures = make(map[string]mockFailure)
	m.delays = make(map[string]time.Duration)
	m.requests = make(map[string]int)
	m.requestIDs = nil
	m.rcCommands = nil
}

// SetStatus replaces the raw /api/statusinfo document.
func (m *MockServer) SetStatus(status map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
}

// SetAbout replaces the raw /api/about document.
func (m *MockServer) SetAbout(about map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.about = about
}

// SetAuth requires basic auth with the given credentials.
func (m *MockServer) SetAuth(username, password string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.username, m.password = username, password
}

// AddBouquet appends a bouquet.
func (m *MockServer) AddBouquet(name, ref string, services ...Service) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bouquets = append(m.bouquets, mockBouquet{name: name, ref: ref, services: services})
}

// SetEvents replaces the EPG search results.
func (m *MockServer) SetEvents(events ...map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = events
}

// AddFile serves body at path (e.g. /picon/zdf.png).
func (m *MockServer) AddFile(path string, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = body
}

// RemoveFile stops serving path.
func (m *MockServer) RemoveFile(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
}

// SetFailures makes the next count requests to path answer with status.
func (m *MockServer) SetFailures(path string, count, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[path] = mockFailure{remaining: count, status: status}
}

// SetDelay delays every response for path.
func (m *MockServer) SetDelay(path string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays[path] = d
}

// Requests returns how many requests reached path ("HEAD /picon/x.png"
// or "/api/statusinfo" for GET).
func (m *MockServer) Requests(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[key]
}

// RequestIDs returns the X-Request-ID headers seen so far.
func (m *MockServer) RequestIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requestIDs...)
}

// RemoteCommands returns the key codes received so far.
func (m *MockServer) RemoteCommands() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.rcCommands...)
}

func requestKey(r *http.Request) string {
	if r.Method == http.MethodGet {
		return r.URL.Path
	}
	return r.Method + " " + r.URL.Path
}

func (m *MockServer) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.requests[requestKey(r)]++
		if rid := r.Header.Get(RequestIDHeader); rid != "" {
			m.requestIDs = append(m.requestIDs, rid)
		}
		m.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (m *MockServer) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		wantUser, wantPass := m.username, m.password
		m.mu.Unlock()

		if wantUser != "" || wantPass != "" {
			user, pass, ok := r.BasicAuth()
			if !ok ||
				subtle.ConstantTimeCompare([]byte(user), []byte(wantUser)) != 1 ||
				subtle.ConstantTimeCompare([]byte(pass), []byte(wantPass)) != 1 {
				w.Header().Set("WWW-Authenticate", `Basic realm="OpenWebif"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (m *MockServer) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		delay := m.delays[r.URL.Path]
		failure, failing := m.failures[r.URL.Path]
		if failing && failure.remaining > 0 {
			failure.remaining--
			m.failures[r.URL.Path] = failure
		} else {
			failing = false
		}
		m.mu.Unlock()

		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-r.Context().Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
		if failing {
			http.Error(w, http.StatusText(failure.status), failure.status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (m *MockServer) handleStatus(w http.ResponseWriter, _ *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	writeJSON(w, m.status)
}

func (m *MockServer) handleAbout(w http.ResponseWriter, _ *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	writeJSON(w, m.about)
}

func (m *MockServer) handleWebAbout(w http.ResponseWriter, _ *http.Request) {
	m.mu.Lock()
	body := m.webAbout
	m.mu.Unlock()
	w.Header().Set("Content-Type", "application/xml")
	_, _ = w.Write([]byte(body))
}

func (m *MockServer) handlePowerState(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.URL.Query().Get("newstate") != "0" {
		writeJSON(w, map[string]any{"result": false, "message": "unsupported state"})
		return
	}
	standby := !truthy(m.status["inStandby"])
	m.status["inStandby"] = standby
	writeJSON(w, map[string]any{"instandby": standby, "result": true})
}

func (m *MockServer) handleVolume(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	volume := 0
	switch v := m.status["volume"].(type) {
	case int:
		volume = v
	case float64:
		volume = int(v)
	}
	muted := truthy(m.status["muted"])

	set := r.URL.Query().Get("set")
	switch {
	case set == "up":
		volume = min(volume+5, 100)
	case set == "down":
		volume = max(volume-5, 0)
	case set == "mute":
		muted = !muted
	case strings.HasPrefix(set, "set"):
		n, err := strconv.Atoi(strings.TrimPrefix(set, "set"))
		if err != nil || n < 0 || n > 100 {
			writeJSON(w, map[string]any{"result": false, "message": "Wrong parameter format."})
			return
		}
		volume = n
	default:
		writeJSON(w, map[string]any{"result": false, "message": "Unknown Volume command " + set})
		return
	}

	m.status["volume"] = volume
	m.status["muted"] = muted
	writeJSON(w, map[string]any{
		"result":  true,
		"current": volume,
		"ismute":  muted,
		"message": fmt.Sprintf("Volume set to %d", volume),
	})
}

func (m *MockServer) handleRemoteControl(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.Atoi(r.URL.Query().Get("command"))
	if err != nil {
		writeJSON(w, map[string]any{"result": false, "message": "The command must be a number"})
		return
	}
	m.mu.Lock()
	m.rcCommands = append(m.rcCommands, code)
	m.mu.Unlock()
	writeJSON(w, map[string]any{"result": true, "message": fmt.Sprintf("RC command '%d' has been issued", code)})
}

func (m *MockServer) handleAllServices(w http.ResponseWriter, _ *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	services := make([]map[string]any, 0, len(m.bouquets))
	for pos, b := range m.bouquets {
		subs := make([]map[string]any, 0, len(b.services))
		for i, s := range b.services {
			subs = append(subs, map[string]any{
				"servicename":      s.Name,
				"servicereference": s.Ref,
				"pos":              i + 1,
			})
		}
		services = append(services, map[string]any{
			"servicename":      b.name,
			"servicereference": b.ref,
			"pos":              pos + 1,
			"subservices":      subs,
		})
	}
	writeJSON(w, map[string]any{"services": services})
}

func (m *MockServer) handleEPGSearch(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	query := strings.ToLower(r.URL.Query().Get("search"))
	events := make([]map[string]any, 0, len(m.events))
	for _, e := range m.events {
		title, _ := e["title"].(string)
		if query == "" || strings.Contains(strings.ToLower(title), query) {
			events = append(events, e)
		}
	}
	writeJSON(w, map[string]any{"events": events, "result": true})
}

func (m *MockServer) handleFile(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	body, ok := m.files[r.URL.Path]
	m.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(t)
		return b
	default:
		return false
	}
}
