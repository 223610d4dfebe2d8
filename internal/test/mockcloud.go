// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/sapcc/fleetview/internal/cloud"
	"github.com/sapcc/fleetview/internal/fleet"
)

// RecordedAction is one server action that a MockCloud received.
type RecordedAction struct {
	ServerID string
	Body     map[string]any
}

// MockCloud implements the upstream service APIs (identity, compute,
// networking, block storage) of one account as in-process HTTP handlers. It
// records how it was called, so that tests can assert exact upstream call
// counts.
type MockCloud struct {
	Account fleet.AccountDescriptor

	// canned upstream data (fields may be modified between requests)
	Flavors        []cloud.FlavorDetail
	Servers        []cloud.Server
	Volumes        []cloud.VolumeDetail
	SecurityGroups []cloud.SecurityGroup
	Ports          []cloud.Port
	ConsoleURL     string
	Graph          cloud.GraphData

	// behavior switches
	AuthFailure  bool   // identity requests fail with 500
	Unauthorized bool   // all non-identity requests fail with 401
	BrokenPortID string // updates to this port fail with 500
	// Hang makes every handler block until the request context expires,
	// then answer with 504.
	Hang bool

	// recorded observations
	AuthCount        int
	FlavorFetchCount int
	PortPutCount     int
	Actions          []RecordedAction
	LastGraphQuery   url.Values

	mu          sync.Mutex
	validTokens map[string]bool
}

// NewMockCloud builds a MockCloud for the given account.
func NewMockCloud(account fleet.AccountDescriptor) *MockCloud {
	return &MockCloud{
		Account:     account,
		ConsoleURL:  "https://console.example.com/vnc_auto.html?path=token",
		Graph:       ExampleGraph(),
		validTokens: make(map[string]bool),
	}
}

// ExampleGraph returns a small, but fully populated telemetry graph,
// including a missing sample.
func ExampleGraph() cloud.GraphData {
	return cloud.GraphData{
		Schema: []string{"timestamp", "value"},
		Data: [][]*float64{
			{Float64(1500), Float64(0.25)},
			{Float64(1560), nil},
			{Float64(1620), Float64(0.75)},
		},
	}
}

// Float64 returns a pointer to the given value, for building GraphData rows.
func Float64(val float64) *float64 {
	return &val
}

// AddTo registers this MockCloud's service hosts on the given RoundTripper.
func (m *MockCloud) AddTo(t *RoundTripper) {
	register := func(endpoint string, handler http.HandlerFunc) {
		u, err := url.Parse(endpoint)
		if err != nil {
			panic(err.Error())
		}
		t.Handlers[u.Host] = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.Hang {
				<-r.Context().Done()
				http.Error(w, "upstream timed out", http.StatusGatewayTimeout)
				return
			}
			handler(w, r)
		})
	}
	register(m.Account.Endpoints.Identity, m.handleIdentity)
	register(m.Account.Endpoints.Compute, m.handleCompute)
	register(m.Account.Endpoints.Network, m.handleNetwork)
	register(m.Account.Endpoints.BlockStorage, m.handleBlockStorage)
}

// RevokeTokens invalidates all previously issued tokens, like an upstream
// token expiry would. Authentication stays possible, so clients that
// re-authenticate recover.
func (m *MockCloud) RevokeTokens() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validTokens = make(map[string]bool)
}

func (m *MockCloud) handleIdentity(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var tokenPath string
	if m.Account.IdentityVersion.IsLegacy() {
		tokenPath = "/tokens"
	} else {
		tokenPath = "/auth/tokens"
	}
	if r.Method != http.MethodPost || !m.pathMatches(r, m.Account.Endpoints.Identity, tokenPath) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	m.AuthCount++
	if m.AuthFailure {
		http.Error(w, "identity backend is on fire", http.StatusInternalServerError)
		return
	}

	token := fmt.Sprintf("mock-token-%d", m.AuthCount)
	m.validTokens[token] = true
	if m.Account.IdentityVersion.IsLegacy() {
		respondJSON(w, http.StatusOK, map[string]any{
			"access": map[string]any{
				"token": map[string]any{"id": token},
			},
		})
	} else {
		w.Header().Set("X-Subject-Token", token)
		respondJSON(w, http.StatusCreated, map[string]any{
			"token": map[string]any{"methods": []string{"password"}},
		})
	}
}

func (m *MockCloud) handleCompute(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.checkToken(w, r) {
		return
	}

	elements := m.subPathElements(r, m.Account.Endpoints.Compute)
	switch {
	case r.Method == http.MethodGet && pathIs(elements, "flavors", "detail"):
		m.FlavorFetchCount++
		respondJSON(w, http.StatusOK, map[string]any{"flavors": m.Flavors})
	case r.Method == http.MethodGet && pathIs(elements, "servers", "detail"):
		respondJSON(w, http.StatusOK, map[string]any{"servers": m.Servers})
	case r.Method == http.MethodPost && pathIs(elements, "servers", "*", "action"):
		m.handleServerAction(w, r, elements[1])
	case r.Method == http.MethodPost && pathIs(elements, "servers", "*", "remote-consoles"):
		respondJSON(w, http.StatusOK, map[string]any{
			"remote_console": map[string]any{"protocol": "vnc", "type": "novnc", "url": m.ConsoleURL},
		})
	case r.Method == http.MethodGet && pathIs(elements, "servers", "*", "rrd", "*"):
		m.LastGraphQuery = r.URL.Query()
		graphKey := elements[3]
		if graphKey == "interface" && r.URL.Query().Get("port_id") == "" {
			http.Error(w, "port_id is required", http.StatusBadRequest)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{graphKey: m.Graph})
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

func (m *MockCloud) handleServerAction(w http.ResponseWriter, r *http.Request, serverID string) {
	var body map[string]any
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// the console action responds with a payload; every other action is
	// acknowledged asynchronously
	if _, exists := body["os-getVNCConsole"]; exists {
		respondJSON(w, http.StatusOK, map[string]any{
			"console": map[string]any{"type": "novnc", "url": m.ConsoleURL},
		})
		return
	}
	m.Actions = append(m.Actions, RecordedAction{ServerID: serverID, Body: body})
	w.WriteHeader(http.StatusAccepted)
}

func (m *MockCloud) handleNetwork(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.checkToken(w, r) {
		return
	}

	elements := m.subPathElements(r, m.Account.Endpoints.Network)
	switch {
	case r.Method == http.MethodGet && pathIs(elements, "security-groups"):
		respondJSON(w, http.StatusOK, map[string]any{"security_groups": m.SecurityGroups})
	case r.Method == http.MethodGet && pathIs(elements, "ports"):
		deviceID := r.URL.Query().Get("device_id")
		ports := []cloud.Port{}
		for _, port := range m.Ports {
			if deviceID == "" || port.DeviceID == deviceID {
				ports = append(ports, port)
			}
		}
		respondJSON(w, http.StatusOK, map[string]any{"ports": ports})
	case r.Method == http.MethodPut && pathIs(elements, "ports", "*"):
		m.handlePortUpdate(w, r, elements[1])
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

func (m *MockCloud) handlePortUpdate(w http.ResponseWriter, r *http.Request, portID string) {
	m.PortPutCount++
	if m.BrokenPortID == portID {
		http.Error(w, "port update failed", http.StatusInternalServerError)
		return
	}

	var body struct {
		Port struct {
			SecurityGroups []string `json:"security_groups"`
		} `json:"port"`
	}
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	for idx := range m.Ports {
		if m.Ports[idx].ID == portID {
			m.Ports[idx].SecurityGroups = body.Port.SecurityGroups
			respondJSON(w, http.StatusOK, map[string]any{"port": m.Ports[idx]})
			return
		}
	}
	http.Error(w, "no such port", http.StatusNotFound)
}

func (m *MockCloud) handleBlockStorage(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.checkToken(w, r) {
		return
	}

	elements := m.subPathElements(r, m.Account.Endpoints.BlockStorage)
	if r.Method == http.MethodGet && pathIs(elements, "volumes", "detail") {
		respondJSON(w, http.StatusOK, map[string]any{"volumes": m.Volumes})
		return
	}
	http.Error(w, "not found", http.StatusNotFound)
}

func (m *MockCloud) checkToken(w http.ResponseWriter, r *http.Request) bool {
	if m.Unauthorized || !m.validTokens[r.Header.Get("X-Auth-Token")] {
		http.Error(w, "token is invalid or expired", http.StatusUnauthorized)
		return false
	}
	return true
}

func (m *MockCloud) pathMatches(r *http.Request, endpoint, subPath string) bool {
	u, err := url.Parse(endpoint)
	if err != nil {
		panic(err.Error())
	}
	return r.URL.Path == u.Path+subPath
}

func (m *MockCloud) subPathElements(r *http.Request, endpoint string) []string {
	u, err := url.Parse(endpoint)
	if err != nil {
		panic(err.Error())
	}
	subPath := strings.TrimPrefix(r.URL.Path, u.Path)
	return strings.Split(strings.Trim(subPath, "/"), "/")
}

// pathIs matches path elements against a pattern, where "*" matches any
// single element.
func pathIs(elements []string, pattern ...string) bool {
	if len(elements) != len(pattern) {
		return false
	}
	for idx, p := range pattern {
		if p != "*" && elements[idx] != p {
			return false
		}
	}
	return true
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	buf, err := json.Marshal(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf) //nolint:errcheck
}
