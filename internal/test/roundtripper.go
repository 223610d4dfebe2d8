// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

// Package test contains helpers for unit tests, most importantly an
// in-process mock implementation of the upstream cloud APIs.
package test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
)

// RoundTripper is a http.RoundTripper that redirects hosts to http.Handler
// instances. Unit tests hand it to a Client via cloud.ClientOptions, so that
// no real network access can ever happen.
type RoundTripper struct {
	Handlers map[string]http.Handler
}

// NewRoundTripper builds an empty RoundTripper.
func NewRoundTripper() *RoundTripper {
	return &RoundTripper{Handlers: make(map[string]http.Handler)}
}

// Client returns a http.Client that uses this RoundTripper as transport.
func (t *RoundTripper) Client() *http.Client {
	return &http.Client{Transport: t}
}

// RoundTrip implements the http.RoundTripper interface.
func (t *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	h := t.Handlers[req.URL.Host]
	if h == nil {
		return nil, fmt.Errorf("no handler registered for host %q", req.URL.Host)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Result(), nil
}
