// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

// Package api provides the HTTP API that exposes the multi-account client
// over JSON endpoints.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sapcc/go-bits/errext"

	"github.com/sapcc/fleetview/internal/cloud"
)

// API contains the HTTP endpoints for cross-account views and single-account
// operations.
type API struct {
	registry   *cloud.Registry
	aggregator *cloud.Aggregator
}

// NewAPI constructs a new API instance.
func NewAPI(registry *cloud.Registry, aggregator *cloud.Aggregator) *API {
	return &API{registry, aggregator}
}

// AddTo implements the httpapi.API interface.
func (a *API) AddTo(r *mux.Router) {
	r.Methods("GET").Path("/v1/servers").HandlerFunc(a.handleGetAllServers)
	r.Methods("GET").Path("/v1/flavors").HandlerFunc(a.handleGetAllFlavors)
	r.Methods("GET").Path("/v1/security-groups").HandlerFunc(a.handleGetAllSecurityGroups)

	srv := "/v1/accounts/{account}/servers/{server_id}"
	r.Methods("POST").Path(srv + "/action").HandlerFunc(a.handlePostServerAction)
	r.Methods("POST").Path(srv + "/console").HandlerFunc(a.handlePostServerConsole)
	r.Methods("POST").Path(srv + "/resize").HandlerFunc(a.handlePostServerResize)
	r.Methods("POST").Path(srv + "/resize/confirm").HandlerFunc(a.handlePostServerResizeConfirm)
	r.Methods("POST").Path(srv + "/resize/revert").HandlerFunc(a.handlePostServerResizeRevert)
	r.Methods("PUT").Path(srv + "/security-groups/{group_id}").HandlerFunc(a.handlePutServerSecurityGroup)
	r.Methods("DELETE").Path(srv + "/security-groups/{group_id}").HandlerFunc(a.handleDeleteServerSecurityGroup)
	r.Methods("GET").Path(srv + "/graphs/{graph_type}").HandlerFunc(a.handleGetServerGraph)
}

// findClient resolves the {account} path variable into a Client. A lookup
// miss answers the request with 404 and returns nil.
func (a *API) findClient(w http.ResponseWriter, r *http.Request) *cloud.Client {
	client, err := a.registry.Get(mux.Vars(r)["account"])
	if err != nil {
		respondError(w, err)
		return nil
	}
	return client
}

// respondError maps the error taxonomy of the cloud package to HTTP statuses:
// lookup misses and missing ports are the caller's problem (404), everything
// that went wrong upstream is a bad gateway (502).
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errext.IsOfType[cloud.AccountNotFoundError](err) || errext.IsOfType[cloud.NoPortsError](err):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errext.IsOfType[cloud.AuthenticationError](err) || errext.IsOfType[cloud.APIError](err):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
