// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sapcc/go-bits/httpapi"
	"github.com/sapcc/go-bits/logg"
	"github.com/sapcc/go-bits/respondwith"

	"github.com/sapcc/fleetview/internal/cloud"
	"github.com/sapcc/fleetview/internal/fleet"
)

func (a *API) handleGetAllServers(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/v1/servers")
	servers, failed := a.aggregator.AllServers(r.Context())
	for _, err := range failed {
		logg.Error("while listing servers: %s", err.Error())
	}
	respondwith.JSON(w, http.StatusOK, map[string]any{"servers": servers})
}

func (a *API) handleGetAllFlavors(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/v1/flavors")
	flavors, failed := a.aggregator.AllFlavors(r.Context())
	for _, err := range failed {
		logg.Error("while listing flavors: %s", err.Error())
	}
	respondwith.JSON(w, http.StatusOK, map[string]any{"flavors": flavors})
}

func (a *API) handleGetAllSecurityGroups(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/v1/security-groups")
	groups, failed := a.aggregator.AllSecurityGroups(r.Context())
	for _, err := range failed {
		logg.Error("while listing security groups: %s", err.Error())
	}
	respondwith.JSON(w, http.StatusOK, map[string]any{"security_groups": groups})
}

func (a *API) handlePostServerAction(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/v1/accounts/:account/servers/:id/action")
	client := a.findClient(w, r)
	if client == nil {
		return
	}

	var req struct {
		Action string `json:"action"`
	}
	if !decodeRequest(w, r, &req) {
		return
	}
	action := cloud.ServerAction(req.Action)
	if !action.IsValid() {
		http.Error(w, fmt.Sprintf("invalid server action: %q", req.Action), http.StatusBadRequest)
		return
	}

	err := client.PerformAction(r.Context(), mux.Vars(r)["server_id"], action)
	if err != nil {
		respondError(w, err)
		return
	}
	respondwith.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (a *API) handlePostServerConsole(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/v1/accounts/:account/servers/:id/console")
	client := a.findClient(w, r)
	if client == nil {
		return
	}

	url, err := client.ConsoleURL(r.Context(), mux.Vars(r)["server_id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondwith.JSON(w, http.StatusOK, map[string]string{"url": url})
}

func (a *API) handlePostServerResize(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/v1/accounts/:account/servers/:id/resize")
	client := a.findClient(w, r)
	if client == nil {
		return
	}

	var req struct {
		FlavorID string `json:"flavor_id"`
	}
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.FlavorID == "" {
		http.Error(w, "missing flavor_id", http.StatusBadRequest)
		return
	}

	err := client.Resize(r.Context(), mux.Vars(r)["server_id"], req.FlavorID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondwith.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (a *API) handlePostServerResizeConfirm(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/v1/accounts/:account/servers/:id/resize/confirm")
	client := a.findClient(w, r)
	if client == nil {
		return
	}

	err := client.ConfirmResize(r.Context(), mux.Vars(r)["server_id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondwith.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (a *API) handlePostServerResizeRevert(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/v1/accounts/:account/servers/:id/resize/revert")
	client := a.findClient(w, r)
	if client == nil {
		return
	}

	err := client.RevertResize(r.Context(), mux.Vars(r)["server_id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondwith.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (a *API) handlePutServerSecurityGroup(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/v1/accounts/:account/servers/:id/security-groups/:group")
	client := a.findClient(w, r)
	if client == nil {
		return
	}

	vars := mux.Vars(r)
	err := client.AddSecurityGroup(r.Context(), vars["server_id"], vars["group_id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondwith.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (a *API) handleDeleteServerSecurityGroup(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/v1/accounts/:account/servers/:id/security-groups/:group")
	client := a.findClient(w, r)
	if client == nil {
		return
	}

	vars := mux.Vars(r)
	err := client.RemoveSecurityGroup(r.Context(), vars["server_id"], vars["group_id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondwith.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// decodeRequest parses a JSON request body. A malformed body answers the
// request with 400 and returns false.
func decodeRequest(w http.ResponseWriter, r *http.Request, target any) bool {
	buf, err := io.ReadAll(r.Body)
	if err == nil {
		err = fleet.UnmarshalJSONStrict(buf, target)
	}
	if err != nil {
		http.Error(w, "request body is not valid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
