// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sapcc/go-bits/httpapi"
	"github.com/sapcc/go-bits/respondwith"

	"github.com/sapcc/fleetview/internal/cloud"
)

func (a *API) handleGetServerGraph(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/v1/accounts/:account/servers/:id/graphs/:type")
	client := a.findClient(w, r)
	if client == nil {
		return
	}

	vars := mux.Vars(r)
	serverID := vars["server_id"]
	query := r.URL.Query()
	opts := cloud.GraphOptions{
		Start:  query.Get("start"),
		End:    query.Get("end"),
		Mode:   query.Get("mode"),
		Device: query.Get("device"),
	}

	var (
		data any
		err  error
	)
	switch graphType := vars["graph_type"]; graphType {
	case "cpu":
		data, err = client.CPUGraph(r.Context(), serverID, opts)
	case "disk":
		data, err = client.DiskGraph(r.Context(), serverID, opts)
	case "network":
		data, err = client.NetworkGraph(r.Context(), serverID, opts)
	default:
		http.Error(w, fmt.Sprintf("unknown graph type: %q", graphType), http.StatusBadRequest)
		return
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respondwith.JSON(w, http.StatusOK, data)
}
