// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package cloud

import (
	"context"
	"net/http"
	"net/url"
)

// GraphOptions bundles the optional query parameters of the telemetry
// endpoints. Empty fields are omitted from the query.
type GraphOptions struct {
	Start string
	End   string
	Mode  string
	// Device selects the block device for disk graphs; it is ignored by the
	// other graph types.
	Device string
}

func (o GraphOptions) query() url.Values {
	query := url.Values{}
	if o.Start != "" {
		query.Set("start_date_raw", o.Start)
	}
	if o.End != "" {
		query.Set("end_date_raw", o.End)
	}
	if o.Mode != "" {
		query.Set("mode", o.Mode)
	}
	return query
}

// CPUGraph fetches CPU telemetry for the given server.
func (c *Client) CPUGraph(ctx context.Context, serverID string, opts GraphOptions) (CPUGraph, error) {
	var data CPUGraph
	err := c.gateway.Do(ctx, http.MethodGet, c.rrdURL(serverID, "cpu", opts.query()), nil, &data)
	return data, err
}

// DiskGraph fetches disk telemetry for the given server.
func (c *Client) DiskGraph(ctx context.Context, serverID string, opts GraphOptions) (DiskGraph, error) {
	query := opts.query()
	if opts.Device != "" {
		query.Set("device_name", opts.Device)
	}
	var data DiskGraph
	err := c.gateway.Do(ctx, http.MethodGet, c.rrdURL(serverID, "disk", query), nil, &data)
	return data, err
}

// NetworkGraph fetches interface telemetry for the given server. The
// telemetry endpoint requires a port ID, so the server's first port is
// resolved beforehand; a server without ports yields a NoPortsError.
func (c *Client) NetworkGraph(ctx context.Context, serverID string, opts GraphOptions) (NetworkGraph, error) {
	ports, err := c.ServerPorts(ctx, serverID)
	if err != nil {
		return NetworkGraph{}, err
	}
	if len(ports) == 0 {
		return NetworkGraph{}, NoPortsError{AccountID: c.account.ID, ServerID: serverID}
	}

	query := opts.query()
	query.Set("port_id", ports[0].ID)
	var data NetworkGraph
	err = c.gateway.Do(ctx, http.MethodGet, c.rrdURL(serverID, "interface", query), nil, &data)
	return data, err
}

func (c *Client) rrdURL(serverID, graphType string, query url.Values) string {
	uri := c.account.Endpoints.Compute + "/servers/" + serverID + "/rrd/" + graphType
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}
	return uri
}
