// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package cloud

import (
	"context"
	"net/http"
	"net/url"
	"slices"
)

// SecurityGroups lists the security groups of this account, with each entry
// stamped with the owning account ID.
func (c *Client) SecurityGroups(ctx context.Context) ([]SecurityGroup, error) {
	var data struct {
		SecurityGroups []SecurityGroup `json:"security_groups"`
	}
	err := c.gateway.Do(ctx, http.MethodGet, c.account.Endpoints.Network+"/security-groups", nil, &data)
	if err != nil {
		return nil, err
	}
	for idx := range data.SecurityGroups {
		data.SecurityGroups[idx].AccountID = c.account.ID
	}
	return data.SecurityGroups, nil
}

// ServerPorts lists the network ports attached to the given server.
func (c *Client) ServerPorts(ctx context.Context, serverID string) ([]Port, error) {
	query := url.Values{}
	query.Set("device_id", serverID)
	var data struct {
		Ports []Port `json:"ports"`
	}
	err := c.gateway.Do(ctx, http.MethodGet, c.account.Endpoints.Network+"/ports?"+query.Encode(), nil, &data)
	if err != nil {
		return nil, err
	}
	return data.Ports, nil
}

// AddSecurityGroup adds the given security group to every port of the given
// server. Ports that already carry the group are skipped without a call, so
// the operation is idempotent by construction. Ports are processed
// sequentially; the first failure aborts the remaining ports without rolling
// back those already updated.
func (c *Client) AddSecurityGroup(ctx context.Context, serverID, groupID string) error {
	ports, err := c.ServerPorts(ctx, serverID)
	if err != nil {
		return err
	}
	for _, port := range ports {
		if slices.Contains(port.SecurityGroups, groupID) {
			continue
		}
		groups := append(slices.Clone(port.SecurityGroups), groupID)
		err := c.replacePortSecurityGroups(ctx, port.ID, groups)
		if err != nil {
			return err
		}
	}
	return nil
}

// RemoveSecurityGroup removes the given security group from every port of the
// given server. It mirrors AddSecurityGroup: idempotent per port, sequential,
// no rollback on failure.
func (c *Client) RemoveSecurityGroup(ctx context.Context, serverID, groupID string) error {
	ports, err := c.ServerPorts(ctx, serverID)
	if err != nil {
		return err
	}
	for _, port := range ports {
		if !slices.Contains(port.SecurityGroups, groupID) {
			continue
		}
		groups := slices.DeleteFunc(slices.Clone(port.SecurityGroups), func(id string) bool {
			return id == groupID
		})
		err := c.replacePortSecurityGroups(ctx, port.ID, groups)
		if err != nil {
			return err
		}
	}
	return nil
}

// replacePortSecurityGroups PUTs the full replacement security group list for
// one port. The networking API has no add/remove primitive, only
// replace-whole-list, hence the read-modify-write in the callers.
func (c *Client) replacePortSecurityGroups(ctx context.Context, portID string, groupIDs []string) error {
	if groupIDs == nil {
		groupIDs = []string{}
	}
	body := map[string]any{
		"port": map[string]any{"security_groups": groupIDs},
	}
	var data struct {
		Port Port `json:"port"`
	}
	return c.gateway.Do(ctx, http.MethodPut, c.account.Endpoints.Network+"/ports/"+portID, body, &data)
}
