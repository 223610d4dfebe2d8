// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package cloud

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"
)

// ServerAction is the closed set of lifecycle actions that can be performed
// on a server.
type ServerAction string

// Possible values for ServerAction.
const (
	ActionStart     ServerAction = "start"
	ActionStop      ServerAction = "stop"
	ActionReboot    ServerAction = "reboot"
	ActionForceStop ServerAction = "force-stop"
)

// IsValid returns whether this is one of the supported actions. Callers at
// the API boundary use this to reject unknown actions before they reach the
// upstream API.
func (a ServerAction) IsValid() bool {
	switch a {
	case ActionStart, ActionStop, ActionReboot, ActionForceStop:
		return true
	default:
		return false
	}
}

func (a ServerAction) requestBody() (any, error) {
	switch a {
	case ActionStart:
		return map[string]any{"os-start": nil}, nil
	case ActionStop:
		return map[string]any{"os-stop": nil}, nil
	case ActionReboot:
		return map[string]any{"reboot": map[string]string{"type": "SOFT"}}, nil
	case ActionForceStop:
		return map[string]any{"os-stop": map[string]bool{"force_shutdown": true}}, nil
	default:
		return nil, fmt.Errorf("unknown server action: %q", string(a))
	}
}

// Servers lists all servers of this account, enriched with flavor details and
// resolved volume attachments. The three upstream fetches are independent and
// run concurrently; the join happens only after all of them have completed.
//
// Enrichment is a best-effort join: a server whose flavor ID is missing from
// the catalog keeps its original flavor sub-object, and attachment IDs
// without a matching volume are dropped silently.
func (c *Client) Servers(ctx context.Context) ([]Server, error) {
	var (
		servers []Server
		flavors map[string]FlavorDetail
		volumes map[string]VolumeDetail
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var data struct {
			Servers []Server `json:"servers"`
		}
		err := c.gateway.Do(egCtx, http.MethodGet, c.account.Endpoints.Compute+"/servers/detail", nil, &data)
		servers = data.Servers
		return err
	})
	eg.Go(func() error {
		var err error
		flavors, err = c.FlavorMap(egCtx)
		return err
	})
	eg.Go(func() error {
		var err error
		volumes, err = c.volumeMap(egCtx)
		return err
	})
	err := eg.Wait()
	if err != nil {
		return nil, err
	}

	for idx := range servers {
		server := &servers[idx]
		if detail, exists := flavors[server.Flavor.ID]; exists {
			server.Flavor.Name = detail.Name
			server.Flavor.RAM = detail.RAM
			server.Flavor.VCPUs = detail.VCPUs
			server.Flavor.Disk = detail.Disk
			server.Flavor.Ephemeral = detail.Ephemeral
			server.Flavor.Swap = detail.Swap
		}
		for _, attachment := range server.AttachedVolumes {
			if volume, exists := volumes[attachment.ID]; exists {
				server.Volumes = append(server.Volumes, volume)
			}
		}
		server.AccountID = c.account.ID
	}
	return servers, nil
}

// volumeMap fetches the volume catalog of this account. Unlike flavors,
// volumes change too often to be worth caching.
func (c *Client) volumeMap(ctx context.Context) (map[string]VolumeDetail, error) {
	var data struct {
		Volumes []VolumeDetail `json:"volumes"`
	}
	err := c.gateway.Do(ctx, http.MethodGet, c.account.Endpoints.BlockStorage+"/volumes/detail", nil, &data)
	if err != nil {
		return nil, err
	}
	result := make(map[string]VolumeDetail, len(data.Volumes))
	for _, volume := range data.Volumes {
		result[volume.ID] = volume
	}
	return result, nil
}

// PerformAction executes a lifecycle action on the given server.
func (c *Client) PerformAction(ctx context.Context, serverID string, action ServerAction) error {
	body, err := action.requestBody()
	if err != nil {
		return err
	}
	return c.gateway.Do(ctx, http.MethodPost, c.serverActionURL(serverID), body, nil)
}

// Resize starts the resize lifecycle for the given server. Once the server
// reaches VERIFY_RESIZE, the resize must be completed with ConfirmResize or
// undone with RevertResize. State legality is enforced by the remote API;
// errors from out-of-order calls are forwarded unchanged.
func (c *Client) Resize(ctx context.Context, serverID, flavorID string) error {
	body := map[string]any{"resize": map[string]string{"flavorRef": flavorID}}
	return c.gateway.Do(ctx, http.MethodPost, c.serverActionURL(serverID), body, nil)
}

// ConfirmResize completes a resize that is awaiting confirmation.
func (c *Client) ConfirmResize(ctx context.Context, serverID string) error {
	body := map[string]any{"confirmResize": nil}
	return c.gateway.Do(ctx, http.MethodPost, c.serverActionURL(serverID), body, nil)
}

// RevertResize undoes a resize that is awaiting confirmation.
func (c *Client) RevertResize(ctx context.Context, serverID string) error {
	body := map[string]any{"revertResize": nil}
	return c.gateway.Do(ctx, http.MethodPost, c.serverActionURL(serverID), body, nil)
}

// ConsoleURL issues a remote console for the given server and returns its
// URL. This is the one compute-side call whose shape differs between the two
// protocol generations.
func (c *Client) ConsoleURL(ctx context.Context, serverID string) (string, error) {
	if c.account.IdentityVersion.IsLegacy() {
		body := map[string]any{"os-getVNCConsole": map[string]string{"type": "novnc"}}
		var data struct {
			Console struct {
				Type string `json:"type"`
				URL  string `json:"url"`
			} `json:"console"`
		}
		err := c.gateway.Do(ctx, http.MethodPost, c.serverActionURL(serverID), body, &data)
		return data.Console.URL, err
	}

	body := map[string]any{
		"remote_console": map[string]string{"protocol": "vnc", "type": "novnc"},
	}
	var data struct {
		RemoteConsole struct {
			Protocol string `json:"protocol"`
			Type     string `json:"type"`
			URL      string `json:"url"`
		} `json:"remote_console"`
	}
	uri := c.account.Endpoints.Compute + "/servers/" + serverID + "/remote-consoles"
	err := c.gateway.Do(ctx, http.MethodPost, uri, body, &data)
	return data.RemoteConsole.URL, err
}

func (c *Client) serverActionURL(serverID string) string {
	return c.account.Endpoints.Compute + "/servers/" + serverID + "/action"
}
