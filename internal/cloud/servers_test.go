// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package cloud_test

import (
	"testing"

	"github.com/sapcc/go-bits/assert"

	"github.com/sapcc/fleetview/internal/cloud"
	"github.com/sapcc/fleetview/internal/fleet"
	"github.com/sapcc/fleetview/internal/test"
)

func TestServersAreEnriched(t *testing.T) {
	client, mockCloud, _ := setup(t, fleet.IdentityV3)
	mockCloud.Flavors = []cloud.FlavorDetail{
		{ID: "f1", Name: "g-2gb", RAM: 2048, VCPUs: 2, Disk: 50},
	}
	mockCloud.Volumes = []cloud.VolumeDetail{
		{ID: "vol-1", Name: "boot", Size: 100, Status: "in-use", Bootable: "true"},
	}
	mockCloud.Servers = []cloud.Server{
		{
			ID:     "srv-1",
			Name:   "web-1",
			Status: "ACTIVE",
			Flavor: cloud.ServerFlavor{ID: "f1"},
			AttachedVolumes: []cloud.VolumeAttachment{
				{ID: "vol-1"},
				{ID: "vol-unknown"},
			},
		},
		{
			ID:     "srv-2",
			Name:   "web-2",
			Status: "SHUTOFF",
			Flavor: cloud.ServerFlavor{ID: "f-unknown"},
		},
	}

	servers, err := client.Servers(t.Context())
	if err != nil {
		t.Fatal(err.Error())
	}

	assert.DeepEqual(t, "servers", servers, []cloud.Server{
		{
			ID:     "srv-1",
			Name:   "web-1",
			Status: "ACTIVE",
			// sizing data is joined in from the flavor catalog
			Flavor: cloud.ServerFlavor{ID: "f1", Name: "g-2gb", RAM: 2048, VCPUs: 2, Disk: 50},
			AttachedVolumes: []cloud.VolumeAttachment{
				{ID: "vol-1"},
				{ID: "vol-unknown"},
			},
			// attachments resolve into full volume objects; unknown volume
			// IDs are dropped from the resolved list
			Volumes: []cloud.VolumeDetail{
				{ID: "vol-1", Name: "boot", Size: 100, Status: "in-use", Bootable: "true"},
			},
			AccountID: "v3-tyo3",
		},
		{
			ID:     "srv-2",
			Name:   "web-2",
			Status: "SHUTOFF",
			// a flavor ID that is missing from the catalog stays as-is
			Flavor:    cloud.ServerFlavor{ID: "f-unknown"},
			AccountID: "v3-tyo3",
		},
	})
}

func TestServerActionBodies(t *testing.T) {
	client, mockCloud, _ := setup(t, fleet.IdentityV3)
	ctx := t.Context()

	for _, action := range []cloud.ServerAction{cloud.ActionStart, cloud.ActionStop, cloud.ActionReboot, cloud.ActionForceStop} {
		err := client.PerformAction(ctx, "srv-1", action)
		if err != nil {
			t.Fatal(err.Error())
		}
	}
	err := client.Resize(ctx, "srv-1", "f2")
	if err != nil {
		t.Fatal(err.Error())
	}
	err = client.ConfirmResize(ctx, "srv-1")
	if err != nil {
		t.Fatal(err.Error())
	}
	err = client.RevertResize(ctx, "srv-1")
	if err != nil {
		t.Fatal(err.Error())
	}

	assert.DeepEqual(t, "recorded actions", mockCloud.Actions, []test.RecordedAction{
		{ServerID: "srv-1", Body: map[string]any{"os-start": nil}},
		{ServerID: "srv-1", Body: map[string]any{"os-stop": nil}},
		{ServerID: "srv-1", Body: map[string]any{"reboot": map[string]any{"type": "SOFT"}}},
		{ServerID: "srv-1", Body: map[string]any{"os-stop": map[string]any{"force_shutdown": true}}},
		{ServerID: "srv-1", Body: map[string]any{"resize": map[string]any{"flavorRef": "f2"}}},
		{ServerID: "srv-1", Body: map[string]any{"confirmResize": nil}},
		{ServerID: "srv-1", Body: map[string]any{"revertResize": nil}},
	})
}

func TestUnknownServerActionFailsLocally(t *testing.T) {
	client, mockCloud, _ := setup(t, fleet.IdentityV3)

	err := client.PerformAction(t.Context(), "srv-1", cloud.ServerAction("explode"))
	if err == nil {
		t.Fatal("expected PerformAction to fail, but it did not")
	}
	// the rejection happens before any upstream traffic
	expectAuthCount(t, mockCloud, 0)
	if len(mockCloud.Actions) != 0 {
		t.Errorf("expected no recorded actions, but observed %#v", mockCloud.Actions)
	}
}

func TestConsoleURL(t *testing.T) {
	// the legacy generation uses a server action, the current one a dedicated
	// sub-resource; both yield the same result shape
	for _, version := range []fleet.IdentityVersion{fleet.IdentityV2, fleet.IdentityV3} {
		t.Run(string(version), func(t *testing.T) {
			client, mockCloud, _ := setup(t, version)
			url, err := client.ConsoleURL(t.Context(), "srv-1")
			if err != nil {
				t.Fatal(err.Error())
			}
			if url != mockCloud.ConsoleURL {
				t.Errorf("expected console URL %q, but got %q", mockCloud.ConsoleURL, url)
			}
			// the console request must not be mistaken for a lifecycle action
			if len(mockCloud.Actions) != 0 {
				t.Errorf("expected no recorded actions, but observed %#v", mockCloud.Actions)
			}
		})
	}
}
