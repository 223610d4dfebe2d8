// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package cloud_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/sapcc/go-bits/assert"

	"github.com/sapcc/fleetview/internal/cloud"
	"github.com/sapcc/fleetview/internal/fleet"
	"github.com/sapcc/fleetview/internal/test"
)

func expectPortPutCount(t *testing.T, mockCloud *test.MockCloud, expected int) {
	t.Helper()
	if mockCloud.PortPutCount != expected {
		t.Errorf("expected %d port updates, but observed %d", expected, mockCloud.PortPutCount)
	}
}

func TestSecurityGroupsAreStamped(t *testing.T) {
	client, mockCloud, _ := setup(t, fleet.IdentityV3)
	mockCloud.SecurityGroups = []cloud.SecurityGroup{
		{ID: "sg-1", Name: "default", Description: "default rules"},
		{ID: "sg-2", Name: "web", Description: "http and https"},
	}

	groups, err := client.SecurityGroups(t.Context())
	if err != nil {
		t.Fatal(err.Error())
	}
	assert.DeepEqual(t, "security groups", groups, []cloud.SecurityGroup{
		{ID: "sg-1", Name: "default", Description: "default rules", AccountID: "v3-tyo3"},
		{ID: "sg-2", Name: "web", Description: "http and https", AccountID: "v3-tyo3"},
	})
}

func TestAddSecurityGroupIsIdempotent(t *testing.T) {
	client, mockCloud, _ := setup(t, fleet.IdentityV3)
	ctx := t.Context()
	mockCloud.Ports = []cloud.Port{
		{ID: "port-1", SecurityGroups: []string{"sg-1"}, DeviceID: "srv-1"},
		{ID: "port-2", SecurityGroups: []string{"sg-1", "sg-2"}, DeviceID: "srv-1"},
		{ID: "port-9", SecurityGroups: []string{"sg-1"}, DeviceID: "srv-other"},
	}

	// only port-1 is missing the group; port-2 already has it and port-9
	// belongs to a different server
	err := client.AddSecurityGroup(ctx, "srv-1", "sg-2")
	if err != nil {
		t.Fatal(err.Error())
	}
	expectPortPutCount(t, mockCloud, 1)
	assert.DeepEqual(t, "port-1 groups", mockCloud.Ports[0].SecurityGroups, []string{"sg-1", "sg-2"})
	assert.DeepEqual(t, "port-9 groups", mockCloud.Ports[2].SecurityGroups, []string{"sg-1"})

	// a second add is a complete no-op
	err = client.AddSecurityGroup(ctx, "srv-1", "sg-2")
	if err != nil {
		t.Fatal(err.Error())
	}
	expectPortPutCount(t, mockCloud, 1)
}

func TestRemoveSecurityGroupIsIdempotent(t *testing.T) {
	client, mockCloud, _ := setup(t, fleet.IdentityV3)
	ctx := t.Context()
	mockCloud.Ports = []cloud.Port{
		{ID: "port-1", SecurityGroups: []string{"sg-1", "sg-2"}, DeviceID: "srv-1"},
		{ID: "port-2", SecurityGroups: []string{"sg-1"}, DeviceID: "srv-1"},
	}

	// removing a group that no port carries does not go upstream
	err := client.RemoveSecurityGroup(ctx, "srv-1", "sg-unknown")
	if err != nil {
		t.Fatal(err.Error())
	}
	expectPortPutCount(t, mockCloud, 0)

	// only port-1 carries sg-2, so only port-1 is rewritten
	err = client.RemoveSecurityGroup(ctx, "srv-1", "sg-2")
	if err != nil {
		t.Fatal(err.Error())
	}
	expectPortPutCount(t, mockCloud, 1)
	assert.DeepEqual(t, "port-1 groups", mockCloud.Ports[0].SecurityGroups, []string{"sg-1"})
	assert.DeepEqual(t, "port-2 groups", mockCloud.Ports[1].SecurityGroups, []string{"sg-1"})
}

func TestAddSecurityGroupAbortsOnPortFailure(t *testing.T) {
	client, mockCloud, _ := setup(t, fleet.IdentityV3)
	mockCloud.Ports = []cloud.Port{
		{ID: "port-1", SecurityGroups: []string{"sg-1"}, DeviceID: "srv-1"},
		{ID: "port-2", SecurityGroups: []string{"sg-1"}, DeviceID: "srv-1"},
		{ID: "port-3", SecurityGroups: []string{"sg-1"}, DeviceID: "srv-1"},
	}
	mockCloud.BrokenPortID = "port-2"

	err := client.AddSecurityGroup(t.Context(), "srv-1", "sg-2")
	var apiErr cloud.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected an APIError, but got %#v", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("expected status %d in error, but got %d", http.StatusInternalServerError, apiErr.Status)
	}

	// ports before the failure keep their update, ports after it are never
	// touched; there is no rollback
	assert.DeepEqual(t, "port-1 groups", mockCloud.Ports[0].SecurityGroups, []string{"sg-1", "sg-2"})
	assert.DeepEqual(t, "port-2 groups", mockCloud.Ports[1].SecurityGroups, []string{"sg-1"})
	assert.DeepEqual(t, "port-3 groups", mockCloud.Ports[2].SecurityGroups, []string{"sg-1"})
	expectPortPutCount(t, mockCloud, 2)
}

func TestRemoveLastSecurityGroupSendsEmptyList(t *testing.T) {
	client, mockCloud, _ := setup(t, fleet.IdentityV3)
	mockCloud.Ports = []cloud.Port{
		{ID: "port-1", SecurityGroups: []string{"sg-1"}, DeviceID: "srv-1"},
	}

	err := client.RemoveSecurityGroup(t.Context(), "srv-1", "sg-1")
	if err != nil {
		t.Fatal(err.Error())
	}
	expectPortPutCount(t, mockCloud, 1)
	// the replacement list must be an empty list, not null
	assert.DeepEqual(t, "port-1 groups", mockCloud.Ports[0].SecurityGroups, []string{})
}
