// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package cloud_test

import (
	"testing"
	"time"

	"github.com/sapcc/go-bits/assert"

	"github.com/sapcc/fleetview/internal/cloud"
	"github.com/sapcc/fleetview/internal/fleet"
	"github.com/sapcc/fleetview/internal/test"
)

func expectFlavorFetchCount(t *testing.T, mockCloud *test.MockCloud, expected int) {
	t.Helper()
	if mockCloud.FlavorFetchCount != expected {
		t.Errorf("expected %d flavor catalog fetches, but observed %d", expected, mockCloud.FlavorFetchCount)
	}
}

func TestFlavorsAreCached(t *testing.T) {
	client, mockCloud, clock := setup(t, fleet.IdentityV3)
	ctx := t.Context()
	mockCloud.Flavors = []cloud.FlavorDetail{
		{ID: "f2", Name: "g-2gb", RAM: 2048, VCPUs: 3, Disk: 100},
		{ID: "f1", Name: "g-1gb", RAM: 1024, VCPUs: 2, Disk: 100},
	}

	flavors, err := client.Flavors(ctx)
	if err != nil {
		t.Fatal(err.Error())
	}
	expectFlavorFetchCount(t, mockCloud, 1)

	// results are stamped with the account ID and sorted by flavor ID
	assert.DeepEqual(t, "flavors", flavors, []cloud.FlavorDetail{
		{ID: "f1", Name: "g-1gb", RAM: 1024, VCPUs: 2, Disk: 100, AccountID: "v3-tyo3"},
		{ID: "f2", Name: "g-2gb", RAM: 2048, VCPUs: 3, Disk: 100, AccountID: "v3-tyo3"},
	})

	// within the cache TTL, repeated calls do not go upstream
	clock.StepBy(9 * time.Minute)
	_, err = client.Flavors(ctx)
	if err != nil {
		t.Fatal(err.Error())
	}
	expectFlavorFetchCount(t, mockCloud, 1)

	// a cache hit does not extend the TTL: expiry counts from the fetch at
	// t=0, so one more minute crosses the 10 minute mark
	clock.StepBy(1 * time.Minute)
	_, err = client.Flavors(ctx)
	if err != nil {
		t.Fatal(err.Error())
	}
	expectFlavorFetchCount(t, mockCloud, 2)
}

func TestFlavorMapIsDetachedFromCache(t *testing.T) {
	client, mockCloud, _ := setup(t, fleet.IdentityV3)
	ctx := t.Context()
	mockCloud.Flavors = []cloud.FlavorDetail{
		{ID: "f1", Name: "g-1gb", RAM: 1024, VCPUs: 2, Disk: 100},
	}

	flavorMap, err := client.FlavorMap(ctx)
	if err != nil {
		t.Fatal(err.Error())
	}

	// mutating the returned map must not leak into the cache
	flavorMap["f1"] = cloud.FlavorDetail{ID: "f1", Name: "tampered"}
	flavorMap["f2"] = cloud.FlavorDetail{ID: "f2", Name: "injected"}

	flavorMap, err = client.FlavorMap(ctx)
	if err != nil {
		t.Fatal(err.Error())
	}
	assert.DeepEqual(t, "cached catalog", flavorMap, map[string]cloud.FlavorDetail{
		"f1": {ID: "f1", Name: "g-1gb", RAM: 1024, VCPUs: 2, Disk: 100},
	})
	expectFlavorFetchCount(t, mockCloud, 1)
}

func TestFlavorCacheServesChangedCatalogAfterExpiry(t *testing.T) {
	client, mockCloud, clock := setup(t, fleet.IdentityV3)
	ctx := t.Context()
	mockCloud.Flavors = []cloud.FlavorDetail{
		{ID: "f1", Name: "g-1gb", RAM: 1024, VCPUs: 2, Disk: 100},
	}

	flavorMap, err := client.FlavorMap(ctx)
	if err != nil {
		t.Fatal(err.Error())
	}
	if _, exists := flavorMap["f1"]; !exists {
		t.Error("expected flavor f1 in catalog")
	}

	// catalog changes upstream are only visible after the TTL has passed
	mockCloud.Flavors = append(mockCloud.Flavors, cloud.FlavorDetail{ID: "f2", Name: "g-2gb", RAM: 2048, VCPUs: 3, Disk: 100})
	flavorMap, err = client.FlavorMap(ctx)
	if err != nil {
		t.Fatal(err.Error())
	}
	if _, exists := flavorMap["f2"]; exists {
		t.Error("expected flavor f2 to not be visible before cache expiry")
	}

	clock.StepBy(10 * time.Minute)
	flavorMap, err = client.FlavorMap(ctx)
	if err != nil {
		t.Fatal(err.Error())
	}
	if _, exists := flavorMap["f2"]; !exists {
		t.Error("expected flavor f2 to be visible after cache expiry")
	}
	expectFlavorFetchCount(t, mockCloud, 2)
}
