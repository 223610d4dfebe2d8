// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package cloud

import (
	"context"
	"maps"
	"net/http"
	"slices"
	"strings"
)

// FlavorMap returns the flavor catalog of this account as a mapping from
// flavor ID to FlavorDetail. The catalog is cached for the configured TTL;
// expiry is checked lazily on read, and a cache hit never resets the TTL
// clock. Callers get a detached copy, so they cannot tamper with the cache.
func (c *Client) FlavorMap(ctx context.Context) (map[string]FlavorDetail, error) {
	c.flavorMu.Lock()
	defer c.flavorMu.Unlock()

	now := c.timeNow()
	if c.flavorCache != nil && now.Before(c.flavorExpiresAt) {
		return maps.Clone(c.flavorCache), nil
	}

	var data struct {
		Flavors []FlavorDetail `json:"flavors"`
	}
	err := c.gateway.Do(ctx, http.MethodGet, c.account.Endpoints.Compute+"/flavors/detail", nil, &data)
	if err != nil {
		return nil, err
	}

	result := make(map[string]FlavorDetail, len(data.Flavors))
	for _, flavor := range data.Flavors {
		result[flavor.ID] = flavor
	}
	c.flavorCache = result
	c.flavorExpiresAt = now.Add(c.flavorTTL)
	return maps.Clone(result), nil
}

// Flavors returns the flavor catalog of this account as a detached list,
// with each entry stamped with the owning account ID.
func (c *Client) Flavors(ctx context.Context) ([]FlavorDetail, error) {
	flavorMap, err := c.FlavorMap(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]FlavorDetail, 0, len(flavorMap))
	for _, flavor := range flavorMap {
		flavor.AccountID = c.account.ID
		result = append(result, flavor)
	}
	slices.SortFunc(result, func(lhs, rhs FlavorDetail) int {
		return strings.Compare(lhs.ID, rhs.ID)
	})
	return result, nil
}
