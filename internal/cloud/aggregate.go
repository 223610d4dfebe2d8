// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package cloud

import (
	"context"
	"sync"
	"time"

	"github.com/sapcc/go-bits/errext"
)

// Aggregator produces cross-account views by fanning read calls out to every
// client in the registry. Each account's result is collected independently:
// the aggregate is the union of whatever succeeded, and per-account failures
// are reported alongside it instead of failing the whole call.
type Aggregator struct {
	registry *Registry
	// perAccountTimeout bounds each account's fetch; zero disables the bound.
	perAccountTimeout time.Duration
}

// NewAggregator builds an Aggregator on top of the given registry.
func NewAggregator(registry *Registry, perAccountTimeout time.Duration) *Aggregator {
	return &Aggregator{registry: registry, perAccountTimeout: perAccountTimeout}
}

// AllServers lists the servers of all accounts.
func (a *Aggregator) AllServers(ctx context.Context) ([]Server, errext.ErrorSet) {
	return fanOut(ctx, a, (*Client).Servers)
}

// AllFlavors lists the flavor catalogs of all accounts.
func (a *Aggregator) AllFlavors(ctx context.Context) ([]FlavorDetail, errext.ErrorSet) {
	return fanOut(ctx, a, (*Client).Flavors)
}

// AllSecurityGroups lists the security groups of all accounts.
func (a *Aggregator) AllSecurityGroups(ctx context.Context) ([]SecurityGroup, errext.ErrorSet) {
	return fanOut(ctx, a, (*Client).SecurityGroups)
}

// fanOut runs the given list operation on every client in parallel, waits for
// all of them to settle, and concatenates the successful results in account
// ID order. Order within each account's result set is preserved.
func fanOut[T any](ctx context.Context, a *Aggregator, listFunc func(*Client, context.Context) ([]T, error)) ([]T, errext.ErrorSet) {
	clients := a.registry.AllClients()
	results := make([][]T, len(clients))
	errs := make([]error, len(clients))

	var wg sync.WaitGroup
	for idx, client := range clients {
		wg.Add(1)
		go func(idx int, client *Client) {
			defer wg.Done()
			ctx := ctx
			if a.perAccountTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, a.perAccountTimeout)
				defer cancel()
			}
			results[idx], errs[idx] = listFunc(client, ctx)
		}(idx, client)
	}
	wg.Wait()

	merged := []T{}
	var failed errext.ErrorSet
	for idx := range clients {
		if errs[idx] != nil {
			failed.Add(errs[idx])
			continue
		}
		merged = append(merged, results[idx]...)
	}
	return merged, failed
}
