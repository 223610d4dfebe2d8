// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package cloud

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sapcc/fleetview/internal/fleet"
)

// Registry is the process-wide lookup from account ID to Client. It is built
// once from the validated account catalog and is read-only thereafter.
type Registry struct {
	clients map[string]*Client
}

// NewRegistry builds one Client per configured account. An empty account list
// is a configuration error: it would make every aggregate look valid while
// silently covering nothing.
func NewRegistry(accounts []fleet.AccountDescriptor, opts ClientOptions) (*Registry, error) {
	if len(accounts) == 0 {
		return nil, errors.New("no accounts configured")
	}

	clients := make(map[string]*Client, len(accounts))
	for _, account := range accounts {
		if _, exists := clients[account.ID]; exists {
			return nil, fmt.Errorf("duplicate account: %q", account.ID)
		}
		clients[account.ID] = NewClient(account, opts)
	}
	return &Registry{clients: clients}, nil
}

// Get returns the Client for the given account ID.
func (r *Registry) Get(accountID string) (*Client, error) {
	client, exists := r.clients[accountID]
	if !exists {
		return nil, AccountNotFoundError{AccountID: accountID}
	}
	return client, nil
}

// AllClients returns all clients, ordered by account ID.
func (r *Registry) AllClients() []*Client {
	result := make([]*Client, 0, len(r.clients))
	for _, client := range r.clients {
		result = append(result, client)
	}
	slices.SortFunc(result, func(lhs, rhs *Client) int {
		return strings.Compare(lhs.AccountID(), rhs.AccountID())
	})
	return result
}
