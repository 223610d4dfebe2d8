// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

// Package cloud implements the multi-account cloud-compute client: per-account
// token lifecycle and request execution, flavor caching, the complete
// per-account operation set, and cross-account aggregation.
package cloud

import (
	"net/http"
	"sync"
	"time"

	"github.com/sapcc/fleetview/internal/fleet"
)

const (
	defaultTokenLifetime     = 24 * time.Hour
	defaultTokenSafetyMargin = 2 * time.Hour
	defaultFlavorCacheTTL    = 10 * time.Minute
)

// ClientOptions contains dependencies and tunables for NewClient. The zero
// value selects production defaults throughout.
type ClientOptions struct {
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
	// TimeNow defaults to time.Now. Tests override this with a mock clock.
	TimeNow func() time.Time

	TokenLifetime     time.Duration
	TokenSafetyMargin time.Duration
	FlavorCacheTTL    time.Duration
}

func (o ClientOptions) withDefaults() ClientOptions {
	if o.HTTPClient == nil {
		o.HTTPClient = http.DefaultClient
	}
	if o.TimeNow == nil {
		o.TimeNow = time.Now
	}
	if o.TokenLifetime == 0 {
		o.TokenLifetime = defaultTokenLifetime
	}
	if o.TokenSafetyMargin == 0 {
		o.TokenSafetyMargin = defaultTokenSafetyMargin
	}
	if o.FlavorCacheTTL == 0 {
		o.FlavorCacheTTL = defaultFlavorCacheTTL
	}
	return o
}

// Client is the complete operation set for one account. All mutable state
// (the token cache and the flavor cache) is owned exclusively by this
// instance; nothing is shared across accounts.
type Client struct {
	account fleet.AccountDescriptor
	tokens  *TokenManager
	gateway *Gateway
	timeNow func() time.Time

	flavorTTL       time.Duration
	flavorMu        sync.Mutex
	flavorCache     map[string]FlavorDetail
	flavorExpiresAt time.Time
}

// NewClient builds a Client for the given account.
func NewClient(account fleet.AccountDescriptor, opts ClientOptions) *Client {
	opts = opts.withDefaults()
	tokens := newTokenManager(account.ID, newTokenSource(account),
		opts.HTTPClient, opts.TokenLifetime, opts.TokenSafetyMargin, opts.TimeNow)
	return &Client{
		account:   account,
		tokens:    tokens,
		gateway:   newGateway(account.ID, tokens, opts.HTTPClient),
		timeNow:   opts.TimeNow,
		flavorTTL: opts.FlavorCacheTTL,
	}
}

// AccountID returns the ID of the account that this client operates on.
func (c *Client) AccountID() string {
	return c.account.ID
}

// Account returns the immutable descriptor of this client's account.
func (c *Client) Account() fleet.AccountDescriptor {
	return c.account
}
