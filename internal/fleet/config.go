// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"time"

	"github.com/sapcc/go-bits/logg"
	"github.com/sapcc/go-bits/osext"
)

// Configuration contains all process-level configuration values.
type Configuration struct {
	AccountsPath  string
	ListenAddress string

	// TokenLifetime is how long the upstream identity service considers an
	// issued token valid. TokenSafetyMargin is subtracted from it when
	// computing the local cache expiry, so that we never present a token
	// that is about to expire mid-request.
	TokenLifetime     time.Duration
	TokenSafetyMargin time.Duration

	FlavorCacheTTL time.Duration

	// AggregateTimeout bounds each account's share of a cross-account
	// fan-out, so that one stuck account cannot stall the whole aggregate.
	AggregateTimeout time.Duration
}

// ParseConfiguration obtains a Configuration instance from the corresponding
// environment variables. Aborts on error.
func ParseConfiguration() Configuration {
	cfg := Configuration{
		AccountsPath:      osext.MustGetenv("FLEETVIEW_ACCOUNTS_PATH"),
		ListenAddress:     osext.GetenvOrDefault("FLEETVIEW_API_LISTEN_ADDRESS", ":8080"),
		TokenLifetime:     getenvDuration("FLEETVIEW_TOKEN_LIFETIME", 24*time.Hour),
		TokenSafetyMargin: getenvDuration("FLEETVIEW_TOKEN_SAFETY_MARGIN", 2*time.Hour),
		FlavorCacheTTL:    getenvDuration("FLEETVIEW_FLAVOR_CACHE_TTL", 10*time.Minute),
		AggregateTimeout:  getenvDuration("FLEETVIEW_AGGREGATE_TIMEOUT", 30*time.Second),
	}
	if cfg.TokenSafetyMargin >= cfg.TokenLifetime {
		logg.Fatal("FLEETVIEW_TOKEN_SAFETY_MARGIN (%s) must be smaller than FLEETVIEW_TOKEN_LIFETIME (%s)",
			cfg.TokenSafetyMargin.String(), cfg.TokenLifetime.String())
	}
	return cfg
}

func getenvDuration(key string, defaultValue time.Duration) time.Duration {
	val := osext.GetenvOrDefault(key, defaultValue.String())
	d, err := time.ParseDuration(val)
	if err != nil {
		logg.Fatal("malformed %s: %s", key, err.Error())
	}
	return d
}
