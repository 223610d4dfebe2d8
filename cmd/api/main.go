// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package apicmd

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sapcc/go-bits/httpapi"
	"github.com/sapcc/go-bits/httpext"
	"github.com/sapcc/go-bits/logg"
	"github.com/sapcc/go-bits/must"
	"github.com/spf13/cobra"

	"github.com/sapcc/fleetview/internal/api"
	"github.com/sapcc/fleetview/internal/cloud"
	"github.com/sapcc/fleetview/internal/fleet"
)

// AddCommandTo mounts this command into the command hierarchy.
func AddCommandTo(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "api",
		Short: "Run the fleetview API server.",
		Long:  "Run the fleetview API server. Configuration is read from environment variables as described in README.md.",
		Args:  cobra.NoArgs,
		Run:   run,
	}
	parent.AddCommand(cmd)
}

func run(cmd *cobra.Command, args []string) {
	_, _ = cmd, args

	cfg := fleet.ParseConfiguration()
	ctx := httpext.ContextWithSIGINT(cmd.Context(), 10*time.Second)

	accounts := must.Return(fleet.LoadAccounts(cfg.AccountsPath))
	registry := must.Return(cloud.NewRegistry(accounts, cloud.ClientOptions{
		TokenLifetime:     cfg.TokenLifetime,
		TokenSafetyMargin: cfg.TokenSafetyMargin,
		FlavorCacheTTL:    cfg.FlavorCacheTTL,
	}))
	aggregator := cloud.NewAggregator(registry, cfg.AggregateTimeout)
	logg.Info("serving %d accounts", len(accounts))

	// wire up HTTP handlers
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"HEAD", "GET", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"Content-Type", "User-Agent"},
	})
	handler := httpapi.Compose(
		api.NewAPI(registry, aggregator),
		httpapi.HealthCheckAPI{SkipRequestLog: true},
		httpapi.WithGlobalMiddleware(corsMiddleware.Handler),
	)
	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.Handle("/metrics", promhttp.Handler())

	// start HTTP server
	logg.Info("listening on %s", cfg.ListenAddress)
	must.Succeed(httpext.ListenAndServeContext(ctx, cfg.ListenAddress, mux))
}
