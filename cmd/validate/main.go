// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package validatecmd

import (
	"github.com/sapcc/go-bits/logg"
	"github.com/spf13/cobra"

	"github.com/sapcc/fleetview/internal/fleet"
)

// AddCommandTo mounts this command into the command hierarchy.
func AddCommandTo(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "validate <accounts-file>",
		Example: "  fleetview validate ./accounts.json",
		Short:   "Validates an accounts file.",
		Long:    "Loads an accounts file, applying the same validation as the API server at startup, and prints the resulting account catalog.",
		Args:    cobra.ExactArgs(1),
		Run:     run,
	}
	parent.AddCommand(cmd)
}

func run(cmd *cobra.Command, args []string) {
	_ = cmd

	accounts, err := fleet.LoadAccounts(args[0])
	if err != nil {
		logg.Fatal(err.Error())
	}
	for _, account := range accounts {
		logg.Info("account %s: identity %s, region %s, tenant %s",
			account.ID, string(account.IdentityVersion), account.Region, account.Credentials.TenantID)
	}
	logg.Info("OK: %d accounts", len(accounts))
}
