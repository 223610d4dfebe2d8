// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"net/http"

	"github.com/sapcc/go-api-declarations/bininfo"
	"github.com/sapcc/go-bits/httpext"
	"github.com/sapcc/go-bits/logg"
	"github.com/sapcc/go-bits/osext"
	"github.com/spf13/cobra"

	apicmd "github.com/sapcc/fleetview/cmd/api"
	validatecmd "github.com/sapcc/fleetview/cmd/validate"
)

func main() {
	logg.ShowDebug = osext.GetenvBool("FLEETVIEW_DEBUG")

	wrap := httpext.WrapTransport(&http.DefaultTransport)
	wrap.SetOverrideUserAgent(bininfo.Component(), bininfo.VersionOr("rolling"))

	rootCmd := &cobra.Command{
		Use:     "fleetview",
		Short:   "Multi-account cloud compute dashboard API",
		Long:    "Fleetview aggregates servers, flavors and security groups across any number of independently-configured cloud accounts and exposes them over a JSON API.",
		Version: bininfo.VersionOr("unknown"),
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	apicmd.AddCommandTo(rootCmd)
	validatecmd.AddCommandTo(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		logg.Fatal(err.Error())
	}
}
