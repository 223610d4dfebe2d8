// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package test

import (
	"fmt"

	"github.com/sapcc/fleetview/internal/fleet"
)

// NewAccount builds an AccountDescriptor like fleet.LoadAccounts would derive
// it from an accounts file entry with the given protocol generation and
// region.
func NewAccount(version fleet.IdentityVersion, region string) fleet.AccountDescriptor {
	tenantID := "tenant-id-for-" + region
	base := func(service string) string {
		return fmt.Sprintf("https://%s.%s.conoha.io", service, region)
	}

	var endpoints fleet.Endpoints
	if version.IsLegacy() {
		endpoints = fleet.Endpoints{
			Identity:     base("identity") + "/v2.0",
			Compute:      base("compute") + "/v2/" + tenantID,
			Network:      base("networking") + "/v2.0",
			BlockStorage: base("block-storage") + "/v2/" + tenantID,
		}
	} else {
		endpoints = fleet.Endpoints{
			Identity:     base("identity") + "/v3",
			Compute:      base("compute") + "/v2.1",
			Network:      base("networking") + "/v2.0",
			BlockStorage: base("block-storage") + "/v3/" + tenantID,
		}
	}

	return fleet.AccountDescriptor{
		ID:              string(version) + "-" + region,
		IdentityVersion: version,
		Region:          region,
		Credentials: fleet.Credentials{
			Username: "testuser",
			Password: "supersecret",
			TenantID: tenantID,
		},
		Endpoints: endpoints,
	}
}
