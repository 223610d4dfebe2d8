// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package cloud

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	authRequestsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetview_upstream_auth_requests",
			Help: "Counts authentication requests against the identity APIs.",
		},
		[]string{"account", "outcome"},
	)
	upstreamRequestsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetview_upstream_requests",
			Help: "Counts authenticated requests issued to the upstream cloud APIs.",
		},
		[]string{"account", "method"},
	)
)

func init() {
	prometheus.MustRegister(authRequestsCounter)
	prometheus.MustRegister(upstreamRequestsCounter)
}
