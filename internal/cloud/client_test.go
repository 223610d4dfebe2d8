// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package cloud_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sapcc/go-bits/mock"

	"github.com/sapcc/fleetview/internal/cloud"
	"github.com/sapcc/fleetview/internal/fleet"
	"github.com/sapcc/fleetview/internal/test"
)

func setup(t *testing.T, version fleet.IdentityVersion) (*cloud.Client, *test.MockCloud, *mock.Clock) {
	t.Helper()
	account := test.NewAccount(version, "tyo3")
	mockCloud := test.NewMockCloud(account)
	rt := test.NewRoundTripper()
	mockCloud.AddTo(rt)

	clock := mock.NewClock()
	client := cloud.NewClient(account, cloud.ClientOptions{
		HTTPClient: rt.Client(),
		TimeNow:    clock.Now,
	})
	return client, mockCloud, clock
}

func expectAuthCount(t *testing.T, mockCloud *test.MockCloud, expected int) {
	t.Helper()
	if mockCloud.AuthCount != expected {
		t.Errorf("expected %d authentication requests, but observed %d", expected, mockCloud.AuthCount)
	}
}

func TestTokenIsCachedAcrossCalls(t *testing.T) {
	client, mockCloud, clock := setup(t, fleet.IdentityV3)
	ctx := t.Context()

	// the first call authenticates, the second one reuses the cached token
	for range 2 {
		_, err := client.SecurityGroups(ctx)
		if err != nil {
			t.Fatal(err.Error())
		}
	}
	expectAuthCount(t, mockCloud, 1)

	// just before the safety margin eats into the token lifetime, the cached
	// token is still used (24 hours lifetime minus 2 hours margin)
	clock.StepBy(22*time.Hour - 1*time.Minute)
	_, err := client.SecurityGroups(ctx)
	if err != nil {
		t.Fatal(err.Error())
	}
	expectAuthCount(t, mockCloud, 1)

	// once the margin is reached, the client re-authenticates even though the
	// upstream token would still be valid for two more hours
	clock.StepBy(1 * time.Minute)
	_, err = client.SecurityGroups(ctx)
	if err != nil {
		t.Fatal(err.Error())
	}
	expectAuthCount(t, mockCloud, 2)
}

func TestTokenIsCachedPerIdentityVersion(t *testing.T) {
	// both token issuance protocols must yield a usable token
	for _, version := range []fleet.IdentityVersion{fleet.IdentityV2, fleet.IdentityV3} {
		t.Run(string(version), func(t *testing.T) {
			client, mockCloud, _ := setup(t, version)
			_, err := client.SecurityGroups(t.Context())
			if err != nil {
				t.Fatal(err.Error())
			}
			expectAuthCount(t, mockCloud, 1)
		})
	}
}

func TestGatewayRecoversFromRevokedToken(t *testing.T) {
	client, mockCloud, _ := setup(t, fleet.IdentityV3)
	ctx := t.Context()

	_, err := client.SecurityGroups(ctx)
	if err != nil {
		t.Fatal(err.Error())
	}
	expectAuthCount(t, mockCloud, 1)

	// the upstream revokes the token ahead of its nominal expiry; the next
	// call runs into a 401 and must transparently re-authenticate and retry
	mockCloud.RevokeTokens()
	_, err = client.SecurityGroups(ctx)
	if err != nil {
		t.Fatal(err.Error())
	}
	expectAuthCount(t, mockCloud, 2)
}

func TestGatewayRetriesUnauthorizedOnlyOnce(t *testing.T) {
	client, mockCloud, _ := setup(t, fleet.IdentityV3)
	mockCloud.Unauthorized = true

	_, err := client.SecurityGroups(t.Context())
	var apiErr cloud.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected an APIError, but got %#v", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("expected status %d in error, but got %d", http.StatusUnauthorized, apiErr.Status)
	}
	// one authentication for the initial attempt, one for the single retry
	expectAuthCount(t, mockCloud, 2)
}

func TestAuthenticationFailureIsReported(t *testing.T) {
	client, mockCloud, _ := setup(t, fleet.IdentityV3)
	mockCloud.AuthFailure = true

	_, err := client.SecurityGroups(t.Context())
	var authErr cloud.AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected an AuthenticationError, but got %#v", err)
	}
	if authErr.Status != http.StatusInternalServerError {
		t.Errorf("expected status %d in error, but got %d", http.StatusInternalServerError, authErr.Status)
	}
	if authErr.AccountID != client.AccountID() {
		t.Errorf("expected account ID %q in error, but got %q", client.AccountID(), authErr.AccountID)
	}
}
