// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package cloud

import (
	"fmt"
)

// AuthenticationError is returned when an identity call fails or does not
// yield a token. It is fatal for the affected account and is not retried.
type AuthenticationError struct {
	AccountID string
	Status    int
	Body      string
}

// Error implements the builtin/error interface.
func (e AuthenticationError) Error() string {
	return fmt.Sprintf("[%s] authentication failed with status %d: %s", e.AccountID, e.Status, e.Body)
}

// APIError is returned when an authenticated upstream call yields a
// non-success response after any permitted retry.
type APIError struct {
	AccountID string
	Method    string
	URL       string
	Status    int
	Body      string
}

// Error implements the builtin/error interface.
func (e APIError) Error() string {
	return fmt.Sprintf("[%s] %s %s failed with status %d: %s", e.AccountID, e.Method, e.URL, e.Status, e.Body)
}

// AccountNotFoundError is returned by Registry.Get for unknown account IDs.
type AccountNotFoundError struct {
	AccountID string
}

// Error implements the builtin/error interface.
func (e AccountNotFoundError) Error() string {
	return fmt.Sprintf("no such account: %q", e.AccountID)
}

// NoPortsError is reported when a server has no network ports, which makes
// port-scoped operations (like interface telemetry) impossible. This is a
// reported condition on that server, not an internal failure.
type NoPortsError struct {
	AccountID string
	ServerID  string
}

// Error implements the builtin/error interface.
func (e NoPortsError) Error() string {
	return fmt.Sprintf("[%s] server %s has no network ports", e.AccountID, e.ServerID)
}
