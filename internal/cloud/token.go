// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package cloud

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// TokenManager owns the cached bearer token for one account. Concurrent
// callers serialize on the mutex, so at most one authentication request is in
// flight per account at any time.
type TokenManager struct {
	accountID    string
	source       tokenSource
	httpClient   *http.Client
	lifetime     time.Duration
	safetyMargin time.Duration
	timeNow      func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func newTokenManager(accountID string, source tokenSource, hc *http.Client, lifetime, safetyMargin time.Duration, timeNow func() time.Time) *TokenManager {
	return &TokenManager{
		accountID:    accountID,
		source:       source,
		httpClient:   hc,
		lifetime:     lifetime,
		safetyMargin: safetyMargin,
		timeNow:      timeNow,
	}
}

// Token returns the cached token if it has not expired yet, and authenticates
// otherwise. The cache expiry deliberately undercuts the token's true remote
// expiry by the configured safety margin.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" && m.timeNow().Before(m.expiresAt) {
		return m.token, nil
	}

	token, err := m.source.IssueToken(ctx, m.httpClient)
	if err != nil {
		authRequestsCounter.WithLabelValues(m.accountID, "failure").Inc()
		return "", err
	}
	authRequestsCounter.WithLabelValues(m.accountID, "success").Inc()

	m.token = token
	m.expiresAt = m.timeNow().Add(m.lifetime - m.safetyMargin)
	return token, nil
}

// Invalidate clears the cached token unconditionally. The next Token() call
// will re-authenticate.
func (m *TokenManager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.expiresAt = time.Time{}
}
