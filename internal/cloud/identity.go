// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sapcc/fleetview/internal/fleet"
)

// tokenSource issues a fresh token for one account. The two supported
// identity protocol generations differ in both the request shape and in
// where the token appears in the response, so the appropriate implementation
// is selected once at client construction.
type tokenSource interface {
	IssueToken(ctx context.Context, hc *http.Client) (string, error)
}

func newTokenSource(account fleet.AccountDescriptor) tokenSource {
	if account.IdentityVersion == fleet.IdentityV2 {
		return v2TokenSource{account}
	}
	return v3TokenSource{account}
}

// v2TokenSource speaks the legacy identity protocol: the token is returned
// inside the response body.
type v2TokenSource struct {
	Account fleet.AccountDescriptor
}

// IssueToken implements the tokenSource interface.
func (s v2TokenSource) IssueToken(ctx context.Context, hc *http.Client) (string, error) {
	creds := s.Account.Credentials
	payload := map[string]any{
		"auth": map[string]any{
			"passwordCredentials": map[string]string{
				"username": creds.Username,
				"password": creds.Password,
			},
			"tenantId": creds.TenantID,
		},
	}
	resp, respBytes, err := postIdentityRequest(ctx, hc, s.Account.Endpoints.Identity+"/tokens", payload)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 300 {
		return "", AuthenticationError{AccountID: s.Account.ID, Status: resp.StatusCode, Body: string(respBytes)}
	}

	var data struct {
		Access struct {
			Token struct {
				ID string `json:"id"`
			} `json:"token"`
		} `json:"access"`
	}
	err = json.Unmarshal(respBytes, &data)
	if err != nil {
		return "", fmt.Errorf("[%s] cannot decode identity response: %w", s.Account.ID, err)
	}
	if data.Access.Token.ID == "" {
		return "", AuthenticationError{AccountID: s.Account.ID, Status: resp.StatusCode, Body: "response does not contain a token"}
	}
	return data.Access.Token.ID, nil
}

// v3TokenSource speaks the current identity protocol: the token is returned
// in the X-Subject-Token response header.
type v3TokenSource struct {
	Account fleet.AccountDescriptor
}

// IssueToken implements the tokenSource interface.
func (s v3TokenSource) IssueToken(ctx context.Context, hc *http.Client) (string, error) {
	creds := s.Account.Credentials
	payload := map[string]any{
		"auth": map[string]any{
			"identity": map[string]any{
				"methods": []string{"password"},
				"password": map[string]any{
					"user": map[string]any{
						"name":     creds.Username,
						"password": creds.Password,
						"domain":   map[string]string{"id": "default"},
					},
				},
			},
			"scope": map[string]any{
				"project": map[string]string{"id": creds.TenantID},
			},
		},
	}
	resp, respBytes, err := postIdentityRequest(ctx, hc, s.Account.Endpoints.Identity+"/auth/tokens", payload)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 300 {
		return "", AuthenticationError{AccountID: s.Account.ID, Status: resp.StatusCode, Body: string(respBytes)}
	}

	token := resp.Header.Get("X-Subject-Token")
	if token == "" {
		return "", AuthenticationError{AccountID: s.Account.ID, Status: resp.StatusCode, Body: "response does not contain a token"}
	}
	return token, nil
}

func postIdentityRequest(ctx context.Context, hc *http.Client, uri string, payload any) (*http.Response, []byte, error) {
	reqBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, bytes.NewReader(reqBytes))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot POST %s: %w", uri, err)
	}
	respBytes, err := io.ReadAll(resp.Body)
	if err == nil {
		err = resp.Body.Close()
	} else {
		resp.Body.Close()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("cannot POST %s: %w", uri, err)
	}
	return resp, respBytes, nil
}
