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
)

// Gateway executes authenticated calls against one account's service
// endpoints. It recovers from token expiry exactly once per call; every
// other non-success response is surfaced as an APIError.
type Gateway struct {
	accountID  string
	tokens     *TokenManager
	httpClient *http.Client
}

func newGateway(accountID string, tokens *TokenManager, hc *http.Client) *Gateway {
	return &Gateway{accountID: accountID, tokens: tokens, httpClient: hc}
}

// Do issues one authenticated request. A non-nil reqBody is marshaled as
// JSON. A success response with a body is unmarshaled into respBody (unless
// respBody is nil); accepted/no-content responses resolve to an empty result.
func (g *Gateway) Do(ctx context.Context, method, uri string, reqBody, respBody any) error {
	var reqBytes []byte
	if reqBody != nil {
		var err error
		reqBytes, err = json.Marshal(reqBody)
		if err != nil {
			return err
		}
	}

	resp, respBytes, err := g.doOnce(ctx, method, uri, reqBytes)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// our token expired before its cached expiry; re-authenticate and
		// retry the identical call, but only once
		g.tokens.Invalidate()
		resp, respBytes, err = g.doOnce(ctx, method, uri, reqBytes)
		if err != nil {
			return err
		}
	}

	if resp.StatusCode >= 300 {
		return APIError{
			AccountID: g.accountID,
			Method:    method,
			URL:       uri,
			Status:    resp.StatusCode,
			Body:      string(respBytes),
		}
	}

	if resp.StatusCode == http.StatusAccepted || resp.StatusCode == http.StatusNoContent || len(respBytes) == 0 {
		return nil
	}
	if respBody == nil {
		return nil
	}
	err = json.Unmarshal(respBytes, respBody)
	if err != nil {
		return fmt.Errorf("[%s] cannot decode response for %s %s: %w", g.accountID, method, uri, err)
	}
	return nil
}

func (g *Gateway) doOnce(ctx context.Context, method, uri string, reqBytes []byte) (*http.Response, []byte, error) {
	token, err := g.tokens.Token(ctx)
	if err != nil {
		return nil, nil, err
	}

	var reqBody io.Reader
	if reqBytes != nil {
		reqBody = bytes.NewReader(reqBytes)
	}
	req, err := http.NewRequestWithContext(ctx, method, uri, reqBody)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("X-Auth-Token", token)
	if reqBytes != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	upstreamRequestsCounter.WithLabelValues(g.accountID, method).Inc()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("[%s] cannot %s %s: %w", g.accountID, method, uri, err)
	}
	respBytes, err := io.ReadAll(resp.Body)
	if err == nil {
		err = resp.Body.Close()
	} else {
		resp.Body.Close()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("[%s] cannot %s %s: %w", g.accountID, method, uri, err)
	}
	return resp, respBytes, nil
}
