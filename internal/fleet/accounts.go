// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// IdentityVersion is the closed set of identity/compute protocol generations
// that an account can be configured with.
type IdentityVersion string

const (
	// IdentityV2 is the legacy generation (identity v2.0, compute v2).
	IdentityV2 IdentityVersion = "v2"
	// IdentityV3 is the current generation (identity v3, compute v2.1).
	IdentityV3 IdentityVersion = "v3"
)

// IsValid returns whether this is one of the supported protocol generations.
func (v IdentityVersion) IsValid() bool {
	return v == IdentityV2 || v == IdentityV3
}

// IsLegacy returns whether this is the legacy protocol generation.
func (v IdentityVersion) IsLegacy() bool {
	return v == IdentityV2
}

// Credentials contains the password credentials for one account.
type Credentials struct {
	Username string
	Password string
	TenantID string
}

// Endpoints contains the service endpoint URLs for one account. All URLs are
// computed once from the account's region and protocol generation; where a
// service expects the tenant ID in its base path, it is already included.
type Endpoints struct {
	Identity     string
	Compute      string
	Network      string
	BlockStorage string
}

// AccountDescriptor describes one configured cloud account. Instances are
// built once by LoadAccounts() and are immutable thereafter.
type AccountDescriptor struct {
	// ID is derived from the protocol generation and region, disambiguated
	// with a tenant ID fragment when several accounts share both.
	ID              string
	IdentityVersion IdentityVersion
	Region          string
	Credentials     Credentials
	Endpoints       Endpoints
}

// defaultServiceDomain is used when an account entry does not override the
// DNS domain that the per-region service hostnames live under.
const defaultServiceDomain = "conoha.io"

type accountEntry struct {
	Version       IdentityVersion `json:"version"`
	Region        string          `json:"region"`
	TenantID      string          `json:"tenant_id"`
	Username      string          `json:"username"`
	Password      string          `json:"password"`
	ServiceDomain string          `json:"service_domain,omitempty"`
}

type accountsFile struct {
	Accounts []accountEntry `json:"accounts"`
}

// LoadAccounts reads and validates the accounts file at the given path.
// Malformed entries, duplicate accounts and an empty account list are all
// rejected here, at process startup, rather than at first use.
func LoadAccounts(path string) ([]AccountDescriptor, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read accounts file: %w", err)
	}

	var parsed accountsFile
	err = UnmarshalJSONStrict(buf, &parsed)
	if err != nil {
		return nil, fmt.Errorf("cannot parse accounts file at %s: %w", path, err)
	}
	if len(parsed.Accounts) == 0 {
		return nil, fmt.Errorf("accounts file at %s does not contain any accounts", path)
	}

	for idx, entry := range parsed.Accounts {
		err := entry.validate()
		if err != nil {
			return nil, fmt.Errorf("invalid account entry at index %d: %w", idx, err)
		}
	}

	// account IDs are derived from version+region; a tenant ID fragment is
	// appended only when that alone would be ambiguous
	baseIDCount := make(map[string]int)
	for _, entry := range parsed.Accounts {
		baseIDCount[entry.baseID()]++
	}

	result := make([]AccountDescriptor, 0, len(parsed.Accounts))
	seen := make(map[string]bool)
	for _, entry := range parsed.Accounts {
		id := entry.baseID()
		if baseIDCount[id] > 1 {
			id += "-" + entry.TenantID[:8]
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate account %q in accounts file", id)
		}
		seen[id] = true
		result = append(result, AccountDescriptor{
			ID:              id,
			IdentityVersion: entry.Version,
			Region:          entry.Region,
			Credentials: Credentials{
				Username: entry.Username,
				Password: entry.Password,
				TenantID: entry.TenantID,
			},
			Endpoints: entry.endpoints(),
		})
	}
	return result, nil
}

func (e accountEntry) validate() error {
	if !e.Version.IsValid() {
		return fmt.Errorf("unknown identity version: %q", string(e.Version))
	}
	if e.Region == "" {
		return fmt.Errorf("missing region")
	}
	if e.TenantID == "" {
		return fmt.Errorf("missing tenant_id")
	}
	if len(e.TenantID) < 8 {
		return fmt.Errorf("tenant_id %q is too short", e.TenantID)
	}
	if e.Username == "" || e.Password == "" {
		return fmt.Errorf("missing credentials")
	}
	return nil
}

func (e accountEntry) baseID() string {
	return string(e.Version) + "-" + e.Region
}

func (e accountEntry) endpoints() Endpoints {
	domain := e.ServiceDomain
	if domain == "" {
		domain = defaultServiceDomain
	}
	base := func(service string) string {
		return fmt.Sprintf("https://%s.%s.%s", service, e.Region, domain)
	}
	if e.Version == IdentityV2 {
		return Endpoints{
			Identity:     base("identity") + "/v2.0",
			Compute:      base("compute") + "/v2/" + e.TenantID,
			Network:      base("networking") + "/v2.0",
			BlockStorage: base("block-storage") + "/v2/" + e.TenantID,
		}
	}
	return Endpoints{
		Identity:     base("identity") + "/v3",
		Compute:      base("compute") + "/v2.1",
		Network:      base("networking") + "/v2.0",
		BlockStorage: base("block-storage") + "/v3/" + e.TenantID,
	}
}

// UnmarshalJSONStrict is like json.Unmarshal, but refuses unknown fields.
func UnmarshalJSONStrict(buf []byte, target any) error {
	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.DisallowUnknownFields()
	return dec.Decode(target)
}
