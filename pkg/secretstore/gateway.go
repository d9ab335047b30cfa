// Package secretstore is the typed façade over a KV v2 secret engine
// described in SPEC_FULL.md §4.4: read latest version, create-if-absent,
// delete all versions, and mask sensitive fields before they ever reach a
// log line. Grounded on clients/vault/vaultclient.py's VaultClient and on
// cmd/theatre-secrets/main.go's direct use of hashicorp/vault/api's Logical
// API (this codebase predates the api package's KVv2 convenience wrapper).
package secretstore

import (
	"context"
	"strings"

	"github.com/go-logr/logr"
	"github.com/hashicorp/vault/api"

	operrors "github.com/itlabs-io/connector-operator/pkg/errors"
)

// securedKeys mirrors VaultClient._SECURED_KEYS exactly, including the
// Non-goal-adjacent quirk that it matches as a substring of the key name,
// not a whole-key match (SPEC_FULL.md §4.0, Design Note "Logging
// redaction").
var securedKeys = []string{"pass", "token", "BROKER_PASSWORD", "DATABASE_PASSWORD", "SENTRY_DSN"}

const securedValue = "******"

// Gateway is the narrow interface the rest of the operator depends on, so
// that an in-memory CAS-aware double can stand in for tests (Design Note
// "Secret-Store abstraction").
type Gateway interface {
	ReadLatest(ctx context.Context, ref Ref) (map[string]string, error)
	Create(ctx context.Context, ref Ref, data map[string]string) error
	DeleteAllVersions(ctx context.Context, ref Ref) error
}

// VaultGateway is the production Gateway, backed by a hashicorp/vault/api
// client.
type VaultGateway struct {
	client *api.Client
	logger logr.Logger
}

func New(client *api.Client, logger logr.Logger) *VaultGateway {
	return &VaultGateway{client: client, logger: logger}
}

// ReadLatest reads the newest version of the KV v2 secret at ref. A read
// against a nonexistent path returns (nil, nil), not an error -- any other
// failure becomes an InfrastructureServiceProblem.
func (g *VaultGateway) ReadLatest(ctx context.Context, ref Ref) (map[string]string, error) {
	path := dataPath(ref)

	g.logger.Info("reading secret version", "event", "vault.read.start", "path", path)

	secret, err := g.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return nil, operrors.NewInfrastructureServiceProblem("Vault", err)
	}
	if secret == nil || secret.Data == nil {
		g.logger.Info("no secret at path", "event", "vault.read.notfound", "path", path)
		return nil, nil
	}

	raw, ok := secret.Data["data"].(map[string]interface{})
	if !ok || raw == nil {
		return nil, nil
	}

	result := make(map[string]string, len(raw))
	for k, v := range raw {
		s, _ := v.(string)
		result[k] = s
	}

	g.logger.Info("read secret version", "event", "vault.read.end", "path", path, "data", g.mask(result))

	return result, nil
}

// Create writes data to ref using compare-and-set=0, so that writing over an
// existing secret is rejected by the store rather than silently overwriting
// it. This is how the "tenant-cred presence implies fully provisioned"
// invariant survives concurrent first-writes (SPEC_FULL.md §5).
//
// Unlike clients/vault/vaultclient.py's _create_or_update_secret, which
// swallows the lower-level exception instead of raising
// InfrastructureServiceProblem, this always returns the wrapped error -- see
// SPEC_FULL.md §9 Open Question 1.
func (g *VaultGateway) Create(ctx context.Context, ref Ref, data map[string]string) error {
	path := dataPath(ref)

	g.logger.Info("writing secret", "event", "vault.write.start", "path", path, "data", g.mask(data))

	payload := map[string]interface{}{
		"data": data,
		"options": map[string]interface{}{
			"cas": 0,
		},
	}

	if _, err := g.client.Logical().WriteWithContext(ctx, path, payload); err != nil {
		return operrors.NewInfrastructureServiceProblem("Vault", err)
	}

	g.logger.Info("wrote secret", "event", "vault.write.end", "path", path)

	return nil
}

// DeleteAllVersions destroys every version and the metadata of the secret at
// ref, used when re-provisioning needs to replace a tenant credential
// wholesale (SPEC_FULL.md §9 Open Question 2).
func (g *VaultGateway) DeleteAllVersions(ctx context.Context, ref Ref) error {
	path := metadataPath(ref)

	g.logger.Info("deleting secret", "event", "vault.delete.start", "path", path)

	if _, err := g.client.Logical().DeleteWithContext(ctx, path); err != nil {
		return operrors.NewInfrastructureServiceProblem("Vault", err)
	}

	return nil
}

func dataPath(ref Ref) string {
	return ref.Mount + "/data/" + ref.Subpath
}

func metadataPath(ref Ref) string {
	return ref.Mount + "/metadata/" + ref.Subpath
}

// mask returns a shallow copy of data with every secured key's value
// replaced, for safe inclusion in a log line. Matches
// VaultClient._get_secured_value's substring-match semantics exactly.
func (g *VaultGateway) mask(data map[string]string) map[string]string {
	masked := make(map[string]string, len(data))
	for k, v := range data {
		masked[k] = maskValue(k, v)
	}
	return masked
}

func maskValue(key, value string) string {
	if value == "" || key == "" {
		return value
	}
	for _, secured := range securedKeys {
		if strings.Contains(key, secured) {
			return securedValue
		}
	}
	return value
}
