package keycloak

import (
	"context"

	v1alpha1 "github.com/itlabs-io/connector-operator/pkg/apis/connector/v1alpha1"
	"github.com/itlabs-io/connector-operator/pkg/connectors/common"
	operrors "github.com/itlabs-io/connector-operator/pkg/errors"
	"github.com/itlabs-io/connector-operator/pkg/random"
	"github.com/itlabs-io/connector-operator/pkg/secretstore"
)

// InstanceLookup resolves the KeycloakConnector descriptor by instance name.
type InstanceLookup interface {
	LookupInstance(ctx context.Context, name string) (v1alpha1.KeycloakConnectorSpec, error)
}

// resolveKeyRef reads the single key named by a "vault:<mount>/data/<subpath>#<key>"
// reference, failing with MissingAdminSecret if nothing is stored at that
// path or the key is absent.
func resolveKeyRef(ctx context.Context, store secretstore.Gateway, raw string) (string, error) {
	ref, err := secretstore.ParseRef(raw)
	if err != nil {
		return "", err
	}

	data, err := store.ReadLatest(ctx, secretstore.Ref{Mount: ref.Mount, Subpath: ref.Subpath})
	if err != nil {
		return "", err
	}
	if data == nil {
		return "", &operrors.MissingAdminSecret{Path: raw}
	}

	value, ok := data[ref.Key]
	if !ok {
		return "", &operrors.MissingAdminSecret{Path: raw}
	}
	return value, nil
}

// newCapabilities wires the Keycloak specialization: create the realm client
// if absent, then always read back its secret (so the tenant credential
// reflects what Keycloak actually holds, even on a retried reconciliation
// where CreateClient already ran but WriteTenantCred hadn't).
// secretOut receives the secret read back by ProvisionDownstream, since
// common.Reconcile's returned value is whatever BuildTenantCred produced.
func newCapabilities(intent Intent, lookup InstanceLookup, store secretstore.Gateway, adapter Adapter, secretOut *string) common.Capabilities[AdminCred, TenantCred] {
	tenantRef, tenantRefErr := secretstore.ParseRef(intent.VaultPath)

	var descriptor v1alpha1.KeycloakConnectorSpec

	return common.Capabilities[AdminCred, TenantCred]{
		ResolveAdminPath: func(ctx context.Context) (string, error) {
			spec, err := lookup.LookupInstance(ctx, intent.InstanceName)
			if err != nil {
				return "", err
			}
			descriptor = spec
			return spec.AdminUserRef, nil
		},

		LoadAdminCred: func(ctx context.Context, adminPath string) (AdminCred, error) {
			user, err := resolveKeyRef(ctx, store, descriptor.AdminUserRef)
			if err != nil {
				return AdminCred{}, err
			}
			password, err := resolveKeyRef(ctx, store, descriptor.AdminPasswordRef)
			if err != nil {
				return AdminCred{}, err
			}

			return AdminCred{
				URL:      descriptor.URL,
				Realm:    descriptor.Realm,
				User:     user,
				Password: password,
			}, nil
		},

		LoadTenantCred: func(ctx context.Context) (TenantCred, bool, error) {
			if tenantRefErr != nil {
				return TenantCred{}, false, tenantRefErr
			}

			data, err := store.ReadLatest(ctx, tenantRef)
			if err != nil {
				return TenantCred{}, false, err
			}
			if data == nil {
				return TenantCred{}, false, nil
			}

			return TenantCredFromMap(data), true, nil
		},

		ValidateCompatibility: func(ctx context.Context, tenant TenantCred) (bool, error) {
			if tenant.ClientID != intent.ClientID {
				return false, &operrors.TenantCredentialConflict{Field: "client_id"}
			}
			return false, nil
		},

		BuildTenantCred: func(ctx context.Context, admin AdminCred) (TenantCred, error) {
			return TenantCred{ClientID: intent.ClientID}, nil
		},

		ProvisionDownstream: func(ctx context.Context, admin AdminCred, tenant TenantCred) error {
			exists, err := adapter.FindClient(ctx, admin, intent.ClientID)
			if err != nil {
				return err
			}
			if !exists {
				if err := adapter.CreateClient(ctx, admin, intent.ClientID); err != nil {
					return err
				}
			}

			secret, err := adapter.ReadClientSecret(ctx, admin, intent.ClientID)
			if err != nil {
				return err
			}
			*secretOut = secret
			return nil
		},

		WriteTenantCred: func(ctx context.Context, tenant TenantCred) error {
			if tenantRefErr != nil {
				return tenantRefErr
			}
			tenant.Secret = *secretOut
			return store.Create(ctx, tenantRef, tenant.ToMap())
		},
	}
}

func Reconcile(ctx context.Context, intent Intent, lookup InstanceLookup, store secretstore.Gateway, adapter Adapter, gen random.Generator) (TenantCred, error) {
	var secret string

	result, err := common.Reconcile(ctx, newCapabilities(intent, lookup, store, adapter, &secret))
	if err != nil {
		return TenantCred{}, err
	}

	if result.Secret == "" {
		result.Secret = secret
	}
	return result, nil
}
