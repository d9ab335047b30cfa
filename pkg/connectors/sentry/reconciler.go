package sentry

import (
	"context"

	v1alpha1 "github.com/itlabs-io/connector-operator/pkg/apis/connector/v1alpha1"
	"github.com/itlabs-io/connector-operator/pkg/connectors/common"
	"github.com/itlabs-io/connector-operator/pkg/random"
	"github.com/itlabs-io/connector-operator/pkg/secretstore"
)

// InstanceLookup resolves the SentryConnector descriptor by instance name.
// Unlike Postgres/Rabbit, the descriptor carries its admin credential
// directly (SentryConnectorSpec.Token) rather than a Secret-Store pointer.
type InstanceLookup interface {
	LookupInstance(ctx context.Context, name string) (v1alpha1.SentryConnectorSpec, error)
}

// newCapabilities wires the Sentry specialization: team/project/DSN-key
// create-if-absent, plus the delete-then-create re-provisioning path taken
// when the stored DSN has been revoked downstream (SPEC_FULL.md §9 Open
// Question 2, resolved as delete-then-create). dsnOut receives the DSN
// minted by ProvisionDownstream, since BuildTenantCred runs before it's
// known and common.Reconcile's returned value is whatever BuildTenantCred
// produced.
func newCapabilities(intent Intent, lookup InstanceLookup, store secretstore.Gateway, adapter Adapter, dsnOut *string) common.Capabilities[AdminCred, TenantCred] {
	tenantRef, tenantRefErr := secretstore.ParseRef(intent.VaultPath)

	var admin AdminCred

	return common.Capabilities[AdminCred, TenantCred]{
		ResolveAdminPath: func(ctx context.Context) (string, error) {
			spec, err := lookup.LookupInstance(ctx, intent.InstanceName)
			if err != nil {
				return "", err
			}
			admin = AdminCred{URL: spec.URL, Token: spec.Token, Organization: spec.Organization}
			return spec.Organization, nil
		},

		LoadAdminCred: func(ctx context.Context, adminPath string) (AdminCred, error) {
			return admin, nil
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

		// Read-only: checks whether the stored DSN is still live on the
		// project's key list. If it isn't, the state machine reprovisions
		// rather than declaring a conflict -- Sentry is the only connector
		// whose existing tenant credential can be silently superseded.
		ValidateCompatibility: func(ctx context.Context, tenant TenantCred) (bool, error) {
			live, err := adapter.IsDsnLive(ctx, admin, tenant.ProjectSlug, tenant.DSN)
			if err != nil {
				return false, err
			}
			return !live, nil
		},

		DeleteTenantCred: func(ctx context.Context) error {
			if tenantRefErr != nil {
				return tenantRefErr
			}
			return store.DeleteAllVersions(ctx, tenantRef)
		},

		BuildTenantCred: func(ctx context.Context, admin AdminCred) (TenantCred, error) {
			return TenantCred{ProjectSlug: intent.Project}, nil
		},

		ProvisionDownstream: func(ctx context.Context, admin AdminCred, tenant TenantCred) error {
			teamExists, err := adapter.GetTeam(ctx, admin, intent.Team)
			if err != nil {
				return err
			}
			if !teamExists {
				if err := adapter.CreateTeam(ctx, admin, intent.Team); err != nil {
					return err
				}
			}

			projectExists, err := adapter.GetProject(ctx, admin, intent.Team, intent.Project)
			if err != nil {
				return err
			}
			if !projectExists {
				if err := adapter.CreateProject(ctx, admin, intent.Team, intent.Project); err != nil {
					return err
				}
			}

			dsn, err := adapter.CreateProjectKey(ctx, admin, intent.Project, dsnKeyName(intent.Environment))
			if err != nil {
				return err
			}

			*dsnOut = dsn
			return nil
		},

		WriteTenantCred: func(ctx context.Context, tenant TenantCred) error {
			if tenantRefErr != nil {
				return tenantRefErr
			}
			tenant.DSN = *dsnOut
			return store.Create(ctx, tenantRef, tenant.ToMap())
		},
	}
}

// Reconcile runs the shared state machine with the Sentry capability set.
func Reconcile(ctx context.Context, intent Intent, lookup InstanceLookup, store secretstore.Gateway, adapter Adapter, gen random.Generator) (TenantCred, error) {
	var dsn string

	result, err := common.Reconcile(ctx, newCapabilities(intent, lookup, store, adapter, &dsn))
	if err != nil {
		return TenantCred{}, err
	}

	if result.DSN == "" {
		result.DSN = dsn
	}
	return result, nil
}
