package postgres

import (
	"context"

	"github.com/mitchellh/mapstructure"

	v1alpha1 "github.com/itlabs-io/connector-operator/pkg/apis/connector/v1alpha1"
	"github.com/itlabs-io/connector-operator/pkg/connectors/common"
	operrors "github.com/itlabs-io/connector-operator/pkg/errors"
	"github.com/itlabs-io/connector-operator/pkg/random"
	"github.com/itlabs-io/connector-operator/pkg/secretstore"
)

// InstanceLookup resolves a PostgresConnector descriptor entry by instance
// name, failing with MissingCRD or UnknownInstance (SPEC_FULL.md §6.5). The
// Connector Registry component implements this.
type InstanceLookup interface {
	LookupInstance(ctx context.Context, name string) (v1alpha1.PostgresInstance, error)
}

// NewCapabilities wires the Postgres specialization of SPEC_FULL.md §4.2's
// shared state machine: skip create-database/create-user when they already
// exist, always reconcile the user's password and grant, and extend the
// optional readonly role's future-table grant when the descriptor configures
// one.
func NewCapabilities(intent Intent, lookup InstanceLookup, store secretstore.Gateway, adapter Adapter, gen random.Generator) common.Capabilities[AdminCred, TenantCred] {
	var instance v1alpha1.PostgresInstance

	tenantRef, tenantRefErr := secretstore.ParseRef(intent.VaultPath)

	return common.Capabilities[AdminCred, TenantCred]{
		ResolveAdminPath: func(ctx context.Context) (string, error) {
			inst, err := lookup.LookupInstance(ctx, intent.InstanceName)
			if err != nil {
				return "", err
			}
			instance = inst
			return inst.SecretStorePath, nil
		},

		LoadAdminCred: func(ctx context.Context, adminPath string) (AdminCred, error) {
			ref, err := secretstore.ParseRef(adminPath)
			if err != nil {
				return AdminCred{}, err
			}

			data, err := store.ReadLatest(ctx, ref)
			if err != nil {
				return AdminCred{}, err
			}
			if data == nil {
				return AdminCred{}, &operrors.MissingAdminSecret{Path: adminPath}
			}

			var cred AdminCred
			if err := mapstructure.Decode(data, &cred); err != nil {
				return AdminCred{}, err
			}

			cred.Host = instance.Host
			cred.Port = PortString(instance.Port)
			cred.ReadonlyUserRef = instance.ReadonlyUserRef

			return cred, nil
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

		// Postgres never reprovisions an existing tenant credential -- only
		// Sentry's DSN-revocation case does (SPEC_FULL.md §9 Open Question
		// 2). A tenant credential whose database/user no longer match the
		// workload's intent is a permanent conflict, not a recoverable one.
		ValidateCompatibility: func(ctx context.Context, tenant TenantCred) (bool, error) {
			if tenant.Database != intent.DBName {
				return false, &operrors.TenantCredentialConflict{Field: "database"}
			}
			if tenant.User != intent.DBUsername {
				return false, &operrors.TenantCredentialConflict{Field: "user"}
			}
			return false, nil
		},

		BuildTenantCred: func(ctx context.Context, admin AdminCred) (TenantCred, error) {
			password, err := gen.Password()
			if err != nil {
				return TenantCred{}, err
			}

			return TenantCred{
				Host:     admin.Host,
				Port:     admin.Port,
				Database: intent.DBName,
				User:     intent.DBUsername,
				Password: password,
			}, nil
		},

		ProvisionDownstream: func(ctx context.Context, admin AdminCred, tenant TenantCred) error {
			dbExists, err := adapter.DatabaseExists(ctx, admin, tenant.Database)
			if err != nil {
				return err
			}
			if !dbExists {
				if err := adapter.CreateDatabase(ctx, admin, tenant.Database); err != nil {
					return err
				}
			}

			userExists, err := adapter.UserExists(ctx, admin, tenant.User)
			if err != nil {
				return err
			}
			if userExists {
				if err := adapter.AlterUserPassword(ctx, admin, tenant.User, tenant.Password); err != nil {
					return err
				}
			} else {
				if err := adapter.CreateUser(ctx, admin, tenant.User, tenant.Password); err != nil {
					return err
				}
			}

			if err := adapter.GrantUserOnDatabase(ctx, admin, tenant.User, tenant.Database); err != nil {
				return err
			}

			if admin.ReadonlyUserRef == "" {
				return nil
			}

			isGrantee, err := adapter.IsGrantee(ctx, admin, admin.ReadonlyUserRef, tenant.User)
			if err != nil {
				return err
			}
			if isGrantee {
				return nil
			}

			return adapter.GrantSelectToReadonly(ctx, admin, tenant.User, admin.ReadonlyUserRef, tenant.Database)
		},

		WriteTenantCred: func(ctx context.Context, tenant TenantCred) error {
			if tenantRefErr != nil {
				return tenantRefErr
			}
			return store.Create(ctx, tenantRef, tenant.ToMap())
		},
	}
}

// Reconcile runs the shared state machine with the Postgres capability set.
func Reconcile(ctx context.Context, intent Intent, lookup InstanceLookup, store secretstore.Gateway, adapter Adapter, gen random.Generator) (TenantCred, error) {
	return common.Reconcile(ctx, NewCapabilities(intent, lookup, store, adapter, gen))
}
