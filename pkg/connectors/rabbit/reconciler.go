package rabbit

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/mitchellh/mapstructure"

	v1alpha1 "github.com/itlabs-io/connector-operator/pkg/apis/connector/v1alpha1"
	"github.com/itlabs-io/connector-operator/pkg/connectors/common"
	operrors "github.com/itlabs-io/connector-operator/pkg/errors"
	"github.com/itlabs-io/connector-operator/pkg/random"
	"github.com/itlabs-io/connector-operator/pkg/secretstore"
)

// InstanceLookup resolves a RabbitConnector descriptor entry by instance
// name.
type InstanceLookup interface {
	LookupInstance(ctx context.Context, name string) (v1alpha1.RabbitInstance, error)
}

// NewCapabilities wires the Rabbit specialization of SPEC_FULL.md §4.2's
// shared state machine, grounded on
// connectors/rabbit_connector/services/rabbit.py's RabbitService.configure_rabbit:
// a user's password is never altered once it exists (only logged about), and
// the vhost lookup uses the real vhost name rather than the original's
// literal "vhost" string (SPEC_FULL.md §9 Open Question 3).
func NewCapabilities(intent Intent, lookup InstanceLookup, store secretstore.Gateway, adapter Adapter, gen random.Generator, logger logr.Logger) common.Capabilities[AdminCred, TenantCred] {
	tenantRef, tenantRefErr := secretstore.ParseRef(intent.VaultPath)

	return common.Capabilities[AdminCred, TenantCred]{
		ResolveAdminPath: func(ctx context.Context) (string, error) {
			inst, err := lookup.LookupInstance(ctx, intent.InstanceName)
			if err != nil {
				return "", err
			}
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

		ValidateCompatibility: func(ctx context.Context, tenant TenantCred) (bool, error) {
			if tenant.User != intent.Username {
				return false, &operrors.TenantCredentialConflict{Field: "broker_user"}
			}
			if tenant.Vhost != intent.Vhost {
				return false, &operrors.TenantCredentialConflict{Field: "broker_vhost"}
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
				User:     intent.Username,
				Password: password,
				Vhost:    intent.Vhost,
			}, nil
		},

		ProvisionDownstream: func(ctx context.Context, admin AdminCred, tenant TenantCred) error {
			userExists, err := adapter.GetUser(ctx, admin, tenant.User)
			if err != nil {
				return err
			}
			if userExists {
				logger.Info("rabbit user already exists, password left unchanged", "event", "rabbit.user.exists", "user", tenant.User)
			} else {
				if err := adapter.CreateUser(ctx, admin, tenant.User, tenant.Password); err != nil {
					return err
				}
			}

			vhostExists, err := adapter.GetVhost(ctx, admin, tenant.Vhost)
			if err != nil {
				return err
			}
			if vhostExists {
				logger.Info("rabbit vhost already exists", "event", "rabbit.vhost.exists", "vhost", tenant.Vhost)
			} else {
				if err := adapter.CreateVhost(ctx, admin, tenant.Vhost); err != nil {
					return err
				}
			}

			permissionsExist, err := adapter.GetUserVhostPermissions(ctx, admin, tenant.User, tenant.Vhost)
			if err != nil {
				return err
			}
			if permissionsExist {
				logger.Info("rabbit permissions already granted", "event", "rabbit.permissions.exists", "user", tenant.User, "vhost", tenant.Vhost)
				return nil
			}
			return adapter.CreateUserVhostPermissions(ctx, admin, tenant.User, tenant.Vhost)
		},

		WriteTenantCred: func(ctx context.Context, tenant TenantCred) error {
			if tenantRefErr != nil {
				return tenantRefErr
			}
			return store.Create(ctx, tenantRef, tenant.ToMap())
		},
	}
}

func Reconcile(ctx context.Context, intent Intent, lookup InstanceLookup, store secretstore.Gateway, adapter Adapter, gen random.Generator, logger logr.Logger) (TenantCred, error) {
	return common.Reconcile(ctx, NewCapabilities(intent, lookup, store, adapter, gen, logger))
}
