// Package common holds the reconciler shape shared by all four connector
// kinds (SPEC_FULL.md §4.2, Design Note 1: "a generic reconciler
// parameterized by a capability set... avoid inheritance"). Grounded on
// pkg/recutil/reconcile.go's ResolveAndReconcile, which resolves an object
// once and then hands off to an inner function, generalized here into a
// fully generic state machine over type parameters instead of a single
// concrete Kubernetes object type.
package common

import "context"

// Capabilities is the set of functions a single connector kind plugs into
// the shared state machine. A (admin credential) and T (tenant credential)
// are concrete per connector.
type Capabilities[A any, T any] struct {
	// ResolveAdminPath looks up the descriptor CRD for this intent's instance
	// name and returns the Secret-Store path holding its admin credentials.
	// Fails with MissingCRD or UnknownInstance.
	ResolveAdminPath func(ctx context.Context) (string, error)

	// LoadAdminCred reads adminPath from the Secret-Store and decodes it.
	// Fails with MissingAdminSecret if nothing is there.
	LoadAdminCred func(ctx context.Context, adminPath string) (A, error)

	// LoadTenantCred reads the tenant path. present is false when no tenant
	// credential has ever been written there.
	LoadTenantCred func(ctx context.Context) (tenant T, present bool, err error)

	// ValidateCompatibility is read-only: it never writes to the
	// Secret-Store or calls a mutating adapter operation. If err is a
	// *errors.TenantCredentialConflict, the state machine terminates in
	// CONFLICT. Otherwise, needsReprovision tells the state machine whether
	// to treat the existing tenant credential as DONE (false) or to rebuild
	// and reprovision it (true) -- the only connector that ever asks for the
	// latter is Sentry, when its DSN key has been revoked downstream
	// (SPEC_FULL.md §9 Open Question 2).
	ValidateCompatibility func(ctx context.Context, tenant T) (needsReprovision bool, err error)

	// DeleteTenantCred removes the existing tenant credential before a
	// reprovision. Only Sentry's capability set sets this; every other
	// connector leaves it nil, since they never return needsReprovision.
	DeleteTenantCred func(ctx context.Context) error

	// BuildTenantCred constructs the tenant credential that provisioning
	// will realize downstream, without performing any I/O itself.
	BuildTenantCred func(ctx context.Context, admin A) (T, error)

	// ProvisionDownstream performs the idempotent create-if-absent calls
	// against the backing system. A failure here means PROVISION_FAILED:
	// the state machine must not call WriteTenantCred.
	ProvisionDownstream func(ctx context.Context, admin A, tenant T) error

	// WriteTenantCred persists tenant to the Secret-Store using
	// create-if-absent semantics.
	WriteTenantCred func(ctx context.Context, tenant T) error
}

// Reconcile runs the shared state machine described in SPEC_FULL.md §4.2:
//
//	resolveDescriptor -> loadAdminCred -> loadTenantCred
//	  present  -> validateCompatibility -> compatible: DONE
//	                                    -> conflict:   CONFLICT (fail)
//	                                    -> needs reprovision: delete, then build+provision+write
//	  absent   -> buildTenantCred -> provisionDownstream -> writeTenantCred -> DONE
//
// It never writes a tenant credential if provisionDownstream fails, so a
// retried reconciliation always re-enters buildTenantCred cleanly.
func Reconcile[A any, T any](ctx context.Context, caps Capabilities[A, T]) (T, error) {
	var zero T

	adminPath, err := caps.ResolveAdminPath(ctx)
	if err != nil {
		return zero, err
	}

	admin, err := caps.LoadAdminCred(ctx, adminPath)
	if err != nil {
		return zero, err
	}

	tenant, present, err := caps.LoadTenantCred(ctx)
	if err != nil {
		return zero, err
	}

	if present {
		needsReprovision, err := caps.ValidateCompatibility(ctx, tenant)
		if err != nil {
			return zero, err
		}

		if !needsReprovision {
			return tenant, nil
		}

		if caps.DeleteTenantCred != nil {
			if err := caps.DeleteTenantCred(ctx); err != nil {
				return zero, err
			}
		}
	}

	built, err := caps.BuildTenantCred(ctx, admin)
	if err != nil {
		return zero, err
	}

	if err := caps.ProvisionDownstream(ctx, admin, built); err != nil {
		return zero, err
	}

	if err := caps.WriteTenantCred(ctx, built); err != nil {
		return zero, err
	}

	return built, nil
}
