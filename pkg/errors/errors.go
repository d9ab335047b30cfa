// Package errors defines the closed set of domain errors shared by every
// connector reconciler and the secret-store gateway. Propagation policy:
// reconcilers never swallow these, the Dispatcher surfaces them unchanged to
// whatever invoked it (admission response, or the reconcile.Reconciler
// return value), and the host event framework decides whether to retry.
package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

// MissingCRD means the connector kind has no descriptor CRD registered in
// the cluster at all (as opposed to no entry matching a given instance
// name, which is UnknownInstance).
type MissingCRD struct {
	Kind string
}

func (e *MissingCRD) Error() string {
	return fmt.Sprintf("no %s connector descriptor is registered in this cluster", e.Kind)
}

// UnknownInstance means the descriptor CRD exists, but no entry matches the
// instance name the workload asked for.
type UnknownInstance struct {
	Kind string
	Name string
}

func (e *UnknownInstance) Error() string {
	return fmt.Sprintf("no %s instance named %q is declared", e.Kind, e.Name)
}

// MissingAdminSecret means the descriptor points at a Secret-Store path that
// has no admin credential written at it.
type MissingAdminSecret struct {
	Path string
}

func (e *MissingAdminSecret) Error() string {
	return fmt.Sprintf("admin credentials missing at secret-store path %q", e.Path)
}

// MissingRequiredAnnotation names the first required annotation key that a
// workload is missing for a connector kind it is otherwise trying to use.
type MissingRequiredAnnotation struct {
	Name string
}

func (e *MissingRequiredAnnotation) Error() string {
	return fmt.Sprintf("missing required annotation %q", e.Name)
}

// EmptyAnnotationValue names a required annotation that is present but
// empty.
type EmptyAnnotationValue struct {
	Name string
}

func (e *EmptyAnnotationValue) Error() string {
	return fmt.Sprintf("annotation %q is present but empty", e.Name)
}

// TenantCredentialConflict is raised by validateCompatibility when an
// existing tenant credential disagrees with the current intent on a field
// that can't be silently reconciled. It is always permanent: the reconciler
// never overwrites to resolve one.
type TenantCredentialConflict struct {
	Field string
}

func (e *TenantCredentialConflict) Error() string {
	return fmt.Sprintf("existing tenant credential conflicts with intent on field %q", e.Field)
}

// InfrastructureServiceProblem wraps an opaque lower-level failure from a
// downstream system (Vault, Postgres, RabbitMQ, Sentry, Keycloak). It is the
// only error kind that implies the failure might be transient and worth
// retrying.
type InfrastructureServiceProblem struct {
	System string
	Cause  error
}

func (e *InfrastructureServiceProblem) Error() string {
	return fmt.Sprintf("%s: %v", e.System, e.Cause)
}

func (e *InfrastructureServiceProblem) Unwrap() error {
	return e.Cause
}

// NewInfrastructureServiceProblem wraps cause with errors.Wrap so the
// original stack trace survives alongside the typed error, matching
// pkg/recutil/reconcile.go's use of errors.Cause to unwrap down to the
// underlying apierrors type.
func NewInfrastructureServiceProblem(system string, cause error) error {
	return errors.Wrap(&InfrastructureServiceProblem{System: system, Cause: cause}, "infrastructure service problem")
}

// NonExistSecret means a read against a path that must already exist came
// back empty. A missing admin credential is reported as MissingAdminSecret
// instead.
type NonExistSecret struct {
	Path string
}

func (e *NonExistSecret) Error() string {
	return fmt.Sprintf("no secret exists at path %q", e.Path)
}

// IsConflict reports whether err is, or wraps, a TenantCredentialConflict.
// Dispatchers use this to decide an error is permanent and needs human
// intervention rather than a host-side retry.
func IsConflict(err error) bool {
	var conflict *TenantCredentialConflict
	return stderrors.As(err, &conflict)
}

// IsTransient reports whether err is, or wraps, an InfrastructureServiceProblem -
// the only kind worth retrying from the host's side.
func IsTransient(err error) bool {
	var problem *InfrastructureServiceProblem
	return stderrors.As(err, &problem)
}
