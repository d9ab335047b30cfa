// Package registry implements the Connector Registry: CRD lookup by
// instance name, backing every connector's InstanceLookup interface.
// Grounded on pkg/recutil/reconcile.go's use of client.Client against the
// manager's cache.
package registry

import (
	"context"

	"sigs.k8s.io/controller-runtime/pkg/client"

	v1alpha1 "github.com/itlabs-io/connector-operator/pkg/apis/connector/v1alpha1"
	"github.com/itlabs-io/connector-operator/pkg/connectors/keycloak"
	"github.com/itlabs-io/connector-operator/pkg/connectors/postgres"
	"github.com/itlabs-io/connector-operator/pkg/connectors/rabbit"
	"github.com/itlabs-io/connector-operator/pkg/connectors/sentry"
	operrors "github.com/itlabs-io/connector-operator/pkg/errors"
)

// Registry resolves each connector kind's descriptor CRD by instance name
// against the manager's cached client.
type Registry struct {
	client client.Client
}

func New(c client.Client) *Registry {
	return &Registry{client: c}
}

// Each connector package declares its own InstanceLookup interface with the
// same method name (LookupInstance) but a different return type, so one
// Go method can't implement all four -- these thin wrapper types each pick a
// single kind out of the shared Registry.

// Postgres returns the InstanceLookup the postgres reconciler depends on.
func (r *Registry) Postgres() postgres.InstanceLookup { return postgresLookup{r} }

// Rabbit returns the InstanceLookup the rabbit reconciler depends on.
func (r *Registry) Rabbit() rabbit.InstanceLookup { return rabbitLookup{r} }

// Sentry returns the InstanceLookup the sentry reconciler depends on.
func (r *Registry) Sentry() sentry.InstanceLookup { return sentryLookup{r} }

// Keycloak returns the InstanceLookup the keycloak reconciler depends on.
func (r *Registry) Keycloak() keycloak.InstanceLookup { return keycloakLookup{r} }

type postgresLookup struct{ r *Registry }

func (l postgresLookup) LookupInstance(ctx context.Context, name string) (v1alpha1.PostgresInstance, error) {
	var list v1alpha1.PostgresConnectorList
	if err := l.r.client.List(ctx, &list); err != nil {
		return v1alpha1.PostgresInstance{}, operrors.NewInfrastructureServiceProblem("Kubernetes", err)
	}
	if len(list.Items) == 0 {
		return v1alpha1.PostgresInstance{}, &operrors.MissingCRD{Kind: "Postgres"}
	}

	for i := range list.Items {
		if inst := list.Items[i].Spec.InstanceByName(name); inst != nil {
			return *inst, nil
		}
	}
	return v1alpha1.PostgresInstance{}, &operrors.UnknownInstance{Kind: "Postgres", Name: name}
}

type rabbitLookup struct{ r *Registry }

func (l rabbitLookup) LookupInstance(ctx context.Context, name string) (v1alpha1.RabbitInstance, error) {
	var list v1alpha1.RabbitConnectorList
	if err := l.r.client.List(ctx, &list); err != nil {
		return v1alpha1.RabbitInstance{}, operrors.NewInfrastructureServiceProblem("Kubernetes", err)
	}
	if len(list.Items) == 0 {
		return v1alpha1.RabbitInstance{}, &operrors.MissingCRD{Kind: "Rabbit"}
	}

	for i := range list.Items {
		if inst := list.Items[i].Spec.InstanceByName(name); inst != nil {
			return *inst, nil
		}
	}
	return v1alpha1.RabbitInstance{}, &operrors.UnknownInstance{Kind: "Rabbit", Name: name}
}

type sentryLookup struct{ r *Registry }

func (l sentryLookup) LookupInstance(ctx context.Context, name string) (v1alpha1.SentryConnectorSpec, error) {
	var list v1alpha1.SentryConnectorList
	if err := l.r.client.List(ctx, &list); err != nil {
		return v1alpha1.SentryConnectorSpec{}, operrors.NewInfrastructureServiceProblem("Kubernetes", err)
	}
	if len(list.Items) == 0 {
		return v1alpha1.SentryConnectorSpec{}, &operrors.MissingCRD{Kind: "Sentry"}
	}

	for i := range list.Items {
		if list.Items[i].Name == name {
			return list.Items[i].Spec, nil
		}
	}
	return v1alpha1.SentryConnectorSpec{}, &operrors.UnknownInstance{Kind: "Sentry", Name: name}
}

type keycloakLookup struct{ r *Registry }

func (l keycloakLookup) LookupInstance(ctx context.Context, name string) (v1alpha1.KeycloakConnectorSpec, error) {
	var list v1alpha1.KeycloakConnectorList
	if err := l.r.client.List(ctx, &list); err != nil {
		return v1alpha1.KeycloakConnectorSpec{}, operrors.NewInfrastructureServiceProblem("Kubernetes", err)
	}
	if len(list.Items) == 0 {
		return v1alpha1.KeycloakConnectorSpec{}, &operrors.MissingCRD{Kind: "Keycloak"}
	}

	for i := range list.Items {
		if list.Items[i].Name == name {
			return list.Items[i].Spec, nil
		}
	}
	return v1alpha1.KeycloakConnectorSpec{}, &operrors.UnknownInstance{Kind: "Keycloak", Name: name}
}

var (
	_ postgres.InstanceLookup = postgresLookup{}
	_ rabbit.InstanceLookup   = rabbitLookup{}
	_ sentry.InstanceLookup   = sentryLookup{}
	_ keycloak.InstanceLookup = keycloakLookup{}
)
