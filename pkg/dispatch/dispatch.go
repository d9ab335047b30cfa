// Package dispatch implements the Dispatcher (SPEC_FULL.md §4.5): for a
// workload's annotations and labels, it runs every connector kind the
// workload opts into to completion, then (for admission events) applies the
// Mutation Pipeline. Connector kinds run in a fixed order so that a single
// reconciliation's effects are deterministic, per SPEC_FULL.md §4.5 "The
// order in which different connectors are reconciled... must be
// deterministic within a single run."
package dispatch

import (
	"context"

	"github.com/go-logr/logr"
	corev1 "k8s.io/api/core/v1"

	"github.com/itlabs-io/connector-operator/pkg/connectors/keycloak"
	"github.com/itlabs-io/connector-operator/pkg/connectors/postgres"
	"github.com/itlabs-io/connector-operator/pkg/connectors/rabbit"
	"github.com/itlabs-io/connector-operator/pkg/connectors/sentry"
	"github.com/itlabs-io/connector-operator/pkg/mutate"
	"github.com/itlabs-io/connector-operator/pkg/random"
	"github.com/itlabs-io/connector-operator/pkg/secretstore"
)

// Dependencies collects the shared, read/write-safe handles every connector
// reconciler needs (SPEC_FULL.md §5 "Shared resources"). The lookups are
// narrow per-kind interfaces rather than a concrete *registry.Registry so
// that the Dispatcher can be exercised against fakes without a Kubernetes
// client.
type Dependencies struct {
	Store  secretstore.Gateway
	Random random.Generator
	Logger logr.Logger

	PostgresLookup postgres.InstanceLookup
	RabbitLookup   rabbit.InstanceLookup
	SentryLookup   sentry.InstanceLookup
	KeycloakLookup keycloak.InstanceLookup

	Postgres postgres.Adapter
	Rabbit   rabbit.Adapter
	Sentry   sentry.Adapter
	Keycloak keycloak.Adapter
}

type Dispatcher struct {
	deps Dependencies
}

func New(deps Dependencies) *Dispatcher {
	return &Dispatcher{deps: deps}
}

// Reconcile runs every connector kind annotations/labels opt into, in fixed
// order (Postgres, Rabbit, Sentry, Keycloak), returning the Injectable
// intents for the connectors that completed. It fails fast: the first
// reconciler error aborts without rolling back earlier side effects
// (SPEC_FULL.md §4.5 rule 1).
func (d *Dispatcher) Reconcile(ctx context.Context, annotations, labels map[string]string) ([]mutate.Injectable, error) {
	var intents []mutate.Injectable

	if postgres.UsesConnector(annotations) {
		intent, err := postgres.ParseIntent(annotations)
		if err != nil {
			return nil, err
		}
		if _, err := postgres.Reconcile(ctx, intent, d.deps.PostgresLookup, d.deps.Store, d.deps.Postgres, d.deps.Random); err != nil {
			return nil, err
		}
		intents = append(intents, intent)
	}

	if rabbit.UsesConnector(annotations) {
		intent, err := rabbit.ParseIntent(annotations)
		if err != nil {
			return nil, err
		}
		if _, err := rabbit.Reconcile(ctx, intent, d.deps.RabbitLookup, d.deps.Store, d.deps.Rabbit, d.deps.Random, d.deps.Logger); err != nil {
			return nil, err
		}
		intents = append(intents, intent)
	}

	if sentry.UsesConnector(annotations, labels) {
		intent, err := sentry.ParseIntent(annotations, labels)
		if err != nil {
			return nil, err
		}
		if _, err := sentry.Reconcile(ctx, intent, d.deps.SentryLookup, d.deps.Store, d.deps.Sentry, d.deps.Random); err != nil {
			return nil, err
		}
		intents = append(intents, intent)
	}

	if keycloak.UsesConnector(annotations) {
		intent, err := keycloak.ParseIntent(annotations)
		if err != nil {
			return nil, err
		}
		if _, err := keycloak.Reconcile(ctx, intent, d.deps.KeycloakLookup, d.deps.Store, d.deps.Keycloak, d.deps.Random); err != nil {
			return nil, err
		}
		intents = append(intents, intent)
	}

	return intents, nil
}

// Mutate is the admission entry point: it reconciles every active connector,
// then applies the Mutation Pipeline so injected environment variables
// always reference Secret-Store paths that already exist.
func (d *Dispatcher) Mutate(ctx context.Context, spec *corev1.PodSpec, annotations, labels map[string]string) (bool, error) {
	intents, err := d.Reconcile(ctx, annotations, labels)
	if err != nil {
		return false, err
	}
	return mutate.Pod(spec, intents), nil
}
