// Package mutate implements the Mutation Pipeline of SPEC_FULL.md §4.1: a
// pure function that injects Secret-Store-referencing environment variables
// into every container and init-container of a pod spec, never touching a
// variable a user already set. Grounded on
// apis/vault/v1alpha1/secretsinjector_webhook.go's podInjector.Inject, kept
// testable independent of admission-webhook plumbing per Design Note
// "Pod-template mutation as a pure function".
package mutate

import (
	corev1 "k8s.io/api/core/v1"

	"github.com/itlabs-io/connector-operator/pkg/secretstore"
)

// EnvEntry is one row of a connector's fixed (envName, secretKey) table
// (SPEC_FULL.md §4.1 rule 1).
type EnvEntry struct {
	Name string
	Key  string
}

// Injectable is satisfied by every connector's Intent DTO: it names the
// tenant-scoped Secret-Store path new variables should reference, and the
// fixed table of variables to inject for it.
type Injectable interface {
	TenantPath() string
	EnvTable() []EnvEntry
}

// Pod mutates spec in place, appending the env vars named by each intent's
// EnvTable to every container and initContainer that doesn't already define
// them. It reports whether anything changed.
//
// Ordering: containers are processed in spec order; within a container, new
// variables are appended in intents order, then within an intent in
// EnvTable order (SPEC_FULL.md §4.1 "Ordering"). Re-running Pod on its own
// output is a no-op, since every variable it could add will already be
// present (SPEC_FULL.md §4.1 "Idempotence").
func Pod(spec *corev1.PodSpec, intents []Injectable) bool {
	mutated := false

	for i := range spec.Containers {
		if mutateContainer(&spec.Containers[i], intents) {
			mutated = true
		}
	}
	for i := range spec.InitContainers {
		if mutateContainer(&spec.InitContainers[i], intents) {
			mutated = true
		}
	}

	return mutated
}

func mutateContainer(c *corev1.Container, intents []Injectable) bool {
	mutated := false

	present := make(map[string]bool, len(c.Env))
	for _, e := range c.Env {
		present[e.Name] = true
	}

	for _, intent := range intents {
		for _, entry := range intent.EnvTable() {
			if present[entry.Name] {
				continue
			}

			c.Env = append(c.Env, corev1.EnvVar{
				Name:  entry.Name,
				Value: secretstore.EnvValue(intent.TenantPath(), entry.Key),
			})
			present[entry.Name] = true
			mutated = true
		}
	}

	return mutated
}
