// Package sentry implements the Sentry connector: reconciling a
// team/project/DSN against a shared Sentry organization, and supplying the
// env var an application needs to report errors. Grounded on
// connectors/sentry_connector/services/sentry_connector.py.
package sentry

const (
	annotationInstanceName = "sentry.connector.itlabs.io/instance-name"
	annotationVaultPath    = "sentry.connector.itlabs.io/vault-path"
	annotationProject      = "sentry.connector.itlabs.io/project"
	annotationTeam         = "sentry.connector.itlabs.io/team"
	annotationEnvironment  = "sentry.connector.itlabs.io/environment"

	labelApp = "app"
)

// RequiredAnnotations is the membership test for this connector. Project and
// team are optional annotations defaulted from the app label; environment is
// also optional, read with a plain map lookup in ParseIntent and defaulted to
// "" (dsnKeyName("") falls back to the environment string itself), matching
// connectors/sentry_connector/factories/dto_factory.py's use of .get() rather
// than a required field.
var RequiredAnnotations = []string{
	annotationInstanceName,
	annotationVaultPath,
}

var RequiredLabels = []string{labelApp}

const (
	KeySentryDSN         = "SENTRY_DSN"
	KeySentryProjectSlug = "SENTRY_PROJECT_SLUG"
)

// environmentShortNames rewrites a workload's environment into the short
// name used for its Sentry DSN key, per SPEC_FULL.md §4.3.
var environmentShortNames = map[string]string{
	"production":  "prod",
	"staging":     "stg",
	"development": "dev",
}

// dsnKeyName returns the short form for environment, or environment itself
// when no rewriting entry applies.
func dsnKeyName(environment string) string {
	if short, ok := environmentShortNames[environment]; ok {
		return short
	}
	return environment
}
