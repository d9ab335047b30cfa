// Package postgres implements the Postgres connector: reconciling a
// database + role against a shared Postgres instance, and supplying the env
// vars an application needs to connect to it.
package postgres

import "github.com/itlabs-io/connector-operator/pkg/mutate"

const (
	annotationInstanceName = "postgres.connector.itlabs.io/instance-name"
	annotationVaultPath    = "postgres.connector.itlabs.io/vault-path"
	annotationDBName       = "postgres.connector.itlabs.io/db-name"
	annotationDBUsername   = "postgres.connector.itlabs.io/db-username"
)

// RequiredAnnotations lists every annotation that must be present (and
// non-empty) for a workload to opt into the Postgres connector.
var RequiredAnnotations = []string{
	annotationInstanceName,
	annotationVaultPath,
	annotationDBName,
	annotationDBUsername,
}

// Tenant-credential keys, per SPEC_FULL.md §6.3. The env var names the
// mutation pipeline injects are identical to these keys.
const (
	KeyDatabaseName = "DATABASE_NAME"
	KeyDatabaseUser = "DATABASE_USER"
	KeyDatabasePass = "DATABASE_PASSWORD"
	KeyDatabaseHost = "DATABASE_HOST"
	KeyDatabasePort = "DATABASE_PORT"
)

// envTable is the fixed (envName, secretKey) table the mutation pipeline
// injects for a Postgres intent, in the order new variables get appended.
var envTable = []mutate.EnvEntry{
	{Name: KeyDatabaseHost, Key: KeyDatabaseHost},
	{Name: KeyDatabasePort, Key: KeyDatabasePort},
	{Name: KeyDatabaseName, Key: KeyDatabaseName},
	{Name: KeyDatabaseUser, Key: KeyDatabaseUser},
	{Name: KeyDatabasePass, Key: KeyDatabasePass},
}
