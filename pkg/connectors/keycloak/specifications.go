// Package keycloak implements the Keycloak connector: reconciling a realm
// client against a shared Keycloak realm, and supplying the env vars an
// application needs to authenticate with it.
package keycloak

import "github.com/itlabs-io/connector-operator/pkg/mutate"

const (
	annotationInstanceName = "keycloak.connector.itlabs.io/instance-name"
	annotationVaultPath    = "keycloak.connector.itlabs.io/vault-path"
	annotationClientID     = "keycloak.connector.itlabs.io/client-id"
)

var RequiredAnnotations = []string{
	annotationInstanceName,
	annotationVaultPath,
	annotationClientID,
}

const (
	KeyClientID = "KEYCLOAK_CLIENT_ID"
	KeySecret   = "KEYCLOAK_SECRET"
)

var envTable = []mutate.EnvEntry{
	{Name: KeyClientID, Key: KeyClientID},
	{Name: KeySecret, Key: KeySecret},
}
