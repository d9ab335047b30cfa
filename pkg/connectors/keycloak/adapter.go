package keycloak

import "context"

// Adapter is the capability interface over the Keycloak admin REST API
// (SPEC_FULL.md §6.4).
type Adapter interface {
	FindClient(ctx context.Context, admin AdminCred, clientID string) (bool, error)
	CreateClient(ctx context.Context, admin AdminCred, clientID string) error
	ReadClientSecret(ctx context.Context, admin AdminCred, clientID string) (string, error)
}
