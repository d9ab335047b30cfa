package rabbit

import "context"

// Adapter is the capability interface over the RabbitMQ management API
// (SPEC_FULL.md §6.4), grounded on clients/rabbit/rabbitclient.py's
// AbstractRabbitClient.
type Adapter interface {
	GetUser(ctx context.Context, admin AdminCred, user string) (bool, error)
	CreateUser(ctx context.Context, admin AdminCred, user, password string) error
	GetVhost(ctx context.Context, admin AdminCred, vhost string) (bool, error)
	CreateVhost(ctx context.Context, admin AdminCred, vhost string) error
	GetUserVhostPermissions(ctx context.Context, admin AdminCred, user, vhost string) (bool, error)
	CreateUserVhostPermissions(ctx context.Context, admin AdminCred, user, vhost string) error
}
