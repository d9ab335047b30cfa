package postgres

import "context"

// Adapter is the capability interface over the Postgres protocol client
// (SPEC_FULL.md §6.4). It is treated as opaque/abstract in the core per
// spec.md §1 -- the concrete implementation (a database/sql driver, or the
// instance's administrative HTTP API) lives outside this package.
type Adapter interface {
	DatabaseExists(ctx context.Context, admin AdminCred, database string) (bool, error)
	UserExists(ctx context.Context, admin AdminCred, user string) (bool, error)
	CreateDatabase(ctx context.Context, admin AdminCred, database string) error
	CreateUser(ctx context.Context, admin AdminCred, user, password string) error
	AlterUserPassword(ctx context.Context, admin AdminCred, user, password string) error
	GrantUserOnDatabase(ctx context.Context, admin AdminCred, user, database string) error
	IsGrantee(ctx context.Context, admin AdminCred, readonlyRole, ofRole string) (bool, error)
	GrantSelectToReadonly(ctx context.Context, admin AdminCred, newRole, readonlyRole, database string) error
}
