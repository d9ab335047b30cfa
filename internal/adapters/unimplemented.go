// Package adapters provides placeholder External-Service Adapters: every
// method returns InfrastructureServiceProblem. Concrete protocol clients for
// PostgreSQL/RabbitMQ/Sentry/Keycloak are explicitly out of scope (they are
// "opaque capability interfaces" whose wire protocol a given deployment
// supplies); these placeholders exist only so cmd/connector-operator can
// wire a complete Dispatcher out of the box, and are meant to be swapped for
// a deployment's real clients before going live.
package adapters

import (
	"context"
	"fmt"

	"github.com/itlabs-io/connector-operator/pkg/connectors/keycloak"
	"github.com/itlabs-io/connector-operator/pkg/connectors/postgres"
	"github.com/itlabs-io/connector-operator/pkg/connectors/rabbit"
	"github.com/itlabs-io/connector-operator/pkg/connectors/sentry"
	operrors "github.com/itlabs-io/connector-operator/pkg/errors"
)

func unimplemented(system, op string) error {
	return operrors.NewInfrastructureServiceProblem(system, fmt.Errorf("%s: no adapter configured for this deployment", op))
}

type UnimplementedPostgres struct{}

func (UnimplementedPostgres) DatabaseExists(ctx context.Context, admin postgres.AdminCred, database string) (bool, error) {
	return false, unimplemented("Postgres", "DatabaseExists")
}
func (UnimplementedPostgres) UserExists(ctx context.Context, admin postgres.AdminCred, user string) (bool, error) {
	return false, unimplemented("Postgres", "UserExists")
}
func (UnimplementedPostgres) CreateDatabase(ctx context.Context, admin postgres.AdminCred, database string) error {
	return unimplemented("Postgres", "CreateDatabase")
}
func (UnimplementedPostgres) CreateUser(ctx context.Context, admin postgres.AdminCred, user, password string) error {
	return unimplemented("Postgres", "CreateUser")
}
func (UnimplementedPostgres) AlterUserPassword(ctx context.Context, admin postgres.AdminCred, user, password string) error {
	return unimplemented("Postgres", "AlterUserPassword")
}
func (UnimplementedPostgres) GrantUserOnDatabase(ctx context.Context, admin postgres.AdminCred, user, database string) error {
	return unimplemented("Postgres", "GrantUserOnDatabase")
}
func (UnimplementedPostgres) IsGrantee(ctx context.Context, admin postgres.AdminCred, readonlyRole, ofRole string) (bool, error) {
	return false, unimplemented("Postgres", "IsGrantee")
}
func (UnimplementedPostgres) GrantSelectToReadonly(ctx context.Context, admin postgres.AdminCred, newRole, readonlyRole, database string) error {
	return unimplemented("Postgres", "GrantSelectToReadonly")
}

var _ postgres.Adapter = UnimplementedPostgres{}

type UnimplementedRabbit struct{}

func (UnimplementedRabbit) GetUser(ctx context.Context, admin rabbit.AdminCred, user string) (bool, error) {
	return false, unimplemented("RabbitMQ", "GetUser")
}
func (UnimplementedRabbit) CreateUser(ctx context.Context, admin rabbit.AdminCred, user, password string) error {
	return unimplemented("RabbitMQ", "CreateUser")
}
func (UnimplementedRabbit) GetVhost(ctx context.Context, admin rabbit.AdminCred, vhost string) (bool, error) {
	return false, unimplemented("RabbitMQ", "GetVhost")
}
func (UnimplementedRabbit) CreateVhost(ctx context.Context, admin rabbit.AdminCred, vhost string) error {
	return unimplemented("RabbitMQ", "CreateVhost")
}
func (UnimplementedRabbit) GetUserVhostPermissions(ctx context.Context, admin rabbit.AdminCred, user, vhost string) (bool, error) {
	return false, unimplemented("RabbitMQ", "GetUserVhostPermissions")
}
func (UnimplementedRabbit) CreateUserVhostPermissions(ctx context.Context, admin rabbit.AdminCred, user, vhost string) error {
	return unimplemented("RabbitMQ", "CreateUserVhostPermissions")
}

var _ rabbit.Adapter = UnimplementedRabbit{}

type UnimplementedSentry struct{}

func (UnimplementedSentry) GetTeam(ctx context.Context, admin sentry.AdminCred, slug string) (bool, error) {
	return false, unimplemented("Sentry", "GetTeam")
}
func (UnimplementedSentry) CreateTeam(ctx context.Context, admin sentry.AdminCred, slug string) error {
	return unimplemented("Sentry", "CreateTeam")
}
func (UnimplementedSentry) GetProject(ctx context.Context, admin sentry.AdminCred, team, slug string) (bool, error) {
	return false, unimplemented("Sentry", "GetProject")
}
func (UnimplementedSentry) CreateProject(ctx context.Context, admin sentry.AdminCred, team, slug string) error {
	return unimplemented("Sentry", "CreateProject")
}
func (UnimplementedSentry) CreateProjectKey(ctx context.Context, admin sentry.AdminCred, project, keyName string) (string, error) {
	return "", unimplemented("Sentry", "CreateProjectKey")
}
func (UnimplementedSentry) ListProjectKeys(ctx context.Context, admin sentry.AdminCred, project string) ([]string, error) {
	return nil, unimplemented("Sentry", "ListProjectKeys")
}
func (UnimplementedSentry) IsDsnLive(ctx context.Context, admin sentry.AdminCred, project, dsn string) (bool, error) {
	return false, unimplemented("Sentry", "IsDsnLive")
}

var _ sentry.Adapter = UnimplementedSentry{}

type UnimplementedKeycloak struct{}

func (UnimplementedKeycloak) FindClient(ctx context.Context, admin keycloak.AdminCred, clientID string) (bool, error) {
	return false, unimplemented("Keycloak", "FindClient")
}
func (UnimplementedKeycloak) CreateClient(ctx context.Context, admin keycloak.AdminCred, clientID string) error {
	return unimplemented("Keycloak", "CreateClient")
}
func (UnimplementedKeycloak) ReadClientSecret(ctx context.Context, admin keycloak.AdminCred, clientID string) (string, error) {
	return "", unimplemented("Keycloak", "ReadClientSecret")
}

var _ keycloak.Adapter = UnimplementedKeycloak{}
