package sentry

import "context"

// Adapter is the capability interface over the Sentry API (SPEC_FULL.md
// §6.4), grounded on
// connectors/sentry_connector/clients/sentry/sentryclient.py.
type Adapter interface {
	GetTeam(ctx context.Context, admin AdminCred, slug string) (bool, error)
	CreateTeam(ctx context.Context, admin AdminCred, slug string) error
	GetProject(ctx context.Context, admin AdminCred, team, slug string) (bool, error)
	CreateProject(ctx context.Context, admin AdminCred, team, slug string) error
	CreateProjectKey(ctx context.Context, admin AdminCred, project, keyName string) (dsn string, err error)
	ListProjectKeys(ctx context.Context, admin AdminCred, project string) ([]string, error)
	IsDsnLive(ctx context.Context, admin AdminCred, project, dsn string) (bool, error)
}
