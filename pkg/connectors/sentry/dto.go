package sentry

import "github.com/itlabs-io/connector-operator/pkg/mutate"

// AdminCred carries the organization-wide API credential, embedded directly
// on the SentryConnector descriptor (no Secret-Store indirection, since the
// cluster has exactly one Sentry organization).
type AdminCred struct {
	URL          string
	Token        string
	Organization string
}

// TenantCred is the per-workload DSN credential.
type TenantCred struct {
	DSN         string
	ProjectSlug string
}

// Only SENTRY_DSN is injected as an env var (SPEC_FULL.md §6.3); the project
// slug is kept in the Secret-Store for validateCompatibility's DSN-liveness
// check but never materialized into a container.
var envTable = []mutate.EnvEntry{
	{Name: KeySentryDSN, Key: KeySentryDSN},
}

func (t TenantCred) ToMap() map[string]string {
	return map[string]string{
		KeySentryDSN:         t.DSN,
		KeySentryProjectSlug: t.ProjectSlug,
	}
}

func TenantCredFromMap(data map[string]string) TenantCred {
	return TenantCred{
		DSN:         data[KeySentryDSN],
		ProjectSlug: data[KeySentryProjectSlug],
	}
}

// Intent is the per-workload DTO the parser derives from annotations and the
// app label.
type Intent struct {
	InstanceName string
	VaultPath    string
	Project      string
	Team         string
	Environment  string
}

func (i Intent) TenantPath() string          { return i.VaultPath }
func (i Intent) EnvTable() []mutate.EnvEntry { return envTable }

var _ mutate.Injectable = Intent{}
