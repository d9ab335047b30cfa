package keycloak

import "github.com/itlabs-io/connector-operator/pkg/mutate"

// AdminCred is the realm-admin credential resolved from the descriptor's
// individual admin-user-ref/admin-pass-ref Secret-Store key references.
type AdminCred struct {
	URL      string
	Realm    string
	User     string
	Password string
}

// TenantCred is the per-workload client credential.
type TenantCred struct {
	ClientID string
	Secret   string
}

func (t TenantCred) ToMap() map[string]string {
	return map[string]string{
		KeyClientID: t.ClientID,
		KeySecret:   t.Secret,
	}
}

func TenantCredFromMap(data map[string]string) TenantCred {
	return TenantCred{
		ClientID: data[KeyClientID],
		Secret:   data[KeySecret],
	}
}

// Intent is the per-workload DTO the parser derives from annotations.
type Intent struct {
	InstanceName string
	VaultPath    string
	ClientID     string
}

func (i Intent) TenantPath() string          { return i.VaultPath }
func (i Intent) EnvTable() []mutate.EnvEntry { return envTable }

var _ mutate.Injectable = Intent{}
