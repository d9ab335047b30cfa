package postgres

import (
	"strconv"

	"github.com/itlabs-io/connector-operator/pkg/mutate"
)

// AdminCred is the Instance Admin Credential materialized from the
// Secret-Store at the descriptor's admin-user-ref/admin-pass-ref, combined
// with the host/port/readonly-user carried directly on the descriptor CRD.
type AdminCred struct {
	Host            string `mapstructure:"-"`
	Port            string `mapstructure:"-"`
	AdminUser       string `mapstructure:"username"`
	AdminPassword   string `mapstructure:"password"`
	ReadonlyUserRef string `mapstructure:"-"` // empty when the descriptor configures no readonly role
}

// TenantCred is the per-workload database credential written under the
// tenant-scoped Secret-Store path.
type TenantCred struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

// ToMap renders t into the fixed key set SPEC_FULL.md §6.3 names for
// Postgres, ready for Gateway.Create.
func (t TenantCred) ToMap() map[string]string {
	return map[string]string{
		KeyDatabaseHost: t.Host,
		KeyDatabasePort: t.Port,
		KeyDatabaseName: t.Database,
		KeyDatabaseUser: t.User,
		KeyDatabasePass: t.Password,
	}
}

// TenantCredFromMap is the inverse of ToMap, used when reading back an
// existing tenant credential from the Secret-Store.
func TenantCredFromMap(data map[string]string) TenantCred {
	return TenantCred{
		Host:     data[KeyDatabaseHost],
		Port:     data[KeyDatabasePort],
		Database: data[KeyDatabaseName],
		User:     data[KeyDatabaseUser],
		Password: data[KeyDatabasePass],
	}
}

// Intent is the per-workload DTO the parser derives from annotations.
type Intent struct {
	InstanceName string
	VaultPath    string
	DBName       string
	DBUsername   string
}

func (i Intent) TenantPath() string { return i.VaultPath }

func (i Intent) EnvTable() []mutate.EnvEntry { return envTable }

var _ mutate.Injectable = Intent{}

// PortString is a small convenience so callers building a TenantCred from an
// int32 descriptor field don't each reimplement the conversion.
func PortString(port int32) string {
	return strconv.Itoa(int(port))
}
