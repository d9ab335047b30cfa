package rabbit

import (
	"fmt"

	"github.com/itlabs-io/connector-operator/pkg/mutate"
)

// AdminCred is the RabbitMQ management API credential materialized from the
// descriptor's Secret-Store path.
type AdminCred struct {
	Host          string `mapstructure:"host"`
	Port          string `mapstructure:"port"`
	AdminUser     string `mapstructure:"username"`
	AdminPassword string `mapstructure:"password"`
}

// TenantCred is the per-workload broker credential written to the
// tenant-scoped Secret-Store path.
type TenantCred struct {
	Host     string
	Port     string
	User     string
	Password string
	Vhost    string
}

// URL renders the amqp connection string the BROKER_URL key carries.
func (t TenantCred) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/%s", t.User, t.Password, t.Host, t.Port, t.Vhost)
}

func (t TenantCred) ToMap() map[string]string {
	return map[string]string{
		KeyBrokerHost:     t.Host,
		KeyBrokerPort:     t.Port,
		KeyBrokerUser:     t.User,
		KeyBrokerPassword: t.Password,
		KeyBrokerVhost:    t.Vhost,
		KeyBrokerURL:      t.URL(),
	}
}

func TenantCredFromMap(data map[string]string) TenantCred {
	return TenantCred{
		Host:     data[KeyBrokerHost],
		Port:     data[KeyBrokerPort],
		User:     data[KeyBrokerUser],
		Password: data[KeyBrokerPassword],
		Vhost:    data[KeyBrokerVhost],
	}
}

// Intent is the per-workload DTO the parser derives from annotations.
type Intent struct {
	InstanceName string
	VaultPath    string
	Username     string
	Vhost        string
}

func (i Intent) TenantPath() string          { return i.VaultPath }
func (i Intent) EnvTable() []mutate.EnvEntry { return envTable }

var _ mutate.Injectable = Intent{}
