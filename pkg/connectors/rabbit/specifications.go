// Package rabbit implements the RabbitMQ connector: reconciling a broker
// user, vhost, and permission grant against a shared RabbitMQ instance, and
// supplying the env vars an application needs to connect to it. Grounded on
// connectors/rabbit_connector/services/rabbit.py's RabbitService.
package rabbit

import "github.com/itlabs-io/connector-operator/pkg/mutate"

const (
	annotationInstanceName = "rabbit.connector.itlabs.io/instance-name"
	annotationVaultPath    = "rabbit.connector.itlabs.io/vault-path"
	annotationUsername     = "rabbit.connector.itlabs.io/username"
	annotationVhost        = "rabbit.connector.itlabs.io/vhost"
)

var RequiredAnnotations = []string{
	annotationInstanceName,
	annotationVaultPath,
	annotationUsername,
	annotationVhost,
}

const (
	KeyBrokerHost     = "BROKER_HOST"
	KeyBrokerPort     = "BROKER_PORT"
	KeyBrokerUser     = "BROKER_USER"
	KeyBrokerPassword = "BROKER_PASSWORD"
	KeyBrokerVhost    = "BROKER_VHOST"
	KeyBrokerURL      = "BROKER_URL"
)

var envTable = []mutate.EnvEntry{
	{Name: KeyBrokerHost, Key: KeyBrokerHost},
	{Name: KeyBrokerPort, Key: KeyBrokerPort},
	{Name: KeyBrokerUser, Key: KeyBrokerUser},
	{Name: KeyBrokerPassword, Key: KeyBrokerPassword},
	{Name: KeyBrokerVhost, Key: KeyBrokerVhost},
	{Name: KeyBrokerURL, Key: KeyBrokerURL},
}
