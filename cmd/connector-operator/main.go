package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin"
	"github.com/hashicorp/vault/api"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"
	"sigs.k8s.io/controller-runtime/pkg/webhook"
	"sigs.k8s.io/controller-runtime/pkg/webhook/admission"

	"github.com/itlabs-io/connector-operator/cmd"
	"github.com/itlabs-io/connector-operator/internal/adapters"
	deploymentcontroller "github.com/itlabs-io/connector-operator/internal/controller/connector"
	connectorwebhook "github.com/itlabs-io/connector-operator/internal/webhook/connector/v1alpha1"
	v1alpha1 "github.com/itlabs-io/connector-operator/pkg/apis/connector/v1alpha1"
	"github.com/itlabs-io/connector-operator/pkg/connectors/registry"
	"github.com/itlabs-io/connector-operator/pkg/dispatch"
	"github.com/itlabs-io/connector-operator/pkg/random"
	"github.com/itlabs-io/connector-operator/pkg/secretstore"
	"github.com/itlabs-io/connector-operator/pkg/signals"
)

var (
	scheme = runtime.NewScheme()

	app = kingpin.New("connector-operator", "Wires microservice Deployments to their backing services").Version(cmd.VersionStanza())

	defaultVaultAddress = "https://127.0.0.1:8200"

	vaultAddress = app.Flag("vault-address", "Address of the Vault server backing the secret store").Envar("VAULT_ADDR").Default(defaultVaultAddress).String()
	vaultToken   = app.Flag("vault-token", "Token used to authenticate against Vault").Envar("VAULT_TOKEN").String()
	configFile   = app.Flag("config", "Optional path to a YAML file supplying defaults for flags left unset").Envar("CONFIG_FILE").Default("").String()

	commonOpts = cmd.NewCommonOptions(app).WithMetrics(app)
)

// Config holds the subset of flags that may be defaulted from a --config
// file, mirroring cmd/theatre-secrets/main.go's loadConfigFromFile.
type Config struct {
	VaultAddress string `yaml:"vault_address"`
	VaultToken   string `yaml:"vault_token"`
}

func loadConfigFromFile(path string) (Config, error) {
	var cfg Config

	content, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "failed to open config file")
	}

	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return cfg, errors.Wrap(err, "failed to parse config")
	}

	return cfg, nil
}

func init() {
	_ = clientgoscheme.AddToScheme(scheme)
	_ = v1alpha1.AddToScheme(scheme)
}

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))
	logger := commonOpts.Logger()

	ctx, cancel := signals.SetupSignalHandler()
	defer cancel()

	if *configFile != "" {
		logger.Info("loading config", "event", "config.load", "file_path", *configFile)

		cfg, err := loadConfigFromFile(*configFile)
		if err != nil {
			app.Fatalf("failed to load config: %v", err)
		}

		// The config file supplies defaults; an explicitly set flag or
		// environment variable still wins.
		if *vaultAddress == defaultVaultAddress && cfg.VaultAddress != "" {
			*vaultAddress = cfg.VaultAddress
		}
		if *vaultToken == "" && cfg.VaultToken != "" {
			*vaultToken = cfg.VaultToken
		}
	}

	vaultConfig := api.DefaultConfig()
	vaultConfig.Address = *vaultAddress
	vaultClient, err := api.NewClient(vaultConfig)
	if err != nil {
		app.Fatalf("failed to create vault client: %v", err)
	}
	if *vaultToken != "" {
		vaultClient.SetToken(*vaultToken)
	}

	store := secretstore.New(vaultClient, logger.WithName("secretstore"))

	mgr, err := ctrl.NewManager(ctrl.GetConfigOrDie(), ctrl.Options{
		Metrics:          metricsserver.Options{BindAddress: fmt.Sprintf("%s:%d", commonOpts.MetricAddress, commonOpts.MetricPort)},
		LeaderElection:   commonOpts.ManagerLeaderElection,
		LeaderElectionID: "connector-operator.itlabs.io",
		Scheme:           scheme,
		WebhookServer: webhook.NewServer(webhook.Options{
			Port: 443,
		}),
	})
	if err != nil {
		app.Fatalf("failed to create manager: %v", err)
	}

	reg := registry.New(mgr.GetClient())

	// The four adapters below are placeholders: concrete protocol clients for
	// PostgreSQL/RabbitMQ/Sentry/Keycloak are outside the scope of this
	// reconciliation engine (they're opaque capability interfaces), so a real
	// deployment supplies its own and passes them here in place of these.
	deps := dispatch.Dependencies{
		Store:          store,
		Random:         random.Source{},
		Logger:         logger.WithName("dispatch"),
		PostgresLookup: reg.Postgres(),
		RabbitLookup:   reg.Rabbit(),
		SentryLookup:   reg.Sentry(),
		KeycloakLookup: reg.Keycloak(),
		Postgres:       adapters.UnimplementedPostgres{},
		Rabbit:         adapters.UnimplementedRabbit{},
		Sentry:         adapters.UnimplementedSentry{},
		Keycloak:       adapters.UnimplementedKeycloak{},
	}
	dispatcher := dispatch.New(deps)

	if err := (&deploymentcontroller.DeploymentReconciler{
		Client:     mgr.GetClient(),
		Dispatcher: dispatcher,
		Log:        logger.WithName("controllers").WithName("deployment"),
		Recorder:   mgr.GetEventRecorderFor("connector-operator"),
	}).SetupWithManager(mgr); err != nil {
		app.Fatalf("failed to create controller: %v", err)
	}

	mgr.GetWebhookServer().Register("/mutate-pods", &admission.Webhook{
		Handler: connectorwebhook.NewConnectorInjector(
			dispatcher,
			logger.WithName("webhooks").WithName("connector-injector"),
			mgr.GetScheme(),
		),
	})

	if err := mgr.Start(ctx); err != nil {
		app.Fatalf("failed to run manager: %v", err)
	}
}
