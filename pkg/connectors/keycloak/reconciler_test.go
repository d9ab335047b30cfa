package keycloak_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1alpha1 "github.com/itlabs-io/connector-operator/pkg/apis/connector/v1alpha1"
	"github.com/itlabs-io/connector-operator/pkg/connectors/keycloak"
	operrors "github.com/itlabs-io/connector-operator/pkg/errors"
	"github.com/itlabs-io/connector-operator/pkg/random"
	"github.com/itlabs-io/connector-operator/pkg/secretstore"
)

type fakeLookup struct {
	spec v1alpha1.KeycloakConnectorSpec
}

func (f fakeLookup) LookupInstance(ctx context.Context, name string) (v1alpha1.KeycloakConnectorSpec, error) {
	return f.spec, nil
}

type fakeAdapter struct {
	clients map[string]bool
	secrets map[string]string

	createClientCalls int
}

func (a *fakeAdapter) FindClient(ctx context.Context, admin keycloak.AdminCred, clientID string) (bool, error) {
	return a.clients[clientID], nil
}

func (a *fakeAdapter) CreateClient(ctx context.Context, admin keycloak.AdminCred, clientID string) error {
	a.createClientCalls++
	a.clients[clientID] = true
	a.secrets[clientID] = "generated-secret"
	return nil
}

func (a *fakeAdapter) ReadClientSecret(ctx context.Context, admin keycloak.AdminCred, clientID string) (string, error) {
	return a.secrets[clientID], nil
}

var _ keycloak.Adapter = (*fakeAdapter)(nil)

var _ = Describe("Reconcile", func() {
	var (
		ctx     context.Context
		store   *secretstore.Fake
		adapter *fakeAdapter
		lookup  fakeLookup
		intent  keycloak.Intent
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = secretstore.NewFake()
		adapter = &fakeAdapter{clients: map[string]bool{}, secrets: map[string]string{}}

		store.Seed(secretstore.Ref{Mount: "secret", Subpath: "keycloak-admin"}, map[string]string{
			"user":     "admin",
			"password": "admin-secret",
		})

		lookup = fakeLookup{spec: v1alpha1.KeycloakConnectorSpec{
			URL:              "https://keycloak.example.com",
			Realm:            "itlabs",
			AdminUserRef:     "vault:secret/data/keycloak-admin#user",
			AdminPasswordRef: "vault:secret/data/keycloak-admin#password",
		}}

		intent = keycloak.Intent{
			InstanceName: "keycloak",
			VaultPath:    "vault:secret/data/app/myapp/keycloak",
			ClientID:     "myapp",
		}
	})

	Context("client absent", func() {
		It("creates the client and writes its generated secret", func() {
			tenant, err := keycloak.Reconcile(ctx, intent, lookup, store, adapter, random.Fixed(""))

			Expect(err).NotTo(HaveOccurred())
			Expect(tenant.ClientID).To(Equal("myapp"))
			Expect(tenant.Secret).To(Equal("generated-secret"))
			Expect(adapter.createClientCalls).To(Equal(1))

			written, err := store.ReadLatest(ctx, secretstore.Ref{Mount: "secret", Subpath: "app/myapp/keycloak"})
			Expect(err).NotTo(HaveOccurred())
			Expect(written["KEYCLOAK_CLIENT_ID"]).To(Equal("myapp"))
			Expect(written["KEYCLOAK_SECRET"]).To(Equal("generated-secret"))
		})
	})

	Context("client already exists", func() {
		BeforeEach(func() {
			adapter.clients["myapp"] = true
			adapter.secrets["myapp"] = "existing-secret"
		})

		It("skips client creation but still captures its secret", func() {
			tenant, err := keycloak.Reconcile(ctx, intent, lookup, store, adapter, random.Fixed(""))

			Expect(err).NotTo(HaveOccurred())
			Expect(adapter.createClientCalls).To(Equal(0))
			Expect(tenant.Secret).To(Equal("existing-secret"))
		})
	})

	Context("tenant credential present with a different client id", func() {
		BeforeEach(func() {
			store.Seed(secretstore.Ref{Mount: "secret", Subpath: "app/myapp/keycloak"}, map[string]string{
				"KEYCLOAK_CLIENT_ID": "some-other-client",
				"KEYCLOAK_SECRET":    "whatever",
			})
		})

		It("fails with a TenantCredentialConflict", func() {
			_, err := keycloak.Reconcile(ctx, intent, lookup, store, adapter, random.Fixed(""))

			var conflict *operrors.TenantCredentialConflict
			Expect(err).To(BeAssignableToTypeOf(conflict))
		})
	})
})
