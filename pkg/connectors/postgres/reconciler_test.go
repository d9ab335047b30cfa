package postgres_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1alpha1 "github.com/itlabs-io/connector-operator/pkg/apis/connector/v1alpha1"
	"github.com/itlabs-io/connector-operator/pkg/connectors/postgres"
	operrors "github.com/itlabs-io/connector-operator/pkg/errors"
	"github.com/itlabs-io/connector-operator/pkg/random"
	"github.com/itlabs-io/connector-operator/pkg/secretstore"
)

type fakeLookup struct {
	instances map[string]v1alpha1.PostgresInstance
}

func (f fakeLookup) LookupInstance(ctx context.Context, name string) (v1alpha1.PostgresInstance, error) {
	inst, ok := f.instances["primary"]
	if !ok || name != "primary" {
		return v1alpha1.PostgresInstance{}, &operrors.UnknownInstance{Kind: "Postgres", Name: name}
	}
	return inst, nil
}

type fakeAdapter struct {
	existingDatabases map[string]bool
	existingUsers     map[string]bool
	grantees          map[string]bool

	createDatabaseCalls int
	createUserCalls     int
	alterPasswordCalls  int
	grantCalls          int
	readonlyGrantCalls  int
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{
		existingDatabases: map[string]bool{},
		existingUsers:     map[string]bool{},
		grantees:          map[string]bool{},
	}
}

func (a *fakeAdapter) DatabaseExists(ctx context.Context, admin postgres.AdminCred, database string) (bool, error) {
	return a.existingDatabases[database], nil
}

func (a *fakeAdapter) UserExists(ctx context.Context, admin postgres.AdminCred, user string) (bool, error) {
	return a.existingUsers[user], nil
}

func (a *fakeAdapter) CreateDatabase(ctx context.Context, admin postgres.AdminCred, database string) error {
	a.createDatabaseCalls++
	a.existingDatabases[database] = true
	return nil
}

func (a *fakeAdapter) CreateUser(ctx context.Context, admin postgres.AdminCred, user, password string) error {
	a.createUserCalls++
	a.existingUsers[user] = true
	return nil
}

func (a *fakeAdapter) AlterUserPassword(ctx context.Context, admin postgres.AdminCred, user, password string) error {
	a.alterPasswordCalls++
	return nil
}

func (a *fakeAdapter) GrantUserOnDatabase(ctx context.Context, admin postgres.AdminCred, user, database string) error {
	a.grantCalls++
	return nil
}

func (a *fakeAdapter) IsGrantee(ctx context.Context, admin postgres.AdminCred, readonlyRole, ofRole string) (bool, error) {
	return a.grantees[readonlyRole+"/"+ofRole], nil
}

func (a *fakeAdapter) GrantSelectToReadonly(ctx context.Context, admin postgres.AdminCred, newRole, readonlyRole, database string) error {
	a.readonlyGrantCalls++
	a.grantees[readonlyRole+"/"+newRole] = true
	return nil
}

var _ postgres.Adapter = (*fakeAdapter)(nil)

var _ = Describe("Reconcile", func() {
	var (
		ctx     context.Context
		store   *secretstore.Fake
		adapter *fakeAdapter
		lookup  fakeLookup
		intent  postgres.Intent
		adminRef secretstore.Ref
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = secretstore.NewFake()
		adapter = newFakeAdapter()

		adminRef = secretstore.Ref{Mount: "secret", Subpath: "connectors/postgres/primary"}
		store.Seed(adminRef, map[string]string{
			"username": "admin",
			"password": "admin-secret",
		})

		lookup = fakeLookup{instances: map[string]v1alpha1.PostgresInstance{
			"primary": {
				Name:            "primary",
				SecretStorePath: "vault:secret/data/connectors/postgres/primary",
				Host:            "postgres.internal",
				Port:            5432,
				ReadonlyUserRef: "readonly",
			},
		}}

		intent = postgres.Intent{
			InstanceName: "primary",
			VaultPath:    "vault:secret/data/app/billing/postgres",
			DBName:       "billing",
			DBUsername:   "billing-app",
		}
	})

	Context("first reconciliation, database and user absent", func() {
		It("creates the database, the user, grants it, and writes the tenant credential", func() {
			tenant, err := postgres.Reconcile(ctx, intent, lookup, store, adapter, random.Fixed("generated-password"))

			Expect(err).NotTo(HaveOccurred())
			Expect(tenant.Database).To(Equal("billing"))
			Expect(tenant.User).To(Equal("billing-app"))
			Expect(tenant.Password).To(Equal("generated-password"))
			Expect(tenant.Host).To(Equal("postgres.internal"))
			Expect(tenant.Port).To(Equal("5432"))

			Expect(adapter.createDatabaseCalls).To(Equal(1))
			Expect(adapter.createUserCalls).To(Equal(1))
			Expect(adapter.alterPasswordCalls).To(Equal(0))
			Expect(adapter.grantCalls).To(Equal(1))
			Expect(adapter.readonlyGrantCalls).To(Equal(1))

			written, err := store.ReadLatest(ctx, secretstore.Ref{Mount: "secret", Subpath: "app/billing/postgres"})
			Expect(err).NotTo(HaveOccurred())
			Expect(written["DATABASE_NAME"]).To(Equal("billing"))
			Expect(written["DATABASE_PASSWORD"]).To(Equal("generated-password"))
		})
	})

	Context("database already exists but user doesn't", func() {
		BeforeEach(func() {
			adapter.existingDatabases["billing"] = true
		})

		It("skips create-database but still creates the user", func() {
			_, err := postgres.Reconcile(ctx, intent, lookup, store, adapter, random.Fixed("generated-password"))

			Expect(err).NotTo(HaveOccurred())
			Expect(adapter.createDatabaseCalls).To(Equal(0))
			Expect(adapter.createUserCalls).To(Equal(1))
		})
	})

	Context("user already exists", func() {
		BeforeEach(func() {
			adapter.existingUsers["billing-app"] = true
		})

		It("alters the password instead of creating the user", func() {
			_, err := postgres.Reconcile(ctx, intent, lookup, store, adapter, random.Fixed("generated-password"))

			Expect(err).NotTo(HaveOccurred())
			Expect(adapter.createUserCalls).To(Equal(0))
			Expect(adapter.alterPasswordCalls).To(Equal(1))
		})
	})

	Context("readonly role already has the grant", func() {
		BeforeEach(func() {
			adapter.grantees["readonly/billing-app"] = true
		})

		It("does not re-issue the readonly grant", func() {
			_, err := postgres.Reconcile(ctx, intent, lookup, store, adapter, random.Fixed("generated-password"))

			Expect(err).NotTo(HaveOccurred())
			Expect(adapter.readonlyGrantCalls).To(Equal(0))
		})
	})

	Context("tenant credential already present and matches the intent", func() {
		BeforeEach(func() {
			tenantRef := secretstore.Ref{Mount: "secret", Subpath: "app/billing/postgres"}
			store.Seed(tenantRef, map[string]string{
				"DATABASE_HOST":     "postgres.internal",
				"DATABASE_PORT":     "5432",
				"DATABASE_NAME":     "billing",
				"DATABASE_USER":     "billing-app",
				"DATABASE_PASSWORD": "already-set",
			})
		})

		It("returns the existing credential without touching the adapter", func() {
			tenant, err := postgres.Reconcile(ctx, intent, lookup, store, adapter, random.Fixed("generated-password"))

			Expect(err).NotTo(HaveOccurred())
			Expect(tenant.Password).To(Equal("already-set"))
			Expect(adapter.createDatabaseCalls).To(Equal(0))
			Expect(adapter.createUserCalls).To(Equal(0))
			Expect(adapter.grantCalls).To(Equal(0))
		})
	})

	Context("tenant credential present but database no longer matches the intent", func() {
		BeforeEach(func() {
			tenantRef := secretstore.Ref{Mount: "secret", Subpath: "app/billing/postgres"}
			store.Seed(tenantRef, map[string]string{
				"DATABASE_HOST":     "postgres.internal",
				"DATABASE_PORT":     "5432",
				"DATABASE_NAME":     "some-other-db",
				"DATABASE_USER":     "billing-app",
				"DATABASE_PASSWORD": "already-set",
			})
		})

		It("fails with a TenantCredentialConflict", func() {
			_, err := postgres.Reconcile(ctx, intent, lookup, store, adapter, random.Fixed("generated-password"))

			var conflict *operrors.TenantCredentialConflict
			Expect(err).To(BeAssignableToTypeOf(conflict))
		})
	})

	Context("instance name unknown to the registry", func() {
		It("fails with UnknownInstance", func() {
			intent.InstanceName = "doesnotexist"

			_, err := postgres.Reconcile(ctx, intent, lookup, store, adapter, random.Fixed("generated-password"))

			var unknown *operrors.UnknownInstance
			Expect(err).To(BeAssignableToTypeOf(unknown))
		})
	})
})
