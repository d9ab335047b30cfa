package sentry_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1alpha1 "github.com/itlabs-io/connector-operator/pkg/apis/connector/v1alpha1"
	"github.com/itlabs-io/connector-operator/pkg/connectors/sentry"
	"github.com/itlabs-io/connector-operator/pkg/random"
	"github.com/itlabs-io/connector-operator/pkg/secretstore"
)

type fakeLookup struct {
	spec v1alpha1.SentryConnectorSpec
}

func (f fakeLookup) LookupInstance(ctx context.Context, name string) (v1alpha1.SentryConnectorSpec, error) {
	return f.spec, nil
}

type fakeAdapter struct {
	teams     map[string]bool
	projects  map[string]bool
	liveDSNs  map[string]bool
	dsnToMint string

	createTeamCalls     int
	createProjectCalls  int
	createProjectKeyCalls int
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{teams: map[string]bool{}, projects: map[string]bool{}, liveDSNs: map[string]bool{}}
}

func (a *fakeAdapter) GetTeam(ctx context.Context, admin sentry.AdminCred, slug string) (bool, error) {
	return a.teams[slug], nil
}

func (a *fakeAdapter) CreateTeam(ctx context.Context, admin sentry.AdminCred, slug string) error {
	a.createTeamCalls++
	a.teams[slug] = true
	return nil
}

func (a *fakeAdapter) GetProject(ctx context.Context, admin sentry.AdminCred, team, slug string) (bool, error) {
	return a.projects[slug], nil
}

func (a *fakeAdapter) CreateProject(ctx context.Context, admin sentry.AdminCred, team, slug string) error {
	a.createProjectCalls++
	a.projects[slug] = true
	return nil
}

func (a *fakeAdapter) CreateProjectKey(ctx context.Context, admin sentry.AdminCred, project, keyName string) (string, error) {
	a.createProjectKeyCalls++
	dsn := a.dsnToMint
	if dsn == "" {
		dsn = "https://newkey@sentry.example.com/" + project
	}
	a.liveDSNs[dsn] = true
	return dsn, nil
}

func (a *fakeAdapter) ListProjectKeys(ctx context.Context, admin sentry.AdminCred, project string) ([]string, error) {
	var keys []string
	for dsn := range a.liveDSNs {
		keys = append(keys, dsn)
	}
	return keys, nil
}

func (a *fakeAdapter) IsDsnLive(ctx context.Context, admin sentry.AdminCred, project, dsn string) (bool, error) {
	return a.liveDSNs[dsn], nil
}

var _ sentry.Adapter = (*fakeAdapter)(nil)

var _ = Describe("Reconcile", func() {
	var (
		ctx     context.Context
		store   *secretstore.Fake
		adapter *fakeAdapter
		lookup  fakeLookup
		intent  sentry.Intent
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = secretstore.NewFake()
		adapter = newFakeAdapter()

		lookup = fakeLookup{spec: v1alpha1.SentryConnectorSpec{
			URL:          "https://sentry.example.com",
			Token:        "org-token",
			Organization: "itlabs",
		}}

		intent = sentry.Intent{
			InstanceName: "sentry",
			VaultPath:    "vault:secret/data/app/myapp/sentry",
			Project:      "myapp",
			Team:         "myapp",
			Environment:  "production",
		}
	})

	Context("S4 initial provisioning", func() {
		It("creates team and project, mints a DSN named after the short environment, and writes the tenant credential", func() {
			tenant, err := sentry.Reconcile(ctx, intent, lookup, store, adapter, random.Fixed(""))

			Expect(err).NotTo(HaveOccurred())
			Expect(tenant.ProjectSlug).To(Equal("myapp"))
			Expect(tenant.DSN).NotTo(BeEmpty())

			Expect(adapter.createTeamCalls).To(Equal(1))
			Expect(adapter.createProjectCalls).To(Equal(1))
			Expect(adapter.createProjectKeyCalls).To(Equal(1))

			written, err := store.ReadLatest(ctx, secretstore.Ref{Mount: "secret", Subpath: "app/myapp/sentry"})
			Expect(err).NotTo(HaveOccurred())
			Expect(written["SENTRY_PROJECT_SLUG"]).To(Equal("myapp"))
			Expect(written["SENTRY_DSN"]).NotTo(BeEmpty())
		})
	})

	Context("S5 re-provision after DSN revocation", func() {
		BeforeEach(func() {
			store.Seed(secretstore.Ref{Mount: "secret", Subpath: "app/myapp/sentry"}, map[string]string{
				"SENTRY_DSN":          "https://revoked@sentry.example.com/myapp",
				"SENTRY_PROJECT_SLUG": "myapp",
			})
			adapter.teams["myapp"] = true
			adapter.projects["myapp"] = true
			// liveDSNs intentionally does not contain the revoked DSN.
			adapter.dsnToMint = "https://fresh@sentry.example.com/myapp"
		})

		It("deletes the stale credential and writes a freshly minted DSN", func() {
			tenant, err := sentry.Reconcile(ctx, intent, lookup, store, adapter, random.Fixed(""))

			Expect(err).NotTo(HaveOccurred())
			Expect(tenant.DSN).To(Equal("https://fresh@sentry.example.com/myapp"))
			Expect(store.DeleteCallCount).To(Equal(1))
			Expect(adapter.createProjectKeyCalls).To(Equal(1))
			// Team/project already existed, so they are not recreated.
			Expect(adapter.createTeamCalls).To(Equal(0))
			Expect(adapter.createProjectCalls).To(Equal(0))
		})
	})

	Context("tenant credential present with a still-live DSN", func() {
		BeforeEach(func() {
			store.Seed(secretstore.Ref{Mount: "secret", Subpath: "app/myapp/sentry"}, map[string]string{
				"SENTRY_DSN":          "https://live@sentry.example.com/myapp",
				"SENTRY_PROJECT_SLUG": "myapp",
			})
			adapter.liveDSNs["https://live@sentry.example.com/myapp"] = true
		})

		It("returns the existing credential untouched", func() {
			tenant, err := sentry.Reconcile(ctx, intent, lookup, store, adapter, random.Fixed(""))

			Expect(err).NotTo(HaveOccurred())
			Expect(tenant.DSN).To(Equal("https://live@sentry.example.com/myapp"))
			Expect(adapter.createProjectKeyCalls).To(Equal(0))
			Expect(store.DeleteCallCount).To(Equal(0))
			Expect(store.CreateCallCount).To(Equal(0))
		})
	})
})
