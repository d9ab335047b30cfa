package connector_test

import (
	"context"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	connectorcontroller "github.com/itlabs-io/connector-operator/internal/controller/connector"
	v1alpha1 "github.com/itlabs-io/connector-operator/pkg/apis/connector/v1alpha1"
	"github.com/itlabs-io/connector-operator/pkg/connectors/postgres"
	"github.com/itlabs-io/connector-operator/pkg/dispatch"
	operrors "github.com/itlabs-io/connector-operator/pkg/errors"
	"github.com/itlabs-io/connector-operator/pkg/random"
	"github.com/itlabs-io/connector-operator/pkg/secretstore"
)

type lookup struct {
	inst v1alpha1.PostgresInstance
	err  error
}

func (l lookup) LookupInstance(ctx context.Context, name string) (v1alpha1.PostgresInstance, error) {
	return l.inst, l.err
}

type adapter struct{}

func (adapter) DatabaseExists(ctx context.Context, admin postgres.AdminCred, database string) (bool, error) {
	return false, nil
}
func (adapter) UserExists(ctx context.Context, admin postgres.AdminCred, user string) (bool, error) {
	return false, nil
}
func (adapter) CreateDatabase(ctx context.Context, admin postgres.AdminCred, database string) error {
	return nil
}
func (adapter) CreateUser(ctx context.Context, admin postgres.AdminCred, user, password string) error {
	return nil
}
func (adapter) AlterUserPassword(ctx context.Context, admin postgres.AdminCred, user, password string) error {
	return nil
}
func (adapter) GrantUserOnDatabase(ctx context.Context, admin postgres.AdminCred, user, database string) error {
	return nil
}
func (adapter) IsGrantee(ctx context.Context, admin postgres.AdminCred, readonlyRole, ofRole string) (bool, error) {
	return true, nil
}
func (adapter) GrantSelectToReadonly(ctx context.Context, admin postgres.AdminCred, newRole, readonlyRole, database string) error {
	return nil
}

func deploymentFixture() *appsv1.Deployment {
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "billing"},
		Spec: appsv1.DeploymentSpec{
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Annotations: map[string]string{
						"postgres.connector.itlabs.io/instance-name": "primary",
						"postgres.connector.itlabs.io/vault-path":    "vault:secret/data/app/billing/postgres",
						"postgres.connector.itlabs.io/db-name":       "billing",
						"postgres.connector.itlabs.io/db-username":   "billing-app",
					},
				},
				Spec: corev1.PodSpec{Containers: []corev1.Container{{Name: "app"}}},
			},
		},
	}
}

var _ = Describe("DeploymentReconciler", func() {
	var (
		ctx       context.Context
		scheme    *runtime.Scheme
		store     *secretstore.Fake
		recorder  *record.FakeRecorder
		reconcile func(*appsv1.Deployment, lookup) (ctrl.Result, error)
	)

	BeforeEach(func() {
		ctx = context.Background()
		scheme = runtime.NewScheme()
		Expect(clientgoscheme.AddToScheme(scheme)).To(Succeed())
		store = secretstore.NewFake()
		store.Seed(secretstore.Ref{Mount: "secret", Subpath: "postgres-creds"}, map[string]string{
			"username": "admin",
			"password": "admin-secret",
		})
		recorder = record.NewFakeRecorder(10)

		reconcile = func(deployment *appsv1.Deployment, l lookup) (ctrl.Result, error) {
			fakeClient := fake.NewClientBuilder().WithScheme(scheme).WithObjects(deployment).Build()

			d := dispatch.New(dispatch.Dependencies{
				Store:          store,
				Random:         random.Fixed("generated-password"),
				Logger:         logr.Discard(),
				PostgresLookup: l,
				Postgres:       adapter{},
			})

			r := &connectorcontroller.DeploymentReconciler{
				Client:     fakeClient,
				Dispatcher: d,
				Log:        logr.Discard(),
				Recorder:   recorder,
			}

			return r.Reconcile(ctx, ctrl.Request{NamespacedName: client.ObjectKeyFromObject(deployment)})
		}
	})

	Context("a deployment whose template successfully reconciles", func() {
		It("records a ConnectorProvisioned event", func() {
			deployment := deploymentFixture()
			_, err := reconcile(deployment, lookup{inst: v1alpha1.PostgresInstance{
				Name:            "primary",
				SecretStorePath: "vault:secret/data/postgres-creds",
				Host:            "postgres.internal",
				Port:            5432,
			}})

			Expect(err).NotTo(HaveOccurred())
			Expect(<-recorder.Events).To(ContainSubstring(connectorcontroller.ReasonConnectorProvisioned))
		})
	})

	Context("a deployment whose instance is unknown", func() {
		It("records a failure event and returns the error", func() {
			deployment := deploymentFixture()
			_, err := reconcile(deployment, lookup{err: &operrors.UnknownInstance{Kind: "Postgres", Name: "primary"}})

			Expect(err).To(HaveOccurred())
			Expect(<-recorder.Events).To(ContainSubstring(connectorcontroller.ReasonConnectorProvisionError))
		})
	})

	Context("a deployment whose tenant credential conflicts", func() {
		It("records the conflict but does not requeue", func() {
			deployment := deploymentFixture()
			_, err := reconcile(deployment, lookup{err: &operrors.TenantCredentialConflict{Field: "DBUsername"}})

			Expect(err).NotTo(HaveOccurred())
			Expect(<-recorder.Events).To(ContainSubstring(connectorcontroller.ReasonConnectorProvisionError))
		})
	})
})
