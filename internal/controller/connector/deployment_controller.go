// Package connector implements the Deployment reconciler entry point of the
// Dispatcher (SPEC_FULL.md §4.5): on every Deployment change it reconciles
// every connector kind the pod template opts into, and records a
// Kubernetes Event with the outcome.
//
// Grounded on pkg/recutil/reconcile.go's resolve-then-reconcile wrapping
// shape and internal/controller/deploy/release_controller.go's
// controller-runtime Reconciler shape, implemented directly against
// record.EventRecorder rather than through pkg/logging's kitlog-based
// WithRecorder bridge, which only decorates a kitlog.Logger and so can't
// wrap the logr.Logger this controller (and the rest of the operator) uses.
package connector

import (
	"context"

	"github.com/go-logr/logr"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/itlabs-io/connector-operator/pkg/dispatch"
	operrors "github.com/itlabs-io/connector-operator/pkg/errors"
)

const (
	ReasonConnectorProvisioned    = "ConnectorProvisioned"
	ReasonConnectorProvisionError = "ConnectorProvisionFailed"
)

// DeploymentReconciler reconciles every connector kind named by a
// Deployment's pod template annotations against the backing services they
// describe, independent of whether the pod has already been admitted.
// This lets already-running workloads converge (e.g. after a descriptor CRD
// gains a new instance) without requiring a new rollout.
type DeploymentReconciler struct {
	client.Client
	Dispatcher *dispatch.Dispatcher
	Log        logr.Logger
	Recorder   record.EventRecorder
}

func (r *DeploymentReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&appsv1.Deployment{}).
		Complete(r)
}

// +kubebuilder:rbac:groups=apps,resources=deployments,verbs=get;list;watch

func (r *DeploymentReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	logger := r.Log.WithValues("namespace", req.Namespace, "deployment", req.Name)

	var deployment appsv1.Deployment
	if err := r.Get(ctx, req.NamespacedName, &deployment); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, err
	}

	if !deployment.GetDeletionTimestamp().IsZero() {
		logger.Info("skipping reconciliation of deployment pending deletion", "event", "deployment.skipped")
		return ctrl.Result{}, nil
	}

	template := deployment.Spec.Template

	_, err := r.Dispatcher.Reconcile(ctx, template.Annotations, template.Labels)
	if err != nil {
		if operrors.IsConflict(err) {
			// A tenant-credential conflict is permanent: retrying won't help
			// until a human resolves the disagreement, so this is recorded but
			// not escalated to a requeue-worthy error.
			logger.Info("connector reconcile reported a permanent conflict", "event", "connector.conflict", "error", err)
			r.Recorder.Event(&deployment, corev1.EventTypeWarning, ReasonConnectorProvisionError, err.Error())
			return ctrl.Result{}, nil
		}

		logger.Info("connector reconcile failed", "event", "connector.error", "error", err)
		r.Recorder.Event(&deployment, corev1.EventTypeWarning, ReasonConnectorProvisionError, err.Error())
		return ctrl.Result{}, err
	}

	logger.Info("connector reconcile completed", "event", "connector.complete")
	r.Recorder.Event(&deployment, corev1.EventTypeNormal, ReasonConnectorProvisioned, "all connectors reconciled successfully")

	return ctrl.Result{}, nil
}
