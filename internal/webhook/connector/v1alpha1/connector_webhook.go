// Package v1alpha1 implements the connector operator's mutating admission
// webhook: it reconciles every connector kind a pod's annotations opt into,
// then patches the pod with the env vars the Mutation Pipeline computes.
// Structurally grounded on
// apis/vault/v1alpha1/secretsinjector_webhook.go's SecretsInjector.Handle.
package v1alpha1

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
	"sigs.k8s.io/controller-runtime/pkg/webhook/admission"

	"github.com/itlabs-io/connector-operator/pkg/dispatch"
	"github.com/itlabs-io/connector-operator/pkg/logging"
)

var (
	podLabels   = []string{"pod_namespace"}
	handleTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connector_operator_webhook_handle_total",
			Help: "Count of admission requests handled by the connector webhook",
		},
		podLabels,
	)
	mutateTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connector_operator_webhook_mutate_total",
			Help: "Count of pods mutated by the connector webhook",
		},
		podLabels,
	)
	skipTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connector_operator_webhook_skip_total",
			Help: "Count of pods skipped by the connector webhook, as they opt into no connector",
		},
		podLabels,
	)
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connector_operator_webhook_errors_total",
			Help: "Count of not-allowed responses from the connector webhook",
		},
		podLabels,
	)
)

func init() {
	metrics.Registry.MustRegister(handleTotal, mutateTotal, skipTotal, errorsTotal)
}

// ConnectorInjector is the admission.Handler that drives the Dispatcher on
// every pod creation.
type ConnectorInjector struct {
	Dispatcher *dispatch.Dispatcher
	Logger     logr.Logger
	decoder    *admission.Decoder
}

func NewConnectorInjector(d *dispatch.Dispatcher, logger logr.Logger, scheme *runtime.Scheme) *ConnectorInjector {
	return &ConnectorInjector{
		Dispatcher: d,
		Logger:     logger,
		decoder:    admission.NewDecoder(scheme),
	}
}

func (i *ConnectorInjector) InjectDecoder(d *admission.Decoder) error {
	i.decoder = d
	return nil
}

// usesAnyConnector reports whether annotations carries at least one
// connector kind's instance-name key, the cheapest possible early-allow
// check before we touch the Dispatcher at all.
func usesAnyConnector(annotations map[string]string) bool {
	for key := range annotations {
		if _, ok := connectorAnnotationKeys[key]; ok {
			return true
		}
	}
	return false
}

var connectorAnnotationKeys = map[string]struct{}{
	"postgres.connector.itlabs.io/instance-name": {},
	"rabbit.connector.itlabs.io/instance-name":   {},
	"sentry.connector.itlabs.io/instance-name":   {},
	"keycloak.connector.itlabs.io/instance-name": {},
}

func (i *ConnectorInjector) Handle(ctx context.Context, req admission.Request) (resp admission.Response) {
	labels := prometheus.Labels{"pod_namespace": req.Namespace}
	correlationID := uuid.NewString()
	logger := i.Logger.WithValues("uuid", string(req.UID), "correlation_id", correlationID)
	logger.Info("starting request", "event", "request.start")

	defer func(start time.Time) {
		logger.Info("request completed", "event", "request.end", "duration", time.Since(start).Seconds())

		handleTotal.With(labels).Inc()
		{
			mutateTotal.With(labels).Add(0)
			skipTotal.With(labels).Add(0)
			errorsTotal.With(labels).Add(0)
		}

		if !resp.Allowed {
			errorsTotal.With(labels).Inc()
		}
	}(time.Now())

	pod := &corev1.Pod{}
	if err := i.decoder.Decode(req, pod); err != nil {
		return admission.Errored(http.StatusBadRequest, err)
	}

	if req.AdmissionRequest.Namespace != "" {
		pod.Namespace = req.AdmissionRequest.Namespace
	}
	if req.AdmissionRequest.Name != "" {
		pod.Name = req.AdmissionRequest.Name
	}

	logger = logger.WithValues("pod_namespace", pod.Namespace, "pod_name", pod.Name)
	logger = logging.WithLabels(logger, pod.Labels, "pod_label_")

	if !usesAnyConnector(pod.Annotations) {
		logger.Info("skipping pod with no connector annotation", "event", "pod.skipped")
		skipTotal.With(labels).Inc()
		return admission.Allowed("no connector annotation found")
	}

	mutatedPod := pod.DeepCopy()
	mutated, err := i.Dispatcher.Mutate(ctx, &mutatedPod.Spec, pod.Annotations, pod.Labels)
	if err != nil {
		logger.Info("reconciliation failed", "event", "pod.error", "error", err)
		return admission.Errored(http.StatusInternalServerError, err)
	}
	if !mutated {
		logger.Info("reconciled with no mutation required", "event", "pod.noop")
		return admission.Allowed("no mutation required")
	}

	mutateTotal.With(labels).Inc()

	mutatedPodBytes, err := json.Marshal(mutatedPod)
	if err != nil {
		return admission.Errored(http.StatusInternalServerError, err)
	}
	return admission.PatchResponseFromRaw(req.Object.Raw, mutatedPodBytes)
}
