package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// GroupVersion is the API group and version used for every type in this
// package, mirroring the +groupName marker in doc.go.
var GroupVersion = schema.GroupVersion{Group: "itlabs.io", Version: "v1alpha1"}

// SchemeBuilder collects the AddToScheme calls for this API group, the same
// shape as pkg/apis/apis.go's AddToSchemes.
var (
	SchemeBuilder = runtime.NewSchemeBuilder(addKnownTypes)
	AddToScheme   = SchemeBuilder.AddToScheme
)

func addKnownTypes(scheme *runtime.Scheme) error {
	scheme.AddKnownTypes(GroupVersion,
		&PostgresConnector{},
		&PostgresConnectorList{},
		&RabbitConnector{},
		&RabbitConnectorList{},
		&SentryConnector{},
		&SentryConnectorList{},
		&KeycloakConnector{},
		&KeycloakConnectorList{},
	)
	metav1.AddToGroupVersion(scheme, GroupVersion)
	return nil
}
