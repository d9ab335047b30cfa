package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// PostgresInstance is one entry in a PostgresConnector's Spec.Instances, as
// in SPEC_FULL.md §3's Connector Instance Descriptor: "Postgres:
// host/port/database/admin-user-ref/admin-pass-ref/optional-readonly-user-ref".
type PostgresInstance struct {
	// Name is the only key by which a workload refers to this instance.
	Name string `json:"name"`

	SecretStorePath string `json:"vaultPath"`

	Host string `json:"host"`
	Port int32  `json:"port"`

	// ReadonlyUserRef, if set, names a role that is granted SELECT on all
	// future tables created by the tenant's role (SPEC_FULL.md §4.2,
	// Postgres specialization).
	// +optional
	ReadonlyUserRef string `json:"readonlyUserRef,omitempty"`
}

// PostgresConnectorSpec holds every Postgres instance this cluster knows
// about. Lookup by instance name returns the matching entry or nothing
// (SPEC_FULL.md §6.5).
type PostgresConnectorSpec struct {
	Instances []PostgresInstance `json:"instances"`
}

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

// PostgresConnector is the cluster-scoped descriptor naming every Postgres
// instance workloads may opt into.
type PostgresConnector struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec PostgresConnectorSpec `json:"spec"`
}

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

type PostgresConnectorList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`

	Items []PostgresConnector `json:"items"`
}

// InstanceByName returns the instance entry whose Name matches name, or nil.
func (s PostgresConnectorSpec) InstanceByName(name string) *PostgresInstance {
	for i := range s.Instances {
		if s.Instances[i].Name == name {
			return &s.Instances[i]
		}
	}
	return nil
}

// RabbitInstance is one entry in a RabbitConnector's Spec.Instances.
type RabbitInstance struct {
	Name            string `json:"name"`
	SecretStorePath string `json:"vaultPath"`
}

type RabbitConnectorSpec struct {
	Instances []RabbitInstance `json:"instances"`
}

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

type RabbitConnector struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec RabbitConnectorSpec `json:"spec"`
}

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

type RabbitConnectorList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`

	Items []RabbitConnector `json:"items"`
}

func (s RabbitConnectorSpec) InstanceByName(name string) *RabbitInstance {
	for i := range s.Instances {
		if s.Instances[i].Name == name {
			return &s.Instances[i]
		}
	}
	return nil
}

// SentryConnectorSpec is a single object, not a list: one cluster hosts one
// Sentry organization (SPEC_FULL.md §6.5).
type SentryConnectorSpec struct {
	URL          string `json:"url"`
	Token        string `json:"token"`
	Organization string `json:"organization"`
}

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

type SentryConnector struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec SentryConnectorSpec `json:"spec"`
}

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

type SentryConnectorList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`

	Items []SentryConnector `json:"items"`
}

// KeycloakConnectorSpec is a single object: one cluster talks to one
// Keycloak realm.
type KeycloakConnectorSpec struct {
	URL              string `json:"url"`
	Realm            string `json:"realm"`
	AdminUserRef     string `json:"adminUserRef"`
	AdminPasswordRef string `json:"adminPasswordRef"`
}

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

type KeycloakConnector struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec KeycloakConnectorSpec `json:"spec"`
}

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

type KeycloakConnectorList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`

	Items []KeycloakConnector `json:"items"`
}
