// Package v1alpha1 is the v1alpha1 version of the connector descriptor API:
// the cluster-scoped custom resources that name backing-service instances
// (SPEC_FULL.md §6.5).

// +k8s:openapi-gen=true
// +k8s:deepcopy-gen=package,register
// +k8s:defaulter-gen=TypeMeta
// +groupName=itlabs.io
package v1alpha1
