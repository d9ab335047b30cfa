package keycloak

import operrors "github.com/itlabs-io/connector-operator/pkg/errors"

func UsesConnector(annotations map[string]string) bool {
	for _, name := range RequiredAnnotations {
		if _, ok := annotations[name]; !ok {
			return false
		}
	}
	return true
}

func ParseIntent(annotations map[string]string) (Intent, error) {
	values := map[string]string{}

	for _, name := range RequiredAnnotations {
		v, ok := annotations[name]
		if !ok {
			return Intent{}, &operrors.MissingRequiredAnnotation{Name: name}
		}
		if v == "" {
			return Intent{}, &operrors.EmptyAnnotationValue{Name: name}
		}
		values[name] = v
	}

	return Intent{
		InstanceName: values[annotationInstanceName],
		VaultPath:    values[annotationVaultPath],
		ClientID:     values[annotationClientID],
	}, nil
}
