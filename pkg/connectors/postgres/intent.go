package postgres

import (
	operrors "github.com/itlabs-io/connector-operator/pkg/errors"
)

// UsesConnector reports whether all required annotations for the Postgres
// connector are present, per SPEC_FULL.md §4.3's membership test.
func UsesConnector(annotations map[string]string) bool {
	for _, name := range RequiredAnnotations {
		if _, ok := annotations[name]; !ok {
			return false
		}
	}
	return true
}

// ParseIntent reads the Postgres annotation set and returns a well-formed
// Intent, or a MissingRequiredAnnotation/EmptyAnnotationValue error naming
// the offending key, grounded on
// connectors/postgres_connector/factories/dto_factory.py's
// dto_from_annotations.
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
		DBName:       values[annotationDBName],
		DBUsername:   values[annotationDBUsername],
	}, nil
}
