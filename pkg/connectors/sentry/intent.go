package sentry

import operrors "github.com/itlabs-io/connector-operator/pkg/errors"

func UsesConnector(annotations, labels map[string]string) bool {
	for _, name := range RequiredAnnotations {
		if _, ok := annotations[name]; !ok {
			return false
		}
	}
	for _, name := range RequiredLabels {
		if _, ok := labels[name]; !ok {
			return false
		}
	}
	return true
}

// ParseIntent builds an Intent from a workload's annotations and labels.
// Project and team default to the app label when their annotation is absent
// or empty; environment defaults to "" when its annotation is absent,
// grounded on connectors/sentry_connector/factories/dto_factory.py's
// defaulting behavior.
func ParseIntent(annotations, labels map[string]string) (Intent, error) {
	for _, name := range RequiredAnnotations {
		v, ok := annotations[name]
		if !ok {
			return Intent{}, &operrors.MissingRequiredAnnotation{Name: name}
		}
		if v == "" {
			return Intent{}, &operrors.EmptyAnnotationValue{Name: name}
		}
	}
	for _, name := range RequiredLabels {
		v, ok := labels[name]
		if !ok {
			return Intent{}, &operrors.MissingRequiredAnnotation{Name: name}
		}
		if v == "" {
			return Intent{}, &operrors.EmptyAnnotationValue{Name: name}
		}
	}

	app := labels[labelApp]

	project := annotations[annotationProject]
	if project == "" {
		project = app
	}

	team := annotations[annotationTeam]
	if team == "" {
		team = app
	}

	return Intent{
		InstanceName: annotations[annotationInstanceName],
		VaultPath:    annotations[annotationVaultPath],
		Project:      project,
		Team:         team,
		Environment:  annotations[annotationEnvironment],
	}, nil
}
