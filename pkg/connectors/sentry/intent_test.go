package sentry_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/itlabs-io/connector-operator/pkg/connectors/sentry"
)

var _ = Describe("ParseIntent", func() {
	var annotations, labels map[string]string

	BeforeEach(func() {
		annotations = map[string]string{
			"sentry.connector.itlabs.io/instance-name": "sentry",
			"sentry.connector.itlabs.io/vault-path":     "vault:secret/data/app/myapp/sentry",
			"sentry.connector.itlabs.io/environment":    "production",
		}
		labels = map[string]string{"app": "myapp"}
	})

	It("defaults project and team to the app label", func() {
		intent, err := sentry.ParseIntent(annotations, labels)

		Expect(err).NotTo(HaveOccurred())
		Expect(intent.Project).To(Equal("myapp"))
		Expect(intent.Team).To(Equal("myapp"))
	})

	It("prefers an explicit project/team annotation over the app label", func() {
		annotations["sentry.connector.itlabs.io/project"] = "myapp-billing"
		annotations["sentry.connector.itlabs.io/team"] = "platform"

		intent, err := sentry.ParseIntent(annotations, labels)

		Expect(err).NotTo(HaveOccurred())
		Expect(intent.Project).To(Equal("myapp-billing"))
		Expect(intent.Team).To(Equal("platform"))
	})

	Context("missing app label", func() {
		BeforeEach(func() {
			delete(labels, "app")
		})

		It("reports UsesConnector false", func() {
			Expect(sentry.UsesConnector(annotations, labels)).To(BeFalse())
		})
	})

	Context("missing environment annotation", func() {
		BeforeEach(func() {
			delete(annotations, "sentry.connector.itlabs.io/environment")
		})

		It("still reports UsesConnector true and defaults environment to empty", func() {
			Expect(sentry.UsesConnector(annotations, labels)).To(BeTrue())

			intent, err := sentry.ParseIntent(annotations, labels)
			Expect(err).NotTo(HaveOccurred())
			Expect(intent.Environment).To(Equal(""))
		})
	})
})
