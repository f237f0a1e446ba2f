package userscript_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/torngate/pkg/userscript"
)

var _ = Describe("StaticCatalog", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("serves the two built-in scripts", func() {
		scripts, err := userscript.NewStaticCatalog().List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(scripts).To(HaveLen(2))

		Expect(scripts[0].ID).To(Equal(1))
		Expect(scripts[0].Name).To(Equal("Torn Stats Helper"))
		Expect(scripts[0].Enabled).To(BeTrue())
		Expect(scripts[1].ID).To(Equal(2))
		Expect(scripts[1].Name).To(Equal("Trade Calculator"))
		Expect(scripts[1].Enabled).To(BeFalse())
		Expect(scripts[1].Code).To(ContainSubstring("Trade Calculator loaded"))
	})

	It("is not affected by callers mutating the result", func() {
		catalog := userscript.NewStaticCatalog()

		first, err := catalog.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		first[0].Name = "mutated"
		first[1].Enabled = true

		second, err := catalog.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(second[0].Name).To(Equal("Torn Stats Helper"))
		Expect(second[1].Enabled).To(BeFalse())
	})

	It("serves custom scripts when given", func() {
		catalog := userscript.NewStaticCatalog(userscript.Script{ID: 7, Name: "custom"})

		scripts, err := catalog.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(scripts).To(ConsistOf(userscript.Script{ID: 7, Name: "custom"}))
	})
})
