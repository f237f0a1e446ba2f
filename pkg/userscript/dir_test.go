package userscript_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/torngate/pkg/userscript"
)

var _ = Describe("DirCatalog", func() {
	var (
		ctx context.Context
		dir string
	)

	write := func(name, content string) {
		Expect(os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)).To(Succeed())
	}

	BeforeEach(func() {
		ctx = context.Background()
		dir = GinkgoT().TempDir()
	})

	It("loads scripts in file name order", func() {
		write("b-market.user.js", marketHelper)
		write("a-plain.js", "console.log('plain');")
		write("notes.txt", "ignored")

		catalog, err := userscript.NewDirCatalog(dir, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())

		scripts, err := catalog.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(scripts).To(HaveLen(2))

		Expect(scripts[0].ID).To(Equal(1))
		Expect(scripts[0].Name).To(Equal("a-plain"))
		Expect(scripts[0].Enabled).To(BeTrue())

		Expect(scripts[1].ID).To(Equal(2))
		Expect(scripts[1].Name).To(Equal("Torn Market Helper"))
		Expect(scripts[1].Description).To(Equal("Adds additional features to Torn market pages"))
		Expect(scripts[1].Code).To(Equal(marketHelper))
	})

	It("fails for a missing directory", func() {
		_, err := userscript.NewDirCatalog(filepath.Join(dir, "missing"), zap.NewNop())
		Expect(err).To(HaveOccurred())
	})

	It("picks up new files on Reload", func() {
		catalog, err := userscript.NewDirCatalog(dir, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())

		scripts, err := catalog.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(scripts).To(BeEmpty())

		write("market.user.js", marketHelper)
		Expect(catalog.Reload()).To(Succeed())

		scripts, err = catalog.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(scripts).To(HaveLen(1))
	})

	It("reloads when the directory changes while watching", func() {
		catalog, err := userscript.NewDirCatalog(dir, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())

		watchCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() {
			done <- catalog.Watch(watchCtx)
		}()
		defer func() {
			cancel()
			Eventually(done, 2*time.Second).Should(Receive(BeNil()))
		}()

		Eventually(func() int {
			write("market.user.js", marketHelper)
			scripts, _ := catalog.List(ctx)
			return len(scripts)
		}, 3*time.Second, 50*time.Millisecond).Should(Equal(1))
	})
})
