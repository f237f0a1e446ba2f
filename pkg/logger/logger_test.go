package logger_test

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/torngate/pkg/logger"
)

var _ = Describe("Masker", func() {
	It("replaces secrets with the redacted marker", func() {
		var buf bytes.Buffer
		w := logger.NewMasker(&buf, []string{"s3cret"})

		n, err := w.Write([]byte("key=s3cret&selections=basic"))
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(len("key=s3cret&selections=basic")))
		Expect(buf.String()).To(Equal("key=[redacted]&selections=basic"))
	})

	It("returns the base writer when there are no secrets", func() {
		var buf bytes.Buffer
		w := logger.NewMasker(&buf, []string{"", "  "})

		Expect(w).To(BeIdenticalTo(&buf))
	})
})

var _ = Describe("New", func() {
	var dir string

	BeforeEach(func() {
		dir = filepath.Join(GinkgoT().TempDir(), "logs")
	})

	It("creates the log directory and writes JSON entries", func() {
		log, closeFn, err := logger.New(logger.Options{Dir: dir})
		Expect(err).NotTo(HaveOccurred())

		log.Info("gateway starting", zap.String("listen", ":5000"))
		_ = log.Sync()
		Expect(closeFn()).To(Succeed())

		data, err := os.ReadFile(filepath.Join(dir, logger.LogFileName))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring(`"msg":"gateway starting"`))
		Expect(string(data)).To(ContainSubstring(`"listen":":5000"`))
	})

	It("never writes configured secrets to the file", func() {
		log, closeFn, err := logger.New(logger.Options{Dir: dir, Secrets: []string{"abc123"}})
		Expect(err).NotTo(HaveOccurred())

		log.Error("upstream request failed", zap.String("url", "https://api.torn.com/user/?key=abc123"))
		Expect(closeFn()).To(Succeed())

		data, err := os.ReadFile(filepath.Join(dir, logger.LogFileName))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).NotTo(ContainSubstring("abc123"))
		Expect(string(data)).To(ContainSubstring(logger.Redacted))
	})

	It("drops debug entries unless debug is enabled", func() {
		log, closeFn, err := logger.New(logger.Options{Dir: dir})
		Expect(err).NotTo(HaveOccurred())

		log.Debug("hidden")
		Expect(closeFn()).To(Succeed())

		data, err := os.ReadFile(filepath.Join(dir, logger.LogFileName))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).NotTo(ContainSubstring("hidden"))
	})

	It("logs to the console only when no directory is set", func() {
		log, closeFn, err := logger.New(logger.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(log).NotTo(BeNil())
		Expect(closeFn()).To(Succeed())
	})
})
