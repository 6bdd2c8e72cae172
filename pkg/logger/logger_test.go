package logger_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/czestoguide/cityguide/pkg/logger"
)

var _ = Describe("NewLoggerWithWriters", func() {
	It("writes info messages to the given writer", func() {
		var buf bytes.Buffer
		l := logger.NewLoggerWithWriters(false, &buf)
		l.Info("server started")

		Expect(buf.String()).To(ContainSubstring("server started"))
		Expect(buf.String()).To(ContainSubstring("INFO"))
	})

	It("filters debug messages by default", func() {
		var buf bytes.Buffer
		l := logger.NewLoggerWithWriters(false, &buf)
		l.Debug("hidden")

		Expect(buf.String()).To(BeEmpty())
	})

	It("emits debug messages when debug is enabled", func() {
		var buf bytes.Buffer
		l := logger.NewLoggerWithWriters(true, &buf)
		l.Debug("verbose detail")

		Expect(buf.String()).To(ContainSubstring("verbose detail"))
	})

	It("writes to every configured writer", func() {
		var buf1, buf2 bytes.Buffer
		l := logger.NewLoggerWithWriters(false, &buf1, &buf2)
		l.Info("broadcast")

		Expect(buf1.String()).To(ContainSubstring("broadcast"))
		Expect(buf2.String()).To(ContainSubstring("broadcast"))
	})
})
