package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/llmock/pkg/logger"
)

// decodeLine parses a single JSON log line.
func decodeLine(b []byte) map[string]any {
	var parsed map[string]any
	ExpectWithOffset(1, json.Unmarshal(bytes.TrimSpace(b), &parsed)).To(Succeed())
	return parsed
}

type failingHandler struct{}

func (failingHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("disk full") }
func (h failingHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h failingHandler) WithGroup(string) slog.Handler           { return h }

var _ = Describe("Logger", func() {
	Describe("New", func() {
		It("writes text at info level by default", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithOutput(&buf))
			l.Info("listening", "addr", ":8000")
			l.Debug("hidden")

			Expect(buf.String()).To(ContainSubstring("listening"))
			Expect(buf.String()).To(ContainSubstring("addr=:8000"))
			Expect(buf.String()).NotTo(ContainSubstring("hidden"))
		})

		It("logs debug records with WithDebug", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithOutput(&buf), logger.WithDebug(true))
			l.Debug("stream closed")

			Expect(buf.String()).To(ContainSubstring("stream closed"))
		})

		It("writes JSON lines", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithOutput(&buf), logger.WithFormat(logger.FormatJSON))
			l.Info("request", "status", 200)

			parsed := decodeLine(buf.Bytes())
			Expect(parsed["msg"]).To(Equal("request"))
			Expect(parsed["status"]).To(BeNumerically("==", 200))
		})

		It("writes pretty output", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithOutput(&buf), logger.WithFormat(logger.FormatPretty))
			l.Info("llmock ready")

			Expect(buf.String()).To(ContainSubstring("llmock ready"))
		})

		It("binds attributes to every record", func() {
			var buf bytes.Buffer
			l := logger.New(
				logger.WithOutput(&buf),
				logger.WithFormat(logger.FormatJSON),
				logger.WithAttrs("component", "journal"),
			)
			l.Info("recorded")

			Expect(decodeLine(buf.Bytes())["component"]).To(Equal("journal"))
		})

		It("keeps stdout for a nil writer", func() {
			l := logger.New(logger.WithOutput(nil))
			Expect(l.Handler()).NotTo(BeNil())
		})
	})

	Describe("Console", func() {
		It("switches to JSON when asked", func() {
			var buf bytes.Buffer
			logger.Console(&buf, false, true).Info("json console")

			Expect(decodeLine(buf.Bytes())["msg"]).To(Equal("json console"))
		})

		It("honours debug", func() {
			var buf bytes.Buffer
			logger.Console(&buf, true, false).Debug("pretty debug")

			Expect(buf.String()).To(ContainSubstring("pretty debug"))
		})
	})

	Describe("File", func() {
		It("appends JSON lines to the file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "llmock.log")

			l, closer, err := logger.File(path, false)
			Expect(err).NotTo(HaveOccurred())
			l.Info("first")
			l.Info("second")
			Expect(closer.Close()).To(Succeed())

			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			Expect(lines).To(HaveLen(2))
			Expect(decodeLine([]byte(lines[1]))["msg"]).To(Equal("second"))
		})

		It("fails for an unwritable path", func() {
			_, _, err := logger.File(filepath.Join(GinkgoT().TempDir(), "missing", "llmock.log"), false)
			Expect(err).To(MatchError(ContainSubstring("opening log file")))
		})
	})

	Describe("Nop", func() {
		It("is disabled at every level", func() {
			l := logger.Nop()
			Expect(l.Handler().Enabled(context.Background(), slog.LevelError)).To(BeFalse())
			Expect(func() {
				l.With("key", "value").WithGroup("group").Info("msg")
			}).NotTo(Panic())
		})
	})

	Describe("Multi", func() {
		It("hands records to every logger", func() {
			var text, js bytes.Buffer
			multi := logger.Multi(
				logger.New(logger.WithOutput(&text)),
				logger.New(logger.WithOutput(&js), logger.WithFormat(logger.FormatJSON)),
			)
			multi.Info("broadcast", "key", "val")

			Expect(text.String()).To(ContainSubstring("broadcast"))
			Expect(decodeLine(js.Bytes())["key"]).To(Equal("val"))
		})

		It("respects each logger's level", func() {
			var quiet, loud bytes.Buffer
			multi := logger.Multi(
				logger.New(logger.WithOutput(&quiet)),
				logger.New(logger.WithOutput(&loud), logger.WithDebug(true)),
			)
			multi.Debug("detail")

			Expect(quiet.String()).To(BeEmpty())
			Expect(loud.String()).To(ContainSubstring("detail"))
		})

		It("carries With and WithGroup through", func() {
			var buf bytes.Buffer
			multi := logger.Multi(logger.New(logger.WithOutput(&buf), logger.WithFormat(logger.FormatJSON)))
			multi.With("component", "api").WithGroup("request").Info("served", "method", "POST")

			parsed := decodeLine(buf.Bytes())
			Expect(parsed["component"]).To(Equal("api"))
			Expect(parsed["request"]).To(HaveKeyWithValue("method", "POST"))
		})

		It("keeps writing when one handler fails", func() {
			var buf bytes.Buffer
			multi := logger.Multi(
				slog.New(failingHandler{}),
				logger.New(logger.WithOutput(&buf)),
			)

			record := slog.NewRecord(time.Now(), slog.LevelInfo, "after failure", 0)
			err := multi.Handler().Handle(context.Background(), record)
			Expect(err).To(MatchError("disk full"))
			Expect(buf.String()).To(ContainSubstring("after failure"))
		})
	})
})
