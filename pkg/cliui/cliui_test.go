package cliui_test

import (
	"bytes"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/llmock/pkg/cliui"
)

var _ = Describe("cliui", func() {
	DescribeTable("FormatDuration",
		func(d time.Duration, want string) {
			Expect(cliui.FormatDuration(d)).To(Equal(want))
		},
		Entry("milliseconds", 12*time.Millisecond, "12ms"),
		Entry("seconds", 3200*time.Millisecond, "3.2s"),
	)

	It("marks success and failure", func() {
		Expect(cliui.Mark(nil)).To(Equal(cliui.SuccessMark))
		Expect(cliui.Mark(errors.New("boom"))).To(Equal(cliui.FailMark))
	})

	It("runs the step and reports its error", func() {
		var buf bytes.Buffer
		boom := errors.New("boom")

		err := cliui.Step(&buf, "Fetching models", func() error { return boom })
		Expect(err).To(MatchError(boom))
		Expect(buf.String()).To(ContainSubstring("Fetching models"))
		Expect(buf.String()).To(ContainSubstring(cliui.FailMark))
		Expect(buf.String()).To(HaveSuffix("\n"))
	})

	It("prints fields and notes", func() {
		var buf bytes.Buffer
		cliui.Field(&buf, "Model", "gpt-4o")
		cliui.Note(&buf, "Resuming", "(2 messages)")

		Expect(buf.String()).To(ContainSubstring("Model:"))
		Expect(buf.String()).To(ContainSubstring("gpt-4o"))
		Expect(buf.String()).To(ContainSubstring("Resuming"))
		Expect(buf.String()).To(ContainSubstring("(2 messages)"))
	})
})
