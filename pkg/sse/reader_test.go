package sse_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/llmock/pkg/sse"
)

var _ = Describe("Reader", func() {
	var dst *bytes.Buffer

	BeforeEach(func() {
		dst = &bytes.Buffer{}
	})

	Describe("Next", func() {
		It("parses a single unnamed event", func() {
			r := sse.NewTeeReader(strings.NewReader("data: hello world\n\n"), dst)

			ev, err := r.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(ev.Data).To(Equal("hello world"))
			Expect(ev.Type).To(BeEmpty())
			Expect(ev.ID).To(BeEmpty())

			ev, err = r.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(ev).To(BeNil())
		})

		It("parses chat completion chunks and the done sentinel", func() {
			input := "data: {\"object\":\"chat.completion.chunk\",\"choices\":[{\"delta\":{\"content\":\"Hello\"}}]}\n\n" +
				"data: {\"object\":\"chat.completion.chunk\",\"choices\":[{\"delta\":{\"content\":\" world\"}}]}\n\n" +
				"data: [DONE]\n\n"
			r := sse.NewTeeReader(strings.NewReader(input), dst)

			events, err := r.All()
			Expect(err).NotTo(HaveOccurred())
			Expect(events).To(HaveLen(3))
			Expect(events[0].Data).To(ContainSubstring(`"Hello"`))
			Expect(events[2].Data).To(Equal("[DONE]"))
			Expect(dst.String()).To(Equal(input))
		})

		It("parses named response events", func() {
			input := "event: response.created\ndata: {\"type\":\"response.created\"}\n\n" +
				"event: response.output_text.delta\ndata: {\"type\":\"response.output_text.delta\",\"delta\":\"Hi\"}\n\n"
			r := sse.NewReader(strings.NewReader(input))

			ev, err := r.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(ev.Type).To(Equal("response.created"))

			ev, err = r.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(ev.Type).To(Equal("response.output_text.delta"))
			Expect(ev.Data).To(ContainSubstring(`"Hi"`))
		})

		It("parses event ids", func() {
			r := sse.NewReader(strings.NewReader("id: 42\ndata: hello\n\n"))

			ev, err := r.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(ev.ID).To(Equal("42"))
		})

		It("joins multiple data lines with a newline", func() {
			r := sse.NewReader(strings.NewReader("data: one\ndata: two\ndata: three\n\n"))

			ev, err := r.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(ev.Data).To(Equal("one\ntwo\nthree"))
		})

		It("skips comments but tees them", func() {
			input := ": keep-alive\ndata: hello\n\n"
			r := sse.NewTeeReader(strings.NewReader(input), dst)

			ev, err := r.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(ev.Data).To(Equal("hello"))
			Expect(dst.String()).To(Equal(input))
		})

		DescribeTable("data field variations",
			func(input, want string) {
				ev, err := sse.NewReader(strings.NewReader(input)).Next()
				Expect(err).NotTo(HaveOccurred())
				Expect(ev.Data).To(Equal(want))
			},
			Entry("no space after colon", "data:no-space\n\n", "no-space"),
			Entry("empty value", "data:\n\n", ""),
			Entry("only a space", "data: \n\n", ""),
			Entry("no colon at all", "data\n\n", ""),
			Entry("unknown fields around data", "retry: 3000\nfoo: bar\ndata: hello\n\n", "hello"),
			Entry("leading blank lines", "\n\ndata: hello\n\n", "hello"),
		)

		It("returns nil for empty or blank input", func() {
			for _, in := range []string{"", "\n\n\n"} {
				ev, err := sse.NewReader(strings.NewReader(in)).Next()
				Expect(err).NotTo(HaveOccurred())
				Expect(ev).To(BeNil())
			}
		})

		It("yields a trailing event without a blank line", func() {
			r := sse.NewReader(strings.NewReader("data: unterminated"))

			ev, err := r.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(ev.Data).To(Equal("unterminated"))

			ev, err = r.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(ev).To(BeNil())
		})
	})
})
