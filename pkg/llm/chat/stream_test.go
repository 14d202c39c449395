package chat_test

import (
	"context"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/llmock/pkg/llm"
	"github.com/papercomputeco/llmock/pkg/llm/chat"
	"github.com/papercomputeco/llmock/pkg/stream"
)

func chunks(frames []stream.Frame) []*chat.Chunk {
	var out []*chat.Chunk
	for _, f := range frames {
		if c, ok := f.Payload.(*chat.Chunk); ok {
			out = append(out, c)
		}
	}
	return out
}

var _ = Describe("Script", func() {
	now := time.Unix(1700000000, 0)

	run := func(req *chat.Request, reply string) []stream.Frame {
		frames, err := stream.New(chat.NewScript(req, reply, now), reply, stream.WithPace(0)).Collect(context.Background())
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
		return frames
	}

	It("emits 2 + words JSON frames and then [DONE]", func() {
		req := decode(`{"model":"gpt-4","stream":true,"messages":[{"role":"user","content":"Hello world!"}]}`)
		frames := run(req, "Hello world!")

		Expect(frames).To(HaveLen(2 + 2 + 1))
		Expect(frames[len(frames)-1].Payload).To(Equal(stream.Done))

		cs := chunks(frames)
		Expect(cs).To(HaveLen(4))

		first := cs[0].Choices[0]
		Expect(first.Delta.Role).To(Equal(llm.RoleAssistant))
		Expect(*first.Delta.Content).To(BeEmpty())
		Expect(first.FinishReason).To(BeNil())

		Expect(*cs[1].Choices[0].Delta.Content).To(Equal("Hello"))
		Expect(*cs[2].Choices[0].Delta.Content).To(Equal(" world!"))

		last := cs[3].Choices[0]
		Expect(last.Delta).To(Equal(chat.Delta{}))
		Expect(*last.FinishReason).To(Equal("stop"))
	})

	It("shares one id and timestamp across chunks", func() {
		req := decode(`{"model":"m","messages":[{"role":"user","content":"a b c"}]}`)
		cs := chunks(run(req, "a b c"))

		for _, c := range cs {
			Expect(c.ID).To(Equal(cs[0].ID))
			Expect(c.Created).To(Equal(int64(1700000000)))
			Expect(c.Object).To(Equal("chat.completion.chunk"))
		}
	})

	It("reassembles the reply from the deltas", func() {
		reply := "  spaced   out  "
		req := decode(`{"model":"m","messages":[{"role":"user","content":"x"}]}`)

		var b strings.Builder
		for _, c := range chunks(run(req, reply))[1:] {
			if d := c.Choices[0].Delta.Content; d != nil {
				b.WriteString(*d)
			}
		}
		Expect(b.String()).To(Equal(reply))
	})

	It("adds a usage chunk before [DONE] when asked", func() {
		req := decode(`{"model":"m","stream":true,"stream_options":{"include_usage":true},
			"messages":[{"role":"user","content":"Hello world!"}]}`)
		frames := run(req, "Hello world!")

		Expect(frames).To(HaveLen(2 + 2 + 2))
		usage := frames[len(frames)-2].Payload.(*chat.Chunk)
		Expect(usage.Choices).To(BeEmpty())
		Expect(usage.Usage).NotTo(BeNil())
		Expect(usage.Usage.TotalTokens).To(Equal(usage.Usage.PromptTokens + usage.Usage.CompletionTokens))
	})

	It("encodes the stop chunk with an empty delta", func() {
		req := decode(`{"model":"m","messages":[{"role":"user","content":"x"}]}`)
		frames := run(req, "x")

		ev, err := stream.Encode(frames[len(frames)-2])
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Data).To(ContainSubstring(`"delta":{}`))
		Expect(ev.Data).To(ContainSubstring(`"finish_reason":"stop"`))

		ev, err = stream.Encode(frames[1])
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Data).To(ContainSubstring(`"finish_reason":null`))
	})
})
