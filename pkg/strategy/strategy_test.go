package strategy_test

import (
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/llmock/pkg/llm"
	"github.com/papercomputeco/llmock/pkg/strategy"
)

func turns(p llm.Protocol, pairs ...string) *llm.CanonicalInput {
	var ts []llm.Turn
	for i := 0; i+1 < len(pairs); i += 2 {
		ts = append(ts, llm.Turn{Role: llm.Role(pairs[i]), Text: pairs[i+1]})
	}
	return llm.NewTurnInput(p, ts)
}

var _ = Describe("Mirror", func() {
	mirror := strategy.Mirror{}

	It("returns a bare prompt", func() {
		Expect(mirror.Generate(llm.NewPromptInput(llm.ProtocolResponses, "Hello world!"))).To(Equal("Hello world!"))
	})

	It("returns the last user turn", func() {
		in := turns(llm.ProtocolChat, "user", "Hi", "assistant", "Hello!", "user", "Bye")
		Expect(mirror.Generate(in)).To(Equal("Bye"))
	})

	It("scans past trailing non-user and empty turns", func() {
		in := turns(llm.ProtocolChat,
			"system", "rules",
			"user", "First message",
			"user", "Second message",
			"assistant", "ok",
			"user", "",
		)
		Expect(mirror.Generate(in)).To(Equal("Second message"))
	})

	DescribeTable("falls back per protocol",
		func(in *llm.CanonicalInput, want string) {
			Expect(mirror.Generate(in)).To(Equal(want))
		},
		Entry("chat without user turns", turns(llm.ProtocolChat, "system", "x"), "No user message provided."),
		Entry("responses without user turns", turns(llm.ProtocolResponses, "assistant", "x"), "No user input provided."),
		Entry("responses with empty bare input", llm.NewPromptInput(llm.ProtocolResponses, ""), "No user input provided."),
		Entry("chat with no turns", turns(llm.ProtocolChat), "No user message provided."),
	)

	It("is safe for concurrent use", func() {
		in := turns(llm.ProtocolChat, "user", "same")
		var wg sync.WaitGroup
		for range 50 {
			wg.Go(func() {
				defer GinkgoRecover()
				Expect(mirror.Generate(in)).To(Equal("same"))
			})
		}
		wg.Wait()
	})
})

var _ = Describe("Reply", func() {
	It("replaces an empty result with the fallback", func() {
		empty := strategy.Func(func(*llm.CanonicalInput) string { return "" })
		Expect(strategy.Reply(empty, turns(llm.ProtocolChat))).To(Equal(strategy.NoUserMessage))
		Expect(strategy.Reply(empty, turns(llm.ProtocolResponses))).To(Equal(strategy.NoUserInput))
	})

	It("passes other results through", func() {
		upper := strategy.Func(func(in *llm.CanonicalInput) string {
			text, _ := in.LastUserText()
			return strings.ToUpper(text)
		})
		Expect(strategy.Reply(upper, turns(llm.ProtocolChat, "user", "hi"))).To(Equal("HI"))
	})
})

var _ = Describe("New", func() {
	It("builds mirror by default", func() {
		s, err := strategy.New("", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(strategy.Mirror{}))
	})

	It("builds a static strategy", func() {
		s, err := strategy.New("static", "canned")
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Generate(turns(llm.ProtocolChat, "user", "ignored"))).To(Equal("canned"))
	})

	It("requires a reply for static", func() {
		_, err := strategy.New("static", "")
		Expect(err).To(MatchError(ContainSubstring("needs a reply")))
	})

	It("rejects unknown names", func() {
		_, err := strategy.New("oracle", "")
		Expect(err).To(MatchError(ContainSubstring(`unknown strategy "oracle"`)))
	})
})
