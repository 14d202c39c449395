package journal_test

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/llmock/pkg/journal"
	"github.com/papercomputeco/llmock/pkg/logger"
)

type failingSink struct{}

func (failingSink) Record(context.Context, journal.Entry) error {
	return errors.New("disk full")
}

func entry(id string) journal.Entry {
	return journal.Entry{ID: id, Protocol: "chat", Model: "gpt-4o", Input: "hi", Reply: "hi"}
}

var _ = Describe("Pool", func() {
	It("requires a logger", func() {
		_, err := journal.NewPool(&journal.Config{})
		Expect(err).To(MatchError("logger is required"))
	})

	It("delivers entries to every sink in order", func() {
		recent := journal.NewRecent(10)
		p, err := journal.NewPool(&journal.Config{
			Sinks:  []journal.Sink{failingSink{}, recent},
			Logger: logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(p.Enqueue(entry("a"))).To(BeTrue())
		Expect(p.Enqueue(entry("b"))).To(BeTrue())
		p.Close()

		last := recent.Last(0)
		Expect(last).To(HaveLen(2))
		Expect(last[0].ID).To(Equal("b"))
		Expect(last[1].ID).To(Equal("a"))
	})

	It("drops entries once closed", func() {
		recent := journal.NewRecent(10)
		p, err := journal.NewPool(&journal.Config{
			Sinks:  []journal.Sink{recent},
			Logger: logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())

		p.Close()
		Expect(func() { Expect(p.Enqueue(entry("late"))).To(BeFalse()) }).NotTo(Panic())
		Expect(func() { p.Close() }).NotTo(Panic())
		Expect(recent.Len()).To(BeZero())
	})
})

var _ = Describe("Recent", func() {
	It("evicts the oldest entries past its size", func() {
		r := journal.NewRecent(2)
		for _, id := range []string{"a", "b", "c"} {
			Expect(r.Record(context.Background(), entry(id))).To(Succeed())
		}

		Expect(r.Len()).To(Equal(2))
		Expect(r.Last(1)[0].ID).To(Equal("c"))
		Expect(r.Last(5)).To(HaveLen(2))
		Expect(r.Last(5)[1].ID).To(Equal("b"))
	})

	It("defaults the size", func() {
		r := journal.NewRecent(0)
		for range journal.DefaultRecent + 5 {
			Expect(r.Record(context.Background(), entry("x"))).To(Succeed())
		}
		Expect(r.Len()).To(Equal(journal.DefaultRecent))
	})
})

var _ = Describe("File", func() {
	It("appends one JSON object per line", func() {
		path := filepath.Join(GinkgoT().TempDir(), "journal.jsonl")

		f, err := journal.OpenFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Record(context.Background(), entry("a"))).To(Succeed())
		Expect(f.Record(context.Background(), entry("b"))).To(Succeed())
		Expect(f.Close()).To(Succeed())

		file, err := os.Open(path)
		Expect(err).NotTo(HaveOccurred())
		defer file.Close()

		var ids []string
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			var e journal.Entry
			Expect(json.Unmarshal(scanner.Bytes(), &e)).To(Succeed())
			ids = append(ids, e.ID)
		}
		Expect(ids).To(Equal([]string{"a", "b"}))
	})
})
