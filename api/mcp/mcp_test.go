package mcp_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/llmock/api/mcp"
	"github.com/papercomputeco/llmock/pkg/catalog"
	llmocklogger "github.com/papercomputeco/llmock/pkg/logger"
	"github.com/papercomputeco/llmock/pkg/strategy"
)

type staticSource struct{}

func (staticSource) Snapshot() mcp.Snapshot {
	return mcp.Snapshot{Catalog: catalog.New(nil), Strategy: strategy.Mirror{}}
}

var _ = Describe("MCP Server", func() {
	Describe("NewServer", func() {
		It("returns an error when source is nil", func() {
			_, err := mcp.NewServer(mcp.Config{Logger: llmocklogger.Nop()})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("source is required"))
		})

		It("returns an error when logger is nil", func() {
			_, err := mcp.NewServer(mcp.Config{Source: staticSource{}})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("logger is required"))
		})

		It("returns an HTTP handler", func() {
			server, err := mcp.NewServer(mcp.Config{
				Source: staticSource{},
				Logger: llmocklogger.Nop(),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(server.Handler()).NotTo(BeNil())
		})
	})
})
