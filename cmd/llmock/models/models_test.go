package modelscmder_test

import (
	"bytes"
	"context"
	"net"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/llmock/api"
	modelscmder "github.com/papercomputeco/llmock/cmd/llmock/models"
	"github.com/papercomputeco/llmock/pkg/catalog"
	"github.com/papercomputeco/llmock/pkg/logger"
	"github.com/papercomputeco/llmock/pkg/strategy"
)

// startServer runs an llmock server on a loopback port and returns its URL.
func startServer(apiKey string, models ...catalog.Model) string {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())

	server, err := api.NewServer(api.Config{}, &api.Settings{
		Catalog:  catalog.New(models),
		Strategy: strategy.Mirror{},
		APIKey:   apiKey,
	}, logger.Nop())
	Expect(err).NotTo(HaveOccurred())

	go func() { _ = server.RunWithListener(ln) }()
	DeferCleanup(server.Shutdown)

	return "http://" + ln.Addr().String()
}

var _ = Describe("FetchModels", func() {
	It("returns the server's catalog", func() {
		target := startServer("", catalog.Model{ID: "gpt-4o"}, catalog.Model{ID: "gpt-4o-mini"})

		list, err := modelscmder.FetchModels(context.Background(), target+"/", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(list.Data).To(HaveLen(2))
		Expect(list.Data[1].ID).To(Equal("gpt-4o-mini"))
	})

	It("sends the API key", func() {
		target := startServer("sk-test", catalog.Model{ID: "gpt-4o"})

		_, err := modelscmder.FetchModels(context.Background(), target, "")
		Expect(err).To(MatchError(ContainSubstring("401: Missing API key")))

		list, err := modelscmder.FetchModels(context.Background(), target, "sk-test")
		Expect(err).NotTo(HaveOccurred())
		Expect(list.Data).To(HaveLen(1))
	})
})

var _ = Describe("models command", func() {
	It("prints model IDs with --quiet", func() {
		target := startServer("", catalog.Model{ID: "gpt-4o"}, catalog.Model{ID: "o3-mini"})

		root := &cobra.Command{Use: "llmock"}
		root.PersistentFlags().String("config-dir", GinkgoT().TempDir(), "")
		root.AddCommand(modelscmder.NewModelsCmd())

		out := &bytes.Buffer{}
		root.SetOut(out)
		root.SetArgs([]string{"models", "--quiet", "--target", target})

		Expect(root.Execute()).To(Succeed())
		Expect(out.String()).To(Equal("gpt-4o\no3-mini\n"))
	})
})
