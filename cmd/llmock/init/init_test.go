package initcmder_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	initcmder "github.com/papercomputeco/llmock/cmd/llmock/init"
	"github.com/papercomputeco/llmock/pkg/config"
)

var _ = Describe("NewInitCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := initcmder.NewInitCmd()
		Expect(cmd.Use).To(Equal("init"))
	})

	It("rejects any arguments", func() {
		cmd := initcmder.NewInitCmd()
		Expect(cmd.Args(cmd, []string{})).To(Succeed())
		Expect(cmd.Args(cmd, []string{"extra"})).NotTo(Succeed())
	})

	It("has a --preset flag", func() {
		cmd := initcmder.NewInitCmd()
		f := cmd.Flags().Lookup("preset")
		Expect(f).NotTo(BeNil())
		Expect(f.DefValue).To(Equal(""))
	})
})

var _ = Describe("Init command execution", func() {
	var (
		tmpDir  string
		origDir string
	)

	execute := func(args ...string) error {
		cmd := initcmder.NewInitCmd()
		cmd.SetOut(GinkgoWriter)
		cmd.SetErr(GinkgoWriter)
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "llmock-init-test-*")
		Expect(err).NotTo(HaveOccurred())

		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		err = os.Chdir(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		err := os.Chdir(origDir)
		Expect(err).NotTo(HaveOccurred())
		os.RemoveAll(tmpDir)
	})

	It("creates a .llmock directory with a default config.toml", func() {
		Expect(execute()).To(Succeed())

		info, err := os.Stat(filepath.Join(tmpDir, ".llmock"))
		Expect(err).NotTo(HaveOccurred())
		Expect(info.IsDir()).To(BeTrue())

		cfg := loadConfig(tmpDir)
		Expect(cfg.Version).To(Equal(config.CurrentV))
		Expect(cfg.Server.Listen).To(Equal(":8000"))
		Expect(cfg.Strategy.Name).To(Equal("mirror"))
		Expect(cfg.Models).To(BeEmpty())
	})

	It("does not overwrite an existing config without --preset", func() {
		dir := filepath.Join(tmpDir, ".llmock")
		Expect(os.MkdirAll(dir, 0o755)).To(Succeed())
		existing := []byte("version = 0\n\n[server]\nlisten = \":7000\"\n")
		Expect(os.WriteFile(filepath.Join(dir, "config.toml"), existing, 0o600)).To(Succeed())

		Expect(execute()).To(Succeed())

		data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal(existing))
	})

	It("keeps other files in an existing directory", func() {
		dir := filepath.Join(tmpDir, ".llmock")
		Expect(os.MkdirAll(dir, 0o755)).To(Succeed())
		session := filepath.Join(dir, "session.json")
		Expect(os.WriteFile(session, []byte(`{"model":"gpt-4o"}`), 0o600)).To(Succeed())

		Expect(execute()).To(Succeed())

		data, err := os.ReadFile(session)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(`{"model":"gpt-4o"}`))
	})

	Describe("--preset with named presets", func() {
		It("seeds the openai models", func() {
			Expect(execute("--preset", "openai")).To(Succeed())

			cfg := loadConfig(tmpDir)
			Expect(cfg.Models).To(HaveLen(5))
			Expect(cfg.Models[0].ID).To(Equal("gpt-4o"))
			Expect(cfg.Models[0].OwnedBy).To(Equal("system"))
		})

		It("overwrites the config when re-run with another preset", func() {
			Expect(execute("--preset", "openai")).To(Succeed())
			Expect(execute("--preset", "legacy")).To(Succeed())

			cfg := loadConfig(tmpDir)
			Expect(cfg.Models).To(HaveLen(2))
			Expect(cfg.Models[0].ID).To(Equal("gpt-4"))
		})

		It("rejects unknown preset names without creating anything", func() {
			err := execute("--preset", "invalid-provider")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unknown preset"))

			_, err = os.Stat(filepath.Join(tmpDir, ".llmock"))
			Expect(os.IsNotExist(err)).To(BeTrue())
		})
	})

	Describe("--preset with remote URL", func() {
		It("fetches and writes remote config.toml", func() {
			remoteCfg := `version = 0

[server]
listen = ":9090"

[strategy]
name = "static"
reply = "pong"

[[models]]
id = "team-model"
owned_by = "team"
`
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				fmt.Fprint(w, remoteCfg)
			}))
			defer server.Close()

			Expect(execute("--preset", server.URL)).To(Succeed())

			cfg := loadConfig(tmpDir)
			Expect(cfg.Server.Listen).To(Equal(":9090"))
			Expect(cfg.Strategy.Reply).To(Equal("pong"))
			Expect(cfg.Models).To(HaveLen(1))
			Expect(cfg.Models[0].OwnedBy).To(Equal("team"))
		})

		It("returns error for non-200 HTTP response", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer server.Close()

			err := execute("--preset", server.URL)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("HTTP 404"))
		})

		It("returns error for invalid TOML from URL", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, "this is not valid toml [[[")
			}))
			defer server.Close()

			err := execute("--preset", server.URL)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("parsing"))
		})

		It("returns error for unreachable URL", func() {
			err := execute("--preset", "http://127.0.0.1:1")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("fetching remote config"))
		})
	})
})

// loadConfig reads and parses config.toml from the .llmock directory within
// baseDir.
func loadConfig(baseDir string) *config.Config {
	data, err := os.ReadFile(filepath.Join(baseDir, ".llmock", "config.toml"))
	ExpectWithOffset(1, err).NotTo(HaveOccurred())

	cfg := &config.Config{}
	ExpectWithOffset(1, toml.Unmarshal(data, cfg)).To(Succeed())
	return cfg
}
