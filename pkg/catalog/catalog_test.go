package catalog_test

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/llmock/pkg/catalog"
)

var _ = Describe("Catalog", func() {
	Describe("Lookup", func() {
		It("accepts any model when empty", func() {
			c := catalog.New(nil)
			Expect(c.Lookup("anything")).To(Succeed())
			Expect(c.Lookup("")).To(Succeed())
		})

		It("rejects models missing from a non-empty catalog", func() {
			c := catalog.New([]catalog.Model{{ID: "gpt-4"}})
			Expect(c.Lookup("gpt-4")).To(Succeed())

			err := c.Lookup("other-model")
			Expect(errors.Is(err, catalog.ErrModelNotFound)).To(BeTrue())

			var nf *catalog.ModelNotFoundError
			Expect(errors.As(err, &nf)).To(BeTrue())
			Expect(nf.ID).To(Equal("other-model"))
		})
	})

	It("renders the not-found payload", func() {
		resp := (&catalog.ModelNotFoundError{ID: "other-model"}).Response()

		Expect(resp.Error.Message).To(Equal("The model 'other-model' does not exist"))
		Expect(resp.Error.Type).To(Equal("invalid_request_error"))
		Expect(*resp.Error.Param).To(Equal("model"))
		Expect(*resp.Error.Code).To(Equal("model_not_found"))
	})

	It("keeps order, drops duplicates and defaults owners", func() {
		c := catalog.New([]catalog.Model{
			{ID: "b", Created: 2, OwnedBy: "acme"},
			{ID: "a"},
			{ID: "b", Created: 99},
			{ID: ""},
		})

		Expect(c.IDs()).To(Equal([]string{"b", "a"}))

		list := c.List()
		Expect(list.Object).To(Equal("list"))
		Expect(list.Data[0]).To(Equal(catalog.Model{ID: "b", Object: "model", Created: 2, OwnedBy: "acme"}))
		Expect(list.Data[1].OwnedBy).To(Equal(catalog.DefaultOwner))
	})

	It("gets configured models only", func() {
		c := catalog.New([]catalog.Model{{ID: "gpt-4", Created: 1687882411, OwnedBy: "openai"}})

		m, err := c.Get("gpt-4")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Created).To(Equal(int64(1687882411)))

		_, err = catalog.New(nil).Get("gpt-4")
		Expect(err).To(MatchError(catalog.ErrModelNotFound))
	})
})

var _ = Describe("LoadFile", func() {
	It("reads a legacy config.yaml", func() {
		path := filepath.Join(GinkgoT().TempDir(), "config.yaml")
		Expect(os.WriteFile(path, []byte(`
cors:
  allow-origins: ["http://localhost:8000"]
models:
  - id: gpt-4o
    created: 1715367049
    owned_by: openai
  - id: gpt-4o-mini
    created: 1721172741
    owned_by: openai
`), 0o600)).To(Succeed())

		models, err := catalog.LoadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(models).To(Equal([]catalog.Model{
			{ID: "gpt-4o", Created: 1715367049, OwnedBy: "openai"},
			{ID: "gpt-4o-mini", Created: 1721172741, OwnedBy: "openai"},
		}))
	})

	It("wraps read errors", func() {
		_, err := catalog.LoadFile(filepath.Join(GinkgoT().TempDir(), "missing.yaml"))
		Expect(err).To(MatchError(os.ErrNotExist))
	})

	It("reports parse errors", func() {
		path := filepath.Join(GinkgoT().TempDir(), "bad.yaml")
		Expect(os.WriteFile(path, []byte("models: [\n"), 0o600)).To(Succeed())

		_, err := catalog.LoadFile(path)
		Expect(err).To(MatchError(ContainSubstring("parsing models file")))
	})
})
