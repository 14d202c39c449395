package dotdir_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/llmock/pkg/dotdir"
)

var _ = Describe("dotdir.Manager session", func() {
	var tmpDir string
	var m *dotdir.Manager

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "dotdir-test-*")
		Expect(err).NotTo(HaveOccurred())
		m = dotdir.NewManager()
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("LoadSession", func() {
		It("returns nil when no session file exists", func() {
			session, err := m.LoadSession(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(session).To(BeNil())
		})

		It("loads a valid session", func() {
			data := `{"model":"gpt-4o","messages":[{"role":"user","content":"hello"},{"role":"assistant","content":"Mock response to: hello"}]}`
			err := os.WriteFile(filepath.Join(tmpDir, "session.json"), []byte(data), 0o600)
			Expect(err).NotTo(HaveOccurred())

			session, err := m.LoadSession(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(session.Model).To(Equal("gpt-4o"))
			Expect(session.Messages).To(HaveLen(2))
			Expect(session.Messages[1].Content).To(Equal("Mock response to: hello"))
		})

		It("returns error for invalid JSON", func() {
			err := os.WriteFile(filepath.Join(tmpDir, "session.json"), []byte("not json"), 0o600)
			Expect(err).NotTo(HaveOccurred())

			_, err = m.LoadSession(tmpDir)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("parsing session"))
		})
	})

	Describe("SaveSession", func() {
		It("returns error for nil session", func() {
			Expect(m.SaveSession(nil, tmpDir)).To(MatchError("cannot save nil session"))
		})

		It("round-trips a session", func() {
			in := &dotdir.Session{
				Model: "gpt-4o-mini",
				Messages: []dotdir.SessionMessage{
					{Role: "user", Content: "hi"},
					{Role: "assistant", Content: "Mock response to: hi"},
				},
			}
			Expect(m.SaveSession(in, tmpDir)).To(Succeed())

			out, err := m.LoadSession(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(in))
		})
	})

	Describe("ClearSession", func() {
		It("removes the session file", func() {
			Expect(m.SaveSession(&dotdir.Session{Model: "gpt-4o"}, tmpDir)).To(Succeed())
			Expect(m.ClearSession(tmpDir)).To(Succeed())

			_, err := os.Stat(filepath.Join(tmpDir, "session.json"))
			Expect(os.IsNotExist(err)).To(BeTrue())
		})

		It("succeeds when no session file exists", func() {
			Expect(m.ClearSession(tmpDir)).To(Succeed())
		})
	})
})
