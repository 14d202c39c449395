package dotdir_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/llmock/pkg/dotdir"
)

var _ = Describe("Manager", func() {
	var (
		cwd  string
		home string
		m    *dotdir.Manager
	)

	BeforeEach(func() {
		// EvalSymlinks keeps paths comparable with filepath.Abs on macOS.
		root, err := filepath.EvalSymlinks(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())

		cwd = filepath.Join(root, "project")
		home = filepath.Join(root, "home")
		Expect(os.Mkdir(cwd, 0o755)).To(Succeed())
		Expect(os.Mkdir(home, 0o755)).To(Succeed())

		m = dotdir.NewManagerAt(cwd, home)
	})

	Describe("Target", func() {
		It("uses and creates the override", func() {
			override := filepath.Join(cwd, "custom")

			dir, err := m.Target(override)
			Expect(err).NotTo(HaveOccurred())
			Expect(dir).To(Equal(override))
			Expect(override).To(BeADirectory())
		})

		It("prefers the override over a local .llmock", func() {
			Expect(os.Mkdir(filepath.Join(cwd, dotdir.DirName), 0o755)).To(Succeed())
			override := filepath.Join(cwd, "custom")

			Expect(m.Target(override)).To(Equal(override))
		})

		It("uses ./.llmock when it exists", func() {
			local := filepath.Join(cwd, dotdir.DirName)
			Expect(os.Mkdir(local, 0o755)).To(Succeed())

			Expect(m.Target("")).To(Equal(local))
		})

		It("ignores a ./.llmock file", func() {
			Expect(os.WriteFile(filepath.Join(cwd, dotdir.DirName), nil, 0o644)).To(Succeed())

			Expect(m.Target("")).To(Equal(filepath.Join(home, dotdir.DirName)))
		})

		It("falls back to ~/.llmock and creates it", func() {
			dir, err := m.Target("")
			Expect(err).NotTo(HaveOccurred())
			Expect(dir).To(Equal(filepath.Join(home, dotdir.DirName)))
			Expect(dir).To(BeADirectory())
		})
	})

	Describe("File", func() {
		It("joins the name onto the resolved directory", func() {
			path, err := m.File("", "session.json")
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(filepath.Join(home, dotdir.DirName, "session.json")))
		})
	})
})
