package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dagger/llmock/internal/dagger"
)

// platforms is the release matrix as GOOS/GOARCH pairs.
var platforms = [][2]string{
	{"linux", "amd64"},
	{"linux", "arm64"},
	{"darwin", "amd64"},
	{"darwin", "arm64"},
}

// Build returns a directory with one llmock binary per platform, laid out
// as <goos>/<goarch>/llmock
func (l *Llmock) Build(
	ctx context.Context,

	// Linker flags for go build
	// +optional
	// +default="-s -w"
	ldflags string,
) *dagger.Directory {
	outputs := dag.Directory()
	golang := l.goContainer()

	for _, p := range platforms {
		goos, goarch := p[0], p[1]
		out := fmt.Sprintf("%s/%s/", goos, goarch)

		build := golang.
			WithEnvVariable("GOOS", goos).
			WithEnvVariable("GOARCH", goarch).
			WithExec([]string{"go", "build", "-ldflags", ldflags, "-o", out, "./cli/llmock"})

		outputs = outputs.WithDirectory(out, build.Directory(out))
	}

	return outputs
}

// BuildRelease compiles versioned release binaries with embedded version info
func (l *Llmock) BuildRelease(
	ctx context.Context,

	// Version string of build
	version string,

	// Git commit SHA of build
	commit string,
) *dagger.Directory {
	const pkg = "github.com/papercomputeco/llmock/pkg/utils"

	ldflags := []string{
		"-s",
		"-w",
		fmt.Sprintf("-X '%s.Version=%s'", pkg, version),
		fmt.Sprintf("-X '%s.Sha=%s'", pkg, commit),
		fmt.Sprintf("-X '%s.Buildtime=%s'", pkg, time.Now().UTC().Format(time.RFC3339)),
	}

	return l.Build(ctx, strings.Join(ldflags, " "))
}
