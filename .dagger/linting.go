package main

import (
	"context"
	"fmt"

	"dagger/llmock/internal/dagger"
)

const golangciLintVersion = "v2.8.0"

// lintOpts returns the common GolangcilintOpts used by both CheckLint and FixLint.
// It layers golangci-lint on top of goContainer() so the Go caches
// are already in place.
func (l *Llmock) lintOpts() dagger.GolangcilintOpts {
	base := l.goContainer().
		WithExec([]string{
			"go",
			"install",
			fmt.Sprintf("github.com/golangci/golangci-lint/v2/cmd/golangci-lint@%s", golangciLintVersion),
		})

	return dagger.GolangcilintOpts{
		BaseCtr: base,
	}
}

// CheckLint runs golangci-lint against the llmock source code without applying fixes.
func (l *Llmock) CheckLint(ctx context.Context) (string, error) {
	return dag.Golangcilint(l.Source, l.lintOpts()).Check(ctx)
}

// FixLint runs golangci-lint against the llmock source code with --fix, applying
// automatic fixes where possible, and returns the modified source directory.
func (l *Llmock) FixLint(ctx context.Context) *dagger.Directory {
	return dag.Golangcilint(l.Source, l.lintOpts()).Lint()
}
