// llmock CI/CD
//
// Package main provides reproducible builds and tests locally and in GitHub actions.
package main

import (
	"context"
	"errors"
	"fmt"

	"dagger/llmock/internal/dagger"
)

// Llmock is the main module for the llmock CI/CD pipeline
type Llmock struct {
	// Project source directory
	//
	// +private
	Source *dagger.Directory
}

// New creates a new llmock CI/CD module instance
func New(
	// Project source directory.
	//
	// +defaultPath="/"
	// +ignore=[".git", ".direnv", ".devenv", "build", "tmp", ".llmock", "_examples"]
	source *dagger.Directory,
) *Llmock {
	return &Llmock{
		Source: source,
	}
}

// goContainer returns an Alpine Go container with the project source mounted.
// llmock has no cgo dependencies so CGO stays off.
func (l *Llmock) goContainer() *dagger.Container {
	return dag.Container().
		From("golang:1.25-alpine").
		WithEnvVariable("CGO_ENABLED", "0").
		WithEnvVariable("PATH", "/go/bin:$PATH", dagger.ContainerWithEnvVariableOpts{Expand: true}).
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("go-build")).
		WithWorkdir("/src").
		WithDirectory("/src", l.Source)
}

// Test runs the llmock unit tests via "go test"
func (l *Llmock) Test(ctx context.Context) (string, error) {
	return l.goContainer().
		WithExec([]string{"go", "test", "-v", "./..."}).
		Stdout(ctx)
}

// CheckGoModTidy fails when "go mod tidy" would change go.mod or go.sum.
//
// +check
func (l *Llmock) CheckGoModTidy(ctx context.Context) (string, error) {
	_, err := l.goContainer().
		WithExec([]string{"go", "mod", "tidy", "-diff"}).
		Stdout(ctx)

	var e *dagger.ExecError
	if errors.As(err, &e) {
		return "", fmt.Errorf("go.mod or go.sum are not tidy, run 'go mod tidy':\n\n%s", e.Stdout)
	}
	if err != nil {
		return "", fmt.Errorf("running go mod tidy: %w", err)
	}
	return "go.mod and go.sum are tidy", nil
}

// Smoke boots the server in a container and checks the health endpoint
func (l *Llmock) Smoke(ctx context.Context) (string, error) {
	bin := l.goContainer().
		WithExec([]string{"go", "build", "-o", "/out/llmock", "./cli/llmock"}).
		File("/out/llmock")

	server := dag.Container().
		From("alpine:3.22").
		WithFile("/usr/local/bin/llmock", bin).
		WithExposedPort(8080).
		AsService(dagger.ContainerAsServiceOpts{
			Args: []string{"llmock", "serve", "--listen", "0.0.0.0:8080"},
		})

	return dag.Container().
		From("alpine:3.22").
		WithServiceBinding("llmock", server).
		WithExec([]string{"wget", "-qO-", "http://llmock:8080/health"}).
		Stdout(ctx)
}
