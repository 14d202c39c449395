package main

import (
	"os"

	llmockcmder "github.com/papercomputeco/llmock/cmd/llmock"
)

func main() {
	cmd := llmockcmder.NewLLMockCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
