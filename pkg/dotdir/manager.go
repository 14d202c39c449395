// Package dotdir manages the .llmock/ and ~/.llmock directories.
//
// The directory holds config.toml and the saved session of "llmock chat",
// persisted as session.json so a conversation can be resumed.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirName is the name of the llmock directory.
const DirName = ".llmock"

// Manager resolves the llmock directory and the files inside it.
type Manager struct {
	getwd   func() (string, error)
	homeDir func() (string, error)
}

func NewManager() *Manager {
	return &Manager{getwd: os.Getwd, homeDir: os.UserHomeDir}
}

// Target returns the absolute path of the llmock directory, creating it
// when missing. The first of these wins:
//  1. overrideDir, when not empty
//  2. ./.llmock, when it exists
//  3. ~/.llmock
func (m *Manager) Target(overrideDir string) (string, error) {
	dir, err := m.resolve(overrideDir)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating llmock directory %s: %w", dir, err)
	}
	return filepath.Abs(dir)
}

// File returns the path of name inside the llmock directory.
func (m *Manager) File(overrideDir, name string) (string, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func (m *Manager) resolve(overrideDir string) (string, error) {
	if overrideDir != "" {
		return overrideDir, nil
	}

	cwd, err := m.getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	local := filepath.Join(cwd, DirName)
	if info, err := os.Stat(local); err == nil && info.IsDir() {
		return local, nil
	}

	home, err := m.homeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}
