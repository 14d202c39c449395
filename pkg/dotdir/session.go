package dotdir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

const sessionFile = "session.json"

// Session is the saved conversation of "llmock chat".
type Session struct {
	// Model is the model ID the conversation was held with.
	Model string `json:"model"`

	// Messages is the conversation history, oldest first.
	Messages []SessionMessage `json:"messages"`
}

// SessionMessage is a single chat turn.
type SessionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LoadSession loads .llmock/session.json.
// Returns nil, nil if no session was saved.
func (m *Manager) LoadSession(overrideDir string) (*Session, error) {
	path, err := m.File(overrideDir, sessionFile)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session: %w", err)
	}

	session := &Session{}
	if err := json.Unmarshal(data, session); err != nil {
		return nil, fmt.Errorf("parsing session: %w", err)
	}

	return session, nil
}

// SaveSession persists session to .llmock/session.json.
func (m *Manager) SaveSession(session *Session, overrideDir string) error {
	if session == nil {
		return errors.New("cannot save nil session")
	}

	path, err := m.File(overrideDir, sessionFile)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}

	return nil
}

// ClearSession removes the saved session so the next chat starts fresh.
// Returns nil if there is nothing to clear.
func (m *Manager) ClearSession(overrideDir string) error {
	path, err := m.File(overrideDir, sessionFile)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("removing session: %w", err)
	}

	return nil
}
