package dotdir

// NewManagerAt returns a Manager that sees cwd as the working directory and
// home as the home directory.
func NewManagerAt(cwd, home string) *Manager {
	return &Manager{
		getwd:   func() (string, error) { return cwd, nil },
		homeDir: func() (string, error) { return home, nil },
	}
}
