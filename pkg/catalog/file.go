package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileFormat is the models section of a legacy llmock config.yaml:
//
//	models:
//	  - id: gpt-4o
//	    created: 1715367049
//	    owned_by: openai
type fileFormat struct {
	Models []Model `yaml:"models"`
}

// LoadFile reads models from a YAML (or JSON) file with a top-level models
// list. Other keys are ignored.
func LoadFile(path string) ([]Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading models file: %w", err)
	}

	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing models file %s: %w", path, err)
	}
	return f.Models, nil
}
