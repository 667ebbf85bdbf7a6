// internal/demo/scenarios.go
package demo

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed scenarios.yaml
var scenariosYAML []byte

type Scenario struct {
	ID                  string   `yaml:"id" json:"id"`
	Title               string   `yaml:"title" json:"title"`
	Query               string   `yaml:"query" json:"query"`
	Language            string   `yaml:"language" json:"language"`
	Description         string   `yaml:"description" json:"description"`
	Category            string   `yaml:"category" json:"category"`
	ExpectedDataSources []string `yaml:"expectedDataSources" json:"expectedDataSources"`
}

// Scenarios returns the built-in scenarios in file order.
func Scenarios() ([]Scenario, error) {
	return ParseScenarios(scenariosYAML)
}

func ParseScenarios(data []byte) ([]Scenario, error) {
	var doc struct {
		Scenarios []Scenario `yaml:"scenarios"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse scenarios: %w", err)
	}

	seen := make(map[string]bool, len(doc.Scenarios))
	for i, s := range doc.Scenarios {
		if s.ID == "" || s.Query == "" {
			return nil, fmt.Errorf("scenario %d: id and query are required", i)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("scenario %q defined twice", s.ID)
		}
		seen[s.ID] = true
	}
	return doc.Scenarios, nil
}

// Find returns the scenario with the given id.
func Find(scenarios []Scenario, id string) (Scenario, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return Scenario{}, false
}
