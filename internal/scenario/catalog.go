// Package scenario provides the game content: scenarios with their clues and
// characters, plus a pool of generic deduction hints.
package scenario

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"

	"mafioso/internal/domain"
)

//go:embed data/scenarios.json
var dataFS embed.FS

// Catalog is an in-memory scenario source
type Catalog struct {
	scenarios []domain.Scenario
	hints     []string
}

type catalogFile struct {
	Scenarios []domain.Scenario `json:"scenarios"`
	Hints     []string          `json:"hints"`
}

// Load parses the embedded scenario catalog
func Load() (*Catalog, error) {
	data, err := dataFS.ReadFile("data/scenarios.json")
	if err != nil {
		return nil, fmt.Errorf("reading scenarios: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from its JSON form
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing scenarios: %w", err)
	}
	return New(file.Scenarios, file.Hints)
}

// New creates a catalog from the given scenarios and hints
func New(scenarios []domain.Scenario, hints []string) (*Catalog, error) {
	if len(scenarios) == 0 {
		return nil, domain.ErrNoScenario
	}
	if len(hints) == 0 {
		return nil, errors.New("scenario catalog needs at least one generic hint")
	}
	return &Catalog{scenarios: scenarios, hints: hints}, nil
}

// PickRandom returns a copy of a randomly chosen scenario
func (c *Catalog) PickRandom() *domain.Scenario {
	s := c.scenarios[rand.IntN(len(c.scenarios))]
	return &domain.Scenario{
		Title:      s.Title,
		Clues:      append([]string(nil), s.Clues...),
		Characters: append([]domain.Character(nil), s.Characters...),
	}
}

// RandomHint returns one of the generic hints. Repeats are allowed.
func (c *Catalog) RandomHint() string {
	return c.hints[rand.IntN(len(c.hints))]
}

// Len returns the number of scenarios in the catalog
func (c *Catalog) Len() int {
	return len(c.scenarios)
}
