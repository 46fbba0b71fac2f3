package scenario

import (
	"errors"
	"testing"

	"mafioso/internal/domain"
)

func TestLoadEmbedded(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() == 0 {
		t.Fatal("embedded catalog is empty")
	}

	for _, s := range c.scenarios {
		if s.Title == "" || len(s.Clues) == 0 || len(s.Characters) == 0 {
			t.Errorf("incomplete scenario %+v", s)
		}
	}
	if c.RandomHint() == "" {
		t.Error("empty hint")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"valid", `{"scenarios":[{"title":"T","clues":["c"],"characters":[{"name":"N","bio":"B"}]}],"hints":["h"]}`, false},
		{"bad json", `{"scenarios":`, true},
		{"no scenarios", `{"scenarios":[],"hints":["h"]}`, true},
		{"no hints", `{"scenarios":[{"title":"T"}]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse: err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewWithoutScenarios(t *testing.T) {
	if _, err := New(nil, []string{"h"}); !errors.Is(err, domain.ErrNoScenario) {
		t.Errorf("err = %v, want %v", err, domain.ErrNoScenario)
	}
}

func TestPickRandomReturnsCopy(t *testing.T) {
	c, err := New([]domain.Scenario{{
		Title:      "Only",
		Clues:      []string{"clue"},
		Characters: []domain.Character{{Name: "N"}},
	}}, []string{"hint"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	s := c.PickRandom()
	s.Clues[0] = "changed"
	s.Characters[0].Name = "changed"

	again := c.PickRandom()
	if again.Clues[0] != "clue" || again.Characters[0].Name != "N" {
		t.Errorf("catalog was modified through a picked scenario: %+v", again)
	}
	if c.RandomHint() != "hint" {
		t.Errorf("hint = %q", c.RandomHint())
	}
}
