package classify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/conciliador-dev/conciliador/internal/model"
)

// Tables holds the two rule tables as stored in the rules file.
type Tables struct {
	Finisher  []Rule `yaml:"finisher"`
	Statement []Rule `yaml:"statement"`
}

// Set is a compiled pair of classifiers.
type Set struct {
	Finisher  *Classifier
	Statement *Classifier
}

// DefaultTables returns the built-in tables.
func DefaultTables() Tables {
	return Tables{
		Finisher:  DefaultFinisherRules(),
		Statement: DefaultStatementRules(),
	}
}

// DefaultSet compiles the built-in tables.
func DefaultSet() *Set {
	return &Set{
		Finisher:  MustNew(DefaultFinisherRules()),
		Statement: MustNew(DefaultStatementRules()),
	}
}

// LoadTables reads a rules file. A table left empty in the file falls back
// to its built-in default.
func LoadTables(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("reading rules: %w", err)
	}
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tables{}, fmt.Errorf("parsing rules: %w", err)
	}
	if len(t.Finisher) == 0 {
		t.Finisher = DefaultFinisherRules()
	}
	if len(t.Statement) == 0 {
		t.Statement = DefaultStatementRules()
	}
	return t, nil
}

// SaveTables writes t as YAML.
func SaveTables(path string, t Tables) error {
	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	return nil
}

// Compile builds both classifiers.
func (t Tables) Compile() (*Set, error) {
	f, err := New(t.Finisher)
	if err != nil {
		return nil, fmt.Errorf("finisher rules: %w", err)
	}
	s, err := New(t.Statement)
	if err != nil {
		return nil, fmt.Errorf("statement rules: %w", err)
	}
	return &Set{Finisher: f, Statement: s}, nil
}

// Categories returns the categories named by either table, finisher table
// first, without duplicates. These are the buckets reconciliation visits.
func (s *Set) Categories() []model.Category {
	seen := make(map[model.Category]bool)
	var cats []model.Category
	for _, c := range append(s.Finisher.Categories(), s.Statement.Categories()...) {
		if !seen[c] {
			seen[c] = true
			cats = append(cats, c)
		}
	}
	return cats
}
