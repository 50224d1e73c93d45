package candidate

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/concordhq/concord/pkg/errors"
)

// Set holds every extractor's candidates for one field of one document.
type Set struct {
	Field      Field       `json:"field" yaml:"field"`
	Candidates []Candidate `json:"candidates" yaml:"candidates"`
}

// Validate checks the per-set invariants: each candidate is structurally
// valid and parser IDs are unique within the set.
func (s Set) Validate() error {
	seen := make(map[ParserID]bool, len(s.Candidates))
	for _, c := range s.Candidates {
		if err := c.Validate(); err != nil {
			return err
		}
		if seen[c.ParserID] {
			return &errors.ValidationError{
				Field:   "parser",
				Value:   string(c.ParserID),
				Message: "duplicate parser in candidate set for field " + s.Field.Name,
			}
		}
		seen[c.ParserID] = true
	}
	return nil
}

// File is the on-disk representation of candidate sets for one document.
type File struct {
	// Company is an optional company or project name used for historical
	// reference lookup.
	Company string `json:"company,omitempty" yaml:"company,omitempty"`
	Sets    []Set  `json:"fields" yaml:"fields"`
}

// LoadFile reads candidate sets from a YAML file and validates them.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("candidate file %s: %w", path, errors.ErrNotFound)
		}
		return nil, errors.WrapIO("read", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}

	for i := range f.Sets {
		set := &f.Sets[i]
		if set.Field.Kind == "" {
			set.Field.Kind = KindMoney
		}
		// A present excerpt implies grounding even when the flag is omitted.
		for j := range set.Candidates {
			if set.Candidates[j].RawExcerpt != "" {
				set.Candidates[j].HasRawExcerpt = true
			}
		}
		if err := set.Validate(); err != nil {
			return nil, err
		}
	}
	return &f, nil
}
