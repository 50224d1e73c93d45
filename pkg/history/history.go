// Package history provides previously confirmed field values, keyed by
// company or project name. The resolver's historical_match strategy uses a
// reference value looked up here when the caller supplies one.
package history

import (
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/concordhq/concord/pkg/cluster"
	"github.com/concordhq/concord/pkg/errors"
)

// Record is one confirmed set of figures for a company.
type Record struct {
	Company string `yaml:"company" json:"company"`

	// Fields maps field names to confirmed numeric values, e.g.
	// ebitda: 12.5.
	Fields map[string]float64 `yaml:"fields" json:"fields"`
}

// Store holds historical records loaded from disk.
type Store struct {
	records []Record
}

// NewStore creates a store from in-memory records.
func NewStore(records []Record) *Store {
	return &Store{records: records}
}

// storeFile is the on-disk representation.
type storeFile struct {
	Records []Record `yaml:"records"`
}

// Load reads historical records from a YAML file.
// Returns an empty store if the file doesn't exist (not an error).
func Load(path string) (*Store, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Store{}, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var sf storeFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}

	return &Store{records: sf.Records}, nil
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Reference looks up the confirmed value for a field by company name.
// Matching is case-insensitive substring in either direction, so
// "Acme Industrial" finds a record stored as "Acme" and vice versa.
// The first matching record wins.
func (s *Store) Reference(company, field string) (float64, bool) {
	if company == "" {
		return 0, false
	}

	needle := cluster.Fold(company)
	for _, rec := range s.records {
		stored := cluster.Fold(rec.Company)
		if stored == "" {
			continue
		}
		if !strings.Contains(stored, needle) && !strings.Contains(needle, stored) {
			continue
		}
		if v, ok := rec.Fields[field]; ok {
			return v, true
		}
	}
	return 0, false
}
