// Package load holds the database tree consumed by the generator and the
// readers/writers for its on-disk representations.
package load

import (
	"fmt"
	"slices"
)

// Tree represents the set of database schemas a generation run works on.
// Schemas are kept in the order they were supplied; that order is the
// order of every aggregate the generator emits.
type Tree struct {
	Schemas []*Schema `json:"schemas" yaml:"schemas" msgpack:"schemas"`
}

// Schema represents a named database schema (namespace) and its tables.
type Schema struct {
	Name   string   `json:"name" yaml:"name" msgpack:"name"`
	Tables []*Table `json:"tables,omitempty" yaml:"tables,omitempty" msgpack:"tables,omitempty"`
}

// Table represents a table (or view) with its selectable and insertable
// column sets. The two sets are independent: generated columns are
// selectable only, and views have no insertable columns at all.
type Table struct {
	Name              string    `json:"name" yaml:"name" msgpack:"name"`
	Comment           string    `json:"comment,omitempty" yaml:"comment,omitempty" msgpack:"comment,omitempty"`
	SelectableColumns []*Column `json:"selectable_columns,omitempty" yaml:"selectable_columns,omitempty" msgpack:"selectable_columns,omitempty"`
	InsertableColumns []*Column `json:"insertable_columns,omitempty" yaml:"insertable_columns,omitempty" msgpack:"insertable_columns,omitempty"`
}

// Column represents a column whose TypeScript type was already resolved.
type Column struct {
	Name     string   `json:"name" yaml:"name" msgpack:"name"`
	Type     string   `json:"type" yaml:"type" msgpack:"type"`
	Optional bool     `json:"optional,omitempty" yaml:"optional,omitempty" msgpack:"optional,omitempty"`
	Comments []string `json:"comments,omitempty" yaml:"comments,omitempty" msgpack:"comments,omitempty"`
}

// NewTree returns a tree holding the given schemas, in order.
func NewTree(schemas ...*Schema) *Tree {
	return &Tree{Schemas: schemas}
}

// Schema returns the schema with the given name. Lookups do not modify
// the tree and are safe for concurrent use.
func (t *Tree) Schema(name string) (*Schema, bool) {
	i := slices.IndexFunc(t.Schemas, func(s *Schema) bool { return s != nil && s.Name == name })
	if i < 0 {
		return nil, false
	}
	return t.Schemas[i], true
}

// Validate checks the tree invariants: schema names are unique within the
// tree, table names are unique within a schema, and no name is empty.
func (t *Tree) Validate() error {
	seen := make(map[string]struct{}, len(t.Schemas))
	for i, s := range t.Schemas {
		if s == nil {
			return fmt.Errorf("load: schema #%d is nil", i)
		}
		if s.Name == "" {
			return fmt.Errorf("load: schema #%d has no name", i)
		}
		if _, ok := seen[s.Name]; ok {
			return fmt.Errorf("load: duplicate schema %q", s.Name)
		}
		seen[s.Name] = struct{}{}
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Table returns the table with the given name.
func (s *Schema) Table(name string) (*Table, bool) {
	i := slices.IndexFunc(s.Tables, func(t *Table) bool { return t != nil && t.Name == name })
	if i < 0 {
		return nil, false
	}
	return s.Tables[i], true
}

// Empty reports if the schema has no tables. Empty schemas are left out of
// every aggregate artifact.
func (s *Schema) Empty() bool { return len(s.Tables) == 0 }

// Validate checks that table names are present and unique.
func (s *Schema) Validate() error {
	seen := make(map[string]struct{}, len(s.Tables))
	for i, t := range s.Tables {
		if t == nil {
			return fmt.Errorf("load: table #%d of schema %q is nil", i, s.Name)
		}
		if t.Name == "" {
			return fmt.Errorf("load: table #%d of schema %q has no name", i, s.Name)
		}
		if _, ok := seen[t.Name]; ok {
			return fmt.Errorf("load: duplicate table %q in schema %q", t.Name, s.Name)
		}
		seen[t.Name] = struct{}{}
	}
	return nil
}

// QualifiedName returns the "<schema>.<table>" name of t.
func (s *Schema) QualifiedName(t *Table) string {
	return s.Name + "." + t.Name
}
