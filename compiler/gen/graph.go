package gen

import (
	"fmt"

	"github.com/syssam/dbtypegen/compiler/load"
)

type (
	// Graph is the validated view of a database tree that the builders
	// work on: canonical names are computed, configuration flags are
	// resolved per table, and iteration order is the tree order.
	Graph struct {
		*Config
		// Schemas holds every schema of the tree, empty ones included.
		Schemas []*Schema
	}

	// Schema is a schema of the graph.
	Schema struct {
		Name      string
		Canonical string
		Main      bool
		Tables    []*Table
	}

	// Table is a table of the graph.
	Table struct {
		Name      string
		Canonical string
		Comment   string
		Schema    *Schema

		SelectableColumns []*load.Column
		InsertableColumns []*load.Column

		// Customizable tables are wired through a customization scaffold.
		Customizable bool
		// LegacyBugs tables get the deprecated *WithPgtuiBugs aliases.
		LegacyBugs bool
	}
)

// NewGraph creates a graph from the given tree and configuration. It fails
// if the tree breaks its invariants, or if two identifiers normalize to the
// same canonical name and would overwrite each other's declarations or
// artifact paths.
func NewGraph(c *Config, tree *load.Tree) (*Graph, error) {
	if c == nil {
		return nil, NewConfigError("Config", nil, "config cannot be nil")
	}
	if tree == nil {
		return nil, NewSchemaError("", "", "database tree cannot be nil", nil)
	}
	if err := tree.Validate(); err != nil {
		return nil, NewSchemaError("", "", "invalid database tree", err)
	}
	g := &Graph{Config: c, Schemas: make([]*Schema, 0, len(tree.Schemas))}
	schemaNames := make(map[string]string, len(tree.Schemas))
	for _, ls := range tree.Schemas {
		s := &Schema{
			Name:      ls.Name,
			Canonical: Normalize(ls.Name),
			Main:      ls.Name == c.MainSchema,
			Tables:    make([]*Table, 0, len(ls.Tables)),
		}
		if s.Canonical == "" {
			return nil, NewSchemaError(s.Name, "", "schema name has no canonical form", nil)
		}
		// Empty schemas are never emitted, so they cannot collide.
		if !ls.Empty() {
			if prev, ok := schemaNames[s.Canonical]; ok {
				return nil, NewSchemaError(s.Name, "", fmt.Sprintf("canonical name %q is also used by schema %q", s.Canonical, prev), nil)
			}
			schemaNames[s.Canonical] = s.Name
		}
		tableNames := make(map[string]string, len(ls.Tables))
		claimed := claims{
			s.TablesName():        "the schema index",
			s.TableUnionName():    "the schema index",
			"KnexSchemaTypeMap":   "the schema index",
			"KyselySchemaTypeMap": "the schema index",
		}
		for _, lt := range ls.Tables {
			t := &Table{
				Name:              lt.Name,
				Canonical:         Normalize(lt.Name),
				Comment:           lt.Comment,
				Schema:            s,
				SelectableColumns: lt.SelectableColumns,
				InsertableColumns: lt.InsertableColumns,
				Customizable:      c.IsCustomizable(ls.Name, lt.Name),
				LegacyBugs:        c.HasLegacyBugs(ls.Name, lt.Name),
			}
			if t.Canonical == "" {
				return nil, NewSchemaError(s.Name, t.Name, "table name has no canonical form", nil)
			}
			if prev, ok := tableNames[t.Canonical]; ok {
				return nil, NewSchemaError(s.Name, t.Name, fmt.Sprintf("canonical name %q is also used by table %q", t.Canonical, prev), nil)
			}
			tableNames[t.Canonical] = t.Name
			if err := claimed.claim(t, t.produces()...); err != nil {
				return nil, err
			}
			s.Tables = append(s.Tables, t)
		}
		g.Schemas = append(g.Schemas, s)
	}
	return g, nil
}

// NonEmpty returns the schemas that have at least one table, in order.
func (g *Graph) NonEmpty() []*Schema {
	schemas := make([]*Schema, 0, len(g.Schemas))
	for _, s := range g.Schemas {
		if !s.Empty() {
			schemas = append(schemas, s)
		}
	}
	return schemas
}

// Empty reports if the schema has no tables.
func (s *Schema) Empty() bool { return len(s.Tables) == 0 }

// TablesName returns the name of the qualified-table-name tuple type.
func (s *Schema) TablesName() string { return s.Canonical + "Tables" }

// TableUnionName returns the name of the "one of the tables" type.
func (s *Schema) TableUnionName() string { return s.Canonical + "Table" }

// TypeMapName returns the local alias of the schema's type map.
func (s *Schema) TypeMapName() string { return s.Canonical + "TypeMap" }

// QualifiedTypeMapName returns the local alias of the schema's type map
// re-keyed with qualified names.
func (s *Schema) QualifiedTypeMapName() string { return s.Canonical + "QualifiedTypeMap" }

// QualifiedName returns the "<schema>.<table>" name of the table.
func (t *Table) QualifiedName() string { return t.Schema.Name + "." + t.Name }

// TypeName returns the name of the row type alias.
func (t *Table) TypeName() string { return t.Canonical }

// InitializerName returns the name of the insert type alias.
func (t *Table) InitializerName() string { return t.Canonical + "Initializer" }

// LegacyTypeName returns the name of the deprecated row type alias.
func (t *Table) LegacyTypeName() string { return t.Canonical + "WithPgtuiBugs" }

// LegacyInitializerName returns the name of the deprecated insert type alias.
func (t *Table) LegacyInitializerName() string { return t.Canonical + "InitializerWithPgtuiBugs" }

// SelectableName returns the name of the raw row shape.
func (t *Table) SelectableName() string { return "Selectable" + t.Canonical }

// InsertableName returns the name of the raw insert shape.
func (t *Table) InsertableName() string { return "Insertable" + t.Canonical }

// CustomTypesName returns the name of the customization interface.
func (t *Table) CustomTypesName() string { return t.Canonical + "CustomTypes" }

// KnexTypeName returns the alias registered for the table in the Knex map.
func (t *Table) KnexTypeName() string {
	if t.LegacyBugs {
		return t.LegacyTypeName()
	}
	return t.TypeName()
}

// KnexKey returns the key of the table in the Knex map: the bare name for
// the main schema, the qualified name otherwise.
func (t *Table) KnexKey() string {
	if t.Schema.Main {
		return t.Name
	}
	return t.QualifiedName()
}

// produces returns the artifact paths and exported aliases of a table that
// share a namespace with the other tables of its schema.
func (t *Table) produces() []string {
	return []string{
		TablePath(t.Schema.Name, t.Canonical),
		QueryTypesPath(t.Schema.Name, t.Canonical),
		t.TypeName(),
		t.InitializerName(),
		t.LegacyTypeName(),
		t.LegacyInitializerName(),
	}
}

// claims maps the paths and aliases of a schema to their owner.
type claims map[string]string

func (c claims) claim(t *Table, keys ...string) error {
	owner := fmt.Sprintf("table %q", t.Name)
	for _, k := range keys {
		if prev, ok := c[k]; ok && prev != owner {
			return NewSchemaError(t.Schema.Name, t.Name, fmt.Sprintf("%q is also produced by %s", k, prev), nil)
		}
		c[k] = owner
	}
	return nil
}
