package gen

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultHeader is prefixed to every fully generated artifact.
	DefaultHeader = "// @generated\n// This file was automatically generated. DO NOT EDIT!\n\n"

	// DefaultMainSchema is the schema whose tables are exported at the top
	// level and registered unqualified for Knex.
	DefaultMainSchema = "public"
)

// Config holds the configuration of a generation run. A Config is built
// once with NewConfig or LoadConfig and must not be modified afterwards;
// the generator and every builder only read it.
type Config struct {
	// Target is the output directory. Generated files go to
	// <Target>/generated and customization scaffolds to <Target>/custom.
	Target string

	// SchemaFile is the database tree to generate from. Only used by the
	// command line; library callers pass the tree to NewGraph directly.
	SchemaFile string

	// Header is written at the top of every generated artifact.
	Header string

	// MainSchema names the schema exempted from qualification.
	MainSchema string

	// Customizable lists, per schema, the tables whose types are wired
	// through a user-editable customization file.
	Customizable map[string]TableSet

	// LegacyBugs lists, per qualified "<schema>.<table>" name, the columns
	// affected by the legacy pgtui typing bugs. Any listed table gets the
	// deprecated *WithPgtuiBugs aliases.
	LegacyBugs map[string][]string

	// Features holds the enabled feature flags.
	Features []Feature

	// Workers bounds the goroutines used to build and format artifacts.
	Workers int

	// FormatCommand, when set, is an external formatter invoked once per
	// artifact with the source on stdin, e.g. prettier.
	FormatCommand []string
}

// TableSet is either a list of table names or every table of a schema.
// In YAML it is written as a list, a single name, or the scalar "all".
type TableSet struct {
	All    bool
	Tables []string
}

// AllTables returns the TableSet matching every table.
func AllTables() TableSet { return TableSet{All: true} }

// Contains reports whether the set includes the given table.
func (s TableSet) Contains(table string) bool {
	return s.All || slices.Contains(s.Tables, table)
}

// UnmarshalYAML implements yaml.Unmarshaler for TableSet.
func (s *TableSet) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value == "all" {
			*s = TableSet{All: true}
			return nil
		}
		*s = TableSet{Tables: []string{node.Value}}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = TableSet{Tables: list}
		return nil
	default:
		return fmt.Errorf("expected \"all\", a table name or a list of table names, got %v", node.Kind)
	}
}

// MarshalYAML implements yaml.Marshaler for TableSet.
func (s TableSet) MarshalYAML() (any, error) {
	if s.All {
		return "all", nil
	}
	return s.Tables, nil
}

// FeatureEnabled reports if the given feature name is enabled.
func (c *Config) FeatureEnabled(name string) bool {
	if c.hasFeature(name) {
		return true
	}
	f, ok := FeatureByName(name)
	return ok && f.Default
}

// IsCustomizable reports whether the table is configured as customizable.
func (c *Config) IsCustomizable(schema, table string) bool {
	set, ok := c.Customizable[schema]
	return ok && set.Contains(table)
}

// HasLegacyBugs reports whether the table is configured to reproduce the
// legacy typing bugs.
func (c *Config) HasLegacyBugs(schema, table string) bool {
	_, ok := c.LegacyBugs[schema+"."+table]
	return ok
}

// configFile is the YAML layout of a configuration file.
type configFile struct {
	OutputDir     string              `yaml:"output_dir"`
	SchemaFile    string              `yaml:"schema_file,omitempty"`
	Customizable  map[string]TableSet `yaml:"customizable_tables,omitempty"`
	LegacyBugs    map[string][]string `yaml:"legacy_bug_tables,omitempty"`
	Features      []string            `yaml:"features,omitempty"`
	MainSchema    string              `yaml:"main_schema,omitempty"`
	FileHeader    *string             `yaml:"file_header,omitempty"`
	Workers       int                 `yaml:"workers,omitempty"`
	FormatCommand []string            `yaml:"formatter,omitempty"`

	// Keys of the pgtui-era configuration.
	GenerateKnexTypes *bool               `yaml:"generate_knex_types,omitempty"`
	PgtuiBugTables    map[string][]string `yaml:"reproduce_pgtui_bugs_for_tables,omitempty"`
}

// LoadConfig reads a YAML configuration file. Relative paths in the file
// are resolved against the file's directory. The extra options are applied
// after the file, so they take precedence.
func LoadConfig(path string, opts ...Option) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var file configFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, NewConfigError("File", path, err.Error())
	}
	return NewConfig(append(file.options(filepath.Dir(path)), opts...)...)
}

func (f *configFile) options(dir string) []Option {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	var opts []Option
	if f.OutputDir != "" {
		opts = append(opts, WithTarget(resolve(f.OutputDir)))
	}
	if f.SchemaFile != "" {
		opts = append(opts, WithSchemaFile(resolve(f.SchemaFile)))
	}
	if f.FileHeader != nil {
		opts = append(opts, WithHeader(*f.FileHeader))
	}
	if f.MainSchema != "" {
		opts = append(opts, WithMainSchema(f.MainSchema))
	}
	for schema, set := range f.Customizable {
		if set.All {
			opts = append(opts, WithCustomizableSchema(schema))
		} else {
			opts = append(opts, WithCustomizableTables(schema, set.Tables...))
		}
	}
	for name, columns := range f.LegacyBugs {
		opts = append(opts, WithLegacyBugs(name, columns...))
	}
	for name, columns := range f.PgtuiBugTables {
		opts = append(opts, WithLegacyBugs(name, columns...))
	}
	if len(f.Features) > 0 {
		opts = append(opts, WithFeatureNames(f.Features...))
	}
	if f.GenerateKnexTypes != nil && *f.GenerateKnexTypes {
		opts = append(opts, WithFeatures(FeatureKnex))
	}
	if f.Workers != 0 {
		opts = append(opts, WithWorkers(f.Workers))
	}
	if len(f.FormatCommand) > 0 {
		opts = append(opts, WithFormatCommand(f.FormatCommand...))
	}
	return opts
}

func defaultConfig() *Config {
	return &Config{
		Header:     DefaultHeader,
		MainSchema: DefaultMainSchema,
		Workers:    runtime.GOMAXPROCS(0),
	}
}
