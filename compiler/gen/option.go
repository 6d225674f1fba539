package gen

import (
	"errors"
	"strings"
)

// Option configures code generation.
type Option func(*Config) error

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithSchemaFile sets the database tree file used by the command line.
func WithSchemaFile(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return NewConfigError("SchemaFile", nil, "schema file cannot be empty")
		}
		c.SchemaFile = path
		return nil
	}
}

// WithHeader sets the file header.
// The header is added at the top of each generated file, but never to
// customization scaffolds.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithMainSchema sets the schema whose tables are exported at the top level
// of the generated index and registered unqualified for Knex.
func WithMainSchema(schema string) Option {
	return func(c *Config) error {
		if schema == "" {
			return NewConfigError("MainSchema", nil, "main schema cannot be empty")
		}
		c.MainSchema = schema
		return nil
	}
}

// WithCustomizableTables marks the given tables of a schema as customizable.
// It can be called more than once for the same schema.
func WithCustomizableTables(schema string, tables ...string) Option {
	return func(c *Config) error {
		if schema == "" {
			return NewConfigError("Customizable", nil, "schema cannot be empty")
		}
		if c.Customizable == nil {
			c.Customizable = make(map[string]TableSet)
		}
		set := c.Customizable[schema]
		if !set.All {
			set.Tables = append(set.Tables, tables...)
		}
		c.Customizable[schema] = set
		return nil
	}
}

// WithCustomizableSchema marks every table of a schema as customizable.
func WithCustomizableSchema(schema string) Option {
	return func(c *Config) error {
		if schema == "" {
			return NewConfigError("Customizable", nil, "schema cannot be empty")
		}
		if c.Customizable == nil {
			c.Customizable = make(map[string]TableSet)
		}
		c.Customizable[schema] = AllTables()
		return nil
	}
}

// WithLegacyBugs marks a table, given by its qualified "<schema>.<table>"
// name, as reproducing the legacy typing bugs for the given columns.
func WithLegacyBugs(qualifiedTable string, columns ...string) Option {
	return func(c *Config) error {
		schema, table, ok := strings.Cut(qualifiedTable, ".")
		if !ok || schema == "" || table == "" {
			return NewConfigError("LegacyBugs", qualifiedTable, `expected a "<schema>.<table>" name`)
		}
		if c.LegacyBugs == nil {
			c.LegacyBugs = make(map[string][]string)
		}
		c.LegacyBugs[qualifiedTable] = append(c.LegacyBugs[qualifiedTable], columns...)
		return nil
	}
}

// WithFeatures enables specific features.
func WithFeatures(features ...Feature) Option {
	return func(c *Config) error {
		for _, f := range features {
			if !c.hasFeature(f.Name) {
				c.Features = append(c.Features, f)
			}
		}
		return nil
	}
}

// WithFeatureNames enables features by name.
func WithFeatureNames(names ...string) Option {
	return func(c *Config) error {
		for _, name := range names {
			f, ok := FeatureByName(name)
			if !ok {
				return NewConfigError("Features", name, "unknown feature")
			}
			if err := WithFeatures(f)(c); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithWorkers sets the number of parallel workers. Zero keeps the default.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return NewConfigError("Workers", n, "workers cannot be negative")
		}
		if n > 0 {
			c.Workers = n
		}
		return nil
	}
}

// WithFormatCommand sets an external formatter, e.g.
// "npx", "prettier", "--stdin-filepath", "{path}". The literal "{path}" is
// replaced with the artifact path.
func WithFormatCommand(argv ...string) Option {
	return func(c *Config) error {
		if len(argv) == 0 || argv[0] == "" {
			return NewConfigError("FormatCommand", nil, "command cannot be empty")
		}
		c.FormatCommand = argv
		return nil
	}
}

func (c *Config) hasFeature(name string) bool {
	for _, f := range c.Features {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := defaultConfig()
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
