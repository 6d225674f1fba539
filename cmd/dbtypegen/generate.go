package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/syssam/dbtypegen/compiler/gen"
	"github.com/syssam/dbtypegen/compiler/load"
)

// defaultConfigFile is read when --config is not given and the file exists.
const defaultConfigFile = "dbtypegen.yaml"

type generateOptions struct {
	config     string
	schemaFile string
	outputDir  string
	features   []string
	dryRun     bool
}

func (c *cli) generateCmd() *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the typings",
		Long:  `Generate the typings of a database tree. Generated files are rewritten on every run; customization files are created once and never touched again.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := c.generate(cmd.Context(), opts)
			if err != nil {
				return err
			}
			c.printReport(report, opts.dryRun)
			return nil
		},
	}
	opts.flags(cmd)
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the files that would be written without touching the output directory")
	return cmd
}

func (o *generateOptions) flags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.config, "config", "c", "", "Configuration file (default: "+defaultConfigFile+" when present)")
	cmd.Flags().StringVar(&o.schemaFile, "schema-file", "", "Database tree file (.yaml, .json or .msgpack), overrides the configuration")
	cmd.Flags().StringVarP(&o.outputDir, "output-dir", "o", "", "Output directory, overrides the configuration")
	cmd.Flags().StringSliceVar(&o.features, "feature", nil, "Enable a feature (e.g. knex)")
}

// loadConfig reads the configuration file, if any, and applies the flags
// on top of it.
func (o *generateOptions) loadConfig() (*gen.Config, error) {
	var extra []gen.Option
	if o.schemaFile != "" {
		extra = append(extra, gen.WithSchemaFile(o.schemaFile))
	}
	if o.outputDir != "" {
		extra = append(extra, gen.WithTarget(o.outputDir))
	}
	if len(o.features) > 0 {
		extra = append(extra, gen.WithFeatureNames(o.features...))
	}
	path := o.config
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); errors.Is(err, fs.ErrNotExist) {
			return gen.NewConfig(extra...)
		}
		path = defaultConfigFile
	}
	return gen.LoadConfig(path, extra...)
}

func (c *cli) generate(ctx context.Context, opts generateOptions) (*gen.Report, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.SchemaFile == "" {
		return nil, gen.NewConfigError("SchemaFile", nil, "no database tree: set schema_file or pass --schema-file")
	}
	tree, err := load.LoadFile(cfg.SchemaFile)
	if err != nil {
		return nil, err
	}
	graph, err := gen.NewGraph(cfg, tree)
	if err != nil {
		return nil, err
	}
	g := gen.NewGenerator(graph).WithLogger(c.logger())
	if opts.dryRun {
		g.WithWriter(gen.NewMemWriter(nil))
	}
	return g.Generate(ctx)
}

func (c *cli) printReport(r *gen.Report, dryRun bool) {
	verb := "wrote"
	if dryRun {
		verb = "would write"
	}
	for _, p := range r.Written {
		fmt.Fprintf(c.stdout, "%s %s\n", verb, p)
	}
	for _, p := range r.Skipped {
		fmt.Fprintf(c.stdout, "kept %s\n", p)
	}
	for _, p := range r.Removed {
		fmt.Fprintf(c.stdout, "removed %s\n", p)
	}
}
