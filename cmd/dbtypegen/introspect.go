package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syssam/dbtypegen/compiler/introspect"
	"github.com/syssam/dbtypegen/compiler/load"
)

type introspectOptions struct {
	driver  string
	dsn     string
	schemas []string
	out     string
}

func (c *cli) introspectCmd() *cobra.Command {
	var opts introspectOptions
	cmd := &cobra.Command{
		Use:   "introspect",
		Short: "Read a database tree from a live database",
		Long:  `Read the tables of a live database and write them as a database tree file, the input of the generate command.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.dsn == "" {
				opts.dsn = os.Getenv("DATABASE_URL")
			}
			return c.introspect(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.driver, "driver", introspect.Postgres, "Database dialect ("+strings.Join(introspect.Dialects, ", ")+")")
	cmd.Flags().StringVar(&opts.dsn, "dsn", "", "Data source name (default: $DATABASE_URL)")
	cmd.Flags().StringSliceVar(&opts.schemas, "schemas", nil, "Comma-separated list of schemas to read, in output order (default: all schemas)")
	cmd.Flags().StringVar(&opts.out, "out", "-", "Output file (.yaml, .json or .msgpack), - for YAML on stdout")
	return cmd
}

func (c *cli) introspect(ctx context.Context, opts introspectOptions) error {
	if opts.dsn == "" {
		return fmt.Errorf("missing data source name: pass --dsn or set DATABASE_URL")
	}
	db, err := introspect.Connect(ctx, opts.driver, opts.dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	in, err := introspect.Open(opts.driver, db)
	if err != nil {
		return err
	}
	tree, err := in.WithLogger(c.logger()).Inspect(ctx, opts.schemas...)
	if err != nil {
		return err
	}
	return c.writeTree(tree, opts.out)
}

func (c *cli) writeTree(tree *load.Tree, out string) error {
	if out == "" || out == "-" {
		data, err := load.Marshal(tree, load.FormatYAML)
		if err != nil {
			return err
		}
		_, err = c.stdout.Write(data)
		return err
	}
	if err := load.SaveFile(out, tree); err != nil {
		return err
	}
	c.logger().Info("wrote database tree", "path", out, "schemas", len(tree.Schemas))
	return nil
}
