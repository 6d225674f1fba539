// dbtypegen generates Kysely (and Knex) table typings from a database tree.
//
//	dbtypegen introspect --driver postgres --dsn "$DATABASE_URL" --out schema.yaml
//	dbtypegen generate --config dbtypegen.yaml
//	dbtypegen watch --config dbtypegen.yaml
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// cli holds the state shared by all commands.
type cli struct {
	stdout  io.Writer
	stderr  io.Writer
	verbose bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:           "dbtypegen",
		Short:         "Generate TypeScript table typings for Kysely and Knex",
		Long:          `A tool to generate TypeScript declaration files describing the tables of a database, for use with the Kysely and Knex query builders.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")
	root.AddCommand(
		c.generateCmd(),
		c.introspectCmd(),
		c.watchCmd(),
	)
	return root
}

// logger returns the logger of the commands. Logs go to stderr so the
// output of the commands can be piped.
func (c *cli) logger() *slog.Logger {
	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{Level: level}))
}
