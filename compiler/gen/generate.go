package gen

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/dbtypegen/compiler/load"
	"github.com/syssam/dbtypegen/compiler/ts"
)

type (
	// Generator runs the generation pipeline of a graph: build every
	// artifact, prefix the header, render, format, clean up the leftovers
	// of disabled features and write.
	Generator struct {
		graph     *Graph
		workers   int
		formatter Formatter
		writer    Writer
		logger    *slog.Logger
	}

	// Artifact is a file produced by a generation run.
	Artifact struct {
		File *ts.File
		// Scaffold artifacts are created once and never overwritten.
		Scaffold bool
	}

	// Report describes the outcome of a generation run. Paths are relative
	// to the output directory and listed in artifact order.
	Report struct {
		// RunID identifies the run in logs.
		RunID string
		// Written holds the generated artifacts and the newly created
		// scaffolds.
		Written []string
		// Skipped holds the scaffolds that already existed.
		Skipped []string
		// Removed holds the stale artifacts of disabled features.
		Removed []string
	}
)

// NewGenerator creates a generator for the given graph. By default it
// writes to the configured target directory and formats artifacts with
// the configured command, or with TidyFormatter when none is set.
func NewGenerator(g *Graph) *Generator {
	gen := &Generator{
		graph:     g,
		workers:   runtime.GOMAXPROCS(0),
		formatter: TidyFormatter,
		logger:    slog.Default(),
	}
	if g != nil && g.Config != nil {
		if g.Workers > 0 {
			gen.workers = g.Workers
		}
		if len(g.FormatCommand) > 0 {
			gen.formatter = &CommandFormatter{Argv: g.FormatCommand, Dir: g.Target}
		}
	}
	return gen
}

// WithWorkers sets the number of parallel workers.
func (g *Generator) WithWorkers(n int) *Generator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// WithFormatter sets the formatter applied to every artifact.
func (g *Generator) WithFormatter(f Formatter) *Generator {
	if f != nil {
		g.formatter = f
	}
	return g
}

// WithWriter sets the writer artifacts are persisted with.
func (g *Generator) WithWriter(w Writer) *Generator {
	if w != nil {
		g.writer = w
	}
	return g
}

// WithLogger sets the logger of the generator.
func (g *Generator) WithLogger(l *slog.Logger) *Generator {
	if l != nil {
		g.logger = l
	}
	return g
}

// builder builds one artifact. Builders are pure functions of the graph.
type builder struct {
	build    func() *ts.File
	scaffold bool
}

// builders returns the artifact builders of the graph in output order:
// the global artifacts, the per-table and per-schema artifacts in tree
// order, and the customization scaffolds last.
func (g *Generator) builders() []builder {
	graph := g.graph
	bs := []builder{
		{build: func() *ts.File { return genKysely(graph) }},
		{build: func() *ts.File { return genIndex(graph) }},
		{build: func() *ts.File { return genUtils(graph) }},
	}
	if graph.FeatureEnabled(FeatureKnex.Name) {
		bs = append(bs, builder{build: func() *ts.File { return genKnex(graph) }})
	}
	for _, s := range graph.Schemas {
		for _, t := range s.Tables {
			bs = append(bs,
				builder{build: func() *ts.File { return genQueryTypes(t) }},
				builder{build: func() *ts.File { return genTable(t) }},
			)
		}
		if !s.Empty() {
			bs = append(bs, builder{build: func() *ts.File { return genSchemaIndex(graph, s) }})
		}
	}
	for _, s := range graph.Schemas {
		for _, t := range s.Tables {
			if t.Customizable {
				bs = append(bs, builder{build: func() *ts.File { return genCustomTypes(t) }, scaffold: true})
			}
		}
	}
	return bs
}

// Artifacts builds every artifact of the graph in parallel. The result is
// ordered as builders() regardless of scheduling, and every artifact except
// the scaffolds carries the configured header.
func (g *Generator) Artifacts(ctx context.Context) ([]Artifact, error) {
	if g.graph == nil || g.graph.Config == nil {
		return nil, NewConfigError("Config", nil, "generator has no configuration")
	}
	bs := g.builders()
	artifacts := make([]Artifact, len(bs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i, b := range bs {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			f := b.build()
			if !b.scaffold {
				f = f.WithHeader(g.graph.Header)
			}
			artifacts[i] = Artifact{File: f, Scaffold: b.scaffold}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, NewGenerationError("build", "", "", err)
	}
	return artifacts, nil
}

// Generate runs the whole pipeline. Scaffolds that already exist are kept
// as they are and reported as skipped; every other artifact is rewritten.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	if g.graph == nil || g.graph.Config == nil {
		return nil, NewConfigError("Config", nil, "generator has no configuration")
	}
	w := g.writer
	if w == nil {
		if g.graph.Target == "" {
			return nil, NewConfigError("Target", nil, "missing target directory in config")
		}
		w = NewDirWriter(g.graph.Target)
	}
	report := &Report{RunID: uuid.NewString()}
	log := g.logger.With("run", report.RunID)
	start := time.Now()

	artifacts, err := g.Artifacts(ctx)
	if err != nil {
		return nil, err
	}
	srcs, err := g.format(ctx, artifacts)
	if err != nil {
		return nil, err
	}
	for _, f := range AllFeatures {
		if g.graph.FeatureEnabled(f.Name) {
			continue
		}
		for _, p := range f.stale {
			removed, err := w.Remove(ctx, p)
			if err != nil {
				return nil, NewGenerationError("cleanup", p, "", err)
			}
			if removed {
				log.Info("removed artifact of disabled feature", "feature", f.Name, "path", p)
				report.Removed = append(report.Removed, p)
			}
		}
	}
	for i, a := range artifacts {
		p := a.File.Path
		if !a.Scaffold {
			if err := w.Write(ctx, p, srcs[i]); err != nil {
				return nil, NewGenerationError("write", p, "", err)
			}
			report.Written = append(report.Written, p)
			continue
		}
		switch err := w.Create(ctx, p, srcs[i]); {
		case IsExistsError(err):
			log.Debug("keeping existing customization file", "path", p)
			report.Skipped = append(report.Skipped, p)
		case err != nil:
			return nil, NewGenerationError("write", p, "", err)
		default:
			log.Info("created customization file", "path", p)
			report.Written = append(report.Written, p)
		}
	}
	log.Info("generation finished",
		"written", len(report.Written),
		"skipped", len(report.Skipped),
		"removed", len(report.Removed),
		"duration", time.Since(start),
	)
	return report, nil
}

// format renders and formats the artifacts in parallel.
func (g *Generator) format(ctx context.Context, artifacts []Artifact) ([][]byte, error) {
	srcs := make([][]byte, len(artifacts))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i, a := range artifacts {
		eg.Go(func() error {
			out, err := g.formatter.Format(ctx, a.File.Path, ts.Render(a.File))
			if err != nil {
				return NewGenerationError("format", a.File.Path, "", err)
			}
			srcs[i] = out
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return srcs, nil
}

// Generate builds the graph of the given configuration and tree and writes
// its artifacts to the configured target directory.
func Generate(ctx context.Context, c *Config, tree *load.Tree) (*Report, error) {
	g, err := NewGraph(c, tree)
	if err != nil {
		return nil, err
	}
	return NewGenerator(g).Generate(ctx)
}
