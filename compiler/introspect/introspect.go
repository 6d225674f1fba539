// Package introspect reads the tables of a live database into a load.Tree,
// using the Atlas inspectors of the supported dialects.
package introspect

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/dbtypegen/compiler/load"

	// Database drivers.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported dialects. The names are also the database/sql driver names.
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
)

// Dialects holds the supported dialect names.
var Dialects = []string{Postgres, MySQL, SQLite}

// Inspector reads database trees from a connection.
type Inspector struct {
	dialect   string
	inspector schema.Inspector
	logger    *slog.Logger
	querier   *statsQuerier
}

// Connect opens and pings a connection pool for the given dialect.
func Connect(ctx context.Context, dialect, dsn string) (*sql.DB, error) {
	if !slices.Contains(Dialects, dialect) {
		return nil, fmt.Errorf("introspect: unsupported dialect %q", dialect)
	}
	db, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("introspect: open %s: %w", dialect, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("introspect: connect %s: %w", dialect, err)
	}
	return db, nil
}

// Open returns an Inspector reading from db. Opening queries the server
// version, so it fails on an unreachable database.
func Open(dialect string, db schema.ExecQuerier) (*Inspector, error) {
	i := &Inspector{dialect: dialect, logger: slog.Default()}
	i.querier = &statsQuerier{
		ExecQuerier:   db,
		stats:         &QueryStats{},
		slowThreshold: DefaultSlowThreshold,
		logger:        func() *slog.Logger { return i.logger },
	}
	var err error
	switch dialect {
	case Postgres:
		i.inspector, err = postgres.Open(i.querier)
	case MySQL:
		i.inspector, err = mysql.Open(i.querier)
	case SQLite:
		i.inspector, err = sqlite.Open(i.querier)
	default:
		return nil, fmt.Errorf("introspect: unsupported dialect %q", dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("introspect: open %s inspector: %w", dialect, err)
	}
	return i, nil
}

// WithLogger sets the logger of the inspector.
func (i *Inspector) WithLogger(l *slog.Logger) *Inspector {
	if l != nil {
		i.logger = l
	}
	return i
}

// WithSlowThreshold sets the duration above which queries are logged as
// slow.
func (i *Inspector) WithSlowThreshold(d time.Duration) *Inspector {
	if d > 0 {
		i.querier.slowThreshold = d
	}
	return i
}

// Stats returns the statistics of the queries issued so far.
func (i *Inspector) Stats() StatsSnapshot {
	return i.querier.stats.Snapshot()
}

// Inspect reads the given schemas, or every schema visible to the
// connection when none is given. Requested schemas keep the requested
// order; otherwise the order is the one reported by the database.
func (i *Inspector) Inspect(ctx context.Context, schemas ...string) (*load.Tree, error) {
	realm, err := i.inspector.InspectRealm(ctx, &schema.InspectRealmOption{Schemas: schemas})
	if err != nil {
		return nil, fmt.Errorf("introspect: inspect %s: %w", i.dialect, err)
	}
	tree, err := FromRealm(i.dialect, realm, schemas...)
	if err != nil {
		return nil, err
	}
	for _, s := range tree.Schemas {
		i.logger.Debug("inspected schema", "dialect", i.dialect, "schema", s.Name, "tables", len(s.Tables))
	}
	i.logger.Debug("inspection queries", "stats", i.Stats().String())
	return tree, nil
}

// FromRealm converts an inspected realm into a tree. When order is given,
// the tree holds exactly those schemas, in that order.
func FromRealm(dialect string, realm *schema.Realm, order ...string) (*load.Tree, error) {
	byName := make(map[string]*schema.Schema, len(realm.Schemas))
	for _, s := range realm.Schemas {
		byName[s.Name] = s
	}
	schemas := realm.Schemas
	if len(order) > 0 {
		schemas = make([]*schema.Schema, 0, len(order))
		for _, name := range order {
			s, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("introspect: schema %q not found", name)
			}
			schemas = append(schemas, s)
		}
	}
	tree := load.NewTree()
	for _, s := range schemas {
		ls := &load.Schema{Name: s.Name, Tables: make([]*load.Table, 0, len(s.Tables))}
		for _, t := range s.Tables {
			ls.Tables = append(ls.Tables, table(dialect, t))
		}
		tree.Schemas = append(tree.Schemas, ls)
	}
	if err := tree.Validate(); err != nil {
		return nil, fmt.Errorf("introspect: %w", err)
	}
	return tree, nil
}

func table(dialect string, t *schema.Table) *load.Table {
	lt := &load.Table{
		Name:              t.Name,
		Comment:           comment(t.Attrs),
		SelectableColumns: make([]*load.Column, 0, len(t.Columns)),
		InsertableColumns: make([]*load.Column, 0, len(t.Columns)),
	}
	for _, c := range t.Columns {
		var comments []string
		if text := comment(c.Attrs); text != "" {
			comments = strings.Split(text, "\n")
		}
		typ := TypeOf(dialect, c)
		lt.SelectableColumns = append(lt.SelectableColumns, &load.Column{
			Name:     c.Name,
			Type:     typ,
			Comments: comments,
		})
		if generated(c) {
			continue
		}
		lt.InsertableColumns = append(lt.InsertableColumns, &load.Column{
			Name:     c.Name,
			Type:     typ,
			Optional: optional(c),
			Comments: comments,
		})
	}
	return lt
}

// optional reports whether a column may be left out of an insert.
func optional(c *schema.Column) bool {
	if c.Default != nil || (c.Type != nil && c.Type.Null) {
		return true
	}
	for _, a := range c.Attrs {
		switch a.(type) {
		case *postgres.Identity, *mysql.AutoIncrement, *sqlite.AutoIncrement:
			return true
		}
	}
	if c.Type != nil {
		if _, ok := c.Type.Type.(*postgres.SerialType); ok {
			return true
		}
	}
	return false
}

// generated reports whether the column is computed by the database and
// cannot be written.
func generated(c *schema.Column) bool {
	for _, a := range c.Attrs {
		if _, ok := a.(*schema.GeneratedExpr); ok {
			return true
		}
	}
	return false
}

func comment(attrs []schema.Attr) string {
	for _, a := range attrs {
		if c, ok := a.(*schema.Comment); ok {
			return strings.TrimSpace(c.Text)
		}
	}
	return ""
}
