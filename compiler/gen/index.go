package gen

import (
	"github.com/syssam/dbtypegen/compiler/ts"
)

// genIndex builds generated/index.ts: the global schema and table-name
// tuples, and the re-export of every schema and target aggregate.
func genIndex(g *Graph) *ts.File {
	var (
		schemas = g.NonEmpty()
		imports = make([]ts.Decl, 0, len(schemas))
		exports = make([]ts.Decl, 0, len(schemas))
		names   = make(ts.Tuple, 0, len(schemas))
		tables  = make(ts.Tuple, 0, len(schemas))
	)
	for _, s := range schemas {
		imports = append(imports, ts.Import{From: "./" + s.Name, TypeOnly: true, Names: ts.Names(s.TablesName())})
		names = append(names, ts.Lit(s.Name))
		tables = append(tables, ts.Spread{X: ts.R(s.TablesName())})
		export := ts.Export{From: "./" + s.Name}
		if !s.Main {
			export.Namespace = s.Name
		}
		exports = append(exports, export)
	}
	decls := append(imports,
		ts.Blank{},
		ts.TypeAlias{Name: "DatabaseSchemas", Exported: true, Type: names},
		ts.TypeAlias{Name: "DatabaseTables", Exported: true, Type: tables},
		ts.Blank{},
		ts.TypeAlias{Name: "DatabaseSchema", Exported: true, Type: ts.Index{X: ts.R("DatabaseSchemas"), Key: ts.Number}},
		ts.TypeAlias{Name: "DatabaseTable", Exported: true, Type: ts.Index{X: ts.R("DatabaseTables"), Key: ts.Number}},
		ts.Blank{},
	)
	decls = append(decls, exports...)
	decls = append(decls,
		ts.Blank{},
		ts.Export{From: "./kysely", Namespace: "kysely"},
	)
	if g.FeatureEnabled(FeatureKnex.Name) {
		decls = append(decls, ts.Export{From: "./knex", Namespace: "knex"})
	}
	return &ts.File{Path: IndexPath, Decls: decls}
}
