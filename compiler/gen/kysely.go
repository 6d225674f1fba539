package gen

import (
	"github.com/syssam/dbtypegen/compiler/ts"
)

// genKysely builds generated/kysely.ts, the primary-target aggregate: the
// intersection of every schema's Kysely type map, and the database and
// transaction types parameterized by it.
func genKysely(g *Graph) *ts.File {
	decls := []ts.Decl{
		ts.Import{From: "kysely", TypeOnly: true, Names: ts.Names("Kysely", "Transaction")},
	}
	var maps ts.Intersection
	for _, s := range g.NonEmpty() {
		decls = append(decls, ts.Import{
			From:     "./" + s.Name,
			TypeOnly: true,
			Names:    []ts.ImportName{{Name: "KyselySchemaTypeMap", Alias: s.TypeMapName()}},
		})
		maps = append(maps, ts.R(s.TypeMapName()))
	}
	decls = append(decls,
		ts.Blank{},
		ts.TypeAlias{Name: "KyselySchema", Exported: true, Type: maps},
		ts.Blank{},
		ts.TypeAlias{Name: "KyselyDatabase", Exported: true, Type: ts.R("Kysely", ts.R("KyselySchema"))},
		ts.TypeAlias{Name: "KyselyTransaction", Exported: true, Type: ts.R("Transaction", ts.R("KyselySchema"))},
	)
	return &ts.File{Path: KyselyPath, Decls: decls}
}
