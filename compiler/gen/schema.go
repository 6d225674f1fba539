package gen

import (
	"github.com/syssam/dbtypegen/compiler/ts"
)

// genSchemaIndex builds generated/<schema>/index.ts for a non-empty schema:
// the qualified table-name tuple, the Knex and Kysely type maps, and the
// re-export of every table alias.
func genSchemaIndex(g *Graph, s *Schema) *ts.File {
	decls := []ts.Decl{
		ts.Import{From: "../utils", TypeOnly: true, Names: ts.Names("KyselyTable")},
	}
	var (
		names   = make(ts.Tuple, 0, len(s.Tables))
		kysely  = make(ts.Object, 0, len(s.Tables))
		knex    = make([]ts.Prop, 0, len(s.Tables))
		exports = make([]string, 0, 3*len(s.Tables))
	)
	for _, t := range s.Tables {
		aliases := tableAliases(t)
		decls = append(decls, ts.Import{From: "./" + t.Canonical, TypeOnly: true, Names: ts.Names(aliases...)})
		exports = append(exports, aliases...)
		names = append(names, ts.Lit(t.QualifiedName()))
		kysely = append(kysely, ts.Prop{
			Name: t.QualifiedName(),
			Type: ts.R("KyselyTable", ts.R(t.TypeName()), ts.R(t.InitializerName())),
		})
		knex = append(knex, ts.Prop{Name: t.KnexKey(), Type: ts.R(t.KnexTypeName())})
	}
	decls = append(decls,
		ts.Blank{},
		ts.TypeAlias{Name: s.TablesName(), Exported: true, Type: names},
		ts.TypeAlias{Name: s.TableUnionName(), Exported: true, Type: ts.Index{X: ts.R(s.TablesName()), Key: ts.Number}},
		ts.Blank{},
	)
	if g.FeatureEnabled(FeatureKnex.Name) {
		decls = append(decls,
			ts.Interface{Name: "KnexSchemaTypeMap", Exported: true, Props: knex},
			ts.Blank{},
		)
	}
	decls = append(decls,
		ts.TypeAlias{Name: "KyselySchemaTypeMap", Exported: true, Type: kysely},
		ts.Blank{},
		ts.Export{TypeOnly: true, Names: exports},
	)
	return &ts.File{Path: SchemaIndexPath(s.Name), Decls: decls}
}

// tableAliases returns the aliases a schema index imports and re-exports
// for a table.
func tableAliases(t *Table) []string {
	if t.LegacyBugs {
		return []string{t.TypeName(), t.LegacyTypeName(), t.InitializerName()}
	}
	return []string{t.TypeName(), t.InitializerName()}
}
