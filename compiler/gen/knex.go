package gen

import (
	"github.com/syssam/dbtypegen/compiler/ts"
)

// knexTablesModule is the module Knex reads its table typings from.
const knexTablesModule = "knex/types/tables"

// genKnex builds generated/knex.ts, the secondary-target aggregate. It
// merges the Knex map of every non-empty schema into the Tables interface
// of Knex through a module augmentation. The main schema is registered
// twice, under bare and under qualified names, since legacy call sites use
// both.
func genKnex(g *Graph) *ts.File {
	var (
		decls   []ts.Decl
		aliases []ts.Decl
		extends []ts.Expr
	)
	for _, s := range g.NonEmpty() {
		decls = append(decls, ts.Import{
			From:     "./" + s.Name,
			TypeOnly: true,
			Names:    []ts.ImportName{{Name: "KnexSchemaTypeMap", Alias: s.TypeMapName()}},
		})
		extends = append(extends, ts.R(s.TypeMapName()))
		if s.Main {
			aliases = append(aliases, ts.TypeAlias{
				Name: s.QualifiedTypeMapName(),
				Type: ts.PrefixedKeys{Prefix: s.Name + ".", Of: ts.R(s.TypeMapName())},
			})
			extends = append(extends, ts.R(s.QualifiedTypeMapName()))
		}
	}
	if len(aliases) > 0 {
		decls = append(decls, ts.Blank{})
		decls = append(decls, aliases...)
	}
	decls = append(decls,
		ts.Blank{},
		ts.Module{
			Name:    knexTablesModule,
			Declare: true,
			Body:    []ts.Decl{ts.Interface{Name: "Tables", Extends: extends}},
		},
	)
	return &ts.File{Path: KnexPath, Decls: decls}
}
