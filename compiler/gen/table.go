package gen

import (
	"strings"

	"github.com/syssam/dbtypegen/compiler/load"
	"github.com/syssam/dbtypegen/compiler/ts"
)

// legacyBugsDoc documents the deprecated aliases of tables reproducing the
// legacy typing bugs.
const legacyBugsDoc = "@deprecated Reproduces the type bugs of the legacy `pgtui` library. Do not use in new code.\n" +
	"\n" +
	"Specifically:\n" +
	"- Columns ending in `_id` are typed as `string`, whatever their actual database type.\n" +
	"- `jsonb` columns are typed as `any` instead of their actual type."

// genQueryTypes builds generated/<schema>/<Table>QueryTypes.ts, holding the
// raw row and insert shapes of a table.
func genQueryTypes(t *Table) *ts.File {
	return &ts.File{
		Path: QueryTypesPath(t.Schema.Name, t.Canonical),
		Decls: []ts.Decl{
			ts.Interface{
				Name:     t.SelectableName(),
				Exported: true,
				Doc:      t.Comment,
				Props:    columnProps(t.SelectableColumns),
			},
			ts.Blank{},
			ts.Interface{
				Name:     t.InsertableName(),
				Exported: true,
				Doc:      t.Comment,
				Props:    columnProps(t.InsertableColumns),
			},
		},
	}
}

func columnProps(columns []*load.Column) []ts.Prop {
	props := make([]ts.Prop, len(columns))
	for i, c := range columns {
		props[i] = ts.Prop{
			Name:     c.Name,
			Type:     ts.Raw(c.Type),
			Optional: c.Optional,
			Doc:      strings.Join(c.Comments, "\n"),
		}
	}
	return props
}

// genTable builds generated/<schema>/<Table>.ts, holding the public row and
// initializer aliases of a table and, when configured, their customized
// and legacy variants.
func genTable(t *Table) *ts.File {
	decls := []ts.Decl{
		ts.Import{
			From:     "./" + t.Canonical + "QueryTypes",
			TypeOnly: true,
			Names:    ts.Names(t.SelectableName(), t.InsertableName()),
		},
	}
	if t.LegacyBugs {
		decls = append(decls, ts.Import{
			From:     "../utils",
			TypeOnly: true,
			Names:    ts.Names("ReproducePgtuiBugs"),
		})
	}
	row, initializer := ts.Expr(ts.R(t.SelectableName())), ts.Expr(ts.R(t.InsertableName()))
	if t.Customizable {
		decls = append(decls,
			ts.Import{
				From:     "../utils",
				TypeOnly: true,
				Names:    ts.Names("CustomizeDbType", "CustomizeDbTypeInitializer"),
			},
			ts.Import{
				From:     "../../" + strings.TrimSuffix(CustomTypesPath(t.Schema.Name, t.Canonical), ".ts"),
				TypeOnly: true,
				Default:  t.CustomTypesName(),
			},
		)
		row = ts.R("CustomizeDbType", row, ts.R(t.CustomTypesName()))
		initializer = ts.R("CustomizeDbTypeInitializer", initializer, ts.R(t.CustomTypesName()))
	}
	decls = append(decls,
		ts.Blank{},
		ts.TypeAlias{Name: t.TypeName(), Exported: true, Type: row},
		ts.TypeAlias{Name: t.InitializerName(), Exported: true, Type: initializer},
	)
	if t.LegacyBugs {
		decls = append(decls,
			ts.Blank{},
			ts.TypeAlias{
				Name:     t.LegacyTypeName(),
				Exported: true,
				Type:     ts.R("ReproducePgtuiBugs", ts.R(t.TypeName())),
				Doc:      legacyBugsDoc,
			},
			ts.TypeAlias{
				Name:     t.LegacyInitializerName(),
				Exported: true,
				Type:     ts.R("ReproducePgtuiBugs", ts.R(t.InitializerName())),
				Doc:      legacyBugsDoc,
			},
		)
	}
	return &ts.File{Path: TablePath(t.Schema.Name, t.Canonical), Decls: decls}
}
