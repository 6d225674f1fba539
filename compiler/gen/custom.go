package gen

import (
	"github.com/syssam/dbtypegen/compiler/ts"
)

// genCustomTypes builds the customization scaffold of a table,
// custom/<schema>/<Table>CustomTypes.ts. The scaffold is created once and
// then owned by the user; the generator never overwrites it.
func genCustomTypes(t *Table) *ts.File {
	return &ts.File{
		Path: CustomTypesPath(t.Schema.Name, t.Canonical),
		Decls: []ts.Decl{
			ts.Comment{
				"Refine the generated types of " + t.QualifiedName() + " here.",
				"Each property replaces the type of the column with the same name, e.g.",
				"",
				"  settings: { theme: \"light\" | \"dark\" }",
				"",
				"This file was created by dbtypegen and is never overwritten.",
			},
			ts.Blank{},
			ts.Interface{Name: t.CustomTypesName(), Default: true},
		},
	}
}
