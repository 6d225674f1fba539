package gen

import (
	"github.com/syssam/dbtypegen/compiler/ts"
)

// genUtils builds generated/utils.ts, the generic helpers every other
// artifact references by name.
func genUtils(*Graph) *ts.File {
	return &ts.File{
		Path: UtilsPath,
		Decls: []ts.Decl{
			ts.Import{From: "kysely", TypeOnly: true, Names: ts.Names("ColumnType")},
			ts.Blank{},
			ts.TypeAlias{
				Name:     "KyselyTable",
				Params:   []string{"Row", "Initializer"},
				Exported: true,
				Doc:      "Maps a row type and an initializer type to the Kysely table shape.\nColumns missing from the initializer cannot be inserted or updated.",
				Type: ts.Raw("{\n" +
					"  [K in keyof Row]-?: ColumnType<\n" +
					"    Row[K],\n" +
					"    K extends keyof Initializer ? Initializer[K] : never,\n" +
					"    K extends keyof Initializer ? Exclude<Initializer[K], undefined> : never\n" +
					"  >\n" +
					"}"),
			},
			ts.Blank{},
			ts.TypeAlias{
				Name:     "CustomizeDbType",
				Params:   []string{"T", "Custom"},
				Exported: true,
				Doc:      "Replaces the column types of T with the ones declared in Custom.",
				Type:     ts.Raw("{ [K in keyof T]: K extends keyof Custom ? Custom[K] : T[K] }"),
			},
			ts.Blank{},
			ts.TypeAlias{
				Name:     "CustomizeDbTypeInitializer",
				Params:   []string{"T", "Custom"},
				Exported: true,
				Doc:      "Replaces the column types of the initializer T with the ones declared in\nCustom, keeping the nullability of the column.",
				Type:     ts.Raw("{ [K in keyof T]: K extends keyof Custom ? Custom[K] | Extract<T[K], null> : T[K] }"),
			},
			ts.Blank{},
			ts.TypeAlias{
				Name:     "ReproducePgtuiBugs",
				Params:   []string{"T"},
				Exported: true,
				Doc:      "Reproduces the typing of the legacy pgtui library: `_id` columns become\n`string` and untyped (JSON) columns become `any`.",
				Type: ts.Raw("{\n" +
					"  [K in keyof T]: K extends `${string}_id`\n" +
					"    ? string | Extract<T[K], null>\n" +
					"    : unknown extends T[K]\n" +
					"      ? any\n" +
					"      : T[K]\n" +
					"}"),
			},
		},
	}
}
