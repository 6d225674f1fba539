package ts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func render(decls ...Decl) string {
	return string(Render(&File{Decls: decls}))
}

func TestImport(t *testing.T) {
	tests := []struct {
		name string
		decl Import
		want string
	}{
		{
			name: "named type-only",
			decl: Import{From: "./UsersQueryTypes", TypeOnly: true, Names: Names("SelectableUsers", "InsertableUsers")},
			want: `import type { SelectableUsers, InsertableUsers } from "./UsersQueryTypes"` + "\n",
		},
		{
			name: "aliased",
			decl: Import{From: "./public", Names: []ImportName{{Name: "KyselySchemaTypeMap", Alias: "PublicTypeMap"}}},
			want: `import { KyselySchemaTypeMap as PublicTypeMap } from "./public"` + "\n",
		},
		{
			name: "default",
			decl: Import{From: "../../custom/public/UsersCustomTypes", TypeOnly: true, Default: "UsersCustomTypes"},
			want: `import type UsersCustomTypes from "../../custom/public/UsersCustomTypes"` + "\n",
		},
		{
			name: "side effect",
			decl: Import{From: "./setup"},
			want: `import "./setup"` + "\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(tt.decl))
		})
	}
}

func TestTypeAlias(t *testing.T) {
	t.Run("generic reference", func(t *testing.T) {
		got := render(TypeAlias{
			Name:     "Users",
			Exported: true,
			Type:     R("CustomizeDbType", R("SelectableUsers"), R("UsersCustomTypes")),
		})
		assert.Equal(t, "export type Users = CustomizeDbType<SelectableUsers, UsersCustomTypes>\n", got)
	})

	t.Run("documented", func(t *testing.T) {
		got := render(TypeAlias{Name: "A", Type: Raw("string"), Doc: "@deprecated Old.\n\nUse B."})
		assert.Equal(t, "/**\n * @deprecated Old.\n *\n * Use B.\n */\ntype A = string\n", got)
	})

	t.Run("tuple of spreads and literals", func(t *testing.T) {
		got := render(
			TypeAlias{Name: "PublicTables", Exported: true, Type: Tuple{Lit("public.users"), Lit("public.orders")}},
			TypeAlias{Name: "DatabaseTables", Exported: true, Type: Tuple{Spread{R("PublicTables")}, Spread{R("BillingTables")}}},
			TypeAlias{Name: "DatabaseTable", Exported: true, Type: Index{X: R("DatabaseTables"), Key: Number}},
			TypeAlias{Name: "Empty", Type: Tuple{}},
		)
		assert.Equal(t, `export type PublicTables = ["public.users", "public.orders"]
export type DatabaseTables = [...PublicTables, ...BillingTables]
export type DatabaseTable = DatabaseTables[number]
type Empty = []
`, got)
	})

	t.Run("intersection", func(t *testing.T) {
		assert.Equal(t, "type S = A & B\n", render(TypeAlias{Name: "S", Type: Intersection{R("A"), R("B")}}))
		assert.Equal(t, "type S = {}\n", render(TypeAlias{Name: "S", Type: Intersection{}}))
	})

	t.Run("object", func(t *testing.T) {
		got := render(TypeAlias{Name: "M", Exported: true, Type: Object{
			{Name: "public.users", Type: R("KyselyTable", R("Users"), R("UsersInitializer"))},
		}})
		assert.Equal(t, "export type M = {\n  \"public.users\": KyselyTable<Users, UsersInitializer>\n}\n", got)
	})

	t.Run("prefixed keys", func(t *testing.T) {
		got := render(TypeAlias{Name: "Q", Type: PrefixedKeys{Prefix: "public.", Of: R("PublicTypeMap")}})
		assert.Equal(t, "type Q = { [K in keyof PublicTypeMap as `public.${K & string}`]: PublicTypeMap[K] }\n", got)
	})
}

func TestInterface(t *testing.T) {
	t.Run("properties", func(t *testing.T) {
		got := render(Interface{
			Name:     "InsertableUsers",
			Exported: true,
			Doc:      "Application users.",
			Props: []Prop{
				{Name: "id", Type: Raw("number"), Optional: true},
				{Name: "email", Type: Raw("string"), Doc: "Login address."},
				{Name: "first-name", Type: Raw("string | null")},
			},
		})
		assert.Equal(t, `/**
 * Application users.
 */
export interface InsertableUsers {
  id?: number
  /**
   * Login address.
   */
  email: string
  "first-name": string | null
}
`, got)
	})

	t.Run("comment terminators in docs", func(t *testing.T) {
		got := render(Interface{
			Name: "SelectableNotes",
			Doc:  "Notes /* nested */.",
			Props: []Prop{
				{Name: "body", Type: Raw("string"), Doc: "ends here */ type Oops = 1"},
			},
		})
		assert.Equal(t, `/**
 * Notes /* nested *\/.
 */
interface SelectableNotes {
  /**
   * ends here *\/ type Oops = 1
   */
  body: string
}
`, got)
	})

	t.Run("empty default export", func(t *testing.T) {
		got := render(Interface{Name: "UsersCustomTypes", Default: true})
		assert.Equal(t, "export default interface UsersCustomTypes {}\n", got)
	})

	t.Run("extends inside ambient module", func(t *testing.T) {
		got := render(Module{
			Name:    "knex/types/tables",
			Declare: true,
			Body: []Decl{
				Interface{Name: "Tables", Extends: []Expr{R("PublicTypeMap"), R("BillingTypeMap")}},
			},
		})
		assert.Equal(t, "declare module \"knex/types/tables\" {\n  interface Tables extends PublicTypeMap, BillingTypeMap {}\n}\n", got)
	})
}

func TestExport(t *testing.T) {
	tests := []struct {
		name string
		decl Export
		want string
	}{
		{"all", Export{From: "./public"}, "export * from \"./public\"\n"},
		{"namespace", Export{From: "./billing", Namespace: "billing"}, "export * as billing from \"./billing\"\n"},
		{"local names", Export{TypeOnly: true, Names: []string{"Users", "UsersInitializer"}}, "export type { Users, UsersInitializer }\n"},
		{"names from", Export{From: "./a", Names: []string{"A"}}, "export { A } from \"./a\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(tt.decl))
		})
	}
}

func TestRenderFile(t *testing.T) {
	f := &File{
		Path: "generated/index.ts",
		Decls: []Decl{
			Comment{"Refine column types here.", ""},
			Blank{},
			Export{From: "./kysely", Namespace: "kysely"},
		},
	}
	withHeader := f.WithHeader("// @generated\n\n")

	assert.Equal(t, "// Refine column types here.\n//\n\nexport * as kysely from \"./kysely\"\n", string(Render(f)))
	assert.Equal(t, "// @generated\n\n// Refine column types here.\n//\n\nexport * as kysely from \"./kysely\"\n", string(Render(withHeader)))
	assert.Empty(t, f.Header, "WithHeader must not modify the receiver")
	assert.Equal(t, f.Path, withHeader.Path)
}

func TestPropKey(t *testing.T) {
	assert.Equal(t, "users", propKey("users"))
	assert.Equal(t, "_x$1", propKey("_x$1"))
	assert.Equal(t, `"public.users"`, propKey("public.users"))
	assert.Equal(t, `"1st"`, propKey("1st"))
	assert.Equal(t, `""`, propKey(""))
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"public.users", `"public.users"`},
		{`a"b\c`, `"a\"b\\c"`},
		{"tab\tnew\n", `"tab\tnew\n"`},
		{"bell\a", `"bell\u0007"`},
		{"<&>", `"<&>"`},
		{"café", `"café"`},
		{"line\u2028sep", `"line\u2028sep"`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, quote(tt.in), tt.in)
	}
}
