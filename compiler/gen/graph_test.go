package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dbtypegen/compiler/load"
)

// testTree returns public.users, an empty audit schema and
// billing.invoices, in that order.
func testTree() *load.Tree {
	return load.NewTree(
		&load.Schema{
			Name: "public",
			Tables: []*load.Table{{
				Name:    "users",
				Comment: "Application users.",
				SelectableColumns: []*load.Column{
					{Name: "id", Type: "number"},
					{Name: "org_id", Type: "number | null"},
					{Name: "settings", Type: "unknown", Comments: []string{"User preferences."}},
				},
				InsertableColumns: []*load.Column{
					{Name: "id", Type: "number", Optional: true},
					{Name: "org_id", Type: "number | null", Optional: true},
					{Name: "settings", Type: "unknown"},
				},
			}},
		},
		&load.Schema{Name: "audit"},
		&load.Schema{
			Name: "billing",
			Tables: []*load.Table{{
				Name: "invoices",
				SelectableColumns: []*load.Column{
					{Name: "id", Type: "string"},
					{Name: "total", Type: "number | null"},
				},
				InsertableColumns: []*load.Column{
					{Name: "total", Type: "number | null", Optional: true},
				},
			}},
		},
	)
}

func testGraph(t *testing.T, opts ...Option) *Graph {
	t.Helper()
	c, err := NewConfig(append([]Option{WithTarget(t.TempDir())}, opts...)...)
	require.NoError(t, err)
	g, err := NewGraph(c, testTree())
	require.NoError(t, err)
	return g
}

func TestNewGraph(t *testing.T) {
	g := testGraph(t,
		WithCustomizableTables("public", "users"),
		WithLegacyBugs("billing.invoices"),
	)

	require.Len(t, g.Schemas, 3)
	public, audit, billing := g.Schemas[0], g.Schemas[1], g.Schemas[2]
	assert.Equal(t, "Public", public.Canonical)
	assert.True(t, public.Main)
	assert.False(t, billing.Main)
	assert.True(t, audit.Empty())
	assert.Equal(t, []*Schema{public, billing}, g.NonEmpty())

	users := public.Tables[0]
	assert.Equal(t, "Users", users.Canonical)
	assert.Same(t, public, users.Schema)
	assert.True(t, users.Customizable)
	assert.False(t, users.LegacyBugs)

	invoices := billing.Tables[0]
	assert.False(t, invoices.Customizable)
	assert.True(t, invoices.LegacyBugs)
}

func TestGraphNames(t *testing.T) {
	g := testGraph(t, WithLegacyBugs("billing.invoices"))
	users, invoices := g.Schemas[0].Tables[0], g.Schemas[2].Tables[0]

	assert.Equal(t, "public.users", users.QualifiedName())
	assert.Equal(t, "Users", users.TypeName())
	assert.Equal(t, "UsersInitializer", users.InitializerName())
	assert.Equal(t, "SelectableUsers", users.SelectableName())
	assert.Equal(t, "InsertableUsers", users.InsertableName())
	assert.Equal(t, "UsersCustomTypes", users.CustomTypesName())
	assert.Equal(t, "Users", users.KnexTypeName())
	assert.Equal(t, "users", users.KnexKey())

	assert.Equal(t, "InvoicesWithPgtuiBugs", invoices.LegacyTypeName())
	assert.Equal(t, "InvoicesInitializerWithPgtuiBugs", invoices.LegacyInitializerName())
	assert.Equal(t, "InvoicesWithPgtuiBugs", invoices.KnexTypeName())
	assert.Equal(t, "billing.invoices", invoices.KnexKey())

	billing := g.Schemas[2]
	assert.Equal(t, "BillingTables", billing.TablesName())
	assert.Equal(t, "BillingTable", billing.TableUnionName())
	assert.Equal(t, "BillingTypeMap", billing.TypeMapName())
	assert.Equal(t, "BillingQualifiedTypeMap", billing.QualifiedTypeMapName())
}

func TestGraphMainSchema(t *testing.T) {
	g := testGraph(t, WithMainSchema("billing"))

	assert.False(t, g.Schemas[0].Main)
	assert.True(t, g.Schemas[2].Main)
	assert.Equal(t, "public.users", g.Schemas[0].Tables[0].KnexKey())
	assert.Equal(t, "invoices", g.Schemas[2].Tables[0].KnexKey())
}

func TestNewGraphErrors(t *testing.T) {
	c := MustNewConfig(WithTarget(t.TempDir()))

	t.Run("nil config", func(t *testing.T) {
		_, err := NewGraph(nil, testTree())
		assert.True(t, IsConfigError(err))
	})

	t.Run("nil tree", func(t *testing.T) {
		_, err := NewGraph(c, nil)
		assert.ErrorIs(t, err, ErrInvalidSchema)
	})

	t.Run("invalid tree", func(t *testing.T) {
		_, err := NewGraph(c, load.NewTree(&load.Schema{Name: "a"}, &load.Schema{Name: "a"}))
		require.Error(t, err)
		assert.True(t, IsSchemaError(err))
	})

	t.Run("table canonical collision", func(t *testing.T) {
		tree := load.NewTree(&load.Schema{
			Name:   "public",
			Tables: []*load.Table{{Name: "order_items"}, {Name: "orderItems"}},
		})
		_, err := NewGraph(c, tree)
		require.ErrorIs(t, err, ErrInvalidSchema)
		assert.Contains(t, err.Error(), `"OrderItems"`)
	})

	t.Run("derived artifact path collision", func(t *testing.T) {
		tree := load.NewTree(&load.Schema{
			Name:   "public",
			Tables: []*load.Table{{Name: "users"}, {Name: "users_query_types"}},
		})
		_, err := NewGraph(c, tree)
		require.ErrorIs(t, err, ErrInvalidSchema)
		assert.Contains(t, err.Error(), `"generated/public/UsersQueryTypes.ts"`)
		assert.Contains(t, err.Error(), `table "users"`)
	})

	t.Run("derived alias collision", func(t *testing.T) {
		tree := load.NewTree(&load.Schema{
			Name:   "public",
			Tables: []*load.Table{{Name: "users_initializer"}, {Name: "users"}},
		})
		_, err := NewGraph(c, tree)
		require.ErrorIs(t, err, ErrInvalidSchema)
		assert.Contains(t, err.Error(), `"UsersInitializer"`)
	})

	t.Run("schema index alias collision", func(t *testing.T) {
		tree := load.NewTree(&load.Schema{
			Name:   "public",
			Tables: []*load.Table{{Name: "public_tables"}},
		})
		_, err := NewGraph(c, tree)
		require.ErrorIs(t, err, ErrInvalidSchema)
		assert.Contains(t, err.Error(), "schema index")
	})

	t.Run("same table in other schemas", func(t *testing.T) {
		tree := load.NewTree(
			&load.Schema{Name: "public", Tables: []*load.Table{{Name: "users"}}},
			&load.Schema{Name: "crm", Tables: []*load.Table{{Name: "users"}}},
		)
		_, err := NewGraph(c, tree)
		require.NoError(t, err)
	})

	t.Run("schema canonical collision", func(t *testing.T) {
		tree := load.NewTree(
			&load.Schema{Name: "app_data", Tables: []*load.Table{{Name: "a"}}},
			&load.Schema{Name: "appData", Tables: []*load.Table{{Name: "b"}}},
		)
		_, err := NewGraph(c, tree)
		require.ErrorIs(t, err, ErrInvalidSchema)
	})

	t.Run("empty schemas cannot collide", func(t *testing.T) {
		tree := load.NewTree(
			&load.Schema{Name: "app_data", Tables: []*load.Table{{Name: "a"}}},
			&load.Schema{Name: "appData"},
		)
		_, err := NewGraph(c, tree)
		require.NoError(t, err)
	})

	t.Run("no canonical form", func(t *testing.T) {
		tree := load.NewTree(&load.Schema{Name: "public", Tables: []*load.Table{{Name: "__"}}})
		_, err := NewGraph(c, tree)
		require.ErrorIs(t, err, ErrInvalidSchema)
	})
}
