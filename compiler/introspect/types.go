package introspect

import (
	"strconv"
	"strings"

	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
)

// TypeOf returns the TypeScript type of a column as read by the usual
// Node.js driver of the dialect. Nullable columns get a "| null" member.
func TypeOf(dialect string, c *schema.Column) string {
	if c.Type == nil {
		return "unknown"
	}
	typ := tsType(dialect, c.Type.Type)
	if c.Type.Null {
		typ += " | null"
	}
	return typ
}

func tsType(dialect string, t schema.Type) string {
	switch t := t.(type) {
	case *schema.IntegerType:
		// node-postgres returns int8 as a string to keep its precision.
		if dialect == Postgres && isBigInt(t.T) {
			return "string"
		}
		return "number"
	case *postgres.SerialType:
		if dialect == Postgres && t.T == "bigserial" {
			return "string"
		}
		return "number"
	case *schema.FloatType:
		return "number"
	case *schema.DecimalType:
		return "string"
	case *schema.StringType, *schema.UUIDType:
		return "string"
	case *schema.BoolType:
		return "boolean"
	case *schema.TimeType:
		if t.T == "year" {
			return "number"
		}
		return "Date"
	case *schema.JSONType:
		return "unknown"
	case *schema.BinaryType:
		return "Buffer"
	case *schema.EnumType:
		return union(t.Values)
	case *mysql.SetType:
		return "string"
	case *postgres.ArrayType:
		elem := tsType(dialect, t.Type)
		if strings.Contains(elem, " | ") {
			elem = "(" + elem + ")"
		}
		return elem + "[]"
	case *postgres.IntervalType, *postgres.NetworkType, *postgres.CurrencyType,
		*postgres.BitType, *postgres.XMLType, *postgres.TextSearchType, *postgres.OIDType:
		return "string"
	default:
		return "unknown"
	}
}

func isBigInt(t string) bool {
	switch strings.ToLower(t) {
	case "bigint", "int8":
		return true
	}
	return false
}

func union(values []string) string {
	if len(values) == 0 {
		return "string"
	}
	lits := make([]string, len(values))
	for i, v := range values {
		lits[i] = strconv.Quote(v)
	}
	return strings.Join(lits, " | ")
}
