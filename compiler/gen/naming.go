package gen

import (
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize maps a schema or table identifier to its canonical declaration
// name: the identifier is split into words at separators and case changes,
// and every word is title-cased. For example, "order_items" becomes
// "OrderItems" and "userAccounts" becomes "UserAccounts".
//
// Normalize does not detect that two identifiers share a canonical name;
// NewGraph does.
func Normalize(ident string) string {
	// A Caser is stateful, so every call gets its own.
	title := cases.Title(language.Und)
	var b strings.Builder
	for _, w := range words(ident) {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// words splits s at every rune that is neither a letter nor a digit, at
// lower-to-upper transitions ("userId" -> "user", "Id"), and before the last
// upper-case rune of an acronym followed by a lower-case one ("HTMLParser"
// -> "HTML", "Parser").
func words(s string) []string {
	var (
		out []string
		cur []rune
		rs  = []rune(s)
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}
	for i, r := range rs {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(cur) > 0 && unicode.IsUpper(r) {
			prev := cur[len(cur)-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return out
}

// Paths of the generated artifacts, relative to the output directory.
const (
	GeneratedDir = "generated"
	CustomDir    = "custom"

	IndexPath  = GeneratedDir + "/index.ts"
	KyselyPath = GeneratedDir + "/kysely.ts"
	KnexPath   = GeneratedDir + "/knex.ts"
	UtilsPath  = GeneratedDir + "/utils.ts"
)

// SchemaIndexPath returns the path of the per-schema index.
func SchemaIndexPath(schema string) string {
	return path.Join(GeneratedDir, schema, "index.ts")
}

// TablePath returns the path of the resulting-type artifact of a table.
func TablePath(schema, canonical string) string {
	return path.Join(GeneratedDir, schema, canonical+".ts")
}

// QueryTypesPath returns the path of the raw query-types artifact of a table.
func QueryTypesPath(schema, canonical string) string {
	return path.Join(GeneratedDir, schema, canonical+"QueryTypes.ts")
}

// CustomTypesPath returns the path of the customization scaffold of a table.
func CustomTypesPath(schema, canonical string) string {
	return path.Join(CustomDir, schema, canonical+"CustomTypes.ts")
}
