// Package ts provides a small structured model of TypeScript declaration
// files and the single serializer that turns it into source text.
//
// Builders compose files out of declarations (imports, type aliases,
// interfaces, ambient modules and exports) whose types are themselves
// structured expressions. Only this package knows TypeScript syntax.
//
//	f := &ts.File{
//	    Path: "generated/public/Users.ts",
//	    Decls: []ts.Decl{
//	        ts.Import{From: "./UsersQueryTypes", TypeOnly: true, Names: ts.Names("SelectableUsers")},
//	        ts.Blank{},
//	        ts.TypeAlias{Name: "Users", Exported: true, Type: ts.Ref{Name: "SelectableUsers"}},
//	    },
//	}
//	src := ts.Render(f)
package ts

// File is a TypeScript source file.
type File struct {
	// Path of the file, relative to the output directory and slash separated.
	Path string
	// Header is written verbatim before the first declaration.
	Header string
	// Decls are the top-level declarations in order.
	Decls []Decl
}

// WithHeader returns a copy of f carrying the given header. The receiver
// is left unchanged.
func (f *File) WithHeader(header string) *File {
	c := *f
	c.Header = header
	return &c
}

type (
	// Decl is a top-level (or module-level) declaration.
	Decl interface {
		printDecl(*printer)
	}

	// Import is an import statement.
	Import struct {
		From     string
		TypeOnly bool
		Default  string
		Names    []ImportName
	}

	// ImportName is one named import, optionally renamed.
	ImportName struct {
		Name  string
		Alias string
	}

	// TypeAlias is a `type Name = Type` declaration.
	TypeAlias struct {
		Name     string
		Params   []string
		Type     Expr
		Exported bool
		Doc      string
	}

	// Interface is an interface declaration.
	Interface struct {
		Name     string
		Exported bool
		// Default marks the interface as the default export of the file.
		Default bool
		Extends []Expr
		Props   []Prop
		Doc     string
	}

	// Module is an ambient module declaration (module augmentation).
	Module struct {
		Name    string
		Declare bool
		Body    []Decl
	}

	// Export is a re-export statement. With From set and no Names it
	// re-exports everything, under Namespace when set. Without From it
	// exports the local Names.
	Export struct {
		From      string
		TypeOnly  bool
		Names     []string
		Namespace string
	}

	// Comment is a block of line comments.
	Comment []string

	// Blank is an empty separator line.
	Blank struct{}
)

// Prop is an interface or object type member.
type Prop struct {
	Name     string
	Type     Expr
	Optional bool
	Doc      string
}

// Names returns ImportNames for the given identifiers.
func Names(names ...string) []ImportName {
	in := make([]ImportName, len(names))
	for i, n := range names {
		in[i] = ImportName{Name: n}
	}
	return in
}
