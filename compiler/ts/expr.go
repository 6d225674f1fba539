package ts

type (
	// Expr is a type expression.
	Expr interface {
		printExpr(*printer)
	}

	// Ref references a named type, with optional type arguments.
	Ref struct {
		Name string
		Args []Expr
	}

	// Raw is a type expression supplied verbatim, e.g. a column type
	// already resolved by the schema reader.
	Raw string

	// Lit is a string literal type.
	Lit string

	// Tuple is a tuple type.
	Tuple []Expr

	// Spread spreads a tuple type into an enclosing tuple.
	Spread struct {
		X Expr
	}

	// Index is an indexed access type, X[Key].
	Index struct {
		X   Expr
		Key Expr
	}

	// Intersection joins types with &. An empty intersection is {}.
	Intersection []Expr

	// Object is an object literal type.
	Object []Prop

	// PrefixedKeys is the mapped type re-keying every (string) key of Of
	// with Prefix.
	PrefixedKeys struct {
		Prefix string
		Of     Expr
	}
)

// Number is the `number` keyword type, used as a tuple index.
var Number Expr = Raw("number")

// R is shorthand for a Ref.
func R(name string, args ...Expr) Ref {
	return Ref{Name: name, Args: args}
}
