package ts

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Render serializes f. The output has no statement terminators, two-space
// indentation and double-quoted strings, and always ends with a newline
// when the file has declarations.
func Render(f *File) []byte {
	p := &printer{}
	p.WriteString(f.Header)
	for _, d := range f.Decls {
		d.printDecl(p)
	}
	return []byte(p.String())
}

type printer struct {
	strings.Builder
	indent int
}

func (p *printer) pad() {
	p.WriteString(strings.Repeat("  ", p.indent))
}

func (p *printer) line(s string) {
	p.pad()
	p.WriteString(s)
	p.WriteByte('\n')
}

func (p *printer) doc(text string) {
	if text == "" {
		return
	}
	p.line("/**")
	for _, l := range strings.Split(text, "\n") {
		if l == "" {
			p.line(" *")
			continue
		}
		p.line(" * " + docEscaper.Replace(l))
	}
	p.line(" */")
}

func (p *printer) expr(e Expr) {
	e.printExpr(p)
}

func (p *printer) exprs(es []Expr, sep string) {
	for i, e := range es {
		if i > 0 {
			p.WriteString(sep)
		}
		e.printExpr(p)
	}
}

func (p *printer) prop(m Prop) {
	p.doc(m.Doc)
	p.pad()
	p.WriteString(propKey(m.Name))
	if m.Optional {
		p.WriteByte('?')
	}
	p.WriteString(": ")
	p.expr(m.Type)
	p.WriteByte('\n')
}

func (d Import) printDecl(p *printer) {
	p.pad()
	p.WriteString("import ")
	if d.TypeOnly {
		p.WriteString("type ")
	}
	if d.Default != "" {
		p.WriteString(d.Default)
		if len(d.Names) > 0 {
			p.WriteString(", ")
		}
	}
	if len(d.Names) > 0 {
		p.WriteString("{ ")
		for i, n := range d.Names {
			if i > 0 {
				p.WriteString(", ")
			}
			p.WriteString(n.Name)
			if n.Alias != "" && n.Alias != n.Name {
				p.WriteString(" as ")
				p.WriteString(n.Alias)
			}
		}
		p.WriteString(" }")
	}
	if d.Default != "" || len(d.Names) > 0 {
		p.WriteString(" from ")
	}
	p.WriteString(quote(d.From))
	p.WriteByte('\n')
}

func (d TypeAlias) printDecl(p *printer) {
	p.doc(d.Doc)
	p.pad()
	if d.Exported {
		p.WriteString("export ")
	}
	p.WriteString("type ")
	p.WriteString(d.Name)
	if len(d.Params) > 0 {
		p.WriteByte('<')
		p.WriteString(strings.Join(d.Params, ", "))
		p.WriteByte('>')
	}
	p.WriteString(" = ")
	p.expr(d.Type)
	p.WriteByte('\n')
}

func (d Interface) printDecl(p *printer) {
	p.doc(d.Doc)
	p.pad()
	if d.Exported || d.Default {
		p.WriteString("export ")
	}
	if d.Default {
		p.WriteString("default ")
	}
	p.WriteString("interface ")
	p.WriteString(d.Name)
	if len(d.Extends) > 0 {
		p.WriteString(" extends ")
		p.exprs(d.Extends, ", ")
	}
	if len(d.Props) == 0 {
		p.WriteString(" {}\n")
		return
	}
	p.WriteString(" {\n")
	p.indent++
	for _, m := range d.Props {
		p.prop(m)
	}
	p.indent--
	p.line("}")
}

func (d Module) printDecl(p *printer) {
	p.pad()
	if d.Declare {
		p.WriteString("declare ")
	}
	p.WriteString("module ")
	p.WriteString(quote(d.Name))
	if len(d.Body) == 0 {
		p.WriteString(" {}\n")
		return
	}
	p.WriteString(" {\n")
	p.indent++
	for _, b := range d.Body {
		b.printDecl(p)
	}
	p.indent--
	p.line("}")
}

func (d Export) printDecl(p *printer) {
	p.pad()
	p.WriteString("export ")
	if d.TypeOnly {
		p.WriteString("type ")
	}
	switch {
	case len(d.Names) > 0:
		p.WriteString("{ ")
		p.WriteString(strings.Join(d.Names, ", "))
		p.WriteString(" }")
	case d.Namespace != "":
		p.WriteString("* as ")
		p.WriteString(d.Namespace)
	default:
		p.WriteString("*")
	}
	if d.From != "" {
		p.WriteString(" from ")
		p.WriteString(quote(d.From))
	}
	p.WriteByte('\n')
}

func (d Comment) printDecl(p *printer) {
	for _, l := range d {
		if l == "" {
			p.line("//")
			continue
		}
		p.line("// " + l)
	}
}

func (Blank) printDecl(p *printer) {
	p.WriteByte('\n')
}

func (e Ref) printExpr(p *printer) {
	p.WriteString(e.Name)
	if len(e.Args) > 0 {
		p.WriteByte('<')
		p.exprs(e.Args, ", ")
		p.WriteByte('>')
	}
}

func (e Raw) printExpr(p *printer) { p.WriteString(string(e)) }

func (e Lit) printExpr(p *printer) { p.WriteString(quote(string(e))) }

func (e Tuple) printExpr(p *printer) {
	p.WriteByte('[')
	p.exprs(e, ", ")
	p.WriteByte(']')
}

func (e Spread) printExpr(p *printer) {
	p.WriteString("...")
	p.expr(e.X)
}

func (e Index) printExpr(p *printer) {
	p.expr(e.X)
	p.WriteByte('[')
	p.expr(e.Key)
	p.WriteByte(']')
}

func (e Intersection) printExpr(p *printer) {
	if len(e) == 0 {
		p.WriteString("{}")
		return
	}
	p.exprs(e, " & ")
}

func (e Object) printExpr(p *printer) {
	if len(e) == 0 {
		p.WriteString("{}")
		return
	}
	p.WriteString("{\n")
	p.indent++
	for _, m := range e {
		p.prop(m)
	}
	p.indent--
	p.pad()
	p.WriteByte('}')
}

func (e PrefixedKeys) printExpr(p *printer) {
	p.WriteString("{ [K in keyof ")
	p.expr(e.Of)
	p.WriteString(" as `")
	p.WriteString(templateEscaper.Replace(e.Prefix))
	p.WriteString("${K & string}`]: ")
	p.expr(e.Of)
	p.WriteString("[K] }")
}

var templateEscaper = strings.NewReplacer("\\", "\\\\", "`", "\\`", "${", "\\${")

// docEscaper keeps comment text from closing the JSDoc block.
var docEscaper = strings.NewReplacer("*/", "*\\/")

// quote returns s as a double-quoted string literal. JSON escapes are a
// subset of the TypeScript ones, including U+2028 and U+2029.
func quote(s string) string {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s) // strings always encode
	return strings.TrimSuffix(b.String(), "\n")
}

// propKey returns name as a property key, quoting it unless it is a plain
// identifier.
func propKey(name string) string {
	if isIdent(name) {
		return name
	}
	return quote(name)
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
