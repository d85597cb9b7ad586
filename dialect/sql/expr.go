package sql

import (
	"strconv"
	"strings"
)

// RawExpr is verbatim SQL text, optionally carrying bind values that the
// text already references through its own placeholders.
type RawExpr struct {
	text  string
	binds []any
}

// Raw returns a verbatim SQL fragment. Binds are enqueued as-is, so the
// text must contain placeholders matching the target dialect.
func Raw(text string, binds ...any) *RawExpr {
	return &RawExpr{text: text, binds: binds}
}

// Serialize implements the Expr interface.
func (r *RawExpr) Serialize(s *Serializer) {
	s.Write(r.text)
	s.args = append(s.args, r.binds...)
}

// IdentExpr is a quoted identifier.
type IdentExpr struct {
	name string
}

// Ident returns an identifier quoted with the dialect identifier quote.
func Ident(name string) *IdentExpr {
	return &IdentExpr{name: name}
}

// Serialize implements the Expr interface.
func (i *IdentExpr) Serialize(s *Serializer) {
	q := s.Dialect().IdentifierQuote()
	s.Write(q)
	s.Write(strings.ReplaceAll(i.name, q, q+q))
	s.Write(q)
}

// ConstraintName returns an identifier for a constraint, normalized by the
// dialect so that it fits length limits.
func ConstraintName(name string) Expr {
	return constraintName(name)
}

type constraintName string

func (c constraintName) Serialize(s *Serializer) {
	Ident(s.Dialect().NormalizeConstraint(string(c))).Serialize(s)
}

type litKind uint8

const (
	litString litKind = iota
	litNumeric
	litBool
	litNull
	litDefault
	litAll
)

// LiteralExpr is a SQL literal.
type LiteralExpr struct {
	kind litKind
	text string
	b    bool
}

// LitString returns a string literal.
func LitString(v string) *LiteralExpr {
	return &LiteralExpr{kind: litString, text: v}
}

// LitNumeric returns a numeric literal written verbatim.
func LitNumeric(v string) *LiteralExpr {
	return &LiteralExpr{kind: litNumeric, text: v}
}

type integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// LitInt returns an integer literal.
func LitInt[T integer](v T) *LiteralExpr {
	if v < 0 {
		return LitNumeric(strconv.FormatInt(int64(v), 10))
	}
	return LitNumeric(strconv.FormatUint(uint64(v), 10))
}

// LitFloat returns a floating point literal.
func LitFloat(v float64) *LiteralExpr {
	return LitNumeric(strconv.FormatFloat(v, 'g', -1, 64))
}

// LitBool returns a boolean literal in the dialect spelling.
func LitBool(v bool) *LiteralExpr {
	return &LiteralExpr{kind: litBool, b: v}
}

// LitNull returns NULL.
func LitNull() *LiteralExpr { return &LiteralExpr{kind: litNull} }

// LitDefault returns the dialect DEFAULT keyword.
func LitDefault() *LiteralExpr { return &LiteralExpr{kind: litDefault} }

// LitAll returns "*".
func LitAll() *LiteralExpr { return &LiteralExpr{kind: litAll} }

// Serialize implements the Expr interface.
func (l *LiteralExpr) Serialize(s *Serializer) {
	d := s.Dialect()
	switch l.kind {
	case litString:
		q := d.LiteralStringQuote()
		s.Write(q)
		s.Write(escapeStringValue(l.text, q, d.EscapeBackslash()))
		s.Write(q)
	case litNumeric:
		s.Write(l.text)
	case litBool:
		d.LiteralBoolean(l.b).Serialize(s)
	case litNull:
		s.Write("NULL")
	case litDefault:
		s.WriteExpr(d.LiteralDefault())
	case litAll:
		s.Write("*")
	}
}

// escapeStringValue escapes a string value for use between quote
// characters. Backslashes are doubled first for dialects treating them as
// escape characters.
func escapeStringValue(v, quote string, backslash bool) string {
	if backslash && strings.Contains(v, `\`) {
		v = strings.ReplaceAll(v, `\`, `\\`)
	}
	if quote != "" && strings.Contains(v, quote) {
		v = strings.ReplaceAll(v, quote, quote+quote)
	}
	return v
}

// BindExpr is a positional parameter.
type BindExpr struct {
	value any
}

// Bind returns a placeholder for v. The position is assigned when the node
// is serialized, so the same node may be rendered into several statements.
func Bind(v any) *BindExpr {
	return &BindExpr{value: v}
}

// Serialize implements the Expr interface.
func (b *BindExpr) Serialize(s *Serializer) {
	s.WriteBind(b.value)
}

// Binds returns a parenthesized list of placeholders, one per value.
func Binds(vs ...any) *GroupExpr {
	exprs := make([]Expr, len(vs))
	for i, v := range vs {
		exprs[i] = Bind(v)
	}
	return Group(exprs...)
}

// AliasExpr renders "<expr> AS <alias>".
type AliasExpr struct {
	expr  Expr
	alias Expr
}

// As aliases e with an identifier.
func As(e Expr, alias string) *AliasExpr {
	return &AliasExpr{expr: e, alias: Ident(alias)}
}

// AsExpr aliases e with an arbitrary expression.
func AsExpr(e, alias Expr) *AliasExpr {
	return &AliasExpr{expr: e, alias: alias}
}

// Serialize implements the Expr interface.
func (a *AliasExpr) Serialize(s *Serializer) {
	s.Statement(func(st *Statement) {
		st.AppendExpr(a.expr)
		st.Append("AS")
		st.AppendExpr(a.alias)
	})
}

// ListExpr is a separated sequence of expressions.
type ListExpr struct {
	items []Expr
	sep   string
}

// List returns a comma-separated list.
func List(exprs ...Expr) *ListExpr {
	return ListSep(", ", exprs...)
}

// ListSep returns a list joined with sep.
func ListSep(sep string, exprs ...Expr) *ListExpr {
	items := make([]Expr, 0, len(exprs))
	for _, e := range exprs {
		if e != nil {
			items = append(items, e)
		}
	}
	return &ListExpr{items: items, sep: sep}
}

// Len returns the number of items.
func (l *ListExpr) Len() int { return len(l.items) }

// Serialize implements the Expr interface.
func (l *ListExpr) Serialize(s *Serializer) {
	for i, e := range l.items {
		if i > 0 {
			s.Write(l.sep)
		}
		e.Serialize(s)
	}
}

// GroupExpr is a parenthesized list.
type GroupExpr struct {
	list *ListExpr
}

// Group wraps exprs, comma-separated, in parentheses.
func Group(exprs ...Expr) *GroupExpr {
	return &GroupExpr{list: List(exprs...)}
}

// Serialize implements the Expr interface.
func (g *GroupExpr) Serialize(s *Serializer) {
	s.Write("(")
	g.list.Serialize(s)
	s.Write(")")
}

// FuncExpr is a function call.
type FuncExpr struct {
	name string
	args *ListExpr
}

// Func returns a call of the named function. The name is written verbatim.
func Func(name string, args ...Expr) *FuncExpr {
	return &FuncExpr{name: name, args: List(args...)}
}

// Serialize implements the Expr interface.
func (f *FuncExpr) Serialize(s *Serializer) {
	s.Write(f.name)
	s.Write("(")
	f.args.Serialize(s)
	s.Write(")")
}

// InfixExpr joins two expressions with a verbatim operator token.
type InfixExpr struct {
	left  Expr
	op    string
	right Expr
}

// Infix returns "<left> <op> <right>" for operators outside the portable
// BinaryOp set, such as the JSON arrows.
func Infix(left Expr, op string, right Expr) *InfixExpr {
	return &InfixExpr{left: left, op: op, right: right}
}

// Serialize implements the Expr interface.
func (e *InfixExpr) Serialize(s *Serializer) {
	s.Statement(func(st *Statement) {
		st.AppendExpr(e.left)
		st.Append(e.op)
		st.AppendExpr(e.right)
	})
}

// ColumnExpr is a column reference, optionally qualified by its table.
type ColumnExpr struct {
	table string
	name  string
}

// Column returns a column reference. "*" is written unquoted.
func Column(name string) *ColumnExpr {
	return &ColumnExpr{name: name}
}

// TableColumn returns a column reference qualified by table.
func TableColumn(table, name string) *ColumnExpr {
	return &ColumnExpr{table: table, name: name}
}

// Serialize implements the Expr interface.
func (c *ColumnExpr) Serialize(s *Serializer) {
	if c.table != "" {
		Ident(c.table).Serialize(s)
		s.Write(".")
	}
	if c.name == "*" {
		s.Write("*")
		return
	}
	Ident(c.name).Serialize(s)
}

// ExcludedExpr references the value proposed for insertion inside an
// upsert update clause.
type ExcludedExpr struct {
	column string
}

// Excluded returns a reference to the proposed value of column:
// EXCLUDED.<column> for ON CONFLICT dialects and VALUES(<column>) for MySQL.
func Excluded(column string) *ExcludedExpr {
	return &ExcludedExpr{column: column}
}

// Serialize implements the Expr interface.
func (e *ExcludedExpr) Serialize(s *Serializer) {
	if s.Dialect().UpsertSyntax() == UpsertMySQL {
		Func("VALUES", Ident(e.column)).Serialize(s)
		return
	}
	s.Write("EXCLUDED.")
	Ident(e.column).Serialize(s)
}

// SubpathExpr extracts a nested JSON value from a column.
type SubpathExpr struct {
	column Expr
	path   []string
}

// NestedSubpath returns an expression selecting path inside the JSON
// column. Dialects without JSON support render the bare column and report a
// diagnostic.
func NestedSubpath(column Expr, path ...string) *SubpathExpr {
	return &SubpathExpr{column: column, path: append([]string(nil), path...)}
}

// Serialize implements the Expr interface.
func (p *SubpathExpr) Serialize(s *Serializer) {
	if e, ok := s.Dialect().NestedSubpath(p.column, p.path); ok {
		e.Serialize(s)
		return
	}
	if len(p.path) > 0 {
		s.Warn("dialect does not support JSON subpaths; selecting the whole column",
			"dialect", s.Dialect().Name(), "path", strings.Join(p.path, "."))
	}
	s.WriteExpr(p.column)
}
