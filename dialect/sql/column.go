package sql

import "strconv"

type constraintKind uint8

const (
	conPrimaryKey constraintKind = iota + 1
	conNotNull
	conUnique
	conCheck
	conCollate
	conDefault
	conGenerated
)

// ColumnConstraint is a constraint attached to a column definition.
type ColumnConstraint struct {
	kind          constraintKind
	autoIncrement bool
	name          string
	expr          Expr
}

// PrimaryKey marks the column as the primary key, auto-incremented when the
// dialect supports it and autoIncrement is set.
func PrimaryKey(autoIncrement bool) *ColumnConstraint {
	return &ColumnConstraint{kind: conPrimaryKey, autoIncrement: autoIncrement}
}

// NotNull returns NOT NULL.
func NotNull() *ColumnConstraint { return &ColumnConstraint{kind: conNotNull} }

// Unique returns UNIQUE.
func Unique() *ColumnConstraint { return &ColumnConstraint{kind: conUnique} }

// Check returns CHECK (<e>).
func Check(e Expr) *ColumnConstraint {
	return &ColumnConstraint{kind: conCheck, expr: e}
}

// Collate returns COLLATE <name>. The collation name is written verbatim.
func Collate(name string) *ColumnConstraint {
	return &ColumnConstraint{kind: conCollate, name: name}
}

// Default returns DEFAULT <e>.
func Default(e Expr) *ColumnConstraint {
	return &ColumnConstraint{kind: conDefault, expr: e}
}

// DefaultString returns a default rendered as a string literal.
func DefaultString(v string) *ColumnConstraint { return Default(LitString(v)) }

// DefaultInt returns a default rendered as an integer literal.
func DefaultInt(v int64) *ColumnConstraint { return Default(LitInt(v)) }

// DefaultFloat returns a default rendered as a numeric literal.
func DefaultFloat(v float64) *ColumnConstraint { return Default(LitFloat(v)) }

// DefaultBool returns a default rendered as a dialect boolean literal.
func DefaultBool(v bool) *ColumnConstraint { return Default(LitBool(v)) }

// Generated returns GENERATED ALWAYS AS (<e>) STORED.
func Generated(e Expr) *ColumnConstraint {
	return &ColumnConstraint{kind: conGenerated, expr: e}
}

// CustomConstraint returns e as a column constraint.
func CustomConstraint(e Expr) Expr { return e }

// Serialize implements the Expr interface.
func (c *ColumnConstraint) Serialize(s *Serializer) {
	d := s.Dialect()
	s.Statement(func(st *Statement) {
		switch c.kind {
		case conPrimaryKey:
			if !c.autoIncrement || !d.SupportsAutoIncrement() {
				st.Append("PRIMARY KEY")
				return
			}
			if fn := d.AutoIncrementFunction(); fn != nil {
				st.AppendExpr(d.LiteralDefault())
				st.AppendExpr(fn)
				st.Append("PRIMARY KEY")
				return
			}
			st.Append("PRIMARY KEY")
			st.AppendExpr(d.AutoIncrementClause())
		case conNotNull:
			st.Append("NOT NULL")
		case conUnique:
			st.Append("UNIQUE")
		case conCheck:
			st.Append("CHECK")
			st.AppendExpr(Group(c.expr))
		case conCollate:
			st.Append("COLLATE")
			st.Append(c.name)
		case conDefault:
			st.AppendExpr(d.LiteralDefault())
			st.AppendExpr(c.expr)
		case conGenerated:
			st.Append("GENERATED ALWAYS AS")
			st.AppendExpr(Group(c.expr))
			st.Append("STORED")
		}
	})
}

// ForeignKeyAction is a referential action.
type ForeignKeyAction uint8

// Referential actions.
const (
	NoAction ForeignKeyAction = iota
	Restrict
	Cascade
	SetNull
	SetDefault
)

// String returns the SQL spelling of the action.
func (a ForeignKeyAction) String() string {
	switch a {
	case Restrict:
		return "RESTRICT"
	case Cascade:
		return "CASCADE"
	case SetNull:
		return "SET NULL"
	case SetDefault:
		return "SET DEFAULT"
	case NoAction:
		return "NO ACTION"
	default:
		return "ForeignKeyAction(" + strconv.Itoa(int(a)) + ")"
	}
}

// ForeignKeyExpr is a REFERENCES clause.
type ForeignKeyExpr struct {
	table              string
	columns            []string
	onDelete, onUpdate *ForeignKeyAction
}

// References returns REFERENCES <table> (<columns>).
func References(table string, columns ...string) *ForeignKeyExpr {
	return &ForeignKeyExpr{table: table, columns: columns}
}

// OnDelete returns a copy of f with the ON DELETE action set.
func (f *ForeignKeyExpr) OnDelete(a ForeignKeyAction) *ForeignKeyExpr {
	c := *f
	c.onDelete = &a
	return &c
}

// OnUpdate returns a copy of f with the ON UPDATE action set.
func (f *ForeignKeyExpr) OnUpdate(a ForeignKeyAction) *ForeignKeyExpr {
	c := *f
	c.onUpdate = &a
	return &c
}

// Serialize implements the Expr interface.
func (f *ForeignKeyExpr) Serialize(s *Serializer) {
	s.Statement(func(st *Statement) {
		st.Append("REFERENCES")
		st.AppendExpr(Ident(f.table))
		if len(f.columns) > 0 {
			st.AppendExpr(identGroup(f.columns))
		}
		if f.onDelete != nil {
			st.Append("ON DELETE")
			st.Append(f.onDelete.String())
		}
		if f.onUpdate != nil {
			st.Append("ON UPDATE")
			st.Append(f.onUpdate.String())
		}
	})
}

// TableConstraintExpr is a table-level constraint.
type TableConstraintExpr struct {
	name   string
	prefix string
	cols   []string
	expr   Expr
}

// PrimaryKeyColumns returns PRIMARY KEY (<columns>).
func PrimaryKeyColumns(columns ...string) *TableConstraintExpr {
	return &TableConstraintExpr{prefix: "PRIMARY KEY", cols: columns}
}

// UniqueColumns returns UNIQUE (<columns>).
func UniqueColumns(columns ...string) *TableConstraintExpr {
	return &TableConstraintExpr{prefix: "UNIQUE", cols: columns}
}

// ForeignKeyColumns returns FOREIGN KEY (<columns>) REFERENCES ...
func ForeignKeyColumns(columns []string, ref *ForeignKeyExpr) *TableConstraintExpr {
	return &TableConstraintExpr{prefix: "FOREIGN KEY", cols: columns, expr: ref}
}

// CheckConstraint returns CHECK (<e>) as a table constraint.
func CheckConstraint(e Expr) *TableConstraintExpr {
	return &TableConstraintExpr{expr: Check(e)}
}

// Named returns a copy of c prefixed with CONSTRAINT <name>. The name is
// normalized by the dialect.
func (c *TableConstraintExpr) Named(name string) *TableConstraintExpr {
	n := *c
	n.name = name
	return &n
}

// Serialize implements the Expr interface.
func (c *TableConstraintExpr) Serialize(s *Serializer) {
	s.Statement(func(st *Statement) {
		if c.name != "" {
			st.Append("CONSTRAINT")
			st.AppendExpr(ConstraintName(c.name))
		}
		st.Append(c.prefix)
		if len(c.cols) > 0 {
			st.AppendExpr(identGroup(c.cols))
		}
		st.AppendOpt(c.expr)
	})
}

// ColumnDefinition is "<column> <type> [<constraints>]".
type ColumnDefinition struct {
	column      Expr
	dataType    Expr
	constraints []Expr
}

// ColumnDef returns a definition of the named column.
func ColumnDef(name string, t DataType, constraints ...Expr) *ColumnDefinition {
	return ColumnDefExpr(Ident(name), t, constraints...)
}

// ColumnDefExpr returns a column definition built from arbitrary
// expressions.
func ColumnDefExpr(column, dataType Expr, constraints ...Expr) *ColumnDefinition {
	return &ColumnDefinition{column: column, dataType: dataType, constraints: constraints}
}

// Serialize implements the Expr interface.
func (c *ColumnDefinition) Serialize(s *Serializer) {
	s.Statement(func(st *Statement) {
		st.AppendExpr(c.column)
		st.AppendExpr(c.dataType)
		if len(c.constraints) > 0 {
			st.AppendExpr(ListSep(" ", c.constraints...))
		}
	})
}

// AlterColumnType changes the type of an existing column inside
// ALTER TABLE: "<column> [<type keyword>] <type>".
type AlterColumnType struct {
	column   Expr
	dataType Expr
}

// AlterColumnDefinitionType returns a column type change for the named
// column.
func AlterColumnDefinitionType(column string, t DataType) *AlterColumnType {
	return &AlterColumnType{column: Ident(column), dataType: t}
}

// Serialize implements the Expr interface.
func (a *AlterColumnType) Serialize(s *Serializer) {
	s.Statement(func(st *Statement) {
		st.AppendExpr(a.column)
		st.AppendOpt(st.Dialect().AlterTableSyntax().AlterColumnDefinitionTypeKeyword)
		st.AppendExpr(a.dataType)
	})
}

func identGroup(names []string) *GroupExpr {
	exprs := make([]Expr, len(names))
	for i, n := range names {
		exprs[i] = Ident(n)
	}
	return Group(exprs...)
}

func identList(names []string) *ListExpr {
	exprs := make([]Expr, len(names))
	for i, n := range names {
		exprs[i] = Ident(n)
	}
	return List(exprs...)
}
