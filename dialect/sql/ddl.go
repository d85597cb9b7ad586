package sql

// AlterTableExpr is an ALTER TABLE statement. Methods return modified
// copies; a built statement never changes.
type AlterTableExpr struct {
	name            Expr
	rename          Expr
	addColumns      []Expr
	modifyColumns   []Expr
	dropColumns     []Expr
	addConstraints  []Expr
	dropConstraints []Expr
}

// AlterTable returns an ALTER TABLE statement for the named table.
func AlterTable(name string) *AlterTableExpr {
	return &AlterTableExpr{name: Ident(name)}
}

func (a *AlterTableExpr) clone() *AlterTableExpr {
	c := *a
	c.addColumns = append([]Expr(nil), a.addColumns...)
	c.modifyColumns = append([]Expr(nil), a.modifyColumns...)
	c.dropColumns = append([]Expr(nil), a.dropColumns...)
	c.addConstraints = append([]Expr(nil), a.addConstraints...)
	c.dropConstraints = append([]Expr(nil), a.dropConstraints...)
	return &c
}

// RenameTo renames the table.
func (a *AlterTableExpr) RenameTo(name string) *AlterTableExpr {
	c := a.clone()
	c.rename = Ident(name)
	return c
}

// AddColumns adds column definitions.
func (a *AlterTableExpr) AddColumns(defs ...Expr) *AlterTableExpr {
	c := a.clone()
	c.addColumns = append(c.addColumns, defs...)
	return c
}

// ModifyColumns changes existing columns. Definitions are usually
// ColumnDefinition or AlterColumnType nodes.
func (a *AlterTableExpr) ModifyColumns(defs ...Expr) *AlterTableExpr {
	c := a.clone()
	c.modifyColumns = append(c.modifyColumns, defs...)
	return c
}

// DropColumns removes the named columns.
func (a *AlterTableExpr) DropColumns(names ...string) *AlterTableExpr {
	c := a.clone()
	for _, n := range names {
		c.dropColumns = append(c.dropColumns, Ident(n))
	}
	return c
}

// AddConstraints adds table constraints.
func (a *AlterTableExpr) AddConstraints(constraints ...Expr) *AlterTableExpr {
	c := a.clone()
	c.addConstraints = append(c.addConstraints, constraints...)
	return c
}

// DropConstraints removes the named table constraints.
func (a *AlterTableExpr) DropConstraints(names ...string) *AlterTableExpr {
	c := a.clone()
	for _, n := range names {
		c.dropConstraints = append(c.dropConstraints, ListSep(" ", Raw("CONSTRAINT"), ConstraintName(n)))
	}
	return c
}

// Serialize implements the Expr interface.
func (a *AlterTableExpr) Serialize(s *Serializer) {
	syntax := s.Dialect().AlterTableSyntax()
	if !syntax.AllowsBatch && len(a.addColumns)+len(a.modifyColumns)+len(a.dropColumns) > 1 {
		s.Warn("database does not support batch table alterations; split the changes into one ALTER TABLE statement per column",
			"dialect", s.Dialect().Name())
	}
	modify := syntax.AlterColumnDefinitionClause
	if modify == nil && len(a.modifyColumns) > 0 {
		s.Warn("database does not support column modifications; rewrite them as a drop followed by an add",
			"dialect", s.Dialect().Name())
		modify = Raw("MODIFY")
	}
	add, drop := Raw("ADD"), Raw("DROP")
	alterations := make([]Expr, 0, len(a.addColumns)+len(a.addConstraints)+len(a.dropColumns)+len(a.dropConstraints)+len(a.modifyColumns))
	for _, e := range a.addColumns {
		alterations = append(alterations, alteration{verb: add, def: e})
	}
	for _, e := range a.addConstraints {
		alterations = append(alterations, alteration{verb: add, def: e})
	}
	for _, e := range a.dropColumns {
		alterations = append(alterations, alteration{verb: drop, def: e})
	}
	for _, e := range a.dropConstraints {
		alterations = append(alterations, alteration{verb: drop, def: e})
	}
	for _, e := range a.modifyColumns {
		alterations = append(alterations, alteration{verb: modify, def: e})
	}
	s.Statement(func(st *Statement) {
		st.Append("ALTER TABLE")
		st.AppendExpr(a.name)
		if a.rename != nil {
			st.Append("RENAME TO")
			st.AppendExpr(a.rename)
		}
		if len(alterations) > 0 {
			st.AppendExpr(List(alterations...))
		}
	})
}

type alteration struct {
	verb Expr
	def  Expr
}

func (a alteration) Serialize(s *Serializer) {
	s.Statement(func(st *Statement) {
		st.AppendExpr(a.verb)
		st.AppendExpr(a.def)
	})
}

// CreateIndexExpr is a CREATE INDEX statement.
type CreateIndexExpr struct {
	name     Expr
	modifier Expr
	table    Expr
	columns  []string
}

// CreateIndex returns a CREATE INDEX statement for the named index.
func CreateIndex(name string) *CreateIndexExpr {
	return &CreateIndexExpr{name: Ident(name)}
}

// Unique marks the index UNIQUE.
func (c *CreateIndexExpr) Unique() *CreateIndexExpr {
	return c.Modifier(Raw("UNIQUE"))
}

// Modifier sets the keyword between CREATE and INDEX.
func (c *CreateIndexExpr) Modifier(m Expr) *CreateIndexExpr {
	n := *c
	n.modifier = m
	return &n
}

// On sets the indexed table.
func (c *CreateIndexExpr) On(table string) *CreateIndexExpr {
	n := *c
	n.table = Ident(table)
	return &n
}

// Columns sets the indexed columns.
func (c *CreateIndexExpr) Columns(columns ...string) *CreateIndexExpr {
	n := *c
	n.columns = append([]string(nil), columns...)
	return &n
}

// Serialize implements the Expr interface.
func (c *CreateIndexExpr) Serialize(s *Serializer) {
	s.Statement(func(st *Statement) {
		st.Append("CREATE")
		st.AppendOpt(c.modifier)
		st.Append("INDEX")
		st.AppendExpr(c.name)
		if c.table != nil {
			st.Append("ON")
			st.AppendExpr(c.table)
		}
		st.AppendExpr(identGroup(c.columns))
	})
}

// CreateEnumExpr is a CREATE TYPE ... AS ENUM statement.
type CreateEnumExpr struct {
	name   Expr
	values []Expr
}

// CreateEnum returns a CREATE TYPE <name> AS ENUM (<values>) statement.
func CreateEnum(name string, values ...string) *CreateEnumExpr {
	vs := make([]Expr, len(values))
	for i, v := range values {
		vs[i] = LitString(v)
	}
	return &CreateEnumExpr{name: Ident(name), values: vs}
}

// Serialize implements the Expr interface.
func (c *CreateEnumExpr) Serialize(s *Serializer) {
	if s.Dialect().EnumSyntax() != EnumTyped {
		s.Warn("database does not support standalone enum types", "dialect", s.Dialect().Name())
	}
	s.Statement(func(st *Statement) {
		st.Append("CREATE TYPE")
		st.AppendExpr(c.name)
		st.Append("AS ENUM")
		st.AppendExpr(Group(c.values...))
	})
}

// DropBehavior is the behavior of DROP statements towards dependent
// objects.
type DropBehavior uint8

// Drop behaviors.
const (
	DropDefault DropBehavior = iota
	DropRestrict
	DropCascade
)

func (b DropBehavior) serialize(st *Statement) {
	if b == DropDefault {
		return
	}
	if !st.Dialect().SupportsDropBehavior() {
		st.Warn("database does not support drop behavior; CASCADE/RESTRICT omitted", "dialect", st.Dialect().Name())
		return
	}
	if b == DropCascade {
		st.Append("CASCADE")
	} else {
		st.Append("RESTRICT")
	}
}

// ifExists appends IF EXISTS when requested and supported.
func ifExists(st *Statement, want bool, clause string) {
	if !want {
		return
	}
	if !st.Dialect().SupportsIfExists() {
		st.Warn("database does not support "+clause+"; clause omitted", "dialect", st.Dialect().Name())
		return
	}
	st.Append(clause)
}

// DropExpr is a DROP TABLE, DROP INDEX or DROP TYPE statement.
type DropExpr struct {
	object    string
	names     []Expr
	table     Expr
	ifExists  bool
	temporary bool
	behavior  DropBehavior
}

// DropTable returns DROP TABLE for the named tables.
func DropTable(names ...string) *DropExpr {
	return newDrop("TABLE", names)
}

// DropIndex returns DROP INDEX for the named index.
func DropIndex(name string) *DropExpr {
	return newDrop("INDEX", []string{name})
}

// DropEnum returns DROP TYPE for the named enum type.
func DropEnum(name string) *DropExpr {
	return newDrop("TYPE", []string{name})
}

func newDrop(object string, names []string) *DropExpr {
	d := &DropExpr{object: object}
	for _, n := range names {
		d.names = append(d.names, Ident(n))
	}
	return d
}

// IfExists adds IF EXISTS.
func (d *DropExpr) IfExists() *DropExpr {
	c := *d
	c.ifExists = true
	return &c
}

// Temporary restricts DROP TABLE to temporary tables.
func (d *DropExpr) Temporary() *DropExpr {
	c := *d
	c.temporary = true
	return &c
}

// Behavior sets CASCADE or RESTRICT.
func (d *DropExpr) Behavior(b DropBehavior) *DropExpr {
	c := *d
	c.behavior = b
	return &c
}

// On sets the table owning a dropped index, as MySQL requires.
func (d *DropExpr) On(table string) *DropExpr {
	c := *d
	c.table = Ident(table)
	return &c
}

// Serialize implements the Expr interface.
func (d *DropExpr) Serialize(s *Serializer) {
	if d.object == "TYPE" && s.Dialect().EnumSyntax() != EnumTyped {
		s.Warn("database does not support standalone enum types", "dialect", s.Dialect().Name())
	}
	s.Statement(func(st *Statement) {
		st.Append("DROP")
		if d.temporary {
			st.Append("TEMPORARY")
		}
		st.Append(d.object)
		ifExists(st, d.ifExists, "IF EXISTS")
		st.AppendExpr(List(d.names...))
		if d.table != nil {
			st.Append("ON")
			st.AppendExpr(d.table)
		}
		d.behavior.serialize(st)
	})
}

// CreateTableExpr is a CREATE TABLE statement.
type CreateTableExpr struct {
	name        Expr
	columns     []Expr
	constraints []Expr
	ifNotExists bool
	temporary   bool
}

// CreateTable returns CREATE TABLE for the named table.
func CreateTable(name string) *CreateTableExpr {
	return &CreateTableExpr{name: Ident(name)}
}

func (c *CreateTableExpr) clone() *CreateTableExpr {
	n := *c
	n.columns = append([]Expr(nil), c.columns...)
	n.constraints = append([]Expr(nil), c.constraints...)
	return &n
}

// Columns appends column definitions.
func (c *CreateTableExpr) Columns(defs ...Expr) *CreateTableExpr {
	n := c.clone()
	n.columns = append(n.columns, defs...)
	return n
}

// Constraints appends table constraints.
func (c *CreateTableExpr) Constraints(constraints ...Expr) *CreateTableExpr {
	n := c.clone()
	n.constraints = append(n.constraints, constraints...)
	return n
}

// IfNotExists adds IF NOT EXISTS.
func (c *CreateTableExpr) IfNotExists() *CreateTableExpr {
	n := c.clone()
	n.ifNotExists = true
	return n
}

// Temporary creates a temporary table.
func (c *CreateTableExpr) Temporary() *CreateTableExpr {
	n := c.clone()
	n.temporary = true
	return n
}

// Serialize implements the Expr interface.
func (c *CreateTableExpr) Serialize(s *Serializer) {
	s.Statement(func(st *Statement) {
		st.Append("CREATE")
		if c.temporary {
			st.Append("TEMPORARY")
		}
		st.Append("TABLE")
		ifExists(st, c.ifNotExists, "IF NOT EXISTS")
		st.AppendExpr(c.name)
		defs := make([]Expr, 0, len(c.columns)+len(c.constraints))
		defs = append(defs, c.columns...)
		defs = append(defs, c.constraints...)
		st.AppendExpr(Group(defs...))
	})
}
