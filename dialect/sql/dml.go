package sql

// AssignExpr is "<column> = <value>".
type AssignExpr struct {
	column Expr
	value  Expr
}

// Assign returns an assignment of a bound value to the named column.
func Assign(column string, v any) *AssignExpr {
	return &AssignExpr{column: Ident(column), value: Bind(v)}
}

// AssignTo returns an assignment of an arbitrary expression.
func AssignTo(column, value Expr) *AssignExpr {
	return &AssignExpr{column: column, value: value}
}

// AssignExcluded assigns the value proposed for insertion to the named
// column inside an upsert.
func AssignExcluded(column string) *AssignExpr {
	return &AssignExpr{column: Ident(column), value: Excluded(column)}
}

// Serialize implements the Expr interface.
func (a *AssignExpr) Serialize(s *Serializer) {
	s.Statement(func(st *Statement) {
		st.AppendExpr(a.column)
		st.Append("=")
		st.AppendExpr(a.value)
	})
}

// ConflictExpr is the upsert clause of an INSERT statement.
type ConflictExpr struct {
	targets []string
	updates []Expr
	where   Expr
}

// OnConflict returns a conflict clause on the given target columns. Without
// updates, conflicting rows are skipped.
func OnConflict(targets ...string) *ConflictExpr {
	return &ConflictExpr{targets: append([]string(nil), targets...)}
}

// DoUpdate sets the assignments applied to conflicting rows.
func (c *ConflictExpr) DoUpdate(assignments ...Expr) *ConflictExpr {
	n := *c
	n.updates = append(append([]Expr(nil), c.updates...), assignments...)
	return &n
}

// Where restricts the update to rows matching pred.
func (c *ConflictExpr) Where(pred Expr) *ConflictExpr {
	n := *c
	n.where = pred
	return &n
}

func (c *ConflictExpr) serialize(st *Statement) {
	d := st.Dialect()
	switch d.UpsertSyntax() {
	case UpsertStandard:
		st.Append("ON CONFLICT")
		if len(c.targets) > 0 {
			st.AppendExpr(identGroup(c.targets))
		}
		if len(c.updates) == 0 {
			st.Append("DO NOTHING")
			return
		}
		if len(c.targets) == 0 {
			st.Warn("ON CONFLICT DO UPDATE requires conflict target columns", "dialect", d.Name())
		}
		st.Append("DO UPDATE SET")
		st.AppendExpr(List(c.updates...))
		if c.where != nil {
			st.Append("WHERE")
			st.AppendExpr(c.where)
		}
	case UpsertMySQL:
		if c.where != nil {
			st.Warn("database does not support conditional upserts; WHERE omitted", "dialect", d.Name())
		}
		if len(c.updates) == 0 {
			// Rendered as INSERT IGNORE.
			return
		}
		st.Append("ON DUPLICATE KEY UPDATE")
		st.AppendExpr(List(c.updates...))
	default:
		st.Warn("database does not support upserts; conflict clause omitted", "dialect", d.Name())
	}
}

// InsertExpr is an INSERT statement.
type InsertExpr struct {
	table     Expr
	columns   []string
	rows      [][]Expr
	conflict  *ConflictExpr
	returning []Expr
}

// Insert returns an INSERT INTO statement for the named table.
func Insert(table string) *InsertExpr {
	return &InsertExpr{table: Ident(table)}
}

func (i *InsertExpr) clone() *InsertExpr {
	c := *i
	c.columns = append([]string(nil), i.columns...)
	c.rows = append([][]Expr(nil), i.rows...)
	c.returning = append([]Expr(nil), i.returning...)
	return &c
}

// Columns sets the inserted columns.
func (i *InsertExpr) Columns(columns ...string) *InsertExpr {
	c := i.clone()
	c.columns = append(c.columns[:0], columns...)
	return c
}

// Values appends a row of bound values.
func (i *InsertExpr) Values(vs ...any) *InsertExpr {
	row := make([]Expr, len(vs))
	for j, v := range vs {
		if e, ok := v.(Expr); ok {
			row[j] = e
		} else {
			row[j] = Bind(v)
		}
	}
	c := i.clone()
	c.rows = append(c.rows, row)
	return c
}

// OnConflict sets the upsert clause.
func (i *InsertExpr) OnConflict(conflict *ConflictExpr) *InsertExpr {
	c := i.clone()
	c.conflict = conflict
	return c
}

// Returning sets the returned columns.
func (i *InsertExpr) Returning(columns ...string) *InsertExpr {
	c := i.clone()
	c.returning = c.returning[:0]
	for _, col := range columns {
		c.returning = append(c.returning, Column(col))
	}
	return c
}

// Serialize implements the Expr interface.
func (i *InsertExpr) Serialize(s *Serializer) {
	d := s.Dialect()
	ignore := i.conflict != nil && len(i.conflict.updates) == 0 && d.UpsertSyntax() == UpsertMySQL
	s.Statement(func(st *Statement) {
		if ignore {
			st.Append("INSERT IGNORE INTO")
		} else {
			st.Append("INSERT INTO")
		}
		st.AppendExpr(i.table)
		if len(i.columns) > 0 {
			st.AppendExpr(identGroup(i.columns))
		}
		if len(i.rows) == 0 {
			st.Append("DEFAULT VALUES")
		} else {
			st.Append("VALUES")
			rows := make([]Expr, len(i.rows))
			for j, r := range i.rows {
				rows[j] = Group(r...)
			}
			st.AppendExpr(List(rows...))
		}
		if i.conflict != nil {
			i.conflict.serialize(st)
		}
		returning(st, i.returning)
	})
}

func returning(st *Statement, columns []Expr) {
	if len(columns) == 0 {
		return
	}
	if !st.Dialect().SupportsReturning() {
		st.Warn("database does not support RETURNING; clause omitted", "dialect", st.Dialect().Name())
		return
	}
	st.Append("RETURNING")
	st.AppendExpr(List(columns...))
}

// LockStrength is a row locking mode of SELECT.
type LockStrength uint8

// Lock strengths.
const (
	LockNone LockStrength = iota
	LockShare
	LockUpdate
)

// SelectExpr is a SELECT statement.
type SelectExpr struct {
	distinct bool
	columns  []Expr
	from     []Expr
	where    Expr
	orderBy  []Expr
	limit    *int
	lock     LockStrength
}

// Select returns a SELECT of the given columns.
func Select(columns ...Expr) *SelectExpr {
	return &SelectExpr{columns: columns}
}

// SelectColumns returns a SELECT of the named columns.
func SelectColumns(columns ...string) *SelectExpr {
	exprs := make([]Expr, len(columns))
	for i, c := range columns {
		exprs[i] = Column(c)
	}
	return Select(exprs...)
}

func (q *SelectExpr) clone() *SelectExpr {
	c := *q
	c.columns = append([]Expr(nil), q.columns...)
	c.from = append([]Expr(nil), q.from...)
	c.orderBy = append([]Expr(nil), q.orderBy...)
	return &c
}

// Distinct adds DISTINCT.
func (q *SelectExpr) Distinct() *SelectExpr {
	c := q.clone()
	c.distinct = true
	return c
}

// From sets the named source tables.
func (q *SelectExpr) From(tables ...string) *SelectExpr {
	c := q.clone()
	c.from = c.from[:0]
	for _, t := range tables {
		c.from = append(c.from, Ident(t))
	}
	return c
}

// FromExpr sets arbitrary sources, such as aliased subqueries.
func (q *SelectExpr) FromExpr(sources ...Expr) *SelectExpr {
	c := q.clone()
	c.from = append(c.from[:0], sources...)
	return c
}

// Where sets the predicate.
func (q *SelectExpr) Where(pred Expr) *SelectExpr {
	c := q.clone()
	c.where = pred
	return c
}

// OrderBy appends ordering terms, such as Raw("1 DESC") or Column("id").
func (q *SelectExpr) OrderBy(terms ...Expr) *SelectExpr {
	c := q.clone()
	c.orderBy = append(c.orderBy, terms...)
	return c
}

// Limit sets LIMIT.
func (q *SelectExpr) Limit(n int) *SelectExpr {
	c := q.clone()
	c.limit = &n
	return c
}

// Lock sets the row locking mode. Dialects without the corresponding lock
// expression omit the clause with a warning.
func (q *SelectExpr) Lock(l LockStrength) *SelectExpr {
	c := q.clone()
	c.lock = l
	return c
}

// Serialize implements the Expr interface.
func (q *SelectExpr) Serialize(s *Serializer) {
	d := s.Dialect()
	s.Statement(func(st *Statement) {
		st.Append("SELECT")
		if q.distinct {
			st.Append("DISTINCT")
		}
		if len(q.columns) == 0 {
			st.AppendExpr(LitAll())
		} else {
			st.AppendExpr(List(q.columns...))
		}
		if len(q.from) > 0 {
			st.Append("FROM")
			st.AppendExpr(List(q.from...))
		}
		if q.where != nil {
			st.Append("WHERE")
			st.AppendExpr(q.where)
		}
		if len(q.orderBy) > 0 {
			st.Append("ORDER BY")
			st.AppendExpr(List(q.orderBy...))
		}
		if q.limit != nil {
			st.Append("LIMIT")
			st.AppendExpr(LitInt(*q.limit))
		}
		var lock Expr
		switch q.lock {
		case LockNone:
			return
		case LockShare:
			lock = d.SharedSelectLockExpression()
		case LockUpdate:
			lock = d.ExclusiveSelectLockExpression()
		}
		if lock == nil {
			st.Warn("database does not support row locks; clause omitted", "dialect", d.Name())
			return
		}
		st.AppendExpr(lock)
	})
}

// SetOp is a set operation combining query results.
type SetOp uint8

// Set operations.
const (
	SetUnion SetOp = iota + 1
	SetUnionAll
	SetIntersect
	SetIntersectAll
	SetExcept
	SetExceptAll
)

var setOps = [...]struct {
	feature UnionFeatures
	token   string
}{
	SetUnion:        {UnionDistinct, "UNION"},
	SetUnionAll:     {UnionAll, "UNION ALL"},
	SetIntersect:    {Intersect, "INTERSECT"},
	SetIntersectAll: {IntersectAll, "INTERSECT ALL"},
	SetExcept:       {Except, "EXCEPT"},
	SetExceptAll:    {ExceptAll, "EXCEPT ALL"},
}

type setOperand struct {
	op    SetOp
	query Expr
}

// UnionExpr combines queries with set operations.
type UnionExpr struct {
	first  Expr
	others []setOperand
}

// Union starts a compound query from first.
func Union(first Expr) *UnionExpr {
	return &UnionExpr{first: first}
}

func (u *UnionExpr) with(op SetOp, q Expr) *UnionExpr {
	c := *u
	c.others = append(append([]setOperand(nil), u.others...), setOperand{op: op, query: q})
	return &c
}

// Union appends q with UNION.
func (u *UnionExpr) Union(q Expr) *UnionExpr { return u.with(SetUnion, q) }

// UnionAll appends q with UNION ALL.
func (u *UnionExpr) UnionAll(q Expr) *UnionExpr { return u.with(SetUnionAll, q) }

// Intersect appends q with INTERSECT.
func (u *UnionExpr) Intersect(q Expr) *UnionExpr { return u.with(SetIntersect, q) }

// IntersectAll appends q with INTERSECT ALL.
func (u *UnionExpr) IntersectAll(q Expr) *UnionExpr { return u.with(SetIntersectAll, q) }

// Except appends q with EXCEPT.
func (u *UnionExpr) Except(q Expr) *UnionExpr { return u.with(SetExcept, q) }

// ExceptAll appends q with EXCEPT ALL.
func (u *UnionExpr) ExceptAll(q Expr) *UnionExpr { return u.with(SetExceptAll, q) }

// Serialize implements the Expr interface.
func (u *UnionExpr) Serialize(s *Serializer) {
	d := s.Dialect()
	features := d.UnionFeatures()
	operand := func(q Expr) Expr {
		if features.Has(ParenthesizedSubqueries) {
			return Group(q)
		}
		return q
	}
	s.Statement(func(st *Statement) {
		st.AppendExpr(operand(u.first))
		for _, o := range u.others {
			op := setOps[o.op]
			if !features.Has(op.feature) {
				st.Warn("database does not support "+op.token+"; operand skipped", "dialect", d.Name())
				continue
			}
			token := op.token
			if o.op == SetUnion && features.Has(ExplicitDistinct) {
				token = "UNION DISTINCT"
			}
			st.Append(token)
			st.AppendExpr(operand(o.query))
		}
	})
}
