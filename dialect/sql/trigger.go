package sql

// TriggerWhen is the firing time of a trigger.
type TriggerWhen uint8

// Trigger firing times.
const (
	TriggerBefore TriggerWhen = iota
	TriggerAfter
	TriggerInsteadOf
)

func (w TriggerWhen) String() string {
	switch w {
	case TriggerAfter:
		return "AFTER"
	case TriggerInsteadOf:
		return "INSTEAD OF"
	default:
		return "BEFORE"
	}
}

// TriggerEvent is the statement kind firing a trigger.
type TriggerEvent uint8

// Trigger events.
const (
	TriggerInsert TriggerEvent = iota
	TriggerUpdate
	TriggerDelete
)

func (e TriggerEvent) String() string {
	switch e {
	case TriggerUpdate:
		return "UPDATE"
	case TriggerDelete:
		return "DELETE"
	default:
		return "INSERT"
	}
}

// TriggerEach is the granularity of a trigger.
type TriggerEach uint8

// Trigger granularities. TriggerEachDefault leaves the clause to the
// dialect.
const (
	TriggerEachDefault TriggerEach = iota
	TriggerEachRow
	TriggerEachStatement
)

// TriggerOrder positions a MySQL trigger relative to another one.
type TriggerOrder uint8

// Trigger orders.
const (
	TriggerFollows TriggerOrder = iota + 1
	TriggerPrecedes
)

// CreateTriggerExpr is a CREATE TRIGGER statement.
type CreateTriggerExpr struct {
	name       string
	table      string
	when       TriggerWhen
	event      TriggerEvent
	columns    []string
	each       TriggerEach
	condition  Expr
	body       []Expr
	procedure  Expr
	definer    Expr
	order      TriggerOrder
	orderName  string
	constraint bool
	fromTable  string
}

// CreateTrigger returns a trigger firing at when for event on table.
func CreateTrigger(name, table string, when TriggerWhen, event TriggerEvent) *CreateTriggerExpr {
	return &CreateTriggerExpr{name: name, table: table, when: when, event: event}
}

func (t *CreateTriggerExpr) clone() *CreateTriggerExpr {
	c := *t
	c.columns = append([]string(nil), t.columns...)
	c.body = append([]Expr(nil), t.body...)
	return &c
}

// OfColumns restricts an UPDATE trigger to the named columns.
func (t *CreateTriggerExpr) OfColumns(columns ...string) *CreateTriggerExpr {
	c := t.clone()
	c.columns = append(c.columns, columns...)
	return c
}

// ForEach sets the trigger granularity.
func (t *CreateTriggerExpr) ForEach(each TriggerEach) *CreateTriggerExpr {
	c := t.clone()
	c.each = each
	return c
}

// When sets the trigger condition.
func (t *CreateTriggerExpr) When(cond Expr) *CreateTriggerExpr {
	c := t.clone()
	c.condition = cond
	return c
}

// Body sets the statements executed by the trigger.
func (t *CreateTriggerExpr) Body(stmts ...Expr) *CreateTriggerExpr {
	c := t.clone()
	c.body = append(c.body, stmts...)
	return c
}

// Procedure sets the function executed by the trigger, such as
// Func("audit").
func (t *CreateTriggerExpr) Procedure(fn Expr) *CreateTriggerExpr {
	c := t.clone()
	c.procedure = fn
	return c
}

// Definer sets the trigger definer, such as Raw("CURRENT_USER").
func (t *CreateTriggerExpr) Definer(user Expr) *CreateTriggerExpr {
	c := t.clone()
	c.definer = user
	return c
}

// Order positions the trigger relative to another trigger.
func (t *CreateTriggerExpr) Order(order TriggerOrder, other string) *CreateTriggerExpr {
	c := t.clone()
	c.order, c.orderName = order, other
	return c
}

// Constraint makes the trigger a constraint trigger, optionally tied to the
// referenced table.
func (t *CreateTriggerExpr) Constraint(fromTable string) *CreateTriggerExpr {
	c := t.clone()
	c.constraint, c.fromTable = true, fromTable
	return c
}

// Serialize implements the Expr interface.
func (t *CreateTriggerExpr) Serialize(s *Serializer) {
	d := s.Dialect()
	syntax := d.TriggerSyntax().Create
	warn := func(msg string) { s.Warn(msg, "dialect", d.Name(), "trigger", t.name) }

	constraint := t.constraint
	if constraint && !syntax.Has(TriggerSupportsConstraints) {
		warn("database does not support constraint triggers; creating a plain trigger")
		constraint = false
	}
	if syntax.Has(TriggerPostgreSQLChecks) {
		if len(t.body) > 0 {
			warn("trigger bodies are not supported; use a procedure")
		}
		if t.procedure == nil {
			warn("trigger requires a procedure")
		}
		if t.when == TriggerInsteadOf && t.each != TriggerEachRow {
			warn("INSTEAD OF triggers must be FOR EACH ROW")
		}
		if constraint && (t.when != TriggerAfter || t.each == TriggerEachStatement) {
			warn("constraint triggers must be AFTER ... FOR EACH ROW")
		}
	}
	s.Statement(func(st *Statement) {
		st.Append("CREATE")
		if t.definer != nil {
			if syntax.Has(TriggerSupportsDefiner) {
				st.Append("DEFINER =")
				st.AppendExpr(t.definer)
			} else {
				warn("database does not support trigger definers; clause omitted")
			}
		}
		if constraint {
			st.Append("CONSTRAINT")
		}
		st.Append("TRIGGER")
		st.AppendExpr(Ident(t.name))
		st.Append(t.when.String())
		st.Append(t.event.String())
		if len(t.columns) > 0 {
			switch {
			case t.event != TriggerUpdate:
				warn("trigger columns only apply to UPDATE events; clause omitted")
			case !syntax.Has(TriggerSupportsUpdateColumns):
				warn("database does not support UPDATE OF columns; clause omitted")
			default:
				st.Append("OF")
				st.AppendExpr(identList(t.columns))
			}
		}
		st.Append("ON")
		st.AppendExpr(Ident(t.table))
		if constraint && t.fromTable != "" {
			st.Append("FROM")
			st.AppendExpr(Ident(t.fromTable))
		}
		switch {
		case syntax.Has(TriggerSupportsForEach) && t.each != TriggerEachDefault:
			st.Append("FOR EACH")
			if t.each == TriggerEachRow {
				st.Append("ROW")
			} else {
				st.Append("STATEMENT")
			}
		case syntax.Has(TriggerRequiresForEachRow):
			if t.each == TriggerEachStatement {
				warn("database only supports FOR EACH ROW triggers")
			}
			st.Append("FOR EACH ROW")
		case t.each != TriggerEachDefault:
			warn("database does not support FOR EACH; clause omitted")
		}
		if t.order != 0 {
			if syntax.Has(TriggerSupportsOrder) {
				if t.order == TriggerFollows {
					st.Append("FOLLOWS")
				} else {
					st.Append("PRECEDES")
				}
				st.AppendExpr(Ident(t.orderName))
			} else {
				warn("database does not support trigger ordering; clause omitted")
			}
		}
		if t.condition != nil {
			switch {
			case !syntax.Has(TriggerSupportsCondition):
				warn("database does not support trigger conditions; clause omitted")
			case syntax.Has(TriggerConditionRequiresParentheses):
				st.Append("WHEN")
				st.AppendExpr(Group(t.condition))
			default:
				st.Append("WHEN")
				st.AppendExpr(t.condition)
			}
		}
		switch {
		case len(t.body) > 0 && syntax.Has(TriggerSupportsBody):
			st.Append("BEGIN")
			for _, stmt := range t.body {
				st.AppendExpr(stmt)
				st.s.Write(";")
			}
			st.Append("END")
		case t.procedure != nil:
			if syntax.Has(TriggerSupportsBody) {
				warn("database does not support trigger procedures; use a body")
				return
			}
			st.Append("EXECUTE PROCEDURE")
			st.AppendExpr(t.procedure)
		case len(t.body) > 0:
			warn("database does not support trigger bodies; clause omitted")
		}
	})
}

// DropTriggerExpr is a DROP TRIGGER statement.
type DropTriggerExpr struct {
	name     string
	table    string
	ifExists bool
	cascade  bool
}

// DropTrigger returns DROP TRIGGER for the named trigger.
func DropTrigger(name string) *DropTriggerExpr {
	return &DropTriggerExpr{name: name}
}

// On sets the table owning the trigger, as PostgreSQL requires.
func (t *DropTriggerExpr) On(table string) *DropTriggerExpr {
	c := *t
	c.table = table
	return &c
}

// IfExists adds IF EXISTS.
func (t *DropTriggerExpr) IfExists() *DropTriggerExpr {
	c := *t
	c.ifExists = true
	return &c
}

// Cascade adds CASCADE.
func (t *DropTriggerExpr) Cascade() *DropTriggerExpr {
	c := *t
	c.cascade = true
	return &c
}

// Serialize implements the Expr interface.
func (t *DropTriggerExpr) Serialize(s *Serializer) {
	syntax := s.Dialect().TriggerSyntax().Drop
	s.Statement(func(st *Statement) {
		st.Append("DROP TRIGGER")
		ifExists(st, t.ifExists, "IF EXISTS")
		st.AppendExpr(Ident(t.name))
		if t.table != "" && syntax.Has(TriggerSupportsTableName) {
			st.Append("ON")
			st.AppendExpr(Ident(t.table))
		}
		if t.cascade {
			if syntax.Has(TriggerSupportsCascade) {
				st.Append("CASCADE")
			} else {
				st.Warn("database does not support DROP TRIGGER ... CASCADE; clause omitted", "dialect", st.Dialect().Name())
			}
		}
	})
}
