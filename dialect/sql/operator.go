package sql

import (
	"strconv"

	"github.com/syssam/sqlkit"
)

// BinaryOp is a portable binary operator.
type BinaryOp uint8

// Binary operators.
const (
	OpEq BinaryOp = iota + 1
	OpNe
	OpGt
	OpGte
	OpLt
	OpLte
	OpLike
	OpNotLike
	OpIn
	OpNotIn
	OpAnd
	OpOr
	// OpConcat is string concatenation. It has no portable spelling and
	// panics with sqlkit.ErrAmbiguousConcat whenever it is used.
	OpConcat
	OpMul
	OpDiv
	OpMod
	OpAdd
	OpSub
	OpIs
	OpIsNot
)

var opTokens = [...]string{
	OpEq:      "=",
	OpNe:      "<>",
	OpGt:      ">",
	OpGte:     ">=",
	OpLt:      "<",
	OpLte:     "<=",
	OpLike:    "LIKE",
	OpNotLike: "NOT LIKE",
	OpIn:      "IN",
	OpNotIn:   "NOT IN",
	OpAnd:     "AND",
	OpOr:      "OR",
	OpMul:     "*",
	OpDiv:     "/",
	OpMod:     "%",
	OpAdd:     "+",
	OpSub:     "-",
	OpIs:      "IS",
	OpIsNot:   "IS NOT",
}

// String returns the SQL token of the operator. It is meant for debugging;
// OpConcat yields "CONCAT" and is never emitted.
func (op BinaryOp) String() string {
	if op == OpConcat {
		return "CONCAT"
	}
	if int(op) < len(opTokens) && opTokens[op] != "" {
		return opTokens[op]
	}
	return "BinaryOp(" + strconv.Itoa(int(op)) + ")"
}

// Serialize implements the Expr interface.
func (op BinaryOp) Serialize(s *Serializer) {
	if op == OpConcat {
		panic(sqlkit.ErrAmbiguousConcat)
	}
	s.Write(op.String())
}

// BinaryExpr is "<left> <op> <right>".
type BinaryExpr struct {
	left  Expr
	op    BinaryOp
	right Expr
}

// Binary returns a binary expression. It panics with
// sqlkit.ErrAmbiguousConcat for OpConcat: use Func("CONCAT", ...) for MySQL
// or Infix(left, "||", right) for PostgreSQL and SQLite.
func Binary(left Expr, op BinaryOp, right Expr) *BinaryExpr {
	if op == OpConcat {
		panic(sqlkit.ErrAmbiguousConcat)
	}
	return &BinaryExpr{left: left, op: op, right: right}
}

// Serialize implements the Expr interface.
func (b *BinaryExpr) Serialize(s *Serializer) {
	s.Statement(func(st *Statement) {
		st.AppendExpr(b.left)
		st.AppendExpr(b.op)
		st.AppendExpr(b.right)
	})
}

// EQ returns "<column> = <bind>".
func EQ(column string, v any) *BinaryExpr {
	return Binary(Column(column), OpEq, Bind(v))
}

// And joins predicates with AND.
func And(preds ...Expr) Expr {
	e, _ := joinPreds(OpAnd, preds)
	return e
}

// Or joins predicates with OR, parenthesized so it composes under AND.
func Or(preds ...Expr) Expr {
	e, n := joinPreds(OpOr, preds)
	if n > 1 {
		return Group(e)
	}
	return e
}

func joinPreds(op BinaryOp, preds []Expr) (e Expr, n int) {
	for _, p := range preds {
		if p == nil {
			continue
		}
		if n++; e == nil {
			e = p
		} else {
			e = Binary(e, op, p)
		}
	}
	return e, n
}
