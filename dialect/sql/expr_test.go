package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlkit"
)

func TestExprSerialize(t *testing.T) {
	tests := []struct {
		name      string
		dialect   *Descriptor
		expr      Expr
		wantQuery string
		wantArgs  []any
	}{
		{"ident", Postgres, Ident("users"), `"users"`, nil},
		{"ident mysql", MySQL, Ident("users"), "`users`", nil},
		{"ident escaped", Postgres, Ident(`we"ird`), `"we""ird"`, nil},
		{"ident escaped mysql", MySQL, Ident("we`ird"), "`we``ird`", nil},
		{"string", Postgres, LitString("it's"), `'it''s'`, nil},
		{"string backslash", Postgres, LitString(`a\b`), `'a\b'`, nil},
		{"string backslash mysql", MySQL, LitString(`a\'b`), `'a\\''b'`, nil},
		{"int", SQLite, LitInt(-42), "-42", nil},
		{"uint", SQLite, LitInt(uint64(18446744073709551615)), "18446744073709551615", nil},
		{"float", SQLite, LitFloat(1.5), "1.5", nil},
		{"numeric", SQLite, LitNumeric("1e10"), "1e10", nil},
		{"bool", Postgres, LitBool(true), "TRUE", nil},
		{"bool mysql", MySQL, LitBool(false), "0", nil},
		{"null", SQLite, LitNull(), "NULL", nil},
		{"default", SQLite, LitDefault(), "DEFAULT", nil},
		{"all", SQLite, LitAll(), "*", nil},
		{"raw", Postgres, Raw("now()"), "now()", nil},
		{"raw binds", MySQL, Raw("a = ? OR b = ?", 1, 2), "a = ? OR b = ?", []any{1, 2}},
		{"bind", Postgres, Bind("x"), "$1", []any{"x"}},
		{"binds", SQLite, Binds(1, 2), "(?1, ?2)", []any{1, 2}},
		{"alias", Postgres, As(Func("count", LitAll()), "n"), `count(*) AS "n"`, nil},
		{"alias expr", Postgres, AsExpr(Group(Raw("SELECT 1")), Raw("t")), "(SELECT 1) AS t", nil},
		{"list", Postgres, List(Ident("a"), nil, Ident("b")), `"a", "b"`, nil},
		{"list sep", Postgres, ListSep(" AND ", Raw("x"), Raw("y")), "x AND y", nil},
		{"group", Postgres, Group(LitInt(1), LitInt(2)), "(1, 2)", nil},
		{"empty group", Postgres, Group(), "()", nil},
		{"group of list", Postgres, Group(List(Raw("a"), Raw("b"))), "(a, b)", nil},
		{"nested groups", Postgres, Group(Group(Group(Raw("a"), Group(Raw("b"))))), "(((a, (b))))", nil},
		{"func", MySQL, Func("CONCAT", Column("a"), LitString("-"), Column("b")), "CONCAT(`a`, '-', `b`)", nil},
		{"infix", Postgres, Infix(Column("a"), "||", Column("b")), `"a" || "b"`, nil},
		{"column", Postgres, Column("id"), `"id"`, nil},
		{"column star", Postgres, Column("*"), "*", nil},
		{"table column", MySQL, TableColumn("u", "id"), "`u`.`id`", nil},
		{"table star", Postgres, TableColumn("u", "*"), `"u".*`, nil},
		{"excluded", Postgres, Excluded("name"), `EXCLUDED."name"`, nil},
		{"excluded mysql", MySQL, Excluded("name"), "VALUES(`name`)", nil},
		{"constraint name", Postgres, ConstraintName("users_pkey"), `"users_pkey"`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := Render(tt.dialect, tt.expr)
			assert.Equal(t, tt.wantQuery, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestListLen(t *testing.T) {
	assert.Equal(t, 2, List(Raw("a"), nil, Raw("b")).Len())
	assert.Zero(t, List().Len())
}

func TestNestedSubpath(t *testing.T) {
	tests := []struct {
		dialect *Descriptor
		path    []string
		want    string
	}{
		{Postgres, []string{"a"}, `("doc" ->> 'a')`},
		{Postgres, []string{"a", "b c"}, `("doc" -> 'a' ->> 'b c')`},
		{MySQL, []string{"a", "b"}, "`doc` ->> '$.a.b'"},
		{MySQL, []string{"a", "b c"}, "`doc` ->> '$.a.\"b c\"'"},
		{SQLite, []string{"a", "0"}, `json_extract("doc", '$.a."0"')`},
		{SQLite, nil, `"doc"`},
	}
	for _, tt := range tests {
		var diags Diagnostics
		q, _ := Render(tt.dialect, NestedSubpath(Column("doc"), tt.path...), WithDiagnostics(&diags))
		assert.Equal(t, tt.want, q)
		assert.Empty(t, diags)
	}

	t.Run("Unsupported", func(t *testing.T) {
		d, err := Postgres.Derive("plain", WithNestedSubpath(nil))
		require.NoError(t, err)
		var diags Diagnostics
		q, _ := Render(d, NestedSubpath(Column("doc"), "a", "b"), WithDiagnostics(&diags))
		assert.Equal(t, `"doc"`, q)
		require.Len(t, diags, 1)
		assert.Equal(t, "dialect does not support JSON subpaths; selecting the whole column", diags[0].Message)
		assert.Equal(t, []any{"dialect", "plain", "path", "a.b"}, diags[0].Args)
	})
}

func TestBinaryOp(t *testing.T) {
	tests := []struct {
		op   BinaryOp
		want string
	}{
		{OpEq, "="},
		{OpNe, "<>"},
		{OpGt, ">"},
		{OpGte, ">="},
		{OpLt, "<"},
		{OpLte, "<="},
		{OpLike, "LIKE"},
		{OpNotLike, "NOT LIKE"},
		{OpIn, "IN"},
		{OpNotIn, "NOT IN"},
		{OpAnd, "AND"},
		{OpOr, "OR"},
		{OpMul, "*"},
		{OpDiv, "/"},
		{OpMod, "%"},
		{OpAdd, "+"},
		{OpSub, "-"},
		{OpIs, "IS"},
		{OpIsNot, "IS NOT"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.String())
			for _, d := range []*Descriptor{Postgres, MySQL, SQLite} {
				q, _ := Render(d, Binary(Raw("a"), tt.op, Raw("b")))
				assert.Equal(t, "a "+tt.want+" b", q)
			}
		})
	}
	assert.Equal(t, "CONCAT", OpConcat.String())
	assert.Equal(t, "BinaryOp(0)", BinaryOp(0).String())
	assert.Equal(t, "BinaryOp(200)", BinaryOp(200).String())
}

func TestConcatPanics(t *testing.T) {
	assert.PanicsWithValue(t, sqlkit.ErrAmbiguousConcat, func() {
		Binary(Column("a"), OpConcat, Column("b"))
	})
	assert.PanicsWithValue(t, sqlkit.ErrAmbiguousConcat, func() {
		Render(Postgres, OpConcat)
	})
	assert.PanicsWithValue(t, sqlkit.ErrAmbiguousConcat, func() {
		Render(MySQL, &BinaryExpr{left: Column("a"), op: OpConcat, right: Column("b")})
	})
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name      string
		expr      Expr
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "eq",
			expr:      EQ("name", "a8m"),
			wantQuery: `"name" = $1`,
			wantArgs:  []any{"a8m"},
		},
		{
			name:      "and",
			expr:      And(EQ("a", 1), nil, EQ("b", 2)),
			wantQuery: `"a" = $1 AND "b" = $2`,
			wantArgs:  []any{1, 2},
		},
		{
			name:      "and or",
			expr:      And(EQ("a", 1), Or(EQ("b", 2), EQ("c", 3))),
			wantQuery: `"a" = $1 AND ("b" = $2 OR "c" = $3)`,
			wantArgs:  []any{1, 2, 3},
		},
		{
			name:      "single or",
			expr:      Or(EQ("b", 2)),
			wantQuery: `"b" = $1`,
			wantArgs:  []any{2},
		},
		{
			name:      "is null",
			expr:      Binary(Column("deleted_at"), OpIs, LitNull()),
			wantQuery: `"deleted_at" IS NULL`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, args := Render(Postgres, tt.expr)
			assert.Equal(t, tt.wantQuery, q)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
	assert.Nil(t, And())
	assert.Nil(t, Or(nil))
}
