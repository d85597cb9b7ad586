package sql

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type emptyExpr struct{}

func (emptyExpr) Serialize(*Serializer) {}

func TestStatementSpacing(t *testing.T) {
	tests := []struct {
		name string
		f    func(*Statement)
		want string
	}{
		{
			name: "tokens",
			f: func(st *Statement) {
				st.Append("SELECT").AppendExpr(LitInt(1)).Append("FROM").AppendExpr(Ident("t"))
			},
			want: `SELECT 1 FROM "t"`,
		},
		{
			name: "empty tokens",
			f: func(st *Statement) {
				st.Append("").Append("A").Append("").AppendExpr(emptyExpr{}).AppendExpr(nil).AppendOpt(nil).Append("B")
			},
			want: "A B",
		},
		{
			name: "leading empty expression",
			f: func(st *Statement) {
				st.AppendExpr(emptyExpr{}).Append("A")
			},
			want: "A",
		},
		{
			name: "nested",
			f: func(st *Statement) {
				st.Append("A")
				st.AppendExpr(Raw("(")).Append("")
				st.AppendExpr(ListSep(" ", Raw("B"), emptyExpr{}, Raw("C")))
			},
			want: "A ( B  C",
		},
		{
			name: "nested statements",
			f: func(st *Statement) {
				st.Append("A")
				st.AppendExpr(Binary(Column("x"), OpEq, Binary(Column("y"), OpAdd, LitInt(1))))
				st.Append("Z")
			},
			want: `A "x" = "y" + 1 Z`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSerializer(Postgres)
			s.Statement(tt.f)
			assert.Equal(t, tt.want, s.String())
		})
	}
}

func TestSerializerBindOrder(t *testing.T) {
	e := And(
		EQ("a", 1),
		Raw("b = ANY($2)", []int{2, 3}),
		Binary(Column("c"), OpIn, Binds("x", "y")),
	)
	q, args := Render(Postgres, e)
	assert.Equal(t, `"a" = $1 AND b = ANY($2) AND "c" IN ($3, $4)`, q)
	assert.Equal(t, []any{1, []int{2, 3}, "x", "y"}, args)

	// Bind nodes get their position when rendered.
	b := Bind(42)
	q, args = Render(SQLite, List(b, b))
	assert.Equal(t, "?1, ?2", q)
	assert.Equal(t, []any{42, 42}, args)
}

func TestSerializerWriteExpr(t *testing.T) {
	s := NewSerializer(MySQL)
	s.WriteExpr(nil)
	s.Write("x")
	s.WriteBind(true)
	q, args := s.Query()
	assert.Equal(t, "x?", q)
	assert.Equal(t, []any{true}, args)
	assert.Equal(t, args, s.Args())
	assert.Same(t, MySQL, s.Dialect())
}

func TestDiagnostics(t *testing.T) {
	t.Run("Discard", func(t *testing.T) {
		assert.NotPanics(t, func() {
			Render(SQLite, Insert("t").Returning("id"))
			Render(SQLite, Insert("t"), WithDiagnostics(nil))
		})
	})

	t.Run("Collect", func(t *testing.T) {
		var diags Diagnostics
		q, _ := Render(MySQL, Insert("t").Returning("id"), WithDiagnostics(&diags))
		assert.Equal(t, "INSERT INTO `t` DEFAULT VALUES", q)
		require.Len(t, diags, 1)
		assert.Equal(t, slog.LevelWarn, diags[0].Level)
		assert.Equal(t, []string{"database does not support RETURNING; clause omitted"}, diags.Messages())
		assert.Equal(t, []any{"dialect", "mysql"}, diags[0].Args)
	})

	t.Run("Func", func(t *testing.T) {
		var n int
		Render(SQLite, DropTable("t").Behavior(DropCascade), WithDiagnostics(DiagnosticFunc(func(Diagnostic) { n++ })))
		assert.Equal(t, 1, n)
	})

	t.Run("LogSink", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		Render(SQLite, CreateEnum("mood", "happy"), WithDiagnostics(LogSink(logger)))
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), `msg="database does not support standalone enum types"`)
		assert.Contains(t, buf.String(), "dialect=sqlite")
	})
}

func TestRenderConcurrent(t *testing.T) {
	stmt := Insert("users").
		Columns("name", "age").
		Values("a8m", 30).
		OnConflict(OnConflict("name").DoUpdate(AssignExcluded("age"))).
		Returning("id")

	var g errgroup.Group
	for i := 0; i < 32; i++ {
		d := benchDialects[i%len(benchDialects)]
		g.Go(func() error {
			want, _ := Render(d, stmt)
			for j := 0; j < 100; j++ {
				got, args := Render(d, stmt)
				if got != want || len(args) != 2 {
					return fmt.Errorf("%s: got %q with %d args, want %q", d.Name(), got, len(args), want)
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
