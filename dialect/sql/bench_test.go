package sql

import (
	"testing"
)

var benchDialects = []*Descriptor{SQLite, MySQL, Postgres}

func BenchmarkInsert_Default(b *testing.B) {
	for _, d := range benchDialects {
		b.Run(d.Name(), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Render(d, Insert("users").Returning("id"))
			}
		})
	}
}

func BenchmarkInsert_Small(b *testing.B) {
	for _, d := range benchDialects {
		b.Run(d.Name(), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Render(d, Insert("users").
					Columns("id", "age", "first_name", "last_name", "nickname", "spouse_id", "created_at", "updated_at").
					Values(1, 30, "Ariel", "Mashraki", "a8m", 2, "2009-11-10 23:00:00", "2009-11-10 23:00:00").
					Returning("id"))
			}
		})
	}
}

func BenchmarkInsert_Upsert(b *testing.B) {
	for _, d := range benchDialects {
		b.Run(d.Name(), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Render(d, Insert("users").
					Columns("email", "name").
					Values("a@b.c", "a").
					OnConflict(OnConflict("email").DoUpdate(AssignExcluded("name"))))
			}
		})
	}
}

func BenchmarkSelect_Simple(b *testing.B) {
	for _, d := range benchDialects {
		b.Run(d.Name(), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Render(d, SelectColumns("id", "name", "email").From("users").Where(EQ("id", 1)))
			}
		})
	}
}

func BenchmarkSelect_Complex(b *testing.B) {
	for _, d := range benchDialects {
		b.Run(d.Name(), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Render(d, SelectColumns("id", "name").
					From("users").
					Where(And(
						EQ("status", "active"),
						Binary(Column("age"), OpGte, Bind(18)),
						Or(EQ("role", "admin"), EQ("role", "owner")),
						Binary(Column("country"), OpIn, Binds("US", "CA", "GB")),
					)).
					OrderBy(Column("created_at")).
					Limit(10).
					Lock(LockUpdate))
			}
		})
	}
}

func BenchmarkCreateTable(b *testing.B) {
	for _, d := range benchDialects {
		b.Run(d.Name(), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Render(d, CreateTable("users").IfNotExists().Columns(
					ColumnDef("id", TypeBigInt, PrimaryKey(true)),
					ColumnDef("email", TypeText, NotNull(), Unique()),
					ColumnDef("active", TypeInt, DefaultBool(true)),
					ColumnDef("created_at", TypeTimestamp, NotNull()),
				))
			}
		})
	}
}

func BenchmarkAlterTable(b *testing.B) {
	for _, d := range benchDialects {
		b.Run(d.Name(), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Render(d, AlterTable("users").
					AddColumns(ColumnDef("nickname", TypeText)).
					DropColumns("legacy").
					ModifyColumns(AlterColumnDefinitionType("age", TypeBigInt)))
			}
		})
	}
}
