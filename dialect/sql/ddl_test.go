package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlterTable(t *testing.T) {
	tests := []struct {
		name      string
		dialect   *Descriptor
		expr      Expr
		wantQuery string
		wantDiags []string
	}{
		{
			name:      "rename",
			dialect:   Postgres,
			expr:      AlterTable("users").RenameTo("people"),
			wantQuery: `ALTER TABLE "users" RENAME TO "people"`,
		},
		{
			name:    "batch",
			dialect: Postgres,
			expr: AlterTable("users").
				AddColumns(ColumnDef("nickname", TypeText), ColumnDef("age", TypeInt, NotNull())).
				DropColumns("legacy").
				ModifyColumns(AlterColumnDefinitionType("score", TypeBigInt)),
			wantQuery: `ALTER TABLE "users" ADD "nickname" TEXT, ADD "age" INTEGER NOT NULL, DROP "legacy", ALTER COLUMN "score" SET DATA TYPE BIGINT`,
		},
		{
			name:    "mysql modify",
			dialect: MySQL,
			expr: AlterTable("users").
				ModifyColumns(ColumnDef("name", CustomType(Raw("VARCHAR(100)")), NotNull())),
			wantQuery: "ALTER TABLE `users` MODIFY COLUMN `name` VARCHAR(100) NOT NULL",
		},
		{
			name:    "constraints",
			dialect: Postgres,
			expr: AlterTable("pets").
				AddConstraints(ForeignKeyColumns([]string{"owner_id"}, References("users", "id")).Named("pets_owner_fk")).
				DropConstraints("pets_name_key"),
			wantQuery: `ALTER TABLE "pets" ADD CONSTRAINT "pets_owner_fk" FOREIGN KEY ("owner_id") REFERENCES "users" ("id"), DROP CONSTRAINT "pets_name_key"`,
		},
		{
			name:      "sqlite single",
			dialect:   SQLite,
			expr:      AlterTable("users").AddColumns(ColumnDef("nickname", TypeText)),
			wantQuery: `ALTER TABLE "users" ADD "nickname" TEXT`,
		},
		{
			name:      "sqlite batch",
			dialect:   SQLite,
			expr:      AlterTable("users").AddColumns(ColumnDef("a", TypeText)).DropColumns("b"),
			wantQuery: `ALTER TABLE "users" ADD "a" TEXT, DROP "b"`,
			wantDiags: []string{
				"database does not support batch table alterations; split the changes into one ALTER TABLE statement per column",
			},
		},
		{
			name:      "sqlite two additions",
			dialect:   SQLite,
			expr:      AlterTable("users").AddColumns(ColumnDef("a", TypeText), ColumnDef("b", TypeInt)),
			wantQuery: `ALTER TABLE "users" ADD "a" TEXT, ADD "b" INTEGER`,
			wantDiags: []string{
				"database does not support batch table alterations; split the changes into one ALTER TABLE statement per column",
			},
		},
		{
			name:      "sqlite modify",
			dialect:   SQLite,
			expr:      AlterTable("users").ModifyColumns(AlterColumnDefinitionType("age", TypeBigInt)),
			wantQuery: `ALTER TABLE "users" MODIFY "age" BIGINT`,
			wantDiags: []string{
				"database does not support column modifications; rewrite them as a drop followed by an add",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var diags Diagnostics
			q, args := Render(tt.dialect, tt.expr, WithDiagnostics(&diags))
			assert.Equal(t, tt.wantQuery, q)
			assert.Empty(t, args)
			if tt.wantDiags == nil {
				assert.Empty(t, diags)
			} else {
				assert.Equal(t, tt.wantDiags, diags.Messages())
			}
		})
	}
}

func TestAlterTableImmutable(t *testing.T) {
	base := AlterTable("users").AddColumns(ColumnDef("a", TypeText))
	withB := base.AddColumns(ColumnDef("b", TypeText))
	withC := base.AddColumns(ColumnDef("c", TypeText))

	q, _ := Render(Postgres, base)
	assert.Equal(t, `ALTER TABLE "users" ADD "a" TEXT`, q)
	q, _ = Render(Postgres, withB)
	assert.Equal(t, `ALTER TABLE "users" ADD "a" TEXT, ADD "b" TEXT`, q)
	q, _ = Render(Postgres, withC)
	assert.Equal(t, `ALTER TABLE "users" ADD "a" TEXT, ADD "c" TEXT`, q)
}

func TestCreateTable(t *testing.T) {
	stmt := CreateTable("users").
		IfNotExists().
		Columns(
			ColumnDef("id", TypeBigInt, PrimaryKey(true)),
			ColumnDef("email", TypeText, NotNull()),
		).
		Constraints(UniqueColumns("email"))

	tests := []struct {
		dialect *Descriptor
		want    string
	}{
		{Postgres, `CREATE TABLE IF NOT EXISTS "users" ("id" BIGINT PRIMARY KEY GENERATED BY DEFAULT AS IDENTITY, "email" TEXT NOT NULL, UNIQUE ("email"))`},
		{MySQL, "CREATE TABLE IF NOT EXISTS `users` (`id` BIGINT PRIMARY KEY AUTO_INCREMENT, `email` TEXT NOT NULL, UNIQUE (`email`))"},
		{SQLite, `CREATE TABLE IF NOT EXISTS "users" ("id" BIGINT PRIMARY KEY AUTOINCREMENT, "email" TEXT NOT NULL, UNIQUE ("email"))`},
	}
	for _, tt := range tests {
		q, _ := Render(tt.dialect, stmt)
		assert.Equal(t, tt.want, q, tt.dialect.Name())
	}

	t.Run("Temporary", func(t *testing.T) {
		q, _ := Render(SQLite, CreateTable("tmp").Temporary().Columns(ColumnDef("x", TypeInt)))
		assert.Equal(t, `CREATE TEMPORARY TABLE "tmp" ("x" INTEGER)`, q)
	})

	t.Run("NoIfExists", func(t *testing.T) {
		d, err := SQLite.Derive("old", WithIfExists(false))
		require.NoError(t, err)
		var diags Diagnostics
		q, _ := Render(d, CreateTable("t").IfNotExists().Columns(ColumnDef("x", TypeInt)), WithDiagnostics(&diags))
		assert.Equal(t, `CREATE TABLE "t" ("x" INTEGER)`, q)
		assert.Equal(t, []string{"database does not support IF NOT EXISTS; clause omitted"}, diags.Messages())
	})
}

func TestCreateIndex(t *testing.T) {
	q, _ := Render(Postgres, CreateIndex("users_email").Unique().On("users").Columns("email", "tenant_id"))
	assert.Equal(t, `CREATE UNIQUE INDEX "users_email" ON "users" ("email", "tenant_id")`, q)

	q, _ = Render(MySQL, CreateIndex("ft_body").Modifier(Raw("FULLTEXT")).On("posts").Columns("body"))
	assert.Equal(t, "CREATE FULLTEXT INDEX `ft_body` ON `posts` (`body`)", q)

	q, _ = Render(SQLite, CreateIndex("idx").On("t").Columns("a"))
	assert.Equal(t, `CREATE INDEX "idx" ON "t" ("a")`, q)
}

func TestEnums(t *testing.T) {
	t.Run("Postgres", func(t *testing.T) {
		var diags Diagnostics
		q, _ := Render(Postgres, CreateEnum("mood", "happy", "it's ok"), WithDiagnostics(&diags))
		assert.Equal(t, `CREATE TYPE "mood" AS ENUM ('happy', 'it''s ok')`, q)
		q, _ = Render(Postgres, DropEnum("mood").IfExists().Behavior(DropCascade), WithDiagnostics(&diags))
		assert.Equal(t, `DROP TYPE IF EXISTS "mood" CASCADE`, q)
		assert.Empty(t, diags)
	})

	t.Run("MySQL", func(t *testing.T) {
		var diags Diagnostics
		Render(MySQL, CreateEnum("mood", "happy"), WithDiagnostics(&diags))
		Render(MySQL, DropEnum("mood"), WithDiagnostics(&diags))
		assert.Equal(t, []string{
			"database does not support standalone enum types",
			"database does not support standalone enum types",
		}, diags.Messages())
	})
}

func TestDrop(t *testing.T) {
	tests := []struct {
		name      string
		dialect   *Descriptor
		expr      Expr
		wantQuery string
		wantDiags int
	}{
		{"table", Postgres, DropTable("a", "b"), `DROP TABLE "a", "b"`, 0},
		{"if exists", MySQL, DropTable("a").IfExists(), "DROP TABLE IF EXISTS `a`", 0},
		{"temporary", MySQL, DropTable("tmp").Temporary(), "DROP TEMPORARY TABLE `tmp`", 0},
		{"cascade", Postgres, DropTable("a").Behavior(DropCascade), `DROP TABLE "a" CASCADE`, 0},
		{"restrict", Postgres, DropTable("a").Behavior(DropRestrict), `DROP TABLE "a" RESTRICT`, 0},
		{"cascade unsupported", SQLite, DropTable("a").Behavior(DropCascade), `DROP TABLE "a"`, 1},
		{"index", Postgres, DropIndex("idx").IfExists(), `DROP INDEX IF EXISTS "idx"`, 0},
		{"index on", MySQL, DropIndex("idx").On("t"), "DROP INDEX `idx` ON `t`", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var diags Diagnostics
			q, _ := Render(tt.dialect, tt.expr, WithDiagnostics(&diags))
			assert.Equal(t, tt.wantQuery, q)
			assert.Len(t, diags, tt.wantDiags)
		})
	}
}
