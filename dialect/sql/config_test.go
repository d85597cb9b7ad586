package sql

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlkit"
)

func TestLoadDescriptorConfig(t *testing.T) {
	t.Run("Derived", func(t *testing.T) {
		d, err := LoadDescriptorConfig(strings.NewReader(`
name: cockroach
base: postgres
supports_drop_behavior: false
union: [union, union_all, intersect, except]
alter_table:
  allows_batch: false
  column_clause: ALTER COLUMN
  type_keyword: TYPE
trigger:
  create: [supports_for_each, supports_condition]
  drop: supports_table_name
constraint_max_length: 40
`))
		require.NoError(t, err)
		assert.Equal(t, "cockroach", d.Name())
		assert.Equal(t, `"`, d.IdentifierQuote())
		assert.True(t, d.SupportsReturning())
		assert.False(t, d.SupportsDropBehavior())
		assert.Equal(t, UnionDistinct|UnionAll|Intersect|Except, d.UnionFeatures())
		assert.False(t, d.AlterTableSyntax().AllowsBatch)
		assert.Equal(t, TriggerSupportsForEach|TriggerSupportsCondition, d.TriggerSyntax().Create)
		assert.Equal(t, TriggerSupportsTableName, d.TriggerSyntax().Drop)
		assert.Len(t, d.NormalizeConstraint(strings.Repeat("n", 50)), 40)

		q, args := Render(d, AlterTable("t").ModifyColumns(AlterColumnDefinitionType("a", TypeBigInt)))
		assert.Equal(t, `ALTER TABLE "t" ALTER COLUMN "a" TYPE BIGINT`, q)
		assert.Empty(t, args)
		q, _ = Render(d, EQ("a", 1))
		assert.Equal(t, `"a" = $1`, q)
	})

	t.Run("MergedSections", func(t *testing.T) {
		d, err := LoadDescriptorConfig(strings.NewReader(`
name: cockroach
base: postgres
alter_table:
  allows_batch: false
trigger:
  drop: supports_table_name
`))
		require.NoError(t, err)
		assert.False(t, d.AlterTableSyntax().AllowsBatch)
		assert.Equal(t, Postgres.TriggerSyntax().Create, d.TriggerSyntax().Create)
		assert.Equal(t, TriggerSupportsTableName, d.TriggerSyntax().Drop)

		q, _ := Render(d, AlterTable("t").ModifyColumns(AlterColumnDefinitionType("a", TypeBigInt)))
		assert.Equal(t, `ALTER TABLE "t" ALTER COLUMN "a" SET DATA TYPE BIGINT`, q)

		d, err = LoadDescriptorConfig(strings.NewReader("name: x\nbase: postgres\nalter_table:\n  column_clause: ''\n"))
		require.NoError(t, err)
		assert.Nil(t, d.AlterTableSyntax().AlterColumnDefinitionClause)
		assert.NotNil(t, d.AlterTableSyntax().AlterColumnDefinitionTypeKeyword)
	})

	t.Run("Standalone", func(t *testing.T) {
		d, err := LoadDescriptorConfig(strings.NewReader(`
name: mssql
identifier_quote: '"'
placeholder: prefix
placeholder_prefix: "@p"
auto_increment: IDENTITY(1,1)
supports_if_exists: false
supports_returning: false
enum: unsupported
upsert: unsupported
booleans:
  when_true: "1"
  when_false: "0"
locks:
  exclusive: WITH (UPDLOCK)
`))
		require.NoError(t, err)
		assert.False(t, d.SupportsIfExists())
		assert.True(t, d.SupportsAutoIncrement())
		assert.Nil(t, d.SharedSelectLockExpression())

		q, args := Render(d, Insert("t").Columns("a", "b").Values(1, LitBool(true)))
		assert.Equal(t, `INSERT INTO "t" ("a", "b") VALUES (@p1, 1)`, q)
		assert.Equal(t, []any{1}, args)
		q, _ = Render(d, ColumnDef("id", TypeInt, PrimaryKey(true)))
		assert.Equal(t, `"id" INTEGER PRIMARY KEY IDENTITY(1,1)`, q)
	})

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dialect.yaml")
		require.NoError(t, os.WriteFile(path, []byte("name: mariadb\nbase: mysql\nunion: [union, union_all, intersect, except]\n"), 0o600))
		d, err := LoadDescriptorFile(path)
		require.NoError(t, err)
		assert.Equal(t, "mariadb", d.Name())
		assert.Equal(t, UpsertMySQL, d.UpsertSyntax())
		assert.True(t, d.UnionFeatures().Has(Except))
	})
}

func TestLoadDescriptorConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantKey string
		wantErr string
	}{
		{name: "missing name", yaml: "base: postgres\n", wantKey: "name", wantErr: "required"},
		{name: "unknown base", yaml: "name: x\nbase: db2\n", wantKey: "base", wantErr: "unknown dialect"},
		{name: "unknown field", yaml: "name: x\nbase: postgres\nquote: x\n", wantErr: "field quote not found"},
		{name: "unknown enum", yaml: "name: x\nbase: postgres\nenum: native\n", wantErr: `unknown value "native"`},
		{name: "unknown flag", yaml: "name: x\nbase: postgres\nunion: [union, minus]\n", wantErr: `unknown flag "minus"`},
		{name: "unknown placeholder", yaml: "name: x\nbase: postgres\nplaceholder: colon\n", wantKey: "placeholder", wantErr: `unknown placeholder style "colon"`},
		{name: "missing prefix", yaml: "name: x\nbase: postgres\nplaceholder: prefix\n", wantKey: "placeholder", wantErr: "placeholder_prefix is required"},
		{name: "half booleans", yaml: "name: x\nbase: postgres\nbooleans:\n  when_true: 'Y'\n", wantKey: "booleans", wantErr: "both required"},
		{name: "negative length", yaml: "name: x\nbase: postgres\nconstraint_max_length: -1\n", wantKey: "constraint_max_length", wantErr: "negative"},
		{name: "no placeholder", yaml: "name: x\nidentifier_quote: '\"'\n", wantErr: "BindPlaceholder"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadDescriptorConfig(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.True(t, sqlkit.IsConfigError(err))
			var cerr *sqlkit.ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, "<reader>", cerr.Source)
			assert.Equal(t, tt.wantKey, cerr.Key)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("MissingFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing.yaml")
		_, err := LoadDescriptorFile(path)
		var cerr *sqlkit.ConfigError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, path, cerr.Source)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("InvalidDescriptor", func(t *testing.T) {
		_, err := LoadDescriptorConfig(strings.NewReader("name: x\nbase: postgres\nidentifier_quote: ''\n"))
		require.Error(t, err)
		assert.ErrorIs(t, err, sqlkit.ErrInvalidDescriptor)
	})
}
