package sql

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/syssam/sqlkit"
	"github.com/syssam/sqlkit/dialect"
)

// Built-in dialect descriptors.
var (
	// Postgres describes PostgreSQL.
	Postgres = MustDescriptor(dialect.Postgres,
		WithIdentifierQuote(`"`),
		WithBindPlaceholder(DollarPlaceholder),
		WithAutoIncrement(Raw("GENERATED BY DEFAULT AS IDENTITY")),
		WithEnumSyntax(EnumTyped),
		WithDropBehavior(true),
		WithReturning(true),
		WithUpsertSyntax(UpsertStandard),
		WithUnionFeatures(UnionDistinct|UnionAll|Intersect|IntersectAll|Except|ExceptAll|ParenthesizedSubqueries),
		WithSelectLocks(Raw("FOR SHARE"), Raw("FOR UPDATE")),
		WithAlterTableSyntax(AlterTableSyntax{
			AlterColumnDefinitionClause:      Raw("ALTER COLUMN"),
			AlterColumnDefinitionTypeKeyword: Raw("SET DATA TYPE"),
			AllowsBatch:                      true,
		}),
		WithTriggerSyntax(TriggerSyntax{
			Create: TriggerSupportsForEach | TriggerSupportsCondition | TriggerConditionRequiresParentheses |
				TriggerSupportsConstraints | TriggerSupportsUpdateColumns | TriggerPostgreSQLChecks,
			Drop: TriggerSupportsTableName | TriggerSupportsCascade,
		}),
		WithCustomDataType(func(t DataType) (Expr, bool) {
			if t.Kind() == KindBlob {
				return Raw("BYTEA"), true
			}
			return nil, false
		}),
		WithConstraintNormalizer(HashedConstraintNames(63)),
		WithNestedSubpath(arrowSubpath),
	)

	// MySQL describes MySQL 8.
	MySQL = MustDescriptor(dialect.MySQL,
		WithIdentifierQuote("`"),
		WithEscapeBackslash(true),
		WithBindPlaceholder(QuestionPlaceholder),
		WithAutoIncrement(Raw("AUTO_INCREMENT")),
		WithEnumSyntax(EnumInline),
		WithUpsertSyntax(UpsertMySQL),
		WithUnionFeatures(UnionDistinct|UnionAll|ExplicitDistinct|ParenthesizedSubqueries),
		WithSelectLocks(Raw("LOCK IN SHARE MODE"), Raw("FOR UPDATE")),
		WithAlterTableSyntax(AlterTableSyntax{
			AlterColumnDefinitionClause: Raw("MODIFY COLUMN"),
			AllowsBatch:                 true,
		}),
		WithTriggerSyntax(TriggerSyntax{
			Create: TriggerRequiresForEachRow | TriggerSupportsBody | TriggerSupportsDefiner | TriggerSupportsOrder,
		}),
		WithLiteralBoolean(func(b bool) Expr {
			if b {
				return Raw("1")
			}
			return Raw("0")
		}),
		WithCustomDataType(func(t DataType) (Expr, bool) {
			if t.Kind() == KindTimestamp {
				return Raw("DATETIME(6)"), true
			}
			return nil, false
		}),
		WithConstraintNormalizer(HashedConstraintNames(64)),
		WithNestedSubpath(func(column Expr, path []string) (Expr, bool) {
			return Infix(column, "->>", LitString(jsonPath(path))), true
		}),
	)

	// SQLite describes SQLite 3.35 or later.
	SQLite = MustDescriptor(dialect.SQLite,
		WithIdentifierQuote(`"`),
		WithBindPlaceholder(NumberedQuestionPlaceholder),
		WithAutoIncrement(Raw("AUTOINCREMENT")),
		WithReturning(true),
		WithUpsertSyntax(UpsertStandard),
		WithUnionFeatures(UnionDistinct|UnionAll|Intersect|Except),
		WithAlterTableSyntax(AlterTableSyntax{AllowsBatch: false}),
		WithTriggerSyntax(TriggerSyntax{
			Create: TriggerSupportsBody | TriggerSupportsCondition | TriggerSupportsForEach | TriggerSupportsUpdateColumns,
		}),
		WithNestedSubpath(func(column Expr, path []string) (Expr, bool) {
			return Func("json_extract", column, LitString(jsonPath(path))), true
		}),
	)
)

// arrowSubpath renders a PostgreSQL JSON path as a chain of -> operators
// ending in ->> so the result is text.
func arrowSubpath(column Expr, path []string) (Expr, bool) {
	e := column
	for i, p := range path {
		op := "->"
		if i == len(path)-1 {
			op = "->>"
		}
		e = Infix(e, op, LitString(p))
	}
	return Group(e), true
}

var simplePathRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// jsonPath formats path as a SQL/JSON path expression, such as $.a."b c".
func jsonPath(path []string) string {
	var b strings.Builder
	b.WriteString("$")
	for _, p := range path {
		b.WriteByte('.')
		if simplePathRe.MatchString(p) {
			b.WriteString(p)
			continue
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(p, `"`, `\"`))
		b.WriteByte('"')
	}
	return b.String()
}

// Dialect registry.
var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Descriptor)
)

func init() {
	Register(Postgres)
	Register(MySQL)
	Register(SQLite)
}

// Register adds d to the registry under its lower-cased name, replacing any
// descriptor registered under the same name.
func Register(d *Descriptor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(d.Name())] = d
}

// Get returns the descriptor registered under name.
func Get(name string) (*Descriptor, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := registry[strings.ToLower(name)]
	return d, ok
}

// Lookup is like Get but returns sqlkit.ErrUnknownDialect for unknown names.
func Lookup(name string) (*Descriptor, error) {
	if d, ok := Get(name); ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: %q", sqlkit.ErrUnknownDialect, name)
}

// Names returns the registered dialect names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
