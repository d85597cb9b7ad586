package sql

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"unicode/utf8"

	"github.com/syssam/sqlkit"
)

// EnumSyntax describes how a dialect declares enumerated types.
type EnumSyntax int

// Enum syntaxes.
const (
	// EnumUnsupported means the dialect has no enum type.
	EnumUnsupported EnumSyntax = iota
	// EnumInline means enums are declared inline on the column (MySQL).
	EnumInline
	// EnumTyped means enums are standalone named types (PostgreSQL).
	EnumTyped
)

// String returns the config name of the syntax.
func (s EnumSyntax) String() string {
	switch s {
	case EnumInline:
		return "inline"
	case EnumTyped:
		return "typed"
	default:
		return "unsupported"
	}
}

// UpsertSyntax describes how a dialect spells insert-or-update.
type UpsertSyntax int

// Upsert syntaxes.
const (
	UpsertUnsupported UpsertSyntax = iota
	// UpsertStandard is ON CONFLICT (PostgreSQL, SQLite).
	UpsertStandard
	// UpsertMySQL is ON DUPLICATE KEY UPDATE.
	UpsertMySQL
)

// String returns the config name of the syntax.
func (s UpsertSyntax) String() string {
	switch s {
	case UpsertStandard:
		return "standard"
	case UpsertMySQL:
		return "mysql"
	default:
		return "unsupported"
	}
}

// UnionFeatures is a set of supported set-operation features.
type UnionFeatures uint16

// Union features.
const (
	UnionDistinct UnionFeatures = 1 << iota
	UnionAll
	Intersect
	IntersectAll
	Except
	ExceptAll
	// ExplicitDistinct spells plain UNION as UNION DISTINCT.
	ExplicitDistinct
	// ParenthesizedSubqueries wraps every operand in parentheses.
	ParenthesizedSubqueries
)

// Has reports whether all bits of f are set.
func (u UnionFeatures) Has(f UnionFeatures) bool { return u&f == f }

// AlterTableSyntax describes the ALTER TABLE capabilities of a dialect.
type AlterTableSyntax struct {
	// AlterColumnDefinitionClause is the verb for modifying a column, such as
	// ALTER COLUMN or MODIFY COLUMN. Nil means column modification is not
	// supported.
	AlterColumnDefinitionClause Expr
	// AlterColumnDefinitionTypeKeyword precedes the new type in a column
	// modification, such as SET DATA TYPE.
	AlterColumnDefinitionTypeKeyword Expr
	// AllowsBatch reports whether several alterations may share a statement.
	AllowsBatch bool
}

// TriggerCreate is a set of CREATE TRIGGER capabilities.
type TriggerCreate uint16

// CREATE TRIGGER capabilities.
const (
	TriggerRequiresForEachRow TriggerCreate = 1 << iota
	TriggerSupportsBody
	TriggerSupportsCondition
	TriggerSupportsDefiner
	TriggerSupportsForEach
	TriggerSupportsOrder
	TriggerSupportsUpdateColumns
	TriggerSupportsConstraints
	TriggerPostgreSQLChecks
	TriggerConditionRequiresParentheses
)

// Has reports whether all bits of f are set.
func (t TriggerCreate) Has(f TriggerCreate) bool { return t&f == f }

// TriggerDrop is a set of DROP TRIGGER capabilities.
type TriggerDrop uint8

// DROP TRIGGER capabilities.
const (
	TriggerSupportsTableName TriggerDrop = 1 << iota
	TriggerSupportsCascade
)

// Has reports whether all bits of f are set.
func (t TriggerDrop) Has(f TriggerDrop) bool { return t&f == f }

// TriggerSyntax describes the trigger capabilities of a dialect.
type TriggerSyntax struct {
	Create TriggerCreate
	Drop   TriggerDrop
}

// Descriptor describes the syntax and capabilities of a SQL dialect.
// A Descriptor is immutable and safe to share between goroutines.
type Descriptor struct {
	name                  string
	identifierQuote       string
	literalStringQuote    string
	escapeBackslash       bool
	supportsAutoIncrement bool
	autoIncrementClause   Expr
	autoIncrementFunction Expr
	literalDefault        Expr
	supportsIfExists      bool
	enumSyntax            EnumSyntax
	supportsDropBehavior  bool
	supportsReturning     bool
	triggerSyntax         TriggerSyntax
	alterTableSyntax      AlterTableSyntax
	upsertSyntax          UpsertSyntax
	unionFeatures         UnionFeatures
	sharedLock            Expr
	exclusiveLock         Expr
	bindPlaceholder       func(int) Expr
	literalBoolean        func(bool) Expr
	customDataType        func(DataType) (Expr, bool)
	normalizeConstraint   func(string) string
	nestedSubpath         func(Expr, []string) (Expr, bool)
}

// Option configures a Descriptor under construction.
type Option func(*Descriptor)

// NewDescriptor builds a dialect descriptor. The identifier quote and the
// bind placeholder are required; every other capability has a conservative
// default.
func NewDescriptor(name string, opts ...Option) (*Descriptor, error) {
	d := &Descriptor{
		name:               name,
		literalStringQuote: "'",
		literalDefault:     Raw("DEFAULT"),
		supportsIfExists:   true,
		unionFeatures:      UnionDistinct | UnionAll,
	}
	return d.apply(opts)
}

// MustDescriptor is like NewDescriptor but panics on error.
func MustDescriptor(name string, opts ...Option) *Descriptor {
	d, err := NewDescriptor(name, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// Derive returns a copy of d renamed to name with opts applied on top.
func (d *Descriptor) Derive(name string, opts ...Option) (*Descriptor, error) {
	c := *d
	c.name = name
	return c.apply(opts)
}

func (d *Descriptor) apply(opts []Option) (*Descriptor, error) {
	for _, opt := range opts {
		opt(d)
	}
	switch {
	case d.identifierQuote == "":
		return nil, sqlkit.NewDescriptorError(d.name, "IdentifierQuote")
	case d.bindPlaceholder == nil:
		return nil, sqlkit.NewDescriptorError(d.name, "BindPlaceholder")
	}
	return d, nil
}

// WithIdentifierQuote sets the identifier quote, such as `"` or "`".
func WithIdentifierQuote(q string) Option {
	return func(d *Descriptor) { d.identifierQuote = q }
}

// WithLiteralStringQuote sets the string literal quote.
func WithLiteralStringQuote(q string) Option {
	return func(d *Descriptor) { d.literalStringQuote = q }
}

// WithEscapeBackslash makes string literals escape backslashes as well.
func WithEscapeBackslash(b bool) Option {
	return func(d *Descriptor) { d.escapeBackslash = b }
}

// WithAutoIncrement enables auto-increment primary keys rendered with the
// given clause, such as AUTO_INCREMENT.
func WithAutoIncrement(clause Expr) Option {
	return func(d *Descriptor) {
		d.supportsAutoIncrement = clause != nil
		d.autoIncrementClause = clause
	}
}

// WithAutoIncrementFunction sets a default-value function used for
// auto-increment keys. It takes precedence over the clause.
func WithAutoIncrementFunction(fn Expr) Option {
	return func(d *Descriptor) {
		d.supportsAutoIncrement = true
		d.autoIncrementFunction = fn
	}
}

// WithLiteralDefault sets the DEFAULT keyword expression.
func WithLiteralDefault(e Expr) Option {
	return func(d *Descriptor) { d.literalDefault = e }
}

// WithIfExists sets support for IF EXISTS / IF NOT EXISTS.
func WithIfExists(b bool) Option {
	return func(d *Descriptor) { d.supportsIfExists = b }
}

// WithEnumSyntax sets the enum syntax.
func WithEnumSyntax(s EnumSyntax) Option {
	return func(d *Descriptor) { d.enumSyntax = s }
}

// WithDropBehavior sets support for CASCADE / RESTRICT on DROP.
func WithDropBehavior(b bool) Option {
	return func(d *Descriptor) { d.supportsDropBehavior = b }
}

// WithReturning sets support for RETURNING.
func WithReturning(b bool) Option {
	return func(d *Descriptor) { d.supportsReturning = b }
}

// WithTriggerSyntax sets the trigger capabilities.
func WithTriggerSyntax(s TriggerSyntax) Option {
	return func(d *Descriptor) { d.triggerSyntax = s }
}

// WithAlterTableSyntax sets the ALTER TABLE capabilities.
func WithAlterTableSyntax(s AlterTableSyntax) Option {
	return func(d *Descriptor) { d.alterTableSyntax = s }
}

// WithUpsertSyntax sets the upsert syntax.
func WithUpsertSyntax(s UpsertSyntax) Option {
	return func(d *Descriptor) { d.upsertSyntax = s }
}

// WithUnionFeatures sets the supported set operations.
func WithUnionFeatures(f UnionFeatures) Option {
	return func(d *Descriptor) { d.unionFeatures = f }
}

// WithSelectLocks sets the shared and exclusive row-lock clauses. A nil
// expression disables the corresponding lock.
func WithSelectLocks(shared, exclusive Expr) Option {
	return func(d *Descriptor) {
		d.sharedLock = shared
		d.exclusiveLock = exclusive
	}
}

// WithBindPlaceholder sets the placeholder generator.
func WithBindPlaceholder(fn func(position int) Expr) Option {
	return func(d *Descriptor) { d.bindPlaceholder = fn }
}

// WithLiteralBoolean sets the boolean literal renderer.
func WithLiteralBoolean(fn func(bool) Expr) Option {
	return func(d *Descriptor) { d.literalBoolean = fn }
}

// WithCustomDataType sets the data type override hook.
func WithCustomDataType(fn func(DataType) (Expr, bool)) Option {
	return func(d *Descriptor) { d.customDataType = fn }
}

// WithConstraintNormalizer sets the constraint name normalizer. The function
// must be pure and map distinct names to distinct results.
func WithConstraintNormalizer(fn func(string) string) Option {
	return func(d *Descriptor) { d.normalizeConstraint = fn }
}

// WithNestedSubpath sets the JSON subpath generator.
func WithNestedSubpath(fn func(column Expr, path []string) (Expr, bool)) Option {
	return func(d *Descriptor) { d.nestedSubpath = fn }
}

// Name returns the dialect name.
func (d *Descriptor) Name() string { return d.name }

// IdentifierQuote returns the identifier quote.
func (d *Descriptor) IdentifierQuote() string { return d.identifierQuote }

// LiteralStringQuote returns the string literal quote.
func (d *Descriptor) LiteralStringQuote() string { return d.literalStringQuote }

// EscapeBackslash reports whether string literals escape backslashes.
func (d *Descriptor) EscapeBackslash() bool { return d.escapeBackslash }

// SupportsAutoIncrement reports whether auto-increment keys are supported.
func (d *Descriptor) SupportsAutoIncrement() bool { return d.supportsAutoIncrement }

// AutoIncrementClause returns the auto-increment column clause.
func (d *Descriptor) AutoIncrementClause() Expr { return d.autoIncrementClause }

// AutoIncrementFunction returns the auto-increment default function, if any.
func (d *Descriptor) AutoIncrementFunction() Expr { return d.autoIncrementFunction }

// LiteralDefault returns the DEFAULT keyword expression.
func (d *Descriptor) LiteralDefault() Expr { return d.literalDefault }

// SupportsIfExists reports whether IF EXISTS is supported.
func (d *Descriptor) SupportsIfExists() bool { return d.supportsIfExists }

// EnumSyntax returns the enum syntax.
func (d *Descriptor) EnumSyntax() EnumSyntax { return d.enumSyntax }

// SupportsDropBehavior reports whether CASCADE / RESTRICT is supported.
func (d *Descriptor) SupportsDropBehavior() bool { return d.supportsDropBehavior }

// SupportsReturning reports whether RETURNING is supported.
func (d *Descriptor) SupportsReturning() bool { return d.supportsReturning }

// TriggerSyntax returns the trigger capabilities.
func (d *Descriptor) TriggerSyntax() TriggerSyntax { return d.triggerSyntax }

// AlterTableSyntax returns the ALTER TABLE capabilities.
func (d *Descriptor) AlterTableSyntax() AlterTableSyntax { return d.alterTableSyntax }

// UpsertSyntax returns the upsert syntax.
func (d *Descriptor) UpsertSyntax() UpsertSyntax { return d.upsertSyntax }

// UnionFeatures returns the supported set operations.
func (d *Descriptor) UnionFeatures() UnionFeatures { return d.unionFeatures }

// SharedSelectLockExpression returns the shared row-lock clause, or nil.
func (d *Descriptor) SharedSelectLockExpression() Expr { return d.sharedLock }

// ExclusiveSelectLockExpression returns the exclusive row-lock clause, or nil.
func (d *Descriptor) ExclusiveSelectLockExpression() Expr { return d.exclusiveLock }

// BindPlaceholder returns the placeholder for the 1-based bind position.
func (d *Descriptor) BindPlaceholder(position int) Expr {
	return d.bindPlaceholder(position)
}

// LiteralBoolean returns the literal for b.
func (d *Descriptor) LiteralBoolean(b bool) Expr {
	if d.literalBoolean != nil {
		return d.literalBoolean(b)
	}
	if b {
		return Raw("TRUE")
	}
	return Raw("FALSE")
}

// CustomDataType returns the dialect spelling of t, if it overrides one.
func (d *Descriptor) CustomDataType(t DataType) (Expr, bool) {
	if d.customDataType == nil {
		return nil, false
	}
	return d.customDataType(t)
}

// NormalizeConstraint returns the dialect-safe form of a constraint name.
func (d *Descriptor) NormalizeConstraint(name string) string {
	if d.normalizeConstraint == nil {
		return name
	}
	return d.normalizeConstraint(name)
}

// NestedSubpath returns an expression extracting the JSON path from column,
// or false if the dialect has no such syntax.
func (d *Descriptor) NestedSubpath(column Expr, path []string) (Expr, bool) {
	if d.nestedSubpath == nil || len(path) == 0 {
		return nil, false
	}
	return d.nestedSubpath(column, path)
}

// QuestionPlaceholder renders every bind as "?".
func QuestionPlaceholder(int) Expr { return Raw("?") }

// NumberedQuestionPlaceholder renders binds as "?1", "?2", ...
func NumberedQuestionPlaceholder(position int) Expr {
	return Raw("?" + strconv.Itoa(position))
}

// DollarPlaceholder renders binds as "$1", "$2", ...
func DollarPlaceholder(position int) Expr {
	return Raw("$" + strconv.Itoa(position))
}

// PrefixPlaceholder returns a generator rendering binds as prefix followed
// by the position, such as "@p1".
func PrefixPlaceholder(prefix string) func(int) Expr {
	return func(position int) Expr {
		return Raw(prefix + strconv.Itoa(position))
	}
}

// hashLen is the number of hex digits of the SHA-256 digest kept by
// HashedConstraintNames.
const hashLen = 32

// HashedConstraintNames returns a normalizer for dialects limiting
// identifier length. Names that fit are returned unchanged; longer names are
// shortened to a readable prefix followed by a digest of the full name.
// Names that fit but already end in a digest-shaped suffix are hashed too,
// so no plain name can equal the shortened form of another.
func HashedConstraintNames(maxLen int) func(string) string {
	if maxLen < hashLen {
		maxLen = hashLen
	}
	return func(name string) string {
		if len(name) <= maxLen && !hasDigestSuffix(name) {
			return name
		}
		sum := sha256.Sum256([]byte(name))
		digest := hex.EncodeToString(sum[:])[:hashLen]
		keep := min(maxLen-hashLen-1, len(name))
		for keep > 0 && keep < len(name) && !utf8.RuneStart(name[keep]) {
			keep--
		}
		if keep > 0 {
			return name[:keep] + "_" + digest
		}
		return digest
	}
}

// hasDigestSuffix reports whether name has the shape produced by the
// hashing branch of HashedConstraintNames: a bare digest, or any prefix
// followed by "_" and a digest.
func hasDigestSuffix(name string) bool {
	n := len(name)
	if n < hashLen {
		return false
	}
	for i := n - hashLen; i < n; i++ {
		c := name[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return n == hashLen || name[n-hashLen-1] == '_'
}
