package sql

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/syssam/sqlkit"
)

// DescriptorConfig is the YAML form of a dialect descriptor. It names a
// registered base dialect and overrides some of its capabilities:
//
//	name: cockroach
//	base: postgres
//	supports_drop_behavior: false
//	union: [union, union_all, intersect, except]
//	alter_table:
//	  allows_batch: false
//	constraint_max_length: 63
//
// Nested sections merge key by key onto the base dialect, so the example
// above keeps PostgreSQL's ALTER COLUMN ... SET DATA TYPE clauses.
type DescriptorConfig struct {
	Name                 string            `yaml:"name"`
	Base                 string            `yaml:"base"`
	IdentifierQuote      *string           `yaml:"identifier_quote"`
	StringQuote          *string           `yaml:"string_quote"`
	EscapeBackslash      *bool             `yaml:"escape_backslash"`
	Placeholder          string            `yaml:"placeholder"`
	PlaceholderPrefix    string            `yaml:"placeholder_prefix"`
	AutoIncrement        *string           `yaml:"auto_increment"`
	SupportsIfExists     *bool             `yaml:"supports_if_exists"`
	SupportsDropBehavior *bool             `yaml:"supports_drop_behavior"`
	SupportsReturning    *bool             `yaml:"supports_returning"`
	Enum                 *EnumSyntax       `yaml:"enum"`
	Upsert               *UpsertSyntax     `yaml:"upsert"`
	Union                *UnionFeatures    `yaml:"union"`
	Booleans             *BooleanConfig    `yaml:"booleans"`
	Locks                *LockConfig       `yaml:"locks"`
	AlterTable           *AlterTableConfig `yaml:"alter_table"`
	Trigger              *TriggerConfig    `yaml:"trigger"`
	ConstraintMaxLength  int               `yaml:"constraint_max_length"`
}

// BooleanConfig holds boolean literal spellings.
type BooleanConfig struct {
	True  string `yaml:"when_true"`
	False string `yaml:"when_false"`
}

// LockConfig holds row-lock clauses. Empty strings disable a lock.
type LockConfig struct {
	Shared    string `yaml:"shared"`
	Exclusive string `yaml:"exclusive"`
}

// AlterTableConfig is the YAML form of AlterTableSyntax. Absent keys keep
// the base dialect's value; an empty clause disables it.
type AlterTableConfig struct {
	AllowsBatch  *bool   `yaml:"allows_batch"`
	ColumnClause *string `yaml:"column_clause"`
	TypeKeyword  *string `yaml:"type_keyword"`
}

// TriggerConfig is the YAML form of TriggerSyntax. Absent keys keep the
// base dialect's value.
type TriggerConfig struct {
	Create *TriggerCreate `yaml:"create"`
	Drop   *TriggerDrop   `yaml:"drop"`
}

// LoadDescriptorFile reads a descriptor config from a YAML file.
func LoadDescriptorFile(path string) (*Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &sqlkit.ConfigError{Source: path, Err: err}
	}
	defer f.Close()
	return loadDescriptor(path, f)
}

// LoadDescriptorConfig reads a descriptor config from r.
func LoadDescriptorConfig(r io.Reader) (*Descriptor, error) {
	return loadDescriptor("<reader>", r)
}

func loadDescriptor(source string, r io.Reader) (*Descriptor, error) {
	var cfg DescriptorConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, &sqlkit.ConfigError{Source: source, Err: err}
	}
	d, err := cfg.Build()
	if err != nil {
		var cerr *sqlkit.ConfigError
		if errors.As(err, &cerr) {
			cerr.Source = source
			return nil, cerr
		}
		return nil, &sqlkit.ConfigError{Source: source, Err: err}
	}
	return d, nil
}

// Build converts the config into a descriptor.
func (c *DescriptorConfig) Build() (*Descriptor, error) {
	if c.Name == "" {
		return nil, &sqlkit.ConfigError{Key: "name", Err: errors.New("required")}
	}
	opts, err := c.options()
	if err != nil {
		return nil, err
	}
	if c.Base == "" {
		return NewDescriptor(c.Name, opts...)
	}
	base, err := Lookup(c.Base)
	if err != nil {
		return nil, &sqlkit.ConfigError{Key: "base", Err: err}
	}
	return base.Derive(c.Name, opts...)
}

func (c *DescriptorConfig) options() ([]Option, error) {
	var opts []Option
	if c.IdentifierQuote != nil {
		opts = append(opts, WithIdentifierQuote(*c.IdentifierQuote))
	}
	if c.StringQuote != nil {
		opts = append(opts, WithLiteralStringQuote(*c.StringQuote))
	}
	if c.EscapeBackslash != nil {
		opts = append(opts, WithEscapeBackslash(*c.EscapeBackslash))
	}
	if c.Placeholder != "" {
		fn, err := placeholderByName(c.Placeholder, c.PlaceholderPrefix)
		if err != nil {
			return nil, &sqlkit.ConfigError{Key: "placeholder", Err: err}
		}
		opts = append(opts, WithBindPlaceholder(fn))
	}
	if c.AutoIncrement != nil {
		opts = append(opts, WithAutoIncrement(rawOrNil(*c.AutoIncrement)))
	}
	if c.SupportsIfExists != nil {
		opts = append(opts, WithIfExists(*c.SupportsIfExists))
	}
	if c.SupportsDropBehavior != nil {
		opts = append(opts, WithDropBehavior(*c.SupportsDropBehavior))
	}
	if c.SupportsReturning != nil {
		opts = append(opts, WithReturning(*c.SupportsReturning))
	}
	if c.Enum != nil {
		opts = append(opts, WithEnumSyntax(*c.Enum))
	}
	if c.Upsert != nil {
		opts = append(opts, WithUpsertSyntax(*c.Upsert))
	}
	if c.Union != nil {
		opts = append(opts, WithUnionFeatures(*c.Union))
	}
	if b := c.Booleans; b != nil {
		if b.True == "" || b.False == "" {
			return nil, &sqlkit.ConfigError{Key: "booleans", Err: errors.New("when_true and when_false are both required")}
		}
		opts = append(opts, WithLiteralBoolean(func(v bool) Expr {
			if v {
				return Raw(b.True)
			}
			return Raw(b.False)
		}))
	}
	if l := c.Locks; l != nil {
		opts = append(opts, WithSelectLocks(rawOrNil(l.Shared), rawOrNil(l.Exclusive)))
	}
	if a := c.AlterTable; a != nil {
		opts = append(opts, func(d *Descriptor) {
			if a.ColumnClause != nil {
				d.alterTableSyntax.AlterColumnDefinitionClause = rawOrNil(*a.ColumnClause)
			}
			if a.TypeKeyword != nil {
				d.alterTableSyntax.AlterColumnDefinitionTypeKeyword = rawOrNil(*a.TypeKeyword)
			}
			if a.AllowsBatch != nil {
				d.alterTableSyntax.AllowsBatch = *a.AllowsBatch
			}
		})
	}
	if t := c.Trigger; t != nil {
		opts = append(opts, func(d *Descriptor) {
			if t.Create != nil {
				d.triggerSyntax.Create = *t.Create
			}
			if t.Drop != nil {
				d.triggerSyntax.Drop = *t.Drop
			}
		})
	}
	switch {
	case c.ConstraintMaxLength < 0:
		return nil, &sqlkit.ConfigError{Key: "constraint_max_length", Err: errors.New("must not be negative")}
	case c.ConstraintMaxLength > 0:
		opts = append(opts, WithConstraintNormalizer(HashedConstraintNames(c.ConstraintMaxLength)))
	}
	return opts, nil
}

func placeholderByName(name, prefix string) (func(int) Expr, error) {
	switch name {
	case "question":
		return QuestionPlaceholder, nil
	case "numbered":
		return NumberedQuestionPlaceholder, nil
	case "dollar":
		return DollarPlaceholder, nil
	case "prefix":
		if prefix == "" {
			return nil, errors.New("placeholder_prefix is required")
		}
		return PrefixPlaceholder(prefix), nil
	default:
		return nil, fmt.Errorf("unknown placeholder style %q", name)
	}
}

func rawOrNil(s string) Expr {
	if s == "" {
		return nil
	}
	return Raw(s)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *EnumSyntax) UnmarshalYAML(node *yaml.Node) error {
	v, err := decodeName(node, map[string]EnumSyntax{
		"unsupported": EnumUnsupported,
		"inline":      EnumInline,
		"typed":       EnumTyped,
	})
	if err == nil {
		*s = v
	}
	return err
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *UpsertSyntax) UnmarshalYAML(node *yaml.Node) error {
	v, err := decodeName(node, map[string]UpsertSyntax{
		"unsupported": UpsertUnsupported,
		"standard":    UpsertStandard,
		"mysql":       UpsertMySQL,
	})
	if err == nil {
		*s = v
	}
	return err
}

var unionNames = map[string]UnionFeatures{
	"union":                    UnionDistinct,
	"union_all":                UnionAll,
	"intersect":                Intersect,
	"intersect_all":            IntersectAll,
	"except":                   Except,
	"except_all":               ExceptAll,
	"explicit_distinct":        ExplicitDistinct,
	"parenthesized_subqueries": ParenthesizedSubqueries,
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (u *UnionFeatures) UnmarshalYAML(node *yaml.Node) error {
	v, err := decodeFlags(node, unionNames)
	if err == nil {
		*u = v
	}
	return err
}

var triggerCreateNames = map[string]TriggerCreate{
	"requires_for_each_row":          TriggerRequiresForEachRow,
	"supports_body":                  TriggerSupportsBody,
	"supports_condition":             TriggerSupportsCondition,
	"supports_definer":               TriggerSupportsDefiner,
	"supports_for_each":              TriggerSupportsForEach,
	"supports_order":                 TriggerSupportsOrder,
	"supports_update_columns":        TriggerSupportsUpdateColumns,
	"supports_constraints":           TriggerSupportsConstraints,
	"postgresql_checks":              TriggerPostgreSQLChecks,
	"condition_requires_parentheses": TriggerConditionRequiresParentheses,
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *TriggerCreate) UnmarshalYAML(node *yaml.Node) error {
	v, err := decodeFlags(node, triggerCreateNames)
	if err == nil {
		*t = v
	}
	return err
}

var triggerDropNames = map[string]TriggerDrop{
	"supports_table_name": TriggerSupportsTableName,
	"supports_cascade":    TriggerSupportsCascade,
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *TriggerDrop) UnmarshalYAML(node *yaml.Node) error {
	v, err := decodeFlags(node, triggerDropNames)
	if err == nil {
		*t = v
	}
	return err
}

func decodeName[T any](node *yaml.Node, names map[string]T) (T, error) {
	var zero T
	if node.Kind != yaml.ScalarNode {
		return zero, fmt.Errorf("line %d: expected a scalar, got %v", node.Line, node.Kind)
	}
	v, ok := names[node.Value]
	if !ok {
		return zero, fmt.Errorf("line %d: unknown value %q (expected one of %v)", node.Line, node.Value, keys(names))
	}
	return v, nil
}

func decodeFlags[T ~uint8 | ~uint16](node *yaml.Node, names map[string]T) (T, error) {
	var list []string
	switch node.Kind {
	case yaml.ScalarNode:
		list = []string{node.Value}
	case yaml.SequenceNode:
		if err := node.Decode(&list); err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("line %d: expected a string or a list, got %v", node.Line, node.Kind)
	}
	var flags T
	for _, name := range list {
		f, ok := names[name]
		if !ok {
			return 0, fmt.Errorf("line %d: unknown flag %q (expected one of %v)", node.Line, name, keys(names))
		}
		flags |= f
	}
	return flags, nil
}

func keys[T any](m map[string]T) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}
