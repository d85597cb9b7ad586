package sql

// TypeKind identifies a portable column type.
type TypeKind uint8

// Type kinds.
const (
	KindSmallInt TypeKind = iota + 1
	KindInt
	KindBigInt
	KindText
	KindReal
	KindBlob
	KindTimestamp
	KindCustom
)

var kindNames = [...]string{
	KindSmallInt:  "SMALLINT",
	KindInt:       "INTEGER",
	KindBigInt:    "BIGINT",
	KindText:      "TEXT",
	KindReal:      "REAL",
	KindBlob:      "BLOB",
	KindTimestamp: "TIMESTAMP",
}

// DataType is a column type. Dialects may respell any type through their
// custom data type hook.
type DataType struct {
	kind   TypeKind
	custom Expr
}

// Portable column types.
var (
	TypeSmallInt  = DataType{kind: KindSmallInt}
	TypeInt       = DataType{kind: KindInt}
	TypeBigInt    = DataType{kind: KindBigInt}
	TypeText      = DataType{kind: KindText}
	TypeReal      = DataType{kind: KindReal}
	TypeBlob      = DataType{kind: KindBlob}
	TypeTimestamp = DataType{kind: KindTimestamp}
)

// CustomType returns a type rendered by e, such as Raw("VARCHAR(255)").
func CustomType(e Expr) DataType {
	return DataType{kind: KindCustom, custom: e}
}

// Kind returns the type kind.
func (t DataType) Kind() TypeKind { return t.kind }

// Serialize implements the Expr interface.
func (t DataType) Serialize(s *Serializer) {
	if e, ok := s.Dialect().CustomDataType(t); ok {
		e.Serialize(s)
		return
	}
	if t.kind == KindCustom {
		s.WriteExpr(t.custom)
		return
	}
	if int(t.kind) < len(kindNames) {
		s.Write(kindNames[t.kind])
	}
}
