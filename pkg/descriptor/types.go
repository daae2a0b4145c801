package descriptor

import (
	"fmt"
	"reflect"
	"time"

	"github.com/shopspring/decimal"
)

// TypeDescriptor describes a record type to be generated dynamically.
type TypeDescriptor struct {
	TypeName    string      `json:"typeName"`
	Namespace   string      `json:"namespace"`
	Fields      []FieldSpec `json:"fields"`
	Description string      `json:"description,omitempty"`
}

// FieldSpec describes a single field of a generated type.
type FieldSpec struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Required     bool   `json:"required"`
	DefaultValue string `json:"defaultValue,omitempty"`
}

// QualifiedName returns the namespace-qualified type name, e.g.
// "com.example.generated.Person".
func (d *TypeDescriptor) QualifiedName() string {
	return d.Namespace + "." + d.TypeName
}

func (d *TypeDescriptor) String() string {
	return fmt.Sprintf("TypeDescriptor{typeName=%q, namespace=%q, fields=%d}",
		d.TypeName, d.Namespace, len(d.Fields))
}

// FieldType identifies one of the whitelisted scalar field types.
type FieldType string

const (
	FieldTypeString   FieldType = "string"
	FieldTypeInt32    FieldType = "int32"
	FieldTypeInt64    FieldType = "int64"
	FieldTypeFloat32  FieldType = "float32"
	FieldTypeFloat64  FieldType = "float64"
	FieldTypeBool     FieldType = "bool"
	FieldTypeDate     FieldType = "date"
	FieldTypeDateTime FieldType = "datetime"
	FieldTypeDecimal  FieldType = "decimal"
)

// fieldTypeAliases maps accepted wire spellings to canonical field types.
// The closed set is the whole safety boundary for types: anything absent
// here never reaches source generation or compilation.
var fieldTypeAliases = map[string]FieldType{
	"string":   FieldTypeString,
	"int":      FieldTypeInt32,
	"int32":    FieldTypeInt32,
	"integer":  FieldTypeInt32,
	"long":     FieldTypeInt64,
	"int64":    FieldTypeInt64,
	"float":    FieldTypeFloat32,
	"float32":  FieldTypeFloat32,
	"double":   FieldTypeFloat64,
	"float64":  FieldTypeFloat64,
	"bool":     FieldTypeBool,
	"boolean":  FieldTypeBool,
	"date":     FieldTypeDate,
	"datetime": FieldTypeDateTime,
	"decimal":  FieldTypeDecimal,
}

// ParseFieldType resolves a wire type token to its canonical FieldType.
func ParseFieldType(token string) (FieldType, bool) {
	ft, ok := fieldTypeAliases[token]
	return ft, ok
}

// AllowedTypeTokens returns the canonical whitelist tokens, for error messages.
func AllowedTypeTokens() []string {
	return []string{
		string(FieldTypeString), string(FieldTypeInt32), string(FieldTypeInt64),
		string(FieldTypeFloat32), string(FieldTypeFloat64), string(FieldTypeBool),
		string(FieldTypeDate), string(FieldTypeDateTime), string(FieldTypeDecimal),
	}
}

// GoType returns the Go type expression emitted into generated source.
func (t FieldType) GoType() string {
	switch t {
	case FieldTypeString:
		return "string"
	case FieldTypeInt32:
		return "int32"
	case FieldTypeInt64:
		return "int64"
	case FieldTypeFloat32:
		return "float32"
	case FieldTypeFloat64:
		return "float64"
	case FieldTypeBool:
		return "bool"
	case FieldTypeDate, FieldTypeDateTime:
		return "time.Time"
	case FieldTypeDecimal:
		return "decimal.Decimal"
	default:
		return ""
	}
}

// ReflectType returns the runtime type used when the compiled struct is built.
func (t FieldType) ReflectType() reflect.Type {
	switch t {
	case FieldTypeString:
		return reflect.TypeOf("")
	case FieldTypeInt32:
		return reflect.TypeOf(int32(0))
	case FieldTypeInt64:
		return reflect.TypeOf(int64(0))
	case FieldTypeFloat32:
		return reflect.TypeOf(float32(0))
	case FieldTypeFloat64:
		return reflect.TypeOf(float64(0))
	case FieldTypeBool:
		return reflect.TypeOf(false)
	case FieldTypeDate, FieldTypeDateTime:
		return reflect.TypeOf(time.Time{})
	case FieldTypeDecimal:
		return reflect.TypeOf(decimal.Decimal{})
	default:
		return nil
	}
}
