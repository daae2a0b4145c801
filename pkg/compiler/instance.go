package compiler

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/typeforge/typeforge/pkg/descriptor"
)

// Date/date-time layouts accepted by the coercion table.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04:05"
)

// Instance is a live value of a compiled artifact. All writes go through
// Set, which coerces the incoming document value to the field's schema type.
type Instance struct {
	artifact *Artifact
	value    reflect.Value // pointer to the runtime struct
}

// NewInstance invokes the artifact's zero-argument constructor equivalent:
// it allocates a zero value and applies declared field defaults.
func NewInstance(a *Artifact) (*Instance, error) {
	if a == nil || a.Type == nil {
		return nil, &InstantiationError{QualifiedName: "", Err: fmt.Errorf("nil artifact")}
	}
	inst := &Instance{
		artifact: a,
		value:    reflect.New(a.Type),
	}
	for i := range a.Fields {
		f := &a.Fields[i]
		if f.Default == "" {
			continue
		}
		if err := inst.Set(f, f.Default); err != nil {
			return nil, &InstantiationError{QualifiedName: a.QualifiedName,
				Err: fmt.Errorf("default for field %q: %w", f.Name, err)}
		}
	}
	return inst, nil
}

// Artifact returns the compiled artifact this instance was created from.
func (i *Instance) Artifact() *Artifact { return i.artifact }

// Interface returns the instance as a pointer to the runtime struct,
// suitable for encoding/xml.
func (i *Instance) Interface() any { return i.value.Interface() }

// Set coerces value to the field's schema type and stores it.
func (i *Instance) Set(f *Field, value any) error {
	coerced, err := coerce(f.Type, value)
	if err != nil {
		return fmt.Errorf("cannot coerce %T to %s: %w", value, f.Type, err)
	}
	i.value.Elem().Field(f.Index).Set(coerced)
	return nil
}

// Get returns the current value of a field.
func (i *Instance) Get(f *Field) any {
	return i.value.Elem().Field(f.Index).Interface()
}

// coerce implements the fixed per-type conversion table. Document values
// arrive as JSON scalars (string, float64, bool, nil); numeric strings are
// parsed for numeric targets and scalars are stringified for text targets.
func coerce(ft descriptor.FieldType, value any) (reflect.Value, error) {
	if value == nil {
		return reflect.Value{}, fmt.Errorf("null value")
	}
	switch ft {
	case descriptor.FieldTypeString:
		switch v := value.(type) {
		case string:
			return reflect.ValueOf(v), nil
		case float64, bool, int, int32, int64:
			return reflect.ValueOf(fmt.Sprint(v)), nil
		}
	case descriptor.FieldTypeInt32:
		n, err := toInt64(value)
		if err != nil {
			return reflect.Value{}, err
		}
		if n > 1<<31-1 || n < -(1<<31) {
			return reflect.Value{}, fmt.Errorf("value %d overflows int32", n)
		}
		return reflect.ValueOf(int32(n)), nil
	case descriptor.FieldTypeInt64:
		n, err := toInt64(value)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(n), nil
	case descriptor.FieldTypeFloat32:
		f, err := toFloat64(value)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(float32(f)), nil
	case descriptor.FieldTypeFloat64:
		f, err := toFloat64(value)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(f), nil
	case descriptor.FieldTypeBool:
		switch v := value.(type) {
		case bool:
			return reflect.ValueOf(v), nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(b), nil
		}
	case descriptor.FieldTypeDate:
		s, ok := value.(string)
		if !ok {
			return reflect.Value{}, fmt.Errorf("date requires a string")
		}
		t, err := time.Parse(DateLayout, s)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(t), nil
	case descriptor.FieldTypeDateTime:
		s, ok := value.(string)
		if !ok {
			return reflect.Value{}, fmt.Errorf("date-time requires a string")
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			t, err = time.Parse(DateTimeLayout, s)
		}
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(t), nil
	case descriptor.FieldTypeDecimal:
		switch v := value.(type) {
		case string:
			d, err := decimal.NewFromString(v)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(d), nil
		case float64:
			return reflect.ValueOf(decimal.NewFromFloat(v)), nil
		case int:
			return reflect.ValueOf(decimal.NewFromInt(int64(v))), nil
		case int64:
			return reflect.ValueOf(decimal.NewFromInt(v)), nil
		}
	}
	return reflect.Value{}, fmt.Errorf("unsupported value type %T", value)
}

func toInt64(value any) (int64, error) {
	switch v := value.(type) {
	case float64:
		return int64(v), nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	}
	return 0, fmt.Errorf("not a number")
}

func toFloat64(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(v, 64)
	}
	return 0, fmt.Errorf("not a number")
}
