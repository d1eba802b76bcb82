package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// Type defines the contract for parameter validation.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "int[1..1000]").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// Field is one schema entry.
type Field struct {
	Type     Type
	Required bool
}

// Req declares a required field.
func Req(t Type) Field { return Field{Type: t, Required: true} }

// Opt declares an optional field.
func Opt(t Type) Field { return Field{Type: t} }

// --- Built-in Type Implementations ---

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(value any) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

// BoolType validates boolean values.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) Validate(value any) error {
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

// IntType validates integer values, optionally bounded.
type IntType struct {
	min, max int64
	bounded  bool
}

func (t *IntType) Name() string {
	if t.bounded {
		return fmt.Sprintf("int[%d..%d]", t.min, t.max)
	}
	return "int"
}

func (t *IntType) Validate(value any) error {
	var n int64
	switch v := value.(type) {
	case int:
		n = int64(v)
	case int8:
		n = int64(v)
	case int16:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case float64:
		// Accept floats that are whole numbers (from YAML/JSON unmarshaling)
		if v != float64(int64(v)) {
			return fmt.Errorf("expected int, got float (not a whole number)")
		}
		n = int64(v)
	default:
		return fmt.Errorf("expected int, got %T", value)
	}
	if t.bounded && (n < t.min || n > t.max) {
		return fmt.Errorf("%d out of range [%d, %d]", n, t.min, t.max)
	}
	return nil
}

// FloatType validates floating-point values, optionally bounded.
type FloatType struct {
	min, max float64
	bounded  bool
}

func (t *FloatType) Name() string {
	if t.bounded {
		return fmt.Sprintf("float[%g..%g]", t.min, t.max)
	}
	return "float"
}

func (t *FloatType) Validate(value any) error {
	f, ok := toFloat(value)
	if !ok {
		return fmt.Errorf("expected float, got %T", value)
	}
	if t.bounded && (f < t.min || f > t.max) {
		return fmt.Errorf("%g out of range [%g, %g]", f, t.min, t.max)
	}
	return nil
}

// EnumType validates a string against a closed set of values.
type EnumType struct {
	values []string
}

func (t *EnumType) Name() string { return "enum(" + strings.Join(t.values, "|") + ")" }

func (t *EnumType) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	for _, v := range t.values {
		if v == s {
			return nil
		}
	}
	return fmt.Errorf("%q is not one of %v", s, t.values)
}

// VectorType validates a three-component numeric vector.
type VectorType struct{}

func (t *VectorType) Name() string { return "vec3" }

func (t *VectorType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return fmt.Errorf("expected vec3, got %T", value)
	}
	if rv.Len() != 3 {
		return fmt.Errorf("expected 3 components, got %d", rv.Len())
	}
	for i := 0; i < 3; i++ {
		if _, ok := toFloat(rv.Index(i).Interface()); !ok {
			return fmt.Errorf("component %d: expected number, got %T", i, rv.Index(i).Interface())
		}
	}
	return nil
}

// RefType validates a reference to another entity by name.
type RefType struct{}

func (t *RefType) Name() string { return "ref" }

func (t *RefType) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected entity reference, got %T", value)
	}
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("empty entity reference")
	}
	return nil
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// --- Factory Functions ---

// String creates a string type validator.
func String() Type { return &StringType{} }

// Bool creates a boolean type validator.
func Bool() Type { return &BoolType{} }

// Int creates an unbounded integer type validator.
func Int() Type { return &IntType{} }

// IntRange creates an integer validator accepting [min, max].
func IntRange(min, max int64) Type { return &IntType{min: min, max: max, bounded: true} }

// Float creates an unbounded float type validator.
func Float() Type { return &FloatType{} }

// FloatRange creates a float validator accepting [min, max].
func FloatRange(min, max float64) Type { return &FloatType{min: min, max: max, bounded: true} }

// Enum creates a validator for a closed set of strings.
func Enum(values ...string) Type { return &EnumType{values: values} }

// Vector creates a three-component vector validator.
func Vector() Type { return &VectorType{} }

// Ref creates an entity reference validator.
func Ref() Type { return &RefType{} }
