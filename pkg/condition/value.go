package condition

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the type of a property Value.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	}
	return "string"
}

// ParseKind maps description type names onto a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "string", "":
		return KindString, nil
	case "double", "decimal", "int", "integer", "number", "float":
		return KindNumber, nil
	case "bool", "boolean":
		return KindBool, nil
	}
	return KindString, fmt.Errorf("condition: unknown property type %q", s)
}

// Value is a string, number or boolean property value.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric Value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind returns the type of v.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string payload; valid for KindString.
func (v Value) Str() string { return v.str }

// Num returns the numeric payload; valid for KindNumber.
func (v Value) Num() float64 { return v.num }

// Boolean returns the boolean payload; valid for KindBool.
func (v Value) Boolean() bool { return v.b }

// Equal reports structural equality.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	}
	return v.str == o.str
}

// Truthy is true for true, non-zero numbers and non-empty strings.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNumber:
		return v.num != 0
	case KindBool:
		return v.b
	}
	return v.str != ""
}

// Text formats the value the way it is displayed in text runs.
func (v Value) Text() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	}
	return v.str
}

func (v Value) String() string {
	if v.kind == KindString {
		return strconv.Quote(v.str)
	}
	return v.Text()
}

// Interface returns the payload as a plain Go value.
func (v Value) Interface() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	}
	return v.str
}

// ParseValue parses text as a literal of the given kind.
func ParseValue(kind Kind, text string) (Value, error) {
	switch kind {
	case KindNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return Value{}, fmt.Errorf("condition: %q is not a number", text)
		}
		return Number(n), nil
	case KindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return Value{}, fmt.Errorf("condition: %q is not a boolean", text)
		}
		return Bool(b), nil
	}
	return String(text), nil
}

// InferValue parses text as a number or boolean when it looks like one,
// otherwise as a string.
func InferValue(text string) Value {
	if n, err := strconv.ParseFloat(text, 64); err == nil {
		return Number(n)
	}
	if b, err := strconv.ParseBool(text); err == nil && (text == "true" || text == "false") {
		return Bool(b)
	}
	return String(text)
}

// FromInterface converts a decoded YAML/JSON scalar into a Value.
func FromInterface(x any) (Value, error) {
	switch t := x.(type) {
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case int:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case float32:
		return Number(float64(t)), nil
	case float64:
		return Number(t), nil
	}
	return Value{}, fmt.Errorf("condition: unsupported value type %T", x)
}

// ConvertTo coerces v to kind. Strings are parsed; numbers and booleans
// convert to strings via Text.
func (v Value) ConvertTo(kind Kind) (Value, error) {
	if v.kind == kind {
		return v, nil
	}
	switch kind {
	case KindString:
		return String(v.Text()), nil
	case KindNumber:
		if v.kind == KindBool {
			if v.b {
				return Number(1), nil
			}
			return Number(0), nil
		}
		return ParseValue(KindNumber, v.str)
	case KindBool:
		if v.kind == KindNumber {
			return Bool(v.num != 0), nil
		}
		return ParseValue(KindBool, v.str)
	}
	return Value{}, fmt.Errorf("condition: cannot convert %s to %s", v.kind, kind)
}

// Compare applies op with v on the left and literal on the right.
// Comparing values of different kinds is a contract violation and panics.
func (v Value) Compare(op Comparison, literal Value) bool {
	switch op {
	case Truthy:
		return v.Truthy()
	case Falsy:
		return !v.Truthy()
	}
	if v.kind != literal.kind {
		panic(fmt.Sprintf("condition: comparing %s value with %s literal", v.kind, literal.kind))
	}
	var c int
	switch v.kind {
	case KindNumber:
		switch {
		case v.num < literal.num:
			c = -1
		case v.num > literal.num:
			c = 1
		}
	case KindString:
		c = strings.Compare(v.str, literal.str)
	case KindBool:
		if op != Equal && op != NotEqual {
			panic(fmt.Sprintf("condition: operator %s is not defined for booleans", op))
		}
		if v.b != literal.b {
			c = 1
		}
	}
	switch op {
	case Equal:
		return c == 0
	case NotEqual:
		return c != 0
	case Greater:
		return c > 0
	case GreaterOrEqual:
		return c >= 0
	case Less:
		return c < 0
	case LessOrEqual:
		return c <= 0
	}
	panic(fmt.Sprintf("condition: unknown comparison %d", op))
}
