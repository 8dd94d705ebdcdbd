package lang

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
)

// Epsilon is the tolerance used for float truthiness and float equality.
// Values within Epsilon of zero are false; floats within Epsilon of each
// other compare equal, absorbing accumulated rounding.
const Epsilon = 1e-10

// ValueKind tags the dynamic type of a Value.
type ValueKind int

const (
	// KindString is the zero kind: the default value is the empty string.
	KindString ValueKind = iota
	KindFloat
	KindBool
	KindHandle
)

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindHandle:
		return "handle"
	default:
		return "unknown"
	}
}

// Handle is an opaque reference to an external resource, tagged by resource
// kind and numeric id. A nil Ref marks a dead handle.
type Handle struct {
	Kind string
	ID   int
	Ref  any
}

// Value is the tagged dynamic value of the language: exactly one of string,
// float, bool, or handle. Values are immutable once constructed; conversions
// produce new values.
type Value struct {
	kind    ValueKind
	str     string
	num     float64
	boolean bool
	handle  Handle
}

// StringValue constructs a string-tagged value.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// FloatValue constructs a float-tagged value.
func FloatValue(f float64) Value { return Value{kind: KindFloat, num: f} }

// BoolValue constructs a bool-tagged value.
func BoolValue(b bool) Value { return Value{kind: KindBool, boolean: b} }

// HandleValue constructs a handle-tagged value.
func HandleValue(h Handle) Value { return Value{kind: KindHandle, handle: h} }

// ParseValue interprets a source lexeme the way Let does: float if the text
// parses numerically, string otherwise. Quoted literals always bind as
// strings.
func ParseValue(text string, quoted bool) Value {
	if !quoted {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return FloatValue(f)
		}
	}

	return StringValue(text)
}

// Kind returns the value's tag.
func (v Value) Kind() ValueKind { return v.kind }

// Handle returns the handle payload. Only meaningful for KindHandle.
func (v Value) Handle() Handle { return v.handle }

// String converts the value to its string form. Total: never fails.
// Floats render with a fixed 6-decimal form.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindFloat:
		return strconv.FormatFloat(v.num, 'f', 6, 64)
	case KindBool:
		if v.boolean {
			return "true"
		}

		return "false"
	case KindHandle:
		return fmt.Sprintf("<handle:%s:%d>", v.handle.Kind, v.handle.ID)
	default:
		return ""
	}
}

// Float converts the value to a float. Total: a string that fails numeric
// parse yields 0.0, bools yield 1/0, handles yield their id.
func (v Value) Float() float64 {
	switch v.kind {
	case KindString:
		f, err := strconv.ParseFloat(v.str, 64)
		if err != nil {
			return 0.0
		}

		return f
	case KindFloat:
		return v.num
	case KindBool:
		if v.boolean {
			return 1.0
		}

		return 0.0
	case KindHandle:
		return float64(v.handle.ID)
	default:
		return 0.0
	}
}

// Bool converts the value to a bool. Total: strings are "non-empty", floats
// use the Epsilon policy, handles are "reference is non-nil".
func (v Value) Bool() bool {
	switch v.kind {
	case KindString:
		return v.str != ""
	case KindFloat:
		return math.Abs(v.num) > Epsilon
	case KindBool:
		return v.boolean
	case KindHandle:
		return v.handle.Ref != nil
	default:
		return false
	}
}

// Add is the overloaded binary +: if either operand is a string, the result
// is the concatenation of both operands' string forms; otherwise numeric
// addition of both float forms.
func (v Value) Add(other Value) Value {
	if v.kind == KindString || other.kind == KindString {
		return StringValue(v.String() + other.String())
	}

	return FloatValue(v.Float() + other.Float())
}

// Sub coerces both operands to float and subtracts.
func (v Value) Sub(other Value) Value {
	return FloatValue(v.Float() - other.Float())
}

// Mul coerces both operands to float and multiplies.
func (v Value) Mul(other Value) Value {
	return FloatValue(v.Float() * other.Float())
}

// Div coerces both operands to float and divides. A divisor within Epsilon
// of zero fails with ErrDivisionByZero rather than producing infinity.
func (v Value) Div(other Value) (Value, error) {
	divisor := other.Float()
	if math.Abs(divisor) < Epsilon {
		return Value{}, ErrDivisionByZero.
			With(slog.Float64("dividend", v.Float()))
	}

	return FloatValue(v.Float() / divisor), nil
}

// Equal compares as strings if either operand is a string, otherwise as
// floats within Epsilon.
func (v Value) Equal(other Value) bool {
	if v.kind == KindString || other.kind == KindString {
		return v.String() == other.String()
	}

	return math.Abs(v.Float()-other.Float()) < Epsilon
}

// Less compares as strings if either operand is a string, otherwise as
// floats.
func (v Value) Less(other Value) bool {
	if v.kind == KindString || other.kind == KindString {
		return v.String() < other.String()
	}

	return v.Float() < other.Float()
}
