package ratio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind classifies a ratio result.
type Kind uint8

const (
	// KindUndefined marks a ratio whose inputs were missing or whose
	// denominator was zero.
	KindUndefined Kind = iota
	// KindFinite marks an ordinary numeric ratio.
	KindFinite
	// KindUnbounded marks the positive-infinity sentinel, e.g. interest
	// coverage with no interest burden.
	KindUnbounded
)

func (k Kind) String() string {
	switch k {
	case KindFinite:
		return "finite"
	case KindUnbounded:
		return "unbounded"
	default:
		return "undefined"
	}
}

// unboundedJSON is the JSON token for an unbounded value.
const unboundedJSON = "inf"

// Value is the result of a single ratio computation. The zero Value is
// undefined.
type Value struct {
	kind   Kind
	number float64
}

// Finite wraps an ordinary number. Positive infinity becomes Unbounded and
// NaN or negative infinity become Undefined, so IEEE specials never leak
// out of the engine.
func Finite(x float64) Value {
	switch {
	case math.IsNaN(x), math.IsInf(x, -1):
		return Undefined()
	case math.IsInf(x, 1):
		return Unbounded()
	}
	return Value{kind: KindFinite, number: x}
}

// Unbounded returns the positive-infinity sentinel.
func Unbounded() Value {
	return Value{kind: KindUnbounded}
}

// Undefined returns the RatioUndefined marker.
func Undefined() Value {
	return Value{}
}

// Kind reports the value's classification.
func (v Value) Kind() Kind { return v.kind }

// IsFinite reports whether the value holds an ordinary number.
func (v Value) IsFinite() bool { return v.kind == KindFinite }

// IsUnbounded reports whether the value is the positive-infinity sentinel.
func (v Value) IsUnbounded() bool { return v.kind == KindUnbounded }

// IsDefined reports whether the value is finite or unbounded.
func (v Value) IsDefined() bool { return v.kind != KindUndefined }

// Float returns the number and true for finite values. Unbounded values
// return +Inf and true; undefined values return 0 and false.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFinite:
		return v.number, true
	case KindUnbounded:
		return math.Inf(1), true
	default:
		return 0, false
	}
}

// AtLeast reports whether v >= threshold. Undefined values are never at
// least anything.
func (v Value) AtLeast(threshold float64) bool {
	switch v.kind {
	case KindUnbounded:
		return true
	case KindFinite:
		return v.number >= threshold
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindFinite:
		return strconv.FormatFloat(v.number, 'g', -1, 64)
	case KindUnbounded:
		return "∞"
	default:
		return "n/a"
	}
}

// MarshalJSON encodes finite values as numbers, unbounded as "inf" and
// undefined as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindFinite:
		return []byte(strconv.FormatFloat(v.number, 'g', -1, 64)), nil
	case KindUnbounded:
		return []byte(`"` + unboundedJSON + `"`), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON reverses MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*v = Undefined()
		return nil
	case len(trimmed) > 0 && trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		if s != unboundedJSON {
			return fmt.Errorf("invalid ratio value %q", s)
		}
		*v = Unbounded()
		return nil
	}
	var f float64
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return fmt.Errorf("invalid ratio value %s: %w", trimmed, err)
	}
	*v = Finite(f)
	return nil
}

// divide returns num/den, Undefined when either side is not finite or the
// denominator is zero.
func divide(num, den Value) Value {
	if !num.IsFinite() || !den.IsFinite() || den.number == 0 {
		return Undefined()
	}
	return Finite(num.number / den.number)
}

func subtract(a, b Value) Value {
	if !a.IsFinite() || !b.IsFinite() {
		return Undefined()
	}
	return Finite(a.number - b.number)
}

func add(a, b Value) Value {
	if !a.IsFinite() || !b.IsFinite() {
		return Undefined()
	}
	return Finite(a.number + b.number)
}

func scale(v Value, k float64) Value {
	if !v.IsFinite() {
		return v
	}
	return Finite(v.number * k)
}
