package extract

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kind is the scalar type carried by a Value.
type Kind int

const (
	KindInt Kind = iota + 1
	KindReal
	KindEnum
)

// Value is a typed parameter value. The zero Value is invalid; a present
// zero reading is IntValue(0).
type Value struct {
	kind Kind
	i    int
	f    float64
	s    string
}

// IntValue wraps an integer reading.
func IntValue(n int) Value { return Value{kind: KindInt, i: n, f: float64(n)} }

// RealValue wraps a real-valued reading.
func RealValue(f float64) Value { return Value{kind: KindReal, i: int(f), f: f} }

// EnumValue wraps an enumerated value such as a growth stage.
func EnumValue(s string) Value { return Value{kind: KindEnum, s: s} }

func (v Value) Kind() Kind { return v.kind }

// Valid reports whether the value was set.
func (v Value) Valid() bool { return v.kind != 0 }

func (v Value) Int() int { return v.i }

func (v Value) Real() float64 { return v.f }

func (v Value) Text() string { return v.s }

// String renders the value the way it is echoed back to the farmer: integers
// plainly, reals with at least one decimal place.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.Itoa(v.i)
	case KindReal:
		s := strconv.FormatFloat(v.f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	case KindEnum:
		return v.s
	default:
		return ""
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindInt:
		return json.Marshal(v.i)
	case KindReal:
		return json.Marshal(v.f)
	case KindEnum:
		return json.Marshal(v.s)
	default:
		return []byte("null"), nil
	}
}

// Params maps parameter names to extracted values. A key is present only when
// a value was extracted or supplied.
type Params map[Name]Value

// Has reports whether name has a value.
func (p Params) Has(name Name) bool {
	v, ok := p[name]
	return ok && v.Valid()
}

// Int returns the integer value of name, or def when absent.
func (p Params) Int(name Name, def int) int {
	if v, ok := p[name]; ok && v.Valid() {
		return v.Int()
	}
	return def
}

// Real returns the real value of name, or def when absent.
func (p Params) Real(name Name, def float64) float64 {
	if v, ok := p[name]; ok && v.Valid() {
		return v.Real()
	}
	return def
}

// Text returns the enumerated value of name, or def when absent.
func (p Params) Text(name Name, def string) string {
	if v, ok := p[name]; ok && v.Kind() == KindEnum {
		return v.Text()
	}
	return def
}

// Merge copies values from other whose keys are not yet present.
func (p Params) Merge(other Params) {
	for k, v := range other {
		if !p.Has(k) && v.Valid() {
			p[k] = v
		}
	}
}

// Missing returns the names in required that have no value, preserving order.
func (p Params) Missing(required []Name) []Name {
	var missing []Name
	for _, name := range required {
		if !p.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Clone returns an independent copy.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
