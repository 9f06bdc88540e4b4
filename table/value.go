package table

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json"
)

// Kind is the discriminant of a Value
type Kind uint8

const (
	KindUint Kind = iota
	KindInt
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a tagged union over {unsigned integer, signed integer, string}.
// Only the member selected by kind is set, so two values are equal with == iff
// they have the same kind and the same content. Value can be used as a map key.
type Value struct {
	kind Kind
	u    uint64
	i    int64
	s    string
}

func Uint(v uint64) Value {
	return Value{kind: KindUint, u: v}
}

func Int(v int64) Value {
	return Value{kind: KindInt, i: v}
}

func String(v string) Value {
	return Value{kind: KindString, s: v}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) AsUint() (uint64, bool) {
	return v.u, v.kind == KindUint
}

func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInt
}

func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

func (v Value) String() string {
	switch v.kind {
	case KindUint:
		return strconv.FormatUint(v.u, 10)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	}
	return v.s
}

// Compare orders by kind first and then by content. The zero Value (Uint(0))
// is the minimum of the whole domain.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		return cmp.Compare(a.kind, b.kind)
	}
	switch a.kind {
	case KindUint:
		return cmp.Compare(a.u, b.u)
	case KindInt:
		return cmp.Compare(a.i, b.i)
	}
	return strings.Compare(a.s, b.s)
}

type valueJSON struct {
	Uint   *uint64 `json:"uint,omitzero"`
	Int    *int64  `json:"int,omitzero"`
	String *string `json:"string,omitzero"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	j := valueJSON{}
	switch v.kind {
	case KindUint:
		j.Uint = &v.u
	case KindInt:
		j.Int = &v.i
	default:
		j.String = &v.s
	}
	return json.Marshal(j)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	j := valueJSON{}
	err := json.Unmarshal(data, &j)
	if err != nil {
		return fmt.Errorf("decode value: %w", err)
	}

	set := 0
	if j.Uint != nil {
		*v = Uint(*j.Uint)
		set++
	}
	if j.Int != nil {
		*v = Int(*j.Int)
		set++
	}
	if j.String != nil {
		*v = String(*j.String)
		set++
	}
	if set != 1 {
		return fmt.Errorf("value must have exactly one of 'uint', 'int' or 'string': %s", string(data))
	}

	return nil
}

// parseUint accepts only plain decimal digits consumed entirely: no sign, no
// spaces, no trailing garbage.
func parseUint(s string) (uint64, bool) {
	if s == "" || s[0] == '+' || s[0] == '-' {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseInt accepts an optional leading '-' followed by decimal digits.
func parseInt(s string) (int64, bool) {
	if s == "" || s[0] == '+' {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseKind is the inverse of Kind.String
func ParseKind(name string) (Kind, error) {
	for _, k := range []Kind{KindUint, KindInt, KindString} {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown kind '%s', it should be [uint|int|string]", name)
}

// ParseValue reads s as a value of kind k with the same rules used for match
// strings: the whole string must be a plain decimal number for numeric kinds.
func ParseValue(k Kind, s string) (Value, error) {
	switch k {
	case KindUint:
		if v, ok := parseUint(s); ok {
			return Uint(v), nil
		}
	case KindInt:
		if v, ok := parseInt(s); ok {
			return Int(v), nil
		}
	case KindString:
		return String(s), nil
	default:
		return Value{}, fmt.Errorf("unknown kind %s", k)
	}
	return Value{}, fmt.Errorf("'%s' is not a valid %s", s, k)
}
