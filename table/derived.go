package table

import (
	"fmt"
	"math"
	"strings"
)

// Builtin derived column kinds, addressable by name from outside Go code
const (
	DerivedKindConcat = "concat"
	DerivedKindSum    = "sum"
	DerivedKindLength = "length"
)

// DerivedConcat joins the textual form of the given columns. Missing fields
// contribute nothing.
func DerivedConcat(columns ...string) DerivedFunc {
	return func(r DynamicRecord) Value {
		sb := strings.Builder{}
		for _, column := range columns {
			v, ok := r.Fields[column]
			if !ok {
				continue
			}
			sb.WriteString(v.String())
		}
		return String(sb.String())
	}
}

// DerivedSum adds the numeric columns as a signed integer. Strings and missing
// fields count as zero. The sum saturates at the int64 bounds instead of
// wrapping.
func DerivedSum(columns ...string) DerivedFunc {
	return func(r DynamicRecord) Value {
		var sum int64
		for _, column := range columns {
			v := r.Fields[column]
			switch v.Kind() {
			case KindUint:
				u, _ := v.AsUint()
				if u > math.MaxInt64 {
					u = math.MaxInt64
				}
				sum = saturatingAdd(sum, int64(u))
			case KindInt:
				i, _ := v.AsInt()
				sum = saturatingAdd(sum, i)
			}
		}
		return Int(sum)
	}
}

func saturatingAdd(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	if b < 0 && a < math.MinInt64-b {
		return math.MinInt64
	}
	return a + b
}

// DerivedLength is the length in bytes of the textual form of column
func DerivedLength(column string) DerivedFunc {
	return func(r DynamicRecord) Value {
		v, ok := r.Fields[column]
		if !ok {
			return Uint(0)
		}
		return Uint(uint64(len(v.String())))
	}
}

// BuildDerived returns the builtin derived function kind over columns
func BuildDerived(kind string, columns []string) (DerivedFunc, error) {
	switch kind {
	case DerivedKindConcat:
		return DerivedConcat(columns...), nil
	case DerivedKindSum:
		return DerivedSum(columns...), nil
	case DerivedKindLength:
		if len(columns) != 1 {
			return nil, fmt.Errorf("derived '%s' needs exactly one column, got %d", kind, len(columns))
		}
		return DerivedLength(columns[0]), nil
	}
	return nil, fmt.Errorf("unknown derived kind '%s', it should be [concat|sum|length]", kind)
}
