package table

import (
	"testing"

	"github.com/fulldump/biff"
	"github.com/go-json-experiment/json"
)

func TestValue_Compare(t *testing.T) {

	biff.AssertEqual(Compare(Uint(1), Uint(2)), -1)
	biff.AssertEqual(Compare(Int(-1), Int(-1)), 0)
	biff.AssertEqual(Compare(String("b"), String("a")), 1)

	// kind first
	biff.AssertEqual(Compare(Uint(100), Int(-100)), -1)
	biff.AssertEqual(Compare(Int(100), String("")), -1)
	biff.AssertEqual(Compare(Value{}, Uint(0)), 0)

	biff.AssertTrue(Int(5) == Int(5))
	biff.AssertFalse(Int(5) == Uint(5))
}

func TestValue_JSON(t *testing.T) {

	biff.Alternative("Encode", func(a *biff.A) {
		data, err := json.Marshal(map[string]Value{
			"a": Uint(7),
			"b": Int(-7),
			"c": String("seven"),
		}, json.Deterministic(true))
		biff.AssertNil(err)
		biff.AssertEqual(string(data), `{"a":{"uint":7},"b":{"int":-7},"c":{"string":"seven"}}`)
	})

	biff.Alternative("Decode", func(a *biff.A) {
		r := DynamicRecord{}
		err := json.Unmarshal([]byte(`{"id":3,"fields":{"n":{"int":-2},"s":{"string":""}}}`), &r)
		biff.AssertNil(err)
		biff.AssertEqual(r.ID, uint64(3))
		biff.AssertEqual(r.Fields["n"], Int(-2))
		biff.AssertEqual(r.Fields["s"], String(""))
	})

	biff.Alternative("Ambiguous", func(a *biff.A) {
		v := Value{}
		biff.AssertNotNil(json.Unmarshal([]byte(`{"int":1,"uint":1}`), &v))
		biff.AssertNotNil(json.Unmarshal([]byte(`{}`), &v))
		biff.AssertNotNil(json.Unmarshal([]byte(`"x"`), &v))
	})
}

func TestParseNumbers(t *testing.T) {

	u, ok := parseUint("42")
	biff.AssertTrue(ok)
	biff.AssertEqual(u, uint64(42))

	for _, s := range []string{"", "-1", "+1", "4 2", "42abc", "0x10"} {
		_, ok := parseUint(s)
		biff.AssertFalse(ok)
	}

	i, ok := parseInt("-42")
	biff.AssertTrue(ok)
	biff.AssertEqual(i, int64(-42))

	for _, s := range []string{"", "+1", "-", "1.5", "9223372036854775808"} {
		_, ok := parseInt(s)
		biff.AssertFalse(ok)
	}
}

func TestParseValue(t *testing.T) {

	k, err := ParseKind("int")
	biff.AssertNil(err)
	biff.AssertEqual(k, KindInt)

	_, err = ParseKind("float")
	biff.AssertNotNil(err)

	v, err := ParseValue(KindInt, "-4")
	biff.AssertNil(err)
	biff.AssertEqual(v, Int(-4))

	v, err = ParseValue(KindString, "")
	biff.AssertNil(err)
	biff.AssertEqual(v, String(""))

	_, err = ParseValue(KindUint, "-4")
	biff.AssertNotNil(err)
}
