// Package prop implements the tagged-sum property values attached to every
// node and edge, and the string-keyed map that holds them.
package prop

// Kind tags which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindStringList
	KindIntList
)

// Value is a type-safe property value: exactly one of the typed fields is
// meaningful, selected by Kind. There is no implicit coercion between
// kinds; a getter asked for the wrong kind reports absence, not a
// converted value.
type Value struct {
	kind       Kind
	str        string
	num        int64
	float      float64
	boolean    bool
	strList    []string
	intList    []int64
}

// Null is the explicit absence-of-value variant.
func Null() Value { return Value{kind: KindNull} }

func StringValue(s string) Value { return Value{kind: KindString, str: s} }

func IntValue(i int64) Value { return Value{kind: KindInt, num: i} }

func FloatValue(f float64) Value { return Value{kind: KindFloat, float: f} }

func BoolValue(b bool) Value { return Value{kind: KindBool, boolean: b} }

func StringListValue(list []string) Value {
	cp := make([]string, len(list))
	copy(cp, list)
	return Value{kind: KindStringList, strList: cp}
}

func IntListValue(list []int64) Value {
	cp := make([]int64, len(list))
	copy(cp, list)
	return Value{kind: KindIntList, intList: cp}
}

// Kind reports which variant this value holds.
func (v Value) Kind() Kind { return v.kind }

// clone returns v with its own copy of any backing slice, so a Map.Clone
// doesn't leave the clone's list values aliasing the original's.
func (v Value) clone() Value {
	switch v.kind {
	case KindStringList:
		cp := make([]string, len(v.strList))
		copy(cp, v.strList)
		v.strList = cp
	case KindIntList:
		cp := make([]int64, len(v.intList))
		copy(cp, v.intList)
		v.intList = cp
	}
	return v
}

// AsString returns the string and true if v holds a String.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsInt returns the int and true if v holds an Int.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.num, true
}

// AsFloat returns the float and true if v holds a Float.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.float, true
}

// AsBool returns the bool and true if v holds a Bool.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.boolean, true
}

// AsStringList returns the string list and true if v holds a StringList.
func (v Value) AsStringList() ([]string, bool) {
	if v.kind != KindStringList {
		return nil, false
	}
	return v.strList, true
}

// AsIntList returns the int list and true if v holds an IntList.
func (v Value) AsIntList() ([]int64, bool) {
	if v.kind != KindIntList {
		return nil, false
	}
	return v.intList, true
}

// Equal reports whether two values hold the same kind and content. Used by
// the query builder's exact-match property filter (spec §4.4: "no implicit
// coercion").
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == other.str
	case KindInt:
		return v.num == other.num
	case KindFloat:
		return v.float == other.float
	case KindBool:
		return v.boolean == other.boolean
	case KindStringList:
		if len(v.strList) != len(other.strList) {
			return false
		}
		for i := range v.strList {
			if v.strList[i] != other.strList[i] {
				return false
			}
		}
		return true
	case KindIntList:
		if len(v.intList) != len(other.intList) {
			return false
		}
		for i := range v.intList {
			if v.intList[i] != other.intList[i] {
				return false
			}
		}
		return true
	}
	return false
}

// jsonValue is the on-the-wire shape for a Value: a discriminant plus
// exactly one populated field, matching the PropertyValue tagged encoding
// from §6.2.
type jsonValue struct {
	Kind    string   `json:"kind"`
	Str     string   `json:"str,omitempty"`
	Int     int64    `json:"int,omitempty"`
	Float   float64  `json:"float,omitempty"`
	Bool    bool     `json:"bool,omitempty"`
	StrList []string `json:"str_list,omitempty"`
	IntList []int64  `json:"int_list,omitempty"`
}

func kindName(k Kind) string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindStringList:
		return "string_list"
	case KindIntList:
		return "int_list"
	default:
		return "null"
	}
}

func kindFromName(name string) Kind {
	switch name {
	case "string":
		return KindString
	case "int":
		return KindInt
	case "float":
		return KindFloat
	case "bool":
		return KindBool
	case "string_list":
		return KindStringList
	case "int_list":
		return KindIntList
	default:
		return KindNull
	}
}

func (v Value) toJSON() jsonValue {
	return jsonValue{
		Kind:    kindName(v.kind),
		Str:     v.str,
		Int:     v.num,
		Float:   v.float,
		Bool:    v.boolean,
		StrList: v.strList,
		IntList: v.intList,
	}
}

func fromJSON(j jsonValue) Value {
	k := kindFromName(j.Kind)
	return Value{
		kind:    k,
		str:     j.Str,
		num:     j.Int,
		float:   j.Float,
		boolean: j.Bool,
		strList: j.StrList,
		intList: j.IntList,
	}
}
