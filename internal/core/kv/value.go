package kv

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNil Kind = iota
	KindString
	KindInteger
	KindList
)

// String returns the type name reported by the TYPE command.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindInteger:
		return "Integer"
	case KindList:
		return "List"
	default:
		return "Nil"
	}
}

// Value is a tagged union of the storable types. The zero Value is Nil and is
// never stored.
type Value struct {
	kind Kind
	str  string
	num  int64
	list []string
}

// String returns a Value holding text.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Integer returns a Value holding a signed 64-bit integer.
func Integer(n int64) Value { return Value{kind: KindInteger, num: n} }

// List returns a Value holding a copy of items.
func List(items ...string) Value {
	return Value{kind: KindList, list: slices.Clone(nonNil(items))}
}

// Parse returns an Integer when s is a clean base-10 int64 and a String
// otherwise.
func Parse(s string) Value {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Integer(n)
	}
	return String(s)
}

func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsNil() bool     { return v.kind == KindNil }
func (v Value) Str() string     { return v.str }
func (v Value) Int() int64      { return v.num }
func (v Value) Items() []string { return slices.Clone(v.list) }

// Clone returns a Value that shares no memory with v.
func (v Value) Clone() Value {
	if v.kind == KindList {
		v.list = slices.Clone(nonNil(v.list))
	}
	return v
}

// Format renders the value as shown by GET, e.g. Integer(10), String("hi"),
// List(["b", "a"]) or Nil.
func (v Value) Format() string {
	switch v.kind {
	case KindString:
		return fmt.Sprintf("String(%q)", v.str)
	case KindInteger:
		return fmt.Sprintf("Integer(%d)", v.num)
	case KindList:
		return "List(" + FormatList(v.list) + ")"
	default:
		return "Nil"
	}
}

// FormatList renders items as ["a", "b"].
func FormatList(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = strconv.Quote(it)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

type jsonValue struct {
	Type    string   `json:"type"`
	String  *string  `json:"string,omitempty"`
	Integer *int64   `json:"integer,omitempty"`
	List    []string `json:"list,omitempty"`
}

// MarshalJSON encodes the value with an explicit type tag.
func (v Value) MarshalJSON() ([]byte, error) {
	out := jsonValue{Type: v.kind.String()}
	switch v.kind {
	case KindString:
		out.String = &v.str
	case KindInteger:
		out.Integer = &v.num
	case KindList:
		out.List = nonNil(v.list)
	}
	return json.Marshal(out)
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
