package folio

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind identifies what a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Object is a structured value whose properties templates can reach with a
// dotted path, like it.Author.Name. Host types that want to be used in
// templates implement Object instead of being inspected through reflection.
type Object interface {
	// Property returns the named property, and false if there's no
	// such property.
	Property(name string) (Value, bool)

	// Keys lists the property names in a stable order.
	Keys() []string
}

// Map is the default Object implementation.
type Map map[string]Value

var _ Object = Map{}

// Property returns the value stored under name.
func (m Map) Property(name string) (Value, bool) {
	v, ok := m[name]
	return v, ok
}

// Keys returns the map's keys, sorted.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Args is a bag of arguments supplied by the host, converted into Values
// with FromAny when a render starts.
type Args map[string]any

// Value is a dynamically typed template value. The zero Value is Null.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	arr  []Value
	obj  Object
}

// Null is the value of anything that couldn't be resolved.
var Null = Value{}

// FromString returns a string Value.
func FromString(s string) Value {
	return Value{kind: KindString, str: s}
}

// FromNumber returns a number Value.
func FromNumber(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// FromBool returns a boolean Value.
func FromBool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// FromSlice returns an array Value holding items.
func FromSlice(items ...Value) Value {
	return Value{kind: KindArray, arr: items}
}

// FromObject returns an object Value. A nil Object is Null. An Object whose
// methods panic, like a nil pointer to a host type, behaves as an object with
// no properties.
func FromObject(obj Object) Value {
	if obj == nil {
		return Null
	}
	return Value{kind: KindObject, obj: obj}
}

// FromAny converts a Go value into a Value. Strings, booleans, every numeric
// type, Values, Objects, and the common slice and map shapes produced by
// decoders are converted structurally; anything else becomes its fmt string
// form.
func FromAny(v any) Value {
	switch v := v.(type) {
	case nil:
		return Null
	case Value:
		return v
	case Object:
		return FromObject(v)
	case string:
		return FromString(v)
	case bool:
		return FromBool(v)
	case int:
		return FromNumber(float64(v))
	case int8:
		return FromNumber(float64(v))
	case int16:
		return FromNumber(float64(v))
	case int32:
		return FromNumber(float64(v))
	case int64:
		return FromNumber(float64(v))
	case uint:
		return FromNumber(float64(v))
	case uint8:
		return FromNumber(float64(v))
	case uint16:
		return FromNumber(float64(v))
	case uint32:
		return FromNumber(float64(v))
	case uint64:
		return FromNumber(float64(v))
	case float32:
		return FromNumber(float64(v))
	case float64:
		return FromNumber(v)
	case []Value:
		return FromSlice(v...)
	case []any:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = FromAny(item)
		}
		return FromSlice(items...)
	case []string:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = FromString(item)
		}
		return FromSlice(items...)
	case []int:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = FromNumber(float64(item))
		}
		return FromSlice(items...)
	case []float64:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = FromNumber(item)
		}
		return FromSlice(items...)
	case []Object:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = FromObject(item)
		}
		return FromSlice(items...)
	case []Map:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = FromObject(item)
		}
		return FromSlice(items...)
	case []Args:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = FromObject(argsMap(item))
		}
		return FromSlice(items...)
	case []map[string]string:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = FromAny(item)
		}
		return FromSlice(items...)
	case []map[string]any:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = FromAny(item)
		}
		return FromSlice(items...)
	case map[string]Value:
		return FromObject(Map(v))
	case map[string]any:
		return FromObject(argsMap(v))
	case Args:
		return FromObject(argsMap(v))
	case map[string]string:
		m := make(Map, len(v))
		for key, item := range v {
			m[key] = FromString(item)
		}
		return FromObject(m)
	case fmt.Stringer:
		return FromString(v.String())
	default:
		return FromString(fmt.Sprint(v))
	}
}

func argsMap(args map[string]any) Map {
	m := make(Map, len(args))
	for key, item := range args {
		m[key] = FromAny(item)
	}
	return m
}

// Kind reports what the Value holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the Value is Null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the string held by a string Value.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsNumber returns the number held by a number Value.
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// AsBool returns the boolean held by a bool Value.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsSlice returns the items of an array Value. The returned slice must not
// be modified.
func (v Value) AsSlice() ([]Value, bool) {
	return v.arr, v.kind == KindArray
}

// AsObject returns the Object held by an object Value.
func (v Value) AsObject() (Object, bool) {
	return v.obj, v.kind == KindObject
}

// lookup calls obj.Property, treating a panic as a missing property. A nil
// pointer to a host type still satisfies Object, and its methods usually
// panic when called; templates see it as an object with no properties.
func lookup(obj Object, name string) (v Value, ok bool) {
	defer func() {
		if recover() != nil {
			v, ok = Null, false
		}
	}()
	return obj.Property(name)
}

// objectKeys is Keys for an object Value, with the same panic handling as
// lookup.
func (v Value) objectKeys() (keys []string) {
	if v.kind != KindObject {
		return nil
	}
	defer func() {
		if recover() != nil {
			keys = nil
		}
	}()
	return v.obj.Keys()
}

// Property walks a dotted path one segment at a time. Object segments use
// Object.Property, integer segments index arrays, and "length" gives the size
// of arrays and strings. Anything that can't be followed yields Null.
func (v Value) Property(path ...string) Value {
	cur := v
	for _, seg := range path {
		switch cur.kind {
		case KindObject:
			next, ok := lookup(cur.obj, seg)
			if !ok {
				return Null
			}
			cur = next
		case KindArray:
			if seg == "length" {
				cur = FromNumber(float64(len(cur.arr)))
				continue
			}
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(cur.arr) {
				return Null
			}
			cur = cur.arr[idx]
		case KindString:
			if seg != "length" {
				return Null
			}
			cur = FromNumber(float64(utf8.RuneCountInString(cur.str)))
		default:
			return Null
		}
	}
	return cur
}

// String returns the text a Value renders as: nothing for Null, numbers
// without trailing zeroes, arrays as comma-separated items, and objects as
// JSON.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindArray:
		parts := make([]string, len(v.arr))
		for i, item := range v.arr {
			parts[i] = item.String()
		}
		return strings.Join(parts, ",")
	case KindObject:
		out, err := json.Marshal(v.Native())
		if err != nil {
			return ""
		}
		return string(out)
	default:
		return ""
	}
}

// Native converts the Value back into plain Go values: nil, string, float64,
// bool, []any, and map[string]any.
func (v Value) Native() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindArray:
		items := make([]any, len(v.arr))
		for i, item := range v.arr {
			items[i] = item.Native()
		}
		return items
	case KindObject:
		keys := v.objectKeys()
		m := make(map[string]any, len(keys))
		for _, key := range keys {
			item, _ := lookup(v.obj, key)
			m[key] = item.Native()
		}
		return m
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Native())
}
