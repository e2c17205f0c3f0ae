package jsontable

import (
	"math"
	"strconv"
)

// Kind identifies which variant of the JSON union a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// Value is a parsed JSON value. The zero Value is JSON null.
//
// Numbers keep their literal text so that integer and floating forms survive
// decoding unchanged; inference decides later which one a literal is.
type Value struct {
	kind  Kind
	text  string // string payload, number literal, or "true"/"false"
	elems []Value
	obj   *Object
}

// Null returns the JSON null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value {
	return Value{kind: KindBool, text: strconv.FormatBool(b)}
}

// Int wraps an integer number.
func Int(n int64) Value {
	return Value{kind: KindNumber, text: strconv.FormatInt(n, 10)}
}

// Float wraps a floating point number. NaN and infinities are kept and later
// rejected by InferType, since JSON cannot carry them.
func Float(f float64) Value {
	switch {
	case math.IsNaN(f):
		return Value{kind: KindNumber, text: "NaN"}
	case math.IsInf(f, 1):
		return Value{kind: KindNumber, text: "+Inf"}
	case math.IsInf(f, -1):
		return Value{kind: KindNumber, text: "-Inf"}
	}
	text := strconv.FormatFloat(f, 'g', -1, 64)
	if _, err := strconv.ParseInt(text, 10, 64); err == nil {
		// keep a float literal a float, 2.0 must not turn into 2
		text += ".0"
	}
	return Value{kind: KindNumber, text: text}
}

// Number wraps a number literal as read from the wire.
func Number(literal string) Value {
	return Value{kind: KindNumber, text: literal}
}

// String wraps a string.
func String(s string) Value {
	return Value{kind: KindString, text: s}
}

// Array wraps a sequence of values.
func Array(elems ...Value) Value {
	dup := make([]Value, len(elems))
	copy(dup, elems)
	return Value{kind: KindArray, elems: dup}
}

// ObjectValue wraps an object. A nil object becomes an empty one.
func ObjectValue(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, obj: o}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is JSON null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsPrimitive reports whether v is a string, number, boolean or null.
func (v Value) IsPrimitive() bool {
	return v.kind != KindArray && v.kind != KindObject
}

// Content returns the textual content of a primitive: the string itself, the
// number literal, "true"/"false", or "null". Arrays and objects return "".
func (v Value) Content() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindArray, KindObject:
		return ""
	default:
		return v.text
	}
}

// Elements returns a copy of the elements of an array value.
func (v Value) Elements() []Value {
	if v.kind != KindArray {
		return nil
	}
	dup := make([]Value, len(v.elems))
	copy(dup, v.elems)
	return dup
}

// Object returns the object held by v, or nil when v is not an object.
func (v Value) Object() *Object {
	if v.kind != KindObject {
		return nil
	}
	return v.obj
}

// Field is one key/value pair used to build an Object.
type Field struct {
	Key   string
	Value Value
}

// Object is an ordered JSON object with unique keys. Objects are built once
// and treated as immutable afterwards.
type Object struct {
	keys   []string
	values map[string]Value
}

// NewObject builds an object from fields in order. A repeated key keeps the
// position of its first occurrence and the value of its last one.
func NewObject(fields ...Field) *Object {
	o := &Object{values: make(map[string]Value, len(fields))}
	for _, f := range fields {
		o.set(f.Key, f.Value)
	}
	return o
}

func (o *Object) set(key string, v Value) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	dup := make([]string, len(o.keys))
	copy(dup, o.keys)
	return dup
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Range calls fn for every field in insertion order until fn returns false.
func (o *Object) Range(fn func(key string, v Value) bool) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		if !fn(k, o.values[k]) {
			return
		}
	}
}
