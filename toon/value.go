package toon

import (
	"fmt"
	"math"
)

// Value is one of Null, Bool, Int, Float, String, *Object or Array.
type Value interface {
	isValue()
}

type (
	Null   struct{}
	Bool   bool
	Int    int64
	Float  float64
	String string
	Array  []Value
)

func (Null) isValue()    {}
func (Bool) isValue()    {}
func (Int) isValue()     {}
func (Float) isValue()   {}
func (String) isValue()  {}
func (Array) isValue()   {}
func (*Object) isValue() {}

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is an ordered mapping of string keys to values.
type Object struct {
	members []Member
	index   map[string]int
}

// NewObject creates an object holding the given members in order. A repeated
// key replaces the earlier value but keeps its position.
func NewObject(members ...Member) *Object {
	o := &Object{}
	for _, m := range members {
		o.Set(m.Key, m.Value)
	}
	return o
}

// Set stores value under key and returns the object for chaining.
func (o *Object) Set(key string, value Value) *Object {
	if value == nil {
		value = Null{}
	}
	if i, ok := o.index[key]; ok {
		o.members[i].Value = value
		return o
	}
	if o.index == nil {
		o.index = make(map[string]int)
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: value})
	return o
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.members[i].Value, true
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Len returns the number of members.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.members)
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.members))
	for i, m := range o.members {
		keys[i] = m.Key
	}
	return keys
}

// Members returns the members in insertion order. The slice must not be modified.
func (o *Object) Members() []Member {
	if o == nil {
		return nil
	}
	return o.members
}

func (o *Object) String(key string) (string, error) {
	val, ok := o.Get(key)
	if !ok {
		return "", ErrMissingKey
	}
	if s, ok := val.(String); ok {
		return string(s), nil
	}
	return "", fmt.Errorf("key '%s' is %s, not a string", key, KindOf(val))
}

func (o *Object) StringOr(key, defaultValue string) string {
	if val, err := o.String(key); err == nil {
		return val
	}
	return defaultValue
}

func (o *Object) Int(key string) (int64, error) {
	val, ok := o.Get(key)
	if !ok {
		return 0, ErrMissingKey
	}
	switch v := val.(type) {
	case Int:
		return int64(v), nil
	case Float:
		if f := float64(v); f == math.Trunc(f) && !math.IsInf(f, 0) {
			return int64(f), nil
		}
	}
	return 0, fmt.Errorf("key '%s' is %s, not an integer", key, KindOf(val))
}

func (o *Object) IntOr(key string, defaultValue int64) int64 {
	if val, err := o.Int(key); err == nil {
		return val
	}
	return defaultValue
}

func (o *Object) Float(key string) (float64, error) {
	val, ok := o.Get(key)
	if !ok {
		return 0, ErrMissingKey
	}
	switch v := val.(type) {
	case Float:
		return float64(v), nil
	case Int:
		return float64(v), nil
	}
	return 0, fmt.Errorf("key '%s' is %s, not a number", key, KindOf(val))
}

func (o *Object) FloatOr(key string, defaultValue float64) float64 {
	if val, err := o.Float(key); err == nil {
		return val
	}
	return defaultValue
}

func (o *Object) Bool(key string) (bool, error) {
	val, ok := o.Get(key)
	if !ok {
		return false, ErrMissingKey
	}
	if b, ok := val.(Bool); ok {
		return bool(b), nil
	}
	return false, fmt.Errorf("key '%s' is %s, not a boolean", key, KindOf(val))
}

func (o *Object) BoolOr(key string, defaultValue bool) bool {
	if val, err := o.Bool(key); err == nil {
		return val
	}
	return defaultValue
}

// Object returns a nested object stored under key.
func (o *Object) Object(key string) (*Object, error) {
	val, ok := o.Get(key)
	if !ok {
		return nil, ErrMissingKey
	}
	if obj, ok := val.(*Object); ok && obj != nil {
		return obj, nil
	}
	return nil, fmt.Errorf("key '%s' is %s, not an object", key, KindOf(val))
}

// Array returns a nested array stored under key.
func (o *Object) Array(key string) (Array, error) {
	val, ok := o.Get(key)
	if !ok {
		return nil, ErrMissingKey
	}
	if arr, ok := val.(Array); ok {
		return arr, nil
	}
	return nil, fmt.Errorf("key '%s' is %s, not an array", key, KindOf(val))
}

// KindOf names the variant of v for use in messages.
func KindOf(v Value) string {
	switch v.(type) {
	case nil, Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case *Object:
		return "object"
	case Array:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Equal reports whether a and b hold the same data. Object member order is
// significant; a nil Array equals an empty one and a nil Value equals Null.
func Equal(a, b Value) bool {
	if a == nil {
		a = Null{}
	}
	if b == nil {
		b = Null{}
	}

	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool, Int, String:
		return a == b
	case Float:
		bv, ok := b.(Float)
		if !ok {
			return false
		}
		if math.IsNaN(float64(av)) && math.IsNaN(float64(bv)) {
			return true
		}
		return av == bv
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv, ok := b.(*Object)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		am, bm := av.Members(), bv.Members()
		for i := range am {
			if am[i].Key != bm[i].Key || !Equal(am[i].Value, bm[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}
