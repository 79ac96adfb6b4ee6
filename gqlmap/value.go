// Package gqlmap implements the tagged, order-preserving value type used at the JSON
// boundary for GraphQL variables and results: the "Map" described by the GraphQL spec's
// data model, distinguishing null from undefined.
package gqlmap

// Kind identifies which alternative of the tagged union a Value holds.
type Kind int

const (
	Undefined Kind = iota
	Null
	Boolean
	Int
	Float
	String
	List
	Object
)

// Value is a GraphQL "Map": null, undefined, bool, int, float, string, an ordered list of
// Values, or an order-preserving Object of Values. The zero Value is Undefined.
type Value struct {
	kind    Kind
	boolean bool
	integer int64
	float   float64
	str     string
	list    []Value
	object  *Object
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsUndefined() bool { return v.kind == Undefined }
func (v Value) IsNull() bool      { return v.kind == Null }

func NewNull() Value { return Value{kind: Null} }

func NewBoolean(b bool) Value { return Value{kind: Boolean, boolean: b} }

func NewInt(i int64) Value { return Value{kind: Int, integer: i} }

func NewFloat(f float64) Value { return Value{kind: Float, float: f} }

func NewString(s string) Value { return Value{kind: String, str: s} }

func NewList(items []Value) Value { return Value{kind: List, list: items} }

func NewObject(o *Object) Value { return Value{kind: Object, object: o} }

func (v Value) Boolean() (bool, bool) {
	if v.kind != Boolean {
		return false, false
	}
	return v.boolean, true
}

func (v Value) Int() (int64, bool) {
	if v.kind != Int {
		return 0, false
	}
	return v.integer, true
}

func (v Value) Float() (float64, bool) {
	if v.kind != Float {
		return 0, false
	}
	return v.float, true
}

func (v Value) String() (string, bool) {
	if v.kind != String {
		return "", false
	}
	return v.str, true
}

func (v Value) List() ([]Value, bool) {
	if v.kind != List {
		return nil, false
	}
	return v.list, true
}

func (v Value) Object() (*Object, bool) {
	if v.kind != Object {
		return nil, false
	}
	return v.object, true
}

// Equal reports structural equality. Undefined object fields are not distinguished from
// absent ones for the purposes of this comparison.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Undefined, Null:
		return true
	case Boolean:
		return a.boolean == b.boolean
	case Int:
		return a.integer == b.integer
	case Float:
		return a.float == b.float
	case String:
		return a.str == b.str
	case List:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !Equal(a.list[i], b.list[i]) {
				return false
			}
		}
		return true
	case Object:
		defined := 0
		for _, k := range a.object.Keys() {
			av, _ := a.object.Get(k)
			if av.IsUndefined() {
				continue
			}
			defined++
			bv, ok := b.object.Get(k)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		for _, k := range b.object.Keys() {
			if bv, _ := b.object.Get(k); !bv.IsUndefined() {
				defined--
			}
		}
		return defined == 0
	default:
		return false
	}
}
