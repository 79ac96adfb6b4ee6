package gqlmap

import (
	"encoding/json"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigFastest

// MarshalJSON encodes v as JSON. Undefined object fields are omitted entirely; Undefined at
// the top level (or inside a list) encodes as null, since JSON has no "absent" value there.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case Undefined, Null:
		return []byte("null"), nil
	case Boolean:
		return jsonAPI.Marshal(v.boolean)
	case Int:
		return jsonAPI.Marshal(v.integer)
	case Float:
		return jsonAPI.Marshal(v.float)
	case String:
		return jsonAPI.Marshal(v.str)
	case List:
		buf := []byte{'['}
		for i, item := range v.list {
			if i > 0 {
				buf = append(buf, ',')
			}
			b, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf = append(buf, b...)
		}
		return append(buf, ']'), nil
	case Object:
		buf := []byte{'{'}
		first := true
		for _, k := range v.object.Keys() {
			fv, _ := v.object.Get(k)
			if fv.IsUndefined() {
				continue
			}
			if !first {
				buf = append(buf, ',')
			}
			first = false
			kb, err := jsonAPI.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf = append(buf, kb...)
			buf = append(buf, ':')
			vb, err := fv.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf = append(buf, vb...)
		}
		return append(buf, '}'), nil
	default:
		return nil, fmt.Errorf("gqlmap: unknown value kind %d", v.kind)
	}
}

// UnmarshalJSON decodes JSON into v. JSON null becomes Null; a JSON number whose value is a
// whole number (e.g. 2, 2.0 or 2e3) becomes Int, otherwise Float.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := jsonAPI.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = FromJSONInterface(raw)
	return nil
}

// FromJSONInterface converts a value produced by encoding/json or jsoniter's generic
// interface{} decoding (nil, bool, float64/json.Number, string, []interface{},
// map[string]interface{}) into a Value.
func FromJSONInterface(raw interface{}) Value {
	switch x := raw.(type) {
	case nil:
		return NewNull()
	case bool:
		return NewBoolean(x)
	case float64:
		if float64(int64(x)) == x {
			return NewInt(int64(x))
		}
		return NewFloat(x)
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return FromJSONInterface(f)
		}
		return NewNull()
	case string:
		return NewString(x)
	case []interface{}:
		items := make([]Value, len(x))
		for i, e := range x {
			items[i] = FromJSONInterface(e)
		}
		return NewList(items)
	case map[string]interface{}:
		o := NewObject()
		for k, e := range x {
			o.Set(k, FromJSONInterface(e))
		}
		return NewObject(o)
	default:
		return NewNull()
	}
}

// Unmarshal decodes JSON document data into a Value, using json-iterator's fastest config
// (the teacher's choice for result/variable encoding).
func Unmarshal(data []byte) (Value, error) {
	var v Value
	err := v.UnmarshalJSON(data)
	return v, err
}

// Marshal encodes v as JSON.
func Marshal(v Value) ([]byte, error) {
	return v.MarshalJSON()
}
