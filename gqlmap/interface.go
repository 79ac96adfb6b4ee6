package gqlmap

// ToInterface converts v into the loosely-typed representation
// (nil, bool, int64, float64, string, []interface{}, map[string]interface{}) that the
// schema and validator packages use internally for coerced values. Undefined converts to a
// missing map entry when used as an object field value; at the top level or inside a list it
// converts to nil, same as Null, since interface{} has no separate "absent" state.
func ToInterface(v Value) interface{} {
	switch v.kind {
	case Undefined, Null:
		return nil
	case Boolean:
		b, _ := v.Boolean()
		return b
	case Int:
		i, _ := v.Int()
		return i
	case Float:
		f, _ := v.Float()
		return f
	case String:
		s, _ := v.String()
		return s
	case List:
		items, _ := v.List()
		out := make([]interface{}, len(items))
		for i, item := range items {
			out[i] = ToInterface(item)
		}
		return out
	case Object:
		obj, _ := v.Object()
		out := make(map[string]interface{}, obj.Len())
		for _, k := range obj.Keys() {
			fv, _ := obj.Get(k)
			if fv.IsUndefined() {
				continue
			}
			out[k] = ToInterface(fv)
		}
		return out
	default:
		return nil
	}
}

// FromInterface converts a loosely-typed internal value back into a Value. A Go int, int32,
// or int64 becomes Int; float32/float64 becomes Float. Map entries are visited in an
// unspecified order since map[string]interface{} carries none; callers that need a specific
// response-key order (e.g. the executor) build the Object directly instead of going through
// FromInterface.
func FromInterface(raw interface{}) Value {
	switch x := raw.(type) {
	case nil:
		return NewNull()
	case bool:
		return NewBoolean(x)
	case int:
		return NewInt(int64(x))
	case int32:
		return NewInt(int64(x))
	case int64:
		return NewInt(x)
	case float32:
		return NewFloat(float64(x))
	case float64:
		return NewFloat(x)
	case string:
		return NewString(x)
	case []interface{}:
		items := make([]Value, len(x))
		for i, e := range x {
			items[i] = FromInterface(e)
		}
		return NewList(items)
	case map[string]interface{}:
		o := NewObject()
		for k, e := range x {
			o.Set(k, FromInterface(e))
		}
		return NewObject(o)
	default:
		return NewNull()
	}
}
