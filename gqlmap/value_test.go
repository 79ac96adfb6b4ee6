package gqlmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObject_PreservesInsertionOrder(t *testing.T) {
	o := NewObject()
	o.Set("foo", NewString("bar"))
	o.Set("foo2", NewString("bar2"))
	assert.Equal(t, 2, o.Len())
	assert.Equal(t, []string{"foo", "foo2"}, o.Keys())

	buf, err := Marshal(NewObject(o))
	require.NoError(t, err)
	assert.Equal(t, `{"foo":"bar","foo2":"bar2"}`, string(buf))
}

func TestMarshal_OmitsUndefinedObjectFields(t *testing.T) {
	o := NewObject()
	o.Set("present", NewInt(1))
	o.Set("absent", Value{})
	buf, err := Marshal(NewObject(o))
	require.NoError(t, err)
	assert.Equal(t, `{"present":1}`, string(buf))
}

func TestMarshal_NullVsUndefinedAtTopLevel(t *testing.T) {
	buf, err := Marshal(NewNull())
	require.NoError(t, err)
	assert.Equal(t, `null`, string(buf))

	buf, err = Marshal(Value{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(buf))
}

func TestRoundTrip(t *testing.T) {
	o := NewObject()
	o.Set("a", NewInt(42))
	o.Set("b", NewFloat(1.5))
	o.Set("c", NewString("hi"))
	o.Set("d", NewBoolean(true))
	o.Set("e", NewNull())
	o.Set("f", NewList([]Value{NewInt(1), NewInt(2)}))
	original := NewObject(o)

	buf, err := Marshal(original)
	require.NoError(t, err)

	decoded, err := Unmarshal(buf)
	require.NoError(t, err)

	assert.True(t, Equal(original, decoded))
}

func TestToInterfaceAndBack(t *testing.T) {
	o := NewObject()
	o.Set("name", NewString("Luke"))
	o.Set("age", NewInt(19))
	v := NewObject(o)

	raw := ToInterface(v)
	m, ok := raw.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Luke", m["name"])
	assert.Equal(t, int64(19), m["age"])

	back := FromInterface(raw)
	assert.True(t, Equal(v, back))
}

func TestUndefinedIsDistinctFromNull(t *testing.T) {
	var u Value
	assert.True(t, u.IsUndefined())
	assert.False(t, u.IsNull())

	n := NewNull()
	assert.False(t, n.IsUndefined())
	assert.True(t, n.IsNull())
}
