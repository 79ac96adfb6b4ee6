package schema

// Thunk defers construction of a value of type T until it's first needed. Object, interface, and
// input object types commonly reference one another cyclically (a User field returns a Post, a
// Post field returns its User), so their field maps can't always be built as plain struct
// literals. A Thunk lets the literal capture a closure instead, and the closure is only invoked
// once: the result is cached, and re-entrant calls (the closure accessing its own Thunk while it's
// still running) panic rather than deadlock or recurse forever.
type Thunk[T any] struct {
	fn       func() T
	value    T
	resolved bool
	resolving bool
}

// NewThunk returns a Thunk that calls fn the first time its value is needed.
func NewThunk[T any](fn func() T) *Thunk[T] {
	return &Thunk[T]{fn: fn}
}

// ValueThunk returns a Thunk that's already resolved to v, for callers that don't need laziness
// but still want to satisfy a field of type *Thunk[T].
func ValueThunk[T any](v T) *Thunk[T] {
	return &Thunk[T]{value: v, resolved: true}
}

// Fields wraps an already-built field map in a resolved Thunk, for object and interface types
// whose fields don't need to be deferred.
func Fields(m map[string]*FieldDefinition) *Thunk[map[string]*FieldDefinition] {
	return ValueThunk(m)
}

// FieldsThunk defers construction of a field map until it's first needed, for object and
// interface types that reference each other cyclically.
func FieldsThunk(fn func() map[string]*FieldDefinition) *Thunk[map[string]*FieldDefinition] {
	return NewThunk(fn)
}

// InputFields wraps an already-built input field map in a resolved Thunk.
func InputFields(m map[string]*InputValueDefinition) *Thunk[map[string]*InputValueDefinition] {
	return ValueThunk(m)
}

// InputFieldsThunk defers construction of an input field map until it's first needed.
func InputFieldsThunk(fn func() map[string]*InputValueDefinition) *Thunk[map[string]*InputValueDefinition] {
	return NewThunk(fn)
}

// Get returns the thunk's value, calling fn on the first invocation and caching the result for
// every subsequent one.
func (t *Thunk[T]) Get() T {
	if t == nil {
		var zero T
		return zero
	}
	if t.resolved {
		return t.value
	}
	if t.resolving {
		panic("schema: reentrant thunk evaluation")
	}
	t.resolving = true
	t.value = t.fn()
	t.resolving = false
	t.resolved = true
	t.fn = nil
	return t.value
}
