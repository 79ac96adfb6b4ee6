package ast

// VisitAction controls how Visit proceeds after an Enter or Leave callback.
type VisitAction int

const (
	// Continue descends into the node's children as usual.
	Continue VisitAction = iota
	// Skip does not descend into this node's children (Enter only; ignored on Leave).
	Skip
	// Break aborts the remainder of the traversal immediately.
	Break
)

// VisitResult is returned by a Visitor's Enter/Leave functions.
type VisitResult struct {
	Action VisitAction

	// Replacement, if non-nil, replaces this node in its parent's slot. Applied on exit, so
	// the node's children (as last seen) have already been visited. The original tree is
	// never mutated; Visit returns a new root if any replacement occurred.
	Replacement Node

	// Remove deletes this node from its parent collection. Only meaningful for nodes that
	// live in a slice (selections, arguments, directives, etc).
	Remove bool
}

// ContinueVisit is the zero-effort result: keep walking normally.
func ContinueVisit() VisitResult { return VisitResult{Action: Continue} }

// SkipVisit skips this node's children.
func SkipVisit() VisitResult { return VisitResult{Action: Skip} }

// BreakVisit aborts the entire traversal.
func BreakVisit() VisitResult { return VisitResult{Action: Break} }

// ReplaceVisit swaps this node for replacement in its parent.
func ReplaceVisit(replacement Node) VisitResult {
	return VisitResult{Action: Continue, Replacement: replacement}
}

// RemoveVisit deletes this node from its parent collection.
func RemoveVisit() VisitResult {
	return VisitResult{Action: Continue, Remove: true}
}

// VisitFunc is called when entering or leaving a node during a Visit. key identifies the
// node's position within its parent (a field name, or an int index within a slice field).
// path is the sequence of keys from the root to this node; ancestors is the sequence of
// nodes from the root to (but not including) this node.
type VisitFunc func(node Node, key interface{}, parent Node, path []interface{}, ancestors []Node) VisitResult

// Visitor holds the callbacks for a single traversal. Either may be nil, in which case it
// behaves as ContinueVisit.
type Visitor struct {
	Enter VisitFunc
	Leave VisitFunc
}

func (v *Visitor) enter(node Node, key interface{}, parent Node, path []interface{}, ancestors []Node) VisitResult {
	if v.Enter == nil {
		return ContinueVisit()
	}
	return v.Enter(node, key, parent, path, ancestors)
}

func (v *Visitor) leave(node Node, key interface{}, parent Node, path []interface{}, ancestors []Node) VisitResult {
	if v.Leave == nil {
		return ContinueVisit()
	}
	return v.Leave(node, key, parent, path, ancestors)
}

// Visit walks root, calling v's Enter/Leave callbacks pre- and post-order. It returns the
// (possibly new) root reflecting any replacements, and whether the traversal was aborted via
// Break.
func Visit(root Node, v *Visitor) (Node, bool) {
	w := &walker{visitor: v}
	newRoot, _, broke := w.visitNode(root, nil, nil, nil, nil)
	if newRoot == nil {
		return root, broke
	}
	return newRoot, broke
}

type walker struct {
	visitor *Visitor
}

// visitNode visits node (which may be nil, e.g. an optional child) and returns the
// replacement node (nil if unchanged), whether the node should be removed from its parent
// collection, and whether traversal broke.
func (w *walker) visitNode(node Node, key interface{}, parent Node, path []interface{}, ancestors []Node) (replacement Node, removed bool, broke bool) {
	if node == nil || isNilNode(node) {
		return nil, false, false
	}

	enterResult := w.visitor.enter(node, key, parent, path, ancestors)
	if enterResult.Action == Break {
		return nil, false, true
	}
	if enterResult.Remove {
		return nil, true, false
	}
	current := node
	if enterResult.Replacement != nil {
		current = enterResult.Replacement
	}

	if enterResult.Action != Skip {
		childAncestors := append(append([]Node{}, ancestors...), current)
		var brokeInChildren bool
		current, brokeInChildren = w.visitChildren(current, path, childAncestors)
		if brokeInChildren {
			return current, false, true
		}
	}

	leaveResult := w.visitor.leave(current, key, parent, path, ancestors)
	if leaveResult.Action == Break {
		return current, false, true
	}
	if leaveResult.Remove {
		return current, true, false
	}
	if leaveResult.Replacement != nil {
		current = leaveResult.Replacement
	}

	if current == node {
		return nil, false, false
	}
	return current, false, false
}

// isNilNode detects a typed-nil interface value (e.g. a (*Field)(nil) stored in a Selection).
func isNilNode(n Node) bool {
	switch v := n.(type) {
	case *OperationDefinition:
		return v == nil
	case *FragmentDefinition:
		return v == nil
	case *OperationType:
		return v == nil
	case *VariableDefinition:
		return v == nil
	case *NamedType:
		return v == nil
	case *ListType:
		return v == nil
	case *NonNullType:
		return v == nil
	case *Directive:
		return v == nil
	case *SelectionSet:
		return v == nil
	case *Field:
		return v == nil
	case *FragmentSpread:
		return v == nil
	case *InlineFragment:
		return v == nil
	case *Argument:
		return v == nil
	case *Name:
		return v == nil
	case *Variable:
		return v == nil
	case *BooleanValue:
		return v == nil
	case *FloatValue:
		return v == nil
	case *IntValue:
		return v == nil
	case *StringValue:
		return v == nil
	case *EnumValue:
		return v == nil
	case *NullValue:
		return v == nil
	case *ListValue:
		return v == nil
	case *ObjectValue:
		return v == nil
	case *ObjectField:
		return v == nil
	case *Document:
		return v == nil
	default:
		return false
	}
}

func (w *walker) visitChildren(node Node, path []interface{}, ancestors []Node) (Node, bool) {
	switch n := node.(type) {
	case *Document:
		defs, broke := w.visitDefinitions(n.Definitions, path, ancestors)
		if broke {
			return n, true
		}
		if defsChanged(n.Definitions, defs) {
			cp := *n
			cp.Definitions = defs
			return &cp, false
		}
		return n, false

	case *OperationDefinition:
		changed := false
		vdefs, broke := w.visitVariableDefinitions(n.VariableDefinitions, "VariableDefinitions", node, path, ancestors)
		if broke {
			return n, true
		}
		changed = changed || !sameVarDefs(n.VariableDefinitions, vdefs)

		dirs, broke := w.visitDirectives(n.Directives, "Directives", node, path, ancestors)
		if broke {
			return n, true
		}
		changed = changed || !sameDirectives(n.Directives, dirs)

		ss, remove, broke := w.visitNode(n.SelectionSet, "SelectionSet", node, append(path, "SelectionSet"), ancestors)
		if broke {
			return n, true
		}
		if ss != nil && !remove {
			changed = true
		}
		if !changed {
			return n, false
		}
		cp := *n
		cp.VariableDefinitions = vdefs
		cp.Directives = dirs
		if ss != nil {
			cp.SelectionSet = ss.(*SelectionSet)
		}
		return &cp, false

	case *FragmentDefinition:
		dirs, broke := w.visitDirectives(n.Directives, "Directives", node, path, ancestors)
		if broke {
			return n, true
		}
		ss, remove, broke := w.visitNode(n.SelectionSet, "SelectionSet", node, append(path, "SelectionSet"), ancestors)
		if broke {
			return n, true
		}
		if sameDirectives(n.Directives, dirs) && (ss == nil || remove) {
			return n, false
		}
		cp := *n
		cp.Directives = dirs
		if ss != nil {
			cp.SelectionSet = ss.(*SelectionSet)
		}
		return &cp, false

	case *SelectionSet:
		sels, broke := w.visitSelections(n.Selections, path, ancestors)
		if broke {
			return n, true
		}
		if sameSelections(n.Selections, sels) {
			return n, false
		}
		cp := *n
		cp.Selections = sels
		return &cp, false

	case *Field:
		changed := false
		args, broke := w.visitArguments(n.Arguments, "Arguments", node, path, ancestors)
		if broke {
			return n, true
		}
		changed = changed || !sameArguments(n.Arguments, args)

		dirs, broke := w.visitDirectives(n.Directives, "Directives", node, path, ancestors)
		if broke {
			return n, true
		}
		changed = changed || !sameDirectives(n.Directives, dirs)

		var ss Node
		var remove bool
		if n.SelectionSet != nil {
			ss, remove, broke = w.visitNode(n.SelectionSet, "SelectionSet", node, append(path, "SelectionSet"), ancestors)
			if broke {
				return n, true
			}
			if ss != nil && !remove {
				changed = true
			}
		}
		if !changed {
			return n, false
		}
		cp := *n
		cp.Arguments = args
		cp.Directives = dirs
		if ss != nil {
			cp.SelectionSet = ss.(*SelectionSet)
		}
		return &cp, false

	case *FragmentSpread:
		dirs, broke := w.visitDirectives(n.Directives, "Directives", node, path, ancestors)
		if broke {
			return n, true
		}
		if sameDirectives(n.Directives, dirs) {
			return n, false
		}
		cp := *n
		cp.Directives = dirs
		return &cp, false

	case *InlineFragment:
		dirs, broke := w.visitDirectives(n.Directives, "Directives", node, path, ancestors)
		if broke {
			return n, true
		}
		var ss Node
		var remove bool
		changed := !sameDirectives(n.Directives, dirs)
		if n.SelectionSet != nil {
			ss, remove, broke = w.visitNode(n.SelectionSet, "SelectionSet", node, append(path, "SelectionSet"), ancestors)
			if broke {
				return n, true
			}
			if ss != nil && !remove {
				changed = true
			}
		}
		if !changed {
			return n, false
		}
		cp := *n
		cp.Directives = dirs
		if ss != nil {
			cp.SelectionSet = ss.(*SelectionSet)
		}
		return &cp, false

	case *Argument:
		v, remove, broke := w.visitNode(n.Value, "Value", node, append(path, "Value"), ancestors)
		if broke {
			return n, true
		}
		if v == nil || remove {
			return n, false
		}
		cp := *n
		cp.Value = v.(Value)
		return &cp, false

	case *Directive:
		args, broke := w.visitArguments(n.Arguments, "Arguments", node, path, ancestors)
		if broke {
			return n, true
		}
		if sameArguments(n.Arguments, args) {
			return n, false
		}
		cp := *n
		cp.Arguments = args
		return &cp, false

	case *VariableDefinition:
		dirs, broke := w.visitDirectives(n.Directives, "Directives", node, path, ancestors)
		if broke {
			return n, true
		}
		if sameDirectives(n.Directives, dirs) {
			return n, false
		}
		cp := *n
		cp.Directives = dirs
		return &cp, false

	case *ListType:
		t, remove, broke := w.visitNode(n.Type, "Type", node, append(path, "Type"), ancestors)
		if broke {
			return n, true
		}
		if t == nil || remove {
			return n, false
		}
		cp := *n
		cp.Type = t.(Type)
		return &cp, false

	case *NonNullType:
		t, remove, broke := w.visitNode(n.Type, "Type", node, append(path, "Type"), ancestors)
		if broke {
			return n, true
		}
		if t == nil || remove {
			return n, false
		}
		cp := *n
		cp.Type = t.(Type)
		return &cp, false

	case *ListValue:
		vals, broke := w.visitValues(n.Values, path, ancestors)
		if broke {
			return n, true
		}
		if sameValues(n.Values, vals) {
			return n, false
		}
		cp := *n
		cp.Values = vals
		return &cp, false

	case *ObjectValue:
		fields, broke := w.visitObjectFields(n.Fields, path, ancestors)
		if broke {
			return n, true
		}
		if sameObjectFields(n.Fields, fields) {
			return n, false
		}
		cp := *n
		cp.Fields = fields
		return &cp, false

	case *ObjectField:
		v, remove, broke := w.visitNode(n.Value, "Value", node, append(path, "Value"), ancestors)
		if broke {
			return n, true
		}
		if v == nil || remove {
			return n, false
		}
		cp := *n
		cp.Value = v.(Value)
		return &cp, false

	default:
		// Leaf nodes (Name, NamedType, Variable, scalar Values, OperationType) have no
		// children to descend into.
		return n, false
	}
}

func (w *walker) visitDefinitions(defs []Definition, path []interface{}, ancestors []Node) ([]Definition, bool) {
	out := make([]Definition, 0, len(defs))
	for i, d := range defs {
		p := append(append([]interface{}{}, path...), i)
		r, remove, broke := w.visitNode(d, i, nil, p, ancestors)
		if broke {
			return defs, true
		}
		if remove {
			continue
		}
		if r != nil {
			out = append(out, r.(Definition))
		} else {
			out = append(out, d)
		}
	}
	return out, false
}

func (w *walker) visitSelections(sels []Selection, path []interface{}, ancestors []Node) ([]Selection, bool) {
	out := make([]Selection, 0, len(sels))
	for i, s := range sels {
		p := append(append([]interface{}{}, path...), i)
		r, remove, broke := w.visitNode(s, i, nil, p, ancestors)
		if broke {
			return sels, true
		}
		if remove {
			continue
		}
		if r != nil {
			out = append(out, r.(Selection))
		} else {
			out = append(out, s)
		}
	}
	return out, false
}

func (w *walker) visitArguments(args []*Argument, key string, parent Node, path []interface{}, ancestors []Node) ([]*Argument, bool) {
	out := make([]*Argument, 0, len(args))
	for i, a := range args {
		p := append(append([]interface{}{}, path...), key, i)
		r, remove, broke := w.visitNode(a, i, parent, p, ancestors)
		if broke {
			return args, true
		}
		if remove {
			continue
		}
		if r != nil {
			out = append(out, r.(*Argument))
		} else {
			out = append(out, a)
		}
	}
	return out, false
}

func (w *walker) visitDirectives(dirs []*Directive, key string, parent Node, path []interface{}, ancestors []Node) ([]*Directive, bool) {
	out := make([]*Directive, 0, len(dirs))
	for i, d := range dirs {
		p := append(append([]interface{}{}, path...), key, i)
		r, remove, broke := w.visitNode(d, i, parent, p, ancestors)
		if broke {
			return dirs, true
		}
		if remove {
			continue
		}
		if r != nil {
			out = append(out, r.(*Directive))
		} else {
			out = append(out, d)
		}
	}
	return out, false
}

func (w *walker) visitVariableDefinitions(defs []*VariableDefinition, key string, parent Node, path []interface{}, ancestors []Node) ([]*VariableDefinition, bool) {
	out := make([]*VariableDefinition, 0, len(defs))
	for i, d := range defs {
		p := append(append([]interface{}{}, path...), key, i)
		r, remove, broke := w.visitNode(d, i, parent, p, ancestors)
		if broke {
			return defs, true
		}
		if remove {
			continue
		}
		if r != nil {
			out = append(out, r.(*VariableDefinition))
		} else {
			out = append(out, d)
		}
	}
	return out, false
}

func (w *walker) visitValues(vals []Value, path []interface{}, ancestors []Node) ([]Value, bool) {
	out := make([]Value, 0, len(vals))
	for i, v := range vals {
		p := append(append([]interface{}{}, path...), i)
		r, remove, broke := w.visitNode(v, i, nil, p, ancestors)
		if broke {
			return vals, true
		}
		if remove {
			continue
		}
		if r != nil {
			out = append(out, r.(Value))
		} else {
			out = append(out, v)
		}
	}
	return out, false
}

func (w *walker) visitObjectFields(fields []*ObjectField, path []interface{}, ancestors []Node) ([]*ObjectField, bool) {
	out := make([]*ObjectField, 0, len(fields))
	for i, f := range fields {
		p := append(append([]interface{}{}, path...), i)
		r, remove, broke := w.visitNode(f, i, nil, p, ancestors)
		if broke {
			return fields, true
		}
		if remove {
			continue
		}
		if r != nil {
			out = append(out, r.(*ObjectField))
		} else {
			out = append(out, f)
		}
	}
	return out, false
}

func defsChanged(a, b []Definition) bool {
	if len(a) != len(b) {
		return true
	}
	for i := range a {
		if a[i] != b[i] {
			return true
		}
	}
	return false
}

func sameVarDefs(a, b []*VariableDefinition) bool {
	return sameSliceLen(len(a), len(b)) && samePtrs(toNodeSlice(a), toNodeSlice(b))
}

func sameDirectives(a, b []*Directive) bool {
	return sameSliceLen(len(a), len(b)) && samePtrs(toNodeSlice(a), toNodeSlice(b))
}

func sameArguments(a, b []*Argument) bool {
	return sameSliceLen(len(a), len(b)) && samePtrs(toNodeSlice(a), toNodeSlice(b))
}

func sameSelections(a, b []Selection) bool {
	return sameSliceLen(len(a), len(b)) && samePtrs(toNodeSliceSel(a), toNodeSliceSel(b))
}

func sameValues(a, b []Value) bool {
	return sameSliceLen(len(a), len(b)) && samePtrs(toNodeSliceVal(a), toNodeSliceVal(b))
}

func sameObjectFields(a, b []*ObjectField) bool {
	return sameSliceLen(len(a), len(b)) && samePtrs(toNodeSlice(a), toNodeSlice(b))
}

func sameSliceLen(a, b int) bool { return a == b }

func samePtrs(a, b []Node) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func toNodeSlice[T Node](s []T) []Node {
	out := make([]Node, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

func toNodeSliceSel(s []Selection) []Node {
	out := make([]Node, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

func toNodeSliceVal(s []Value) []Node {
	out := make([]Node, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
