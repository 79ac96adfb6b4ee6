package validator

import (
	"fmt"

	"github.com/kjhughes/gql/ast"
	"github.com/kjhughes/gql/token"
)

// Error is a single validation failure, associated with the node(s) that caused it.
type Error struct {
	Message string
	Nodes   []ast.Node

	// A validator that can't finish its job because of an error that's really another rule's
	// responsibility emits a secondary error instead of a primary one. If any primary errors were
	// found, secondary errors are discarded, since they're expected to be duplicates. A secondary
	// error escaping validation usually means a rule has a bug.
	isSecondary bool
}

func (err *Error) Error() string {
	return err.Message
}

// Locations returns the source positions of the nodes associated with this error.
func (err *Error) Locations() []token.Position {
	locations := make([]token.Position, len(err.Nodes))
	for i, node := range err.Nodes {
		locations[i] = node.Position()
	}
	return locations
}

func newError(node ast.Node, format string, args ...interface{}) *Error {
	var nodes []ast.Node
	if node != nil {
		nodes = []ast.Node{node}
	}
	return &Error{Message: fmt.Sprintf(format, args...), Nodes: nodes}
}

func newErrorWithNodes(nodes []ast.Node, format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Nodes: nodes}
}

func newSecondaryError(node ast.Node, format string, args ...interface{}) *Error {
	err := newError(node, format, args...)
	err.isSecondary = true
	return err
}
