// Package gql implements a server-side GraphQL query engine: lexing and parsing, a schema type
// system, validation, and execution (including subscriptions).
package gql

import (
	"context"

	"github.com/kjhughes/gql/ast"
	"github.com/kjhughes/gql/executor"
	"github.com/kjhughes/gql/gqlmap"
	"github.com/kjhughes/gql/parser"
	"github.com/kjhughes/gql/schema"
	"github.com/kjhughes/gql/source"
	"github.com/kjhughes/gql/validator"
)

// Directive represents a GraphQL directive.
type Directive = schema.Directive

// Type represents a GraphQL type.
type Type = schema.Type

// NamedType represents any GraphQL named type.
type NamedType = schema.NamedType

// ObjectType represents a GraphQL object type.
type ObjectType = schema.ObjectType

// InterfaceType represents a GraphQL interface type.
type InterfaceType = schema.InterfaceType

// EnumType represents a GraphQL enum type.
type EnumType = schema.EnumType

// ScalarType represents a GraphQL scalar type.
type ScalarType = schema.ScalarType

// UnionType represents a GraphQL union type.
type UnionType = schema.UnionType

// InputObjectType represents a GraphQL input object type.
type InputObjectType = schema.InputObjectType

// NonNullType represents a non-null GraphQL type.
type NonNullType = schema.NonNullType

// ListType represents a GraphQL list type.
type ListType = schema.ListType

// FieldContext is provided to field resolvers and contains important context such as the current
// object and arguments.
type FieldContext = schema.FieldContext

// FieldCostContext contains important context passed to field cost functions.
type FieldCostContext = schema.FieldCostContext

// FieldCost describes the cost of resolving a field, enabling rate limiting and metering.
type FieldCost = schema.FieldCost

// FieldResolverCost returns a cost function that returns a constant resolver cost with no
// multiplier.
func FieldResolverCost(n int) func(FieldCostContext) FieldCost {
	return schema.FieldResolverCost(n)
}

// EnumValueDefinition defines a possible value for an enum type.
type EnumValueDefinition = schema.EnumValueDefinition

// InputValueDefinition defines an input value such as an argument.
type InputValueDefinition = schema.InputValueDefinition

// FieldDefinition defines a field on an object type.
type FieldDefinition = schema.FieldDefinition

// DirectiveDefinition defines a directive.
type DirectiveDefinition = schema.DirectiveDefinition

// ValidatorRule defines a rule that the validator will evaluate.
type ValidatorRule = validator.Rule

// ValidateCost returns a ValidatorRule that calculates the cost of the requested operation and
// ensures it is not greater than max. If max is -1, no limit is enforced. If actual is non-nil, it
// is set to the actual cost of the operation. Queries with costs too high to calculate due to
// overflows always result in an error when max is non-negative, and actual is set to the maximum
// possible value. defaultCost is used for any field that doesn't define its own Cost function.
func ValidateCost(operationName string, variableValues map[string]interface{}, max int, actual *int, defaultCost FieldCost) ValidatorRule {
	return validator.ValidateCost(operationName, variableValues, max, actual, defaultCost)
}

// NoSchemaIntrospectionCustomRule is an optional ValidatorRule that rejects any use of the
// __schema or __type introspection meta-fields.
var NoSchemaIntrospectionCustomRule ValidatorRule = validator.NoSchemaIntrospectionCustomRule

// NoDeprecatedCustomRule is an optional ValidatorRule that rejects any use of a deprecated field
// or enum value.
var NoDeprecatedCustomRule ValidatorRule = validator.NoDeprecatedCustomRule

// IncludeDirective implements the @include directive as defined by the GraphQL spec.
var IncludeDirective = schema.IncludeDirective

// SkipDirective implements the @skip directive as defined by the GraphQL spec.
var SkipDirective = schema.SkipDirective

// IDType implements the ID type as defined by the GraphQL spec. It can be coerced from a string or
// an integer, but always serializes to a string.
var IDType = schema.IDType

// StringType implements the String type as defined by the GraphQL spec.
var StringType = schema.StringType

// IntType implements the Int type as defined by the GraphQL spec.
var IntType = schema.IntType

// FloatType implements the Float type as defined by the GraphQL spec.
var FloatType = schema.FloatType

// BooleanType implements the Boolean type as defined by the GraphQL spec.
var BooleanType = schema.BooleanType

// NewNonNullType creates a new non-null type with the given wrapped type.
func NewNonNullType(t Type) *NonNullType {
	return schema.NewNonNullType(t)
}

// NewListType creates a new list type with the given element type.
func NewListType(t Type) *ListType {
	return schema.NewListType(t)
}

// ResolveResult represents the result of a field resolver. This type is generally used with
// ResolvePromise to pass around asynchronous results.
type ResolveResult = executor.ResolveResult

// ResolvePromise can be used to resolve fields asynchronously. You may return a ResolvePromise
// from a field's resolve function. If you do, you must define an IdleHandler for the request. Any
// time request execution is unable to proceed, the idle handler is invoked. Before the idle
// handler returns, a result must be sent to at least one previously returned ResolvePromise.
type ResolvePromise = executor.ResolvePromise

// Schema represents a GraphQL schema.
type Schema = schema.Schema

// SchemaDefinition defines a GraphQL schema.
type SchemaDefinition = schema.Definition

// NewSchema validates a schema definition and builds a Schema from it.
func NewSchema(def *SchemaDefinition) (*Schema, error) {
	return schema.New(def)
}

// Request defines all of the inputs required to parse, validate, and execute a GraphQL query.
type Request struct {
	Context context.Context

	Query string

	// In some cases, you may want to optimize by providing the parsed and validated AST document
	// instead of Query.
	Document *ast.Document

	Schema         *Schema
	OperationName  string
	VariableValues map[string]interface{}
	InitialValue   interface{}
	IdleHandler    func()
}

// ValidateCost returns a ValidatorRule that calculates the cost of the requested operation and
// ensures it is not greater than max.
func (r *Request) ValidateCost(max int, actual *int, defaultCost FieldCost) ValidatorRule {
	return validator.ValidateCost(r.OperationName, r.VariableValues, max, actual, defaultCost)
}

func (r *Request) executorRequest(doc *ast.Document) *executor.Request {
	return &executor.Request{
		Document:       doc,
		Schema:         r.Schema,
		OperationName:  r.OperationName,
		VariableValues: r.VariableValues,
		InitialValue:   r.InitialValue,
		IdleHandler:    r.IdleHandler,
	}
}

// Location represents the location of a character within a query's source text.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Error represents a GraphQL error as defined by the spec.
type Error struct {
	Message   string        `json:"message"`
	Locations []Location    `json:"locations,omitempty"`
	Path      []interface{} `json:"path,omitempty"`

	// To populate this field, your resolvers can return errors that implement ExtendedError.
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

func (err *Error) Error() string {
	return err.Message
}

// ExtendedError can be used to add data to a GraphQL error. If a resolver returns an error that
// implements this interface, the error's extensions property is populated.
type ExtendedError interface {
	error
	Extensions() map[string]interface{}
}

// Result represents the result of executing a GraphQL query.
type Result struct {
	Data   *gqlmap.Value `json:"data,omitempty"`
	Errors []*Error      `json:"errors,omitempty"`
}

// IsSubscription returns true if the operation with the given name is a subscription operation.
// operationName can be "", in which case true is returned if the only operation in the document
// is a subscription. In any error case (such as multiple matching subscriptions), false is
// returned.
func IsSubscription(doc *ast.Document, operationName string) bool {
	return executor.IsSubscription(doc, operationName)
}

// Parse parses source into a Document.
func Parse(src *source.Source) (*ast.Document, []*Error) {
	doc, errs := parser.ParseDocument(src)
	if len(errs) == 0 {
		return doc, nil
	}
	ret := make([]*Error, len(errs))
	for i, err := range errs {
		ret[i] = &Error{
			Message:   "Syntax error: " + err.Message,
			Locations: []Location{{Line: err.Position.Line, Column: err.Position.Column}},
		}
	}
	return nil, ret
}

// Validate validates a parsed document against a schema, running a fixed rule set plus any
// additional rules supplied by the caller.
func Validate(doc *ast.Document, s *Schema, additionalRules ...ValidatorRule) []*Error {
	errs := validator.ValidateDocument(doc, s, additionalRules...)
	if len(errs) == 0 {
		return nil
	}
	ret := make([]*Error, len(errs))
	for i, err := range errs {
		locations := make([]Location, len(err.Locations()))
		for j, loc := range err.Locations() {
			locations[j] = Location{Line: loc.Line, Column: loc.Column}
		}
		ret[i] = &Error{
			Message:   "Validation error: " + err.Message,
			Locations: locations,
		}
	}
	return ret
}

// ParseAndValidate parses and validates a query, combining Parse and Validate.
func ParseAndValidate(query string, s *Schema, additionalRules ...ValidatorRule) (*ast.Document, []*Error) {
	doc, errs := Parse(source.New("GraphQL request", query))
	if len(errs) > 0 {
		return nil, errs
	}
	if errs := Validate(doc, s, additionalRules...); len(errs) > 0 {
		return nil, errs
	}
	return doc, nil
}

func newErrorFromExecutorError(err *executor.Error) *Error {
	locations := make([]Location, len(err.Locations))
	for i, loc := range err.Locations {
		locations[i] = Location{Line: loc.Line, Column: loc.Column}
	}
	retErr := &Error{
		Message:   err.Message,
		Locations: locations,
		Path:      err.Path,
	}
	if ext, ok := err.Unwrap().(ExtendedError); ok {
		retErr.Extensions = ext.Extensions()
	}
	return retErr
}

// SourceStream lets a subscription root field's resolver pair its event channel with an explicit
// teardown hook, invoked once the stream is no longer needed. A resolver can also just return a
// bare channel (any element type, e.g. chan MyEvent); in that case there's no explicit teardown,
// and the stream is abandoned once its consumer stops reading.
type SourceStream = executor.SourceStream

// GraphqlSubscribe is used to implement subscription support. For subscribe operations (as
// indicated via IsSubscription), this should be invoked instead of Graphql. On success it returns
// a channel that receives one Result per event emitted by the subscription field's event stream,
// each produced by running the normal execution pipeline against that event as the root value.
// The channel is closed, and the underlying event stream torn down, once r.Context is cancelled or
// the event stream itself closes.
func GraphqlSubscribe(r *Request) (<-chan *Result, []*Error) {
	doc := r.Document
	if doc == nil {
		var errs []*Error
		doc, errs = ParseAndValidate(r.Query, r.Schema)
		if len(errs) > 0 {
			return nil, errs
		}
	}

	events, err := executor.MapSubscriptionEvents(r.Context, r.executorRequest(doc))
	if err != nil {
		return nil, []*Error{newErrorFromExecutorError(err)}
	}

	out := make(chan *Result)
	go func() {
		defer close(out)
		for event := range events {
			result := &Result{Data: event.Data}
			for _, err := range event.Errors {
				result.Errors = append(result.Errors, newErrorFromExecutorError(err))
			}
			out <- result
		}
	}()
	return out, nil
}

// Graphql executes a query, combining Parse, Validate, and Execute. If the request does not
// already have a Document, Query is parsed and validated first.
func Graphql(r *Request) *Result {
	doc := r.Document
	if doc == nil {
		var errs []*Error
		doc, errs = ParseAndValidate(r.Query, r.Schema)
		if len(errs) > 0 {
			return &Result{Errors: errs}
		}
	}

	data, errs := executor.ExecuteRequest(r.Context, r.executorRequest(doc))
	ret := &Result{Data: data}
	for _, err := range errs {
		ret.Errors = append(ret.Errors, newErrorFromExecutorError(err))
	}
	return ret
}
