// Package relay builds GraphQL Cursor Connection types and fields (as defined by the Relay
// Cursor Connections Specification) on top of a gql schema.
package relay

import (
	"context"
	"encoding/base64"
	"fmt"
	"reflect"
	"sort"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack"

	"github.com/kjhughes/gql"
	"github.com/kjhughes/gql/schema"
)

// ConnectionConfig defines the configuration for a connection that adheres to the GraphQL Cursor
// Connections Specification.
type ConnectionConfig struct {
	// A prefix to use for the connection and edge type names. For example, if you provide
	// "Example", the connection type will be named "ExampleConnection" and the edge type will be
	// "ExampleEdge".
	NamePrefix string

	// An optional description for the connection.
	Description string

	// An optional map of additional arguments to add to the connection.
	Arguments map[string]*gql.InputValueDefinition

	// If getting all edges for the connection is cheap, you can just provide ResolveAllEdges.
	// ResolveAllEdges should return a slice value, with one item for each edge, and a function that
	// can be used to sort the cursors produced by EdgeCursor.
	ResolveAllEdges func(ctx gql.FieldContext) (edgeSlice interface{}, cursorLess func(a, b interface{}) bool, err error)

	// If getting all edges for the connection is too expensive for ResolveAllEdges, you can provide
	// ResolveEdges. ResolveEdges is just like ResolveAllEdges, but is only required to return edges
	// within the range defined by the given cursors and is only required to return up to `limit`
	// edges. If limit is negative, the last edges within the range should be returned instead of
	// the first.
	//
	// Returning extra edges or out-of-order edges is fine. They will be sorted and filtered
	// automatically. However, you should ensure that no duplicate edges are returned.
	ResolveEdges func(ctx gql.FieldContext, after, before interface{}, limit int) (edgeSlice interface{}, cursorLess func(a, b interface{}) bool, err error)

	// If you use ResolveEdges, you can optionally provide ResolveTotalCount to add a totalCount
	// field to the connection. If you use ResolveAllEdges, there is no need to provide this.
	ResolveTotalCount func(ctx gql.FieldContext) (interface{}, error)

	// CursorType allows the connection to deserialize cursors. It is required for all connections.
	CursorType reflect.Type

	// EdgeCursor should return a value that can be used to determine the edge's relative ordering.
	// The value must be able to be marshaled to and from binary, and must be of the type assigned
	// to CursorType.
	EdgeCursor func(edge interface{}) interface{}

	// EdgeFields should provide definitions for the fields of each node. You must provide the
	// "node" field, but the "cursor" field will be provided for you.
	EdgeFields map[string]*gql.FieldDefinition

	// The connection will implement these interfaces. If any of the interfaces define an edge
	// field as an interface, this connection's edges will also implement that interface.
	ImplementedInterfaces []*gql.InterfaceType
}

func serializeCursor(cursor interface{}) (string, error) {
	b, err := msgpack.Marshal(cursor)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func deserializeCursor(t reflect.Type, s string) interface{} {
	ret := reflect.New(t)
	if b, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		if err := msgpack.Unmarshal(b, ret.Interface()); err == nil {
			return ret.Elem().Interface()
		}
	}
	return nil
}

func (cfg *ConnectionConfig) applyCursorsToEdges(allEdges []interface{}, before, after interface{}, cursorLess func(a, b interface{}) bool) (edges []edge, hasPreviousPage, hasNextPage bool) {
	edges = []edge{}

	if len(allEdges) == 0 {
		return edges, false, false
	}

	for _, e := range allEdges {
		cursor := cfg.EdgeCursor(e)
		if after != nil && !cursorLess(after, cursor) {
			hasPreviousPage = true
			continue
		}
		if before != nil && !cursorLess(cursor, before) {
			hasNextPage = true
			continue
		}
		edges = append(edges, edge{
			Value:  e,
			Cursor: cursor,
		})
	}

	sort.Slice(edges, func(i, j int) bool {
		return cursorLess(edges[i].Cursor, edges[j].Cursor)
	})

	return
}

// PageInfo represents the page info of a GraphQL Cursor Connection.
type PageInfo struct {
	HasPreviousPage bool
	HasNextPage     bool
	StartCursor     string
	EndCursor       string
}

// PageInfoType implements the GraphQL type for the page info of a GraphQL Cursor Connection.
var PageInfoType = &gql.ObjectType{
	Name: "PageInfo",
	Fields: schema.Fields(map[string]*gql.FieldDefinition{
		"hasPreviousPage": nonNull(gql.BooleanType, "HasPreviousPage"),
		"hasNextPage":     nonNull(gql.BooleanType, "HasNextPage"),
		"startCursor":     nonNull(gql.StringType, "StartCursor"),
		"endCursor":       nonNull(gql.StringType, "EndCursor"),
	}),
}

// nonNull builds a field definition that resolves the named field of the object via reflection.
// It's used for the simple struct-backed types this package defines itself (PageInfo).
func nonNull(t gql.Type, fieldName string) *gql.FieldDefinition {
	return &gql.FieldDefinition{
		Type: gql.NewNonNullType(t),
		Cost: gql.FieldResolverCost(0),
		Resolve: func(ctx gql.FieldContext) (interface{}, error) {
			return reflect.ValueOf(ctx.Object).Elem().FieldByName(fieldName).Interface(), nil
		},
	}
}

type edge struct {
	Value  interface{}
	Cursor interface{}
}

type connection struct {
	ResolveTotalCount func() (interface{}, error)
	Edges             []edge
	ResolvePageInfo   func() (interface{}, error)
}

type maxEdgeCountContextKeyType int

var maxEdgeCountContextKey maxEdgeCountContextKeyType

// Connection is used to create a connection field that adheres to the GraphQL Cursor Connections
// Specification.
func Connection(config *ConnectionConfig) *gql.FieldDefinition {
	edgeFields := map[string]*gql.FieldDefinition{
		"cursor": {
			Type: gql.NewNonNullType(gql.StringType),
			Cost: gql.FieldResolverCost(0),
			Resolve: func(ctx gql.FieldContext) (interface{}, error) {
				s, err := serializeCursor(ctx.Object.(edge).Cursor)
				if err != nil {
					return nil, errors.Wrap(err, "error serializing cursor")
				}
				return s, nil
			},
		},
	}
	for k, v := range config.EdgeFields {
		def := *v
		resolve := def.Resolve
		def.Resolve = func(ctx gql.FieldContext) (interface{}, error) {
			ctx.Object = ctx.Object.(edge).Value
			return resolve(ctx)
		}
		edgeFields[k] = &def
	}

	edgeType := &gql.ObjectType{
		Name:   config.NamePrefix + "Edge",
		Fields: schema.Fields(edgeFields),
	}
	for _, iface := range config.ImplementedInterfaces {
		if ifaceEdge, ok := iface.Fields.Get()["edges"]; ok {
			if edgeInterface, ok := schema.UnwrappedType(ifaceEdge.Type).(*gql.InterfaceType); ok {
				edgeType.ImplementedInterfaces = append(edgeType.ImplementedInterfaces, edgeInterface)
			}
		}
	}

	connectionFields := map[string]*gql.FieldDefinition{
		"edges": {
			Type: gql.NewNonNullType(gql.NewListType(gql.NewNonNullType(edgeType))),
			Cost: func(ctx gql.FieldCostContext) gql.FieldCost {
				return gql.FieldCost{
					Resolver:   0,
					Multiplier: ctx.Context.Value(maxEdgeCountContextKey).(int),
				}
			},
			Resolve: func(ctx gql.FieldContext) (interface{}, error) {
				return ctx.Object.(*connection).Edges, nil
			},
		},
		"pageInfo": {
			Type: gql.NewNonNullType(PageInfoType),
			// The cost is already accounted for by the connection itself. Either
			// ResolvePageInfo will be trivial or 0 edges were requested and all work was
			// delayed until now.
			Cost: gql.FieldResolverCost(0),
			Resolve: func(ctx gql.FieldContext) (interface{}, error) {
				return ctx.Object.(*connection).ResolvePageInfo()
			},
		},
	}

	if config.ResolveAllEdges != nil || config.ResolveTotalCount != nil {
		connectionFields["totalCount"] = &gql.FieldDefinition{
			Type: gql.NewNonNullType(gql.IntType),
			Cost: gql.FieldResolverCost(1),
			Resolve: func(ctx gql.FieldContext) (interface{}, error) {
				return ctx.Object.(*connection).ResolveTotalCount()
			},
		}
	}

	connectionType := &gql.ObjectType{
		Name:                  config.NamePrefix + "Connection",
		Description:           config.Description,
		Fields:                schema.Fields(connectionFields),
		ImplementedInterfaces: config.ImplementedInterfaces,
	}

	arguments := map[string]*gql.InputValueDefinition{
		"first":  {Type: gql.IntType},
		"last":   {Type: gql.IntType},
		"before": {Type: gql.StringType},
		"after":  {Type: gql.StringType},
	}
	for name, def := range config.Arguments {
		arguments[name] = def
	}

	return &gql.FieldDefinition{
		Type:        connectionType,
		Arguments:   arguments,
		Description: config.Description,
		Cost: func(ctx gql.FieldCostContext) gql.FieldCost {
			maxCount, _ := ctx.Arguments["first"].(int)
			if last, ok := ctx.Arguments["last"].(int); ok {
				maxCount = last
			}
			return gql.FieldCost{
				Context:  context.WithValue(ctx.Context, maxEdgeCountContextKey, maxCount),
				Resolver: 1,
			}
		},
		Resolve: func(ctx gql.FieldContext) (interface{}, error) {
			return resolveConnection(config, ctx)
		},
	}
}

func resolveConnection(config *ConnectionConfig, ctx gql.FieldContext) (interface{}, error) {
	if first, ok := ctx.Arguments["first"].(int); ok {
		if first < 0 {
			return nil, fmt.Errorf("the `first` argument cannot be negative")
		} else if _, ok := ctx.Arguments["last"].(int); ok {
			return nil, fmt.Errorf("you cannot provide both `first` and `last` arguments")
		}
	} else if last, ok := ctx.Arguments["last"].(int); ok {
		if last < 0 {
			return nil, fmt.Errorf("the `last` argument cannot be negative")
		}
	} else {
		return nil, fmt.Errorf("you must provide either the `first` or `last` argument")
	}

	var afterCursor interface{}
	if after, _ := ctx.Arguments["after"].(string); after != "" {
		if afterCursor = deserializeCursor(config.CursorType, after); afterCursor == nil {
			return nil, fmt.Errorf("invalid after cursor")
		}
	}

	var beforeCursor interface{}
	if before, _ := ctx.Arguments["before"].(string); before != "" {
		if beforeCursor = deserializeCursor(config.CursorType, before); beforeCursor == nil {
			return nil, fmt.Errorf("invalid before cursor")
		}
	}

	var limit int
	if first, ok := ctx.Arguments["first"].(int); ok {
		limit = first + 1
	} else {
		limit = -(ctx.Arguments["last"].(int) + 1)
	}

	resolve := func() (interface{}, func(a, b interface{}) bool, error) {
		return config.ResolveAllEdges(ctx)
	}
	if config.ResolveAllEdges == nil {
		resolve = func() (interface{}, func(a, b interface{}) bool, error) {
			return config.ResolveEdges(ctx, afterCursor, beforeCursor, limit)
		}
	}

	if limit == 1 || limit == -1 {
		// No edges were requested. Don't do any edge-fetching work unless pageInfo or totalCount
		// end up being selected.
		return &connection{
			ResolveTotalCount: func() (interface{}, error) {
				if config.ResolveTotalCount != nil {
					return config.ResolveTotalCount(ctx)
				}
				edgeSlice, cursorLess, err := resolve()
				if !isNil(err) {
					return nil, err
				}
				conn, err := completeConnection(config, ctx, beforeCursor, afterCursor, cursorLess, edgeSlice)
				if !isNil(err) {
					return nil, err
				} else if promise, ok := conn.(gql.ResolvePromise); ok {
					return chain(promise, func(conn interface{}) (interface{}, error) { return conn.(*connection).ResolveTotalCount() }), nil
				}
				return conn.(*connection).ResolveTotalCount()
			},
			Edges: []edge{},
			ResolvePageInfo: func() (interface{}, error) {
				edgeSlice, cursorLess, err := resolve()
				if !isNil(err) {
					return nil, err
				}
				conn, err := completeConnection(config, ctx, beforeCursor, afterCursor, cursorLess, edgeSlice)
				if !isNil(err) {
					return nil, err
				}
				if promise, ok := conn.(gql.ResolvePromise); ok {
					return chain(promise, func(conn interface{}) (interface{}, error) {
						return conn.(*connection).ResolvePageInfo()
					}), nil
				}
				return conn.(*connection).ResolvePageInfo()
			},
		}, nil
	}

	edgeSlice, cursorLess, err := resolve()
	if !isNil(err) {
		return nil, err
	}
	return completeConnection(config, ctx, beforeCursor, afterCursor, cursorLess, edgeSlice)
}

func completeConnection(config *ConnectionConfig, ctx gql.FieldContext, beforeCursor, afterCursor interface{}, cursorLess func(a, b interface{}) bool, edgeSlice interface{}) (interface{}, error) {
	if edgeSlice, ok := edgeSlice.(gql.ResolvePromise); ok {
		return chain(edgeSlice, func(edgeSlice interface{}) (interface{}, error) {
			return completeConnection(config, ctx, beforeCursor, afterCursor, cursorLess, edgeSlice)
		}), nil
	}

	edgeSliceValue := reflect.ValueOf(edgeSlice)
	if edgeSliceValue.Kind() != reflect.Slice {
		return nil, fmt.Errorf("unexpected non-slice type %T for edges", edgeSlice)
	}

	resolveTotalCount := func() (interface{}, error) {
		return edgeSliceValue.Len(), nil
	}
	if config.ResolveTotalCount != nil {
		resolveTotalCount = func() (interface{}, error) {
			return config.ResolveTotalCount(ctx)
		}
	}

	ifaces := make([]interface{}, edgeSliceValue.Len())
	for i := range ifaces {
		ifaces[i] = edgeSliceValue.Index(i).Interface()
	}

	edges, hasPreviousPage, hasNextPage := config.applyCursorsToEdges(ifaces, beforeCursor, afterCursor, cursorLess)

	if first, ok := ctx.Arguments["first"].(int); ok {
		if len(edges) > first {
			edges = edges[:first]
			hasNextPage = true
		} else {
			hasNextPage = false
		}
	}

	if last, ok := ctx.Arguments["last"].(int); ok {
		if len(edges) > last {
			edges = edges[len(edges)-last:]
			hasPreviousPage = true
		} else {
			hasPreviousPage = false
		}
	}

	pageInfo := &PageInfo{
		HasPreviousPage: hasPreviousPage,
		HasNextPage:     hasNextPage,
	}
	if len(edges) > 0 {
		var err error
		pageInfo.StartCursor, err = serializeCursor(edges[0].Cursor)
		if err != nil {
			return nil, errors.Wrap(err, "error serializing start cursor")
		}
		pageInfo.EndCursor, err = serializeCursor(edges[len(edges)-1].Cursor)
		if err != nil {
			return nil, errors.Wrap(err, "error serializing end cursor")
		}
	}
	return &connection{
		ResolveTotalCount: resolveTotalCount,
		Edges:             edges,
		ResolvePageInfo: func() (interface{}, error) {
			return pageInfo, nil
		},
	}, nil
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) && rv.IsNil()
}

// chain runs f against the eventual result of p, itself returning a new promise. The input
// promise is filled by whatever asynchronous source produced it; chain only waits on it, so it
// never blocks the executor's cooperative scheduler.
func chain(p gql.ResolvePromise, f func(interface{}) (interface{}, error)) gql.ResolvePromise {
	out := make(gql.ResolvePromise, 1)
	go func() {
		r := <-p
		if r.Error != nil {
			out <- gql.ResolveResult{Error: r.Error}
			return
		}
		v, err := f(r.Value)
		out <- gql.ResolveResult{Value: v, Error: err}
	}()
	return out
}
