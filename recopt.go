// Package recopt compiles record query options into the flat request
// parameters a PocketBase-style record API expects.
//
// A Descriptor describes a request: which fields to return, which relations
// to expand (as a tree of Nodes, each with its own fields), a filter and a
// sort. Process flattens it:
//
//	out, err := recopt.Process(recopt.Descriptor{
//	    "fields": []string{"id", "title"},
//	    "expand": []recopt.Node{
//	        {Key: "author", Fields: []string{"name"}},
//	    },
//	    "filter": recopt.FilterFunc(func(h recopt.Helpers) string {
//	        return h.Gt("likes", 10)
//	    }),
//	})
//	// out["fields"] == "id,title,expand.author.name"
//	// out["expand"] == "author"
//	// out["filter"] == "likes>10"
//
// NewClient wraps a Transport with per-collection record services that run
// Process on every call before handing the request over:
//
//	c := recopt.NewClient(transport, recopt.WithLogger(logger))
//	page, err := c.Collection("posts").GetList(ctx, 1, 20, recopt.Descriptor{
//	    "expand": []recopt.Node{{Key: "author"}},
//	})
package recopt

import (
	"log/slog"

	"github.com/roach88/recopt/internal/client"
	"github.com/roach88/recopt/internal/expand"
	"github.com/roach88/recopt/internal/filter"
	"github.com/roach88/recopt/internal/options"
)

type (
	// Descriptor holds request options keyed by parameter name.
	Descriptor = options.Descriptor

	// Node is one relation in an expansion tree.
	Node = expand.Node

	// Compiler normalizes descriptors with a configurable depth bound.
	Compiler = options.Compiler

	// Helpers is the combinator set handed to filter and sort functions.
	Helpers = filter.Helpers

	// FilterFunc builds a filter or sort expression from Helpers.
	FilterFunc = filter.Func

	// ValidationError reports a descriptor entry of the wrong shape.
	ValidationError = options.ValidationError

	// TreeError reports an expansion tree that is too deep, cyclic or
	// malformed.
	TreeError = expand.TreeError
)

type (
	// Client hands out one RecordService per collection.
	Client = client.Client

	// ClientOption configures a Client.
	ClientOption = client.Option

	// RecordService issues record API calls for one collection.
	RecordService = client.RecordService

	// Transport carries compiled requests to a record API.
	Transport = client.Transport

	// Request is one record API call with compiled query options.
	Request = client.Request

	// Response is a transport's answer.
	Response = client.Response

	// Event is a realtime change notification.
	Event = client.Event

	// UnsubscribeFunc cancels a subscription.
	UnsubscribeFunc = client.UnsubscribeFunc

	// Record is one record as returned by the API.
	Record = client.Record

	// Body is a create or update payload.
	Body = client.Body

	// ListResult is one page of records.
	ListResult = client.ListResult

	// ResponseError reports a non-2xx response.
	ResponseError = client.ResponseError
)

// DefaultMaxDepth is the expansion depth bound used by Process.
const DefaultMaxDepth = expand.DefaultMaxDepth

// Unset marks a descriptor key as not supplied. Process drops it; nil is
// kept as an explicit null.
var Unset = options.Unset

// Process compiles d with the default depth bound.
func Process(d Descriptor) (Descriptor, error) {
	return options.Process(d)
}

// NewCompiler returns a Compiler with the default depth bound.
func NewCompiler() *Compiler {
	return options.NewCompiler()
}

// ProcessFilter evaluates a single filter or sort value.
func ProcessFilter(v any) (string, error) {
	return options.ProcessFilter(v)
}

// HasFieldsSpecified reports whether d has a "fields" key at any depth.
func HasFieldsSpecified(d Descriptor) bool {
	return options.HasFieldsSpecified(d)
}

// CompileFields flattens a selection into the "fields" parameter.
func CompileFields(sel Node, maxDepth int) (string, error) {
	return expand.CompileFields(sel, maxDepth)
}

// CompileExpand flattens expansion nodes into the "expand" parameter.
func CompileExpand(nodes []Node, maxDepth int) (string, error) {
	return expand.CompileExpand(nodes, maxDepth)
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	return options.IsValidationError(err)
}

// IsTooDeepOrCyclic reports whether err is an expansion depth or cycle
// violation.
func IsTooDeepOrCyclic(err error) bool {
	return expand.IsTooDeepOrCyclic(err)
}

// NewClient creates a Client over t.
func NewClient(t Transport, opts ...ClientOption) *Client {
	return client.New(t, opts...)
}

// WithCompiler sets the compiler record services use, and with it the depth
// bound.
func WithCompiler(c *Compiler) ClientOption {
	return client.WithCompiler(c)
}

// WithLogger sets the logger record services trace requests to.
func WithLogger(l *slog.Logger) ClientOption {
	return client.WithLogger(l)
}

// IsNotFound reports whether err is a 404 *ResponseError.
func IsNotFound(err error) bool {
	return client.IsNotFound(err)
}

// Body key modifiers for multi-value fields, e.g. Body{Add("tags"): "go"}.
var (
	Add     = client.Add
	Prepend = client.Prepend
	Remove  = client.Remove
)
