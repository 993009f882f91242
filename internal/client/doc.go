// Package client is a typed facade over a record API transport.
//
// Every RecordService method normalizes its options with options.Process
// before handing the request to the Transport, so callers pass structured
// field selections, expansion trees and filter builders and the transport
// only ever sees flat query strings:
//
//	c := client.New(transport)
//	posts, err := c.Collection("posts").GetList(ctx, 1, 20, options.Descriptor{
//		"expand": []expand.Node{{Key: "author", Fields: []string{"name"}}},
//		"filter": func(h filter.Helpers) string { return h.Gt("likes", 10) },
//	})
//
// The package performs no network I/O of its own. Transport implementations
// own HTTP, authentication and realtime connections.
package client
