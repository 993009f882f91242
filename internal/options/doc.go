// Package options normalizes option descriptors into the flat parameters a
// record store's list and view endpoints accept.
//
// A Descriptor is built by application code per request:
//
//	d := options.Descriptor{
//	    "fields": []string{"id", "title"},
//	    "expand": []expand.Node{
//	        {Key: "author", Expand: []expand.Node{{Key: "posts_via_author", Fields: []string{"id"}}}},
//	    },
//	    "filter": filter.Func(func(h filter.Helpers) string { return h.Eq("title", filter.Quote("foo")) }),
//	    "sort":   "-created",
//	    "requestKey": nil,
//	}
//
// Process compiles it into
//
//	{"fields": "id,title,expand.author.*,expand.author.expand.posts_via_author.id",
//	 "expand": "author.posts_via_author", "filter": `title="foo"`,
//	 "sort": "-created", "requestKey": nil}
//
// UNDEFINED VS NULL:
//
// A key holding Unset is treated as not supplied and is removed from the
// result. A key holding nil is an explicit null and is kept: requestKey: nil
// tells the client to disable request de-duplication, which is different from
// leaving it out.
//
// IDEMPOTENCY:
//
// A descriptor whose "fields" or "expand" is already a string is considered
// compiled and is returned unchanged, so compiling twice is a no-op.
//
// Process is pure: it never mutates its input and holds no state, so it is
// safe for concurrent use.
package options
