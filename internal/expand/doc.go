// Package expand models relation expansion trees and compiles them into the
// flat dot-path strings a record store's list API expects.
//
// Two compilers walk the same tree:
//
//	CompileExpand  → "author.posts_via_author,comments_via_post"
//	CompileFields  → "id,title,expand.author.*,expand.author.expand.posts_via_author.id,..."
//
// PROJECTION RULE:
//
// CompileFields emits, per node, either the explicit field list, "<prefix>*"
// when the node expands further without listing fields, or the bare relation
// path for an unfiltered leaf. Below a node it then either descends (when any
// node anywhere in its expand subtree lists fields) or emits a single
// "<prefix>expand.*" wildcard for the whole unexpanded subtree. The "*" and
// "expand.*" wildcards live in different namespaces and can co-occur.
//
// The "fields anywhere below" predicate is computed bottom-up in the same pass
// that builds the strings, so each node is visited once.
//
// DEPTH BOUND:
//
// Trees deeper than the configured bound (DefaultMaxDepth) fail with a
// *TreeError. Node values form finite trees by construction; generic input
// decoded with Decode is additionally guarded against reference cycles.
package expand
