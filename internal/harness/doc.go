// Package harness runs descriptor compilation scenarios.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: worked_trace
//	description: "Mixed fields and expansions"
//	schema: ../schema          # optional CUE schema directory
//	collection: posts          # required with schema
//	max_depth: 6               # optional, default 6
//	input:
//	  fields: [id, title]
//	  expand:
//	    - key: author
//	      expand:
//	        - key: posts_via_author
//	          fields: [id, title]
//	  requestKey: ~             # null is kept
//	  sort: !unset              # undefined is dropped
//	expect:
//	  fields: "id,title,expand.author.*,..."
//	  expand: "author.posts_via_author"
//	absent: [filter]
//
// A scenario that should fail names the error code instead of expect:
//
//	expect_error: TOO_DEEP_OR_CYCLIC
//
// and one checked against a schema may list the issue codes it expects:
//
//	expect_issues: [UNKNOWN_FIELD]
//
// # Execution
//
// Each scenario compiles its input once, checks the output, checks that
// compiling the output again changes nothing, records the compilation in an
// in-memory compile log and replays the log. The result is deterministic,
// so RunWithGolden can compare it against testdata/golden/<name>.golden.
package harness
