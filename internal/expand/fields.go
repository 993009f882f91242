package expand

import "strings"

// CompileFields flattens a selection into the comma-joined "fields"
// parameter. sel is the top-level selection: its Key is ignored, its Fields
// are the record's own fields and its Expand the relations to embed.
//
// maxDepth <= 0 selects DefaultMaxDepth.
//
// Example:
//
//	CompileFields(Node{
//	    Fields: []string{"id", "title"},
//	    Expand: []Node{
//	        {Key: "author", Expand: []Node{{Key: "posts_via_author", Fields: []string{"id"}}}},
//	        {Key: "comments_via_post"},
//	    },
//	}, 0)
//
// yields
//
//	id,title,expand.author.*,expand.author.expand.posts_via_author.id,expand.comments_via_post
func CompileFields(sel Node, maxDepth int) (string, error) {
	c := &fieldsCompiler{maxDepth: resolveMaxDepth(maxDepth)}
	out, err := c.compile(sel, "", "", 0)
	if err != nil {
		return "", err
	}
	return out.fields, nil
}

// fieldsResult is the output of one bottom-up step.
type fieldsResult struct {
	fields string

	// specifiesFields is true when this node or any node below it has a
	// fields entry, null included. Parents use it to choose between descending and "expand.*".
	specifiesFields bool
}

type fieldsCompiler struct {
	maxDepth int
}

// compile builds the projection of n. prefix ends with "." below the top
// level so field names can be appended directly.
func (c *fieldsCompiler) compile(n Node, prefix, path string, depth int) (fieldsResult, error) {
	if depth > c.maxDepth {
		return fieldsResult{}, newTooDeepError(path, depth, c.maxDepth)
	}

	level := levelFields(n, prefix)

	if n.Expand == nil {
		return fieldsResult{fields: level, specifiesFields: n.specifiesFields()}, nil
	}

	children := make([]string, 0, len(n.Expand))
	below := false
	for _, child := range n.Expand {
		res, err := c.compile(child, prefix+"expand."+child.Key+".", joinPath(path, child.Key), depth+1)
		if err != nil {
			return fieldsResult{}, err
		}
		children = append(children, res.fields)
		below = below || res.specifiesFields
	}

	var out string
	if below {
		out = level + "," + strings.Join(children, ",")
	} else {
		// Nobody below asked for specific fields: one wildcard covers the
		// whole unexpanded subtree.
		out = level + "," + prefix + "expand.*"
	}

	return fieldsResult{fields: out, specifiesFields: below || n.specifiesFields()}, nil
}

// levelFields renders the fields owned directly by n.
func levelFields(n Node, prefix string) string {
	switch {
	case n.Fields != nil:
		parts := make([]string, len(n.Fields))
		for i, f := range n.Fields {
			parts[i] = prefix + f
		}
		return strings.Join(parts, ",")
	case n.Expand != nil:
		return prefix + "*"
	default:
		// An unfiltered leaf is selected whole by its relation path.
		return strings.TrimSuffix(prefix, ".")
	}
}
