package expand

import "strings"

// CompileExpand flattens nodes into the comma-joined "expand" parameter,
// one dot path per leaf-to-root chain. A node that expands further
// contributes only its descendants' full paths.
//
//	[{author [{posts_via_author}]}, {comments_via_post}]
//	→ "author.posts_via_author,comments_via_post"
//
// maxDepth <= 0 selects DefaultMaxDepth.
func CompileExpand(nodes []Node, maxDepth int) (string, error) {
	return compileExpand(nodes, "", "", 1, resolveMaxDepth(maxDepth))
}

func compileExpand(nodes []Node, prefix, path string, depth, maxDepth int) (string, error) {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		nodePath := joinPath(path, n.Key)
		if depth > maxDepth {
			return "", newTooDeepError(nodePath, depth, maxDepth)
		}

		if n.Expand == nil {
			parts = append(parts, prefix+n.Key)
			continue
		}

		sub, err := compileExpand(n.Expand, prefix+n.Key+".", nodePath, depth+1, maxDepth)
		if err != nil {
			return "", err
		}
		parts = append(parts, sub)
	}
	return strings.Join(parts, ","), nil
}
