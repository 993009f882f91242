package expand

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postsSelection is the selection used throughout the projection tests.
func postsSelection() Node {
	return Node{
		Fields: []string{"id", "title"},
		Expand: []Node{
			{
				Key:    "author",
				Expand: []Node{{Key: "posts_via_author", Fields: []string{"id", "title"}}},
			},
			{Key: "comments_via_post", Fields: []string{"likes", "message"}},
		},
	}
}

func TestCompileFields_WorkedTrace(t *testing.T) {
	got, err := CompileFields(postsSelection(), 0)
	require.NoError(t, err)

	assert.Equal(t,
		"id,title,expand.author.*,expand.author.expand.posts_via_author.id,"+
			"expand.author.expand.posts_via_author.title,"+
			"expand.comments_via_post.likes,expand.comments_via_post.message",
		got)
}

func TestCompileFields(t *testing.T) {
	testCases := []struct {
		name string
		sel  Node
		want string
	}{
		{
			name: "fields only",
			sel:  Node{Fields: []string{"field1", "field2"}},
			want: "field1,field2",
		},
		{
			name: "modifiers pass through",
			sel:  Node{Fields: []string{"field1:excerpt(1)", "field2:excerpt(10,true)"}},
			want: "field1:excerpt(1),field2:excerpt(10,true)",
		},
		{
			name: "fields with unfiltered expand",
			sel: Node{
				Fields: []string{"field1", "field2"},
				Expand: []Node{{Key: "expand1"}},
			},
			want: "field1,field2,expand.*",
		},
		{
			name: "nested fields in expand",
			sel: Node{
				Fields: []string{"field1"},
				Expand: []Node{{
					Key:    "expand1",
					Fields: []string{"subfield1"},
					Expand: []Node{{Key: "subexpand1", Fields: []string{"subsubfield1"}}},
				}},
			},
			want: "field1,expand.expand1.subfield1,expand.expand1.expand.subexpand1.subsubfield1",
		},
		{
			name: "no top-level fields, fields below",
			sel: Node{
				Expand: []Node{{Key: "author", Fields: []string{"name"}}},
			},
			want: "*,expand.author.name",
		},
		{
			name: "unfiltered leaf next to filtered sibling",
			sel: Node{
				Fields: []string{"id"},
				Expand: []Node{
					{Key: "author"},
					{Key: "tags", Fields: []string{"name"}},
				},
			},
			want: "id,expand.author,expand.tags.name",
		},
		{
			name: "wildcard stops descent below an unfiltered subtree",
			sel: Node{
				Fields: []string{"id"},
				Expand: []Node{
					{Key: "author", Fields: []string{"name"}, Expand: []Node{
						{Key: "posts_via_author", Expand: []Node{{Key: "comments_via_post"}}},
					}},
				},
			},
			want: "id,expand.author.name,expand.author.expand.*",
		},
		{
			name: "ancestor without fields gets own wildcard",
			sel: Node{
				Fields: []string{"id"},
				Expand: []Node{{
					Key: "a",
					Expand: []Node{{
						Key:    "b",
						Expand: []Node{{Key: "c", Fields: []string{"x"}}},
					}},
				}},
			},
			want: "id,expand.a.*,expand.a.expand.b.*,expand.a.expand.b.expand.c.x",
		},
		{
			name: "empty expand list is still an expansion",
			sel:  Node{Fields: []string{"id"}, Expand: []Node{}},
			want: "id,expand.*",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CompileFields(tc.sel, 0)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

// rescanFields is the straightforward reading of the projection rule: it
// rescans the whole subtree at every level. CompileFields must agree with it.
func rescanFields(n Node, prefix string) string {
	var level string
	switch {
	case n.Fields != nil:
		parts := make([]string, len(n.Fields))
		for i, f := range n.Fields {
			parts[i] = prefix + f
		}
		level = strings.Join(parts, ",")
	case n.Expand != nil:
		level = prefix + "*"
	default:
		level = strings.TrimSuffix(prefix, ".")
	}
	if n.Expand == nil {
		return level
	}
	if !HasFields(n.Expand, 0) {
		return level + "," + prefix + "expand.*"
	}
	parts := []string{level}
	for _, child := range n.Expand {
		parts = append(parts, rescanFields(child, prefix+"expand."+child.Key+"."))
	}
	return strings.Join(parts, ",")
}

func TestCompileFields_MatchesRescan(t *testing.T) {
	selections := []Node{
		postsSelection(),
		{Fields: []string{"a"}},
		{Expand: []Node{{Key: "x"}, {Key: "y", Expand: []Node{{Key: "z", Fields: []string{"q"}}}}}},
		{Expand: []Node{{Key: "x", Expand: []Node{{Key: "y", Expand: []Node{{Key: "z"}}}}}}},
		{Fields: []string{}, Expand: []Node{{Key: "x", Fields: []string{}}}},
	}

	for i, sel := range selections {
		got, err := CompileFields(sel, 0)
		require.NoError(t, err, "selection %d", i)
		assert.Equal(t, rescanFields(sel, ""), got, "selection %d", i)
	}
}

func TestCompileExpand(t *testing.T) {
	testCases := []struct {
		name  string
		nodes []Node
		want  string
	}{
		{"flat", []Node{{Key: "expand1"}, {Key: "expand2"}}, "expand1,expand2"},
		{"nested", []Node{{Key: "expand1", Expand: []Node{{Key: "subexpand1"}}}}, "expand1.subexpand1"},
		{
			"mixed",
			[]Node{
				{Key: "author", Expand: []Node{{Key: "posts_via_author"}}},
				{Key: "comments_via_post"},
			},
			"author.posts_via_author,comments_via_post",
		},
		{
			"siblings below",
			[]Node{{Key: "a", Expand: []Node{{Key: "b"}, {Key: "c", Expand: []Node{{Key: "d"}}}}}},
			"a.b,a.c.d",
		},
		{"fields are ignored", postsSelection().Expand, "author.posts_via_author,comments_via_post"},
		{"empty", nil, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CompileExpand(tc.nodes, 0)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

// chain builds a linear expansion tree of the given depth.
func chain(depth int) []Node {
	if depth == 0 {
		return nil
	}
	return []Node{{Key: "rel", Expand: chain(depth - 1)}}
}

func TestDepthBound(t *testing.T) {
	t.Run("at the bound", func(t *testing.T) {
		nodes := chain(DefaultMaxDepth)
		_, err := CompileExpand(nodes, 0)
		require.NoError(t, err)
		_, err = CompileFields(Node{Expand: nodes}, 0)
		require.NoError(t, err)
	})

	t.Run("past the bound", func(t *testing.T) {
		nodes := chain(DefaultMaxDepth + 1)

		_, err := CompileExpand(nodes, 0)
		require.Error(t, err)
		assert.True(t, IsTooDeepOrCyclic(err))

		_, err = CompileFields(Node{Expand: nodes}, 0)
		require.Error(t, err)
		assert.True(t, IsTooDeepOrCyclic(err))

		var te *TreeError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, DefaultMaxDepth+1, te.Depth)
		assert.Equal(t, "rel.rel.rel.rel.rel.rel.rel", te.Path)
	})

	t.Run("custom bound", func(t *testing.T) {
		_, err := CompileExpand(chain(3), 2)
		assert.True(t, IsTooDeepOrCyclic(err))

		got, err := CompileExpand(chain(10), 10)
		require.NoError(t, err)
		assert.Equal(t, strings.TrimSuffix(strings.Repeat("rel.", 10), "."), got)
	})
}

func TestHasFieldsAndDepth(t *testing.T) {
	assert.False(t, HasFields(nil, 0))
	assert.False(t, HasFields([]Node{{Key: "foo"}}, 0))
	assert.True(t, HasFields([]Node{{Key: "foo", Fields: []string{"id"}}}, 0))
	assert.True(t, HasFields([]Node{{Key: "foo", FieldsNull: true}}, 0))
	assert.False(t, HasFields(chain(3), 0))
	assert.True(t, HasFields([]Node{{Key: "foo", Expand: []Node{{Key: "bar", Expand: []Node{{Key: "baz", Fields: []string{"id"}}}}}}}, 0))

	deep := []Node{{Key: "a", Expand: []Node{{Key: "b", Fields: []string{"id"}}}}}
	assert.False(t, HasFields(deep, 1))
	assert.True(t, HasFields(deep, 2))

	assert.Equal(t, 0, Depth(nil, DefaultMaxDepth))
	assert.Equal(t, 3, Depth(chain(3), DefaultMaxDepth))
	assert.Equal(t, 2, Depth(postsSelection().Expand, DefaultMaxDepth))
	assert.Equal(t, 3, Depth(chain(10), 2))
}

func TestSelfReferencingTree(t *testing.T) {
	nodes := make([]Node, 1)
	nodes[0] = Node{Key: "parent"}
	nodes[0].Expand = nodes

	assert.Equal(t, DefaultMaxDepth+1, Depth(nodes, DefaultMaxDepth))
	assert.False(t, HasFields(nodes, 0))

	_, err := Decode(nodes, 0)
	require.Error(t, err)
	assert.True(t, IsTooDeepOrCyclic(err))

	_, err = Decode([]any{nodes[0]}, 0)
	assert.True(t, IsTooDeepOrCyclic(err))

	_, err = CompileFields(Node{Expand: nodes}, 0)
	assert.True(t, IsTooDeepOrCyclic(err))

	_, err = CompileExpand(nodes, 0)
	assert.True(t, IsTooDeepOrCyclic(err))
}

func TestCompileFields_NullFields(t *testing.T) {
	got, err := CompileFields(Node{Expand: []Node{{Key: "a", FieldsNull: true}}}, 0)
	require.NoError(t, err)
	assert.Equal(t, "*,expand.a", got)

	got, err = CompileFields(Node{Expand: []Node{
		{Key: "a", FieldsNull: true, Expand: []Node{{Key: "b"}}},
		{Key: "c"},
	}}, 0)
	require.NoError(t, err)
	assert.Equal(t, "*,expand.a.*,expand.a.expand.*,expand.c", got)
}
