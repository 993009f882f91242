package expand

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDecode_JSON(t *testing.T) {
	src := `[
		{"key": "author", "expand": [{"key": "posts_via_author", "fields": ["id", "title"]}]},
		{"key": "comments_via_post", "fields": ["likes", "message"]}
	]`

	var raw any
	require.NoError(t, json.Unmarshal([]byte(src), &raw))

	nodes, err := Decode(raw, 0)
	require.NoError(t, err)
	assert.Equal(t, postsSelection().Expand, nodes)
}

func TestDecode_YAML(t *testing.T) {
	src := `
- key: author
  expand:
    - key: posts_via_author
      fields: [id, title]
- key: comments_via_post
  fields: [likes, message]
`
	var raw any
	require.NoError(t, yaml.Unmarshal([]byte(src), &raw))

	nodes, err := Decode(raw, 0)
	require.NoError(t, err)
	assert.Equal(t, postsSelection().Expand, nodes)
}

func TestDecode_TypedInput(t *testing.T) {
	nodes := postsSelection().Expand

	got, err := Decode(nodes, 0)
	require.NoError(t, err)
	assert.Equal(t, nodes, got)

	got, err = Decode([]any{nodes[0], map[string]any{"key": "tags"}}, 0)
	require.NoError(t, err)
	assert.Equal(t, []Node{nodes[0], {Key: "tags"}}, got)

	got, err = Decode([]map[string]any{{"key": "tags", "fields": []string{"name"}}}, 0)
	require.NoError(t, err)
	assert.Equal(t, []Node{{Key: "tags", Fields: []string{"name"}}}, got)

	got, err = Decode(nil, 0)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDecode_FieldsPresence(t *testing.T) {
	nodes, err := Decode([]any{
		map[string]any{"key": "a"},
		map[string]any{"key": "b", "fields": nil},
		map[string]any{"key": "c", "fields": []any{}},
		map[string]any{"key": "d", "expand": []any{}},
	}, 0)
	require.NoError(t, err)
	require.Len(t, nodes, 4)

	assert.Nil(t, nodes[0].Fields)
	assert.False(t, nodes[0].FieldsNull)
	assert.Nil(t, nodes[1].Fields)
	assert.True(t, nodes[1].FieldsNull)
	assert.False(t, nodes[2].FieldsNull)
	assert.NotNil(t, nodes[2].Fields)
	assert.Empty(t, nodes[2].Fields)
	assert.NotNil(t, nodes[3].Expand)
}

func TestDecode_Errors(t *testing.T) {
	testCases := []struct {
		name string
		in   any
		code TreeErrorCode
	}{
		{"not a list", "author", ErrCodeInvalidNode},
		{"element not an object", []any{"author"}, ErrCodeInvalidNode},
		{"missing key", []any{map[string]any{"fields": []any{"id"}}}, ErrCodeInvalidNode},
		{"non-string key", []any{map[string]any{"key": 1}}, ErrCodeInvalidNode},
		{"fields not a list", []any{map[string]any{"key": "a", "fields": "id"}}, ErrCodeInvalidNode},
		{"non-string field", []any{map[string]any{"key": "a", "fields": []any{"id", 2}}}, ErrCodeInvalidNode},
		{"nested expand not a list", []any{map[string]any{"key": "a", "expand": "b"}}, ErrCodeInvalidNode},
		{"typed tree too deep", chain(DefaultMaxDepth + 1), ErrCodeTooDeepOrCyclic},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.in, 0)
			require.Error(t, err)

			var te *TreeError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tc.code, te.Code)
		})
	}
}

func TestDecode_Cycle(t *testing.T) {
	self := map[string]any{"key": "parent"}
	self["expand"] = []any{self}

	_, err := Decode([]any{self}, 100)
	require.Error(t, err)
	assert.True(t, IsTooDeepOrCyclic(err))

	var te *TreeError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "parent.parent", te.Path)
	assert.Contains(t, te.Error(), "ancestor")
}

func TestDecode_SharedSubtreeIsNotACycle(t *testing.T) {
	shared := map[string]any{"key": "author"}

	nodes, err := Decode([]any{
		map[string]any{"key": "a", "expand": []any{shared}},
		map[string]any{"key": "b", "expand": []any{shared}},
	}, 0)
	require.NoError(t, err)

	got, err := CompileExpand(nodes, 0)
	require.NoError(t, err)
	assert.Equal(t, "a.author,b.author", got)
}

func TestDecode_TooDeep(t *testing.T) {
	var build func(depth int) []any
	build = func(depth int) []any {
		if depth == 0 {
			return nil
		}
		m := map[string]any{"key": "rel"}
		if sub := build(depth - 1); sub != nil {
			m["expand"] = sub
		}
		return []any{m}
	}

	_, err := Decode(build(DefaultMaxDepth), 0)
	require.NoError(t, err)

	_, err = Decode(build(DefaultMaxDepth+1), 0)
	assert.True(t, IsTooDeepOrCyclic(err))
}

func TestNodeMarshalJSONKeepsEmptyLists(t *testing.T) {
	nodes := []Node{
		{Key: "a"},
		{Key: "b", Fields: []string{}},
		{Key: "c", Expand: []Node{}},
	}

	data, err := json.Marshal(nodes)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"key":"a"},{"key":"b","fields":[]},{"key":"c","expand":[]}]`, string(data))

	var generic []any
	require.NoError(t, json.Unmarshal(data, &generic))
	back, err := Decode(generic, 0)
	require.NoError(t, err)
	assert.Equal(t, nodes, back)
}
