package options

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/recopt/internal/expand"
	"github.com/roach88/recopt/internal/filter"
)

const workedTraceFields = "id,title,expand.author.*," +
	"expand.author.expand.posts_via_author.id,expand.author.expand.posts_via_author.title," +
	"expand.comments_via_post.likes,expand.comments_via_post.message"

func workedTraceDescriptor() Descriptor {
	return Descriptor{
		"fields": []string{"id", "title"},
		"expand": []expand.Node{
			{Key: "author", Expand: []expand.Node{
				{Key: "posts_via_author", Fields: []string{"id", "title"}},
			}},
			{Key: "comments_via_post", Fields: []string{"likes", "message"}},
		},
	}
}

func TestProcess(t *testing.T) {
	tests := []struct {
		name string
		in   Descriptor
		want Descriptor
	}{
		{
			name: "fields without expand",
			in:   Descriptor{"fields": []string{"field1", "field2"}},
			want: Descriptor{"fields": "field1,field2"},
		},
		{
			name: "expand only omits fields",
			in: Descriptor{"expand": []expand.Node{
				{Key: "expand1"},
				{Key: "expand2"},
			}},
			want: Descriptor{"expand": "expand1,expand2"},
		},
		{
			name: "nested expand path",
			in: Descriptor{"expand": []expand.Node{
				{Key: "expand1", Expand: []expand.Node{{Key: "subexpand1"}}},
			}},
			want: Descriptor{"expand": "expand1.subexpand1"},
		},
		{
			name: "worked trace",
			in:   workedTraceDescriptor(),
			want: Descriptor{
				"fields": workedTraceFields,
				"expand": "author.posts_via_author,comments_via_post",
			},
		},
		{
			name: "null request key is kept",
			in:   Descriptor{"requestKey": nil},
			want: Descriptor{"requestKey": nil},
		},
		{
			name: "unset expand is removed",
			in:   Descriptor{"fields": []string{"field1"}, "expand": Unset},
			want: Descriptor{"fields": "field1"},
		},
		{
			name: "null expand is removed",
			in:   Descriptor{"fields": []string{"field1"}, "expand": nil},
			want: Descriptor{"fields": "field1"},
		},
		{
			name: "null filter and sort are kept",
			in:   Descriptor{"filter": nil, "sort": nil},
			want: Descriptor{"filter": nil, "sort": nil},
		},
		{
			name: "unset passthrough key is removed",
			in:   Descriptor{"page": 2, "requestKey": Unset},
			want: Descriptor{"page": 2},
		},
		{
			name: "string filter and sort pass through",
			in:   Descriptor{"filter": `title="foo"`, "sort": "-created"},
			want: Descriptor{"filter": `title="foo"`, "sort": "-created"},
		},
		{
			name: "passthrough keys survive",
			in: Descriptor{
				"fields":    []string{"id"},
				"page":      1,
				"perPage":   50,
				"skipTotal": true,
				"headers":   map[string]string{"X-Token": "abc"},
			},
			want: Descriptor{
				"fields":    "id",
				"page":      1,
				"perPage":   50,
				"skipTotal": true,
				"headers":   map[string]string{"X-Token": "abc"},
			},
		},
		{
			name: "empty expand list compiles to empty string",
			in:   Descriptor{"expand": []expand.Node{}},
			want: Descriptor{"expand": ""},
		},
		{
			name: "null fields compiles to empty projection",
			in:   Descriptor{"fields": nil, "requestKey": nil},
			want: Descriptor{"fields": "", "requestKey": nil},
		},
		{
			name: "null fields on expand node selects the relation",
			in:   Descriptor{"expand": []any{map[string]any{"key": "a", "fields": nil}}},
			want: Descriptor{"expand": "a", "fields": "*,expand.a"},
		},
		{
			name: "null fields with expand",
			in:   Descriptor{"fields": nil, "expand": []expand.Node{{Key: "a"}}},
			want: Descriptor{"expand": "a", "fields": "*,expand.*"},
		},
		{
			name: "fields key in passthrough value",
			in:   Descriptor{"headers": map[string]any{"fields": "x"}},
			want: Descriptor{"headers": map[string]any{"fields": "x"}, "fields": ""},
		},
		{
			name: "empty descriptor",
			in:   Descriptor{},
			want: Descriptor{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Process(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProcessNil(t *testing.T) {
	got, err := Process(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProcessFilterFunctions(t *testing.T) {
	d := Descriptor{
		"filter": filter.Func(func(h filter.Helpers) string {
			return h.And(h.Eq("title", `"foo"`), h.Between("likes", 5, 10))
		}),
		"sort": func(h filter.Helpers) string {
			return h.SortBy("-created", "title")
		},
	}

	got, err := Process(d)
	require.NoError(t, err)
	assert.Equal(t, `(title="foo"&&(likes>=5&&likes<=10))`, got["filter"])
	assert.Equal(t, "-created,title", got["sort"])
}

func TestProcessTemplateFilter(t *testing.T) {
	d := Descriptor{
		"filter": func(h filter.Helpers) string {
			return h.Template([]string{"title=", " && likes>", ""}, `"foo"`, 3)
		},
	}

	got, err := Process(d)
	require.NoError(t, err)
	assert.Equal(t, `title="foo" && likes>3`, got["filter"])
}

func TestProcessAlreadyCompiled(t *testing.T) {
	d := Descriptor{"fields": "a,b", "expand": "c,d"}

	got, err := Process(d)
	require.NoError(t, err)
	assert.Equal(t, Descriptor{"fields": "a,b", "expand": "c,d"}, got)
}

func TestProcessIdempotent(t *testing.T) {
	inputs := []Descriptor{
		workedTraceDescriptor(),
		{"fields": []string{"field1", "field2"}},
		{"expand": []expand.Node{{Key: "expand1"}}},
		{"filter": `a=1`, "requestKey": nil},
		{},
	}

	for _, in := range inputs {
		once, err := Process(in)
		require.NoError(t, err)
		twice, err := Process(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	}
}

func TestProcessDoesNotMutateInput(t *testing.T) {
	in := workedTraceDescriptor()
	in["requestKey"] = Unset
	before := in.Clone()

	_, err := Process(in)
	require.NoError(t, err)
	assert.Equal(t, before, in)
}

func TestProcessGenericInput(t *testing.T) {
	raw := `{
		"fields": ["id", "title"],
		"expand": [
			{"key": "author", "expand": [{"key": "posts_via_author", "fields": ["id", "title"]}]},
			{"key": "comments_via_post", "fields": ["likes", "message"]}
		],
		"sort": "-created"
	}`

	var d Descriptor
	require.NoError(t, json.Unmarshal([]byte(raw), &d))

	got, err := Process(d)
	require.NoError(t, err)
	assert.Equal(t, workedTraceFields, got["fields"])
	assert.Equal(t, "author.posts_via_author,comments_via_post", got["expand"])
	assert.Equal(t, "-created", got["sort"])
}

func TestProcessValidation(t *testing.T) {
	tests := []struct {
		name string
		in   Descriptor
		key  string
	}{
		{"fields not a list", Descriptor{"fields": 42}, KeyFields},
		{"expand not a list", Descriptor{"expand": map[string]any{"key": "a"}}, KeyExpand},
		{"filter wrong type", Descriptor{"filter": 12}, KeyFilter},
		{"sort wrong type", Descriptor{"sort": []string{"a"}}, KeySort},
		{"fields element not a string", Descriptor{"fields": []any{"a", 1}}, KeyFields},
		{"expand node without key", Descriptor{"expand": []any{map[string]any{"fields": []any{"a"}}}}, KeyExpand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Process(tt.in)
			require.Error(t, err)
			assert.True(t, IsValidationError(err))

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, ErrCodeInvalidOptions, ve.Code)
			assert.Equal(t, tt.key, ve.Key)
		})
	}
}

func TestProcessTooDeep(t *testing.T) {
	leaf := []expand.Node{{Key: "g"}}
	for _, k := range []string{"f", "e", "d", "c", "b", "a"} {
		leaf = []expand.Node{{Key: k, Expand: leaf}}
	}

	_, err := Process(Descriptor{"expand": leaf})
	require.Error(t, err)
	assert.True(t, expand.IsTooDeepOrCyclic(err))
	assert.False(t, IsValidationError(err))

	c := &Compiler{MaxDepth: 7}
	got, err := c.Process(Descriptor{"expand": leaf})
	require.NoError(t, err)
	assert.Equal(t, "a.b.c.d.e.f.g", got["expand"])
}

func TestProcessCyclicMaps(t *testing.T) {
	node := map[string]any{"key": "parent"}
	node["expand"] = []any{node}

	_, err := Process(Descriptor{"expand": []any{node}})
	require.Error(t, err)
	assert.True(t, expand.IsTooDeepOrCyclic(err))
}

func TestProcessSelfReferencingTree(t *testing.T) {
	nodes := make([]expand.Node, 1)
	nodes[0] = expand.Node{Key: "parent"}
	nodes[0].Expand = nodes

	_, err := Process(Descriptor{"expand": nodes})
	require.Error(t, err)
	assert.True(t, expand.IsTooDeepOrCyclic(err))

	_, err = Process(Descriptor{"fields": []string{"id"}, "expand": []any{nodes[0]}})
	require.Error(t, err)
	assert.True(t, expand.IsTooDeepOrCyclic(err))

	assert.False(t, HasFieldsSpecified(Descriptor{"expand": nodes}))
}

func TestHasFieldsSpecified_SelfReferencingPassthrough(t *testing.T) {
	m := map[string]any{"name": "loop"}
	m["self"] = m
	list := []any{nil}
	list[0] = list

	assert.False(t, HasFieldsSpecified(Descriptor{"meta": m, "list": list}))

	m["fields"] = nil
	assert.True(t, HasFieldsSpecified(Descriptor{"meta": m}))
}

func TestHasFieldsSpecified(t *testing.T) {
	tests := []struct {
		name string
		in   Descriptor
		want bool
	}{
		{"nil descriptor", nil, false},
		{"empty", Descriptor{}, false},
		{"top-level fields", Descriptor{"fields": []string{"id"}}, true},
		{"top-level empty fields", Descriptor{"fields": []string{}}, true},
		{"null fields", Descriptor{"fields": nil}, true},
		{"unset fields", Descriptor{"fields": Unset}, false},
		{"expand without fields", Descriptor{"expand": []expand.Node{{Key: "a"}}}, false},
		{"nested fields", Descriptor{"expand": []expand.Node{
			{Key: "a", Expand: []expand.Node{{Key: "b", Fields: []string{"id"}}}},
		}}, true},
		{"malformed expand", Descriptor{"expand": "a,b"}, false},
		{"null fields in expand node", Descriptor{"expand": []expand.Node{{Key: "a", FieldsNull: true}}}, true},
		{"generic node with null fields", Descriptor{"expand": []any{map[string]any{"key": "a", "fields": nil}}}, true},
		{"generic node without fields", Descriptor{"expand": []any{map[string]any{"key": "a"}}}, false},
		{"fields inside passthrough map", Descriptor{"headers": map[string]any{"fields": "x"}}, true},
		{"fields inside typed passthrough map", Descriptor{"query": map[string]string{"fields": "x"}}, true},
		{"fields inside passthrough list", Descriptor{"extra": []any{1, map[string]any{"fields": nil}}}, true},
		{"passthrough without fields", Descriptor{"headers": map[string]string{"X-Token": "abc"}}, false},
		{"unset fields in passthrough map", Descriptor{"headers": map[string]any{"fields": Unset}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasFieldsSpecified(tt.in))
		})
	}
}

func TestProcessFilter(t *testing.T) {
	out, err := ProcessFilter(func(h filter.Helpers) string {
		return h.AnyEq("tags.name", `"foo"`)
	})
	require.NoError(t, err)
	assert.Equal(t, `tags.name?="foo"`, out)

	out, err = ProcessFilter("a>1")
	require.NoError(t, err)
	assert.Equal(t, "a>1", out)

	out, err = ProcessFilter(nil)
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = ProcessFilter(3.5)
	assert.True(t, IsValidationError(err))
}

func TestIsCompiled(t *testing.T) {
	assert.True(t, IsCompiled(Descriptor{"fields": "a"}))
	assert.True(t, IsCompiled(Descriptor{"expand": "a"}))
	assert.False(t, IsCompiled(Descriptor{"fields": []string{"a"}}))
	assert.False(t, IsCompiled(Descriptor{"filter": "a=1"}))
}
