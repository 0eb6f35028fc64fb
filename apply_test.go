package j18n

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustJSON(t *testing.T, j *Joint) string {
	t.Helper()
	s, err := j.JSON()
	require.NoError(t, err)
	return s
}

func indented(t *testing.T, doc string) string {
	t.Helper()
	n, err := ParseJSON([]byte(doc))
	require.NoError(t, err)
	return n.Indent()
}

func TestApplyResultsRemovesArrayItem(t *testing.T) {
	ctx := context.Background()
	from := `{"arr":["x","y"],"k":"v"}`
	to := `{"arr":["y"],"k":"v"}`
	root, err := ParseDocument(from, true)
	require.NoError(t, err)

	results, err := Diff(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, []string{"arr[0]"}, results[0].RemovedProperties)

	rep, err := ApplyResults(ctx, root, results)
	require.NoError(t, err)
	assert.Equal(t, []string{"arr[0]"}, rep.Removed)
	arr := root.Child("arr")
	require.Equal(t, 1, arr.Len())
	assert.Equal(t, "[0]", arr.ChildAt(0).Key())
	assert.Equal(t, "y", arr.ChildAt(0).RawText())
	assert.JSONEq(t, to, mustJSON(t, root))
}

func TestApplyResultsUpdates(t *testing.T) {
	ctx := context.Background()
	root, err := ParseDocument(enUS, true)
	require.NoError(t, err)
	results, err := Diff(ctx, enUS, zhCN)
	require.NoError(t, err)

	rep, err := ApplyResults(ctx, root, results)
	require.NoError(t, err)
	assert.Len(t, rep.Updated, 13)
	assert.Empty(t, rep.Skipped)
	assert.Empty(t, rep.Removed)
	assert.Equal(t, indented(t, zhCN), mustJSON(t, root))
	assert.Equal(t, "张三", root.Child("nestedObject").Child("name").RawText())
}

func TestApplyResultsTypeChange(t *testing.T) {
	ctx := context.Background()
	from := `{"a":"text","b":{"c":1}}`
	to := `{"a":{"x":[1,2]},"b":[true]}`
	root, err := ParseDocument(from, true)
	require.NoError(t, err)
	results, err := Diff(ctx, from, to)
	require.NoError(t, err)

	rep, err := ApplyResults(ctx, root, results)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, rep.Updated)

	a := root.Child("a")
	assert.Equal(t, JointObject, a.Type())
	require.True(t, a.HasChildren())
	assert.Equal(t, 2, a.Child("x").Len())
	b := root.Child("b")
	assert.Equal(t, JointArray, b.Type())
	assert.Equal(t, "true", b.ChildAt(0).RawText())
	assert.Equal(t, indented(t, to), mustJSON(t, root))
}

func TestApplyResultsSkipsMissingPaths(t *testing.T) {
	ctx := context.Background()
	root, err := ParseDocument(`{"a":"1"}`, true)
	require.NoError(t, err)
	results := []*DiffResult{
		nil,
		{Type: KindObject, UpdatedProperties: map[string]*Node{"b": {Kind: StringNode, Str: "2"}}, RemovedProperties: []string{"zz"}},
	}
	rep, err := ApplyResults(ctx, root, results)
	require.NoError(t, err)
	assert.Equal(t, []string{"zz", "b"}, rep.Skipped)
	assert.Nil(t, root.Child("b"))
}

func TestApplyResultsInsertMissing(t *testing.T) {
	ctx := context.Background()
	from := `{"a":{"b":"1"},"l":["x"]}`
	root, err := ParseDocument(from, false)
	require.NoError(t, err)
	results := []*DiffResult{{
		Type: KindObject,
		UpdatedProperties: map[string]*Node{
			"a.c":  {Kind: StringNode, Str: "2"},
			"l[1]": {Kind: StringNode, Str: "y"},
			"l[5]": {Kind: StringNode, Str: "z"},
			"n":    {Kind: ObjectNode, Fields: []string{"k"}, Values: []*Node{{Kind: BoolNode, Str: "true"}}},
		},
	}}
	rep, err := ApplyResults(ctx, root, results, InsertMissing())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.c", "l[1]", "n"}, rep.Inserted)
	assert.Equal(t, []string{"l[5]"}, rep.Skipped)
	assert.JSONEq(t, `{"a":{"b":"1","c":"2"},"l":["x","y"],"n":{"k":true}}`, mustJSON(t, root))
	assert.Equal(t, "l[1]", root.Child("l").ChildAt(1).Path())
}

func TestApplyResultsOnLazyTree(t *testing.T) {
	ctx := context.Background()
	doc := `{"a":{"b":{"c":"1"}},"r":["x","y"]}`
	root, err := ParseDocument(doc, false)
	require.NoError(t, err)
	require.False(t, root.Child("a").HasChildren())
	results := []*DiffResult{{
		Type:              KindObject,
		UpdatedProperties: map[string]*Node{"a.b.c": {Kind: StringNode, Str: "2"}},
		RemovedProperties: []string{"r[0]"},
	}}

	rep, err := ApplyResults(ctx, root, results, InsertMissing())
	require.NoError(t, err)
	assert.Equal(t, []string{"r[0]", "a.b.c"}, rep.Skipped)
	assert.Empty(t, rep.Updated)
	assert.Empty(t, rep.Inserted)
	assert.Empty(t, rep.Removed)
	assert.JSONEq(t, doc, mustJSON(t, root))

	require.NoError(t, root.ParseRawText(true))
	rep, err = ApplyResults(ctx, root, results)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.b.c"}, rep.Updated)
	assert.Equal(t, []string{"r[0]"}, rep.Removed)
	assert.JSONEq(t, `{"a":{"b":{"c":"2"}},"r":["y"]}`, mustJSON(t, root))
}

func TestApplyResultsCancelled(t *testing.T) {
	root, err := ParseDocument(`{"a":"1"}`, true)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ApplyResults(ctx, root, []*DiffResult{{Type: KindValue, UpdatedProperties: map[string]*Node{"a": {Kind: StringNode, Str: "2"}}}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "1", root.Child("a").RawText())
}

func TestSyncJoint(t *testing.T) {
	ctx := context.Background()
	root, err := ParseDocument(nestedDoc, true)
	require.NoError(t, err)
	to := `{
  "title": "Datos",
  "users": [
    {"id": 1, "name": "John Doe", "email": "john.doe@example.com", "dateOfBirth": "1996-12-01", "active": false,
     "address": {"street": "123 Main St", "city": "Anytown", "zipCode": "12345", "country": "US"}},
    {"id": 2, "name": "Jane Smith", "email": "jane.smith@example.com", "dateOfBirth": "1980-05-01", "active": false,
     "address": {"street": "456 Elm St", "city": "Othertown", "zipCode": "67890"}}
  ],
  "orders": [],
  "version": 4,
  "locale": "es"
}`
	rep, err := SyncJoint(ctx, root, to)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"description", "orders[0]"}, rep.Removed)
	assert.ElementsMatch(t, []string{"locale", "users[0].address.country"}, rep.Inserted)
	assert.ElementsMatch(t, []string{"title", "users[0].active", "version"}, rep.Updated)
	assert.Equal(t, indented(t, to), mustJSON(t, root))
}
