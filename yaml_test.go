package j18n

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func annotated(t *testing.T) *Joint {
	t.Helper()
	root, err := ParseDocument(`{"title":"Hello","menu":["Home","About"],"n":{"k":1}}`, true)
	require.NoError(t, err)
	root.Child("title").SetDescription("short")
	menu := root.Child("menu")
	menu.SetComment("Navigation")
	menu.ChildAt(1).SetDescription("second")
	return root
}

func TestYAMLKeepsCommentsAndOrder(t *testing.T) {
	out, err := annotated(t).YAML()
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "title: Hello # short\n")
	assert.Contains(t, s, "# Navigation\nmenu:\n")
	assert.Contains(t, s, "- About # second\n")
	assert.Less(t, strings.Index(s, "title:"), strings.Index(s, "menu:"))
	assert.Less(t, strings.Index(s, "menu:"), strings.Index(s, "n:"))
	assert.Contains(t, s, "k: 1\n")
}

func TestYAMLQuotesAmbiguousStrings(t *testing.T) {
	root, err := ParseDocument(`{"a":"true","b":"12","c":null,"d":1.5}`, true)
	require.NoError(t, err)
	out, err := root.YAML()
	require.NoError(t, err)
	var back map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, "true", back["a"])
	assert.Equal(t, "12", back["b"])
	assert.Nil(t, back["c"])
	assert.Equal(t, 1.5, back["d"])
}

func TestMarshalYAML(t *testing.T) {
	out, err := yaml.Marshal(annotated(t))
	require.NoError(t, err)
	assert.Contains(t, string(out), "title: Hello # short")
}

func TestYAMLRoundTrip(t *testing.T) {
	out, err := annotated(t).YAML()
	require.NoError(t, err)
	back, err := ParseYAMLDocument(out, true)
	require.NoError(t, err)
	assert.Equal(t, indented(t, `{"title":"Hello","menu":["Home","About"],"n":{"k":1}}`), mustJSON(t, back))

	assert.Equal(t, "short", back.Child("title").Description())
	assert.Equal(t, "Navigation", back.Child("menu").Comment())
	assert.Equal(t, "second", back.Child("menu").ChildAt(1).Description())
	assert.Empty(t, back.Child("menu").ChildAt(0).Description())
}

func TestParseYAMLDocumentMatchesJSON(t *testing.T) {
	root, err := ParseDocument(nestedDoc, true)
	require.NoError(t, err)
	out, err := root.YAML()
	require.NoError(t, err)

	n, err := ParseYAML(out)
	require.NoError(t, err)
	want, err := ParseJSON([]byte(nestedDoc))
	require.NoError(t, err)
	assert.Equal(t, want.Compact(), n.Compact())

	back, err := ParseYAMLDocument(out, false)
	require.NoError(t, err)
	assert.Equal(t, 5, back.Len())
	assert.False(t, back.Child("users").HasChildren())
	assert.Equal(t, want.Indent(), mustJSON(t, back))
}

func TestParseYAMLDocumentComments(t *testing.T) {
	doc := "title: Hello # shown in header\n" +
		"# main navigation\n" +
		"menu:\n" +
		"  - Home\n" +
		"  - About # second page\n"
	root, err := ParseYAMLDocument([]byte(doc), true)
	require.NoError(t, err)
	assert.Equal(t, "shown in header", root.Child("title").Description())
	assert.Equal(t, "main navigation", root.Child("menu").Comment())
	assert.Equal(t, "second page", root.Child("menu").ChildAt(1).Description())
}

func TestParseYAMLErrors(t *testing.T) {
	_, err := ParseYAMLDocument([]byte("a: [1, 2\n"), false)
	assert.Error(t, err)
}
