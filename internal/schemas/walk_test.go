package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalkPath(t *testing.T) {
	doc := map[string]any{
		"items": []any{
			map[string]any{"name": "a"},
		},
	}

	visited := WalkPath(doc, []string{"items", "0", "name"})
	assert.Len(t, visited, 4)
	assert.Equal(t, "a", visited[3])
	assert.Equal(t, doc["items"], Grandparent(visited))
}

func TestWalkPath_StopsAtMissingElement(t *testing.T) {
	doc := map[string]any{"items": []any{}}

	visited := WalkPath(doc, []string{"items", "3", "name"})
	assert.Len(t, visited, 2)
}

func TestGrandparent_ShortPaths(t *testing.T) {
	doc := map[string]any{"name": "x"}

	assert.Equal(t, doc, Grandparent(WalkPath(doc, nil)))
	assert.Equal(t, doc, Grandparent(WalkPath(doc, []string{"name"})))
	assert.Nil(t, Grandparent(nil))
}

func TestWalkPath_YAMLMaps(t *testing.T) {
	doc := map[any]any{"a": map[any]any{"b": 1}}
	visited := WalkPath(doc, []string{"a", "b"})
	assert.Equal(t, []any{doc, doc["a"], 1}, visited)
}

func TestRenderPath(t *testing.T) {
	assert.Equal(t, `"items", "0", "name"`, RenderPath([]string{"items", "0", "name"}))
	assert.Equal(t, `"only"`, RenderPath([]string{"only"}))
	assert.Equal(t, "", RenderPath(nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "éé", Truncate("ééé", 2))
}

func TestMarshalIndent(t *testing.T) {
	assert.Equal(t, "{\n    \"type\": \"string\"\n}", MarshalIndent(map[string]any{"type": "string"}))
	assert.Equal(t, `"<b>"`, MarshalIndent("<b>"))
	assert.Equal(t, "null", MarshalIndent(nil))
}

func TestPointerTokens(t *testing.T) {
	assert.Equal(t, []string{"definitions", "a/b", "c~d"}, pointerTokens("/definitions/a~1b/c~0d"))
	assert.Equal(t, []string{"properties", "first name"}, pointerTokens("/properties/first%20name"))
	assert.Nil(t, pointerTokens(""))
}
