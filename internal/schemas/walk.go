package schemas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// WalkPath follows path through doc and returns every value visited,
// starting with doc itself. The walk stops early at the first element that
// does not resolve.
func WalkPath(doc any, path []string) []any {
	visited := []any{doc}
	cur := doc
	for _, tok := range path {
		next, ok := step(cur, tok)
		if !ok {
			break
		}
		visited = append(visited, next)
		cur = next
	}
	return visited
}

// Grandparent returns the container two levels above the last visited value.
// For walks shorter than that it returns the root.
func Grandparent(visited []any) any {
	if len(visited) == 0 {
		return nil
	}
	i := len(visited) - 3
	if i < 0 {
		i = 0
	}
	return visited[i]
}

func step(v any, tok string) (any, bool) {
	switch c := v.(type) {
	case map[string]any:
		next, ok := c[tok]
		return next, ok
	case map[any]any:
		next, ok := c[tok]
		return next, ok
	case []any:
		i, err := strconv.Atoi(tok)
		if err != nil || i < 0 || i >= len(c) {
			return nil, false
		}
		return c[i], true
	}
	return nil, false
}

// RenderPath quotes each element and joins them with ", ".
func RenderPath(path []string) string {
	quoted := make([]string, len(path))
	for i, p := range path {
		quoted[i] = `"` + p + `"`
	}
	return strings.Join(quoted, ", ")
}

// Truncate returns the first n characters of s.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// MarshalIndent renders v as JSON indented with four spaces, without HTML
// escaping. Values JSON cannot represent are rendered with %v.
func MarshalIndent(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// pointerTokens splits a JSON pointer (optionally URL-escaped, as found in
// URL fragments) into unescaped reference tokens.
func pointerTokens(ptr string) []string {
	if unescaped, err := url.PathUnescape(ptr); err == nil {
		ptr = unescaped
	}
	ptr = strings.TrimPrefix(ptr, "#")
	if ptr == "" || ptr == "/" {
		return nil
	}
	parts := strings.Split(strings.TrimPrefix(ptr, "/"), "/")
	for i, p := range parts {
		p = strings.ReplaceAll(p, "~1", "/")
		parts[i] = strings.ReplaceAll(p, "~0", "~")
	}
	return parts
}

// resolvePointer returns the value at ptr inside doc.
func resolvePointer(doc any, ptr string) (any, bool) {
	cur := doc
	for _, tok := range pointerTokens(ptr) {
		next, ok := step(cur, tok)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}
