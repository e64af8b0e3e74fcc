package schemas

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// DocumentError is returned when a schema or data file cannot be read or parsed.
type DocumentError struct {
	Path    string
	Message string
	Cause   error
}

func (e *DocumentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// LoadDocument reads and parses a JSON document. Files ending in .yaml or
// .yml are decoded as YAML. JSON numbers keep their textual form.
func LoadDocument(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DocumentError{Path: path, Message: "failed to read file", Cause: err}
	}
	doc, err := ParseDocument(data, isYAML(path))
	if err != nil {
		return nil, &DocumentError{Path: path, Message: "failed to parse file", Cause: err}
	}
	return doc, nil
}

// ParseDocument parses JSON, or YAML when asYAML is set.
func ParseDocument(data []byte, asYAML bool) (any, error) {
	if asYAML {
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}

// FileURL returns the absolute file URL of path.
func FileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	if !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path
	}
	return u.String(), nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
