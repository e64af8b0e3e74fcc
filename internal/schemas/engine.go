package schemas

import (
	"fmt"
	"sort"
	"strings"
)

// Finding is one schema validation error, located in both documents.
type Finding struct {
	Message string
	// SchemaPath locates the failing keyword in the schema; the last element
	// is the keyword itself.
	SchemaPath []string
	// Path locates the failing value in the data document.
	Path []string
	// Schema is the subschema holding the failing keyword, nil when it
	// cannot be resolved.
	Schema any
}

// Engine compiles Draft-4 schemas.
type Engine interface {
	// Compile builds a validator from a parsed schema document. location
	// names the schema in error messages and reference resolution.
	Compile(location string, doc any) (Validator, error)
}

// Validator checks data documents against a compiled schema.
type Validator interface {
	// Validate returns the findings for data in engine order. A nil slice
	// means data is valid.
	Validate(data any) ([]Finding, error)
}

// DefaultEngine is the engine used when none is named.
const DefaultEngine = "santhosh"

// Engines maps engine names to implementations.
var Engines = map[string]Engine{
	"santhosh":     santhoshEngine{},
	"gojsonschema": gojsonschemaEngine{},
}

// LookupEngine returns the engine registered under name.
func LookupEngine(name string) (Engine, error) {
	if name == "" {
		name = DefaultEngine
	}
	e, ok := Engines[name]
	if !ok {
		names := make([]string, 0, len(Engines))
		for n := range Engines {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown schema engine %q (expected one of %s)", name, strings.Join(names, ", "))
	}
	return e, nil
}
