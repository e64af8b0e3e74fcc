package schemas

import (
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// gojsonschemaEngine validates with github.com/xeipuuv/gojsonschema. That
// engine reports only the data location of an error, so the schema location
// is reconstructed by walking the schema along the data path.
type gojsonschemaEngine struct{}

type gojsonschemaValidator struct {
	schema *gojsonschema.Schema
	doc    any
}

func (gojsonschemaEngine) Compile(location string, doc any) (Validator, error) {
	sl := gojsonschema.NewSchemaLoader()
	sl.Draft = gojsonschema.Draft4
	sl.AutoDetect = false

	schema, err := sl.Compile(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, &SchemaLoadError{Path: location, Message: "failed to compile schema", Cause: err}
	}
	return &gojsonschemaValidator{schema: schema, doc: doc}, nil
}

func (v *gojsonschemaValidator) Validate(data any) ([]Finding, error) {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return nil, err
	}
	if result.Valid() {
		return nil, nil
	}

	findings := make([]Finding, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		path := contextPath(re.Context())
		schemaPath, sub := locateSchema(v.doc, path)
		schemaPath = append(schemaPath, keywordFor(re.Type()))
		findings = append(findings, Finding{
			Message:    re.Description(),
			SchemaPath: schemaPath,
			Path:       path,
			Schema:     sub,
		})
	}
	return findings, nil
}

const (
	contextDelimiter = "\x1f"
	contextRoot      = "(root)"
)

// contextPath converts a gojsonschema context such as (root).items.0 into
// path elements.
func contextPath(ctx *gojsonschema.JsonContext) []string {
	if ctx == nil {
		return nil
	}
	parts := strings.Split(ctx.String(contextDelimiter), contextDelimiter)
	if len(parts) > 0 && parts[0] == contextRoot {
		parts = parts[1:]
	}
	return parts
}

// maxRefDepth bounds $ref chains while reconstructing schema locations.
const maxRefDepth = 32

// locateSchema follows the data path through properties, items and
// additionalProperties, dereferencing local $refs, and returns the schema
// path walked together with the subschema reached.
func locateSchema(root any, path []string) ([]string, any) {
	node := deref(root, root)
	schemaPath := []string{}
	for _, tok := range path {
		m, ok := node.(map[string]any)
		if !ok {
			break
		}
		if props, ok := m["properties"].(map[string]any); ok {
			if sub, ok := props[tok]; ok {
				schemaPath = append(schemaPath, "properties", tok)
				node = deref(root, sub)
				continue
			}
		}
		if items, ok := m["items"]; ok {
			switch it := items.(type) {
			case map[string]any:
				schemaPath = append(schemaPath, "items")
				node = deref(root, it)
				continue
			case []any:
				if i, err := strconv.Atoi(tok); err == nil && i >= 0 && i < len(it) {
					schemaPath = append(schemaPath, "items", tok)
					node = deref(root, it[i])
					continue
				}
			}
		}
		if ap, ok := m["additionalProperties"].(map[string]any); ok {
			schemaPath = append(schemaPath, "additionalProperties")
			node = deref(root, ap)
			continue
		}
		break
	}
	return schemaPath, node
}

func deref(root, node any) any {
	for i := 0; i < maxRefDepth; i++ {
		m, ok := node.(map[string]any)
		if !ok {
			return node
		}
		ref, ok := m["$ref"].(string)
		if !ok || !strings.HasPrefix(ref, "#") {
			return node
		}
		target, ok := resolvePointer(root, ref)
		if !ok {
			return node
		}
		node = target
	}
	return node
}

// keywords maps gojsonschema error types to the Draft-4 keyword that raised them.
var keywords = map[string]string{
	"required":                        "required",
	"invalid_type":                    "type",
	"number_any_of":                   "anyOf",
	"number_one_of":                   "oneOf",
	"number_all_of":                   "allOf",
	"number_not":                      "not",
	"missing_dependency":              "dependencies",
	"const":                           "const",
	"enum":                            "enum",
	"array_no_additional_items":       "additionalItems",
	"array_min_items":                 "minItems",
	"array_max_items":                 "maxItems",
	"unique":                          "uniqueItems",
	"contains":                        "contains",
	"array_min_properties":            "minProperties",
	"array_max_properties":            "maxProperties",
	"additional_property_not_allowed": "additionalProperties",
	"invalid_property_pattern":        "patternProperties",
	"invalid_property_name":           "propertyNames",
	"string_gte":                      "minLength",
	"string_lte":                      "maxLength",
	"pattern":                         "pattern",
	"multiple_of":                     "multipleOf",
	"number_gte":                      "minimum",
	"number_gt":                       "minimum",
	"number_lte":                      "maximum",
	"number_lt":                       "maximum",
	"format":                          "format",
	"condition_then":                  "then",
	"condition_else":                  "else",
	"false":                           "false",
}

func keywordFor(errType string) string {
	if kw, ok := keywords[errType]; ok {
		return kw
	}
	return errType
}
