// Package schemas holds the JSON Schemas shipped with the validators.
package schemas

import _ "embed"

// ConfigSchema is the schema for validator configuration files.
//
//go:embed config.schema.json
var ConfigSchema []byte
