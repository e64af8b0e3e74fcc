package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonathan/wpss-validators/internal/cliexit"
	"github.com/jonathan/wpss-validators/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testdata(name string) string {
	return filepath.Join("..", "..", "internal", "schemas", "testdata", name)
}

// runCommand executes a fresh root command and returns stdout, stderr and
// the resulting exit status.
func runCommand(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	for _, name := range []string{config.EnvMaxErrors, config.EnvEngine, config.EnvVerbose} {
		t.Setenv(name, "")
	}

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	code := cliexit.Report(&stderr, cmd.Execute())
	return stdout.String(), stderr.String(), code
}

func TestSchemaValidator_MissingArguments(t *testing.T) {
	tests := [][]string{
		{},
		{"schema.json"},
	}

	for _, args := range tests {
		t.Run(strings.Join(args, ","), func(t *testing.T) {
			out, errOut, code := runCommand(t, args...)
			assert.Equal(t, usageText, out)
			assert.Empty(t, errOut)
			assert.Equal(t, cliexit.Usage, code)
		})
	}
}

func TestSchemaValidator_MissingArgumentsReadsNothing(t *testing.T) {
	// The config file does not exist; reading it would fail the run.
	out, _, code := runCommand(t, "--config", "/nonexistent/config.json", "schema.json")
	assert.Equal(t, usageText, out)
	assert.Equal(t, cliexit.Usage, code)
}

func TestSchemaValidator_Passed(t *testing.T) {
	for _, engine := range []string{"santhosh", "gojsonschema"} {
		t.Run(engine, func(t *testing.T) {
			out, _, code := runCommand(t, "--engine", engine, testdata("list.schema.json"), testdata("valid_list.json"))
			assert.Equal(t, "Validation Passed\n", out)
			assert.Equal(t, cliexit.OK, code)
		})
	}
}

func TestSchemaValidator_YAML(t *testing.T) {
	out, _, code := runCommand(t, testdata("list.schema.yaml"), testdata("valid_list.yml"))
	assert.Equal(t, "Validation Passed\n", out)
	assert.Equal(t, cliexit.OK, code)
}

func TestSchemaValidator_WrongType(t *testing.T) {
	out, _, code := runCommand(t, testdata("list.schema.json"), testdata("wrong_type.json"))
	assert.Equal(t, cliexit.OK, code)

	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 6)
	assert.True(t, strings.HasPrefix(lines[0], "Validation Error # 1 :  "))
	assert.Equal(t, strings.Repeat("=", 68), lines[1])
	assert.Equal(t, `Schema path: "definitions", "item", "properties", "name"`, lines[2])
	assert.Contains(t, out, "Schema: {\n    \"type\": \"string\"\n}\n")
	assert.Contains(t, out, "JSON data path: \"items\", \"0\", \"name\"\n")
	assert.Contains(t, out, "JSON content:\n[\n    {\n        \"name\": 5\n    }\n]\n\n")
	assert.NotContains(t, out, "Validation Passed")
}

func TestSchemaValidator_GojsonschemaSchemaPath(t *testing.T) {
	out, _, code := runCommand(t, "--engine", "gojsonschema", testdata("list.schema.json"), testdata("wrong_type.json"))
	assert.Equal(t, cliexit.OK, code)
	assert.Contains(t, out, `Schema path: "properties", "items", "items", "properties", "name"`+"\n")
}

func TestSchemaValidator_MaxErrors(t *testing.T) {
	tests := []struct {
		name       string
		max        string
		wantBlocks int
		wantCode   int
		wantCutoff bool
	}{
		{"unlimited", "0", 5, cliexit.OK, false},
		{"cutoff", "2", 2, cliexit.Failure, true},
		{"cap equals count", "5", 5, cliexit.OK, false},
		{"cap above count", "9", 5, cliexit.OK, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, code := runCommand(t, testdata("list.schema.json"), testdata("many_errors.json"), tt.max)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantBlocks, strings.Count(out, "Validation Error #"))
			assert.NotContains(t, out, "Validation Passed")
			if tt.wantCutoff {
				assert.True(t, strings.HasSuffix(out, "\nToo many errors detected, aborting validator\n"))
			} else {
				assert.NotContains(t, out, "Too many errors")
			}
		})
	}
}

func TestSchemaValidator_MaxErrorsFromConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"max_errors": 1}`), 0644))

	out, _, code := runCommand(t, "--config", cfgPath, testdata("list.schema.json"), testdata("many_errors.json"))
	assert.Equal(t, cliexit.Failure, code)
	assert.Equal(t, 1, strings.Count(out, "Validation Error #"))
}

func TestSchemaValidator_InvalidMaxErrors(t *testing.T) {
	for _, arg := range []string{"many", "-1"} {
		t.Run(arg, func(t *testing.T) {
			out, errOut, code := runCommand(t, "--", testdata("list.schema.json"), testdata("valid_list.json"), arg)
			assert.Empty(t, out)
			assert.Contains(t, errOut, "max errors must be a non-negative integer")
			assert.Equal(t, cliexit.Usage, code)
		})
	}
}

func TestSchemaValidator_MalformedData(t *testing.T) {
	out, errOut, code := runCommand(t, testdata("list.schema.json"), testdata("malformed.json"))
	assert.Empty(t, out)
	assert.Contains(t, errOut, "malformed.json")
	assert.Equal(t, cliexit.Failure, code)
}

func TestSchemaValidator_MissingSchemaFile(t *testing.T) {
	out, errOut, code := runCommand(t, "/nonexistent/schema.json", testdata("valid_list.json"))
	assert.Empty(t, out)
	assert.Contains(t, errOut, "/nonexistent/schema.json")
	assert.Equal(t, cliexit.Failure, code)
}

func TestSchemaValidator_InvalidSchema(t *testing.T) {
	schemaPath := filepath.Join(t.TempDir(), "bad.schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{"type": 12}`), 0644))

	out, errOut, code := runCommand(t, schemaPath, testdata("valid_list.json"))
	assert.Empty(t, out)
	assert.Contains(t, errOut, "bad.schema.json")
	assert.Equal(t, cliexit.Failure, code)
}

func TestSchemaValidator_UnknownEngine(t *testing.T) {
	_, errOut, code := runCommand(t, "--engine", "ajv", testdata("list.schema.json"), testdata("valid_list.json"))
	assert.Contains(t, errOut, "unknown schema engine")
	assert.Equal(t, cliexit.Usage, code)
}

func TestSchemaValidator_Verbose(t *testing.T) {
	out, errOut, code := runCommand(t, "--verbose", testdata("list.schema.json"), testdata("wrong_type.json"))
	assert.Equal(t, cliexit.OK, code)
	assert.Contains(t, errOut, "SCHEMA VALIDATION")
	assert.Contains(t, errOut, "schema compiled")
	assert.NotContains(t, out, "SCHEMA VALIDATION")
	assert.NotContains(t, out, "schema compiled")
}

func TestSchemaValidator_UnknownFlag(t *testing.T) {
	_, _, code := runCommand(t, "--strict", testdata("list.schema.json"), testdata("valid_list.json"))
	assert.Equal(t, cliexit.Usage, code)
}

func TestParseMaxErrors(t *testing.T) {
	n, err := parseMaxErrors("3")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = parseMaxErrors("-2")
	require.Error(t, err)
	assert.Equal(t, cliexit.Usage, cliexit.Code(err))
}
