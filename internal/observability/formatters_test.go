package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jonathan/wpss-validators/internal/feed"
	"github.com/jonathan/wpss-validators/internal/schemas"
	"github.com/stretchr/testify/assert"
)

func TestPrintFeedRun(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintFeedRun(&FeedRun{
		Link:     "http://example.com/feed.xml",
		FeedType: "RSS",
		Level:    "AA",
		Events: []feed.Event{
			{Type: feed.TypeMissingElement, Level: feed.Error},
			{Type: feed.TypeMissingGUID, Level: feed.Warning},
			{Type: feed.TypeMissingOptional, Level: feed.Info},
			{Type: feed.TypeMissingOptional, Level: feed.Info},
		},
		Reported: 2,
	})
	output := buf.String()

	assert.Contains(t, output, "FEED VALIDATION")
	assert.Contains(t, output, "http://example.com/feed.xml")
	assert.Contains(t, output, "remote")
	assert.Contains(t, output, "Errors:   1")
	assert.Contains(t, output, "Info:     2")
	assert.Contains(t, output, "Reported: 2 of 4")
}

func TestPrintFeedRun_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintFeedRun(nil)

	assert.Empty(t, buf.String())
}

func TestPrintSchemaRun(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	findings := make([]schemas.Finding, 7)
	for i := range findings {
		findings[i] = schemas.Finding{Message: "expected string"}
	}

	p.PrintSchemaRun(&SchemaRun{
		SchemaFile: "list.schema.json",
		DataFile:   "list.json",
		Engine:     "santhosh",
		MaxErrors:  3,
		Findings:   findings,
	})
	output := buf.String()

	assert.Contains(t, output, "SCHEMA VALIDATION")
	assert.Contains(t, output, "Limit:    3")
	assert.Contains(t, output, "Found 7 findings")
	assert.Equal(t, 5, strings.Count(output, "expected string"))
	assert.Contains(t, output, "... and 2 more")
}

func TestPrintSchemaRun_NoFindings(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSchemaRun(&SchemaRun{SchemaFile: "s.json", DataFile: "d.json", Engine: "gojsonschema"})

	assert.Contains(t, buf.String(), "No findings")
	assert.Contains(t, buf.String(), "Limit:    none")
}

func TestPrintBox_ClipsLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("x", 200))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)))
	}
	assert.Contains(t, buf.String(), "...")
}
