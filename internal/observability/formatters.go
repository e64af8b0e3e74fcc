// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/wpss-validators/internal/feed"
	"github.com/jonathan/wpss-validators/internal/schemas"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to at most n runes, marking the cut with "...".
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// FeedRun describes one feed validation for the verbose summary.
type FeedRun struct {
	Link     string
	Local    bool
	FeedType string
	Level    string
	// Events are the logged events before the compatibility filter.
	Events []feed.Event
	// Reported is the number of events left after filtering.
	Reported int
}

// PrintFeedRun outputs the resolved link, the detected feed type and the
// event counts per level.
func (p *Printer) PrintFeedRun(run *FeedRun) {
	if run == nil {
		return
	}

	mode := "remote"
	if run.Local {
		mode = "local"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Link:     %s\n", run.Link))
	sb.WriteString(fmt.Sprintf("Mode:     %s\n", mode))
	if run.FeedType != "" {
		sb.WriteString(fmt.Sprintf("Type:     %s\n", run.FeedType))
	}
	sb.WriteString(fmt.Sprintf("Level:    %s\n", run.Level))
	sb.WriteString("\n")

	counts := map[feed.Level]int{}
	for _, e := range run.Events {
		counts[e.Level]++
	}
	sb.WriteString(fmt.Sprintf("Errors:   %d\n", counts[feed.Error]))
	sb.WriteString(fmt.Sprintf("Warnings: %d\n", counts[feed.Warning]))
	sb.WriteString(fmt.Sprintf("Info:     %d\n", counts[feed.Info]))
	sb.WriteString(fmt.Sprintf("Reported: %d of %d", run.Reported, len(run.Events)))

	p.printBox("FEED VALIDATION", sb.String())
}

// SchemaRun describes one schema validation for the verbose summary.
type SchemaRun struct {
	SchemaFile string
	DataFile   string
	Engine     string
	MaxErrors  int
	Findings   []schemas.Finding
}

// PrintSchemaRun outputs the inputs of a schema validation and the first
// few finding messages.
func (p *Printer) PrintSchemaRun(run *SchemaRun) {
	if run == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Schema:   %s\n", run.SchemaFile))
	sb.WriteString(fmt.Sprintf("Data:     %s\n", run.DataFile))
	sb.WriteString(fmt.Sprintf("Engine:   %s\n", run.Engine))
	if run.MaxErrors > 0 {
		sb.WriteString(fmt.Sprintf("Limit:    %d\n", run.MaxErrors))
	} else {
		sb.WriteString("Limit:    none\n")
	}

	if len(run.Findings) == 0 {
		sb.WriteString("\nNo findings")
		p.printBox("SCHEMA VALIDATION", sb.String())
		return
	}

	sb.WriteString(fmt.Sprintf("\nFound %d findings:\n", len(run.Findings)))
	count := min(len(run.Findings), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", run.Findings[i].Message))
	}
	if len(run.Findings) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(run.Findings)-maxItemsToShow))
	}

	p.printBox("SCHEMA VALIDATION", strings.TrimSuffix(sb.String(), "\n"))
}
