package feed

import "fmt"

// FormatText renders events as plain text, one line per event.
func FormatText(events []Event) []string {
	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, formatEvent(e))
	}
	return lines
}

func formatEvent(e Event) string {
	line := e.Message()
	if e.Line > 0 {
		line = fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, line)
	}
	if e.Count > 1 {
		line = fmt.Sprintf("%s (%d occurrences)", line, e.Count)
	}
	return line
}
