package feed

import (
	"fmt"
	"sort"
	"strings"
)

// Filter narrows an event list to a compatibility profile.
type Filter func([]Event) []Event

// Filters maps each compatibility level name to its filter.
// "A" keeps errors, "AA" mimics the online validator and "AAA" keeps everything.
var Filters = map[string]Filter{
	"A":   minLevel(Error),
	"AA":  minLevel(Warning),
	"AAA": minLevel(Info),
}

// DefaultLevel is the compatibility level used when none is given.
const DefaultLevel = "AA"

// UnknownLevelError is returned by LookupFilter for names not in Filters.
type UnknownLevelError struct {
	Name string
}

func (e *UnknownLevelError) Error() string {
	return fmt.Sprintf("unknown compatibility level %q (expected one of %s)", e.Name, strings.Join(Levels(), ", "))
}

// LookupFilter returns the filter registered under name.
func LookupFilter(name string) (Filter, error) {
	f, ok := Filters[name]
	if !ok {
		return nil, &UnknownLevelError{Name: name}
	}
	return f, nil
}

// Levels returns the known compatibility level names, sorted.
func Levels() []string {
	names := make([]string, 0, len(Filters))
	for name := range Filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func minLevel(lowest Level) Filter {
	return func(events []Event) []Event {
		var out []Event
		for _, e := range events {
			if e.Level >= lowest {
				out = append(out, e)
			}
		}
		return out
	}
}
