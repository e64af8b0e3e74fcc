// Package feed validates RSS, Atom and JSON Feed documents and reports the
// problems it finds as a list of logged events.
package feed

import "fmt"

// Level is the severity class of an event.
type Level int

const (
	// Info events are hints; only the AAA profile surfaces them.
	Info Level = iota
	// Warning events are recommendations from the feed specifications.
	Warning
	// Error events violate a MUST-level requirement.
	Error
)

func (l Level) String() string {
	switch l {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "info"
	}
}

// Event types.
const (
	TypeIOError         = "IOError"
	TypeHTTPError       = "HTTPError"
	TypeNotWellFormed   = "NotWellFormed"
	TypeUndecipherable  = "UndecipherableFeed"
	TypeNotAFeed        = "NotAFeed"
	TypeInvalidJSONFeed = "InvalidJSONFeed"

	TypeMissingElement         = "MissingElement"
	TypeMissingAttribute       = "MissingAttribute"
	TypeDuplicateElement       = "DuplicateElement"
	TypeNotBlank               = "NotBlank"
	TypeUndefinedElement       = "UndefinedElement"
	TypeInvalidURL             = "InvalidURL"
	TypeInvalidInteger         = "InvalidInteger"
	TypeInvalidRFC822Date      = "InvalidRFC822Date"
	TypeInvalidRFC3339Date     = "InvalidRFC3339Date"
	TypeUnsupportedRSSVersion  = "UnsupportedRSSVersion"
	TypeItemTitleOrDescription = "ItemMustContainTitleOrDescription"
	TypeMissingGUID            = "MissingGuid"
	TypeInvalidPermalink       = "InvalidPermalink"
	TypeMissingAtomSelfLink    = "MissingAtomSelfLink"
	TypeMissingOptional        = "MissingOptionalElement"

	TypeInvalidNamespace   = "InvalidNamespace"
	TypeInvalidIRI         = "InvalidIRI"
	TypeInvalidUUID        = "InvalidUUID"
	TypeMissingAuthor      = "MissingAuthor"
	TypeMissingContent     = "MissingContentOrAlternate"
	TypeInvalidTextType    = "InvalidTextType"
	TypeMissingSelfLink    = "MissingSelfLink"
	TypeDuplicateEntries   = "DuplicateEntries"
	TypeMissingSummary     = "MissingSummary"
	TypeInvalidJSONVersion = "InvalidJSONFeedVersion"
)

// Event is one finding logged while validating a feed.
type Event struct {
	Type    string
	Level   Level
	Element string // element or attribute the event is about
	Parent  string // enclosing element
	Value   string // offending value, when there is one
	Line    int    // 0 when the position is unknown
	Column  int
	// Count is the number of occurrences folded into this event when
	// first-occurrence-only reporting is enabled.
	Count int
}

var messages = map[string]func(e Event) string{
	TypeIOError:         func(e Event) string { return "Unable to retrieve feed: " + e.Value },
	TypeHTTPError:       func(e Event) string { return "Server returned " + e.Value },
	TypeNotWellFormed:   func(e Event) string { return "XML parsing error: " + e.Value },
	TypeUndecipherable:  func(e Event) string { return "Unable to determine feed type; root element is " + quoteOr(e.Element, "missing") },
	TypeNotAFeed:        notAFeedMessage,
	TypeInvalidJSONFeed: func(e Event) string { return "JSON parsing error: " + e.Value },

	TypeMissingElement:   func(e Event) string { return fmt.Sprintf("Missing %s element: %s", e.Parent, e.Element) },
	TypeMissingAttribute: func(e Event) string { return fmt.Sprintf("Missing %s attribute: %s", e.Parent, e.Element) },
	TypeDuplicateElement: func(e Event) string { return fmt.Sprintf("%s contains more than one %s", e.Parent, e.Element) },
	TypeNotBlank:         func(e Event) string { return fmt.Sprintf("%s should not be blank", e.Element) },
	TypeUndefinedElement: func(e Event) string { return fmt.Sprintf("Undefined %s element: %s", e.Parent, e.Element) },
	TypeInvalidURL:       func(e Event) string { return fmt.Sprintf("%s must be a full and valid URL: %s", e.Element, e.Value) },
	TypeInvalidInteger:   func(e Event) string { return fmt.Sprintf("%s must be a non-negative integer: %s", e.Element, e.Value) },
	TypeInvalidRFC822Date: func(e Event) string {
		return fmt.Sprintf("%s must be an RFC-822 date-time: %s", e.Element, e.Value)
	},
	TypeInvalidRFC3339Date: func(e Event) string {
		return fmt.Sprintf("%s must be an RFC-3339 date-time: %s", e.Element, e.Value)
	},
	TypeUnsupportedRSSVersion:  func(e Event) string { return "Unsupported rss version: " + e.Value },
	TypeItemTitleOrDescription: func(Event) string { return "item must contain either title or description" },
	TypeMissingGUID:            func(Event) string { return "item should contain a guid element" },
	TypeInvalidPermalink: func(e Event) string {
		return "guid must be a full URL, unless isPermaLink attribute is false: " + e.Value
	},
	TypeMissingAtomSelfLink: func(Event) string { return `Missing atom:link with rel="self"` },
	TypeMissingOptional:     func(e Event) string { return fmt.Sprintf("%s should contain a %s element", e.Parent, e.Element) },

	TypeInvalidNamespace: func(e Event) string {
		return fmt.Sprintf("%s is in an incorrect namespace: %s", e.Element, quoteOr(e.Value, "none"))
	},
	TypeInvalidIRI:     func(e Event) string { return fmt.Sprintf("%s is not a valid IRI: %s", e.Element, e.Value) },
	TypeInvalidUUID:    func(e Event) string { return fmt.Sprintf("%s is not a valid UUID: %s", e.Element, e.Value) },
	TypeMissingAuthor:  func(Event) string { return "entry must contain an author element when the feed has none" },
	TypeMissingContent: func(Event) string { return `entry must contain either a content element or a link with rel="alternate"` },
	TypeInvalidTextType: func(e Event) string {
		return fmt.Sprintf(`%s type attribute must be "text", "html" or "xhtml": %s`, e.Element, e.Value)
	},
	TypeMissingSelfLink:  func(Event) string { return `Missing feed element: link with rel="self"` },
	TypeDuplicateEntries: func(e Event) string { return "Two entries with the same id: " + e.Value },
	TypeMissingSummary:   func(Event) string { return "entry should contain a summary element" },
	TypeInvalidJSONVersion: func(e Event) string {
		return "version must be a https://jsonfeed.org/version/ URL: " + quoteOr(e.Value, "missing")
	},
}

// Message renders the human readable description of the event.
func (e Event) Message() string {
	if fn, ok := messages[e.Type]; ok {
		return fn(e)
	}
	if e.Element != "" {
		return fmt.Sprintf("%s: %s", e.Type, e.Element)
	}
	return e.Type
}

func notAFeedMessage(e Event) string {
	if e.Value == "" {
		return "This is an HTML page, not a feed"
	}
	return "This is an HTML page, not a feed; it links to: " + e.Value
}

func quoteOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return fmt.Sprintf("%q", s)
}

type eventKey struct {
	typ     string
	element string
}

// firstOccurrences keeps the first event of each (Type, Element) pair and folds
// later duplicates into its Count.
func firstOccurrences(events []Event) []Event {
	index := make(map[eventKey]int, len(events))
	out := make([]Event, 0, len(events))
	for _, e := range events {
		key := eventKey{e.Type, e.Element}
		if i, ok := index[key]; ok {
			out[i].Count++
			continue
		}
		if e.Count == 0 {
			e.Count = 1
		}
		index[key] = len(out)
		out = append(out, e)
	}
	return out
}
