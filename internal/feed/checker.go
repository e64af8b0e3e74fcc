package feed

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// checker accumulates events for one document.
type checker struct {
	base   string
	events []Event
}

func (c *checker) log(n *node, typ string, level Level, element, value string) {
	e := Event{Type: typ, Level: level, Element: element, Value: value}
	if n != nil {
		e.Line, e.Column = n.line, n.column
		if n.parent != nil {
			e.Parent = n.parent.local()
		}
	}
	c.events = append(c.events, e)
}

// logIn records an event about a child of parent, positioned at parent.
func (c *checker) logIn(parent *node, typ string, level Level, element string) {
	c.events = append(c.events, Event{
		Type:    typ,
		Level:   level,
		Element: element,
		Parent:  parent.local(),
		Line:    parent.line,
		Column:  parent.column,
	})
}

// require checks that parent has exactly one non-blank space:local child and
// returns it, or nil when it is missing.
func (c *checker) require(parent *node, space, local string) *node {
	found := parent.all(space, local)
	if len(found) == 0 {
		c.logIn(parent, TypeMissingElement, Error, local)
		return nil
	}
	if len(found) > 1 {
		c.log(found[1], TypeDuplicateElement, Error, local, "")
	}
	if found[0].value() == "" && len(found[0].children) == 0 {
		c.log(found[0], TypeNotBlank, Error, local, "")
	}
	return found[0]
}

func (c *checker) checkURL(n *node, base string) {
	if n == nil {
		return
	}
	v := n.value()
	if v == "" {
		return
	}
	if !isAbsoluteURL(resolveRef(base, v)) {
		c.log(n, TypeInvalidURL, Error, n.local(), v)
	}
}

func (c *checker) checkInteger(n *node) {
	if n == nil {
		return
	}
	v := n.value()
	if i, err := strconv.Atoi(v); err != nil || i < 0 {
		c.log(n, TypeInvalidInteger, Error, n.local(), v)
	}
}

func (c *checker) checkRFC822(n *node) {
	if n == nil {
		return
	}
	if v := n.value(); !isRFC822(v) {
		c.log(n, TypeInvalidRFC822Date, Error, n.local(), v)
	}
}

func (c *checker) checkRFC3339(n *node) {
	if n == nil {
		return
	}
	if v := n.value(); !isRFC3339(v) {
		c.log(n, TypeInvalidRFC3339Date, Error, n.local(), v)
	}
}

var rfc822Layouts = []string{
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 MST",
	"Mon, 2 Jan 2006 15:04 -0700",
	"Mon, 2 Jan 2006 15:04 MST",
	"Mon, 2 Jan 06 15:04:05 -0700",
	"Mon, 2 Jan 06 15:04:05 MST",
}

func isRFC822(v string) bool {
	for _, layout := range rfc822Layouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}

func isRFC3339(v string) bool {
	_, err := time.Parse(time.RFC3339, v)
	return err == nil
}

func isAbsoluteURL(v string) bool {
	u, err := url.Parse(v)
	if err != nil || u.Scheme == "" {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ftp":
		return u.Host != ""
	}
	return u.Opaque != "" || u.Path != "" || u.Host != ""
}

// resolveRef resolves ref against base; it returns ref unchanged when either
// cannot be parsed.
func resolveRef(base, ref string) string {
	if base == "" {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
