package feed

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/wpss-validators/internal/fetch"
	"github.com/mmcdole/gofeed"
)

// Options configures a validation run.
type Options struct {
	// FirstOccurrenceOnly keeps only the first event of each kind.
	FirstOccurrenceOnly bool
	// Fetch configures remote retrieval for ValidateURL.
	Fetch *fetch.Options
}

// Result is the outcome of validating one feed.
type Result struct {
	FeedType     gofeed.FeedType
	LoggedEvents []Event
}

// ValidateURL retrieves the feed at link and validates it. Retrieval problems
// and unparseable documents are reported as a *ValidationFailure.
func ValidateURL(ctx context.Context, link string, opts Options) (*Result, error) {
	res, err := fetch.URL(ctx, link, opts.Fetch)
	if err != nil {
		var fetchErr *fetch.Error
		if res != nil && errors.As(err, &fetchErr) {
			return nil, failure(TypeHTTPError, fmt.Sprintf("HTTP status %d", res.StatusCode), err)
		}
		return nil, failure(TypeIOError, err.Error(), err)
	}
	return validate(res.Body, res.ContentType, res.URL, opts)
}

// ValidateStream validates the feed read from r. base is the URL relative
// references in the document are resolved against.
func ValidateStream(r io.Reader, opts Options, base string) (*Result, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, failure(TypeIOError, err.Error(), err)
	}
	return validate(body, "", base, opts)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func validate(body []byte, contentType, base string, opts Options) (*Result, error) {
	body = bytes.TrimPrefix(body, utf8BOM)
	c := &checker{base: base}

	feedType := gofeed.DetectFeedType(bytes.NewReader(body))
	switch feedType {
	case gofeed.FeedTypeJSON:
		if err := checkJSONFeed(c, body); err != nil {
			return nil, err
		}
	case gofeed.FeedTypeRSS, gofeed.FeedTypeAtom:
		if err := checkXML(c, body); err != nil {
			return nil, err
		}
	default:
		return nil, undecipherable(body, contentType, base)
	}

	events := c.events
	if opts.FirstOccurrenceOnly {
		events = firstOccurrences(events)
	} else {
		for i := range events {
			events[i].Count = 1
		}
	}
	return &Result{FeedType: feedType, LoggedEvents: events}, nil
}

func checkXML(c *checker, body []byte) error {
	root, err := parseTree(body)
	if err != nil {
		return notWellFormed(err)
	}

	switch root.local() {
	case "rss":
		checkRSS(c, root)
	case "RDF":
		checkRDF(c, root)
	case "feed":
		checkAtom(c, root)
	default:
		f := failure(TypeUndecipherable, "", nil)
		f.Event.Element = root.local()
		return f
	}
	return nil
}

func notWellFormed(err error) *ValidationFailure {
	f := failure(TypeNotWellFormed, err.Error(), err)
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		f.Event.Value = syntaxErr.Msg
		f.Event.Line = syntaxErr.Line
	}
	return f
}

// undecipherable explains why a document of unknown type cannot be validated.
func undecipherable(body []byte, contentType, base string) *ValidationFailure {
	if fetch.LooksLikeHTML(contentType, body) {
		links, err := fetch.FeedLinks(body, base)
		if err != nil {
			return failure(TypeNotAFeed, "", err)
		}
		return failure(TypeNotAFeed, strings.Join(links, ", "), nil)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '<' {
		root, err := parseTree(body)
		if err != nil {
			return notWellFormed(err)
		}
		f := failure(TypeUndecipherable, "", nil)
		f.Event.Element = root.local()
		return f
	}
	return failure(TypeUndecipherable, "", nil)
}

// FeedTypeName returns a display name for a detected feed type.
func FeedTypeName(t gofeed.FeedType) string {
	switch t {
	case gofeed.FeedTypeRSS:
		return "RSS"
	case gofeed.FeedTypeAtom:
		return "Atom"
	case gofeed.FeedTypeJSON:
		return "JSON Feed"
	default:
		return "unknown"
	}
}
