package feed

import (
	"bytes"
	"fmt"
	"strings"

	jsonfeed "github.com/mmcdole/gofeed/json"
)

const jsonFeedVersionPrefix = "https://jsonfeed.org/version/"

func checkJSONFeed(c *checker, body []byte) error {
	parser := &jsonfeed.Parser{}
	f, err := parser.Parse(bytes.NewReader(body))
	if err != nil {
		return failure(TypeInvalidJSONFeed, err.Error(), err)
	}

	if !strings.HasPrefix(f.Version, jsonFeedVersionPrefix) {
		c.log(nil, TypeInvalidJSONVersion, Error, "version", f.Version)
	}
	if strings.TrimSpace(f.Title) == "" {
		c.events = append(c.events, Event{Type: TypeMissingElement, Level: Error, Parent: "feed", Element: "title"})
	}
	for i, item := range f.Items {
		if item == nil || strings.TrimSpace(item.ID) == "" {
			c.events = append(c.events, Event{
				Type:    TypeMissingElement,
				Level:   Error,
				Parent:  fmt.Sprintf("items[%d]", i),
				Element: "id",
			})
		}
	}
	return nil
}
