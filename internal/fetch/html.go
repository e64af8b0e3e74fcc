package fetch

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// feedLinkTypes are the autodiscovery MIME types recognised in HTML pages.
var feedLinkTypes = []string{
	"application/rss+xml",
	"application/atom+xml",
	"application/feed+json",
}

// FeedLinks parses an HTML page and returns the feed autodiscovery links it
// advertises, resolved against base when base is a valid URL.
func FeedLinks(html []byte, base string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	baseURL, _ := url.Parse(base)

	var links []string
	doc.Find("link[rel~='alternate'][href]").Each(func(_ int, s *goquery.Selection) {
		linkType, _ := s.Attr("type")
		if !isFeedType(linkType) {
			return
		}
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		if baseURL != nil {
			if ref, err := url.Parse(href); err == nil {
				href = baseURL.ResolveReference(ref).String()
			}
		}
		links = append(links, href)
	})

	return links, nil
}

// LooksLikeHTML reports whether the content type or leading bytes mark the body as HTML.
func LooksLikeHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	head := body
	if len(head) > 512 {
		head = head[:512]
	}
	lower := bytes.ToLower(bytes.TrimSpace(head))
	return bytes.HasPrefix(lower, []byte("<!doctype html")) || bytes.HasPrefix(lower, []byte("<html"))
}

func isFeedType(t string) bool {
	t = strings.ToLower(strings.TrimSpace(t))
	for _, ft := range feedLinkTypes {
		if t == ft {
			return true
		}
	}
	return false
}
