package feed

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

var atomTextConstructs = []string{"title", "subtitle", "rights", "summary"}

func checkAtom(c *checker, root *node) {
	if root.name.Space != atomNamespace {
		c.log(root, TypeInvalidNamespace, Error, "feed", root.name.Space)
	}
	ns := root.name.Space

	c.checkID(c.require(root, ns, "id"))
	c.require(root, ns, "title")
	c.checkRFC3339(c.require(root, ns, "updated"))
	c.checkTextConstructs(root, ns)
	c.checkLinks(root, ns)

	if !hasLinkRel(root, ns, "self") {
		c.logIn(root, TypeMissingSelfLink, Warning, "link")
	}

	feedHasAuthor := root.first(ns, "author") != nil
	seen := make(map[string]bool)
	for _, entry := range root.all(ns, "entry") {
		id := c.require(entry, ns, "id")
		c.checkID(id)
		if id != nil {
			if v := id.value(); v != "" {
				if seen[v] {
					c.log(id, TypeDuplicateEntries, Warning, "id", v)
				}
				seen[v] = true
			}
		}

		c.require(entry, ns, "title")
		c.checkRFC3339(c.require(entry, ns, "updated"))
		c.checkRFC3339(entry.first(ns, "published"))
		c.checkTextConstructs(entry, ns)
		c.checkLinks(entry, ns)

		if !feedHasAuthor && entry.first(ns, "author") == nil && !sourceHasAuthor(entry, ns) {
			c.log(entry, TypeMissingAuthor, Error, "author", "")
		}
		if entry.first(ns, "content") == nil && !hasLinkRel(entry, ns, "alternate") {
			c.log(entry, TypeMissingContent, Error, "content", "")
		}
		if entry.first(ns, "summary") == nil {
			c.log(entry, TypeMissingSummary, Info, "summary", "")
		}
	}
}

// checkID validates an atom:id as an absolute IRI; urn:uuid ids must carry a valid UUID.
func (c *checker) checkID(n *node) {
	if n == nil {
		return
	}
	v := n.value()
	if v == "" {
		return
	}
	u, err := url.Parse(v)
	if err != nil || u.Scheme == "" {
		c.log(n, TypeInvalidIRI, Error, "id", v)
		return
	}
	if strings.EqualFold(u.Scheme, "urn") && strings.HasPrefix(strings.ToLower(u.Opaque), "uuid:") {
		if _, err := uuid.Parse(u.Opaque[len("uuid:"):]); err != nil {
			c.log(n, TypeInvalidUUID, Error, "id", v)
		}
	}
}

func (c *checker) checkTextConstructs(parent *node, ns string) {
	for _, name := range atomTextConstructs {
		for _, n := range parent.all(ns, name) {
			typ, ok := n.attr("type")
			if !ok {
				continue
			}
			switch typ {
			case "text", "html", "xhtml":
			default:
				c.log(n, TypeInvalidTextType, Error, name, typ)
			}
		}
	}
}

func (c *checker) checkLinks(parent *node, ns string) {
	for _, l := range parent.all(ns, "link") {
		href, ok := l.attr("href")
		if !ok {
			c.log(l, TypeMissingAttribute, Error, "href", "")
			continue
		}
		if !isAbsoluteURL(resolveRef(l.xmlBase(c.base), href)) {
			c.log(l, TypeInvalidURL, Error, "href", href)
		}
	}
}

// hasLinkRel reports whether parent has a link with the given rel; a link
// without rel counts as alternate.
func hasLinkRel(parent *node, ns, rel string) bool {
	for _, l := range parent.all(ns, "link") {
		r, ok := l.attr("rel")
		if !ok {
			r = "alternate"
		}
		if r == rel {
			return true
		}
	}
	return false
}

func sourceHasAuthor(entry *node, ns string) bool {
	src := entry.first(ns, "source")
	return src != nil && src.first(ns, "author") != nil
}
