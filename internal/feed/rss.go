package feed

const atomNamespace = "http://www.w3.org/2005/Atom"

var rssVersions = map[string]bool{
	"0.91": true,
	"0.92": true,
	"2.0":  true,
}

var rssChannelElements = map[string]bool{
	"title": true, "link": true, "description": true, "language": true,
	"copyright": true, "managingEditor": true, "webMaster": true,
	"pubDate": true, "lastBuildDate": true, "category": true,
	"generator": true, "docs": true, "cloud": true, "ttl": true,
	"image": true, "rating": true, "textInput": true, "skipHours": true,
	"skipDays": true, "item": true,
}

var rssItemElements = map[string]bool{
	"title": true, "link": true, "description": true, "author": true,
	"category": true, "comments": true, "enclosure": true, "guid": true,
	"pubDate": true, "source": true,
}

func checkRSS(c *checker, root *node) {
	if version, ok := root.attr("version"); !ok {
		c.logIn(root, TypeMissingAttribute, Error, "version")
	} else if !rssVersions[version] {
		c.log(root, TypeUnsupportedRSSVersion, Warning, "version", version)
	}

	channels := root.all("", "channel")
	if len(channels) == 0 {
		c.logIn(root, TypeMissingElement, Error, "channel")
		return
	}
	if len(channels) > 1 {
		c.log(channels[1], TypeDuplicateElement, Error, "channel", "")
	}
	ch := channels[0]

	c.require(ch, "", "title")
	c.checkURL(c.require(ch, "", "link"), "")
	c.require(ch, "", "description")

	c.checkRFC822(ch.first("", "pubDate"))
	c.checkRFC822(ch.first("", "lastBuildDate"))
	c.checkURL(ch.first("", "docs"), "")
	c.checkInteger(ch.first("", "ttl"))

	if ch.first("", "language") == nil {
		c.logIn(ch, TypeMissingOptional, Info, "language")
	}

	selfLink := false
	for _, l := range ch.all(atomNamespace, "link") {
		if rel, _ := l.attr("rel"); rel == "self" {
			selfLink = true
		}
	}
	if !selfLink {
		c.log(ch, TypeMissingAtomSelfLink, Warning, "atom:link", "")
	}

	for _, child := range ch.children {
		if child.name.Space == "" && !rssChannelElements[child.local()] {
			c.log(child, TypeUndefinedElement, Error, child.local(), "")
		}
	}

	for _, item := range ch.all("", "item") {
		checkRSSItem(c, item)
	}
}

func checkRSSItem(c *checker, item *node) {
	if item.first("", "title") == nil && item.first("", "description") == nil {
		c.log(item, TypeItemTitleOrDescription, Error, "item", "")
	}

	c.checkURL(item.first("", "link"), "")
	c.checkURL(item.first("", "comments"), "")
	c.checkRFC822(item.first("", "pubDate"))

	if guid := item.first("", "guid"); guid == nil {
		c.log(item, TypeMissingGUID, Warning, "guid", "")
	} else if isPermaLink, _ := guid.attr("isPermaLink"); isPermaLink != "false" {
		if v := guid.value(); !isAbsoluteURL(v) {
			c.log(guid, TypeInvalidPermalink, Error, "guid", v)
		}
	}

	for _, child := range item.children {
		if child.name.Space == "" && !rssItemElements[child.local()] {
			c.log(child, TypeUndefinedElement, Error, child.local(), "")
		}
	}
}

// checkRDF applies the RSS 1.0 structural requirements.
func checkRDF(c *checker, root *node) {
	const rss1 = "http://purl.org/rss/1.0/"

	ch := root.first(rss1, "channel")
	if ch == nil {
		c.logIn(root, TypeMissingElement, Error, "channel")
		return
	}
	c.require(ch, rss1, "title")
	c.checkURL(c.require(ch, rss1, "link"), "")
	c.require(ch, rss1, "description")

	for _, item := range root.all(rss1, "item") {
		c.require(item, rss1, "title")
		c.checkURL(c.require(item, rss1, "link"), "")
	}
}
