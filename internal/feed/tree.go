package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// node is an XML element with the position at which its start tag ended.
type node struct {
	name     xml.Name
	attrs    []xml.Attr
	text     []byte
	line     int
	column   int
	parent   *node
	children []*node
}

var errNoRoot = errors.New("document has no root element")

func parseTree(body []byte) (*node, error) {
	d := xml.NewDecoder(bytes.NewReader(body))
	d.CharsetReader = charset.NewReaderLabel

	var root *node
	var stack []*node
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, column := d.InputPos()

		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name, attrs: t.Attr, line: line, column: column}
			if len(stack) > 0 {
				p := stack[len(stack)-1]
				n.parent = p
				p.children = append(p.children, n)
			} else if root == nil {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.text = append(top.text, t...)
			}
		}
	}
	if root == nil {
		return nil, errNoRoot
	}
	return root, nil
}

func (n *node) local() string {
	return n.name.Local
}

func (n *node) value() string {
	return strings.TrimSpace(string(n.text))
}

// all returns the children with the given namespace and local name.
func (n *node) all(space, local string) []*node {
	var out []*node
	for _, c := range n.children {
		if c.name.Space == space && c.name.Local == local {
			out = append(out, c)
		}
	}
	return out
}

func (n *node) first(space, local string) *node {
	for _, c := range n.children {
		if c.name.Space == space && c.name.Local == local {
			return c
		}
	}
	return nil
}

func (n *node) attr(local string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// xmlBase resolves the effective xml:base of the node, falling back to base.
func (n *node) xmlBase(base string) string {
	var chain []string
	for cur := n; cur != nil; cur = cur.parent {
		for _, a := range cur.attrs {
			if a.Name.Space == xmlNamespace && a.Name.Local == "base" {
				chain = append(chain, a.Value)
			}
		}
	}
	resolved := base
	for i := len(chain) - 1; i >= 0; i-- {
		resolved = resolveRef(resolved, chain[i])
	}
	return resolved
}

const xmlNamespace = "http://www.w3.org/XML/1998/namespace"
