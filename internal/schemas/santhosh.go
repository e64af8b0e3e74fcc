package schemas

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// santhoshEngine validates with github.com/santhosh-tekuri/jsonschema.
// Leaf errors carry the absolute schema location and keyword path, so
// schema paths come straight from the engine.
type santhoshEngine struct{}

type santhoshValidator struct {
	schema  *jsonschema.Schema
	docs    *documentStore
	printer *message.Printer
}

func (santhoshEngine) Compile(location string, doc any) (Validator, error) {
	loc, err := schemaURL(location)
	if err != nil {
		return nil, &SchemaLoadError{Path: location, Message: "invalid schema location", Cause: err}
	}

	doc = withoutDraft(doc)
	store := newDocumentStore()
	store.add(loc, doc)

	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft4)
	c.UseLoader(store)
	if err := c.AddResource(loc, doc); err != nil {
		return nil, &SchemaLoadError{Path: location, Message: "failed to add schema resource", Cause: err}
	}

	sch, err := c.Compile(loc)
	if err != nil {
		return nil, &SchemaLoadError{Path: location, Message: "failed to compile schema", Cause: err}
	}

	return &santhoshValidator{
		schema:  sch,
		docs:    store,
		printer: message.NewPrinter(language.English),
	}, nil
}

func (v *santhoshValidator) Validate(data any) ([]Finding, error) {
	err := v.schema.Validate(data)
	if err == nil {
		return nil, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, err
	}

	var findings []Finding
	for _, leaf := range reportable(ve, nil) {
		base, fragment, _ := strings.Cut(leaf.SchemaURL, "#")
		schemaPath := append(pointerTokens(fragment), leaf.ErrorKind.KeywordPath()...)

		var sub any
		if doc, ok := v.docs.get(base); ok {
			sub, _ = resolvePointer(doc, fragment)
		}

		findings = append(findings, Finding{
			Message:    leaf.ErrorKind.LocalizedString(v.printer),
			SchemaPath: schemaPath,
			Path:       append([]string(nil), leaf.InstanceLocation...),
			Schema:     sub,
		})
	}
	return findings, nil
}

// reportable flattens the error tree through grouping nodes: schema roots,
// $ref indirections and allOf. anyOf/oneOf failures stay whole.
func reportable(ve *jsonschema.ValidationError, out []*jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return append(out, ve)
	}
	switch ve.ErrorKind.(type) {
	case *kind.Schema, *kind.Group, *kind.Reference, *kind.AllOf:
		for _, cause := range ve.Causes {
			out = reportable(cause, out)
		}
		return out
	}
	return append(out, ve)
}

// schemaURL turns a file path into a file URL; URLs pass through.
func schemaURL(location string) (string, error) {
	if u, err := url.Parse(location); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return location, nil
	}
	return FileURL(location)
}

// documentStore remembers every schema document the compiler sees so that
// error locations can be resolved back to subschemas.
type documentStore struct {
	docs   map[string]any
	loader jsonschema.URLLoader
}

func newDocumentStore() *documentStore {
	return &documentStore{docs: make(map[string]any), loader: newURLLoader()}
}

func (s *documentStore) add(loc string, doc any) {
	s.docs[normalizeURL(loc)] = doc
}

func (s *documentStore) get(loc string) (any, bool) {
	doc, ok := s.docs[normalizeURL(loc)]
	return doc, ok
}

// Load implements jsonschema.URLLoader for referenced schema documents.
func (s *documentStore) Load(loc string) (any, error) {
	if doc, ok := s.get(loc); ok {
		return doc, nil
	}
	doc, err := s.loader.Load(loc)
	if err != nil {
		return nil, err
	}
	doc = withoutDraft(doc)
	s.add(loc, doc)
	return doc, nil
}

// withoutDraft drops a top-level $schema so that the compiler falls back to
// Draft 4 whatever draft the document names.
func withoutDraft(doc any) any {
	m, ok := doc.(map[string]any)
	if !ok {
		return doc
	}
	if _, ok := m["$schema"]; !ok {
		return doc
	}
	out := make(map[string]any, len(m)-1)
	for k, v := range m {
		if k != "$schema" {
			out[k] = v
		}
	}
	return out
}

// refTimeout bounds each remote $ref fetch.
const refTimeout = 15 * time.Second

func newURLLoader() jsonschema.URLLoader {
	remote := &httpLoader{Client: &http.Client{Timeout: refTimeout}}
	return jsonschema.SchemeURLLoader{
		"file":  fileLoader{},
		"http":  remote,
		"https": remote,
	}
}

type fileLoader struct{}

func (fileLoader) Load(loc string) (any, error) {
	path, err := jsonschema.FileLoader{}.ToFile(loc)
	if err != nil {
		return nil, err
	}
	return LoadDocument(path)
}

type httpLoader struct {
	Client *http.Client
}

func (l *httpLoader) Load(loc string) (any, error) {
	resp, err := l.Client.Get(loc)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status code %d", loc, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", loc, err)
	}
	ctype := resp.Header.Get("Content-Type")
	asYAML := isYAML(loc) ||
		strings.HasSuffix(ctype, "/yaml") || strings.HasSuffix(ctype, "-yaml")
	return ParseDocument(data, asYAML)
}

func normalizeURL(loc string) string {
	loc, _, _ = strings.Cut(loc, "#")
	u, err := url.Parse(loc)
	if err != nil {
		return loc
	}
	if u.Scheme == "file" {
		return "file://" + u.Path
	}
	return u.String()
}
