// Package filter selects entries from a capture and emits a slimmed capture
// containing only the survivors.
//
// Criteria are AND-combined. Entries that cannot be evaluated (no request,
// no response, no URL, or a URL that is not absolute) are silently dropped
// rather than failing the whole run.
package filter

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/cowt/har-viewer/pkg/classify"
	"github.com/cowt/har-viewer/pkg/har"
	"github.com/cowt/har-viewer/pkg/redact"
)

// Result is the output of Filter.
type Result struct {
	// Document is a valid capture holding the slimmed survivors.
	Document *har.Document
	// Positions holds each survivor's index in the input capture.
	Positions []int
	// Total is the number of entries in the input capture.
	Total int
}

// Entries returns the slimmed survivors.
func (r *Result) Entries() []har.Entry {
	return r.Document.Log.Entries
}

// Len returns the number of survivors.
func (r *Result) Len() int {
	return len(r.Document.Log.Entries)
}

// Empty reports whether nothing survived.
func (r *Result) Empty() bool {
	return r.Len() == 0
}

// exprEnv is the environment exposed to Criteria.Expr.
type exprEnv struct {
	Method       string `expr:"method"`
	URL          string `expr:"url"`
	Host         string `expr:"host"`
	Path         string `expr:"path"`
	Status       int    `expr:"status"`
	Category     string `expr:"category"`
	MimeType     string `expr:"mimeType"`
	RequestBody  string `expr:"requestBody"`
	ResponseBody string `expr:"responseBody"`
}

// Matcher is a compiled set of criteria.
type Matcher struct {
	criteria Criteria
	domains  []string
	keyword  string
	method   string
	category classify.Category
	program  *vm.Program
	path     jp.Expr
}

// Compile validates c and prepares its expressions.
func Compile(c Criteria) (*Matcher, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	m := &Matcher{
		criteria: c,
		keyword:  strings.ToLower(strings.TrimSpace(c.Keyword)),
		method:   strings.TrimSpace(c.Method),
	}
	for _, d := range c.Domains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			m.domains = append(m.domains, d)
		}
	}
	if cat, ok := classify.ParseCategory(string(c.Category)); ok {
		m.category = cat
	}

	if c.Expr != "" {
		program, err := expr.Compile(c.Expr, expr.Env(exprEnv{}), expr.AsBool())
		if err != nil {
			return nil, &CriteriaError{Field: "expr", Message: "compile " + strconv.Quote(c.Expr), Cause: err}
		}
		m.program = program
	}

	if c.JSONPath != "" {
		path, err := jp.ParseString(c.JSONPath)
		if err != nil {
			return nil, &CriteriaError{Field: "jsonpath", Message: "parse " + strconv.Quote(c.JSONPath), Cause: err}
		}
		m.path = path
	}

	return m, nil
}

// Criteria returns the criteria the matcher was compiled from.
func (m *Matcher) Criteria() Criteria {
	return m.criteria
}

// Match reports whether e satisfies every criterion. Entries without a
// request, response or absolute URL never match.
func (m *Matcher) Match(e har.Entry) bool {
	if e.Request == nil || e.Response == nil || e.Request.URL == "" {
		return false
	}
	u, err := url.Parse(e.Request.URL)
	if err != nil || !u.IsAbs() {
		return false
	}
	host := strings.ToLower(u.Hostname())

	if len(m.domains) > 0 && !matchesDomain(host, m.domains) {
		return false
	}
	if m.criteria.StatusPrefix != "" && !strings.HasPrefix(strconv.Itoa(e.Response.Status), m.criteria.StatusPrefix) {
		return false
	}
	if m.method != "" && !strings.EqualFold(e.Request.Method, m.method) {
		return false
	}
	if m.keyword != "" && !matchesKeyword(e, m.keyword) {
		return false
	}

	var category classify.Category
	if (m.category != "" && m.category != classify.All) || m.program != nil {
		category = classify.Classify(e)
	}
	if m.category != "" && m.category != classify.All && category != m.category {
		return false
	}

	if m.criteria.PathGlob != "" {
		ok, err := doublestar.Match(m.criteria.PathGlob, u.EscapedPath())
		if err != nil || !ok {
			return false
		}
	}

	if m.program != nil {
		env := exprEnv{
			Method:       e.Request.Method,
			URL:          e.Request.URL,
			Host:         host,
			Path:         u.Path,
			Status:       e.Response.Status,
			Category:     string(category),
			MimeType:     e.Response.MimeType(),
			RequestBody:  e.Request.BodyText(),
			ResponseBody: e.Response.BodyText(),
		}
		out, err := expr.Run(m.program, env)
		if err != nil {
			return false
		}
		if ok, _ := out.(bool); !ok {
			return false
		}
	}

	if m.path != nil && !matchesJSONPath(m.path, e.Response.BodyText()) {
		return false
	}

	return true
}

func matchesDomain(host string, domains []string) bool {
	for _, d := range domains {
		if strings.Contains(host, d) {
			return true
		}
	}
	return false
}

func matchesKeyword(e har.Entry, keyword string) bool {
	return strings.Contains(strings.ToLower(e.Request.URL), keyword) ||
		strings.Contains(strings.ToLower(e.Request.BodyText()), keyword) ||
		strings.Contains(strings.ToLower(e.Response.BodyText()), keyword)
}

func matchesJSONPath(path jp.Expr, body string) bool {
	if body == "" {
		return false
	}
	var data any
	if err := oj.Unmarshal([]byte(body), &data); err != nil {
		return false
	}
	return len(path.Get(data)) > 0
}

// Filter runs c over doc and returns the slimmed survivors in input order.
// It fails only when doc is not a capture or c cannot be compiled.
func Filter(doc *har.Document, c Criteria) (*Result, error) {
	if doc == nil {
		return nil, &har.ValidationError{Message: "no capture supplied"}
	}
	if doc.Log.Entries == nil {
		return nil, &har.ValidationError{Message: "log.entries is missing"}
	}

	m, err := Compile(c)
	if err != nil {
		return nil, err
	}
	return m.Filter(doc)
}

// Filter applies the compiled criteria to doc.
func (m *Matcher) Filter(doc *har.Document) (*Result, error) {
	if doc == nil {
		return nil, &har.ValidationError{Message: "no capture supplied"}
	}

	entries := make([]har.Entry, 0, len(doc.Log.Entries))
	positions := make([]int, 0, len(doc.Log.Entries))
	for i, e := range doc.Log.Entries {
		if !m.Match(e) {
			continue
		}
		entries = append(entries, redact.SlimEntry(e))
		positions = append(positions, i)
	}

	return &Result{
		Document:  har.NewDocument(entries),
		Positions: positions,
		Total:     len(doc.Log.Entries),
	}, nil
}
