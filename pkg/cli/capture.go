package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cowt/har-viewer/pkg/classify"
	"github.com/cowt/har-viewer/pkg/cli/internal/flags"
	"github.com/cowt/har-viewer/pkg/cli/internal/output"
	"github.com/cowt/har-viewer/pkg/filter"
	"github.com/cowt/har-viewer/pkg/har"
	"github.com/cowt/har-viewer/pkg/redact"
	"github.com/cowt/har-viewer/pkg/session"
)

// exitInvalidCapture is the exit code for input that is not a HAR capture.
const exitInvalidCapture = 2

// filterFlags are the criteria flags shared by every capture command.
type filterFlags struct {
	domains  flags.StringSlice
	status   string
	method   string
	keyword  string
	category string
	path     string
	expr     string
	jsonpath string
	deletes  []int
}

func (f *filterFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Var(&f.domains, "domain", "Keep hosts containing this substring (repeatable, OR-ed)")
	fs.StringVarP(&f.status, "status", "s", "", "Keep status codes starting with this digit, e.g. 4 for 4xx")
	fs.StringVarP(&f.method, "method", "m", "", "Keep this request method")
	fs.StringVarP(&f.keyword, "keyword", "k", "", "Keep entries whose URL or bodies contain this text")
	fs.StringVarP(&f.category, "type", "t", "", "Keep one resource type: "+categoryNames())
	fs.StringVar(&f.path, "path", "", "Keep URL paths matching this glob, e.g. /api/**")
	fs.StringVar(&f.expr, "expr", "", `Keep entries matching this expression, e.g. 'status >= 400 && method == "POST"'`)
	fs.StringVar(&f.jsonpath, "jsonpath", "", "Keep JSON responses where this path selects a value")
	fs.IntSliceVar(&f.deletes, "delete", nil, "Drop these positions of the filtered list before output (0-based)")
}

// criteria starts from the configured profile and replaces the fields given
// on the command line.
func (f *filterFlags) criteria(cmd *cobra.Command) (filter.Criteria, error) {
	var c filter.Criteria
	if cfg != nil {
		c = cfg.Filter
	}

	fs := cmd.Flags()
	if fs.Changed("domain") {
		c.Domains = []string(f.domains)
	}
	if fs.Changed("status") {
		c.StatusPrefix = f.status
	}
	if fs.Changed("method") {
		c.Method = f.method
	}
	if fs.Changed("keyword") {
		c.Keyword = f.keyword
	}
	if fs.Changed("type") {
		cat, ok := classify.ParseCategory(f.category)
		if !ok {
			return c, fmt.Errorf("unknown resource type %q (valid: %s)", f.category, categoryNames())
		}
		c.Category = cat
	}
	if fs.Changed("path") {
		c.PathGlob = f.path
	}
	if fs.Changed("expr") {
		c.Expr = f.expr
	}
	if fs.Changed("jsonpath") {
		c.JSONPath = f.jsonpath
	}
	return c, nil
}

func categoryNames() string {
	names := []string{string(classify.All)}
	for _, c := range classify.Categories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

// loadCapture reads a capture from path, or from stdin when path is "-".
func loadCapture(cmd *cobra.Command, path string) (*har.Document, error) {
	var (
		doc *har.Document
		err error
	)
	if path == "-" {
		doc, err = har.Read(cmd.InOrStdin())
	} else {
		doc, err = har.Load(path)
	}
	if err != nil {
		if errors.Is(err, har.ErrInvalidCapture) {
			return nil, &exitError{code: exitInvalidCapture, err: err}
		}
		return nil, err
	}
	logger.Debug("capture loaded", "path", path, "entries", len(doc.Log.Entries))
	return doc, nil
}

// openSession loads the capture at path, filters it and applies --delete.
func (f *filterFlags) openSession(cmd *cobra.Command, path string) (*session.Session, *session.View, error) {
	criteria, err := f.criteria(cmd)
	if err != nil {
		return nil, nil, err
	}

	doc, err := loadCapture(cmd, path)
	if err != nil {
		return nil, nil, err
	}

	s := session.New(session.WithLogger(logger))
	view, err := s.Process(doc, criteria)
	if err != nil {
		return nil, nil, err
	}

	// Delete from the highest position down so earlier positions stay valid.
	deletes := append([]int(nil), f.deletes...)
	sort.Sort(sort.Reverse(sort.IntSlice(deletes)))
	for i, idx := range deletes {
		if i > 0 && idx == deletes[i-1] {
			continue
		}
		if !s.Delete(idx) {
			output.Warn(cmd.ErrOrStderr(), "--delete %d is out of range (%d entries)", idx, view.Count)
		}
	}
	return s, view, nil
}

// printStatus writes the processing outcome to stderr.
func printStatus(w io.Writer, view *session.View) {
	fmt.Fprintln(w, view.Message)
}

var titleCaser = cases.Title(language.English)

// printWarnings lists credentials still present in the output, grouped by
// type and showing at most three per group.
func printWarnings(w io.Writer, warnings map[int][]redact.Warning) {
	total := 0
	byType := make(map[string][]string)
	for idx, list := range warnings {
		for _, warn := range list {
			byType[warn.Type] = append(byType[warn.Type], fmt.Sprintf("#%d: %s", idx, warn.Message))
			total++
		}
	}
	if total == 0 {
		return
	}

	output.Warn(w, "Found %d potential sensitive data issues:", total)
	types := make([]string, 0, len(byType))
	for typ := range byType {
		types = append(types, typ)
	}
	sort.Strings(types)
	for _, typ := range types {
		messages := byType[typ]
		sort.Strings(messages)
		fmt.Fprintf(w, "  %s (%d):\n", titleCaser.String(typ), len(messages))
		for i, msg := range messages {
			if i >= 3 {
				fmt.Fprintf(w, "    ... and %d more\n", len(messages)-3)
				break
			}
			fmt.Fprintf(w, "    - %s\n", msg)
		}
	}
}

// writeFile writes data to path, or to w when path is empty or "-".
func writeFile(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
