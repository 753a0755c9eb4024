// Package auditfmt renders an audit.Result: the plain text report, JSON and
// msgpack.
package auditfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"unsafescan/internal/audit"
	"unsafescan/internal/source"
)

// SourceMap turns spans back into locations and original text.
// *source.FileSet implements it.
type SourceMap interface {
	Render(span source.Span) string
	Snippet(span source.Span) (string, error)
	ResolveChars(span source.Span) (start, end source.LineCol)
	DisplayPath(id source.FileID) string
}

var _ SourceMap = (*source.FileSet)(nil)

type Options struct {
	Color bool
	// Lenient prints a placeholder instead of failing when a snippet
	// cannot be recovered.
	Lenient bool
}

// SnippetError is returned when the text of a region cannot be recovered.
type SnippetError struct {
	Location string
	Err      error
}

func (e *SnippetError) Error() string {
	return fmt.Sprintf("%s: cannot recover snippet: %v", e.Location, e.Err)
}

func (e *SnippetError) Unwrap() error { return e.Err }

// snippet recovers the text of r. In lenient mode a failure becomes a
// placeholder and is reported through the second result.
func snippet(sm SourceMap, r audit.Region, opts Options) (text string, unavailable error, err error) {
	text, err = sm.Snippet(r.Span)
	if err == nil {
		return text, nil, nil
	}
	if opts.Lenient {
		return fmt.Sprintf("<source unavailable: %v>", err), err, nil
	}
	return "", nil, &SnippetError{Location: sm.Render(r.Span), Err: err}
}

// Header returns the first line of a text report.
func Header(n int) string {
	return fmt.Sprintf("Found %d unsafe blocks or functions.", n)
}

// Text writes the report in the stable text form:
//
//	Found <N> unsafe blocks or functions.
//
//	<location>:
//	<snippet>
//
// Every entry's snippet is recovered before the entry is written.
func Text(w io.Writer, res *audit.Result, sm SourceMap, opts Options) error {
	loc := color.New(color.FgYellow, color.Bold)
	if opts.Color {
		loc.EnableColor()
	} else {
		loc.DisableColor()
	}

	if _, err := fmt.Fprintf(w, "%s\n\n", Header(res.Len())); err != nil {
		return err
	}
	if res == nil {
		return nil
	}
	for _, r := range res.Regions {
		text, _, err := snippet(sm, r, opts)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s:\n%s\n\n", loc.Sprint(sm.Render(r.Span)), text); err != nil {
			return err
		}
	}
	return nil
}
