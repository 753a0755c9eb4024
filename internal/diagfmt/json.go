package diagfmt

import (
	"encoding/json"
	"io"

	"unsafescan/internal/diag"
	"unsafescan/internal/source"
)

// Pos is a 1-based line and character column.
type Pos struct {
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}

// Location points into a file by byte offsets. Start and End are filled
// only with JSONOpts.IncludePositions.
type Location struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	Start     *Pos   `json:"start,omitempty"`
	End       *Pos   `json:"end,omitempty"`
}

type Note struct {
	Message  string   `json:"message"`
	Location Location `json:"location"`
}

type Diagnostic struct {
	Severity string   `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Location Location `json:"location"`
	Notes    []Note   `json:"notes,omitempty"`
}

// Output is the root of the JSON document. Errors and Warnings count the
// whole bag; Truncated is how many diagnostics JSONOpts.Max cut off.
type Output struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
	Count       int          `json:"count"`
	Errors      int          `json:"errors"`
	Warnings    int          `json:"warnings"`
	Truncated   int          `json:"truncated,omitempty"`
}

func jsonLocation(span source.Span, fs *source.FileSet, opts JSONOpts) Location {
	loc := Location{StartByte: span.Start, EndByte: span.End}
	if f := fs.Get(span.File); f != nil {
		loc.File = f.FormatPath(opts.PathMode, fs.BaseDir())
	}
	if opts.IncludePositions {
		start, end := fs.ResolveChars(span)
		loc.Start = &Pos{Line: start.Line, Col: start.Col}
		loc.End = &Pos{Line: end.Line, Col: end.Col}
	}
	return loc
}

// BuildOutput converts bag without serializing it. The bag itself is not
// sorted here.
func BuildOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) Output {
	out := Output{Diagnostics: []Diagnostic{}}
	if bag == nil {
		return out
	}
	items := bag.Items()
	for _, d := range items {
		switch d.Severity {
		case diag.SevError:
			out.Errors++
		case diag.SevWarning:
			out.Warnings++
		}
	}
	if opts.Max > 0 && opts.Max < len(items) {
		out.Truncated = len(items) - opts.Max
		items = items[:opts.Max]
	}

	for _, d := range items {
		dj := Diagnostic{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: jsonLocation(d.Primary, fs, opts),
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				dj.Notes = append(dj.Notes, Note{Message: n.Msg, Location: jsonLocation(n.Span, fs, opts)})
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON writes bag as an indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildOutput(bag, fs, opts))
}
