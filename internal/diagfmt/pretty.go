package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"unsafescan/internal/diag"
	"unsafescan/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		loc := location(fs, d.Primary, opts.PathMode)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.loc.Sprint(loc), p.severity(d.Severity).Sprint(d.Severity.String()), d.Code.ID(), d.Message)
		printContext(w, fs, d.Primary, opts.Context, p.gutter, p.severity(d.Severity))
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(fs, n.Span, opts.PathMode), n.Msg)
		}
	}
}

type palette struct {
	loc, err, warn, info, note, gutter *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		loc:    color.New(color.Bold),
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan),
		note:   color.New(color.FgBlue, color.Bold),
		gutter: color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{p.loc, p.err, p.warn, p.info, p.note, p.gutter} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// location печатает начало span как path:line:col.
func location(fs *source.FileSet, span source.Span, mode source.PathMode) string {
	f := fs.Get(span.File)
	if f == nil {
		return fmt.Sprintf("<file %d>", span.File)
	}
	start, _ := fs.ResolveChars(span)
	return fmt.Sprintf("%s:%d:%d", f.FormatPath(mode, fs.BaseDir()), start.Line, start.Col)
}

func printContext(w io.Writer, fs *source.FileSet, span source.Span, around int8, gutter, mark *color.Color) {
	f := fs.Get(span.File)
	start, _ := fs.Resolve(span)
	lines := collectContext(f, start.Line, around)
	if len(lines) == 0 {
		return
	}
	width := len(fmt.Sprint(lines[len(lines)-1].num))
	for _, ln := range lines {
		fmt.Fprintf(w, "%s %s\n", gutter.Sprintf("%*d |", width, ln.num), ln.text)
		if ln.num == start.Line {
			if u := underline(f, span, ln.num, ln.text); u != "" {
				fmt.Fprintf(w, "%s %s\n", gutter.Sprintf("%*s |", width, ""), mark.Sprint(u))
			}
		}
	}
}
