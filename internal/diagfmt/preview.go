package diagfmt

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"unsafescan/internal/source"
)

// contextLine is one source line printed under a diagnostic.
type contextLine struct {
	num  uint32
	text string
}

// collectContext returns the lines around line, clamped to the file.
func collectContext(f *source.File, line uint32, around int8) []contextLine {
	if f == nil || f.Content == nil || line == 0 {
		return nil
	}
	total := lineCount(f)
	lo, hi := line, line
	if around > 0 {
		n := uint32(around)
		lo = line - min(line-1, n)
		hi = min(total, line+n)
	}
	out := make([]contextLine, 0, hi-lo+1)
	for ln := lo; ln <= hi; ln++ {
		out = append(out, contextLine{num: ln, text: strings.TrimRight(f.GetLine(ln), "\r")})
	}
	return out
}

func lineCount(f *source.File) uint32 {
	n, err := safecast.Conv[uint32](len(f.LineIdx) + 1)
	if err != nil {
		panic(fmt.Errorf("line count overflow: %w", err))
	}
	return n
}

func lineStartOffset(f *source.File, line uint32) uint32 {
	if line <= 1 {
		return 0
	}
	idx := line - 2
	if int(idx) < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	lenFileContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return lenFileContent
}

// underline builds the `^~~~` marker for span on its first line. Tabs are
// kept so the marker lines up with the printed source.
func underline(f *source.File, span source.Span, line uint32, text string) string {
	start := lineStartOffset(f, line)
	if span.Start < start {
		return ""
	}
	col := int(span.Start - start)
	col = min(col, len(text))
	width := int(span.Len())
	if rest := len(text) - col; width > rest {
		width = rest
	}
	var sb strings.Builder
	for i := range col {
		if text[i] == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
	}
	sb.WriteByte('^')
	if width > 1 {
		sb.WriteString(strings.Repeat("~", width-1))
	}
	return sb.String()
}
