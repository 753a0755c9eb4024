package auditfmt

import (
	"encoding/json"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"unsafescan/internal/audit"
	"unsafescan/internal/source"
)

// RegionReport is one region in the machine readable report.
type RegionReport struct {
	Kind      string `json:"kind"`
	Name      string `json:"name,omitempty"`
	Location  string `json:"location"`
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line"`
	StartCol  uint32 `json:"start_col"`
	EndLine   uint32 `json:"end_line"`
	EndCol    uint32 `json:"end_col"`
	Snippet   string `json:"snippet"`
	// Error is set only in lenient mode, when the snippet is a placeholder.
	Error string `json:"error,omitempty"`
}

// Report is the machine readable form of one audit.Result.
type Report struct {
	File    string         `json:"file,omitempty"`
	Count   int            `json:"count"`
	Regions []RegionReport `json:"regions"`
}

// DirReport aggregates the reports of a directory scan.
type DirReport struct {
	Files     []Report `json:"files"`
	FileCount int      `json:"file_count"`
	Total     int      `json:"total"`
}

// BuildReport converts res without serializing it. The snippet rules are
// the same as for Text.
func BuildReport(res *audit.Result, sm SourceMap, opts Options) (Report, error) {
	rep := Report{Count: res.Len(), Regions: make([]RegionReport, 0, res.Len())}
	if res == nil {
		return rep, nil
	}
	for _, r := range res.Regions {
		text, unavailable, err := snippet(sm, r, opts)
		if err != nil {
			return Report{}, err
		}
		start, end := sm.ResolveChars(r.Span)
		rr := RegionReport{
			Kind:      r.Kind.String(),
			Name:      r.Name,
			Location:  sm.Render(r.Span),
			File:      sm.DisplayPath(r.Span.File),
			StartByte: r.Span.Start,
			EndByte:   r.Span.End,
			StartLine: start.Line,
			StartCol:  start.Col,
			EndLine:   end.Line,
			EndCol:    end.Col,
			Snippet:   text,
		}
		if unavailable != nil {
			rr.Error = unavailable.Error()
		}
		rep.Regions = append(rep.Regions, rr)
	}
	return rep, nil
}

// FileResult pairs one file of a directory scan with its result.
type FileResult struct {
	File   source.FileID
	Result *audit.Result
}

// BuildDirReport converts the results of a directory scan, keeping their
// order.
func BuildDirReport(files []FileResult, sm SourceMap, opts Options) (DirReport, error) {
	dir := DirReport{Files: make([]Report, 0, len(files)), FileCount: len(files)}
	for _, f := range files {
		rep, err := BuildReport(f.Result, sm, opts)
		if err != nil {
			return DirReport{}, err
		}
		rep.File = sm.DisplayPath(f.File)
		dir.Total += rep.Count
		dir.Files = append(dir.Files, rep)
	}
	return dir, nil
}

// JSON writes res as an indented JSON Report.
func JSON(w io.Writer, res *audit.Result, sm SourceMap, opts Options) error {
	rep, err := BuildReport(res, sm, opts)
	if err != nil {
		return err
	}
	return EncodeJSON(w, rep)
}

// MsgPack writes res as a msgpack Report. Field names follow the JSON form.
func MsgPack(w io.Writer, res *audit.Result, sm SourceMap, opts Options) error {
	rep, err := BuildReport(res, sm, opts)
	if err != nil {
		return err
	}
	return EncodeMsgPack(w, rep)
}

// EncodeJSON writes a Report or DirReport.
func EncodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// EncodeMsgPack writes a Report or DirReport.
func EncodeMsgPack(w io.Writer, v any) error {
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("json")
	return enc.Encode(v)
}
