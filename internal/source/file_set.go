package source

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"fortio.org/safecast"
)

// ErrSourceUnavailable is returned when the text behind a span can no longer be recovered.
var ErrSourceUnavailable = errors.New("source text unavailable")

// FileSet manages a collection of source files and resolves spans back to text.
type FileSet struct {
	files    []File
	index    map[string]FileID // path -> id
	baseDir  string            // базовая директория для относительных путей
	pathMode PathMode
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// NewFileSetWithBase создаёт FileSet с заданной базовой директорией.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

// SetBaseDir устанавливает базовую директорию для относительных путей.
func (fileSet *FileSet) SetBaseDir(dir string) {
	fileSet.baseDir = dir
}

// BaseDir returns the directory used for relative paths, defaulting to the working directory.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// SetPathMode selects how Render prints file paths.
func (fileSet *FileSet) SetPathMode(mode PathMode) {
	fileSet.pathMode = mode
}

// Add stores file content, computes LineIdx and Hash, and returns a new FileID.
// It always creates a new FileID even if a file with the same path already exists.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	hash := sha256.Sum256(content)
	normalizedPath := normalizePath(path)
	if hasCRLF(content) {
		flags |= FileHasCRLF
	}

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    hash,
		Flags:   flags,
	})
	fileSet.index[normalizedPath] = id
	return id
}

// Load reads a file from disk, strips a UTF-8 BOM and calls Add.
// Line endings are kept byte for byte so snippets match the file on disk.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	content, hadBOM := removeBOM(content)
	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	return fileSet.Add(path, content, flags), nil
}

// AddVirtual adds a virtual file (stdin, test, or generated) with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the file metadata for the given ID, or nil if the ID is unknown.
func (fileSet *FileSet) Get(id FileID) *File {
	if int(id) >= len(fileSet.files) {
		return nil
	}
	return &fileSet.files[id]
}

// Len returns the number of files ever added.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// GetLatest returns the latest file ID for the given path, if it exists.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

// Release drops the content of a file. Spans into it can still be rendered,
// but Snippet fails with ErrSourceUnavailable.
func (fileSet *FileSet) Release(id FileID) {
	f := fileSet.Get(id)
	if f == nil {
		return
	}
	f.Content = nil
	f.Flags |= FileReleased
}

// Resolve converts a span into 1-based line and byte-column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// ResolveChars is Resolve with columns counted in characters instead of bytes.
// Falls back to byte columns when the content was released.
func (fileSet *FileSet) ResolveChars(span Span) (start, end LineCol) {
	f := fileSet.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return f.charPos(span.Start), f.charPos(span.End)
}

// Render formats a span as "<path>:<line>:<col>: <line>:<col>".
func (fileSet *FileSet) Render(span Span) string {
	f := fileSet.Get(span.File)
	if f == nil {
		return fmt.Sprintf("<unknown file %d>:%d-%d", span.File, span.Start, span.End)
	}
	lo, hi := fileSet.ResolveChars(span)
	return fmt.Sprintf("%s:%d:%d: %d:%d", fileSet.DisplayPath(span.File), lo.Line, lo.Col, hi.Line, hi.Col)
}

// Snippet returns the exact source text covered by span.
func (fileSet *FileSet) Snippet(span Span) (string, error) {
	f := fileSet.Get(span.File)
	if f == nil {
		return "", fmt.Errorf("file %d: %w", span.File, ErrSourceUnavailable)
	}
	if f.Flags&FileReleased != 0 {
		return "", fmt.Errorf("%s: content released: %w", f.Path, ErrSourceUnavailable)
	}
	if span.End < span.Start || int(span.End) > len(f.Content) {
		return "", fmt.Errorf("%s: span %s out of range (len %d): %w", f.Path, span, len(f.Content), ErrSourceUnavailable)
	}
	return string(f.Content[span.Start:span.End]), nil
}

// DisplayPath returns the path of file id formatted with the FileSet's path mode.
func (fileSet *FileSet) DisplayPath(id FileID) string {
	f := fileSet.Get(id)
	if f == nil {
		return ""
	}
	return f.FormatPath(fileSet.pathMode, fileSet.BaseDir())
}

// GetLine возвращает строку с заданным номером (1-based) из файла.
// Если строка не существует, возвращает пустую строку.
func (f *File) GetLine(lineNum uint32) string {
	start, end, ok := f.lineBounds(lineNum)
	if !ok {
		return ""
	}
	return string(f.Content[start:end])
}

func (f *File) lineBounds(lineNum uint32) (start, end uint32, ok bool) {
	if lineNum == 0 {
		return 0, 0, false
	}
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	idx := int(lineNum) - 1
	switch {
	case idx == 0:
		start = 0
	case idx-1 < len(f.LineIdx):
		start = f.LineIdx[idx-1] + 1
	default:
		return 0, 0, false
	}
	if idx < len(f.LineIdx) {
		end = f.LineIdx[idx]
	} else {
		end = lenContent
	}
	if start > lenContent {
		return 0, 0, false
	}
	end = min(end, lenContent)
	// \r перед \n не считается частью строки
	if end > start && f.Content[end-1] == '\r' {
		end--
	}
	return start, end, true
}

func (f *File) charPos(off uint32) LineCol {
	pos := toLineCol(f.LineIdx, off)
	if f.Content == nil {
		return pos
	}
	lineStart := off - (pos.Col - 1)
	end := min(int(off), len(f.Content))
	if int(lineStart) > end {
		return pos
	}
	chars, err := safecast.Conv[uint32](utf8.RuneCount(f.Content[lineStart:end]))
	if err != nil {
		panic(fmt.Errorf("column overflow: %w", err))
	}
	return LineCol{Line: pos.Line, Col: chars + 1}
}

// FormatPath форматирует путь к файлу в зависимости от режима.
func (f *File) FormatPath(mode PathMode, baseDir string) string {
	switch mode {
	case PathModeAbsolute:
		if f.Flags&FileVirtual != 0 {
			return f.Path
		}
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
		return f.Path

	case PathModeRelative:
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
		return f.Path

	case PathModeBasename:
		return BaseName(f.Path)

	default:
		// короткий или относительный путь - как есть, иначе basename
		if len(f.Path) < 40 || !filepath.IsAbs(f.Path) {
			return f.Path
		}
		return BaseName(f.Path)
	}
}
