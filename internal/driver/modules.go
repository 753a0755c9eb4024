package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"unsafescan/internal/ast"
	"unsafescan/internal/diag"
	"unsafescan/internal/parser"
	"unsafescan/internal/source"
)

// modLoader resolves out-of-line `mod foo;` items of a crate and parses
// their files into the same builder, attaching them as ModItem.File.
//
// Lookup follows rustc: a crate root or mod.rs owns its directory, so
// `mod foo;` there means foo.rs or foo/mod.rs next to it; any other file
// bar.rs looks in bar/. Inline modules add their name to the directory,
// `#[path = "..."]` replaces the lookup entirely.
type modLoader struct {
	ctx     context.Context
	fs      *source.FileSet
	b       *ast.Builder
	rep     diag.Reporter
	opts    parser.Options
	loading map[string]bool       // файлы на текущем пути загрузки
	loaded  map[string]ast.FileID // уже разобранные файлы
	files   int
}

func newModLoader(ctx context.Context, fs *source.FileSet, b *ast.Builder, rep diag.Reporter, opts parser.Options) *modLoader {
	return &modLoader{
		ctx:     ctx,
		fs:      fs,
		b:       b,
		rep:     rep,
		opts:    opts,
		loading: make(map[string]bool),
		loaded:  make(map[string]ast.FileID),
		files:   1,
	}
}

// modScope is where child modules of the items being visited live.
type modScope struct {
	dir     string // каталог для `mod foo;` без #[path]
	fileDir string // каталог текущего файла
	inline  bool   // внутри inline `mod x { ... }`
}

func (ml *modLoader) crate(root ast.FileID, src source.FileID) {
	path := ml.fs.Get(src).Path
	key := canonical(path)
	ml.loading[key] = true
	ml.loaded[key] = root
	ml.file(root, path, true)
	delete(ml.loading, key)
}

// file visits the items of an already parsed file. modRS marks files that
// own their directory.
func (ml *modLoader) file(id ast.FileID, path string, modRS bool) {
	f := ml.b.Files.Get(id)
	if f == nil {
		return
	}
	dir := filepath.Dir(path)
	scope := modScope{dir: dir, fileDir: dir}
	if !modRS {
		scope.dir = filepath.Join(dir, strings.TrimSuffix(filepath.Base(path), ".rs"))
	}
	ml.items(f.Items, scope)
}

func (ml *modLoader) items(ids []ast.ItemID, scope modScope) {
	for _, id := range ids {
		if ml.ctx.Err() != nil {
			return
		}
		it := ml.b.Items.Get(id)
		if it == nil || it.Kind != ast.ItemMod {
			continue
		}
		md, _ := ml.b.Items.Mod(id)
		name := ml.b.Name(md.Ident.Name)
		pathAttr, hasPath := ml.pathAttr(it.Attrs)
		if md.Inline {
			child := scope
			child.inline = true
			if hasPath {
				child.dir = filepath.Join(scope.dir, pathAttr)
			} else {
				child.dir = filepath.Join(scope.dir, name)
			}
			ml.items(md.Items, child)
			continue
		}
		ml.outOfLine(id, it.Span, name, pathAttr, hasPath, scope)
	}
}

// outOfLine loads one `mod name;`. Arena pointers do not survive parsing
// another file, so the item is looked up again by id before it is updated.
func (ml *modLoader) outOfLine(id ast.ItemID, span source.Span, name, pathAttr string, hasPath bool, scope modScope) {
	var (
		path  string
		modRS bool
	)
	switch {
	case hasPath:
		base := scope.fileDir
		if scope.inline {
			base = scope.dir
		}
		path = filepath.Join(base, pathAttr)
		modRS = true
		if !exists(path) {
			diag.ReportError(ml.rep, diag.IOModuleNotFound, span,
				fmt.Sprintf("file not found for module `%s`", name)).
				WithNote(span, fmt.Sprintf("#[path] points to %q", path)).
				Emit()
			return
		}
	default:
		flat := filepath.Join(scope.dir, name+".rs")
		nested := filepath.Join(scope.dir, name, "mod.rs")
		hasFlat, hasNested := exists(flat), exists(nested)
		switch {
		case hasFlat && hasNested:
			diag.ReportError(ml.rep, diag.IOModuleAmbiguous, span,
				fmt.Sprintf("file for module `%s` found at both %q and %q", name, flat, nested)).
				WithNote(span, "delete or rename one of them to remove the ambiguity").
				Emit()
			return
		case hasFlat:
			path = flat
		case hasNested:
			path, modRS = nested, true
		default:
			diag.ReportError(ml.rep, diag.IOModuleNotFound, span,
				fmt.Sprintf("file not found for module `%s`", name)).
				WithNote(span, fmt.Sprintf("to create the module `%s`, create file %q", name, flat)).
				Emit()
			return
		}
	}

	key := canonical(path)
	if ml.loading[key] {
		diag.ReportError(ml.rep, diag.IOModuleCycle, span,
			fmt.Sprintf("circular modules: %q is already being loaded", path)).
			Emit()
		return
	}
	if fileID, ok := ml.loaded[key]; ok {
		ml.attach(id, fileID)
		return
	}

	src, err := ml.fs.Load(path)
	if err != nil {
		diag.ReportError(ml.rep, diag.IOLoadFileError, span,
			fmt.Sprintf("failed to load module `%s`: %v", name, err)).
			Emit()
		return
	}
	fileID := parseOne(ml.ctx, ml.fs, src, ml.b, ml.opts)
	ml.attach(id, fileID)
	ml.loaded[key] = fileID
	ml.files++

	ml.loading[key] = true
	ml.file(fileID, path, modRS || filepath.Base(path) == "mod.rs")
	delete(ml.loading, key)
}

func (ml *modLoader) attach(id ast.ItemID, file ast.FileID) {
	if md, ok := ml.b.Items.Mod(id); ok {
		md.File = file
	}
}

// pathAttr returns the value of an outer `#[path = "..."]` attribute.
func (ml *modLoader) pathAttr(attrs []ast.Attr) (string, bool) {
	for i := range attrs {
		a := &attrs[i]
		if a.ArgsKind != ast.AttrArgsEq || len(a.Path.Segments) != 1 {
			continue
		}
		if ml.b.Name(a.Path.Segments[0].Ident.Name) != "path" {
			continue
		}
		lit, ok := ml.b.Exprs.Lit(a.Value)
		if !ok || lit.Kind != ast.LitStr {
			continue
		}
		if s, ok := unquoteStr(ml.b.Name(lit.Text)); ok {
			return filepath.FromSlash(s), true
		}
	}
	return "", false
}

// unquoteStr decodes a Rust string literal as written in the source,
// including raw strings `r"..."` and `r#"..."#`.
func unquoteStr(raw string) (string, bool) {
	if strings.HasPrefix(raw, "r") {
		body := strings.TrimLeft(raw[1:], "#")
		hashes := strings.Repeat("#", len(raw)-1-len(body))
		if !strings.HasSuffix(body, hashes) {
			return "", false
		}
		body = body[:len(body)-len(hashes)]
		if len(body) < 2 || body[0] != '"' || body[len(body)-1] != '"' {
			return "", false
		}
		return body[1 : len(body)-1], true
	}
	if !strings.HasPrefix(raw, `"`) {
		return "", false
	}
	s, err := strconv.Unquote(raw)
	if err != nil {
		return "", false
	}
	return s, true
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func canonical(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if real, err := filepath.EvalSymlinks(path); err == nil {
		path = real
	}
	return filepath.Clean(path)
}
