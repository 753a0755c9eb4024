package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// skipDirs are never descended into during a directory scan.
var skipDirs = map[string]bool{
	"target": true, // cargo build output
}

// ListRustFiles returns the sorted *.rs files under dir. Hidden entries,
// target/ and paths matched by the root .gitignore (when opts.Gitignore is
// set) or by opts.Exclude are skipped.
func ListRustFiles(ctx context.Context, dir string, opts Options) ([]string, error) {
	ignores, err := compileIgnores(dir, opts)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == dir {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if isHidden(d.Name()) || skipDirs[d.Name()] || ignored(ignores, rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if isHidden(d.Name()) || !strings.HasSuffix(path, ".rs") || ignored(ignores, rel) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

func compileIgnores(dir string, opts Options) ([]*gitignore.GitIgnore, error) {
	var out []*gitignore.GitIgnore
	if opts.Gitignore {
		path := filepath.Join(dir, ".gitignore")
		if _, err := os.Stat(path); err == nil {
			gi, err := gitignore.CompileIgnoreFile(path)
			if err != nil {
				return nil, err
			}
			out = append(out, gi)
		}
	}
	if len(opts.Exclude) > 0 {
		out = append(out, gitignore.CompileIgnoreLines(opts.Exclude...))
	}
	return out, nil
}

func ignored(ignores []*gitignore.GitIgnore, rel string) bool {
	for _, gi := range ignores {
		if gi.MatchesPath(rel) {
			return true
		}
	}
	return false
}

func isHidden(name string) bool {
	return len(name) > 1 && strings.HasPrefix(name, ".")
}
