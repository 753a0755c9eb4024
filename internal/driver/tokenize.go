package driver

import (
	"fmt"

	"unsafescan/internal/diag"
	"unsafescan/internal/lexer"
	"unsafescan/internal/source"
	"unsafescan/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize runs only the lexer over one file.
func Tokenize(path string, opts Options) (*TokenizeResult, error) {
	fs := opts.newFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return tokenizeFile(fs, fileID, opts), nil
}

// TokenizeSource is Tokenize for in-memory content.
func TokenizeSource(name string, content []byte, opts Options) *TokenizeResult {
	fs := opts.newFileSet()
	return tokenizeFile(fs, fs.AddVirtual(name, content), opts)
}

func tokenizeFile(fs *source.FileSet, fileID source.FileID, opts Options) *TokenizeResult {
	file := fs.Get(fileID)
	bag := diag.NewBag(opts.MaxDiagnostics)
	lx := lexer.New(file, lexer.Options{Reporter: &diag.BagReporter{Bag: bag}})

	// собираем все токены до EOF включительно
	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}
}
