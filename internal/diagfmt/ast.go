package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"unsafescan/internal/ast"
	"unsafescan/internal/source"
)

type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Kind     string          `json:"kind,omitempty"`
	Name     string          `json:"name,omitempty"`
	Unsafe   bool            `json:"unsafe,omitempty"`
	Span     source.Span     `json:"span"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

// FormatASTPretty печатает outline файла деревом с отступами.
func FormatASTPretty(w io.Writer, builder *ast.Builder, fileID ast.FileID, fs *source.FileSet) error {
	if builder == nil || builder.Files.Get(fileID) == nil {
		return fmt.Errorf("file not found")
	}
	root := buildOutline(builder, fileID)

	header := "File"
	if fs != nil {
		if f := fs.Get(root.span.File); f != nil {
			header = fs.DisplayPath(f.ID)
		}
	}
	if _, err := fmt.Fprintf(w, "%s (span: %s)\n", header, formatSpan(root.span, fs)); err != nil {
		return err
	}
	return writeChildren(w, root, "", fs)
}

func writeChildren(w io.Writer, n *treeNode, prefix string, fs *source.FileSet) error {
	for i, child := range n.children {
		branch, next := "├─ ", "│  "
		if i == len(n.children)-1 {
			branch, next = "└─ ", "   "
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, branch, child.label(fs)); err != nil {
			return err
		}
		if err := writeChildren(w, child, prefix+next, fs); err != nil {
			return err
		}
	}
	return nil
}

func FormatASTJSON(w io.Writer, builder *ast.Builder, fileID ast.FileID) error {
	if builder == nil || builder.Files.Get(fileID) == nil {
		return fmt.Errorf("file not found")
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(toOutput(buildOutline(builder, fileID)))
}

func toOutput(n *treeNode) ASTNodeOutput {
	out := ASTNodeOutput{
		Type:   n.typ,
		Kind:   n.kind,
		Name:   n.name,
		Unsafe: n.unsafe,
		Span:   n.span,
	}
	for _, child := range n.children {
		out.Children = append(out.Children, toOutput(child))
	}
	return out
}
